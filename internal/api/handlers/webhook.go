package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/eportaro/langchain-waha-flaskapi/internal/assistant"
	"github.com/eportaro/langchain-waha-flaskapi/internal/history"
	"github.com/eportaro/langchain-waha-flaskapi/pkg/logging"
)

type historyStore interface {
	Append(ctx context.Context, chatID string, role history.Role, body string) error
	Recent(ctx context.Context, chatID string, limit int) ([]history.RawMessage, error)
}

type historyArchiver interface {
	Archive(ctx context.Context, chatID string, role history.Role, body string)
}

type messageSender interface {
	SendMessage(ctx context.Context, chatID, text string) error
	StartTyping(ctx context.Context, chatID string) error
	StopTyping(ctx context.Context, chatID string) error
}

type messageHandler interface {
	HandleMessage(ctx context.Context, msg assistant.InboundMessage, rawHistory []history.RawMessage) string
}

// WebhookHandler receives WAHA message events, runs them through the
// assistant and sends the reply back over WhatsApp.
type WebhookHandler struct {
	assistant    messageHandler
	store        historyStore
	archiver     historyArchiver
	sender       messageSender
	logger       *logging.Logger
	historyLimit int
}

type WebhookConfig struct {
	Assistant    messageHandler
	Store        historyStore
	Archiver     historyArchiver
	Sender       messageSender
	Logger       *logging.Logger
	HistoryLimit int
}

func NewWebhookHandler(cfg WebhookConfig) *WebhookHandler {
	if cfg.Assistant == nil {
		panic("handlers: assistant cannot be nil")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	limit := cfg.HistoryLimit
	if limit <= 0 {
		limit = 10
	}
	return &WebhookHandler{
		assistant:    cfg.Assistant,
		store:        cfg.Store,
		archiver:     cfg.Archiver,
		sender:       cfg.Sender,
		logger:       cfg.Logger,
		historyLimit: limit,
	}
}

type wahaEvent struct {
	Event   string `json:"event"`
	Payload struct {
		From string `json:"from"`
		Body string `json:"body"`
	} `json:"payload"`
}

// HandleMessage processes one WAHA "message" event. Group chats are
// acknowledged and ignored; everything else gets exactly one reply.
func (h *WebhookHandler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var evt wahaEvent
	if err := json.NewDecoder(r.Body).Decode(&evt); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	chatID := strings.TrimSpace(evt.Payload.From)
	text := evt.Payload.Body
	if chatID == "" {
		http.Error(w, "missing chat id", http.StatusBadRequest)
		return
	}
	if strings.Contains(chatID, "@g.us") {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "success",
			"message": "group message ignored",
		})
		return
	}

	ctx := r.Context()
	h.logger.Info("webhook event received", "chat_id", chatID, "event", evt.Event)

	if h.sender != nil {
		if err := h.sender.StartTyping(ctx, chatID); err != nil {
			h.logger.Warn("start typing failed", "chat_id", chatID, "error", err)
		}
	}

	if h.store != nil {
		if err := h.store.Append(ctx, chatID, history.RoleUser, text); err != nil {
			h.logger.Warn("append user message failed", "chat_id", chatID, "error", err)
		}
	}
	if h.archiver != nil {
		h.archiver.Archive(ctx, chatID, history.RoleUser, text)
	}

	var raw []history.RawMessage
	if h.store != nil {
		var err error
		raw, err = h.store.Recent(ctx, chatID, h.historyLimit)
		if err != nil {
			// The assistant can still answer from the current message alone.
			h.logger.Warn("history lookup failed", "chat_id", chatID, "error", err)
			raw = nil
		}
	}

	reply := h.assistant.HandleMessage(ctx, assistant.InboundMessage{ChatID: chatID, Text: text}, raw)

	if h.store != nil {
		if err := h.store.Append(ctx, chatID, history.RoleAssistant, reply); err != nil {
			h.logger.Warn("append reply failed", "chat_id", chatID, "error", err)
		}
	}
	if h.archiver != nil {
		h.archiver.Archive(ctx, chatID, history.RoleAssistant, reply)
	}

	if h.sender != nil {
		if err := h.sender.SendMessage(ctx, chatID, reply); err != nil {
			h.logger.Error("send reply failed", "chat_id", chatID, "error", err)
		}
		if err := h.sender.StopTyping(ctx, chatID); err != nil {
			h.logger.Warn("stop typing failed", "chat_id", chatID, "error", err)
		}
	}

	h.logger.Info("webhook event handled", "chat_id", chatID, "duration_ms", time.Since(start).Milliseconds())
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
