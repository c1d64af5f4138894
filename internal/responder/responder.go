package responder

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"

	"github.com/eportaro/langchain-waha-flaskapi/internal/history"
	"github.com/eportaro/langchain-waha-flaskapi/internal/profile"
	"github.com/eportaro/langchain-waha-flaskapi/internal/retrieval"
	"github.com/eportaro/langchain-waha-flaskapi/pkg/logging"
)

var tracer = otel.Tracer("assistant.internal.responder")

type chatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Responder composes the instruction block and produces the assistant's
// reply. It owns the user-facing failure policy: whatever breaks
// downstream, Respond returns a usable reply string.
type Responder struct {
	client    chatClient
	retriever retrieval.Retriever
	model     string
	topK      int
	logger    *logging.Logger
}

func New(client chatClient, retriever retrieval.Retriever, model string, topK int, logger *logging.Logger) *Responder {
	if client == nil {
		panic("responder: chat client cannot be nil")
	}
	if retriever == nil {
		panic("responder: retriever cannot be nil")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	if topK <= 0 {
		topK = retrieval.DefaultTopK
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Responder{
		client:    client,
		retriever: retriever,
		model:     model,
		topK:      topK,
		logger:    logger,
	}
}

// Respond answers the current message given the full dialogue (which
// already includes the current message as its final turn) and the profile
// extracted from it.
func (r *Responder) Respond(ctx context.Context, turns []history.Turn, prof profile.Profile, current string) string {
	ctx, span := tracer.Start(ctx, "responder.respond")
	defer span.End()

	// Deterministic shortcut: a farewell with a gratitude cue never needs
	// retrieval or generation.
	if prof.Farewell && containsGratitude(current) {
		return farewellReply(prof)
	}

	passages, err := r.retriever.Query(ctx, current, r.topK)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, retrieval.ErrUnavailable) {
			r.logger.Error("retrieval service unavailable", "error", err)
			return retrievalDownReply
		}
		// Unexpected retrieval failure: proceed without context rather
		// than losing the turn.
		r.logger.Warn("retrieval failed, answering without context", "error", err)
		passages = nil
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(turns)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: buildSystemPrompt(prof, passages),
	})
	for _, turn := range turns {
		role := openai.ChatMessageRoleAssistant
		if turn.Role == history.RoleUser {
			role = openai.ChatMessageRoleUser
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: turn.Content,
		})
	}

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    r.model,
		Messages: messages,
	})
	if err != nil {
		span.RecordError(err)
		r.logger.Error("chat completion failed", "error", err)
		return fallbackReply
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		r.logger.Error("chat completion returned no choices")
		return fallbackReply
	}
	return resp.Choices[0].Message.Content
}
