package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/eportaro/langchain-waha-flaskapi/internal/history"
	"github.com/eportaro/langchain-waha-flaskapi/internal/leads"
	"github.com/eportaro/langchain-waha-flaskapi/internal/media"
	"github.com/eportaro/langchain-waha-flaskapi/internal/observability/metrics"
	"github.com/eportaro/langchain-waha-flaskapi/internal/profile"
	"github.com/eportaro/langchain-waha-flaskapi/pkg/logging"
)

// InboundMessage is one message from one conversation counterpart. Group
// messages are rejected upstream and never reach the service.
type InboundMessage struct {
	ChatID string
	Text   string
}

// Responder generates the assistant's answer for the Q&A capability.
type Responder interface {
	Respond(ctx context.Context, turns []history.Turn, prof profile.Profile, current string) string
}

// MediaPipeline drives the download→extract→transcribe→save chain.
type MediaPipeline interface {
	Run(ctx context.Context, input media.Input) (string, error)
}

// Notifier tells a registered lead that an advisor will reach out.
type Notifier interface {
	AdvisorContact(ctx context.Context, name, email, program string) error
}

// Service is the top-level controller: it routes each inbound message to
// one capability and always produces exactly one reply string, whatever
// fails underneath.
//
// The service holds no cross-request state. Profile and routing decisions
// are recomputed from the passed-in history on every call, so concurrent
// conversations need no coordination.
type Service struct {
	normalizer *history.Normalizer
	extractor  *profile.Extractor
	responder  Responder
	pipeline   MediaPipeline
	leadsRepo  leads.Repository
	notifier   Notifier
	metrics    *metrics.AssistantMetrics
	logger     *logging.Logger
	routes     []route
}

func NewService(
	normalizer *history.Normalizer,
	extractor *profile.Extractor,
	responder Responder,
	pipeline MediaPipeline,
	leadsRepo leads.Repository,
	notifier Notifier,
	m *metrics.AssistantMetrics,
	logger *logging.Logger,
) *Service {
	if normalizer == nil {
		panic("assistant: normalizer cannot be nil")
	}
	if extractor == nil {
		panic("assistant: extractor cannot be nil")
	}
	if responder == nil {
		panic("assistant: responder cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}

	s := &Service{
		normalizer: normalizer,
		extractor:  extractor,
		responder:  responder,
		pipeline:   pipeline,
		leadsRepo:  leadsRepo,
		notifier:   notifier,
		metrics:    m,
		logger:     logger,
	}
	s.routes = buildRoutes(s)
	return s
}

// HandleMessage processes one inbound message against the stored history
// and returns the single reply to send back. Any internal failure,
// including a panic anywhere in the call chain, is converted into a
// descriptive failure reply; the one-reply contract always holds.
func (s *Service) HandleMessage(ctx context.Context, msg InboundMessage, rawHistory []history.RawMessage) (reply string) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic while handling message", "chat_id", msg.ChatID, "panic", r)
			reply = fmt.Sprintf("Ocurrió un error al procesar tu mensaje: %v", r)
		}
		s.metrics.ObserveHandleLatency(time.Since(start).Seconds())
	}()

	turns := s.normalizer.Normalize(rawHistory, msg.Text)
	prof := s.extractor.Extract(turns)

	rc := &requestContext{
		msg:     msg,
		turns:   turns,
		profile: prof,
	}

	for _, rt := range s.routes {
		if !rt.match(rc) {
			continue
		}
		s.logger.Info("message routed", "chat_id", msg.ChatID, "intent", rt.name)
		s.metrics.ObserveMessage(rt.name)
		return rt.handle(ctx, rc)
	}

	// The answering route matches unconditionally, so this is unreachable;
	// keep a safe reply anyway.
	return fallbackFailureReply
}

const fallbackFailureReply = "Lo siento, no pude procesar tu mensaje. ¿Podrías intentarlo de nuevo? 😊"
