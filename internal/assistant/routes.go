package assistant

import (
	"context"
	"strings"

	"github.com/eportaro/langchain-waha-flaskapi/internal/history"
	"github.com/eportaro/langchain-waha-flaskapi/internal/media"
	"github.com/eportaro/langchain-waha-flaskapi/internal/profile"
)

// Intent labels, used for logging and metrics.
const (
	intentMedia = "processing_media"
	intentLead  = "capturing_lead"
	intentQA    = "answering"
)

// requestContext carries everything derived from one inbound message
// through matching and handling.
type requestContext struct {
	msg     InboundMessage
	turns   []history.Turn
	profile profile.Profile
	media   media.Input
}

// route pairs a predicate with a capability handler.
type route struct {
	name   string
	match  func(rc *requestContext) bool
	handle func(ctx context.Context, rc *requestContext) string
}

// buildRoutes returns the ordered route table. Order is the tie-break
// rule: media processing beats lead capture beats Q&A, because the more
// specific intents lose real functionality when mis-routed to the generic
// answer path.
func buildRoutes(s *Service) []route {
	return []route{
		{
			name: intentMedia,
			match: func(rc *requestContext) bool {
				input, ok := media.Detect(rc.msg.Text)
				if ok {
					rc.media = input
				}
				return ok
			},
			handle: s.handleMedia,
		},
		{
			name: intentLead,
			match: func(rc *requestContext) bool {
				return containsAdvisorIntent(rc.msg.Text) || awaitingLeadData(rc.turns)
			},
			handle: s.handleLead,
		},
		{
			name:   intentQA,
			match:  func(rc *requestContext) bool { return true },
			handle: s.handleAnswer,
		},
	}
}

var advisorIntentPhrases = []string{
	"asesor",
	"asesoría",
	"asesoria",
	"información personalizada",
	"informacion personalizada",
	"hablar con alguien",
	"que me contacten",
	"quiero que me llamen",
}

func containsAdvisorIntent(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range advisorIntentPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// awaitingLeadData reports whether the previous assistant turn was a
// request for lead fields. That is how lead capture spans turns without
// any persisted state: the question in the history is the state.
func awaitingLeadData(turns []history.Turn) bool {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role != history.RoleAssistant {
			continue
		}
		return strings.Contains(strings.ToLower(turns[i].Content), leadAskMarker)
	}
	return false
}

func (s *Service) handleAnswer(ctx context.Context, rc *requestContext) string {
	return s.responder.Respond(ctx, rc.turns, rc.profile, rc.msg.Text)
}
