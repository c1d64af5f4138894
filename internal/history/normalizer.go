package history

import (
	"time"

	"github.com/eportaro/langchain-waha-flaskapi/pkg/logging"
)

// Role marks which party produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// RawMessage is one stored chat row as the history store returns it.
// Body is a pointer because stored rows can carry null bodies.
type RawMessage struct {
	Body      *string   `json:"body"`
	IsUser    bool      `json:"isUser"`
	CreatedAt time.Time `json:"created_at"`
}

// Turn is one normalized dialogue entry.
type Turn struct {
	Role    Role
	Content string
	At      time.Time
}

// Normalizer rebuilds an ordered dialogue from loosely structured rows.
type Normalizer struct {
	logger *logging.Logger
}

func NewNormalizer(logger *logging.Logger) *Normalizer {
	if logger == nil {
		logger = logging.Default()
	}
	return &Normalizer{logger: logger}
}

// Normalize converts raw rows into chronological turns and appends the
// current inbound message as the final user turn. Rows with missing or
// empty bodies are dropped with a diagnostic; a malformed row never fails
// the batch.
func (n *Normalizer) Normalize(raw []RawMessage, current string) []Turn {
	turns := make([]Turn, 0, len(raw)+1)
	for i, msg := range raw {
		if msg.Body == nil || *msg.Body == "" {
			n.logger.Debug("dropping history row without body", "index", i)
			continue
		}
		role := RoleAssistant
		if msg.IsUser {
			role = RoleUser
		}
		turns = append(turns, Turn{Role: role, Content: *msg.Body, At: msg.CreatedAt})
	}

	if isNewestFirst(turns) {
		for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
			turns[i], turns[j] = turns[j], turns[i]
		}
	}

	if current != "" {
		turns = append(turns, Turn{Role: RoleUser, Content: current, At: time.Now().UTC()})
	}
	return turns
}

// isNewestFirst reports whether the rows arrived in reverse-chronological
// order. Rows without timestamps are assumed already chronological.
func isNewestFirst(turns []Turn) bool {
	for i := 0; i < len(turns)-1; i++ {
		a, b := turns[i].At, turns[i+1].At
		if a.IsZero() || b.IsZero() || a.Equal(b) {
			continue
		}
		return a.After(b)
	}
	return false
}
