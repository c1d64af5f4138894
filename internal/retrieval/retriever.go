package retrieval

import (
	"context"
	"errors"
)

// DefaultTopK is how many passages a query returns unless configured
// otherwise.
const DefaultTopK = 15

// ErrUnavailable marks a retrieval failure caused by the underlying
// embedding/vector service being unreachable. Callers must treat this
// differently from an empty result: zero passages means "nothing relevant",
// ErrUnavailable means "could not look".
var ErrUnavailable = errors.New("retrieval: service unavailable")

// Passage is one unit of context text returned for a query.
type Passage struct {
	Content string
	Score   float64
}

// Retriever returns the passages most relevant to a query, best first.
// Implementations must not mutate state on Query.
type Retriever interface {
	Query(ctx context.Context, query string, topK int) ([]Passage, error)
}
