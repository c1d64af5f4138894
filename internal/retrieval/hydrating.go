package retrieval

import (
	"context"
	"sync"

	"github.com/eportaro/langchain-waha-flaskapi/pkg/logging"
)

// KnowledgeLister is the read side of the knowledge repository.
type KnowledgeLister interface {
	List(ctx context.Context) ([]Document, error)
}

// HydratingRetriever wraps a MemoryStore and keeps it up-to-date by
// embedding any documents appended to the knowledge repository since the
// last query. It assumes the repository is append-only, so it only ever
// embeds the tail.
type HydratingRetriever struct {
	repo   KnowledgeLister
	store  *MemoryStore
	logger *logging.Logger

	mu       sync.Mutex
	hydrated int
}

func NewHydratingRetriever(repo KnowledgeLister, store *MemoryStore, logger *logging.Logger) *HydratingRetriever {
	if repo == nil {
		panic("retrieval: knowledge repo cannot be nil")
	}
	if store == nil {
		panic("retrieval: memory store cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &HydratingRetriever{
		repo:   repo,
		store:  store,
		logger: logger,
	}
}

// Query hydrates new documents, then delegates to the memory store.
// A hydration failure is logged but does not block the query: answering
// from a slightly stale index beats not answering at all.
func (h *HydratingRetriever) Query(ctx context.Context, query string, topK int) ([]Passage, error) {
	if err := h.ensureHydrated(ctx); err != nil {
		h.logger.Warn("failed to hydrate knowledge documents", "error", err)
	}
	return h.store.Query(ctx, query, topK)
}

func (h *HydratingRetriever) ensureHydrated(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	docs, err := h.repo.List(ctx)
	if err != nil {
		return err
	}
	if h.hydrated >= len(docs) {
		return nil
	}

	contents := make([]string, 0, len(docs)-h.hydrated)
	for _, doc := range docs[h.hydrated:] {
		contents = append(contents, doc.Content)
	}
	if err := h.store.AddDocuments(ctx, contents); err != nil {
		return err
	}
	h.hydrated = len(docs)
	return nil
}
