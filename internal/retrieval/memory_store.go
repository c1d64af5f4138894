package retrieval

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	openai "github.com/sashabaranov/go-openai"

	"github.com/eportaro/langchain-waha-flaskapi/pkg/logging"
)

type embeddingClient interface {
	CreateEmbeddings(ctx context.Context, request openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// MemoryStore keeps document embeddings in memory and answers queries by
// cosine similarity. Documents are embedded once on ingestion; queries
// embed only the query text.
type MemoryStore struct {
	client embeddingClient
	model  string
	logger *logging.Logger

	mu   sync.RWMutex
	docs []document
}

type document struct {
	content   string
	embedding []float32
}

func NewMemoryStore(client embeddingClient, model string, logger *logging.Logger) *MemoryStore {
	if client == nil {
		panic("retrieval: embedding client cannot be nil")
	}
	if model == "" {
		model = "text-embedding-ada-002"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &MemoryStore{
		client: client,
		model:  model,
		logger: logger,
	}
}

// AddDocuments embeds and stores the provided contents.
func (s *MemoryStore) AddDocuments(ctx context.Context, contents []string) error {
	if len(contents) == 0 {
		return nil
	}

	req := &openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(s.model),
		Input: contents,
	}
	resp, err := s.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return fmt.Errorf("%w: embed documents: %v", ErrUnavailable, err)
	}
	if len(resp.Data) != len(contents) {
		return errors.New("retrieval: embedding response size mismatch")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range resp.Data {
		s.docs = append(s.docs, document{
			content:   contents[i],
			embedding: item.Embedding,
		})
	}
	return nil
}

// Query returns the topK most similar passages, best first.
func (s *MemoryStore) Query(ctx context.Context, query string, topK int) ([]Passage, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	req := &openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(s.model),
		Input: []string{query},
	}
	resp, err := s.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", ErrUnavailable, err)
	}
	if len(resp.Data) == 0 {
		return nil, nil
	}
	queryVec := resp.Data[0].Embedding

	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.docs) == 0 {
		return nil, nil
	}

	results := make([]Passage, 0, len(s.docs))
	for _, doc := range s.docs {
		results = append(results, Passage{
			Content: doc.content,
			Score:   cosineSimilarity(queryVec, doc.embedding),
		})
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Len reports how many documents are currently embedded.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i] * b[i])
		normA += float64(a[i] * a[i])
		normB += float64(b[i] * b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
