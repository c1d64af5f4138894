package retrieval

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbeddingClient struct {
	nextVectors [][]float32
	err         error
	calls       int
}

func (s *stubEmbeddingClient) CreateEmbeddings(ctx context.Context, req openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error) {
	s.calls++
	if s.err != nil {
		return openai.EmbeddingResponse{}, s.err
	}
	data := make([]openai.Embedding, len(s.nextVectors))
	for i, vec := range s.nextVectors {
		data[i] = openai.Embedding{Embedding: vec, Index: i}
	}
	return openai.EmbeddingResponse{Data: data}, nil
}

func TestMemoryStoreAddAndQuery(t *testing.T) {
	client := &stubEmbeddingClient{}
	store := NewMemoryStore(client, "text-embedding-ada-002", nil)

	client.nextVectors = [][]float32{
		{1, 0},
		{0, 1},
	}
	require.NoError(t, store.AddDocuments(context.Background(), []string{
		"DataPath ofrece el programa AI Engineer",
		"El programa Data Analyst dura seis meses",
	}))

	client.nextVectors = [][]float32{{0.9, 0.1}}
	passages, err := store.Query(context.Background(), "¿qué es el programa AI Engineer?", 2)
	require.NoError(t, err)
	require.Len(t, passages, 2)
	assert.Equal(t, "DataPath ofrece el programa AI Engineer", passages[0].Content)
	assert.Greater(t, passages[0].Score, passages[1].Score)
}

func TestMemoryStoreQueryRespectsTopK(t *testing.T) {
	client := &stubEmbeddingClient{}
	store := NewMemoryStore(client, "", nil)

	client.nextVectors = [][]float32{{1, 0}, {0, 1}, {1, 1}}
	require.NoError(t, store.AddDocuments(context.Background(), []string{"a", "b", "c"}))

	client.nextVectors = [][]float32{{1, 0}}
	passages, err := store.Query(context.Background(), "q", 1)
	require.NoError(t, err)
	require.Len(t, passages, 1)
}

func TestMemoryStoreEmptyIndexReturnsNoPassages(t *testing.T) {
	client := &stubEmbeddingClient{nextVectors: [][]float32{{1, 0}}}
	store := NewMemoryStore(client, "", nil)

	passages, err := store.Query(context.Background(), "q", 5)
	require.NoError(t, err)
	assert.Empty(t, passages)
}

func TestMemoryStoreUnavailableIsDistinguishable(t *testing.T) {
	client := &stubEmbeddingClient{err: errors.New("connection refused")}
	store := NewMemoryStore(client, "", nil)

	_, err := store.Query(context.Background(), "q", 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))

	err = store.AddDocuments(context.Background(), []string{"doc"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestMemoryStoreEmbeddingSizeMismatch(t *testing.T) {
	client := &stubEmbeddingClient{nextVectors: [][]float32{{1, 0}}}
	store := NewMemoryStore(client, "", nil)

	err := store.AddDocuments(context.Background(), []string{"a", "b"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnavailable))
}
