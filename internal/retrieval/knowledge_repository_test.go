package retrieval

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnowledgeRepositoryAdd(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO knowledge_documents").
		WithArgs(pgxmock.AnyArg(), "DataPath ofrece cinco programas").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewPostgresKnowledgeRepository(mock)
	doc, err := repo.Add(context.Background(), "DataPath ofrece cinco programas")
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "DataPath ofrece cinco programas", doc.Content)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestKnowledgeRepositoryAddRejectsEmpty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresKnowledgeRepository(mock)
	_, err = repo.Add(context.Background(), "")
	require.Error(t, err)
}

func TestKnowledgeRepositoryList(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT id, content, created_at").
		WillReturnRows(pgxmock.NewRows([]string{"id", "content", "created_at"}).
			AddRow("1", "doc uno", now).
			AddRow("2", "doc dos", now.Add(time.Minute)))

	repo := NewPostgresKnowledgeRepository(mock)
	docs, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "doc uno", docs[0].Content)
	assert.Equal(t, "doc dos", docs[1].Content)
	require.NoError(t, mock.ExpectationsWereMet())
}
