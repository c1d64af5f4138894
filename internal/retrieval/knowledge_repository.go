package retrieval

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Document is one knowledge base entry.
type Document struct {
	ID        string
	Content   string
	CreatedAt time.Time
}

// KnowledgeDB is the subset of pgxpool.Pool the repository needs.
type KnowledgeDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresKnowledgeRepository stores knowledge documents in Postgres.
// Documents are append-only; the hydrating retriever relies on that.
type PostgresKnowledgeRepository struct {
	db KnowledgeDB
}

func NewPostgresKnowledgeRepository(db KnowledgeDB) *PostgresKnowledgeRepository {
	if db == nil {
		panic("retrieval: knowledge db cannot be nil")
	}
	return &PostgresKnowledgeRepository{db: db}
}

// Add appends one document.
func (r *PostgresKnowledgeRepository) Add(ctx context.Context, content string) (*Document, error) {
	if content == "" {
		return nil, fmt.Errorf("retrieval: document content cannot be empty")
	}
	id := uuid.NewString()
	query := `
		INSERT INTO knowledge_documents (id, content)
		VALUES ($1, $2)
	`
	if _, err := r.db.Exec(ctx, query, id, content); err != nil {
		return nil, fmt.Errorf("retrieval: insert document failed: %w", err)
	}
	return &Document{ID: id, Content: content, CreatedAt: time.Now().UTC()}, nil
}

// List returns all documents in insertion order.
func (r *PostgresKnowledgeRepository) List(ctx context.Context) ([]Document, error) {
	query := `
		SELECT id, content, created_at
		FROM knowledge_documents
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("retrieval: list documents failed: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Content, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("retrieval: scan document failed: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("retrieval: iterate documents failed: %w", err)
	}
	return docs, nil
}
