package history

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/eportaro/langchain-waha-flaskapi/pkg/logging"
)

// Execer is the subset of pgxpool.Pool the archiver needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Archiver mirrors chat rows into Postgres for durable history. Redis is
// the read path; the archive exists so conversations survive a cache wipe.
type Archiver struct {
	db     Execer
	logger *logging.Logger
}

func NewArchiver(db Execer, logger *logging.Logger) *Archiver {
	if logger == nil {
		logger = logging.Default()
	}
	return &Archiver{db: db, logger: logger}
}

// Archive inserts one chat row. Failures are logged, not propagated: the
// archive is best-effort and must never break a conversation turn.
func (a *Archiver) Archive(ctx context.Context, chatID string, role Role, body string) {
	if a == nil || a.db == nil {
		return
	}
	query := `
		INSERT INTO chat_history (chat_id, sender, message)
		VALUES ($1, $2, $3)
	`
	if _, err := a.db.Exec(ctx, query, chatID, string(role), body); err != nil {
		a.logger.Warn("failed to archive chat row", "chat_id", chatID, "error", err)
	}
}
