package leads

import (
	"strings"
	"time"
)

// Lead is a fully-qualified prospective-student record. A lead only exists
// once name, email and program are all known; partial leads are never
// created.
type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Program   string    `json:"program"`
	ChatID    string    `json:"chat_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateLeadRequest carries the fields required to register a lead.
type CreateLeadRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Program string `json:"program"`
	ChatID  string `json:"chat_id"`
}

// Validate rejects the request unless every lead field is present.
func (r *CreateLeadRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrIncompleteLead
	}
	if strings.TrimSpace(r.Email) == "" {
		return ErrIncompleteLead
	}
	if strings.TrimSpace(r.Program) == "" {
		return ErrIncompleteLead
	}
	return nil
}
