package leads

import "errors"

var (
	// ErrIncompleteLead is returned when any lead field is missing.
	// Registration is all-or-nothing.
	ErrIncompleteLead = errors.New("leads: incomplete lead")

	// ErrLeadNotFound is returned when a lead is not found.
	ErrLeadNotFound = errors.New("leads: lead not found")
)
