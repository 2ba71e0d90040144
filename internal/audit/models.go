// Package audit emits one event per orchestrator dispatch to a durable topic
// for compliance review. Publishing is best-effort and never blocks or fails
// the dispatch that produced the event.
package audit

import (
	"time"

	"nordkyc/internal/domain"
)

// Event records a single pipeline dispatch outcome.
type Event struct {
	EventID    string        `json:"eventId"`
	SessionID  string        `json:"sessionId"`
	Function   string        `json:"function"`
	Status     domain.Status `json:"status"`
	Country    string        `json:"country,omitempty"`
	NationalID string        `json:"nationalId,omitempty"` // redacted to last 4
	OccurredAt time.Time     `json:"occurredAt"`
}

// Redact keeps only the last four characters of an identifier.
func Redact(nationalID string) string {
	if len(nationalID) <= 4 {
		return nationalID
	}
	return "****" + nationalID[len(nationalID)-4:]
}
