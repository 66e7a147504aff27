package repository

import (
	"context"
	"time"

	"portflow/internal/domain"
	"portflow/internal/flow"
)

// SessionRecord is a stored raw measurement session.
type SessionRecord struct {
	ID        string         `json:"id"`
	Label     string         `json:"label"`
	Mode      domain.Mode    `json:"mode"`
	CreatedAt time.Time      `json:"created_at"`
	Session   domain.Session `json:"session"`
}

// ReportRecord is a stored analysis result tied to the session it was
// computed from.
type ReportRecord struct {
	ID        string      `json:"id"`
	SessionID string      `json:"session_id"`
	CreatedAt time.Time   `json:"created_at"`
	Report    flow.Report `json:"report"`
}

// SessionSummary is the listing view of a stored session.
type SessionSummary struct {
	ID        string      `json:"id"`
	Label     string      `json:"label"`
	Mode      domain.Mode `json:"mode"`
	CreatedAt time.Time   `json:"created_at"`
}

// Archive defines the interface for session and report persistence
type Archive interface {
	// Session operations
	SaveSession(ctx context.Context, rec *SessionRecord) error
	GetSession(ctx context.Context, id string) (*SessionRecord, error)
	ListSessions(ctx context.Context) ([]SessionSummary, error)
	DeleteSession(ctx context.Context, id string) error

	// Report operations
	SaveReport(ctx context.Context, rec *ReportRecord) error
	GetReport(ctx context.Context, id string) (*ReportRecord, error)
	ListReports(ctx context.Context, sessionID string) ([]*ReportRecord, error)

	// Close releases resources
	Close() error
}
