package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"portflow/internal/domain"
	"portflow/internal/repository"
)

// modeFromString maps a stored mode column back to the domain enum.
// Unknown values pass through untouched so old rows stay readable.
func modeFromString(s string) domain.Mode {
	switch s {
	case string(domain.ModeBaseline):
		return domain.ModeBaseline
	case string(domain.ModeAfter):
		return domain.ModeAfter
	default:
		return domain.Mode(s)
	}
}

// sessionRow holds all columns from a session query for scanning
type sessionRow struct {
	ID        string
	Label     string
	Mode      string
	Data      []byte
	CreatedAt time.Time
}

// scanArgs returns pointers to all fields for sql.Scan().
// MUST match the SELECT order: id, label, mode, data, created_at
func (r *sessionRow) scanArgs() []interface{} {
	return []interface{}{
		&r.ID,
		&r.Label,
		&r.Mode,
		&r.Data,
		&r.CreatedAt,
	}
}

// toRecord converts the scanned row to a repository.SessionRecord.
// Indexed columns override whatever the JSON document says.
func (r *sessionRow) toRecord() (*repository.SessionRecord, error) {
	rec := &repository.SessionRecord{
		ID:        r.ID,
		Label:     r.Label,
		Mode:      modeFromString(r.Mode),
		CreatedAt: r.CreatedAt,
	}
	if err := json.Unmarshal(r.Data, &rec.Session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}
	rec.Session.Mode = rec.Mode
	return rec, nil
}

// reportRow holds all columns from a report query for scanning
type reportRow struct {
	ID        string
	SessionID string
	Data      []byte
	CreatedAt time.Time
}

// scanArgs returns pointers to all fields for sql.Scan().
// MUST match the SELECT order: id, session_id, data, created_at
func (r *reportRow) scanArgs() []interface{} {
	return []interface{}{
		&r.ID,
		&r.SessionID,
		&r.Data,
		&r.CreatedAt,
	}
}

// toRecord converts the scanned row to a repository.ReportRecord
func (r *reportRow) toRecord() (*repository.ReportRecord, error) {
	rec := &repository.ReportRecord{
		ID:        r.ID,
		SessionID: r.SessionID,
		CreatedAt: r.CreatedAt,
	}
	if err := json.Unmarshal(r.Data, &rec.Report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report data: %w", err)
	}
	return rec, nil
}
