// Package sqlite implements the archive on SQLite. Each record is a
// JSON document with indexed metadata columns; the indexed columns are
// the source of truth for identity fields.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"portflow/internal/repository"
)

// Archive implements repository.Archive using SQLite
type Archive struct {
	db *sql.DB
}

// New creates a new SQLite archive
func New(dbPath string) (*Archive, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	a := &Archive{db: db}
	if err := a.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return a, nil
}

func (a *Archive) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		mode TEXT NOT NULL,
		data JSON NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		data JSON NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_mode ON sessions(mode);
	CREATE INDEX IF NOT EXISTS idx_sessions_label ON sessions(label);
	CREATE INDEX IF NOT EXISTS idx_reports_session ON reports(session_id);
	`

	_, err := a.db.Exec(schema)
	return err
}

// SaveSession inserts or updates a session record. A missing ID is
// assigned; a missing timestamp is set to now.
func (a *Archive) SaveSession(ctx context.Context, rec *repository.SessionRecord) error {
	if err := rec.Session.Validate(); err != nil {
		return fmt.Errorf("invalid session: %w", err)
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	rec.Mode = rec.Session.Mode

	data, err := json.Marshal(rec.Session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	_, err = a.db.ExecContext(ctx, `
		INSERT INTO sessions (id, label, mode, data, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			label = excluded.label,
			mode = excluded.mode,
			data = excluded.data
	`, rec.ID, rec.Label, string(rec.Mode), data, rec.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}
	return nil
}

// GetSession retrieves a single session record by ID. Returns nil when
// the ID is unknown.
func (a *Archive) GetSession(ctx context.Context, id string) (*repository.SessionRecord, error) {
	row := sessionRow{}
	err := a.db.QueryRowContext(ctx, `
		SELECT id, label, mode, data, created_at FROM sessions WHERE id = ?
	`, id).Scan(row.scanArgs()...)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	return row.toRecord()
}

// ListSessions returns summaries of all stored sessions, newest first.
func (a *Archive) ListSessions(ctx context.Context) ([]repository.SessionSummary, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, label, mode, created_at FROM sessions ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var out []repository.SessionSummary
	for rows.Next() {
		var s repository.SessionSummary
		var mode string
		if err := rows.Scan(&s.ID, &s.Label, &mode, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		s.Mode = modeFromString(mode)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}
	return out, nil
}

// DeleteSession removes a session and its reports
func (a *Archive) DeleteSession(ctx context.Context, id string) error {
	// Reports are deleted by CASCADE
	_, err := a.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// SaveReport stores an analysis result against its source session.
func (a *Archive) SaveReport(ctx context.Context, rec *repository.ReportRecord) error {
	if rec.SessionID == "" {
		return fmt.Errorf("report record requires a session id")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(rec.Report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	_, err = a.db.ExecContext(ctx, `
		INSERT INTO reports (id, session_id, data, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			session_id = excluded.session_id,
			data = excluded.data
	`, rec.ID, rec.SessionID, data, rec.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert report: %w", err)
	}
	return nil
}

// GetReport retrieves a single report record by ID. Returns nil when
// the ID is unknown.
func (a *Archive) GetReport(ctx context.Context, id string) (*repository.ReportRecord, error) {
	row := reportRow{}
	err := a.db.QueryRowContext(ctx, `
		SELECT id, session_id, data, created_at FROM reports WHERE id = ?
	`, id).Scan(row.scanArgs()...)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query report: %w", err)
	}

	return row.toRecord()
}

// ListReports returns all reports for a session, newest first.
func (a *Archive) ListReports(ctx context.Context, sessionID string) ([]*repository.ReportRecord, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, session_id, data, created_at FROM reports
		WHERE session_id = ? ORDER BY created_at DESC, id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var out []*repository.ReportRecord
	for rows.Next() {
		row := reportRow{}
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		rec, err := row.toRecord()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}
	return out, nil
}

// Close closes the database connection
func (a *Archive) Close() error {
	return a.db.Close()
}
