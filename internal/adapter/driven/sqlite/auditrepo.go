package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ericfisherdev/credstash/internal/domain/model"
	"github.com/ericfisherdev/credstash/internal/domain/port/driven"
)

// timeLayout is how created_at values are written and compared.
const timeLayout = "2006-01-02T15:04:05.000Z"

// Compile-time interface satisfaction check.
var _ driven.AuditLog = (*AuditRepo)(nil)

// AuditRepo is the SQLite implementation of the AuditLog port interface.
type AuditRepo struct {
	db *DB
}

// NewAuditRepo creates a new AuditRepo backed by the given DB.
func NewAuditRepo(db *DB) *AuditRepo {
	return &AuditRepo{db: db}
}

// Append inserts one event. A zero CreatedAt is replaced with the current time.
func (r *AuditRepo) Append(ctx context.Context, event model.AuditEvent) error {
	createdAt := event.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var recordID sql.NullInt64
	if event.RecordID != nil {
		recordID = sql.NullInt64{Int64: int64(*event.RecordID), Valid: true}
	}

	const query = `INSERT INTO audit_events (session_id, action, record_id, detail, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.Writer.ExecContext(ctx, query,
		event.SessionID, string(event.Action), recordID, event.Detail, createdAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("append audit event %q: %w", event.Action, err)
	}
	return nil
}

// Recent returns up to limit events, newest first.
func (r *AuditRepo) Recent(ctx context.Context, limit int) ([]model.AuditEvent, error) {
	const query = `SELECT id, session_id, action, record_id, detail, created_at
		FROM audit_events ORDER BY created_at DESC, id DESC LIMIT ?`
	rows, err := r.db.Reader.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []model.AuditEvent
	for rows.Next() {
		var (
			ev        model.AuditEvent
			action    string
			recordID  sql.NullInt64
			createdAt string
		)
		if err := rows.Scan(&ev.ID, &ev.SessionID, &action, &recordID, &ev.Detail, &createdAt); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		ev.Action = model.AuditAction(action)
		if recordID.Valid {
			id := int(recordID.Int64)
			ev.RecordID = &id
		}
		ev.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at for audit event %d: %w", ev.ID, err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}

// Purge deletes events created before the cutoff.
func (r *AuditRepo) Purge(ctx context.Context, before time.Time) (int64, error) {
	const query = `DELETE FROM audit_events WHERE created_at < ?`
	res, err := r.db.Writer.ExecContext(ctx, query, before.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("purge audit events: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge audit events: %w", err)
	}
	return n, nil
}

// parseTime accepts the formats SQLite and this package write timestamps in.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		timeLayout,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		time.RFC3339,
		time.RFC3339Nano,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %q", s)
}
