package store

import (
	"fmt"
	"time"
)

// AuditEntry is one recorded bot action: a lookup, a confirmation outcome,
// or a command, correlated by trace ID.
type AuditEntry struct {
	ID        int64
	TraceID   string
	Sender    string
	Action    string
	Target    string
	Status    string
	Detail    string
	CreatedAt time.Time
}

// WriteAudit records one action. target is the action's subject (usually the
// canonical lookup query); detail carries free text such as an error message.
func (s *Store) WriteAudit(traceID, sender, action, target, status, detail string) error {
	_, err := s.db.Exec(`
		INSERT INTO audit_log (trace_id, sender, action, target, status, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, traceID, sender, action, target, status, detail, time.Now())
	if err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

// RecentAudit returns the newest entries, most recent first.
func (s *Store) RecentAudit(limit int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, trace_id, sender, action, target, status, detail, created_at
		FROM audit_log
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(&e.ID, &e.TraceID, &e.Sender, &e.Action, &e.Target, &e.Status, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
