package audit

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore persists audit events in the audit_events table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events (occurred_at, user_id, action, outcome, reason, request_id, client_ip, device)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		event.Timestamp, event.UserID, event.Action, event.Outcome,
		event.Reason, event.RequestID, event.ClientIP, event.Device)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT occurred_at, user_id, action, outcome, reason, request_id, client_ip, device
		FROM audit_events WHERE user_id = $1 ORDER BY occurred_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []Event
	for rows.Next() {
		var event Event
		if err := rows.Scan(&event.Timestamp, &event.UserID, &event.Action, &event.Outcome,
			&event.Reason, &event.RequestID, &event.ClientIP, &event.Device); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	return events, nil
}
