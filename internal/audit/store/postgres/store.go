// Package postgres implements audit.Store using the transactional outbox
// pattern. Events are written to the outbox table and published to Kafka by
// the relay; Kafka is the source of truth for downstream consumers, the
// table remains queryable for the admin surface.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"refguard/internal/audit"
	"refguard/pkg/domain"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the outbox table. Call once at startup.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS audit_outbox (
			id           UUID PRIMARY KEY,
			user_id      TEXT NOT NULL,
			action       TEXT NOT NULL,
			payload      JSONB NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL,
			published_at TIMESTAMPTZ
		)`)
	if err != nil {
		return fmt.Errorf("create audit_outbox: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS audit_outbox_unpublished
		ON audit_outbox (created_at) WHERE published_at IS NULL`)
	if err != nil {
		return fmt.Errorf("create audit_outbox index: %w", err)
	}
	return nil
}

// payload is the JSON structure stored in the outbox and published to Kafka.
type payload struct {
	ID         string   `json:"id"`
	Timestamp  string   `json:"timestamp"`
	UserID     string   `json:"user_id"`
	ReferrerID string   `json:"referrer_id,omitempty"`
	Action     string   `json:"action"`
	Reason     string   `json:"reason,omitempty"`
	Score      int      `json:"score"`
	Flags      []string `json:"flags,omitempty"`
	PriorScore int      `json:"prior_score,omitempty"`
	PriorFlags []string `json:"prior_flags,omitempty"`
	ActorID    string   `json:"actor_id,omitempty"`
	RequestID  string   `json:"request_id,omitempty"`
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	eventID := uuid.New()

	body, err := json.Marshal(payload{
		ID:         eventID.String(),
		Timestamp:  event.Timestamp.Format(time.RFC3339Nano),
		UserID:     event.UserID.String(),
		ReferrerID: event.ReferrerID.String(),
		Action:     string(event.Action),
		Reason:     event.Reason,
		Score:      event.Score,
		Flags:      event.Flags,
		PriorScore: event.PriorScore,
		PriorFlags: event.PriorFlags,
		ActorID:    event.ActorID,
		RequestID:  event.RequestID,
	})
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audit_outbox (id, user_id, action, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		eventID, event.UserID.String(), string(event.Action), body, event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert audit outbox row: %w", err)
	}
	return nil
}

func (s *Store) ListByUser(ctx context.Context, userID domain.UserID) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM audit_outbox
		WHERE user_id = $1 ORDER BY created_at`,
		userID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var out []audit.Event
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan audit row: %w", err)
		}
		var p payload
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, fmt.Errorf("decode audit payload: %w", err)
		}
		out = append(out, decodeEvent(p))
	}
	return out, rows.Err()
}

// FetchUnpublished returns the oldest unpublished rows, bounded by limit.
func (s *Store) FetchUnpublished(ctx context.Context, limit int) ([]audit.OutboxRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, payload FROM audit_outbox
		WHERE published_at IS NULL ORDER BY created_at LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query outbox: %w", err)
	}
	defer rows.Close()

	var out []audit.OutboxRow
	for rows.Next() {
		var row audit.OutboxRow
		if err := rows.Scan(&row.ID, &row.UserID, &row.Payload); err != nil {
			return nil, fmt.Errorf("scan outbox row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// MarkPublished stamps the row after the broker acked it.
func (s *Store) MarkPublished(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE audit_outbox SET published_at = $1 WHERE id = $2`,
		time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("mark outbox row published: %w", err)
	}
	return nil
}

func decodeEvent(p payload) audit.Event {
	ts, _ := time.Parse(time.RFC3339Nano, p.Timestamp)
	return audit.Event{
		Timestamp:  ts,
		UserID:     domain.UserID(p.UserID),
		ReferrerID: domain.UserID(p.ReferrerID),
		Action:     audit.Action(p.Action),
		Reason:     p.Reason,
		Score:      p.Score,
		Flags:      p.Flags,
		PriorScore: p.PriorScore,
		PriorFlags: p.PriorFlags,
		ActorID:    p.ActorID,
		RequestID:  p.RequestID,
	}
}
