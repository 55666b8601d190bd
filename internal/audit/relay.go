package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// OutboxSource is the slice of the postgres store the relay needs.
type OutboxSource interface {
	FetchUnpublished(ctx context.Context, limit int) ([]OutboxRow, error)
	MarkPublished(ctx context.Context, id uuid.UUID) error
}

// OutboxRow is one unpublished event handed to the relay.
type OutboxRow struct {
	ID      uuid.UUID
	UserID  string
	Payload []byte
}

// Sink publishes one audit payload; the Kafka producer satisfies this.
type Sink interface {
	Produce(ctx context.Context, topic string, key, value []byte) error
}

// Relay drains the outbox into Kafka. Rows are only stamped published after
// the broker ack, so a crash between produce and stamp re-publishes. The
// stream is at-least-once and consumers dedupe on event id.
type Relay struct {
	source   OutboxSource
	sink     Sink
	topic    string
	interval time.Duration
	batch    int
	logger   *slog.Logger
}

func NewRelay(source OutboxSource, sink Sink, topic string, interval time.Duration, logger *slog.Logger) *Relay {
	return &Relay{
		source:   source,
		sink:     sink,
		topic:    topic,
		interval: interval,
		batch:    100,
		logger:   logger,
	}
}

// Run polls until the context is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.drain(ctx); err != nil {
				r.logger.ErrorContext(ctx, "audit outbox drain failed", "error", err)
			}
		}
	}
}

func (r *Relay) drain(ctx context.Context) error {
	rows, err := r.source.FetchUnpublished(ctx, r.batch)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := r.sink.Produce(ctx, r.topic, []byte(row.UserID), row.Payload); err != nil {
			// Leave the row unpublished; the next tick retries from here.
			return err
		}
		if err := r.source.MarkPublished(ctx, row.ID); err != nil {
			return err
		}
	}
	return nil
}
