package audit

import (
	"context"
	"time"

	"refguard/pkg/domain"
)

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

// Emit persists one event synchronously. Decision paths treat a failure here
// as fatal for the operation: a finalization that cannot be audited must not
// stand unexplained.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return p.store.Append(ctx, event)
}

func (p *Publisher) List(ctx context.Context, userID domain.UserID) ([]Event, error) {
	return p.store.ListByUser(ctx, userID)
}
