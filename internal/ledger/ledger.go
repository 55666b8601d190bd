// Package ledger tracks which (user, action) deliveries have been counted.
//
// Event sources deliver at least once with no ordering guarantee. The ledger
// entry is the source of truth for idempotency: MarkCounted performs a
// uniqueness-guarded insert and reports whether this delivery won, and the
// checklist counter is derived from ledger cardinality instead of being
// incremented independently. Duplicate deliveries therefore cannot
// double-count even when they race.
package ledger

import (
	"context"

	"refguard/pkg/domain"
)

// Store is the ledger persistence contract.
type Store interface {
	// WasCounted reports whether the action was already counted for the user.
	WasCounted(ctx context.Context, userID domain.UserID, actionID domain.ActionID) (bool, error)

	// MarkCounted records the delivery. counted is false when the action was
	// already present; count is the resulting number of ledger entries for
	// (userID, actionType) and is valid in both cases.
	MarkCounted(ctx context.Context, userID domain.UserID, actionType domain.ItemKey, actionID domain.ActionID) (counted bool, count int, err error)

	// CountByType returns the ledger cardinality for (userID, actionType).
	CountByType(ctx context.Context, userID domain.UserID, actionType domain.ItemKey) (int, error)
}
