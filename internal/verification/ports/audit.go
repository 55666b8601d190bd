package ports

import (
	"context"

	"refguard/internal/audit"
)

//go:generate mockgen -source=audit.go -destination=mocks/audit-mocks.go -package=mocks AuditPublisher

// AuditPublisher defines the interface for emitting audit events. It matches
// audit.Publisher but is defined here to maintain hexagonal boundaries.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
