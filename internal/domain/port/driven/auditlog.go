package driven

import (
	"context"
	"time"

	"github.com/ericfisherdev/credstash/internal/domain/model"
)

// AuditLog defines the driven port for the change journal. Events carry
// record ids and actions only, never field values.
type AuditLog interface {
	// Append records a single event. CreatedAt is set by the adapter when zero.
	Append(ctx context.Context, event model.AuditEvent) error

	// Recent returns up to limit events, newest first.
	Recent(ctx context.Context, limit int) ([]model.AuditEvent, error)

	// Purge deletes events created before the cutoff and returns how many
	// were removed.
	Purge(ctx context.Context, before time.Time) (int64, error)
}
