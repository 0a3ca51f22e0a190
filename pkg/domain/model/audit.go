package model

import (
	"time"

	"github.com/aweos-lab/wikireminder/pkg/domain/types"
)

// AuditEntry is an append-only record of an administrative or
// engine-driven state change.
type AuditEntry struct {
	ID         types.AuditID
	Action     types.AuditAction
	EntityType string
	EntityID   string

	// Details is an optional JSON blob with action-specific context.
	Details string

	ActorEmail string
	CreatedAt  time.Time
}
