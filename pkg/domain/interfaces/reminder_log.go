package interfaces

import (
	"context"
	"time"

	"github.com/aweos-lab/wikireminder/pkg/domain/model"
	"github.com/aweos-lab/wikireminder/pkg/domain/types"
)

// ReminderLogRepository defines data access for reminder log entries
type ReminderLogRepository interface {
	// Create creates a new log entry with auto-generated ID.
	Create(ctx context.Context, log *model.ReminderLog) (*model.ReminderLog, error)

	// Get retrieves a log entry by ID. Returns ErrNotFound if missing.
	Get(ctx context.Context, id types.ReminderLogID) (*model.ReminderLog, error)

	// List retrieves up to limit entries ordered by SentAt descending.
	List(ctx context.Context, limit int) ([]*model.ReminderLog, error)

	// ListByLeader retrieves up to limit entries of one leader ordered
	// by SentAt descending.
	ListByLeader(ctx context.Context, leaderID types.LeaderID, limit int) ([]*model.ReminderLog, error)

	// MarkResponded fills in the response fields and flips the status to
	// responded. Called exactly once per answered log.
	MarkResponded(ctx context.Context, id types.ReminderLogID, responseType types.ResponseType, comment string, at time.Time) error
}

// TokenRepository defines data access for response tokens
type TokenRepository interface {
	// Put stores a freshly issued token. The token string must be
	// globally unique.
	Put(ctx context.Context, token *model.ResponseToken) error

	// Get retrieves a token by its exact string without consuming it.
	// Returns ErrTokenNotFound if missing.
	Get(ctx context.Context, token string) (*model.ResponseToken, error)

	// Consume atomically flips the token from unused to used and returns
	// it. Exactly one of two concurrent calls succeeds; the loser gets
	// ErrTokenUsed. Expired tokens yield ErrTokenExpired regardless of
	// the used flag.
	Consume(ctx context.Context, token string, now time.Time) (*model.ResponseToken, error)

	// DeleteByLeader removes all tokens of the leader (cascade delete).
	DeleteByLeader(ctx context.Context, leaderID types.LeaderID) error
}

// SettingsRepository is a small key/value store for operational
// parameters
type SettingsRepository interface {
	// Get returns the value for key. Returns ErrNotFound if unset.
	Get(ctx context.Context, key string) (string, error)

	// Put upserts a key/value pair.
	Put(ctx context.Context, key, value string) error

	// GetAll returns all stored pairs.
	GetAll(ctx context.Context) (map[string]string, error)
}

// AuditRepository is the append-only audit trail
type AuditRepository interface {
	// Insert appends an entry. ID and CreatedAt are filled in when zero.
	Insert(ctx context.Context, entry *model.AuditEntry) error

	// List retrieves up to limit entries ordered by CreatedAt descending.
	List(ctx context.Context, limit int) ([]*model.AuditEntry, error)
}
