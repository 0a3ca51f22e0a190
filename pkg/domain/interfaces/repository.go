package interfaces

import (
	"github.com/m-mizutani/goerr/v2"
)

// Sentinel errors shared by all repository backends
var (
	ErrNotFound       = goerr.New("not found")
	ErrDuplicateEmail = goerr.New("a leader with this email already exists")

	// Token consumption errors. Consume maps the unused/expiry checks to
	// exactly one of these so intake can show a distinct reason without
	// leaking anything else.
	ErrTokenNotFound = goerr.New("token not found")
	ErrTokenUsed     = goerr.New("token already used")
	ErrTokenExpired  = goerr.New("token expired")
)

// Repository defines the interface for data persistence
type Repository interface {
	Leader() LeaderRepository
	Collection() CollectionRepository
	ReminderLog() ReminderLogRepository
	Token() TokenRepository
	Settings() SettingsRepository
	Audit() AuditRepository

	Close() error
}
