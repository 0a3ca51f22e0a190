package model

import (
	"regexp"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/aweos-lab/wikireminder/pkg/domain/types"
)

const (
	maxNameLength  = 200
	maxEmailLength = 254
	maxRefLength   = 100
)

// emailPattern is deliberately loose: one @, no whitespace, a dot in the
// domain part. Anything stricter belongs to the mail provider.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// TeamLeader is a person accountable for keeping one or more wiki
// collections current.
type TeamLeader struct {
	ID    types.LeaderID
	Name  string
	Email string

	// ChatID is the leader's ID in the chat system, used for mentions.
	// Optional.
	ChatID string

	// WikiUserID links the leader to a wiki account. When set, only
	// activity authored by this user counts as compliance.
	WikiUserID string

	Active        bool
	ReminderCount int
	SnoozeUntil   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate normalizes and checks the leader's fields. The email is
// trimmed and lowercased in place so the unique constraint on it is
// case-insensitive by construction.
func (x *TeamLeader) Validate() error {
	x.Name = strings.TrimSpace(x.Name)
	x.Email = strings.ToLower(strings.TrimSpace(x.Email))
	x.ChatID = strings.TrimSpace(x.ChatID)
	x.WikiUserID = strings.TrimSpace(x.WikiUserID)

	if x.Name == "" {
		return goerr.New("leader name is required")
	}
	if len(x.Name) > maxNameLength {
		return goerr.New("leader name is too long", goerr.V("max", maxNameLength))
	}
	if x.Email == "" {
		return goerr.New("leader email is required")
	}
	if len(x.Email) > maxEmailLength {
		return goerr.New("leader email is too long", goerr.V("max", maxEmailLength))
	}
	if !emailPattern.MatchString(x.Email) {
		return goerr.New("invalid email address", goerr.V("email", x.Email))
	}
	if len(x.ChatID) > maxRefLength {
		return goerr.New("chat ID is too long", goerr.V("max", maxRefLength))
	}
	if len(x.WikiUserID) > maxRefLength {
		return goerr.New("wiki user ID is too long", goerr.V("max", maxRefLength))
	}
	if x.ReminderCount < 0 {
		return goerr.New("reminder count cannot be negative", goerr.V("count", x.ReminderCount))
	}

	return nil
}

// Snoozed reports whether the leader is snoozed at the given time
func (x *TeamLeader) Snoozed(now time.Time) bool {
	return x.SnoozeUntil != nil && x.SnoozeUntil.After(now)
}

// Eligible reports whether the leader should be considered by a
// reconciliation cycle. Leaders with zero collections are filtered
// separately because collections are not embedded in the leader row.
func (x *TeamLeader) Eligible(now time.Time) bool {
	return x.Active && !x.Snoozed(now)
}
