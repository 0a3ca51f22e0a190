package model

import (
	"strings"
	"time"

	"github.com/aweos-lab/wikireminder/pkg/domain/types"
)

// TestTokenPrefix marks tokens issued for debug test sends. Test tokens
// have a short TTL and are never linked to a reminder log.
const TestTokenPrefix = "test-"

// ResponseToken is a single-use capability granting the holder the
// right to submit exactly one compliance response for a specific
// leader. The token string itself is the primary key.
type ResponseToken struct {
	Token    string
	LeaderID types.LeaderID

	// ReminderLogID is empty for test tokens.
	ReminderLogID types.ReminderLogID

	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// Expired reports whether the token is past its expiry at the given time
func (x *ResponseToken) Expired(now time.Time) bool {
	return now.After(x.ExpiresAt)
}

// IsTest reports whether the token was issued by a debug test send
func (x *ResponseToken) IsTest() bool {
	return strings.HasPrefix(x.Token, TestTokenPrefix)
}
