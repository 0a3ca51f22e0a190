package model

import (
	"time"

	"github.com/aweos-lab/wikireminder/pkg/domain/types"
)

// ReminderLog records one reminder-send event. Rows are immutable
// except for the response fields, which are filled in exactly once when
// the leader answers via a response token. The log is the audit trail
// behind the CSV export and is never deleted by normal flow.
type ReminderLog struct {
	ID       types.ReminderLogID
	LeaderID types.LeaderID

	// ReminderCount is the leader's counter value at send time.
	ReminderCount int
	Status        types.ReminderStatus
	SentAt        time.Time

	// Response fields, set by Response Intake on a valid reply.
	ResponseType types.ResponseType
	Comment      string
	RespondedAt  *time.Time
}
