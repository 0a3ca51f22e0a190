package types

import "fmt"

// ResponseType represents the choice a leader submits via a response token
type ResponseType string

const (
	// ResponseUpdated confirms the documentation was updated. Resets the
	// reminder counter to zero.
	ResponseUpdated ResponseType = "updated"
	// ResponseNothingToUpdate acknowledges the reminder without resetting
	// the counter.
	ResponseNothingToUpdate ResponseType = "nothing_to_update"
	// ResponseWillUpdate promises an update. Acknowledgement only, the
	// counter keeps advancing on subsequent cycles.
	ResponseWillUpdate ResponseType = "will_update"
	// ResponseSnooze pauses reminders for the leader for seven days.
	ResponseSnooze ResponseType = "snooze"
)

// AllResponseTypes returns all valid response types
func AllResponseTypes() []ResponseType {
	return []ResponseType{
		ResponseUpdated,
		ResponseNothingToUpdate,
		ResponseWillUpdate,
		ResponseSnooze,
	}
}

// IsValid checks if the response type is valid
func (r ResponseType) IsValid() bool {
	switch r {
	case ResponseUpdated,
		ResponseNothingToUpdate,
		ResponseWillUpdate,
		ResponseSnooze:
		return true
	default:
		return false
	}
}

// String returns the string representation of the response type
func (r ResponseType) String() string {
	return string(r)
}

// ParseResponseType parses a string into a ResponseType
func ParseResponseType(s string) (ResponseType, error) {
	rt := ResponseType(s)
	if !rt.IsValid() {
		return "", fmt.Errorf("invalid response type: %s", s)
	}
	return rt, nil
}
