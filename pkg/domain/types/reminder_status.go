package types

import "fmt"

// ReminderStatus represents the delivery state of a reminder log entry
type ReminderStatus string

const (
	ReminderStatusSent      ReminderStatus = "sent"
	ReminderStatusEscalated ReminderStatus = "escalated"
	ReminderStatusResponded ReminderStatus = "responded"
)

// AllReminderStatuses returns all valid reminder statuses
func AllReminderStatuses() []ReminderStatus {
	return []ReminderStatus{
		ReminderStatusSent,
		ReminderStatusEscalated,
		ReminderStatusResponded,
	}
}

// IsValid checks if the reminder status is valid
func (s ReminderStatus) IsValid() bool {
	switch s {
	case ReminderStatusSent,
		ReminderStatusEscalated,
		ReminderStatusResponded:
		return true
	default:
		return false
	}
}

// String returns the string representation of the reminder status
func (s ReminderStatus) String() string {
	return string(s)
}

// ParseReminderStatus parses a string into a ReminderStatus
func ParseReminderStatus(s string) (ReminderStatus, error) {
	status := ReminderStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid reminder status: %s", s)
	}
	return status, nil
}
