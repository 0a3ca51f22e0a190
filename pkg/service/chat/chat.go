// Package chat posts reminder notifications to a team chat channel.
package chat

import (
	"context"
)

// Reminders at or past this count get the urgent styling.
const urgentThreshold = 3

// ReminderNote is the chat-side rendition of a reminder.
type ReminderNote struct {
	Name          string
	Email         string
	Collections   []string
	ReminderCount int
	ResponseURL   string
}

// EscalationNote is the chat-side rendition of an escalation.
type EscalationNote struct {
	LeaderName    string
	LeaderEmail   string
	Collections   []string
	ReminderCount int
}

// Service is the chat backend abstraction.
type Service interface {
	// PostReminder posts a reminder card for the team leader.
	PostReminder(ctx context.Context, note *ReminderNote) error

	// PostEscalation posts a manager-facing escalation card.
	PostEscalation(ctx context.Context, note *EscalationNote) error

	// PostTest posts a plain connectivity check message.
	PostTest(ctx context.Context) error
}
