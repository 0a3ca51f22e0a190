// Package mail delivers reminder and escalation emails.
package mail

import (
	"context"
)

// Message is one outbound email.
type Message struct {
	To      string
	CC      string
	Subject string
	HTML    string
}

// Service is the email delivery abstraction.
type Service interface {
	// Send delivers the message. CC may be empty.
	Send(ctx context.Context, msg *Message) error

	// TestConnection verifies credentials against the provider.
	TestConnection(ctx context.Context) error
}
