// Package notify fans reminder notifications out to the configured
// channels. A failing channel never blocks the others.
package notify

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/aweos-lab/wikireminder/pkg/domain/model"
	"github.com/aweos-lab/wikireminder/pkg/service/chat"
	"github.com/aweos-lab/wikireminder/pkg/service/mail"
	"github.com/aweos-lab/wikireminder/pkg/utils/logging"
)

// Reminder carries everything needed to notify one team leader.
type Reminder struct {
	Leader        *model.TeamLeader
	Collections   []string
	ReminderCount int
	ResponseURL   string
	ManagerEmail  string
	RecentUpdates []mail.DocumentUpdate
	Test          bool
}

// Escalation carries everything needed to alert the manager.
type Escalation struct {
	Leader        *model.TeamLeader
	Collections   []string
	ReminderCount int
	ManagerEmail  string
}

// Dispatcher sends reminders over email and chat. Either channel may be
// absent.
type Dispatcher struct {
	mail mail.Service
	chat chat.Service
}

// Option configures the Dispatcher.
type Option func(*Dispatcher)

// WithMail attaches an email channel.
func WithMail(svc mail.Service) Option {
	return func(d *Dispatcher) {
		d.mail = svc
	}
}

// WithChat attaches a chat channel.
func WithChat(svc chat.Service) Option {
	return func(d *Dispatcher) {
		d.chat = svc
	}
}

// New creates a Dispatcher with the given channels.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SendReminder delivers the reminder over every configured channel and
// returns the per-channel failures. An empty slice means full delivery;
// success on at least one channel still counts as delivered.
func (d *Dispatcher) SendReminder(ctx context.Context, r *Reminder) []error {
	var errs []error

	if d.mail != nil {
		msg, err := mail.BuildReminder(&mail.ReminderParams{
			Name:          r.Leader.Name,
			Collections:   r.Collections,
			ReminderCount: r.ReminderCount,
			ResponseURL:   r.ResponseURL,
			RecentUpdates: r.RecentUpdates,
			Test:          r.Test,
		})
		if err != nil {
			errs = append(errs, err)
		} else {
			msg.To = r.Leader.Email
			if r.ManagerEmail != "" {
				msg.CC = r.ManagerEmail
			}
			if err := d.mail.Send(ctx, msg); err != nil {
				logging.From(ctx).Error("reminder email failed",
					"leaderID", r.Leader.ID, "error", err)
				errs = append(errs, goerr.Wrap(err, "email channel failed"))
			}
		}
	}

	if d.chat != nil {
		err := d.chat.PostReminder(ctx, &chat.ReminderNote{
			Name:          r.Leader.Name,
			Email:         r.Leader.Email,
			Collections:   r.Collections,
			ReminderCount: r.ReminderCount,
			ResponseURL:   r.ResponseURL,
		})
		if err != nil {
			logging.From(ctx).Error("reminder chat post failed",
				"leaderID", r.Leader.ID, "error", err)
			errs = append(errs, goerr.Wrap(err, "chat channel failed"))
		}
	}

	return errs
}

// SendEscalation alerts the manager over every configured channel.
func (d *Dispatcher) SendEscalation(ctx context.Context, e *Escalation) []error {
	var errs []error

	if d.mail != nil && e.ManagerEmail != "" {
		msg, err := mail.BuildEscalation(&mail.EscalationParams{
			LeaderName:    e.Leader.Name,
			LeaderEmail:   e.Leader.Email,
			Collections:   e.Collections,
			ReminderCount: e.ReminderCount,
		})
		if err != nil {
			errs = append(errs, err)
		} else {
			msg.To = e.ManagerEmail
			if err := d.mail.Send(ctx, msg); err != nil {
				logging.From(ctx).Error("escalation email failed",
					"leaderID", e.Leader.ID, "error", err)
				errs = append(errs, goerr.Wrap(err, "email channel failed"))
			}
		}
	}

	if d.chat != nil {
		err := d.chat.PostEscalation(ctx, &chat.EscalationNote{
			LeaderName:    e.Leader.Name,
			LeaderEmail:   e.Leader.Email,
			Collections:   e.Collections,
			ReminderCount: e.ReminderCount,
		})
		if err != nil {
			logging.From(ctx).Error("escalation chat post failed",
				"leaderID", e.Leader.ID, "error", err)
			errs = append(errs, goerr.Wrap(err, "chat channel failed"))
		}
	}

	return errs
}

// TestChat posts a connectivity check to the chat channel.
func (d *Dispatcher) TestChat(ctx context.Context) error {
	if d.chat == nil {
		return goerr.New("no chat channel configured")
	}
	return d.chat.PostTest(ctx)
}

// ChatConfigured reports whether a chat channel is attached.
func (d *Dispatcher) ChatConfigured() bool {
	return d.chat != nil
}

// TestMail verifies email provider credentials.
func (d *Dispatcher) TestMail(ctx context.Context) error {
	if d.mail == nil {
		return goerr.New("no email channel configured")
	}
	return d.mail.TestConnection(ctx)
}
