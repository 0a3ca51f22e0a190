package config

import (
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/aweos-lab/wikireminder/pkg/service/mail"
)

// Mail holds CLI flags for the MailerSend email channel
type Mail struct {
	apiToken  string
	fromEmail string
	fromName  string
}

func (x *Mail) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "mailersend-api-token",
			Usage:       "MailerSend API token",
			Category:    "Mail",
			Sources:     cli.EnvVars("WIKIREMINDER_MAILERSEND_API_TOKEN"),
			Destination: &x.apiToken,
		},
		&cli.StringFlag{
			Name:        "mail-from-email",
			Usage:       "Sender address for reminder emails",
			Category:    "Mail",
			Sources:     cli.EnvVars("WIKIREMINDER_MAIL_FROM_EMAIL"),
			Destination: &x.fromEmail,
		},
		&cli.StringFlag{
			Name:        "mail-from-name",
			Usage:       "Sender display name",
			Category:    "Mail",
			Value:       "Wiki Reminder",
			Sources:     cli.EnvVars("WIKIREMINDER_MAIL_FROM_NAME"),
			Destination: &x.fromName,
		},
	}
}

func (x Mail) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("api-token.len", len(x.apiToken)),
		slog.String("from-email", x.fromEmail),
		slog.String("from-name", x.fromName),
	)
}

// Configured reports whether the email channel can be built.
func (x *Mail) Configured() bool {
	return x.apiToken != "" && x.fromEmail != ""
}

// Configure builds the mail service, or nil when unconfigured.
func (x *Mail) Configure() (mail.Service, error) {
	if !x.Configured() {
		return nil, nil
	}
	return mail.NewMailerSend(x.apiToken, x.fromEmail, x.fromName)
}
