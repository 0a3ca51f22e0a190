package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

type slackChat struct {
	api       *slack.Client
	channelID string
}

// NewSlack creates a chat service posting Block Kit messages to a Slack
// channel via bot token.
func NewSlack(token, channelID string) (Service, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channelID == "" {
		return nil, goerr.New("Slack channel ID is required")
	}

	return &slackChat{
		api:       slack.New(token),
		channelID: channelID,
	}, nil
}

func (s *slackChat) PostReminder(ctx context.Context, note *ReminderNote) error {
	title := "Wiki-Erinnerung"
	if note.ReminderCount >= urgentThreshold {
		title = "Wiki-Erinnerung (DRINGEND)"
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, title, false, false)),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("*Teamleiter:*\n%s (%s)", note.Name, note.Email), false, false),
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("*Erinnerungen:*\n%dx gesendet", note.ReminderCount), false, false),
		}, nil),
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*Zugewiesene Bereiche:* %s", strings.Join(note.Collections, ", ")), false, false), nil, nil),
		slack.NewActionBlock("reminder_actions",
			slack.NewButtonBlockElement("respond", note.ResponseURL,
				slack.NewTextBlockObject(slack.PlainTextType, "Zur Bestätigung", false, false)).
				WithStyle(slack.StylePrimary).WithURL(note.ResponseURL),
		),
	}

	if _, _, err := s.api.PostMessageContext(ctx, s.channelID, slack.MsgOptionBlocks(blocks...)); err != nil {
		return goerr.Wrap(err, "failed to post reminder to Slack", goerr.V("channelID", s.channelID))
	}

	return nil
}

func (s *slackChat) PostEscalation(ctx context.Context, note *EscalationNote) error {
	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType,
			"ESKALATION: Wiki nicht aktualisiert", false, false)),
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*Achtung:* Der Teamleiter *%s* (%s) hat trotz %d Erinnerungen keine Wiki-Aktualisierung durchgeführt oder bestätigt.",
				note.LeaderName, note.LeaderEmail, note.ReminderCount), false, false), nil, nil),
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*Zugewiesene Bereiche:* %s", strings.Join(note.Collections, ", ")), false, false), nil, nil),
		slack.NewContextBlock("escalation_context",
			slack.NewTextBlockObject(slack.MarkdownType, "Bitte kontaktiere den Mitarbeiter direkt.", false, false)),
	}

	if _, _, err := s.api.PostMessageContext(ctx, s.channelID, slack.MsgOptionBlocks(blocks...)); err != nil {
		return goerr.Wrap(err, "failed to post escalation to Slack", goerr.V("channelID", s.channelID))
	}

	return nil
}

func (s *slackChat) PostTest(ctx context.Context) error {
	_, _, err := s.api.PostMessageContext(ctx, s.channelID,
		slack.MsgOptionText("Test-Nachricht vom Wiki Reminder System - Verbindung erfolgreich!", false))
	if err != nil {
		return goerr.Wrap(err, "failed to post test message to Slack", goerr.V("channelID", s.channelID))
	}

	return nil
}
