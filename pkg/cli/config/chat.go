package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/aweos-lab/wikireminder/pkg/service/chat"
)

// Chat holds CLI flags for the chat channel
type Chat struct {
	backend        string
	webhookURL     string
	slackToken     string
	slackChannelID string
}

func (x *Chat) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "chat-backend",
			Usage:       "Chat backend type (googlechat or slack)",
			Category:    "Chat",
			Value:       "googlechat",
			Sources:     cli.EnvVars("WIKIREMINDER_CHAT_BACKEND"),
			Destination: &x.backend,
		},
		&cli.StringFlag{
			Name:        "googlechat-webhook-url",
			Usage:       "Google Chat incoming webhook URL",
			Category:    "Chat",
			Sources:     cli.EnvVars("WIKIREMINDER_GOOGLECHAT_WEBHOOK_URL"),
			Destination: &x.webhookURL,
		},
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token",
			Category:    "Chat",
			Sources:     cli.EnvVars("WIKIREMINDER_SLACK_BOT_TOKEN"),
			Destination: &x.slackToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Slack channel for reminder notifications",
			Category:    "Chat",
			Sources:     cli.EnvVars("WIKIREMINDER_SLACK_CHANNEL_ID"),
			Destination: &x.slackChannelID,
		},
	}
}

func (x Chat) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", x.backend),
		slog.Int("webhook-url.len", len(x.webhookURL)),
		slog.Int("slack-bot-token.len", len(x.slackToken)),
		slog.String("slack-channel-id", x.slackChannelID),
	)
}

// Configured reports whether the chat channel can be built.
func (x *Chat) Configured() bool {
	switch x.backend {
	case "googlechat":
		return x.webhookURL != ""
	case "slack":
		return x.slackToken != "" && x.slackChannelID != ""
	default:
		return false
	}
}

// Configure builds the chat service, or nil when unconfigured.
func (x *Chat) Configure() (chat.Service, error) {
	if !x.Configured() {
		return nil, nil
	}

	switch x.backend {
	case "googlechat":
		return chat.NewGoogleChat(x.webhookURL)
	case "slack":
		return chat.NewSlack(x.slackToken, x.slackChannelID)
	default:
		return nil, goerr.New("invalid chat backend", goerr.V("backend", x.backend))
	}
}
