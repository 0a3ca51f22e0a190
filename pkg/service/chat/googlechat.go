package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/aweos-lab/wikireminder/pkg/utils/safe"
)

const googleChatTimeout = 10 * time.Second

// Card structures follow the Google Chat webhook message format.
// https://developers.google.com/chat/how-tos/webhooks
type chatCardHeader struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
}

type chatKeyValue struct {
	TopLabel string `json:"topLabel"`
	Content  string `json:"content"`
}

type chatTextParagraph struct {
	Text string `json:"text"`
}

type chatTextButton struct {
	Text    string `json:"text"`
	OnClick struct {
		OpenLink struct {
			URL string `json:"url"`
		} `json:"openLink"`
	} `json:"onClick"`
}

type chatButton struct {
	TextButton chatTextButton `json:"textButton"`
}

type chatWidget struct {
	TextParagraph *chatTextParagraph `json:"textParagraph,omitempty"`
	KeyValue      *chatKeyValue      `json:"keyValue,omitempty"`
	Buttons       []chatButton       `json:"buttons,omitempty"`
}

type chatSection struct {
	Header  string       `json:"header,omitempty"`
	Widgets []chatWidget `json:"widgets"`
}

type chatCard struct {
	Header   *chatCardHeader `json:"header,omitempty"`
	Sections []chatSection   `json:"sections"`
}

type chatMessage struct {
	Text  string     `json:"text,omitempty"`
	Cards []chatCard `json:"cards,omitempty"`
}

type googleChat struct {
	webhookURL string
	httpClient *http.Client
}

// GoogleChatOption configures the Google Chat client.
type GoogleChatOption func(*googleChat)

// WithGoogleChatHTTPClient overrides the HTTP client, mainly for tests.
func WithGoogleChatHTTPClient(hc *http.Client) GoogleChatOption {
	return func(g *googleChat) {
		g.httpClient = hc
	}
}

// NewGoogleChat creates a chat service posting to a Google Chat space
// via incoming webhook.
func NewGoogleChat(webhookURL string, opts ...GoogleChatOption) (Service, error) {
	if webhookURL == "" {
		return nil, goerr.New("Google Chat webhook URL is required")
	}

	g := &googleChat{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: googleChatTimeout,
		},
	}
	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

func (g *googleChat) post(ctx context.Context, msg *chatMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal chat message")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return goerr.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to call Google Chat webhook")
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return goerr.New("Google Chat webhook returned error",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(data)),
		)
	}

	return nil
}

func (g *googleChat) PostReminder(ctx context.Context, note *ReminderNote) error {
	title := "Wiki-Erinnerung"
	if note.ReminderCount >= urgentThreshold {
		title = "Wiki-Erinnerung (DRINGEND)"
	}

	var buttonWidget chatWidget
	button := chatButton{}
	button.TextButton.Text = "Zur Bestätigung"
	button.TextButton.OnClick.OpenLink.URL = note.ResponseURL
	buttonWidget.Buttons = []chatButton{button}

	msg := &chatMessage{
		Cards: []chatCard{{
			Header: &chatCardHeader{
				Title:    title,
				Subtitle: fmt.Sprintf("%d. Hinweis für %s", note.ReminderCount, note.Name),
			},
			Sections: []chatSection{
				{
					Widgets: []chatWidget{
						{KeyValue: &chatKeyValue{
							TopLabel: "Teamleiter",
							Content:  fmt.Sprintf("%s (%s)", note.Name, note.Email),
						}},
						{KeyValue: &chatKeyValue{
							TopLabel: "Zugewiesene Bereiche",
							Content:  strings.Join(note.Collections, ", "),
						}},
						{KeyValue: &chatKeyValue{
							TopLabel: "Erinnerungen",
							Content:  fmt.Sprintf("%dx gesendet", note.ReminderCount),
						}},
					},
				},
				{
					Widgets: []chatWidget{buttonWidget},
				},
			},
		}},
	}

	return g.post(ctx, msg)
}

func (g *googleChat) PostEscalation(ctx context.Context, note *EscalationNote) error {
	msg := &chatMessage{
		Cards: []chatCard{{
			Header: &chatCardHeader{
				Title:    "ESKALATION: Wiki nicht aktualisiert",
				Subtitle: fmt.Sprintf("%s - %dx keine Reaktion", note.LeaderName, note.ReminderCount),
			},
			Sections: []chatSection{
				{
					Widgets: []chatWidget{
						{TextParagraph: &chatTextParagraph{
							Text: fmt.Sprintf("<b>Achtung:</b> Der Teamleiter <b>%s</b> (%s) hat trotz %d Erinnerungen keine Wiki-Aktualisierung durchgeführt oder bestätigt.",
								note.LeaderName, note.LeaderEmail, note.ReminderCount),
						}},
						{KeyValue: &chatKeyValue{
							TopLabel: "Zugewiesene Bereiche",
							Content:  strings.Join(note.Collections, ", "),
						}},
					},
				},
				{
					Widgets: []chatWidget{
						{TextParagraph: &chatTextParagraph{
							Text: "Bitte kontaktiere den Mitarbeiter direkt.",
						}},
					},
				},
			},
		}},
	}

	return g.post(ctx, msg)
}

func (g *googleChat) PostTest(ctx context.Context) error {
	return g.post(ctx, &chatMessage{
		Text: "Test-Nachricht vom Wiki Reminder System - Verbindung erfolgreich!",
	})
}
