package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/aweos-lab/wikireminder/pkg/utils/safe"
)

const (
	defaultAPIURL  = "https://api.mailersend.com"
	defaultTimeout = 15 * time.Second
)

type mailerSend struct {
	apiURL     string
	token      string
	fromEmail  string
	fromName   string
	httpClient *http.Client
}

// MailerSendOption configures the MailerSend client.
type MailerSendOption func(*mailerSend)

// WithAPIURL overrides the API endpoint, mainly for tests.
func WithAPIURL(url string) MailerSendOption {
	return func(m *mailerSend) {
		m.apiURL = url
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) MailerSendOption {
	return func(m *mailerSend) {
		m.httpClient = hc
	}
}

// NewMailerSend creates an email service backed by the MailerSend API.
func NewMailerSend(token, fromEmail, fromName string, opts ...MailerSendOption) (Service, error) {
	if token == "" {
		return nil, goerr.New("MailerSend API token is required")
	}
	if fromEmail == "" {
		return nil, goerr.New("sender email is required")
	}

	m := &mailerSend{
		apiURL:    defaultAPIURL,
		token:     token,
		fromEmail: fromEmail,
		fromName:  fromName,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

type recipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendRequest struct {
	From    recipient   `json:"from"`
	To      []recipient `json:"to"`
	CC      []recipient `json:"cc,omitempty"`
	Subject string      `json:"subject"`
	HTML    string      `json:"html"`
}

func (m *mailerSend) Send(ctx context.Context, msg *Message) error {
	if msg.To == "" {
		return goerr.New("recipient is required")
	}

	body := sendRequest{
		From:    recipient{Email: m.fromEmail, Name: m.fromName},
		To:      []recipient{{Email: msg.To}},
		Subject: msg.Subject,
		HTML:    msg.HTML,
	}
	if msg.CC != "" {
		body.CC = []recipient{{Email: msg.CC}}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal email")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL+"/v1/email", bytes.NewReader(payload))
	if err != nil {
		return goerr.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.token)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to call MailerSend API")
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return goerr.New("MailerSend returned error",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(data)),
			goerr.V("to", msg.To),
		)
	}

	return nil
}

func (m *mailerSend) TestConnection(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.apiURL+"/v1/api-quota", nil)
	if err != nil {
		return goerr.Wrap(err, "failed to create request")
	}
	req.Header.Set("Authorization", "Bearer "+m.token)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to call MailerSend API")
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return goerr.New("MailerSend connection test failed",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(data)),
		)
	}

	return nil
}
