package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/aweos-lab/wikireminder/pkg/domain/interfaces"
	"github.com/aweos-lab/wikireminder/pkg/domain/model"
	"github.com/aweos-lab/wikireminder/pkg/domain/types"
	"github.com/aweos-lab/wikireminder/pkg/service/notify"
	"github.com/aweos-lab/wikireminder/pkg/utils/logging"
)

// testTokenTTL is the short lifetime of debug test tokens.
const testTokenTTL = time.Hour

// TokenInfo is the public view of a response token, shown on the
// response page before the leader submits.
type TokenInfo struct {
	Valid   bool `json:"valid"`
	Used    bool `json:"used,omitempty"`
	Expired bool `json:"expired,omitempty"`

	LeaderName    string   `json:"team_leader_name,omitempty"`
	LeaderEmail   string   `json:"team_leader_email,omitempty"`
	Collections   []string `json:"collections,omitempty"`
	ReminderCount int      `json:"reminder_count,omitempty"`
}

// ValidateToken inspects a token without consuming it. Unknown, used
// and expired tokens yield an invalid TokenInfo, never an error.
func (uc *UseCases) ValidateToken(ctx context.Context, tokenStr string) (*TokenInfo, error) {
	token, err := uc.repo.Token().Get(ctx, tokenStr)
	if err != nil {
		if errors.Is(err, interfaces.ErrTokenNotFound) {
			return &TokenInfo{}, nil
		}
		return nil, goerr.Wrap(err, "failed to look up token")
	}

	if token.Used {
		return &TokenInfo{Used: true}, nil
	}
	if token.Expired(uc.now().UTC()) {
		return &TokenInfo{Expired: true}, nil
	}

	leader, err := uc.repo.Leader().Get(ctx, token.LeaderID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load token's leader")
	}

	collections, err := uc.repo.Collection().ListByLeader(ctx, leader.ID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load leader's collections")
	}

	names := make([]string, len(collections))
	for i, col := range collections {
		names[i] = col.Name
	}

	return &TokenInfo{
		Valid:         true,
		LeaderName:    leader.Name,
		LeaderEmail:   leader.Email,
		Collections:   names,
		ReminderCount: leader.ReminderCount,
	}, nil
}

// Respond consumes a token and applies the leader's answer. The consume
// is atomic: of two concurrent submissions exactly one wins, the other
// gets ErrTokenUsed.
func (uc *UseCases) Respond(ctx context.Context, tokenStr string, responseType types.ResponseType, comment string) error {
	if !responseType.IsValid() {
		return goerr.New("invalid response type", goerr.V("responseType", responseType))
	}

	now := uc.now().UTC()

	token, err := uc.repo.Token().Consume(ctx, tokenStr, now)
	if err != nil {
		return err
	}

	if token.ReminderLogID != "" {
		if err := uc.repo.ReminderLog().MarkResponded(ctx, token.ReminderLogID, responseType, comment, now); err != nil {
			return goerr.Wrap(err, "failed to record response on reminder log")
		}
	}

	switch responseType {
	case types.ResponseUpdated:
		if err := uc.repo.Leader().SetReminderCount(ctx, token.LeaderID, 0); err != nil {
			return goerr.Wrap(err, "failed to reset reminder counter")
		}

	case types.ResponseSnooze:
		until := now.Add(snoozeDuration)
		if err := uc.repo.Leader().SetSnoozeUntil(ctx, token.LeaderID, &until); err != nil {
			return goerr.Wrap(err, "failed to set snooze")
		}
		uc.audit(ctx, types.AuditSnoozeSet, "team_leader", token.LeaderID.String(), map[string]any{
			"snooze_until": until,
		}, "")
	}

	uc.audit(ctx, types.AuditReminderResponded, "reminder", token.ReminderLogID.String(), map[string]any{
		"team_leader_id": token.LeaderID,
		"response_type":  responseType,
	}, "")

	logging.From(ctx).Info("reminder response recorded",
		"leaderID", token.LeaderID,
		"responseType", responseType,
	)

	return nil
}

// SendTestReminder sends a reminder preview for the leader to a test
// address. The issued token is real but short-lived and not linked to
// any reminder log, so responding to it never touches reminder history.
func (uc *UseCases) SendTestReminder(ctx context.Context, leaderID types.LeaderID, testEmail string) (string, error) {
	if uc.notifier == nil {
		return "", goerr.New("no notifier configured")
	}
	if testEmail == "" {
		return "", goerr.New("test email address is required")
	}

	leader, err := uc.repo.Leader().Get(ctx, leaderID)
	if err != nil {
		return "", err
	}

	collections, err := uc.repo.Collection().ListByLeader(ctx, leaderID)
	if err != nil {
		return "", goerr.Wrap(err, "failed to load leader's collections")
	}

	now := uc.now().UTC()
	tokenStr := model.TestTokenPrefix + uuid.NewString()
	if err := uc.repo.Token().Put(ctx, &model.ResponseToken{
		Token:     tokenStr,
		LeaderID:  leader.ID,
		ExpiresAt: now.Add(testTokenTTL),
		CreatedAt: now,
	}); err != nil {
		return "", goerr.Wrap(err, "failed to create test token")
	}

	names := make([]string, len(collections))
	for i, col := range collections {
		names[i] = col.Name
	}
	if len(names) == 0 {
		names = []string{"(Keine Collections zugewiesen)"}
	}

	// The reminder goes to the test address, not the leader.
	target := *leader
	target.Email = testEmail

	responseURL := uc.responseURL(tokenStr)
	for _, sendErr := range uc.notifier.SendReminder(ctx, &notify.Reminder{
		Leader:        &target,
		Collections:   names,
		ReminderCount: leader.ReminderCount + 1,
		ResponseURL:   responseURL,
		Test:          true,
	}) {
		return "", goerr.Wrap(sendErr, "failed to send test reminder")
	}

	uc.audit(ctx, types.AuditTestEmailSent, "team_leader", leader.ID.String(), map[string]any{
		"sent_to": testEmail,
	}, "")

	return responseURL, nil
}
