package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/aweos-lab/wikireminder/pkg/domain/interfaces"
	"github.com/aweos-lab/wikireminder/pkg/domain/model"
	"github.com/aweos-lab/wikireminder/pkg/domain/types"
	"github.com/aweos-lab/wikireminder/pkg/repository/memory"
	"github.com/aweos-lab/wikireminder/pkg/usecase"
)

func newTestUseCases(repo interfaces.Repository) (*usecase.UseCases, *notifierMock) {
	notifier := &notifierMock{}
	uc := usecase.New(repo,
		usecase.WithWiki(&wikiMock{}),
		usecase.WithNotifier(notifier),
		usecase.WithBaseURL("https://reminder.example.com"),
		usecase.WithNow(fixedNow),
	)
	return uc, notifier
}

// seedReminder runs one check cycle and returns the leader and the
// issued token.
func seedReminder(t *testing.T, repo interfaces.Repository, uc *usecase.UseCases, notifier *notifierMock) (*model.TeamLeader, string, types.ReminderLogID) {
	t.Helper()
	ctx := context.Background()

	leader := setupLeader(t, repo, &model.TeamLeader{
		Name: "Anna", Email: "anna@example.com", Active: true,
	}, "col-1")

	_, err := uc.RunReminderCheck(ctx)
	gt.NoError(t, err).Required()

	logs, err := repo.ReminderLog().List(ctx, 0)
	gt.NoError(t, err).Required()
	gt.Array(t, logs).Length(1).Required()

	gt.Array(t, notifier.reminders).Length(1).Required()
	url := notifier.reminders[0].ResponseURL
	token := url[strings.LastIndex(url, "/")+1:]

	return leader, token, logs[0].ID
}

func TestValidateToken(t *testing.T) {
	repo := memory.New()
	uc, notifier := newTestUseCases(repo)
	ctx := context.Background()

	_, token, _ := seedReminder(t, repo, uc, notifier)

	info, err := uc.ValidateToken(ctx, token)
	gt.NoError(t, err).Required()
	gt.Bool(t, info.Valid).True()
	gt.Value(t, info.LeaderName).Equal("Anna")
	gt.Array(t, info.Collections).Length(1)
	gt.Value(t, info.ReminderCount).Equal(1)
}

func TestValidateTokenUnknown(t *testing.T) {
	uc, _ := newTestUseCases(memory.New())

	info, err := uc.ValidateToken(context.Background(), "no-such-token")
	gt.NoError(t, err).Required()
	gt.Bool(t, info.Valid).False()
	gt.Bool(t, info.Used).False()
	gt.Bool(t, info.Expired).False()
}

func TestValidateTokenExpired(t *testing.T) {
	repo := memory.New()
	uc, _ := newTestUseCases(repo)
	ctx := context.Background()

	leader := setupLeader(t, repo, &model.TeamLeader{
		Name: "Anna", Email: "anna@example.com", Active: true,
	}, "col-1")
	gt.NoError(t, repo.Token().Put(ctx, &model.ResponseToken{
		Token:     "old-token",
		LeaderID:  leader.ID,
		ExpiresAt: fixedNow().Add(-time.Minute),
	}))

	info, err := uc.ValidateToken(ctx, "old-token")
	gt.NoError(t, err).Required()
	gt.Bool(t, info.Valid).False()
	gt.Bool(t, info.Expired).True()
}

func TestRespondUpdatedResetsCounter(t *testing.T) {
	repo := memory.New()
	uc, notifier := newTestUseCases(repo)
	ctx := context.Background()

	leader, token, logID := seedReminder(t, repo, uc, notifier)

	gt.NoError(t, uc.Respond(ctx, token, types.ResponseUpdated, "alles aktuell"))

	got, err := repo.Leader().Get(ctx, leader.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.ReminderCount).Equal(0)

	log, err := repo.ReminderLog().Get(ctx, logID)
	gt.NoError(t, err).Required()
	gt.Value(t, log.Status).Equal(types.ReminderStatusResponded)
	gt.Value(t, log.ResponseType).Equal(types.ResponseUpdated)
	gt.Value(t, log.Comment).Equal("alles aktuell")
	gt.Value(t, log.RespondedAt).NotNil()
}

func TestRespondNothingToUpdateKeepsCounter(t *testing.T) {
	repo := memory.New()
	uc, notifier := newTestUseCases(repo)
	ctx := context.Background()

	leader, token, logID := seedReminder(t, repo, uc, notifier)

	gt.NoError(t, uc.Respond(ctx, token, types.ResponseNothingToUpdate, ""))

	got, err := repo.Leader().Get(ctx, leader.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.ReminderCount).Equal(1)

	log, err := repo.ReminderLog().Get(ctx, logID)
	gt.NoError(t, err).Required()
	gt.Value(t, log.Status).Equal(types.ReminderStatusResponded)
}

func TestRespondSnoozeSetsSnoozeUntil(t *testing.T) {
	repo := memory.New()
	uc, notifier := newTestUseCases(repo)
	ctx := context.Background()

	leader, token, _ := seedReminder(t, repo, uc, notifier)

	gt.NoError(t, uc.Respond(ctx, token, types.ResponseSnooze, ""))

	got, err := repo.Leader().Get(ctx, leader.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.SnoozeUntil).NotNil()
	want := fixedNow().Add(7 * 24 * time.Hour)
	gt.Bool(t, got.SnoozeUntil.Equal(want)).True()

	// Counter survives a snooze.
	gt.Value(t, got.ReminderCount).Equal(1)
}

func TestRespondSecondUseRejected(t *testing.T) {
	repo := memory.New()
	uc, notifier := newTestUseCases(repo)
	ctx := context.Background()

	_, token, _ := seedReminder(t, repo, uc, notifier)

	gt.NoError(t, uc.Respond(ctx, token, types.ResponseUpdated, ""))

	err := uc.Respond(ctx, token, types.ResponseUpdated, "")
	gt.Bool(t, errors.Is(err, interfaces.ErrTokenUsed)).True()
}

func TestRespondInvalidType(t *testing.T) {
	repo := memory.New()
	uc, notifier := newTestUseCases(repo)

	_, token, _ := seedReminder(t, repo, uc, notifier)

	gt.Error(t, uc.Respond(context.Background(), token, types.ResponseType("bogus"), ""))
}

func TestSendTestReminder(t *testing.T) {
	repo := memory.New()
	uc, notifier := newTestUseCases(repo)
	ctx := context.Background()

	leader := setupLeader(t, repo, &model.TeamLeader{
		Name: "Anna", Email: "anna@example.com", Active: true,
	}, "col-1")

	url, err := uc.SendTestReminder(ctx, leader.ID, "debug@example.com")
	gt.NoError(t, err).Required()
	gt.Bool(t, strings.Contains(url, "/respond/test-")).True()

	gt.Array(t, notifier.reminders).Length(1)
	gt.Bool(t, notifier.reminders[0].Test).True()
	gt.Value(t, notifier.reminders[0].Leader.Email).Equal("debug@example.com")

	// No reminder log, counter untouched.
	logs, err := repo.ReminderLog().List(ctx, 0)
	gt.NoError(t, err).Required()
	gt.Array(t, logs).Length(0)

	got, err := repo.Leader().Get(ctx, leader.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.ReminderCount).Equal(0)
}

func TestRespondToTestTokenDoesNotTouchLog(t *testing.T) {
	repo := memory.New()
	uc, _ := newTestUseCases(repo)
	ctx := context.Background()

	leader := setupLeader(t, repo, &model.TeamLeader{
		Name: "Anna", Email: "anna@example.com", Active: true,
	}, "col-1")

	url, err := uc.SendTestReminder(ctx, leader.ID, "debug@example.com")
	gt.NoError(t, err).Required()
	token := url[strings.LastIndex(url, "/")+1:]

	gt.NoError(t, uc.Respond(ctx, token, types.ResponseUpdated, ""))

	logs, err := repo.ReminderLog().List(ctx, 0)
	gt.NoError(t, err).Required()
	gt.Array(t, logs).Length(0)
}
