package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/aweos-lab/wikireminder/pkg/domain/interfaces"
	"github.com/aweos-lab/wikireminder/pkg/domain/model"
	"github.com/aweos-lab/wikireminder/pkg/domain/types"
	"github.com/aweos-lab/wikireminder/pkg/repository/memory"
	"github.com/aweos-lab/wikireminder/pkg/service/notify"
	"github.com/aweos-lab/wikireminder/pkg/service/wiki"
	"github.com/aweos-lab/wikireminder/pkg/usecase"
)

// wikiMock serves canned activity per collection ID.
type wikiMock struct {
	activity map[string]bool            // collection ID -> any activity
	byUser   map[string]map[string]bool // collection ID -> user ID -> activity
	failing  map[string]bool            // collection ID -> checks fail
	recent   []*wiki.DocumentUpdate
}

func (w *wikiMock) ListCollections(context.Context) ([]*wiki.Collection, error) {
	return nil, nil
}

func (w *wikiMock) HasActivitySince(_ context.Context, collectionID string, _ time.Time) (bool, error) {
	if w.failing[collectionID] {
		return false, goerr.New("wiki unreachable")
	}
	return w.activity[collectionID], nil
}

func (w *wikiMock) ActivityByUserSince(_ context.Context, collectionID, userID string, _ time.Time) (bool, error) {
	if w.failing[collectionID] {
		return false, goerr.New("wiki unreachable")
	}
	return w.byUser[collectionID][userID], nil
}

func (w *wikiMock) RecentActivityByUser(context.Context, string, []wiki.CollectionRef, time.Time, int) ([]*wiki.DocumentUpdate, error) {
	return w.recent, nil
}

func (w *wikiMock) ListUsers(context.Context) ([]*wiki.User, error) { return nil, nil }
func (w *wikiMock) TestConnection(context.Context) error            { return nil }

// notifierMock records deliveries.
type notifierMock struct {
	reminders   []*notify.Reminder
	escalations []*notify.Escalation
	sendErrs    []error
}

func (n *notifierMock) SendReminder(_ context.Context, r *notify.Reminder) []error {
	n.reminders = append(n.reminders, r)
	return n.sendErrs
}

func (n *notifierMock) SendEscalation(_ context.Context, e *notify.Escalation) []error {
	n.escalations = append(n.escalations, e)
	return n.sendErrs
}

func (n *notifierMock) TestChat(context.Context) error { return nil }
func (n *notifierMock) TestMail(context.Context) error { return nil }
func (n *notifierMock) ChatConfigured() bool           { return true }

func fixedNow() time.Time {
	return time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
}

func setupLeader(t *testing.T, repo interfaces.Repository, leader *model.TeamLeader, collectionIDs ...string) *model.TeamLeader {
	t.Helper()
	ctx := context.Background()

	created, err := repo.Leader().Create(ctx, leader)
	gt.NoError(t, err).Required()

	if leader.ReminderCount > 0 {
		gt.NoError(t, repo.Leader().SetReminderCount(ctx, created.ID, leader.ReminderCount))
		created.ReminderCount = leader.ReminderCount
	}

	var collections []*model.WikiCollection
	for _, id := range collectionIDs {
		collections = append(collections, &model.WikiCollection{
			WikiCollectionID: id,
			Name:             "Collection " + id,
		})
	}
	_, err = repo.Collection().ReplaceForLeader(ctx, created.ID, collections)
	gt.NoError(t, err).Required()

	return created
}

func TestReminderCheckSendsReminderWithoutActivity(t *testing.T) {
	repo := memory.New()
	notifier := &notifierMock{}
	uc := usecase.New(repo,
		usecase.WithWiki(&wikiMock{}),
		usecase.WithNotifier(notifier),
		usecase.WithBaseURL("https://reminder.example.com"),
		usecase.WithNow(fixedNow),
	)

	leader := setupLeader(t, repo, &model.TeamLeader{
		Name: "Anna", Email: "anna@example.com", Active: true,
	}, "col-1")

	result, err := uc.RunReminderCheck(context.Background())
	gt.NoError(t, err).Required()

	gt.Value(t, result.Processed).Equal(1)
	gt.Value(t, result.Reminders).Equal(1)
	gt.Value(t, result.Escalations).Equal(0)
	gt.Array(t, result.Errors).Length(0)

	got, err := repo.Leader().Get(context.Background(), leader.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.ReminderCount).Equal(1)

	logs, err := repo.ReminderLog().List(context.Background(), 0)
	gt.NoError(t, err).Required()
	gt.Array(t, logs).Length(1)
	gt.Value(t, logs[0].Status).Equal(types.ReminderStatusSent)
	gt.Value(t, logs[0].ReminderCount).Equal(1)

	gt.Array(t, notifier.reminders).Length(1)
	gt.Value(t, notifier.reminders[0].ManagerEmail).Equal("")
}

func TestReminderCheckResetsCounterOnActivity(t *testing.T) {
	repo := memory.New()
	notifier := &notifierMock{}
	uc := usecase.New(repo,
		usecase.WithWiki(&wikiMock{activity: map[string]bool{"col-1": true}}),
		usecase.WithNotifier(notifier),
		usecase.WithNow(fixedNow),
	)

	leader := setupLeader(t, repo, &model.TeamLeader{
		Name: "Ben", Email: "ben@example.com", Active: true, ReminderCount: 2,
	}, "col-1")

	result, err := uc.RunReminderCheck(context.Background())
	gt.NoError(t, err).Required()

	gt.Value(t, result.Reminders).Equal(0)
	got, err := repo.Leader().Get(context.Background(), leader.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.ReminderCount).Equal(0)
	gt.Array(t, notifier.reminders).Length(0)

	// Activity leaves no reminder log behind.
	logs, err := repo.ReminderLog().List(context.Background(), 0)
	gt.NoError(t, err).Required()
	gt.Array(t, logs).Length(0)
}

func TestReminderCheckEscalatesAtThreshold(t *testing.T) {
	repo := memory.New()
	gt.NoError(t, repo.Settings().Put(context.Background(), model.SettingManagerEmail, "boss@example.com"))

	notifier := &notifierMock{}
	uc := usecase.New(repo,
		usecase.WithWiki(&wikiMock{}),
		usecase.WithNotifier(notifier),
		usecase.WithNow(fixedNow),
	)

	leader := setupLeader(t, repo, &model.TeamLeader{
		Name: "Anna", Email: "anna@example.com", Active: true, ReminderCount: 2,
	}, "col-1")

	result, err := uc.RunReminderCheck(context.Background())
	gt.NoError(t, err).Required()

	gt.Value(t, result.Reminders).Equal(1)
	gt.Value(t, result.Escalations).Equal(1)

	got, err := repo.Leader().Get(context.Background(), leader.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.ReminderCount).Equal(3)

	logs, err := repo.ReminderLog().List(context.Background(), 0)
	gt.NoError(t, err).Required()
	gt.Array(t, logs).Length(1)
	gt.Value(t, logs[0].Status).Equal(types.ReminderStatusEscalated)

	// The reminder email CCs the manager and a separate escalation goes
	// out.
	gt.Array(t, notifier.reminders).Length(1)
	gt.Value(t, notifier.reminders[0].ManagerEmail).Equal("boss@example.com")
	gt.Array(t, notifier.escalations).Length(1)
	gt.Value(t, notifier.escalations[0].ManagerEmail).Equal("boss@example.com")
}

func TestReminderCheckSkipsIneligibleLeaders(t *testing.T) {
	repo := memory.New()
	notifier := &notifierMock{}
	uc := usecase.New(repo,
		usecase.WithWiki(&wikiMock{}),
		usecase.WithNotifier(notifier),
		usecase.WithNow(fixedNow),
	)
	ctx := context.Background()

	setupLeader(t, repo, &model.TeamLeader{
		Name: "Inactive", Email: "inactive@example.com", Active: false,
	}, "col-1")

	snoozed := setupLeader(t, repo, &model.TeamLeader{
		Name: "Snoozed", Email: "snoozed@example.com", Active: true,
	}, "col-2")
	until := fixedNow().Add(3 * 24 * time.Hour)
	gt.NoError(t, repo.Leader().SetSnoozeUntil(ctx, snoozed.ID, &until))

	// No collections: counted as processed but never reminded.
	setupLeader(t, repo, &model.TeamLeader{
		Name: "Empty", Email: "empty@example.com", Active: true,
	})

	result, err := uc.RunReminderCheck(ctx)
	gt.NoError(t, err).Required()

	gt.Value(t, result.Processed).Equal(1)
	gt.Value(t, result.Reminders).Equal(0)
	gt.Array(t, notifier.reminders).Length(0)
}

func TestReminderCheckExpiredSnoozeResumes(t *testing.T) {
	repo := memory.New()
	notifier := &notifierMock{}
	uc := usecase.New(repo,
		usecase.WithWiki(&wikiMock{}),
		usecase.WithNotifier(notifier),
		usecase.WithNow(fixedNow),
	)
	ctx := context.Background()

	leader := setupLeader(t, repo, &model.TeamLeader{
		Name: "Anna", Email: "anna@example.com", Active: true,
	}, "col-1")
	past := fixedNow().Add(-time.Hour)
	gt.NoError(t, repo.Leader().SetSnoozeUntil(ctx, leader.ID, &past))

	result, err := uc.RunReminderCheck(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, result.Reminders).Equal(1)
}

func TestReminderCheckCollectionFailureCountsAsNoActivity(t *testing.T) {
	repo := memory.New()
	notifier := &notifierMock{}
	uc := usecase.New(repo,
		usecase.WithWiki(&wikiMock{
			failing:  map[string]bool{"col-bad": true},
			activity: map[string]bool{"col-ok": false},
		}),
		usecase.WithNotifier(notifier),
		usecase.WithNow(fixedNow),
	)

	setupLeader(t, repo, &model.TeamLeader{
		Name: "Anna", Email: "anna@example.com", Active: true,
	}, "col-bad", "col-ok")

	result, err := uc.RunReminderCheck(context.Background())
	gt.NoError(t, err).Required()

	// The failure is surfaced but the reminder still goes out.
	gt.Array(t, result.Errors).Length(1)
	gt.Value(t, result.Reminders).Equal(1)
}

func TestReminderCheckUserScopedActivity(t *testing.T) {
	repo := memory.New()
	notifier := &notifierMock{}
	uc := usecase.New(repo,
		usecase.WithWiki(&wikiMock{
			activity: map[string]bool{"col-1": true},
			byUser:   map[string]map[string]bool{"col-1": {"user-a": false}},
		}),
		usecase.WithNotifier(notifier),
		usecase.WithNow(fixedNow),
	)

	// Collection has activity, but not by the linked user: still
	// reminded.
	setupLeader(t, repo, &model.TeamLeader{
		Name: "Anna", Email: "anna@example.com", Active: true, WikiUserID: "user-a",
	}, "col-1")

	result, err := uc.RunReminderCheck(context.Background())
	gt.NoError(t, err).Required()
	gt.Value(t, result.Reminders).Equal(1)
}

func TestReminderCheckNotificationFailureStillCounts(t *testing.T) {
	repo := memory.New()
	notifier := &notifierMock{sendErrs: []error{goerr.New("chat down")}}
	uc := usecase.New(repo,
		usecase.WithWiki(&wikiMock{}),
		usecase.WithNotifier(notifier),
		usecase.WithNow(fixedNow),
	)

	leader := setupLeader(t, repo, &model.TeamLeader{
		Name: "Anna", Email: "anna@example.com", Active: true,
	}, "col-1")

	result, err := uc.RunReminderCheck(context.Background())
	gt.NoError(t, err).Required()

	// Counter and log advanced despite the delivery failure.
	gt.Value(t, result.Reminders).Equal(1)
	gt.Array(t, result.Errors).Length(1)
	got, err := repo.Leader().Get(context.Background(), leader.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.ReminderCount).Equal(1)
}

func TestReminderCheckTouchesLastChecked(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo,
		usecase.WithWiki(&wikiMock{}),
		usecase.WithNotifier(&notifierMock{}),
		usecase.WithNow(fixedNow),
	)
	ctx := context.Background()

	leader := setupLeader(t, repo, &model.TeamLeader{
		Name: "Anna", Email: "anna@example.com", Active: true,
	}, "col-1")

	_, err := uc.RunReminderCheck(ctx)
	gt.NoError(t, err).Required()

	cols, err := repo.Collection().ListByLeader(ctx, leader.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, cols).Length(1)
	gt.Value(t, cols[0].LastCheckedAt).NotNil()
}

func TestReminderCheckTouchesLastCheckedOnFailure(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo,
		usecase.WithWiki(&wikiMock{failing: map[string]bool{"col-bad": true}}),
		usecase.WithNotifier(&notifierMock{}),
		usecase.WithNow(fixedNow),
	)
	ctx := context.Background()

	leader := setupLeader(t, repo, &model.TeamLeader{
		Name: "Anna", Email: "anna@example.com", Active: true,
	}, "col-bad")

	result, err := uc.RunReminderCheck(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, result.Errors).Length(1)

	// An unreadable collection still gets its check time recorded.
	cols, err := repo.Collection().ListByLeader(ctx, leader.ID)
	gt.NoError(t, err).Required()
	gt.Array(t, cols).Length(1)
	gt.Value(t, cols[0].LastCheckedAt).NotNil()
}

func TestReminderCheckWritesAudit(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo,
		usecase.WithWiki(&wikiMock{}),
		usecase.WithNotifier(&notifierMock{}),
		usecase.WithNow(fixedNow),
	)
	ctx := context.Background()

	setupLeader(t, repo, &model.TeamLeader{
		Name: "Anna", Email: "anna@example.com", Active: true, ReminderCount: 2,
	}, "col-1")

	_, err := uc.RunReminderCheck(ctx)
	gt.NoError(t, err).Required()

	entries, err := repo.Audit().List(ctx, 10)
	gt.NoError(t, err).Required()
	actions := map[types.AuditAction]bool{}
	for _, e := range entries {
		actions[e.Action] = true
	}
	gt.Bool(t, actions[types.AuditReminderSent]).True()
	gt.Bool(t, actions[types.AuditEscalationSent]).True()
}

func TestReminderCheckWithoutWiki(t *testing.T) {
	uc := usecase.New(memory.New(), usecase.WithNow(fixedNow))

	_, err := uc.RunReminderCheck(context.Background())
	gt.Error(t, err)
}
