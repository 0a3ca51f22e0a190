package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/aweos-lab/wikireminder/pkg/domain/model"
	"github.com/aweos-lab/wikireminder/pkg/domain/types"
	"github.com/aweos-lab/wikireminder/pkg/service/mail"
	"github.com/aweos-lab/wikireminder/pkg/service/notify"
	"github.com/aweos-lab/wikireminder/pkg/service/wiki"
	"github.com/aweos-lab/wikireminder/pkg/utils/logging"
)

const (
	// lookbackWindow is how far back the engine searches for wiki
	// activity.
	lookbackWindow = 7 * 24 * time.Hour

	// tokenTTL is the lifetime of a reminder response token.
	tokenTTL = 7 * 24 * time.Hour

	// snoozeDuration is how long a snooze response pauses reminders.
	snoozeDuration = 7 * 24 * time.Hour

	// recentUpdateLimit is how many recent edits are shown in the email.
	recentUpdateLimit = 5

	// checkConcurrency bounds parallel leader evaluation. Leaders never
	// share mutable state, so the only contention is the wiki API.
	checkConcurrency = 4
)

// ErrCheckRunning is returned when a reminder check is triggered while
// another one is still in flight.
var ErrCheckRunning = goerr.New("a reminder check is already running")

// RunReminderCheck executes one reconciliation cycle: evaluate every
// eligible team leader against the wiki activity of the last week, and
// remind or escalate those without activity. Per-leader failures are
// collected into the result; only a setup failure aborts the cycle.
func (uc *UseCases) RunReminderCheck(ctx context.Context) (*model.CycleResult, error) {
	if !uc.checkMu.TryLock() {
		return nil, ErrCheckRunning
	}
	defer uc.checkMu.Unlock()

	if uc.wiki == nil {
		return nil, goerr.New("no wiki backend configured")
	}

	kv, err := uc.repo.Settings().GetAll(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load settings")
	}
	settings := model.SettingsFromMap(kv)

	leaders, err := uc.repo.Leader().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list team leaders")
	}

	now := uc.now().UTC()
	cutoff := now.Add(-lookbackWindow)

	result := &model.CycleResult{Errors: []string{}}
	var mu sync.Mutex

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(checkConcurrency)

	for _, leader := range leaders {
		if !leader.Eligible(now) {
			continue
		}

		mu.Lock()
		result.Processed++
		mu.Unlock()

		eg.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					logging.From(ctx).Error("panic in reminder check",
						"leaderID", leader.ID, "panic", r)
					mu.Lock()
					result.Errors = append(result.Errors,
						fmt.Sprintf("panic processing %s: %v", leader.Name, r))
					mu.Unlock()
				}
			}()

			uc.checkLeader(ctx, leader, settings, now, cutoff, result, &mu)
			return nil
		})
	}

	// Workers only report through result.Errors.
	_ = eg.Wait()

	logging.From(ctx).Info("reminder check completed",
		"processed", result.Processed,
		"reminders", result.Reminders,
		"escalations", result.Escalations,
		"errors", len(result.Errors),
	)

	return result, nil
}

func (uc *UseCases) checkLeader(ctx context.Context, leader *model.TeamLeader, settings *model.Settings, now, cutoff time.Time, result *model.CycleResult, mu *sync.Mutex) {
	addErr := func(format string, args ...any) {
		mu.Lock()
		result.Errors = append(result.Errors, fmt.Sprintf(format, args...))
		mu.Unlock()
	}

	collections, err := uc.repo.Collection().ListByLeader(ctx, leader.ID)
	if err != nil {
		addErr("failed to load collections of %s: %v", leader.Name, err)
		return
	}
	if len(collections) == 0 {
		return
	}

	hasActivity := false
	for _, col := range collections {
		var active bool
		var checkErr error
		if leader.WikiUserID != "" {
			active, checkErr = uc.wiki.ActivityByUserSince(ctx, col.WikiCollectionID, leader.WikiUserID, cutoff)
		} else {
			active, checkErr = uc.wiki.HasActivitySince(ctx, col.WikiCollectionID, cutoff)
		}
		// The check time is recorded regardless of outcome.
		if err := uc.repo.Collection().TouchLastChecked(ctx, col.ID, now); err != nil {
			addErr("failed to record check time for %s: %v", col.Name, err)
		}

		if checkErr != nil {
			// An unreadable collection counts as no activity; the error
			// is surfaced so operators notice a broken integration.
			addErr("failed to check collection %s: %v", col.Name, checkErr)
			continue
		}

		if active {
			hasActivity = true
			break
		}
	}

	if hasActivity {
		if err := uc.repo.Leader().SetReminderCount(ctx, leader.ID, 0); err != nil {
			addErr("failed to reset counter of %s: %v", leader.Name, err)
		}
		return
	}

	newCount := leader.ReminderCount + 1
	escalated := newCount >= settings.EscalationThreshold

	if err := uc.repo.Leader().SetReminderCount(ctx, leader.ID, newCount); err != nil {
		addErr("failed to update counter of %s: %v", leader.Name, err)
		return
	}

	status := types.ReminderStatusSent
	if escalated {
		status = types.ReminderStatusEscalated
	}

	log, err := uc.repo.ReminderLog().Create(ctx, &model.ReminderLog{
		LeaderID:      leader.ID,
		ReminderCount: newCount,
		Status:        status,
		SentAt:        now,
	})
	if err != nil {
		addErr("failed to create reminder log for %s: %v", leader.Name, err)
		return
	}

	token := uuid.NewString()
	if err := uc.repo.Token().Put(ctx, &model.ResponseToken{
		Token:         token,
		LeaderID:      leader.ID,
		ReminderLogID: log.ID,
		ExpiresAt:     now.Add(tokenTTL),
		CreatedAt:     now,
	}); err != nil {
		addErr("failed to create response token for %s: %v", leader.Name, err)
		return
	}

	collectionNames := make([]string, len(collections))
	refs := make([]wiki.CollectionRef, len(collections))
	for i, col := range collections {
		collectionNames[i] = col.Name
		refs[i] = wiki.CollectionRef{ID: col.WikiCollectionID, Name: col.Name}
	}

	recentUpdates := uc.recentUpdates(ctx, leader, refs)

	if uc.notifier != nil {
		managerEmail := ""
		if escalated {
			managerEmail = settings.ManagerEmail
		}

		for _, sendErr := range uc.notifier.SendReminder(ctx, &notify.Reminder{
			Leader:        leader,
			Collections:   collectionNames,
			ReminderCount: newCount,
			ResponseURL:   uc.responseURL(token),
			ManagerEmail:  managerEmail,
			RecentUpdates: recentUpdates,
		}) {
			addErr("failed to notify %s: %v", leader.Name, sendErr)
		}
	}

	mu.Lock()
	result.Reminders++
	mu.Unlock()

	uc.audit(ctx, types.AuditReminderSent, "reminder", log.ID.String(), map[string]any{
		"team_leader_id": leader.ID,
		"reminder_count": newCount,
	}, "")

	if !escalated {
		return
	}

	mu.Lock()
	result.Escalations++
	mu.Unlock()

	uc.audit(ctx, types.AuditEscalationSent, "reminder", log.ID.String(), map[string]any{
		"team_leader_id": leader.ID,
		"reminder_count": newCount,
	}, "")

	if uc.notifier != nil {
		for _, sendErr := range uc.notifier.SendEscalation(ctx, &notify.Escalation{
			Leader:        leader,
			Collections:   collectionNames,
			ReminderCount: newCount,
			ManagerEmail:  settings.ManagerEmail,
		}) {
			addErr("failed to escalate %s: %v", leader.Name, sendErr)
		}
	}
}

// recentUpdates loads the leader's latest wiki edits for the email. Any
// failure degrades to an empty list.
func (uc *UseCases) recentUpdates(ctx context.Context, leader *model.TeamLeader, refs []wiki.CollectionRef) []mail.DocumentUpdate {
	if leader.WikiUserID == "" || len(refs) == 0 {
		return nil
	}

	docs, err := uc.wiki.RecentActivityByUser(ctx, leader.WikiUserID, refs, time.Time{}, recentUpdateLimit)
	if err != nil {
		logging.From(ctx).Warn("failed to load recent updates",
			"leaderID", leader.ID, "error", err)
		return nil
	}

	updates := make([]mail.DocumentUpdate, len(docs))
	for i, doc := range docs {
		updates[i] = mail.DocumentUpdate{
			Title:          doc.Title,
			CollectionName: doc.CollectionName,
			UpdatedAt:      doc.UpdatedAt,
		}
	}
	return updates
}

func (uc *UseCases) responseURL(token string) string {
	return uc.baseURL + "/respond/" + token
}

// audit writes an audit entry, logging instead of failing the caller.
func (uc *UseCases) audit(ctx context.Context, action types.AuditAction, entityType, entityID string, details map[string]any, actorEmail string) {
	var detail string
	if details != nil {
		if data, err := json.Marshal(details); err == nil {
			detail = string(data)
		}
	}

	err := uc.repo.Audit().Insert(ctx, &model.AuditEntry{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    detail,
		ActorEmail: actorEmail,
		CreatedAt:  uc.now().UTC(),
	})
	if err != nil {
		logging.From(ctx).Error("failed to write audit entry",
			"action", action, "error", err)
	}
}

// SchedulerCheck adapts RunReminderCheck for the cron scheduler.
func (uc *UseCases) SchedulerCheck(ctx context.Context) error {
	_, err := uc.RunReminderCheck(ctx)
	return err
}
