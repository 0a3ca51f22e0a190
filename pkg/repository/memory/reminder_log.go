package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/aweos-lab/wikireminder/pkg/domain/interfaces"
	"github.com/aweos-lab/wikireminder/pkg/domain/model"
	"github.com/aweos-lab/wikireminder/pkg/domain/types"
)

type reminderLogRepository struct {
	mu   sync.RWMutex
	logs map[types.ReminderLogID]*model.ReminderLog
}

func newReminderLogRepository() *reminderLogRepository {
	return &reminderLogRepository{
		logs: make(map[types.ReminderLogID]*model.ReminderLog),
	}
}

func copyReminderLog(l *model.ReminderLog) *model.ReminderLog {
	copied := *l
	if l.RespondedAt != nil {
		at := *l.RespondedAt
		copied.RespondedAt = &at
	}
	return &copied
}

func (r *reminderLogRepository) Create(ctx context.Context, log *model.ReminderLog) (*model.ReminderLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyReminderLog(log)
	if created.ID == "" {
		created.ID = types.NewReminderLogID()
	}
	if created.SentAt.IsZero() {
		created.SentAt = time.Now().UTC()
	}

	r.logs[created.ID] = created
	return copyReminderLog(created), nil
}

func (r *reminderLogRepository) Get(ctx context.Context, id types.ReminderLogID) (*model.ReminderLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	log, ok := r.logs[id]
	if !ok {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "reminder log not found", goerr.V("id", id))
	}
	return copyReminderLog(log), nil
}

func (r *reminderLogRepository) sortedLocked(filter func(*model.ReminderLog) bool) []*model.ReminderLog {
	var result []*model.ReminderLog
	for _, l := range r.logs {
		if filter == nil || filter(l) {
			result = append(result, copyReminderLog(l))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].SentAt.Equal(result[j].SentAt) {
			return result[i].SentAt.After(result[j].SentAt)
		}
		return result[i].ID < result[j].ID
	})

	return result
}

func (r *reminderLogRepository) List(ctx context.Context, limit int) ([]*model.ReminderLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := r.sortedLocked(nil)
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *reminderLogRepository) ListByLeader(ctx context.Context, leaderID types.LeaderID, limit int) ([]*model.ReminderLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := r.sortedLocked(func(l *model.ReminderLog) bool {
		return l.LeaderID == leaderID
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *reminderLogRepository) MarkResponded(ctx context.Context, id types.ReminderLogID, responseType types.ResponseType, comment string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	log, ok := r.logs[id]
	if !ok {
		return goerr.Wrap(interfaces.ErrNotFound, "reminder log not found", goerr.V("id", id))
	}

	respondedAt := at
	log.Status = types.ReminderStatusResponded
	log.ResponseType = responseType
	log.Comment = comment
	log.RespondedAt = &respondedAt
	return nil
}
