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

type settingsRepository struct {
	mu     sync.RWMutex
	values map[string]string
}

func newSettingsRepository() *settingsRepository {
	return &settingsRepository{
		values: make(map[string]string),
	}
}

func (r *settingsRepository) Get(ctx context.Context, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.values[key]
	if !ok {
		return "", goerr.Wrap(interfaces.ErrNotFound, "setting not found", goerr.V("key", key))
	}
	return value, nil
}

func (r *settingsRepository) Put(ctx context.Context, key, value string) error {
	if key == "" {
		return goerr.New("setting key is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

func (r *settingsRepository) GetAll(ctx context.Context) (map[string]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]string, len(r.values))
	for k, v := range r.values {
		result[k] = v
	}
	return result, nil
}

type auditRepository struct {
	mu      sync.RWMutex
	entries []*model.AuditEntry
}

func newAuditRepository() *auditRepository {
	return &auditRepository{}
}

func copyAudit(e *model.AuditEntry) *model.AuditEntry {
	copied := *e
	return &copied
}

func (r *auditRepository) Insert(ctx context.Context, entry *model.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := copyAudit(entry)
	if stored.ID == "" {
		stored.ID = types.NewAuditID()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	r.entries = append(r.entries, stored)
	return nil
}

func (r *auditRepository) List(ctx context.Context, limit int) ([]*model.AuditEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.AuditEntry, 0, len(r.entries))
	for _, e := range r.entries {
		result = append(result, copyAudit(e))
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
