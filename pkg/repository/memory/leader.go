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

type leaderRepository struct {
	mu      sync.RWMutex
	leaders map[types.LeaderID]*model.TeamLeader

	collections *collectionRepository
	tokens      *tokenRepository
}

func newLeaderRepository(collections *collectionRepository, tokens *tokenRepository) *leaderRepository {
	return &leaderRepository{
		leaders:     make(map[types.LeaderID]*model.TeamLeader),
		collections: collections,
		tokens:      tokens,
	}
}

func copyLeader(l *model.TeamLeader) *model.TeamLeader {
	copied := *l
	if l.SnoozeUntil != nil {
		until := *l.SnoozeUntil
		copied.SnoozeUntil = &until
	}
	return &copied
}

func (r *leaderRepository) findByEmailLocked(email string) *model.TeamLeader {
	for _, l := range r.leaders {
		if l.Email == email {
			return l
		}
	}
	return nil
}

func (r *leaderRepository) Create(ctx context.Context, leader *model.TeamLeader) (*model.TeamLeader, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing := r.findByEmailLocked(leader.Email); existing != nil {
		return nil, goerr.Wrap(interfaces.ErrDuplicateEmail, "leader email taken", goerr.V("email", leader.Email))
	}

	created := copyLeader(leader)
	if created.ID == "" {
		created.ID = types.NewLeaderID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.leaders[created.ID] = created
	return copyLeader(created), nil
}

func (r *leaderRepository) Get(ctx context.Context, id types.LeaderID) (*model.TeamLeader, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	leader, ok := r.leaders[id]
	if !ok {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "leader not found", goerr.V("id", id))
	}
	return copyLeader(leader), nil
}

func (r *leaderRepository) GetByEmail(ctx context.Context, email string) (*model.TeamLeader, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	leader := r.findByEmailLocked(email)
	if leader == nil {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "leader not found", goerr.V("email", email))
	}
	return copyLeader(leader), nil
}

func (r *leaderRepository) List(ctx context.Context) ([]*model.TeamLeader, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.TeamLeader, 0, len(r.leaders))
	for _, l := range r.leaders {
		result = append(result, copyLeader(l))
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

func (r *leaderRepository) Update(ctx context.Context, leader *model.TeamLeader) (*model.TeamLeader, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.leaders[leader.ID]
	if !ok {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "leader not found", goerr.V("id", leader.ID))
	}

	if other := r.findByEmailLocked(leader.Email); other != nil && other.ID != leader.ID {
		return nil, goerr.Wrap(interfaces.ErrDuplicateEmail, "leader email taken", goerr.V("email", leader.Email))
	}

	updated := copyLeader(leader)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.leaders[updated.ID] = updated
	return copyLeader(updated), nil
}

func (r *leaderRepository) Delete(ctx context.Context, id types.LeaderID) error {
	r.mu.Lock()
	if _, ok := r.leaders[id]; !ok {
		r.mu.Unlock()
		return goerr.Wrap(interfaces.ErrNotFound, "leader not found", goerr.V("id", id))
	}
	delete(r.leaders, id)
	r.mu.Unlock()

	// Cascade outside the leader lock: the sub-repositories have their
	// own locks.
	if err := r.collections.DeleteByLeader(ctx, id); err != nil {
		return err
	}
	return r.tokens.DeleteByLeader(ctx, id)
}

func (r *leaderRepository) SetReminderCount(ctx context.Context, id types.LeaderID, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	leader, ok := r.leaders[id]
	if !ok {
		return goerr.Wrap(interfaces.ErrNotFound, "leader not found", goerr.V("id", id))
	}

	leader.ReminderCount = count
	leader.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *leaderRepository) SetSnoozeUntil(ctx context.Context, id types.LeaderID, until *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	leader, ok := r.leaders[id]
	if !ok {
		return goerr.Wrap(interfaces.ErrNotFound, "leader not found", goerr.V("id", id))
	}

	if until != nil {
		u := *until
		leader.SnoozeUntil = &u
	} else {
		leader.SnoozeUntil = nil
	}
	leader.UpdatedAt = time.Now().UTC()
	return nil
}
