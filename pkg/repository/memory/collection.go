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

type collectionRepository struct {
	mu          sync.RWMutex
	collections map[types.CollectionID]*model.WikiCollection
}

func newCollectionRepository() *collectionRepository {
	return &collectionRepository{
		collections: make(map[types.CollectionID]*model.WikiCollection),
	}
}

func copyCollection(c *model.WikiCollection) *model.WikiCollection {
	copied := *c
	if c.LastCheckedAt != nil {
		at := *c.LastCheckedAt
		copied.LastCheckedAt = &at
	}
	return &copied
}

func (r *collectionRepository) ListByLeader(ctx context.Context, leaderID types.LeaderID) ([]*model.WikiCollection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.WikiCollection
	for _, c := range r.collections {
		if c.LeaderID == leaderID {
			result = append(result, copyCollection(c))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

func (r *collectionRepository) ReplaceForLeader(ctx context.Context, leaderID types.LeaderID, collections []*model.WikiCollection) ([]*model.WikiCollection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, c := range r.collections {
		if c.LeaderID == leaderID {
			delete(r.collections, id)
		}
	}

	now := time.Now().UTC()
	result := make([]*model.WikiCollection, 0, len(collections))
	for _, c := range collections {
		created := copyCollection(c)
		if created.ID == "" {
			created.ID = types.NewCollectionID()
		}
		created.LeaderID = leaderID
		created.CreatedAt = now

		r.collections[created.ID] = created
		result = append(result, copyCollection(created))
	}

	return result, nil
}

func (r *collectionRepository) TouchLastChecked(ctx context.Context, id types.CollectionID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.collections[id]
	if !ok {
		return goerr.Wrap(interfaces.ErrNotFound, "collection not found", goerr.V("id", id))
	}

	checked := at
	c.LastCheckedAt = &checked
	return nil
}

func (r *collectionRepository) DeleteByLeader(ctx context.Context, leaderID types.LeaderID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, c := range r.collections {
		if c.LeaderID == leaderID {
			delete(r.collections, id)
		}
	}
	return nil
}
