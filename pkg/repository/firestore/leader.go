package firestore

import (
	"context"
	"errors"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/aweos-lab/wikireminder/pkg/domain/interfaces"
	"github.com/aweos-lab/wikireminder/pkg/domain/model"
	"github.com/aweos-lab/wikireminder/pkg/domain/types"
)

type leaderRepository struct {
	client           *firestore.Client
	collectionPrefix string

	collections *collectionRepository
	tokens      *tokenRepository
}

func newLeaderRepository(client *firestore.Client, collections *collectionRepository, tokens *tokenRepository) *leaderRepository {
	return &leaderRepository{
		client:      client,
		collections: collections,
		tokens:      tokens,
	}
}

func (r *leaderRepository) leadersCollection() string {
	return prefixed(r.collectionPrefix, "team_leaders")
}

func (r *leaderRepository) getByEmail(ctx context.Context, email string) (*model.TeamLeader, error) {
	iter := r.client.Collection(r.leadersCollection()).
		Where("Email", "==", email).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "leader not found", goerr.V("email", email))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query leader by email")
	}

	var leader model.TeamLeader
	if err := doc.DataTo(&leader); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal leader")
	}
	return &leader, nil
}

func (r *leaderRepository) Create(ctx context.Context, leader *model.TeamLeader) (*model.TeamLeader, error) {
	if _, err := r.getByEmail(ctx, leader.Email); err == nil {
		return nil, goerr.Wrap(interfaces.ErrDuplicateEmail, "leader email taken", goerr.V("email", leader.Email))
	} else if !errors.Is(err, interfaces.ErrNotFound) {
		return nil, err
	}

	created := *leader
	if created.ID == "" {
		created.ID = types.NewLeaderID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	docRef := r.client.Collection(r.leadersCollection()).Doc(created.ID.String())
	if _, err := docRef.Create(ctx, &created); err != nil {
		return nil, goerr.Wrap(err, "failed to create leader", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *leaderRepository) Get(ctx context.Context, id types.LeaderID) (*model.TeamLeader, error) {
	doc, err := r.client.Collection(r.leadersCollection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "leader not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get leader", goerr.V("id", id))
	}

	var leader model.TeamLeader
	if err := doc.DataTo(&leader); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal leader")
	}
	return &leader, nil
}

func (r *leaderRepository) GetByEmail(ctx context.Context, email string) (*model.TeamLeader, error) {
	return r.getByEmail(ctx, email)
}

func (r *leaderRepository) List(ctx context.Context) ([]*model.TeamLeader, error) {
	iter := r.client.Collection(r.leadersCollection()).Documents(ctx)
	defer iter.Stop()

	var result []*model.TeamLeader
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list leaders")
		}

		var leader model.TeamLeader
		if err := doc.DataTo(&leader); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal leader")
		}
		result = append(result, &leader)
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
	existing, err := r.Get(ctx, leader.ID)
	if err != nil {
		return nil, err
	}

	if other, err := r.getByEmail(ctx, leader.Email); err == nil && other.ID != leader.ID {
		return nil, goerr.Wrap(interfaces.ErrDuplicateEmail, "leader email taken", goerr.V("email", leader.Email))
	}

	updated := *leader
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	docRef := r.client.Collection(r.leadersCollection()).Doc(updated.ID.String())
	if _, err := docRef.Set(ctx, &updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update leader", goerr.V("id", updated.ID))
	}

	return &updated, nil
}

func (r *leaderRepository) Delete(ctx context.Context, id types.LeaderID) error {
	docRef := r.client.Collection(r.leadersCollection()).Doc(id.String())

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(interfaces.ErrNotFound, "leader not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get leader", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete leader", goerr.V("id", id))
	}

	// Cascade to assigned collections and response tokens.
	if err := r.collections.DeleteByLeader(ctx, id); err != nil {
		return err
	}
	return r.tokens.DeleteByLeader(ctx, id)
}

func (r *leaderRepository) SetReminderCount(ctx context.Context, id types.LeaderID, count int) error {
	docRef := r.client.Collection(r.leadersCollection()).Doc(id.String())

	_, err := docRef.Update(ctx, []firestore.Update{
		{Path: "ReminderCount", Value: count},
		{Path: "UpdatedAt", Value: time.Now().UTC()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(interfaces.ErrNotFound, "leader not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to set reminder count", goerr.V("id", id))
	}
	return nil
}

func (r *leaderRepository) SetSnoozeUntil(ctx context.Context, id types.LeaderID, until *time.Time) error {
	docRef := r.client.Collection(r.leadersCollection()).Doc(id.String())

	var value any
	if until != nil {
		value = *until
	} else {
		value = firestore.Delete
	}

	_, err := docRef.Update(ctx, []firestore.Update{
		{Path: "SnoozeUntil", Value: value},
		{Path: "UpdatedAt", Value: time.Now().UTC()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(interfaces.ErrNotFound, "leader not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to set snooze", goerr.V("id", id))
	}
	return nil
}
