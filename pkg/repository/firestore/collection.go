package firestore

import (
	"context"
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

type collectionRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newCollectionRepository(client *firestore.Client) *collectionRepository {
	return &collectionRepository{client: client}
}

func (r *collectionRepository) wikiCollections() string {
	return prefixed(r.collectionPrefix, "wiki_collections")
}

func (r *collectionRepository) listRefsByLeader(ctx context.Context, leaderID types.LeaderID) ([]*firestore.DocumentRef, error) {
	iter := r.client.Collection(r.wikiCollections()).
		Where("LeaderID", "==", leaderID.String()).
		Documents(ctx)
	defer iter.Stop()

	var refs []*firestore.DocumentRef
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to query collections", goerr.V("leaderID", leaderID))
		}
		refs = append(refs, doc.Ref)
	}
	return refs, nil
}

func (r *collectionRepository) ListByLeader(ctx context.Context, leaderID types.LeaderID) ([]*model.WikiCollection, error) {
	iter := r.client.Collection(r.wikiCollections()).
		Where("LeaderID", "==", leaderID.String()).
		Documents(ctx)
	defer iter.Stop()

	var result []*model.WikiCollection
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list collections", goerr.V("leaderID", leaderID))
		}

		var c model.WikiCollection
		if err := doc.DataTo(&c); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal collection")
		}
		result = append(result, &c)
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
	refs, err := r.listRefsByLeader(ctx, leaderID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := make([]*model.WikiCollection, 0, len(collections))
	for _, c := range collections {
		stored := *c
		if stored.ID == "" {
			stored.ID = types.NewCollectionID()
		}
		stored.LeaderID = leaderID
		stored.CreatedAt = now
		created = append(created, &stored)
	}

	// Swap in one batch so readers never observe a half-replaced set.
	bw := r.client.BulkWriter(ctx)
	for _, ref := range refs {
		if _, err := bw.Delete(ref); err != nil {
			return nil, goerr.Wrap(err, "failed to enqueue collection delete")
		}
	}
	for _, c := range created {
		ref := r.client.Collection(r.wikiCollections()).Doc(c.ID.String())
		if _, err := bw.Set(ref, c); err != nil {
			return nil, goerr.Wrap(err, "failed to enqueue collection write")
		}
	}
	bw.End()

	return created, nil
}

func (r *collectionRepository) TouchLastChecked(ctx context.Context, id types.CollectionID, at time.Time) error {
	docRef := r.client.Collection(r.wikiCollections()).Doc(id.String())

	_, err := docRef.Update(ctx, []firestore.Update{
		{Path: "LastCheckedAt", Value: at},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(interfaces.ErrNotFound, "collection not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to touch collection", goerr.V("id", id))
	}
	return nil
}

func (r *collectionRepository) DeleteByLeader(ctx context.Context, leaderID types.LeaderID) error {
	refs, err := r.listRefsByLeader(ctx, leaderID)
	if err != nil {
		return err
	}

	bw := r.client.BulkWriter(ctx)
	for _, ref := range refs {
		if _, err := bw.Delete(ref); err != nil {
			return goerr.Wrap(err, "failed to enqueue collection delete")
		}
	}
	bw.End()
	return nil
}
