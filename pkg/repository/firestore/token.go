package firestore

import (
	"context"
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

type tokenRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newTokenRepository(client *firestore.Client) *tokenRepository {
	return &tokenRepository{client: client}
}

func (r *tokenRepository) tokensCollection() string {
	return prefixed(r.collectionPrefix, "response_tokens")
}

func (r *tokenRepository) Put(ctx context.Context, token *model.ResponseToken) error {
	if token.Token == "" {
		return goerr.New("token string is required")
	}

	stored := *token
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	// The token string is the document ID, so uniqueness comes from
	// Create failing on an existing document.
	docRef := r.client.Collection(r.tokensCollection()).Doc(stored.Token)
	if _, err := docRef.Create(ctx, &stored); err != nil {
		return goerr.Wrap(err, "failed to put token")
	}
	return nil
}

func (r *tokenRepository) Get(ctx context.Context, token string) (*model.ResponseToken, error) {
	doc, err := r.client.Collection(r.tokensCollection()).Doc(token).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrTokenNotFound, "token not found")
		}
		return nil, goerr.Wrap(err, "failed to get token")
	}

	var stored model.ResponseToken
	if err := doc.DataTo(&stored); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal token")
	}
	return &stored, nil
}

// Consume runs the unused check and the used=true write in one
// transaction. Two concurrent submissions of the same token serialize
// here; the loser observes Used and gets ErrTokenUsed.
func (r *tokenRepository) Consume(ctx context.Context, token string, now time.Time) (*model.ResponseToken, error) {
	docRef := r.client.Collection(r.tokensCollection()).Doc(token)

	var consumed model.ResponseToken
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(interfaces.ErrTokenNotFound, "token not found")
			}
			return goerr.Wrap(err, "failed to get token")
		}

		if err := doc.DataTo(&consumed); err != nil {
			return goerr.Wrap(err, "failed to unmarshal token")
		}

		if consumed.Used {
			return goerr.Wrap(interfaces.ErrTokenUsed, "token already used")
		}
		if consumed.Expired(now) {
			return goerr.Wrap(interfaces.ErrTokenExpired, "token expired", goerr.V("expiresAt", consumed.ExpiresAt))
		}

		return tx.Update(docRef, []firestore.Update{
			{Path: "Used", Value: true},
		})
	})
	if err != nil {
		return nil, err
	}

	consumed.Used = true
	return &consumed, nil
}

func (r *tokenRepository) DeleteByLeader(ctx context.Context, leaderID types.LeaderID) error {
	iter := r.client.Collection(r.tokensCollection()).
		Where("LeaderID", "==", leaderID.String()).
		Documents(ctx)
	defer iter.Stop()

	bw := r.client.BulkWriter(ctx)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to query tokens", goerr.V("leaderID", leaderID))
		}
		if _, err := bw.Delete(doc.Ref); err != nil {
			return goerr.Wrap(err, "failed to enqueue token delete")
		}
	}
	bw.End()
	return nil
}
