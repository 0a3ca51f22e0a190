package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/aweos-lab/wikireminder/pkg/domain/interfaces"
	"github.com/aweos-lab/wikireminder/pkg/domain/model"
	"github.com/aweos-lab/wikireminder/pkg/domain/types"
	"github.com/aweos-lab/wikireminder/pkg/repository/memory"
)

func errorIs(err, target error) bool {
	return errors.Is(err, target)
}

func runTokenRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Consume marks token used", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		now := time.Now().UTC()

		gt.NoError(t, repo.Token().Put(ctx, &model.ResponseToken{
			Token:     "tok-1",
			LeaderID:  types.NewLeaderID(),
			ExpiresAt: now.Add(time.Hour),
			CreatedAt: now,
		}))

		consumed, err := repo.Token().Consume(ctx, "tok-1", now)
		gt.NoError(t, err).Required()
		gt.Bool(t, consumed.Used).True()

		got, err := repo.Token().Get(ctx, "tok-1")
		gt.NoError(t, err).Required()
		gt.Bool(t, got.Used).True()
	})

	t.Run("Consume rejects second use", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		now := time.Now().UTC()

		gt.NoError(t, repo.Token().Put(ctx, &model.ResponseToken{
			Token:     "tok-2",
			LeaderID:  types.NewLeaderID(),
			ExpiresAt: now.Add(time.Hour),
		}))

		_, err := repo.Token().Consume(ctx, "tok-2", now)
		gt.NoError(t, err).Required()

		_, err = repo.Token().Consume(ctx, "tok-2", now)
		gt.Bool(t, errorIs(err, interfaces.ErrTokenUsed)).True()
	})

	t.Run("Consume rejects expired token", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		now := time.Now().UTC()

		gt.NoError(t, repo.Token().Put(ctx, &model.ResponseToken{
			Token:     "tok-3",
			LeaderID:  types.NewLeaderID(),
			ExpiresAt: now.Add(-time.Minute),
		}))

		_, err := repo.Token().Consume(ctx, "tok-3", now)
		gt.Bool(t, errorIs(err, interfaces.ErrTokenExpired)).True()
	})

	t.Run("Consume rejects unknown token", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Token().Consume(ctx, "no-such-token", time.Now())
		gt.Bool(t, errorIs(err, interfaces.ErrTokenNotFound)).True()
	})
}

func TestTokenRepositoryMemory(t *testing.T) {
	runTokenRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestTokenRepositoryFirestore(t *testing.T) {
	runTokenRepositoryTest(t, newFirestoreRepo)
}

func TestTokenConsumeConcurrent(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	now := time.Now().UTC()

	gt.NoError(t, repo.Token().Put(ctx, &model.ResponseToken{
		Token:     "race-token",
		LeaderID:  types.NewLeaderID(),
		ExpiresAt: now.Add(time.Hour),
	}))

	const workers = 16
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Token().Consume(ctx, "race-token", now)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, used int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, interfaces.ErrTokenUsed):
			used++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	gt.Value(t, ok).Equal(1)
	gt.Value(t, used).Equal(workers - 1)
}
