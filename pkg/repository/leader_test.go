package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/aweos-lab/wikireminder/pkg/domain/interfaces"
	"github.com/aweos-lab/wikireminder/pkg/domain/model"
	"github.com/aweos-lab/wikireminder/pkg/domain/types"
	"github.com/aweos-lab/wikireminder/pkg/repository/firestore"
	"github.com/aweos-lab/wikireminder/pkg/repository/memory"
)

func newFirestoreRepo(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	repo, err := firestore.New(context.Background(), projectID, databaseID,
		firestore.WithCollectionPrefix("test_"+time.Now().Format("20060102150405")),
	)
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})

	return repo
}

func runLeaderRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns ID and timestamps", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Leader().Create(ctx, &model.TeamLeader{
			Name:   "Anna Schmidt",
			Email:  "anna@example.com",
			Active: true,
		})
		gt.NoError(t, err).Required()

		gt.Value(t, created.ID).NotEqual(types.LeaderID(""))
		gt.Bool(t, created.CreatedAt.IsZero()).False()
		gt.Value(t, created.ReminderCount).Equal(0)
	})

	t.Run("Create rejects duplicate email", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Leader().Create(ctx, &model.TeamLeader{
			Name: "Anna", Email: "dup@example.com", Active: true,
		})
		gt.NoError(t, err).Required()

		_, err = repo.Leader().Create(ctx, &model.TeamLeader{
			Name: "Other Anna", Email: "dup@example.com", Active: true,
		})
		gt.Error(t, err)
		gt.Bool(t, errorIs(err, interfaces.ErrDuplicateEmail)).True()
	})

	t.Run("GetByEmail finds leader", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Leader().Create(ctx, &model.TeamLeader{
			Name: "Ben", Email: "ben@example.com", Active: true,
		})
		gt.NoError(t, err).Required()

		found, err := repo.Leader().GetByEmail(ctx, "ben@example.com")
		gt.NoError(t, err).Required()
		gt.Value(t, found.ID).Equal(created.ID)
	})

	t.Run("Get returns ErrNotFound for missing leader", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Leader().Get(ctx, types.NewLeaderID())
		gt.Error(t, err)
		gt.Bool(t, errorIs(err, interfaces.ErrNotFound)).True()
	})

	t.Run("List orders by name", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, name := range []string{"Clara", "Anna", "Ben"} {
			_, err := repo.Leader().Create(ctx, &model.TeamLeader{
				Name: name, Email: name + "@example.com", Active: true,
			})
			gt.NoError(t, err).Required()
		}

		leaders, err := repo.Leader().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, leaders).Length(3)
		gt.Value(t, leaders[0].Name).Equal("Anna")
		gt.Value(t, leaders[1].Name).Equal("Ben")
		gt.Value(t, leaders[2].Name).Equal("Clara")
	})

	t.Run("SetReminderCount updates only the counter", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Leader().Create(ctx, &model.TeamLeader{
			Name: "Anna", Email: "counter@example.com", Active: true,
		})
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Leader().SetReminderCount(ctx, created.ID, 2))

		got, err := repo.Leader().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.ReminderCount).Equal(2)
		gt.Value(t, got.Name).Equal("Anna")
	})

	t.Run("SetSnoozeUntil sets and clears", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Leader().Create(ctx, &model.TeamLeader{
			Name: "Anna", Email: "snooze@example.com", Active: true,
		})
		gt.NoError(t, err).Required()

		until := time.Now().Add(7 * 24 * time.Hour).UTC()
		gt.NoError(t, repo.Leader().SetSnoozeUntil(ctx, created.ID, &until))

		got, err := repo.Leader().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.SnoozeUntil).NotNil()

		gt.NoError(t, repo.Leader().SetSnoozeUntil(ctx, created.ID, nil))
		got, err = repo.Leader().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.SnoozeUntil).Nil()
	})

	t.Run("Delete cascades collections and tokens", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Leader().Create(ctx, &model.TeamLeader{
			Name: "Anna", Email: "cascade@example.com", Active: true,
		})
		gt.NoError(t, err).Required()

		_, err = repo.Collection().ReplaceForLeader(ctx, created.ID, []*model.WikiCollection{
			{WikiCollectionID: "wc-1", Name: "Operations"},
		})
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Token().Put(ctx, &model.ResponseToken{
			Token:     "cascade-token",
			LeaderID:  created.ID,
			ExpiresAt: time.Now().Add(time.Hour),
		}))

		gt.NoError(t, repo.Leader().Delete(ctx, created.ID))

		cols, err := repo.Collection().ListByLeader(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, cols).Length(0)

		_, err = repo.Token().Get(ctx, "cascade-token")
		gt.Bool(t, errorIs(err, interfaces.ErrTokenNotFound)).True()
	})
}

func TestLeaderRepositoryMemory(t *testing.T) {
	runLeaderRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestLeaderRepositoryFirestore(t *testing.T) {
	runLeaderRepositoryTest(t, newFirestoreRepo)
}
