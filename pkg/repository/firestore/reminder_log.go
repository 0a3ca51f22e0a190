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

type reminderLogRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newReminderLogRepository(client *firestore.Client) *reminderLogRepository {
	return &reminderLogRepository{client: client}
}

func (r *reminderLogRepository) logsCollection() string {
	return prefixed(r.collectionPrefix, "reminder_logs")
}

func (r *reminderLogRepository) Create(ctx context.Context, log *model.ReminderLog) (*model.ReminderLog, error) {
	created := *log
	if created.ID == "" {
		created.ID = types.NewReminderLogID()
	}
	if created.SentAt.IsZero() {
		created.SentAt = time.Now().UTC()
	}

	docRef := r.client.Collection(r.logsCollection()).Doc(created.ID.String())
	if _, err := docRef.Create(ctx, &created); err != nil {
		return nil, goerr.Wrap(err, "failed to create reminder log", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *reminderLogRepository) Get(ctx context.Context, id types.ReminderLogID) (*model.ReminderLog, error) {
	doc, err := r.client.Collection(r.logsCollection()).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "reminder log not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get reminder log", goerr.V("id", id))
	}

	var log model.ReminderLog
	if err := doc.DataTo(&log); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal reminder log")
	}
	return &log, nil
}

func (r *reminderLogRepository) list(ctx context.Context, query firestore.Query, limit int) ([]*model.ReminderLog, error) {
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var result []*model.ReminderLog
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list reminder logs")
		}

		var log model.ReminderLog
		if err := doc.DataTo(&log); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal reminder log")
		}
		result = append(result, &log)
	}

	return result, nil
}

func (r *reminderLogRepository) List(ctx context.Context, limit int) ([]*model.ReminderLog, error) {
	query := r.client.Collection(r.logsCollection()).
		OrderBy("SentAt", firestore.Desc)
	return r.list(ctx, query, limit)
}

func (r *reminderLogRepository) ListByLeader(ctx context.Context, leaderID types.LeaderID, limit int) ([]*model.ReminderLog, error) {
	query := r.client.Collection(r.logsCollection()).
		Where("LeaderID", "==", leaderID.String()).
		OrderBy("SentAt", firestore.Desc)
	return r.list(ctx, query, limit)
}

func (r *reminderLogRepository) MarkResponded(ctx context.Context, id types.ReminderLogID, responseType types.ResponseType, comment string, at time.Time) error {
	docRef := r.client.Collection(r.logsCollection()).Doc(id.String())

	_, err := docRef.Update(ctx, []firestore.Update{
		{Path: "Status", Value: types.ReminderStatusResponded.String()},
		{Path: "ResponseType", Value: responseType.String()},
		{Path: "Comment", Value: comment},
		{Path: "RespondedAt", Value: at},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(interfaces.ErrNotFound, "reminder log not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to mark reminder log responded", goerr.V("id", id))
	}
	return nil
}
