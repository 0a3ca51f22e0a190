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

type settingsRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newSettingsRepository(client *firestore.Client) *settingsRepository {
	return &settingsRepository{client: client}
}

func (r *settingsRepository) settingsCollection() string {
	return prefixed(r.collectionPrefix, "settings")
}

type settingDoc struct {
	Key   string
	Value string
}

func (r *settingsRepository) Get(ctx context.Context, key string) (string, error) {
	doc, err := r.client.Collection(r.settingsCollection()).Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", goerr.Wrap(interfaces.ErrNotFound, "setting not found", goerr.V("key", key))
		}
		return "", goerr.Wrap(err, "failed to get setting", goerr.V("key", key))
	}

	var s settingDoc
	if err := doc.DataTo(&s); err != nil {
		return "", goerr.Wrap(err, "failed to unmarshal setting")
	}
	return s.Value, nil
}

func (r *settingsRepository) Put(ctx context.Context, key, value string) error {
	if key == "" {
		return goerr.New("setting key is required")
	}

	docRef := r.client.Collection(r.settingsCollection()).Doc(key)
	if _, err := docRef.Set(ctx, &settingDoc{Key: key, Value: value}); err != nil {
		return goerr.Wrap(err, "failed to put setting", goerr.V("key", key))
	}
	return nil
}

func (r *settingsRepository) GetAll(ctx context.Context) (map[string]string, error) {
	iter := r.client.Collection(r.settingsCollection()).Documents(ctx)
	defer iter.Stop()

	result := make(map[string]string)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list settings")
		}

		var s settingDoc
		if err := doc.DataTo(&s); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal setting")
		}
		result[s.Key] = s.Value
	}

	return result, nil
}

type auditRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newAuditRepository(client *firestore.Client) *auditRepository {
	return &auditRepository{client: client}
}

func (r *auditRepository) auditCollection() string {
	return prefixed(r.collectionPrefix, "audit_logs")
}

func (r *auditRepository) Insert(ctx context.Context, entry *model.AuditEntry) error {
	stored := *entry
	if stored.ID == "" {
		stored.ID = types.NewAuditID()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	docRef := r.client.Collection(r.auditCollection()).Doc(stored.ID.String())
	if _, err := docRef.Create(ctx, &stored); err != nil {
		return goerr.Wrap(err, "failed to insert audit entry", goerr.V("id", stored.ID))
	}
	return nil
}

func (r *auditRepository) List(ctx context.Context, limit int) ([]*model.AuditEntry, error) {
	query := r.client.Collection(r.auditCollection()).
		OrderBy("CreatedAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var result []*model.AuditEntry
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list audit entries")
		}

		var entry model.AuditEntry
		if err := doc.DataTo(&entry); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal audit entry")
		}
		result = append(result, &entry)
	}

	return result, nil
}
