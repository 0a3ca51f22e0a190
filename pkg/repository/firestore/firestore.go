package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"

	"github.com/aweos-lab/wikireminder/pkg/domain/interfaces"
)

// Firestore is the durable repository backend. Each entity lives in its
// own top-level collection; an optional prefix separates deployments
// sharing a database.
type Firestore struct {
	client      *firestore.Client
	leader      *leaderRepository
	collection  *collectionRepository
	reminderLog *reminderLogRepository
	token       *tokenRepository
	settings    *settingsRepository
	audit       *auditRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.leader.collectionPrefix = prefix
		f.collection.collectionPrefix = prefix
		f.reminderLog.collectionPrefix = prefix
		f.token.collectionPrefix = prefix
		f.settings.collectionPrefix = prefix
		f.audit.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID),
		)
	}

	collectionRepo := newCollectionRepository(client)
	tokenRepo := newTokenRepository(client)

	f := &Firestore{
		client:      client,
		leader:      newLeaderRepository(client, collectionRepo, tokenRepo),
		collection:  collectionRepo,
		reminderLog: newReminderLogRepository(client),
		token:       tokenRepo,
		settings:    newSettingsRepository(client),
		audit:       newAuditRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Leader() interfaces.LeaderRepository {
	return f.leader
}

func (f *Firestore) Collection() interfaces.CollectionRepository {
	return f.collection
}

func (f *Firestore) ReminderLog() interfaces.ReminderLogRepository {
	return f.reminderLog
}

func (f *Firestore) Token() interfaces.TokenRepository {
	return f.token
}

func (f *Firestore) Settings() interfaces.SettingsRepository {
	return f.settings
}

func (f *Firestore) Audit() interfaces.AuditRepository {
	return f.audit
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

func prefixed(prefix, name string) string {
	if prefix != "" {
		return prefix + "_" + name
	}
	return name
}
