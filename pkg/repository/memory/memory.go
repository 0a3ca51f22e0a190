package memory

import (
	"github.com/aweos-lab/wikireminder/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory is an in-memory repository for development and tests
type Memory struct {
	leader      *leaderRepository
	collection  *collectionRepository
	reminderLog *reminderLogRepository
	token       *tokenRepository
	settings    *settingsRepository
	audit       *auditRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	collectionRepo := newCollectionRepository()
	tokenRepo := newTokenRepository()
	// Leader deletion cascades into collections and tokens.
	leaderRepo := newLeaderRepository(collectionRepo, tokenRepo)

	return &Memory{
		leader:      leaderRepo,
		collection:  collectionRepo,
		reminderLog: newReminderLogRepository(),
		token:       tokenRepo,
		settings:    newSettingsRepository(),
		audit:       newAuditRepository(),
	}
}

func (m *Memory) Leader() interfaces.LeaderRepository {
	return m.leader
}

func (m *Memory) Collection() interfaces.CollectionRepository {
	return m.collection
}

func (m *Memory) ReminderLog() interfaces.ReminderLogRepository {
	return m.reminderLog
}

func (m *Memory) Token() interfaces.TokenRepository {
	return m.token
}

func (m *Memory) Settings() interfaces.SettingsRepository {
	return m.settings
}

func (m *Memory) Audit() interfaces.AuditRepository {
	return m.audit
}

func (m *Memory) Close() error {
	return nil
}
