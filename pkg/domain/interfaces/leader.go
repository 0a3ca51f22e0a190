package interfaces

import (
	"context"
	"time"

	"github.com/aweos-lab/wikireminder/pkg/domain/model"
	"github.com/aweos-lab/wikireminder/pkg/domain/types"
)

// LeaderRepository defines data access for team leaders
type LeaderRepository interface {
	// Create creates a new leader. Returns ErrDuplicateEmail if the
	// (lowercase) email is already taken.
	Create(ctx context.Context, leader *model.TeamLeader) (*model.TeamLeader, error)

	// Get retrieves a leader by ID. Returns ErrNotFound if missing.
	Get(ctx context.Context, id types.LeaderID) (*model.TeamLeader, error)

	// GetByEmail retrieves a leader by lowercase email. Returns
	// ErrNotFound if missing.
	GetByEmail(ctx context.Context, email string) (*model.TeamLeader, error)

	// List retrieves all leaders ordered by name.
	List(ctx context.Context) ([]*model.TeamLeader, error)

	// Update replaces a leader's mutable fields. Returns
	// ErrDuplicateEmail when the new email collides with another leader.
	Update(ctx context.Context, leader *model.TeamLeader) (*model.TeamLeader, error)

	// Delete removes a leader. Assigned collections and tokens cascade.
	Delete(ctx context.Context, id types.LeaderID) error

	// SetReminderCount sets the counter to an absolute value. Targeted
	// update so the engine never read-modify-writes whole rows.
	SetReminderCount(ctx context.Context, id types.LeaderID, count int) error

	// SetSnoozeUntil sets or clears (nil) the snooze timestamp.
	SetSnoozeUntil(ctx context.Context, id types.LeaderID, until *time.Time) error
}

// CollectionRepository defines data access for wiki collection assignments
type CollectionRepository interface {
	// ListByLeader retrieves the leader's assigned collections.
	ListByLeader(ctx context.Context, leaderID types.LeaderID) ([]*model.WikiCollection, error)

	// ReplaceForLeader atomically swaps the leader's assignments.
	ReplaceForLeader(ctx context.Context, leaderID types.LeaderID, collections []*model.WikiCollection) ([]*model.WikiCollection, error)

	// TouchLastChecked records when the engine last evaluated the
	// collection, regardless of the evaluation outcome.
	TouchLastChecked(ctx context.Context, id types.CollectionID, at time.Time) error

	// DeleteByLeader removes all assignments of the leader.
	DeleteByLeader(ctx context.Context, leaderID types.LeaderID) error
}
