package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/aweos-lab/wikireminder/pkg/domain/interfaces"
	"github.com/aweos-lab/wikireminder/pkg/domain/model"
	"github.com/aweos-lab/wikireminder/pkg/domain/types"
	"github.com/aweos-lab/wikireminder/pkg/utils/logging"
)

// LeaderDetail bundles a leader with assignments and recent history.
type LeaderDetail struct {
	Leader      *model.TeamLeader
	Collections []*model.WikiCollection
	RecentLogs  []*model.ReminderLog
}

const recentLogLimit = 5

// ListLeaders returns all leaders with their collections and the last
// few reminder log entries, ordered by name.
func (uc *UseCases) ListLeaders(ctx context.Context) ([]*LeaderDetail, error) {
	leaders, err := uc.repo.Leader().List(ctx)
	if err != nil {
		return nil, err
	}

	details := make([]*LeaderDetail, 0, len(leaders))
	for _, leader := range leaders {
		detail, err := uc.leaderDetail(ctx, leader)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}

	return details, nil
}

// GetLeader returns one leader with assignments and history.
func (uc *UseCases) GetLeader(ctx context.Context, id types.LeaderID) (*LeaderDetail, error) {
	leader, err := uc.repo.Leader().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.leaderDetail(ctx, leader)
}

func (uc *UseCases) leaderDetail(ctx context.Context, leader *model.TeamLeader) (*LeaderDetail, error) {
	collections, err := uc.repo.Collection().ListByLeader(ctx, leader.ID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load collections", goerr.V("leaderID", leader.ID))
	}

	logs, err := uc.repo.ReminderLog().ListByLeader(ctx, leader.ID, recentLogLimit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load reminder logs", goerr.V("leaderID", leader.ID))
	}

	return &LeaderDetail{
		Leader:      leader,
		Collections: collections,
		RecentLogs:  logs,
	}, nil
}

// CreateLeader validates and stores a new leader with assignments.
// actorEmail tags the audit entry.
func (uc *UseCases) CreateLeader(ctx context.Context, leader *model.TeamLeader, collections []*model.WikiCollection, actorEmail string) (*LeaderDetail, error) {
	if err := leader.Validate(); err != nil {
		return nil, err
	}
	leader.Active = true

	created, err := uc.repo.Leader().Create(ctx, leader)
	if err != nil {
		return nil, err
	}

	stored, err := uc.repo.Collection().ReplaceForLeader(ctx, created.ID, collections)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to assign collections", goerr.V("leaderID", created.ID))
	}

	uc.audit(ctx, types.AuditLeaderCreated, "team_leader", created.ID.String(), map[string]any{
		"name":  created.Name,
		"email": created.Email,
	}, actorEmail)

	logs := []*model.ReminderLog{}
	return &LeaderDetail{Leader: created, Collections: stored, RecentLogs: logs}, nil
}

// UpdateLeader validates and stores changed leader fields. A nil
// collections slice leaves the assignments untouched.
func (uc *UseCases) UpdateLeader(ctx context.Context, leader *model.TeamLeader, collections []*model.WikiCollection, actorEmail string) (*LeaderDetail, error) {
	if err := leader.Validate(); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Leader().Update(ctx, leader)
	if err != nil {
		return nil, err
	}

	if collections != nil {
		if _, err := uc.repo.Collection().ReplaceForLeader(ctx, updated.ID, collections); err != nil {
			return nil, goerr.Wrap(err, "failed to replace collections", goerr.V("leaderID", updated.ID))
		}
	}

	uc.audit(ctx, types.AuditLeaderUpdated, "team_leader", updated.ID.String(), map[string]any{
		"name":  updated.Name,
		"email": updated.Email,
	}, actorEmail)

	return uc.leaderDetail(ctx, updated)
}

// DeleteLeader removes a leader. Collections and outstanding tokens
// cascade; reminder logs are kept for the history export.
func (uc *UseCases) DeleteLeader(ctx context.Context, id types.LeaderID, actorEmail string) error {
	leader, err := uc.repo.Leader().Get(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.repo.Leader().Delete(ctx, id); err != nil {
		return err
	}

	uc.audit(ctx, types.AuditLeaderDeleted, "team_leader", id.String(), map[string]any{
		"name":  leader.Name,
		"email": leader.Email,
	}, actorEmail)

	return nil
}

// ImportResult summarizes a directory import run.
type ImportResult struct {
	Imported int      `json:"imported"`
	Updated  int      `json:"updated"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// ImportOptions narrows a directory import.
type ImportOptions struct {
	// OrgUnitPath restricts the import to one org unit subtree.
	OrgUnitPath string

	// Emails restricts the import to specific accounts.
	Emails []string

	// ReplaceExisting updates the name of leaders that already exist
	// instead of skipping them.
	ReplaceExisting bool
}

// ImportDirectoryUsers creates leaders from Workspace directory
// accounts. Suspended accounts are ignored; existing leaders are
// skipped or updated per options.
func (uc *UseCases) ImportDirectoryUsers(ctx context.Context, opts ImportOptions, actorEmail string) (*ImportResult, error) {
	if uc.directory == nil {
		return nil, goerr.New("no directory service configured")
	}

	users, err := uc.directory.ListUsers(ctx, opts.OrgUnitPath)
	if err != nil {
		return nil, err
	}

	wanted := map[string]bool{}
	for _, email := range opts.Emails {
		wanted[strings.ToLower(email)] = true
	}

	result := &ImportResult{Errors: []string{}}
	for _, user := range users {
		if user.Suspended {
			continue
		}
		email := strings.ToLower(user.Email)
		if len(wanted) > 0 && !wanted[email] {
			continue
		}

		existing, err := uc.repo.Leader().GetByEmail(ctx, email)
		switch {
		case err == nil:
			if !opts.ReplaceExisting {
				result.Skipped++
				continue
			}
			existing.Name = user.Name
			if _, err := uc.repo.Leader().Update(ctx, existing); err != nil {
				result.Errors = append(result.Errors, email+": "+err.Error())
				continue
			}
			result.Updated++

		case errors.Is(err, interfaces.ErrNotFound):
			_, createErr := uc.repo.Leader().Create(ctx, &model.TeamLeader{
				Name:   user.Name,
				Email:  email,
				Active: true,
			})
			if createErr != nil {
				result.Errors = append(result.Errors, email+": "+createErr.Error())
				continue
			}
			result.Imported++

		default:
			result.Errors = append(result.Errors, email+": "+err.Error())
		}
	}

	uc.audit(ctx, types.AuditDirectoryImport, "team_leader", "", map[string]any{
		"imported": result.Imported,
		"updated":  result.Updated,
		"skipped":  result.Skipped,
	}, actorEmail)

	logging.From(ctx).Info("directory import completed",
		"imported", result.Imported,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
	)

	return result, nil
}
