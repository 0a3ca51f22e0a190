package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/robfig/cron/v3"

	"github.com/aweos-lab/wikireminder/pkg/domain/model"
	"github.com/aweos-lab/wikireminder/pkg/domain/types"
)

// GetSettings reads the current settings, with defaults filled in.
func (uc *UseCases) GetSettings(ctx context.Context) (*model.Settings, error) {
	kv, err := uc.repo.Settings().GetAll(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load settings")
	}
	return model.SettingsFromMap(kv), nil
}

// UpdateSettings validates and persists the settings.
func (uc *UseCases) UpdateSettings(ctx context.Context, settings *model.Settings, actorEmail string) (*model.Settings, error) {
	if settings.EscalationThreshold <= 0 {
		return nil, goerr.New("escalation threshold must be positive",
			goerr.V("threshold", settings.EscalationThreshold))
	}
	if settings.CronSchedule != "" {
		if _, err := cron.ParseStandard(settings.CronSchedule); err != nil {
			return nil, goerr.Wrap(err, "invalid cron schedule",
				goerr.V("schedule", settings.CronSchedule))
		}
	}

	for key, value := range settings.ToMap() {
		if err := uc.repo.Settings().Put(ctx, key, value); err != nil {
			return nil, goerr.Wrap(err, "failed to store setting", goerr.V("key", key))
		}
	}

	uc.audit(ctx, types.AuditSettingsUpdated, "settings", "", map[string]any{
		"escalation_threshold": settings.EscalationThreshold,
		"cron_schedule":        settings.CronSchedule,
	}, actorEmail)

	return uc.GetSettings(ctx)
}
