package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/aweos-lab/wikireminder/pkg/domain/model"
	"github.com/aweos-lab/wikireminder/pkg/domain/types"
	"github.com/aweos-lab/wikireminder/pkg/repository/memory"
)

func TestGetSettingsDefaults(t *testing.T) {
	uc, _ := newTestUseCases(memory.New())

	settings, err := uc.GetSettings(context.Background())
	gt.NoError(t, err).Required()

	gt.Value(t, settings.ManagerEmail).Equal("")
	gt.Value(t, settings.EscalationThreshold).Equal(model.DefaultEscalationThreshold)
	gt.Value(t, settings.CronSchedule).Equal(model.DefaultCronSchedule)
}

func TestUpdateSettings(t *testing.T) {
	repo := memory.New()
	uc, _ := newTestUseCases(repo)
	ctx := context.Background()

	updated, err := uc.UpdateSettings(ctx, &model.Settings{
		ManagerEmail:        "boss@example.com",
		EscalationThreshold: 5,
		CronSchedule:        "0 8 * * 1-5",
	}, "admin@example.com")
	gt.NoError(t, err).Required()

	gt.Value(t, updated.ManagerEmail).Equal("boss@example.com")
	gt.Value(t, updated.EscalationThreshold).Equal(5)
	gt.Value(t, updated.CronSchedule).Equal("0 8 * * 1-5")

	// Survives a fresh read.
	settings, err := uc.GetSettings(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, settings.EscalationThreshold).Equal(5)

	entries, err := repo.Audit().List(ctx, 0)
	gt.NoError(t, err).Required()
	gt.Array(t, entries).Length(1).Required()
	gt.Value(t, entries[0].Action).Equal(types.AuditSettingsUpdated)
}

func TestUpdateSettingsRejectsBadThreshold(t *testing.T) {
	uc, _ := newTestUseCases(memory.New())

	_, err := uc.UpdateSettings(context.Background(), &model.Settings{
		EscalationThreshold: 0,
	}, "")
	gt.Error(t, err)
}

func TestUpdateSettingsRejectsBadSchedule(t *testing.T) {
	uc, _ := newTestUseCases(memory.New())

	_, err := uc.UpdateSettings(context.Background(), &model.Settings{
		EscalationThreshold: 3,
		CronSchedule:        "every monday",
	}, "")
	gt.Error(t, err)
}
