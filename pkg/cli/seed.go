package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/aweos-lab/wikireminder/pkg/cli/config"
	"github.com/aweos-lab/wikireminder/pkg/domain/model"
	"github.com/aweos-lab/wikireminder/pkg/usecase"
	"github.com/aweos-lab/wikireminder/pkg/utils/logging"
)

// seedFile is the TOML layout of a settings seed file.
type seedFile struct {
	ManagerEmail        string `toml:"manager_email"`
	EscalationThreshold int    `toml:"escalation_threshold"`
	CronSchedule        string `toml:"cron_schedule"`
}

func cmdSeedSettings() *cli.Command {
	var path string
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "file",
			Aliases:     []string{"f"},
			Usage:       "TOML file with the settings to store",
			Required:    true,
			Sources:     cli.EnvVars("WIKIREMINDER_SEED_FILE"),
			Destination: &path,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "seed-settings",
		Usage: "Store settings from a TOML file",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			data, err := os.ReadFile(path)
			if err != nil {
				return goerr.Wrap(err, "failed to read seed file", goerr.V("path", path))
			}

			var seed seedFile
			if err := toml.Unmarshal(data, &seed); err != nil {
				return goerr.Wrap(err, "failed to parse seed file", goerr.V("path", path))
			}
			if seed.EscalationThreshold == 0 {
				seed.EscalationThreshold = model.DefaultEscalationThreshold
			}
			if seed.CronSchedule == "" {
				seed.CronSchedule = model.DefaultCronSchedule
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			uc := usecase.New(repo)
			stored, err := uc.UpdateSettings(ctx, &model.Settings{
				ManagerEmail:        seed.ManagerEmail,
				EscalationThreshold: seed.EscalationThreshold,
				CronSchedule:        seed.CronSchedule,
			}, "seed-settings")
			if err != nil {
				return goerr.Wrap(err, "failed to store settings")
			}

			logging.Default().Info("Settings stored",
				"manager_email", stored.ManagerEmail,
				"escalation_threshold", stored.EscalationThreshold,
				"cron_schedule", stored.CronSchedule,
			)
			return nil
		},
	}
}
