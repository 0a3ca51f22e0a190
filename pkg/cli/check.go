package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/aweos-lab/wikireminder/pkg/cli/config"
	"github.com/aweos-lab/wikireminder/pkg/service/notify"
	"github.com/aweos-lab/wikireminder/pkg/usecase"
	"github.com/aweos-lab/wikireminder/pkg/utils/logging"
)

func cmdCheck() *cli.Command {
	var baseURL string
	var repoCfg config.Repository
	var wikiCfg config.Wiki
	var mailCfg config.Mail
	var chatCfg config.Chat

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Public base URL used in response links",
			Sources:     cli.EnvVars("WIKIREMINDER_BASE_URL"),
			Destination: &baseURL,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, wikiCfg.Flags()...)
	flags = append(flags, mailCfg.Flags()...)
	flags = append(flags, chatCfg.Flags()...)

	return &cli.Command{
		Name:    "check",
		Aliases: []string{"c"},
		Usage:   "Run one reminder check cycle and print the result as JSON",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			wikiSvc, err := wikiCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure wiki service")
			}
			if wikiSvc == nil {
				return goerr.New("a wiki backend is required for the reminder check")
			}

			mailSvc, err := mailCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure mail service")
			}
			chatSvc, err := chatCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure chat service")
			}

			var notifyOpts []notify.Option
			if mailSvc != nil {
				notifyOpts = append(notifyOpts, notify.WithMail(mailSvc))
			}
			if chatSvc != nil {
				notifyOpts = append(notifyOpts, notify.WithChat(chatSvc))
			}

			ucOpts := []usecase.Option{
				usecase.WithWiki(wikiSvc),
				usecase.WithNotifier(notify.New(notifyOpts...)),
			}
			if baseURL != "" {
				ucOpts = append(ucOpts, usecase.WithBaseURL(baseURL))
			}
			uc := usecase.New(repo, ucOpts...)

			result, err := uc.RunReminderCheck(ctx)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
}
