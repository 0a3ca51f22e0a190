package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/aweos-lab/wikireminder/pkg/cli/config"
	httpctrl "github.com/aweos-lab/wikireminder/pkg/controller/http"
	"github.com/aweos-lab/wikireminder/pkg/service/notify"
	"github.com/aweos-lab/wikireminder/pkg/service/worker"
	"github.com/aweos-lab/wikireminder/pkg/usecase"
	"github.com/aweos-lab/wikireminder/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var baseURL string
	var apiToken string
	var repoCfg config.Repository
	var wikiCfg config.Wiki
	var mailCfg config.Mail
	var chatCfg config.Chat
	var dirCfg config.Directory

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("WIKIREMINDER_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Public base URL used in response links (e.g. https://reminder.example.com)",
			Sources:     cli.EnvVars("WIKIREMINDER_BASE_URL"),
			Destination: &baseURL,
		},
		&cli.StringFlag{
			Name:        "api-token",
			Usage:       "Bearer token protecting the admin API (empty disables auth)",
			Sources:     cli.EnvVars("WIKIREMINDER_API_TOKEN"),
			Destination: &apiToken,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, wikiCfg.Flags()...)
	flags = append(flags, mailCfg.Flags()...)
	flags = append(flags, chatCfg.Flags()...)
	flags = append(flags, dirCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server and reminder scheduler",
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
				logging.Default().Warn("No wiki backend configured, reminder checks are disabled")
			}

			mailSvc, err := mailCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure mail service")
			}
			chatSvc, err := chatCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure chat service")
			}
			dirSvc, err := dirCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure directory service")
			}

			var notifyOpts []notify.Option
			if mailSvc != nil {
				notifyOpts = append(notifyOpts, notify.WithMail(mailSvc))
				logging.Default().Info("Email channel enabled", "config", mailCfg)
			}
			if chatSvc != nil {
				notifyOpts = append(notifyOpts, notify.WithChat(chatSvc))
				logging.Default().Info("Chat channel enabled", "config", chatCfg)
			}

			ucOpts := []usecase.Option{
				usecase.WithNotifier(notify.New(notifyOpts...)),
			}
			if baseURL != "" {
				ucOpts = append(ucOpts, usecase.WithBaseURL(baseURL))
			}
			if wikiSvc != nil {
				ucOpts = append(ucOpts, usecase.WithWiki(wikiSvc))
			}
			if dirSvc != nil {
				ucOpts = append(ucOpts, usecase.WithDirectory(dirSvc))
				logging.Default().Info("Directory import enabled", "config", dirCfg)
			}

			uc := usecase.New(repo, ucOpts...)

			// Scheduler follows the stored cron schedule. Settings
			// updates through the API restart it.
			scheduler := worker.NewScheduler(uc.SchedulerCheck)
			if wikiSvc != nil {
				settings, err := uc.GetSettings(ctx)
				if err != nil {
					return goerr.Wrap(err, "failed to load settings")
				}
				if err := scheduler.Start(ctx, settings.CronSchedule); err != nil {
					return goerr.Wrap(err, "failed to start scheduler")
				}
				defer scheduler.Stop()
			}

			handler := httpctrl.New(uc,
				httpctrl.WithScheduler(scheduler),
				httpctrl.WithAPIToken(apiToken),
			)
			server := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr, "base_url", baseURL)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
