package config

import (
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/aweos-lab/wikireminder/pkg/service/googledir"
)

// Directory holds CLI flags for the Google Workspace directory import
type Directory struct {
	serviceAccountKey string
	adminEmail        string
}

func (x *Directory) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "google-service-account-key",
			Usage:       "Service account key JSON (raw or base64) with domain-wide delegation",
			Category:    "Directory",
			Sources:     cli.EnvVars("WIKIREMINDER_GOOGLE_SERVICE_ACCOUNT_KEY"),
			Destination: &x.serviceAccountKey,
		},
		&cli.StringFlag{
			Name:        "google-admin-email",
			Usage:       "Workspace admin to impersonate for directory reads",
			Category:    "Directory",
			Sources:     cli.EnvVars("WIKIREMINDER_GOOGLE_ADMIN_EMAIL"),
			Destination: &x.adminEmail,
		},
	}
}

func (x Directory) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("service-account-key.len", len(x.serviceAccountKey)),
		slog.String("admin-email", x.adminEmail),
	)
}

// Configured reports whether the directory service can be built.
func (x *Directory) Configured() bool {
	return x.serviceAccountKey != "" && x.adminEmail != ""
}

// Configure builds the directory service, or nil when unconfigured.
func (x *Directory) Configure() (googledir.Service, error) {
	if !x.Configured() {
		return nil, nil
	}
	return googledir.New(x.serviceAccountKey, x.adminEmail)
}
