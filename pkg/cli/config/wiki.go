package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/aweos-lab/wikireminder/pkg/service/wiki"
	"github.com/aweos-lab/wikireminder/pkg/service/wiki/notion"
	"github.com/aweos-lab/wikireminder/pkg/service/wiki/outline"
)

// Wiki holds CLI flags for the wiki backend
type Wiki struct {
	backend     string
	outlineURL  string
	outlineKey  string
	notionToken string
}

func (x *Wiki) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "wiki-backend",
			Usage:       "Wiki backend type (outline or notion)",
			Category:    "Wiki",
			Value:       "outline",
			Sources:     cli.EnvVars("WIKIREMINDER_WIKI_BACKEND"),
			Destination: &x.backend,
		},
		&cli.StringFlag{
			Name:        "outline-url",
			Usage:       "Outline instance base URL (e.g. https://wiki.example.com)",
			Category:    "Wiki",
			Sources:     cli.EnvVars("WIKIREMINDER_OUTLINE_URL"),
			Destination: &x.outlineURL,
		},
		&cli.StringFlag{
			Name:        "outline-api-token",
			Usage:       "Outline API token",
			Category:    "Wiki",
			Sources:     cli.EnvVars("WIKIREMINDER_OUTLINE_API_TOKEN"),
			Destination: &x.outlineKey,
		},
		&cli.StringFlag{
			Name:        "notion-api-token",
			Usage:       "Notion integration token",
			Category:    "Wiki",
			Sources:     cli.EnvVars("WIKIREMINDER_NOTION_API_TOKEN"),
			Destination: &x.notionToken,
		},
	}
}

func (x Wiki) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", x.backend),
		slog.String("outline-url", x.outlineURL),
		slog.Int("outline-api-token.len", len(x.outlineKey)),
		slog.Int("notion-api-token.len", len(x.notionToken)),
	)
}

// Configured reports whether any backend credentials are present.
func (x *Wiki) Configured() bool {
	switch x.backend {
	case "outline":
		return x.outlineURL != "" && x.outlineKey != ""
	case "notion":
		return x.notionToken != ""
	default:
		return false
	}
}

// Configure builds the wiki service. Returns nil without error when no
// credentials are configured; the engine refuses to run without one but
// the rest of the API stays usable.
func (x *Wiki) Configure() (wiki.Service, error) {
	if !x.Configured() {
		return nil, nil
	}

	switch x.backend {
	case "outline":
		return outline.New(x.outlineURL, x.outlineKey)
	case "notion":
		return notion.New(x.notionToken)
	default:
		return nil, goerr.New("invalid wiki backend", goerr.V("backend", x.backend))
	}
}
