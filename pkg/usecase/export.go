package usecase

import (
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/aweos-lab/wikireminder/pkg/domain/types"
)

// exportLimit caps the reminder history export.
const exportLimit = 2000

// utf8BOM makes the semicolon CSVs open cleanly in Excel.
const utf8BOM = "\uFEFF"

// csvQuote doubles embedded quotes and wraps the field.
func csvQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func writeCSVLine(w io.Writer, fields []string) error {
	if _, err := io.WriteString(w, strings.Join(fields, ";")+"\n"); err != nil {
		return goerr.Wrap(err, "failed to write CSV line")
	}
	return nil
}

// ExportReminderHistory writes the reminder log as semicolon-separated
// CSV, newest first.
func (uc *UseCases) ExportReminderHistory(ctx context.Context, w io.Writer) error {
	logs, err := uc.repo.ReminderLog().List(ctx, exportLimit)
	if err != nil {
		return goerr.Wrap(err, "failed to load reminder logs")
	}

	// Leader rows are small; resolve names through a cache so deleted
	// leaders degrade to an empty name instead of failing the export.
	names := map[types.LeaderID][2]string{}
	lookup := func(id types.LeaderID) (string, string) {
		if cached, ok := names[id]; ok {
			return cached[0], cached[1]
		}
		leader, err := uc.repo.Leader().Get(ctx, id)
		if err != nil {
			names[id] = [2]string{"", ""}
			return "", ""
		}
		names[id] = [2]string{leader.Name, leader.Email}
		return leader.Name, leader.Email
	}

	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return goerr.Wrap(err, "failed to write BOM")
	}
	if err := writeCSVLine(w, []string{"Teamleiter", "E-Mail", "Gesendet", "Reminder #", "Status", "Antwort", "Kommentar"}); err != nil {
		return err
	}

	for _, log := range logs {
		name, email := lookup(log.LeaderID)
		response := "-"
		if log.ResponseType != "" {
			response = log.ResponseType.String()
		}
		fields := []string{
			csvQuote(name),
			csvQuote(email),
			log.SentAt.UTC().Format(time.RFC3339),
			strconv.Itoa(log.ReminderCount),
			log.Status.String(),
			response,
			csvQuote(log.Comment),
		}
		if err := writeCSVLine(w, fields); err != nil {
			return err
		}
	}

	return nil
}

// ExportLeaders writes all team leaders as semicolon-separated CSV,
// ordered by name.
func (uc *UseCases) ExportLeaders(ctx context.Context, w io.Writer) error {
	leaders, err := uc.repo.Leader().List(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list team leaders")
	}

	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return goerr.Wrap(err, "failed to write BOM")
	}
	if err := writeCSVLine(w, []string{"Name", "E-Mail", "Aktiv", "Reminder Count", "Collections", "Erstellt"}); err != nil {
		return err
	}

	for _, leader := range leaders {
		collections, err := uc.repo.Collection().ListByLeader(ctx, leader.ID)
		if err != nil {
			return goerr.Wrap(err, "failed to load collections", goerr.V("leaderID", leader.ID))
		}
		names := make([]string, len(collections))
		for i, col := range collections {
			names[i] = col.Name
		}

		active := "Nein"
		if leader.Active {
			active = "Ja"
		}

		fields := []string{
			csvQuote(leader.Name),
			csvQuote(leader.Email),
			active,
			strconv.Itoa(leader.ReminderCount),
			csvQuote(strings.Join(names, ", ")),
			leader.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := writeCSVLine(w, fields); err != nil {
			return err
		}
	}

	return nil
}
