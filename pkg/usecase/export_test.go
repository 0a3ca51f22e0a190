package usecase_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/aweos-lab/wikireminder/pkg/domain/model"
	"github.com/aweos-lab/wikireminder/pkg/repository/memory"
)

func TestExportReminderHistory(t *testing.T) {
	repo := memory.New()
	uc, notifier := newTestUseCases(repo)
	ctx := context.Background()

	seedReminder(t, repo, uc, notifier)

	var buf bytes.Buffer
	gt.NoError(t, uc.ExportReminderHistory(ctx, &buf)).Required()

	out := buf.String()
	gt.Bool(t, strings.HasPrefix(out, "\uFEFF")).True()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	gt.Array(t, lines).Length(2).Required()
	gt.Value(t, lines[0]).Equal("\uFEFFTeamleiter;E-Mail;Gesendet;Reminder #;Status;Antwort;Kommentar")

	gt.Bool(t, strings.HasPrefix(lines[1], `"Anna";"anna@example.com";`)).True()
	gt.Bool(t, strings.Contains(lines[1], ";1;sent;-;")).True()
}

func TestExportReminderHistoryQuotesComment(t *testing.T) {
	repo := memory.New()
	uc, notifier := newTestUseCases(repo)
	ctx := context.Background()

	_, token, _ := seedReminder(t, repo, uc, notifier)
	gt.NoError(t, uc.Respond(ctx, token, "updated", `alles "fertig"; siehe Wiki`))

	var buf bytes.Buffer
	gt.NoError(t, uc.ExportReminderHistory(ctx, &buf)).Required()

	out := buf.String()
	gt.Bool(t, strings.Contains(out, `"alles ""fertig""; siehe Wiki"`)).True()
	gt.Bool(t, strings.Contains(out, ";responded;updated;")).True()
}

func TestExportReminderHistoryDeletedLeader(t *testing.T) {
	repo := memory.New()
	uc, notifier := newTestUseCases(repo)
	ctx := context.Background()

	leader, _, _ := seedReminder(t, repo, uc, notifier)
	gt.NoError(t, uc.DeleteLeader(ctx, leader.ID, ""))

	var buf bytes.Buffer
	gt.NoError(t, uc.ExportReminderHistory(ctx, &buf)).Required()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	gt.Array(t, lines).Length(2).Required()
	gt.Bool(t, strings.HasPrefix(lines[1], `"";"";`)).True()
}

func TestExportLeaders(t *testing.T) {
	repo := memory.New()
	uc, _ := newTestUseCases(repo)
	ctx := context.Background()

	setupLeader(t, repo, &model.TeamLeader{
		Name: "Anna", Email: "anna@example.com", Active: true,
	}, "col-1", "col-2")
	setupLeader(t, repo, &model.TeamLeader{
		Name: "Ben", Email: "ben@example.com", Active: false, ReminderCount: 2,
	})

	var buf bytes.Buffer
	gt.NoError(t, uc.ExportLeaders(ctx, &buf)).Required()

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	gt.Array(t, lines).Length(3).Required()
	gt.Value(t, lines[0]).Equal("\uFEFFName;E-Mail;Aktiv;Reminder Count;Collections;Erstellt")

	gt.Bool(t, strings.HasPrefix(lines[1], `"Anna";"anna@example.com";Ja;0;"Collection col-1, Collection col-2";`)).True()
	gt.Bool(t, strings.HasPrefix(lines[2], `"Ben";"ben@example.com";Nein;2;"";`)).True()
}
