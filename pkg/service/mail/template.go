package mail

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// DocumentUpdate is one recent wiki edit shown in the reminder email.
type DocumentUpdate struct {
	Title          string
	CollectionName string
	UpdatedAt      time.Time
}

// ReminderParams drives the reminder email template.
type ReminderParams struct {
	Name          string
	Collections   []string
	ReminderCount int
	ResponseURL   string
	RecentUpdates []DocumentUpdate
	Test          bool
}

// EscalationParams drives the escalation email template.
type EscalationParams struct {
	LeaderName    string
	LeaderEmail   string
	Collections   []string
	ReminderCount int
}

const urgentThreshold = 3

var reminderTmpl = template.Must(template.New("reminder").Funcs(template.FuncMap{
	"formatDate": func(t time.Time) string {
		return t.Format("02.01.2006")
	},
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; }
.container { max-width: 600px; margin: 0 auto; padding: 20px; }
.button { display: inline-block; padding: 12px 24px; background-color: #2563EB; color: white; text-decoration: none; border-radius: 8px; font-weight: 500; margin: 8px 4px; }
.button-secondary { background-color: #6B7280; }
.button-success { background-color: #059669; }
.collections { background-color: #F3F4F6; border-radius: 8px; padding: 16px; margin: 16px 0; }
.collection-item { background-color: white; padding: 8px 12px; border-radius: 4px; margin: 4px 0; display: inline-block; }
.policy-box { background-color: #FEF3C7; border-left: 4px solid #D97706; padding: 16px; margin: 20px 0; border-radius: 0 8px 8px 0; }
</style>
</head>
<body>
<div class="container">
{{- if .Test }}
<div style="background-color: #DBEAFE; border: 1px solid #3B82F6; border-radius: 8px; padding: 12px; margin-bottom: 16px;">
<p style="color: #1E40AF; font-weight: bold; margin: 0;">TEST-E-MAIL: Diese Erinnerung wurde manuell ausgel&ouml;st und z&auml;hlt nicht.</p>
</div>
{{- end }}
<h2>Hallo {{ .Name }},</h2>
<div class="policy-box">
<p style="margin: 0 0 8px 0; font-weight: bold; color: #92400E;">Arbeitsanweisung der AWEOS GmbH &ndash; Wichtigkeit der Wiki-Dokumentation</p>
<p style="margin: 0; font-size: 14px; color: #78350F;">Die AWEOS GmbH legt gro&szlig;en Wert auf aktuelle und vollst&auml;ndige Wiki-Dokumentation. <strong>W&ouml;chentlich</strong> soll hinterfragt werden, was erledigt wurde und ob alles richtig dokumentiert bzw. aktualisiert ist. Bitte pr&uuml;fe deine zugewiesenen Bereiche und halte die Dokumentation auf dem aktuellen Stand.</p>
</div>
{{- if .Urgent }}
<div style="background-color: #FEE2E2; border: 1px solid #EF4444; border-radius: 8px; padding: 16px; margin-bottom: 24px;">
<p style="color: #DC2626; font-weight: bold; margin: 0;">Dies ist bereits die {{ .ReminderCount }}. Erinnerung. Bitte handle umgehend!</p>
</div>
{{- end }}
<p>Es ist wieder Zeit, deine zugewiesenen Wiki-Dokumentationen zu &uuml;berpr&uuml;fen und bei Bedarf zu aktualisieren.</p>
<div class="collections">
<strong>Deine zugewiesenen Bereiche:</strong>
<div style="margin-top: 8px;">
{{- range .Collections }}
<span class="collection-item">{{ . }}</span>
{{- end }}
</div>
</div>
{{- if .RecentUpdates }}
<div style="background-color: #EFF6FF; border: 1px solid #3B82F6; border-radius: 8px; padding: 16px; margin: 20px 0;">
<strong style="color: #1E40AF;">Deine letzten {{ len .RecentUpdates }} Wiki-Aktualisierungen:</strong>
<ul style="margin: 12px 0 0 0; padding-left: 20px;">
{{- range .RecentUpdates }}
<li><strong>{{ .Title }}</strong> ({{ .CollectionName }}) &ndash; {{ formatDate .UpdatedAt }}</li>
{{- end }}
</ul>
</div>
{{- end }}
<p><strong>Bitte w&auml;hle eine der folgenden Optionen:</strong></p>
<div style="margin: 24px 0;">
<a href="{{ .ResponseURL }}?response=updated" class="button button-success">Ich habe aktualisiert</a>
<a href="{{ .ResponseURL }}?response=nothing" class="button button-secondary">Nichts zu aktualisieren</a>
<a href="{{ .ResponseURL }}?response=will_update" class="button">Ich k&uuml;mmere mich darum</a>
<a href="{{ .ResponseURL }}?response=snooze" class="button button-secondary">1 Woche pausieren</a>
</div>
<p style="color: #6B7280; font-size: 14px;">Falls du Fragen hast, wende dich bitte an deinen Manager.</p>
<hr style="border: none; border-top: 1px solid #E5E7EB; margin: 24px 0;">
<p style="color: #9CA3AF; font-size: 12px;">Diese E-Mail wurde automatisch vom Wiki Reminder System (AWEOS GmbH) gesendet.</p>
</div>
</body>
</html>
`))

var escalationTmpl = template.Must(template.New("escalation").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; }
.container { max-width: 600px; margin: 0 auto; padding: 20px; }
.alert { background-color: #FEE2E2; border: 1px solid #EF4444; border-radius: 8px; padding: 16px; margin-bottom: 24px; }
.info-box { background-color: #F3F4F6; border-radius: 8px; padding: 16px; margin: 16px 0; }
</style>
</head>
<body>
<div class="container">
<div class="alert">
<h2 style="color: #DC2626; margin-top: 0;">Eskalation: Wiki nicht aktualisiert</h2>
</div>
<p>Der folgende Teamleiter hat trotz {{ .ReminderCount }} Erinnerungen keine Aktualisierung seiner Wiki-Dokumentation durchgef&uuml;hrt oder best&auml;tigt:</p>
<div class="info-box">
<p><strong>Name:</strong> {{ .LeaderName }}</p>
<p><strong>E-Mail:</strong> {{ .LeaderEmail }}</p>
<p><strong>Anzahl Erinnerungen:</strong> {{ .ReminderCount }}</p>
<p><strong>Zugewiesene Bereiche:</strong></p>
<ul>
{{- range .Collections }}
<li>{{ . }}</li>
{{- end }}
</ul>
</div>
<p>Bitte kontaktiere den Mitarbeiter direkt, um die Situation zu kl&auml;ren.</p>
<hr style="border: none; border-top: 1px solid #E5E7EB; margin: 24px 0;">
<p style="color: #9CA3AF; font-size: 12px;">Diese E-Mail wurde automatisch vom Wiki Reminder System gesendet.</p>
</div>
</body>
</html>
`))

// BuildReminder renders the reminder email for a team leader.
func BuildReminder(p *ReminderParams) (*Message, error) {
	subject := fmt.Sprintf("Wiki-Aktualisierung Erinnerung (%d. Hinweis)", p.ReminderCount)
	if p.ReminderCount >= urgentThreshold {
		subject = fmt.Sprintf("[DRINGEND] Wiki-Aktualisierung ausstehend (%d. Erinnerung)", p.ReminderCount)
	}
	if p.Test {
		subject = "[TEST] " + subject
	}

	var buf strings.Builder
	err := reminderTmpl.Execute(&buf, struct {
		*ReminderParams
		Urgent bool
	}{
		ReminderParams: p,
		Urgent:         p.ReminderCount >= urgentThreshold,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to render reminder email")
	}

	return &Message{
		Subject: subject,
		HTML:    buf.String(),
	}, nil
}

// BuildEscalation renders the manager-facing escalation email.
func BuildEscalation(p *EscalationParams) (*Message, error) {
	subject := fmt.Sprintf("[ESKALATION] %s hat %dx keine Wiki-Aktualisierung durchgeführt",
		p.LeaderName, p.ReminderCount)

	var buf strings.Builder
	if err := escalationTmpl.Execute(&buf, p); err != nil {
		return nil, goerr.Wrap(err, "failed to render escalation email")
	}

	return &Message{
		Subject: subject,
		HTML:    buf.String(),
	}, nil
}
