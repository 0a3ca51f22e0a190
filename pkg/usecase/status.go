package usecase

import (
	"context"

	"github.com/aweos-lab/wikireminder/pkg/domain/model"
)

// ServiceStatus is the health of one external dependency.
type ServiceStatus struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// SystemStatus aggregates dependency health for the dashboard.
type SystemStatus struct {
	Database ServiceStatus `json:"database"`
	Wiki     ServiceStatus `json:"wiki"`
	Email    ServiceStatus `json:"email"`
	Chat     ServiceStatus `json:"chat"`
}

// Status probes every configured dependency. Unconfigured channels
// report as not OK with an explanatory error.
func (uc *UseCases) Status(ctx context.Context) *SystemStatus {
	st := &SystemStatus{}

	if _, err := uc.repo.Leader().List(ctx); err != nil {
		st.Database.Error = err.Error()
	} else {
		st.Database.OK = true
	}

	if uc.wiki == nil {
		st.Wiki.Error = "not configured"
	} else if err := uc.wiki.TestConnection(ctx); err != nil {
		st.Wiki.Error = err.Error()
	} else {
		st.Wiki.OK = true
	}

	if uc.notifier == nil {
		st.Email.Error = "not configured"
		st.Chat.Error = "not configured"
		return st
	}

	if err := uc.notifier.TestMail(ctx); err != nil {
		st.Email.Error = err.Error()
	} else {
		st.Email.OK = true
	}

	// Probing chat would post a visible message, so only report whether
	// a channel is configured.
	if uc.notifier.ChatConfigured() {
		st.Chat.OK = true
	} else {
		st.Chat.Error = "not configured"
	}

	return st
}

// ListReminderLogs returns the newest reminder log entries.
func (uc *UseCases) ListReminderLogs(ctx context.Context, limit int) ([]*model.ReminderLog, error) {
	return uc.repo.ReminderLog().List(ctx, limit)
}

// ListAuditLog returns the newest audit entries.
func (uc *UseCases) ListAuditLog(ctx context.Context, limit int) ([]*model.AuditEntry, error) {
	return uc.repo.Audit().List(ctx, limit)
}
