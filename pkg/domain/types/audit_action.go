package types

// AuditAction tags an entry in the audit log
type AuditAction string

const (
	AuditLeaderCreated     AuditAction = "team_leader_created"
	AuditLeaderUpdated     AuditAction = "team_leader_updated"
	AuditLeaderDeleted     AuditAction = "team_leader_deleted"
	AuditReminderSent      AuditAction = "reminder_sent"
	AuditReminderResponded AuditAction = "reminder_responded"
	AuditEscalationSent    AuditAction = "escalation_sent"
	AuditSettingsUpdated   AuditAction = "settings_updated"
	AuditDirectoryImport   AuditAction = "import_directory"
	AuditTestEmailSent     AuditAction = "test_email_sent"
	AuditSnoozeSet         AuditAction = "snooze_set"
)

// String returns the string representation of the audit action
func (a AuditAction) String() string {
	return string(a)
}
