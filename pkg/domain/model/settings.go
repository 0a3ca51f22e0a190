package model

import "strconv"

// Settings keys in the key/value store
const (
	SettingManagerEmail        = "manager_email"
	SettingEscalationThreshold = "escalation_threshold"
	SettingCronSchedule        = "cron_schedule"
)

const (
	// DefaultEscalationThreshold is the reminder count at which a leader
	// is escalated to the manager.
	DefaultEscalationThreshold = 3

	// DefaultCronSchedule runs the reconciliation every Monday at 09:00.
	DefaultCronSchedule = "0 9 * * 1"
)

// Settings holds the operational parameters of the reminder engine.
// They are read from the store at the start of every cycle, never
// cached.
type Settings struct {
	ManagerEmail        string
	EscalationThreshold int
	CronSchedule        string
}

// DefaultSettings returns settings with all defaults applied
func DefaultSettings() *Settings {
	return &Settings{
		EscalationThreshold: DefaultEscalationThreshold,
		CronSchedule:        DefaultCronSchedule,
	}
}

// SettingsFromMap builds Settings from raw key/value pairs, applying
// defaults for missing or malformed values.
func SettingsFromMap(kv map[string]string) *Settings {
	s := DefaultSettings()

	if v, ok := kv[SettingManagerEmail]; ok {
		s.ManagerEmail = v
	}
	if v, ok := kv[SettingCronSchedule]; ok && v != "" {
		s.CronSchedule = v
	}
	if v, ok := kv[SettingEscalationThreshold]; ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.EscalationThreshold = n
		}
	}

	return s
}

// ToMap flattens the settings into key/value pairs for the store
func (s *Settings) ToMap() map[string]string {
	threshold := s.EscalationThreshold
	if threshold <= 0 {
		threshold = DefaultEscalationThreshold
	}
	schedule := s.CronSchedule
	if schedule == "" {
		schedule = DefaultCronSchedule
	}

	return map[string]string{
		SettingManagerEmail:        s.ManagerEmail,
		SettingEscalationThreshold: strconv.Itoa(threshold),
		SettingCronSchedule:        schedule,
	}
}
