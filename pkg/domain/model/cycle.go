package model

// CycleResult is the aggregate outcome of one reconciliation cycle.
// Per-item failures are collected into Errors instead of aborting the
// cycle; only a critical setup failure is returned as a hard error.
type CycleResult struct {
	Processed   int      `json:"processed"`
	Reminders   int      `json:"reminders"`
	Escalations int      `json:"escalations"`
	Errors      []string `json:"errors"`
}
