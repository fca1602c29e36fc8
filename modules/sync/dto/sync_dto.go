package dto

// Skip reasons reported by an import run that did no work.
const (
	SkipReasonNoConnection   = "no_connection"
	SkipReasonSyncDisabled   = "sync_disabled"
	SkipReasonNoCalendar     = "no_calendar_chosen"
	SkipReasonNeedsReauth    = "needs_reauth"
	SkipReasonAlreadyRunning = "already_running"
)

// ImportResult describes one import run for one account.
type ImportResult struct {
	Success         bool   `json:"success"`
	EventsProcessed int    `json:"events_processed"`
	Skipped         bool   `json:"skipped"`
	SkipReason      string `json:"skip_reason,omitempty"`
}

// SyncSummary is the tally of a full scheduler pass.
type SyncSummary struct {
	Synced int `json:"synced"`
	Errors int `json:"errors"`
}

// ExportResult describes one booking export attempt.
type ExportResult struct {
	Exported bool   `json:"exported"`
	EventID  string `json:"event_id,omitempty"`
	Skipped  bool   `json:"skipped"`
	Reason   string `json:"reason,omitempty"`
}
