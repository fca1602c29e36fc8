package dto

import "time"

// ========== External calendar DTOs ==========

// Calendar is one entry of the user's external calendar list.
type Calendar struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsPrimary   bool   `json:"is_primary"`
}

// CalendarEvent is a normalized external event. All-day and cancelled events
// are filtered out by the client, so Start/End are always concrete instants.
type CalendarEvent struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	TimeZone string    `json:"time_zone"`
}

// EventInput is the payload for creating an external event.
type EventInput struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	TimeZone    string
}

// WebhookChannel is the provider's answer to a watch registration.
type WebhookChannel struct {
	ChannelID  string    `json:"channel_id"`
	ResourceID string    `json:"resource_id"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ========== Connection management DTOs ==========

type CalendarConnectionResponse struct {
	ID           string     `json:"id"`
	Provider     string     `json:"provider"`
	CalendarID   *string    `json:"calendar_id,omitempty"`
	SyncEnabled  bool       `json:"sync_enabled"`
	NeedsReauth  bool       `json:"needs_reauth"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
	ConnectedAt  string     `json:"connected_at"`
}

type CalendarListResponse struct {
	Calendars []Calendar `json:"calendars"`
}

type ChooseCalendarRequest struct {
	CalendarID string `json:"calendar_id" validate:"required"`
}

type SetSyncEnabledRequest struct {
	Enabled bool `json:"enabled"`
}
