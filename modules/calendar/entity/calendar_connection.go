package entity

import (
	"time"

	"clinic-booking-api/core/entity"

	"github.com/google/uuid"
)

// CalendarConnection stores one professional's calendar provider connection:
// OAuth credentials, the chosen target calendar, the sync gate, and the
// webhook channel state. At most one row exists per (account, provider).
type CalendarConnection struct {
	entity.BaseEntity
	AccountID      uuid.UUID `db:"account_id" json:"account_id"`
	Provider       string    `db:"provider" json:"provider"`
	AccessToken    string    `db:"access_token" json:"-"`
	RefreshToken   string    `db:"refresh_token" json:"-"`
	TokenExpiresAt time.Time `db:"token_expires_at" json:"token_expires_at"`

	// CalendarID is the external calendar chosen by the user. Sync does not
	// run until one is chosen.
	CalendarID *string `db:"calendar_id" json:"calendar_id,omitempty"`

	SyncEnabled bool `db:"sync_enabled" json:"sync_enabled"`

	// NeedsReauth is set when a refresh-token exchange is rejected. No
	// automated sync runs until the user re-authorizes.
	NeedsReauth bool `db:"needs_reauth" json:"needs_reauth"`

	// Webhook channel state, all nullable: registration is best-effort.
	ChannelID        *string    `db:"channel_id" json:"-"`
	ResourceID       *string    `db:"resource_id" json:"-"`
	ChannelExpiresAt *time.Time `db:"channel_expires_at" json:"channel_expires_at,omitempty"`

	// LastSyncedAt advances only on a successful import run.
	LastSyncedAt *time.Time `db:"last_synced_at" json:"last_synced_at,omitempty"`
}

func (CalendarConnection) TableName() string {
	return "calendar_connections"
}
