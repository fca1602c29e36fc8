package entity

import (
	"time"

	"clinic-booking-api/core/entity"

	"github.com/google/uuid"
)

// BlockedTime marks part of a professional's day as unavailable for booking.
// StartTime and EndTime are wall-clock "HH:MM" strings in the professional's
// timezone; nil StartTime means blocked from the start of the day and nil
// EndTime means blocked until the end of it.
type BlockedTime struct {
	entity.BaseEntity
	AccountID uuid.UUID `db:"account_id" json:"account_id"`
	Date      time.Time `db:"date" json:"date"`
	StartTime *string   `db:"start_time" json:"start_time,omitempty"`
	EndTime   *string   `db:"end_time" json:"end_time,omitempty"`

	// Reason distinguishes owners: records written by the calendar import
	// carry the sync reason and are replaced wholesale on every run; anything
	// else is a user-created override that sync never touches.
	Reason string `db:"reason" json:"reason"`

	// SourceEventID is the external event this block was derived from, set
	// only on sync-owned records.
	SourceEventID *string `db:"source_event_id" json:"source_event_id,omitempty"`
}

func (BlockedTime) TableName() string {
	return "blocked_times"
}
