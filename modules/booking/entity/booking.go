package entity

import (
	"time"

	"clinic-booking-api/core/entity"

	"github.com/google/uuid"
)

// Booking statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Booking is one client appointment with a professional.
type Booking struct {
	entity.BaseEntity
	// Reference is the short public identifier clients see.
	Reference        string    `db:"reference" json:"reference"`
	ProfessionalID   uuid.UUID `db:"professional_id" json:"professional_id"`
	ProfessionalName string    `db:"professional_name" json:"professional_name"`
	ClientName       string    `db:"client_name" json:"client_name"`
	ClientEmail      string    `db:"client_email" json:"client_email"`
	Kind             string    `db:"kind" json:"kind"`
	Notes            string    `db:"notes" json:"notes"`
	Timezone         string    `db:"timezone" json:"timezone"`
	StartTime        time.Time `db:"start_time" json:"start_time"`
	EndTime          time.Time `db:"end_time" json:"end_time"`
	Status           string    `db:"status" json:"status"`

	// GoogleEventID is set once the booking has been exported to the
	// professional's calendar. Nil means not exported (or detached).
	GoogleEventID *string `db:"google_event_id" json:"-"`
}

func (Booking) TableName() string {
	return "bookings"
}
