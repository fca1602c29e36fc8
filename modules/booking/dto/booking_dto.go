package dto

import "time"

type CreateBookingRequest struct {
	ProfessionalID string    `json:"professional_id" validate:"required"`
	ClientName     string    `json:"client_name" validate:"required"`
	ClientEmail    string    `json:"client_email" validate:"required,email"`
	Kind           string    `json:"kind"`
	Notes          string    `json:"notes"`
	Timezone       string    `json:"timezone"`
	StartTime      time.Time `json:"start_time" validate:"required"`
	EndTime        time.Time `json:"end_time" validate:"required"`
}

type BookingResponse struct {
	ID               string    `json:"id"`
	Reference        string    `json:"reference"`
	ProfessionalID   string    `json:"professional_id"`
	ProfessionalName string    `json:"professional_name"`
	ClientName       string    `json:"client_name"`
	Kind             string    `json:"kind"`
	Notes            string    `json:"notes,omitempty"`
	Timezone         string    `json:"timezone"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	Status           string    `json:"status"`
	Exported         bool      `json:"exported"`
}

type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}
