package dto

import "time"

type CreateBlockedTimeRequest struct {
	Date      string  `json:"date" validate:"required"` // YYYY-MM-DD
	StartTime *string `json:"start_time,omitempty"`     // HH:MM
	EndTime   *string `json:"end_time,omitempty"`       // HH:MM
	Reason    string  `json:"reason"`
}

type BlockedTimeResponse struct {
	ID        string  `json:"id"`
	Date      string  `json:"date"`
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
	Reason    string  `json:"reason"`
	IsSynced  bool    `json:"is_synced"`
}

type BlockedTimeListResponse struct {
	BlockedTimes []BlockedTimeResponse `json:"blocked_times"`
	From         time.Time             `json:"from"`
	To           time.Time             `json:"to"`
}
