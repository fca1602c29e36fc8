package entity

import (
	"time"

	"github.com/google/uuid"
)

// OAuthState is a one-time CSRF token binding an OAuth authorization flow to
// the account that started it.
type OAuthState struct {
	State     string    `db:"state" json:"state"`
	AccountID uuid.UUID `db:"account_id" json:"account_id"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

func (OAuthState) TableName() string {
	return "oauth_states"
}
