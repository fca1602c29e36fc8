package repository

import (
	"context"
	"database/sql"
	"time"

	"clinic-booking-api/core/database"
	"clinic-booking-api/modules/auth/entity"

	"github.com/google/uuid"
)

type AuthRepository interface {
	SaveOAuthState(ctx context.Context, state string, accountID uuid.UUID, expiresAt time.Time) error
	// GetOAuthState returns nil for unknown or expired states.
	GetOAuthState(ctx context.Context, state string) (*entity.OAuthState, error)
	DeleteOAuthState(ctx context.Context, state string) error
}

type authRepository struct {
	db database.IDatabase
}

func NewAuthRepository(db database.IDatabase) AuthRepository {
	return &authRepository{db: db}
}

func (r *authRepository) SaveOAuthState(ctx context.Context, state string, accountID uuid.UUID, expiresAt time.Time) error {
	query := `
		INSERT INTO oauth_states (state, account_id, expires_at)
		VALUES ($1, $2, $3)
	`
	return r.db.ExecContext(ctx, query, state, accountID, expiresAt)
}

func (r *authRepository) GetOAuthState(ctx context.Context, state string) (*entity.OAuthState, error) {
	query := `
		SELECT state, account_id, expires_at, created_at
		FROM oauth_states
		WHERE state = $1 AND expires_at > NOW()
	`
	var record entity.OAuthState
	err := r.db.GetContext(ctx, &record, query, state)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *authRepository) DeleteOAuthState(ctx context.Context, state string) error {
	query := `DELETE FROM oauth_states WHERE state = $1`
	return r.db.ExecContext(ctx, query, state)
}
