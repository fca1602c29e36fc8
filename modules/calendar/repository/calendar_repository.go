package repository

import (
	"context"
	"database/sql"
	"time"

	"clinic-booking-api/core/database"
	"clinic-booking-api/modules/calendar/entity"

	"github.com/google/uuid"
)

const connectionColumns = `
	id, account_id, provider, access_token, refresh_token, token_expires_at,
	calendar_id, sync_enabled, needs_reauth, channel_id, resource_id,
	channel_expires_at, last_synced_at, created_at, updated_at
`

type CalendarRepository interface {
	CreateConnection(ctx context.Context, conn *entity.CalendarConnection) (*entity.CalendarConnection, error)
	GetConnectionByAccountAndProvider(ctx context.Context, accountID uuid.UUID, provider string) (*entity.CalendarConnection, error)
	GetConnectionByChannelID(ctx context.Context, channelID string) (*entity.CalendarConnection, error)
	ListSyncEnabledConnections(ctx context.Context) ([]entity.CalendarConnection, error)
	// ListConnectionsNeedingChannel returns sync-ready connections whose
	// webhook channel is missing or expires before the given time.
	ListConnectionsNeedingChannel(ctx context.Context, before time.Time) ([]entity.CalendarConnection, error)
	UpdateCredentials(ctx context.Context, conn *entity.CalendarConnection) error
	// UpdateTokensCAS persists refreshed credentials only when the stored
	// access token still matches the one the caller read. Returns false when
	// a concurrent refresh won the race.
	UpdateTokensCAS(ctx context.Context, id uuid.UUID, previousAccessToken, accessToken, refreshToken string, expiresAt time.Time) (bool, error)
	SetCalendar(ctx context.Context, accountID uuid.UUID, provider, calendarID string) error
	SetSyncEnabled(ctx context.Context, accountID uuid.UUID, provider string, enabled bool) error
	MarkNeedsReauth(ctx context.Context, id uuid.UUID) error
	UpdateWebhookChannel(ctx context.Context, id uuid.UUID, channelID, resourceID string, expiresAt time.Time) error
	ClearWebhookChannel(ctx context.Context, id uuid.UUID) error
	UpdateLastSyncedAt(ctx context.Context, id uuid.UUID, syncedAt time.Time) error
	DeleteConnection(ctx context.Context, accountID uuid.UUID, provider string) error
}

type calendarRepository struct {
	db database.IDatabase
}

func NewCalendarRepository(db database.IDatabase) CalendarRepository {
	return &calendarRepository{db: db}
}

func (r *calendarRepository) CreateConnection(ctx context.Context, conn *entity.CalendarConnection) (*entity.CalendarConnection, error) {
	query := `
		INSERT INTO calendar_connections
			(account_id, provider, access_token, refresh_token, token_expires_at, sync_enabled)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		conn.AccountID, conn.Provider, conn.AccessToken, conn.RefreshToken,
		conn.TokenExpiresAt, conn.SyncEnabled,
	).Scan(&conn.ID, &conn.CreatedAt, &conn.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func (r *calendarRepository) GetConnectionByAccountAndProvider(ctx context.Context, accountID uuid.UUID, provider string) (*entity.CalendarConnection, error) {
	query := `
		SELECT ` + connectionColumns + `
		FROM calendar_connections
		WHERE account_id = $1 AND provider = $2
	`
	var conn entity.CalendarConnection
	err := r.db.GetContext(ctx, &conn, query, accountID, provider)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &conn, nil
}

func (r *calendarRepository) GetConnectionByChannelID(ctx context.Context, channelID string) (*entity.CalendarConnection, error) {
	query := `
		SELECT ` + connectionColumns + `
		FROM calendar_connections
		WHERE channel_id = $1
	`
	var conn entity.CalendarConnection
	err := r.db.GetContext(ctx, &conn, query, channelID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &conn, nil
}

func (r *calendarRepository) ListSyncEnabledConnections(ctx context.Context) ([]entity.CalendarConnection, error) {
	query := `
		SELECT ` + connectionColumns + `
		FROM calendar_connections
		WHERE sync_enabled = true AND needs_reauth = false AND calendar_id IS NOT NULL
		ORDER BY created_at
	`
	var connections []entity.CalendarConnection
	if err := r.db.SelectContext(ctx, &connections, query); err != nil {
		return nil, err
	}
	return connections, nil
}

func (r *calendarRepository) ListConnectionsNeedingChannel(ctx context.Context, before time.Time) ([]entity.CalendarConnection, error) {
	query := `
		SELECT ` + connectionColumns + `
		FROM calendar_connections
		WHERE sync_enabled = true AND needs_reauth = false AND calendar_id IS NOT NULL
		AND (channel_id IS NULL OR channel_expires_at < $1)
	`
	var connections []entity.CalendarConnection
	if err := r.db.SelectContext(ctx, &connections, query, before); err != nil {
		return nil, err
	}
	return connections, nil
}

// UpdateCredentials replaces the stored OAuth credentials after a reconnect
// and clears any pending reauthorization flag.
func (r *calendarRepository) UpdateCredentials(ctx context.Context, conn *entity.CalendarConnection) error {
	query := `
		UPDATE calendar_connections
		SET access_token = $1, refresh_token = $2, token_expires_at = $3,
			needs_reauth = false, updated_at = NOW()
		WHERE id = $4
	`
	return r.db.ExecContext(ctx, query,
		conn.AccessToken, conn.RefreshToken, conn.TokenExpiresAt, conn.ID,
	)
}

func (r *calendarRepository) UpdateTokensCAS(ctx context.Context, id uuid.UUID, previousAccessToken, accessToken, refreshToken string, expiresAt time.Time) (bool, error) {
	query := `
		UPDATE calendar_connections
		SET access_token = :access_token, refresh_token = :refresh_token,
			token_expires_at = :token_expires_at, updated_at = NOW()
		WHERE id = :id AND access_token = :previous_access_token
	`
	res, err := r.db.NamedExecContext(ctx, query, map[string]any{
		"access_token":          accessToken,
		"refresh_token":         refreshToken,
		"token_expires_at":      expiresAt,
		"id":                    id,
		"previous_access_token": previousAccessToken,
	})
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *calendarRepository) SetCalendar(ctx context.Context, accountID uuid.UUID, provider, calendarID string) error {
	query := `
		UPDATE calendar_connections
		SET calendar_id = $1, updated_at = NOW()
		WHERE account_id = $2 AND provider = $3
	`
	return r.db.ExecContext(ctx, query, calendarID, accountID, provider)
}

func (r *calendarRepository) SetSyncEnabled(ctx context.Context, accountID uuid.UUID, provider string, enabled bool) error {
	query := `
		UPDATE calendar_connections
		SET sync_enabled = $1, updated_at = NOW()
		WHERE account_id = $2 AND provider = $3
	`
	return r.db.ExecContext(ctx, query, enabled, accountID, provider)
}

func (r *calendarRepository) MarkNeedsReauth(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE calendar_connections
		SET needs_reauth = true, updated_at = NOW()
		WHERE id = $1
	`
	return r.db.ExecContext(ctx, query, id)
}

func (r *calendarRepository) UpdateWebhookChannel(ctx context.Context, id uuid.UUID, channelID, resourceID string, expiresAt time.Time) error {
	query := `
		UPDATE calendar_connections
		SET channel_id = $1, resource_id = $2, channel_expires_at = $3, updated_at = NOW()
		WHERE id = $4
	`
	return r.db.ExecContext(ctx, query, channelID, resourceID, expiresAt, id)
}

func (r *calendarRepository) ClearWebhookChannel(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE calendar_connections
		SET channel_id = NULL, resource_id = NULL, channel_expires_at = NULL, updated_at = NOW()
		WHERE id = $1
	`
	return r.db.ExecContext(ctx, query, id)
}

func (r *calendarRepository) UpdateLastSyncedAt(ctx context.Context, id uuid.UUID, syncedAt time.Time) error {
	query := `
		UPDATE calendar_connections
		SET last_synced_at = $1, updated_at = NOW()
		WHERE id = $2
	`
	return r.db.ExecContext(ctx, query, syncedAt, id)
}

func (r *calendarRepository) DeleteConnection(ctx context.Context, accountID uuid.UUID, provider string) error {
	query := `DELETE FROM calendar_connections WHERE account_id = $1 AND provider = $2`
	return r.db.ExecContext(ctx, query, accountID, provider)
}
