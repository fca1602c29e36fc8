package repository

import (
	"context"
	"database/sql"
	"time"

	"clinic-booking-api/core/constants"
	"clinic-booking-api/core/database"
	"clinic-booking-api/modules/availability/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const blockedTimeColumns = `
	id, account_id, date, start_time, end_time, reason, source_event_id,
	created_at, updated_at
`

type AvailabilityRepository interface {
	// ReplaceSyncBlocks atomically swaps the sync-owned blocked times for an
	// account from a given date forward. User-created overrides and past
	// records are untouched.
	ReplaceSyncBlocks(ctx context.Context, accountID uuid.UUID, from time.Time, blocks []entity.BlockedTime) error
	DeleteSyncBlocksFrom(ctx context.Context, accountID uuid.UUID, from time.Time) error
	ListByAccountAndRange(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]entity.BlockedTime, error)
	CreateOverride(ctx context.Context, block *entity.BlockedTime) (*entity.BlockedTime, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.BlockedTime, error)
	DeleteOverride(ctx context.Context, accountID, id uuid.UUID) error
}

type availabilityRepository struct {
	db database.IDatabase
}

func NewAvailabilityRepository(db database.IDatabase) AvailabilityRepository {
	return &availabilityRepository{db: db}
}

func (r *availabilityRepository) ReplaceSyncBlocks(ctx context.Context, accountID uuid.UUID, from time.Time, blocks []entity.BlockedTime) error {
	return r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		deleteQuery := `
			DELETE FROM blocked_times
			WHERE account_id = $1 AND reason = $2 AND date >= $3
		`
		if _, err := tx.ExecContext(ctx, deleteQuery, accountID, constants.BlockedTimeReasonSync, from); err != nil {
			return err
		}

		insertQuery := `
			INSERT INTO blocked_times
				(account_id, date, start_time, end_time, reason, source_event_id)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		for _, block := range blocks {
			if _, err := tx.ExecContext(ctx, insertQuery,
				accountID, block.Date, block.StartTime, block.EndTime,
				constants.BlockedTimeReasonSync, block.SourceEventID,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *availabilityRepository) DeleteSyncBlocksFrom(ctx context.Context, accountID uuid.UUID, from time.Time) error {
	query := `
		DELETE FROM blocked_times
		WHERE account_id = $1 AND reason = $2 AND date >= $3
	`
	return r.db.ExecContext(ctx, query, accountID, constants.BlockedTimeReasonSync, from)
}

func (r *availabilityRepository) ListByAccountAndRange(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]entity.BlockedTime, error) {
	query := `
		SELECT ` + blockedTimeColumns + `
		FROM blocked_times
		WHERE account_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date, start_time NULLS FIRST
	`
	var blocks []entity.BlockedTime
	if err := r.db.SelectContext(ctx, &blocks, query, accountID, from, to); err != nil {
		return nil, err
	}
	return blocks, nil
}

func (r *availabilityRepository) CreateOverride(ctx context.Context, block *entity.BlockedTime) (*entity.BlockedTime, error) {
	query := `
		INSERT INTO blocked_times
			(account_id, date, start_time, end_time, reason)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		block.AccountID, block.Date, block.StartTime, block.EndTime, block.Reason,
	).Scan(&block.ID, &block.CreatedAt, &block.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return block, nil
}

func (r *availabilityRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.BlockedTime, error) {
	query := `
		SELECT ` + blockedTimeColumns + `
		FROM blocked_times
		WHERE id = $1
	`
	var block entity.BlockedTime
	err := r.db.GetContext(ctx, &block, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &block, nil
}

// DeleteOverride removes a user-created block. Sync-owned records are
// excluded by the reason guard so the API cannot delete what the reconciler
// would just recreate.
func (r *availabilityRepository) DeleteOverride(ctx context.Context, accountID, id uuid.UUID) error {
	query := `
		DELETE FROM blocked_times
		WHERE id = $1 AND account_id = $2 AND reason <> $3
	`
	return r.db.ExecContext(ctx, query, id, accountID, constants.BlockedTimeReasonSync)
}
