package repository

import (
	"context"
	"database/sql"

	"clinic-booking-api/core/database"
	"clinic-booking-api/modules/booking/entity"

	"github.com/google/uuid"
)

const bookingColumns = `
	id, reference, professional_id, professional_name, client_name, client_email,
	kind, notes, timezone, start_time, end_time, status, google_event_id,
	created_at, updated_at
`

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) (*entity.Booking, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	GetByReference(ctx context.Context, reference string) (*entity.Booking, error)
	ListByProfessional(ctx context.Context, professionalID uuid.UUID) ([]entity.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	SetGoogleEventID(ctx context.Context, id uuid.UUID, eventID string) error
	ClearGoogleEventID(ctx context.Context, id uuid.UUID) error
	// ClearGoogleEventIDsByProfessional detaches every exported booking for a
	// professional, used when their calendar is disconnected.
	ClearGoogleEventIDsByProfessional(ctx context.Context, professionalID uuid.UUID) error
}

type bookingRepository struct {
	db database.IDatabase
}

func NewBookingRepository(db database.IDatabase) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) (*entity.Booking, error) {
	query := `
		INSERT INTO bookings
			(reference, professional_id, professional_name, client_name, client_email,
			 kind, notes, timezone, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		booking.Reference, booking.ProfessionalID, booking.ProfessionalName,
		booking.ClientName, booking.ClientEmail, booking.Kind, booking.Notes,
		booking.Timezone, booking.StartTime, booking.EndTime, booking.Status,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1
	`
	var booking entity.Booking
	err := r.db.GetContext(ctx, &booking, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) GetByReference(ctx context.Context, reference string) (*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE reference = $1
	`
	var booking entity.Booking
	err := r.db.GetContext(ctx, &booking, query, reference)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) ListByProfessional(ctx context.Context, professionalID uuid.UUID) ([]entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE professional_id = $1
		ORDER BY start_time
	`
	var bookings []entity.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, professionalID); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`
	return r.db.ExecContext(ctx, query, status, id)
}

func (r *bookingRepository) SetGoogleEventID(ctx context.Context, id uuid.UUID, eventID string) error {
	query := `
		UPDATE bookings
		SET google_event_id = $1, updated_at = NOW()
		WHERE id = $2
	`
	return r.db.ExecContext(ctx, query, eventID, id)
}

func (r *bookingRepository) ClearGoogleEventID(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE bookings
		SET google_event_id = NULL, updated_at = NOW()
		WHERE id = $1
	`
	return r.db.ExecContext(ctx, query, id)
}

func (r *bookingRepository) ClearGoogleEventIDsByProfessional(ctx context.Context, professionalID uuid.UUID) error {
	query := `
		UPDATE bookings
		SET google_event_id = NULL, updated_at = NOW()
		WHERE professional_id = $1 AND google_event_id IS NOT NULL
	`
	return r.db.ExecContext(ctx, query, professionalID)
}
