package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"clinic-booking-api/core/errors"
	"clinic-booking-api/modules/booking/dto"
	"clinic-booking-api/modules/booking/entity"
	syncDto "clinic-booking-api/modules/sync/dto"

	"github.com/google/uuid"
)

type fakeBookingRepository struct {
	createFn       func(ctx context.Context, booking *entity.Booking) (*entity.Booking, error)
	getByIDFn      func(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	updateStatusFn func(ctx context.Context, id uuid.UUID, status string) error
}

func (f *fakeBookingRepository) Create(ctx context.Context, booking *entity.Booking) (*entity.Booking, error) {
	if f.createFn != nil {
		return f.createFn(ctx, booking)
	}
	booking.ID = uuid.New()
	return booking, nil
}

func (f *fakeBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeBookingRepository) GetByReference(ctx context.Context, reference string) (*entity.Booking, error) {
	return nil, nil
}

func (f *fakeBookingRepository) ListByProfessional(ctx context.Context, professionalID uuid.UUID) ([]entity.Booking, error) {
	return nil, nil
}

func (f *fakeBookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, id, status)
	}
	return nil
}

func (f *fakeBookingRepository) SetGoogleEventID(ctx context.Context, id uuid.UUID, eventID string) error {
	return nil
}

func (f *fakeBookingRepository) ClearGoogleEventID(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (f *fakeBookingRepository) ClearGoogleEventIDsByProfessional(ctx context.Context, professionalID uuid.UUID) error {
	return nil
}

type fakeExportService struct {
	exportBookingFn       func(ctx context.Context, booking *entity.Booking) (*syncDto.ExportResult, error)
	removeBookingExportFn func(ctx context.Context, booking *entity.Booking) error
}

func (f *fakeExportService) ExportBooking(ctx context.Context, booking *entity.Booking) (*syncDto.ExportResult, error) {
	if f.exportBookingFn != nil {
		return f.exportBookingFn(ctx, booking)
	}
	return &syncDto.ExportResult{Exported: true, EventID: "ev-1"}, nil
}

func (f *fakeExportService) RemoveBookingExport(ctx context.Context, booking *entity.Booking) error {
	if f.removeBookingExportFn != nil {
		return f.removeBookingExportFn(ctx, booking)
	}
	return nil
}

func pendingBooking(professionalID uuid.UUID) *entity.Booking {
	b := &entity.Booking{
		Reference:      "REF1",
		ProfessionalID: professionalID,
		ClientName:     "Jane Doe",
		Kind:           "consultation",
		Timezone:       "UTC",
		StartTime:      time.Now().Add(24 * time.Hour),
		EndTime:        time.Now().Add(25 * time.Hour),
		Status:         entity.StatusPending,
	}
	b.ID = uuid.New()
	return b
}

func TestCreateBookingValidation(t *testing.T) {
	svc := NewBookingService(&fakeBookingRepository{}, &fakeExportService{})

	cases := []struct {
		name string
		req  dto.CreateBookingRequest
	}{
		{"bad professional id", dto.CreateBookingRequest{
			ProfessionalID: "nope",
			StartTime:      time.Now().Add(time.Hour),
			EndTime:        time.Now().Add(2 * time.Hour),
		}},
		{"end before start", dto.CreateBookingRequest{
			ProfessionalID: uuid.NewString(),
			StartTime:      time.Now().Add(2 * time.Hour),
			EndTime:        time.Now().Add(time.Hour),
		}},
		{"starts in the past", dto.CreateBookingRequest{
			ProfessionalID: uuid.NewString(),
			StartTime:      time.Now().Add(-time.Hour),
			EndTime:        time.Now().Add(time.Hour),
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), &tc.req); !errors.IsCode(err, errors.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestConfirmSurvivesExportFailure(t *testing.T) {
	professionalID := uuid.New()
	booking := pendingBooking(professionalID)

	statusUpdated := ""
	repo := &fakeBookingRepository{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
			return booking, nil
		},
		updateStatusFn: func(ctx context.Context, id uuid.UUID, status string) error {
			statusUpdated = status
			return nil
		},
	}
	exporter := &fakeExportService{
		exportBookingFn: func(ctx context.Context, booking *entity.Booking) (*syncDto.ExportResult, error) {
			return nil, fmt.Errorf("calendar unreachable")
		},
	}

	svc := NewBookingService(repo, exporter)
	resp, err := svc.Confirm(context.Background(), professionalID, booking.ID)
	if err != nil {
		t.Fatalf("a failed export must not fail the confirmation: %v", err)
	}
	if statusUpdated != entity.StatusConfirmed || resp.Status != entity.StatusConfirmed {
		t.Errorf("expected booking confirmed, got %q/%q", statusUpdated, resp.Status)
	}
	if resp.Exported {
		t.Error("booking must not report itself exported after a failed export")
	}
}

func TestConfirmRejectsCancelledBooking(t *testing.T) {
	professionalID := uuid.New()
	booking := pendingBooking(professionalID)
	booking.Status = entity.StatusCancelled

	repo := &fakeBookingRepository{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
			return booking, nil
		},
	}

	svc := NewBookingService(repo, &fakeExportService{})
	if _, err := svc.Confirm(context.Background(), professionalID, booking.ID); !errors.IsCode(err, errors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCancelRemovesExport(t *testing.T) {
	professionalID := uuid.New()
	booking := pendingBooking(professionalID)
	eventID := "ev-1"
	booking.GoogleEventID = &eventID
	booking.Status = entity.StatusConfirmed

	removed := false
	repo := &fakeBookingRepository{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
			return booking, nil
		},
	}
	exporter := &fakeExportService{
		removeBookingExportFn: func(ctx context.Context, booking *entity.Booking) error {
			removed = true
			booking.GoogleEventID = nil
			return nil
		},
	}

	svc := NewBookingService(repo, exporter)
	resp, err := svc.Cancel(context.Background(), professionalID, booking.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != entity.StatusCancelled {
		t.Errorf("expected cancelled status, got %q", resp.Status)
	}
	if !removed {
		t.Error("expected export removal attempted")
	}
}

func TestConfirmHidesOtherProfessionalsBookings(t *testing.T) {
	booking := pendingBooking(uuid.New())
	repo := &fakeBookingRepository{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
			return booking, nil
		},
	}

	svc := NewBookingService(repo, &fakeExportService{})
	if _, err := svc.Confirm(context.Background(), uuid.New(), booking.ID); !errors.IsCode(err, errors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
