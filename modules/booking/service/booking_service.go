package service

import (
	"context"
	"time"

	"clinic-booking-api/core/errors"
	"clinic-booking-api/core/logger"
	"clinic-booking-api/core/utils"
	"clinic-booking-api/modules/booking/dto"
	"clinic-booking-api/modules/booking/entity"
	"clinic-booking-api/modules/booking/repository"
	syncSvc "clinic-booking-api/modules/sync/service"

	"github.com/google/uuid"
)

type BookingService interface {
	Create(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	GetByReference(ctx context.Context, reference string) (*dto.BookingResponse, error)
	ListForProfessional(ctx context.Context, professionalID uuid.UUID) (*dto.BookingListResponse, error)
	// Confirm marks a booking confirmed and exports it to the professional's
	// calendar. Export failures do not fail the confirmation.
	Confirm(ctx context.Context, professionalID, bookingID uuid.UUID) (*dto.BookingResponse, error)
	// Cancel marks a booking cancelled and removes its exported event.
	Cancel(ctx context.Context, professionalID, bookingID uuid.UUID) (*dto.BookingResponse, error)
}

type bookingService struct {
	repo          repository.BookingRepository
	exportService syncSvc.ExportService
}

func NewBookingService(repo repository.BookingRepository, exportService syncSvc.ExportService) BookingService {
	return &bookingService{
		repo:          repo,
		exportService: exportService,
	}
}

func (s *bookingService) Create(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	professionalID, err := uuid.Parse(req.ProfessionalID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "invalid professional id", err)
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "end_time must be after start_time", nil)
	}
	if req.StartTime.Before(time.Now()) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "bookings cannot start in the past", nil)
	}

	timezone := req.Timezone
	if timezone == "" {
		timezone = "UTC"
	}

	booking := &entity.Booking{
		Reference:      utils.GenerateID(),
		ProfessionalID: professionalID,
		ClientName:     req.ClientName,
		ClientEmail:    req.ClientEmail,
		Kind:           req.Kind,
		Notes:          req.Notes,
		Timezone:       timezone,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Status:         entity.StatusPending,
	}

	created, err := s.repo.Create(ctx, booking)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create booking", err)
	}

	logger.Info("BookingService:Create", "booking_id", created.ID, "reference", created.Reference)
	resp := toBookingResponse(created)
	return &resp, nil
}

func (s *bookingService) GetByReference(ctx context.Context, reference string) (*dto.BookingResponse, error) {
	booking, err := s.repo.GetByReference(ctx, reference)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load booking", err)
	}
	if booking == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "booking not found", nil)
	}
	resp := toBookingResponse(booking)
	return &resp, nil
}

func (s *bookingService) ListForProfessional(ctx context.Context, professionalID uuid.UUID) (*dto.BookingListResponse, error) {
	bookings, err := s.repo.ListByProfessional(ctx, professionalID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list bookings", err)
	}

	items := make([]dto.BookingResponse, 0, len(bookings))
	for i := range bookings {
		items = append(items, toBookingResponse(&bookings[i]))
	}
	return &dto.BookingListResponse{Bookings: items}, nil
}

func (s *bookingService) Confirm(ctx context.Context, professionalID, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	booking, err := s.loadOwned(ctx, professionalID, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status == entity.StatusCancelled {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "cancelled bookings cannot be confirmed", nil)
	}

	if booking.Status != entity.StatusConfirmed {
		if err := s.repo.UpdateStatus(ctx, booking.ID, entity.StatusConfirmed); err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "failed to confirm booking", err)
		}
		booking.Status = entity.StatusConfirmed
	}

	// The confirmation stands even when the calendar write does not; the
	// next confirm retries the export because no event id was recorded.
	if _, err := s.exportService.ExportBooking(ctx, booking); err != nil {
		logger.Warn("BookingService:Confirm:ExportFailed", "booking_id", booking.ID, "error", err)
	}

	resp := toBookingResponse(booking)
	return &resp, nil
}

func (s *bookingService) Cancel(ctx context.Context, professionalID, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	booking, err := s.loadOwned(ctx, professionalID, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != entity.StatusCancelled {
		if err := s.repo.UpdateStatus(ctx, booking.ID, entity.StatusCancelled); err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "failed to cancel booking", err)
		}
		booking.Status = entity.StatusCancelled
	}

	if err := s.exportService.RemoveBookingExport(ctx, booking); err != nil {
		logger.Warn("BookingService:Cancel:RemoveExportFailed", "booking_id", booking.ID, "error", err)
	}

	resp := toBookingResponse(booking)
	return &resp, nil
}

func (s *bookingService) loadOwned(ctx context.Context, professionalID, bookingID uuid.UUID) (*entity.Booking, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load booking", err)
	}
	if booking == nil || booking.ProfessionalID != professionalID {
		return nil, errors.NewAppError(errors.ErrNotFound, "booking not found", nil)
	}
	return booking, nil
}

func toBookingResponse(booking *entity.Booking) dto.BookingResponse {
	return dto.BookingResponse{
		ID:               booking.ID.String(),
		Reference:        booking.Reference,
		ProfessionalID:   booking.ProfessionalID.String(),
		ProfessionalName: booking.ProfessionalName,
		ClientName:       booking.ClientName,
		Kind:             booking.Kind,
		Notes:            booking.Notes,
		Timezone:         booking.Timezone,
		StartTime:        booking.StartTime,
		EndTime:          booking.EndTime,
		Status:           booking.Status,
		Exported:         booking.GoogleEventID != nil,
	}
}
