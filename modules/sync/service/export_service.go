package service

import (
	"context"
	"fmt"

	"clinic-booking-api/core/constants"
	"clinic-booking-api/core/errors"
	"clinic-booking-api/core/logger"
	bookingEntity "clinic-booking-api/modules/booking/entity"
	bookingRepo "clinic-booking-api/modules/booking/repository"
	calendarDto "clinic-booking-api/modules/calendar/dto"
	calendarRepo "clinic-booking-api/modules/calendar/repository"
	calendarSvc "clinic-booking-api/modules/calendar/service"
	"clinic-booking-api/modules/sync/dto"
)

// ExportService mirrors confirmed bookings onto the professional's external
// calendar.
type ExportService interface {
	// ExportBooking creates the external event for a booking and records the
	// mapping. Already-exported bookings and accounts without a usable
	// connection are reported skipped, not failed.
	ExportBooking(ctx context.Context, booking *bookingEntity.Booking) (*dto.ExportResult, error)
	// RemoveBookingExport deletes the external event for a booking. The
	// mapping is cleared even when the provider-side delete cannot run; an
	// orphaned event is preferable to a booking stuck pointing at one.
	RemoveBookingExport(ctx context.Context, booking *bookingEntity.Booking) error
}

type exportService struct {
	calendarRepo calendarRepo.CalendarRepository
	bookingRepo  bookingRepo.BookingRepository
	tokenManager calendarSvc.TokenManager
	client       calendarSvc.CalendarClient
}

func NewExportService(
	calRepo calendarRepo.CalendarRepository,
	bkRepo bookingRepo.BookingRepository,
	tokenManager calendarSvc.TokenManager,
	client calendarSvc.CalendarClient,
) ExportService {
	return &exportService{
		calendarRepo: calRepo,
		bookingRepo:  bkRepo,
		tokenManager: tokenManager,
		client:       client,
	}
}

func (s *exportService) ExportBooking(ctx context.Context, booking *bookingEntity.Booking) (*dto.ExportResult, error) {
	if booking.GoogleEventID != nil {
		return &dto.ExportResult{Skipped: true, Reason: "already_exported", EventID: *booking.GoogleEventID}, nil
	}

	conn, err := s.calendarRepo.GetConnectionByAccountAndProvider(ctx, booking.ProfessionalID, constants.ProviderGoogle)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load calendar connection", err)
	}
	if conn == nil || !conn.SyncEnabled || conn.CalendarID == nil || conn.NeedsReauth {
		return &dto.ExportResult{Skipped: true, Reason: dto.SkipReasonNoConnection}, nil
	}

	accessToken, err := s.tokenManager.EnsureValidToken(ctx, conn)
	if err != nil {
		return nil, err
	}

	input := &calendarDto.EventInput{
		Summary:     fmt.Sprintf("%s - %s", booking.ClientName, booking.Kind),
		Description: fmt.Sprintf("Booking %s\n%s", booking.Reference, booking.Notes),
		Start:       booking.StartTime,
		End:         booking.EndTime,
		TimeZone:    booking.Timezone,
	}

	// A failed create must surface: a silently missing event would let the
	// slot be double-booked from the calendar side.
	event, err := s.client.CreateEvent(ctx, accessToken, *conn.CalendarID, input)
	if err != nil {
		return nil, err
	}

	if err := s.bookingRepo.SetGoogleEventID(ctx, booking.ID, event.ID); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to record exported event id", err)
	}
	booking.GoogleEventID = &event.ID

	logger.Info("ExportService:ExportBooking:Done", "booking_id", booking.ID, "event_id", event.ID)
	return &dto.ExportResult{Exported: true, EventID: event.ID}, nil
}

func (s *exportService) RemoveBookingExport(ctx context.Context, booking *bookingEntity.Booking) error {
	if booking.GoogleEventID == nil {
		return nil
	}
	eventID := *booking.GoogleEventID

	conn, err := s.calendarRepo.GetConnectionByAccountAndProvider(ctx, booking.ProfessionalID, constants.ProviderGoogle)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to load calendar connection", err)
	}

	if conn != nil && conn.CalendarID != nil {
		if accessToken, err := s.tokenManager.EnsureValidToken(ctx, conn); err == nil {
			if err := s.client.DeleteEvent(ctx, accessToken, *conn.CalendarID, eventID); err != nil {
				logger.Warn("ExportService:RemoveBookingExport:DeleteFailed",
					"booking_id", booking.ID, "event_id", eventID, "error", err)
			}
		} else {
			logger.Warn("ExportService:RemoveBookingExport:TokenUnavailable",
				"booking_id", booking.ID, "error", err)
		}
	}

	if err := s.bookingRepo.ClearGoogleEventID(ctx, booking.ID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to clear exported event id", err)
	}
	booking.GoogleEventID = nil
	return nil
}
