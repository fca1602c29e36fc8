package service

import (
	"context"
	"time"

	"clinic-booking-api/core/constants"
	"clinic-booking-api/core/errors"
	"clinic-booking-api/core/logger"
	availabilityRepo "clinic-booking-api/modules/availability/repository"
	bookingRepo "clinic-booking-api/modules/booking/repository"
	"clinic-booking-api/modules/calendar/dto"
	"clinic-booking-api/modules/calendar/entity"
	"clinic-booking-api/modules/calendar/repository"

	"github.com/google/uuid"
)

type CalendarService interface {
	// SaveGoogleConnection upserts the connection created by an OAuth
	// callback. A reconnect replaces credentials and clears needs_reauth.
	SaveGoogleConnection(ctx context.Context, accountID uuid.UUID, accessToken, refreshToken string, expiresAt time.Time) (*entity.CalendarConnection, error)
	GetConnection(ctx context.Context, accountID uuid.UUID) (*dto.CalendarConnectionResponse, error)
	ListExternalCalendars(ctx context.Context, accountID uuid.UUID) (*dto.CalendarListResponse, error)
	ChooseCalendar(ctx context.Context, accountID uuid.UUID, calendarID string) error
	SetSyncEnabled(ctx context.Context, accountID uuid.UUID, enabled bool) error
	Disconnect(ctx context.Context, accountID uuid.UUID) error
}

type calendarService struct {
	calendarRepo     repository.CalendarRepository
	availabilityRepo availabilityRepo.AvailabilityRepository
	bookingRepo      bookingRepo.BookingRepository
	tokenManager     TokenManager
	client           CalendarClient
}

func NewCalendarService(
	calRepo repository.CalendarRepository,
	availRepo availabilityRepo.AvailabilityRepository,
	bkRepo bookingRepo.BookingRepository,
	tokenManager TokenManager,
	client CalendarClient,
) CalendarService {
	return &calendarService{
		calendarRepo:     calRepo,
		availabilityRepo: availRepo,
		bookingRepo:      bkRepo,
		tokenManager:     tokenManager,
		client:           client,
	}
}

func (s *calendarService) SaveGoogleConnection(ctx context.Context, accountID uuid.UUID, accessToken, refreshToken string, expiresAt time.Time) (*entity.CalendarConnection, error) {
	existing, err := s.calendarRepo.GetConnectionByAccountAndProvider(ctx, accountID, constants.ProviderGoogle)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to look up calendar connection", err)
	}

	if existing != nil {
		existing.AccessToken = accessToken
		if refreshToken != "" {
			existing.RefreshToken = refreshToken
		}
		existing.TokenExpiresAt = expiresAt
		if err := s.calendarRepo.UpdateCredentials(ctx, existing); err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "failed to update calendar credentials", err)
		}
		existing.NeedsReauth = false
		logger.Info("CalendarService:SaveGoogleConnection:Reconnected", "account_id", accountID, "connection_id", existing.ID)
		return existing, nil
	}

	conn := &entity.CalendarConnection{
		AccountID:      accountID,
		Provider:       constants.ProviderGoogle,
		AccessToken:    accessToken,
		RefreshToken:   refreshToken,
		TokenExpiresAt: expiresAt,
		SyncEnabled:    true,
	}
	created, err := s.calendarRepo.CreateConnection(ctx, conn)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create calendar connection", err)
	}
	logger.Info("CalendarService:SaveGoogleConnection:Created", "account_id", accountID, "connection_id", created.ID)
	return created, nil
}

func (s *calendarService) GetConnection(ctx context.Context, accountID uuid.UUID) (*dto.CalendarConnectionResponse, error) {
	conn, err := s.calendarRepo.GetConnectionByAccountAndProvider(ctx, accountID, constants.ProviderGoogle)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to look up calendar connection", err)
	}
	if conn == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "no calendar connected", nil)
	}
	return &dto.CalendarConnectionResponse{
		ID:           conn.ID.String(),
		Provider:     conn.Provider,
		CalendarID:   conn.CalendarID,
		SyncEnabled:  conn.SyncEnabled,
		NeedsReauth:  conn.NeedsReauth,
		LastSyncedAt: conn.LastSyncedAt,
		ConnectedAt:  conn.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (s *calendarService) ListExternalCalendars(ctx context.Context, accountID uuid.UUID) (*dto.CalendarListResponse, error) {
	conn, err := s.calendarRepo.GetConnectionByAccountAndProvider(ctx, accountID, constants.ProviderGoogle)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to look up calendar connection", err)
	}
	if conn == nil {
		return nil, errors.NewAppError(errors.ErrSyncNotConfigured, "no calendar connected", nil)
	}

	accessToken, err := s.tokenManager.EnsureValidToken(ctx, conn)
	if err != nil {
		return nil, err
	}

	calendars, err := s.client.ListCalendars(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return &dto.CalendarListResponse{Calendars: calendars}, nil
}

func (s *calendarService) ChooseCalendar(ctx context.Context, accountID uuid.UUID, calendarID string) error {
	conn, err := s.calendarRepo.GetConnectionByAccountAndProvider(ctx, accountID, constants.ProviderGoogle)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to look up calendar connection", err)
	}
	if conn == nil {
		return errors.NewAppError(errors.ErrSyncNotConfigured, "no calendar connected", nil)
	}
	if calendarID == "" {
		return errors.NewAppError(errors.ErrInvalidInput, "calendar_id is required", nil)
	}
	if err := s.calendarRepo.SetCalendar(ctx, accountID, constants.ProviderGoogle, calendarID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to set calendar", err)
	}
	logger.Info("CalendarService:ChooseCalendar", "account_id", accountID, "calendar_id", calendarID)
	return nil
}

func (s *calendarService) SetSyncEnabled(ctx context.Context, accountID uuid.UUID, enabled bool) error {
	conn, err := s.calendarRepo.GetConnectionByAccountAndProvider(ctx, accountID, constants.ProviderGoogle)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to look up calendar connection", err)
	}
	if conn == nil {
		return errors.NewAppError(errors.ErrSyncNotConfigured, "no calendar connected", nil)
	}
	if err := s.calendarRepo.SetSyncEnabled(ctx, accountID, constants.ProviderGoogle, enabled); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to update sync flag", err)
	}
	logger.Info("CalendarService:SetSyncEnabled", "account_id", accountID, "enabled", enabled)
	return nil
}

// Disconnect tears the connection down: stop the webhook channel (best
// effort), drop the sync-owned blocked times from today forward, detach
// exported bookings from their external events, and delete the connection.
// The external events themselves are left on the user's calendar.
func (s *calendarService) Disconnect(ctx context.Context, accountID uuid.UUID) error {
	conn, err := s.calendarRepo.GetConnectionByAccountAndProvider(ctx, accountID, constants.ProviderGoogle)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to look up calendar connection", err)
	}
	if conn == nil {
		return errors.NewAppError(errors.ErrNotFound, "no calendar connected", nil)
	}

	if conn.ChannelID != nil && conn.ResourceID != nil {
		if accessToken, err := s.tokenManager.EnsureValidToken(ctx, conn); err == nil {
			_ = s.client.DeregisterWebhook(ctx, accessToken, *conn.ChannelID, *conn.ResourceID)
		} else {
			logger.Warn("CalendarService:Disconnect:ChannelStopSkipped", "account_id", accountID, "error", err)
		}
	}

	today := time.Now().Truncate(24 * time.Hour)
	if err := s.availabilityRepo.DeleteSyncBlocksFrom(ctx, accountID, today); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to remove synced blocked times", err)
	}
	if err := s.bookingRepo.ClearGoogleEventIDsByProfessional(ctx, accountID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to detach exported bookings", err)
	}
	if err := s.calendarRepo.DeleteConnection(ctx, accountID, constants.ProviderGoogle); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to delete calendar connection", err)
	}

	logger.Info("CalendarService:Disconnect:Done", "account_id", accountID)
	return nil
}
