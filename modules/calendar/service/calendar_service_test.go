package service

import (
	"context"
	"testing"
	"time"

	"clinic-booking-api/core/errors"
	availabilityEntity "clinic-booking-api/modules/availability/entity"
	bookingEntity "clinic-booking-api/modules/booking/entity"
	"clinic-booking-api/modules/calendar/dto"
	"clinic-booking-api/modules/calendar/entity"

	"github.com/google/uuid"
)

type fakeAvailabilityRepo struct {
	deleteSyncBlocksFromFn func(ctx context.Context, accountID uuid.UUID, from time.Time) error
}

func (f *fakeAvailabilityRepo) ReplaceSyncBlocks(ctx context.Context, accountID uuid.UUID, from time.Time, blocks []availabilityEntity.BlockedTime) error {
	return nil
}

func (f *fakeAvailabilityRepo) DeleteSyncBlocksFrom(ctx context.Context, accountID uuid.UUID, from time.Time) error {
	if f.deleteSyncBlocksFromFn != nil {
		return f.deleteSyncBlocksFromFn(ctx, accountID, from)
	}
	return nil
}

func (f *fakeAvailabilityRepo) ListByAccountAndRange(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]availabilityEntity.BlockedTime, error) {
	return nil, nil
}

func (f *fakeAvailabilityRepo) CreateOverride(ctx context.Context, block *availabilityEntity.BlockedTime) (*availabilityEntity.BlockedTime, error) {
	return block, nil
}

func (f *fakeAvailabilityRepo) GetByID(ctx context.Context, id uuid.UUID) (*availabilityEntity.BlockedTime, error) {
	return nil, nil
}

func (f *fakeAvailabilityRepo) DeleteOverride(ctx context.Context, accountID, id uuid.UUID) error {
	return nil
}

type fakeBookingRepo struct {
	clearByProfessionalFn func(ctx context.Context, professionalID uuid.UUID) error
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *bookingEntity.Booking) (*bookingEntity.Booking, error) {
	return booking, nil
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*bookingEntity.Booking, error) {
	return nil, nil
}

func (f *fakeBookingRepo) GetByReference(ctx context.Context, reference string) (*bookingEntity.Booking, error) {
	return nil, nil
}

func (f *fakeBookingRepo) ListByProfessional(ctx context.Context, professionalID uuid.UUID) ([]bookingEntity.Booking, error) {
	return nil, nil
}

func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return nil
}

func (f *fakeBookingRepo) SetGoogleEventID(ctx context.Context, id uuid.UUID, eventID string) error {
	return nil
}

func (f *fakeBookingRepo) ClearGoogleEventID(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (f *fakeBookingRepo) ClearGoogleEventIDsByProfessional(ctx context.Context, professionalID uuid.UUID) error {
	if f.clearByProfessionalFn != nil {
		return f.clearByProfessionalFn(ctx, professionalID)
	}
	return nil
}

type fakeTokenManagerCal struct{}

func (f *fakeTokenManagerCal) EnsureValidToken(ctx context.Context, conn *entity.CalendarConnection) (string, error) {
	return "access", nil
}

type noopClient struct{}

func (noopClient) ListCalendars(ctx context.Context, accessToken string) ([]dto.Calendar, error) {
	return nil, nil
}

func (noopClient) ListEvents(ctx context.Context, accessToken, calendarID string, windowStart, windowEnd time.Time) ([]dto.CalendarEvent, error) {
	return nil, nil
}

func (noopClient) CreateEvent(ctx context.Context, accessToken, calendarID string, event *dto.EventInput) (*dto.CalendarEvent, error) {
	return &dto.CalendarEvent{ID: "ev-1"}, nil
}

func (noopClient) DeleteEvent(ctx context.Context, accessToken, calendarID, eventID string) error {
	return nil
}

func (noopClient) RegisterWebhook(ctx context.Context, accessToken, calendarID, channelID, channelToken, callbackURL string, ttl time.Duration) (*dto.WebhookChannel, error) {
	return &dto.WebhookChannel{ChannelID: channelID, ResourceID: "res-1", ExpiresAt: time.Now().Add(ttl)}, nil
}

func (noopClient) DeregisterWebhook(ctx context.Context, accessToken, channelID, resourceID string) error {
	return nil
}

func TestDisconnectCascades(t *testing.T) {
	accountID := uuid.New()
	calendarID := "primary"
	channelID := "chan-1"
	resourceID := "res-1"
	conn := &entity.CalendarConnection{
		AccountID:      accountID,
		Provider:       "google",
		AccessToken:    "access",
		RefreshToken:   "refresh",
		TokenExpiresAt: time.Now().Add(time.Hour),
		CalendarID:     &calendarID,
		SyncEnabled:    true,
		ChannelID:      &channelID,
		ResourceID:     &resourceID,
	}
	conn.ID = uuid.New()

	blocksDeleted := false
	bookingsDetached := false
	calRepo := &fakeCalendarRepository{
		getConnectionByAccountAndProviderFn: func(ctx context.Context, aid uuid.UUID, provider string) (*entity.CalendarConnection, error) {
			return conn, nil
		},
	}
	availRepo := &fakeAvailabilityRepo{
		deleteSyncBlocksFromFn: func(ctx context.Context, aid uuid.UUID, from time.Time) error {
			blocksDeleted = true
			if aid != accountID {
				t.Errorf("expected account %v, got %v", accountID, aid)
			}
			return nil
		},
	}
	bkRepo := &fakeBookingRepo{
		clearByProfessionalFn: func(ctx context.Context, pid uuid.UUID) error {
			bookingsDetached = true
			return nil
		},
	}

	svc := NewCalendarService(calRepo, availRepo, bkRepo, &fakeTokenManagerCal{}, &noopClient{})
	if err := svc.Disconnect(context.Background(), accountID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !blocksDeleted {
		t.Error("expected synced blocked times removed")
	}
	if !bookingsDetached {
		t.Error("expected exported bookings detached")
	}
}

func TestChooseCalendarRequiresConnection(t *testing.T) {
	svc := NewCalendarService(&fakeCalendarRepository{}, &fakeAvailabilityRepo{}, &fakeBookingRepo{}, &fakeTokenManagerCal{}, &noopClient{})

	err := svc.ChooseCalendar(context.Background(), uuid.New(), "primary")
	if !errors.IsCode(err, errors.ErrSyncNotConfigured) {
		t.Fatalf("expected ErrSyncNotConfigured, got %v", err)
	}
}
