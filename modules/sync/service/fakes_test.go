package service

import (
	"context"
	"time"

	availabilityEntity "clinic-booking-api/modules/availability/entity"
	bookingEntity "clinic-booking-api/modules/booking/entity"
	calendarDto "clinic-booking-api/modules/calendar/dto"
	calendarEntity "clinic-booking-api/modules/calendar/entity"

	"github.com/google/uuid"
)

// ---- calendar repository fake ----

type fakeCalendarRepository struct {
	getConnectionByAccountAndProviderFn func(ctx context.Context, accountID uuid.UUID, provider string) (*calendarEntity.CalendarConnection, error)
	getConnectionByChannelIDFn          func(ctx context.Context, channelID string) (*calendarEntity.CalendarConnection, error)
	listSyncEnabledConnectionsFn        func(ctx context.Context) ([]calendarEntity.CalendarConnection, error)
	listConnectionsNeedingChannelFn     func(ctx context.Context, before time.Time) ([]calendarEntity.CalendarConnection, error)
	updateWebhookChannelFn              func(ctx context.Context, id uuid.UUID, channelID, resourceID string, expiresAt time.Time) error
	clearWebhookChannelFn               func(ctx context.Context, id uuid.UUID) error
	updateLastSyncedAtFn                func(ctx context.Context, id uuid.UUID, syncedAt time.Time) error
}

func (f *fakeCalendarRepository) CreateConnection(ctx context.Context, conn *calendarEntity.CalendarConnection) (*calendarEntity.CalendarConnection, error) {
	return conn, nil
}

func (f *fakeCalendarRepository) GetConnectionByAccountAndProvider(ctx context.Context, accountID uuid.UUID, provider string) (*calendarEntity.CalendarConnection, error) {
	if f.getConnectionByAccountAndProviderFn != nil {
		return f.getConnectionByAccountAndProviderFn(ctx, accountID, provider)
	}
	return nil, nil
}

func (f *fakeCalendarRepository) GetConnectionByChannelID(ctx context.Context, channelID string) (*calendarEntity.CalendarConnection, error) {
	if f.getConnectionByChannelIDFn != nil {
		return f.getConnectionByChannelIDFn(ctx, channelID)
	}
	return nil, nil
}

func (f *fakeCalendarRepository) ListSyncEnabledConnections(ctx context.Context) ([]calendarEntity.CalendarConnection, error) {
	if f.listSyncEnabledConnectionsFn != nil {
		return f.listSyncEnabledConnectionsFn(ctx)
	}
	return nil, nil
}

func (f *fakeCalendarRepository) ListConnectionsNeedingChannel(ctx context.Context, before time.Time) ([]calendarEntity.CalendarConnection, error) {
	if f.listConnectionsNeedingChannelFn != nil {
		return f.listConnectionsNeedingChannelFn(ctx, before)
	}
	return nil, nil
}

func (f *fakeCalendarRepository) UpdateCredentials(ctx context.Context, conn *calendarEntity.CalendarConnection) error {
	return nil
}

func (f *fakeCalendarRepository) UpdateTokensCAS(ctx context.Context, id uuid.UUID, previousAccessToken, accessToken, refreshToken string, expiresAt time.Time) (bool, error) {
	return true, nil
}

func (f *fakeCalendarRepository) SetCalendar(ctx context.Context, accountID uuid.UUID, provider, calendarID string) error {
	return nil
}

func (f *fakeCalendarRepository) SetSyncEnabled(ctx context.Context, accountID uuid.UUID, provider string, enabled bool) error {
	return nil
}

func (f *fakeCalendarRepository) MarkNeedsReauth(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (f *fakeCalendarRepository) UpdateWebhookChannel(ctx context.Context, id uuid.UUID, channelID, resourceID string, expiresAt time.Time) error {
	if f.updateWebhookChannelFn != nil {
		return f.updateWebhookChannelFn(ctx, id, channelID, resourceID, expiresAt)
	}
	return nil
}

func (f *fakeCalendarRepository) ClearWebhookChannel(ctx context.Context, id uuid.UUID) error {
	if f.clearWebhookChannelFn != nil {
		return f.clearWebhookChannelFn(ctx, id)
	}
	return nil
}

func (f *fakeCalendarRepository) UpdateLastSyncedAt(ctx context.Context, id uuid.UUID, syncedAt time.Time) error {
	if f.updateLastSyncedAtFn != nil {
		return f.updateLastSyncedAtFn(ctx, id, syncedAt)
	}
	return nil
}

func (f *fakeCalendarRepository) DeleteConnection(ctx context.Context, accountID uuid.UUID, provider string) error {
	return nil
}

// ---- availability repository fake ----

type fakeAvailabilityRepository struct {
	replaceSyncBlocksFn func(ctx context.Context, accountID uuid.UUID, from time.Time, blocks []availabilityEntity.BlockedTime) error
}

func (f *fakeAvailabilityRepository) ReplaceSyncBlocks(ctx context.Context, accountID uuid.UUID, from time.Time, blocks []availabilityEntity.BlockedTime) error {
	if f.replaceSyncBlocksFn != nil {
		return f.replaceSyncBlocksFn(ctx, accountID, from, blocks)
	}
	return nil
}

func (f *fakeAvailabilityRepository) DeleteSyncBlocksFrom(ctx context.Context, accountID uuid.UUID, from time.Time) error {
	return nil
}

func (f *fakeAvailabilityRepository) ListByAccountAndRange(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]availabilityEntity.BlockedTime, error) {
	return nil, nil
}

func (f *fakeAvailabilityRepository) CreateOverride(ctx context.Context, block *availabilityEntity.BlockedTime) (*availabilityEntity.BlockedTime, error) {
	return block, nil
}

func (f *fakeAvailabilityRepository) GetByID(ctx context.Context, id uuid.UUID) (*availabilityEntity.BlockedTime, error) {
	return nil, nil
}

func (f *fakeAvailabilityRepository) DeleteOverride(ctx context.Context, accountID, id uuid.UUID) error {
	return nil
}

// ---- booking repository fake ----

type fakeBookingRepository struct {
	setGoogleEventIDFn   func(ctx context.Context, id uuid.UUID, eventID string) error
	clearGoogleEventIDFn func(ctx context.Context, id uuid.UUID) error
}

func (f *fakeBookingRepository) Create(ctx context.Context, booking *bookingEntity.Booking) (*bookingEntity.Booking, error) {
	return booking, nil
}

func (f *fakeBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*bookingEntity.Booking, error) {
	return nil, nil
}

func (f *fakeBookingRepository) GetByReference(ctx context.Context, reference string) (*bookingEntity.Booking, error) {
	return nil, nil
}

func (f *fakeBookingRepository) ListByProfessional(ctx context.Context, professionalID uuid.UUID) ([]bookingEntity.Booking, error) {
	return nil, nil
}

func (f *fakeBookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return nil
}

func (f *fakeBookingRepository) SetGoogleEventID(ctx context.Context, id uuid.UUID, eventID string) error {
	if f.setGoogleEventIDFn != nil {
		return f.setGoogleEventIDFn(ctx, id, eventID)
	}
	return nil
}

func (f *fakeBookingRepository) ClearGoogleEventID(ctx context.Context, id uuid.UUID) error {
	if f.clearGoogleEventIDFn != nil {
		return f.clearGoogleEventIDFn(ctx, id)
	}
	return nil
}

func (f *fakeBookingRepository) ClearGoogleEventIDsByProfessional(ctx context.Context, professionalID uuid.UUID) error {
	return nil
}

// ---- token manager fake ----

type fakeTokenManager struct {
	ensureValidTokenFn func(ctx context.Context, conn *calendarEntity.CalendarConnection) (string, error)
}

func (f *fakeTokenManager) EnsureValidToken(ctx context.Context, conn *calendarEntity.CalendarConnection) (string, error) {
	if f.ensureValidTokenFn != nil {
		return f.ensureValidTokenFn(ctx, conn)
	}
	return "access-token", nil
}

// ---- calendar client fake ----

type fakeCalendarClient struct {
	listCalendarsFn     func(ctx context.Context, accessToken string) ([]calendarDto.Calendar, error)
	listEventsFn        func(ctx context.Context, accessToken, calendarID string, windowStart, windowEnd time.Time) ([]calendarDto.CalendarEvent, error)
	createEventFn       func(ctx context.Context, accessToken, calendarID string, event *calendarDto.EventInput) (*calendarDto.CalendarEvent, error)
	deleteEventFn       func(ctx context.Context, accessToken, calendarID, eventID string) error
	registerWebhookFn   func(ctx context.Context, accessToken, calendarID, channelID, channelToken, callbackURL string, ttl time.Duration) (*calendarDto.WebhookChannel, error)
	deregisterWebhookFn func(ctx context.Context, accessToken, channelID, resourceID string) error
}

func (f *fakeCalendarClient) ListCalendars(ctx context.Context, accessToken string) ([]calendarDto.Calendar, error) {
	if f.listCalendarsFn != nil {
		return f.listCalendarsFn(ctx, accessToken)
	}
	return nil, nil
}

func (f *fakeCalendarClient) ListEvents(ctx context.Context, accessToken, calendarID string, windowStart, windowEnd time.Time) ([]calendarDto.CalendarEvent, error) {
	if f.listEventsFn != nil {
		return f.listEventsFn(ctx, accessToken, calendarID, windowStart, windowEnd)
	}
	return nil, nil
}

func (f *fakeCalendarClient) CreateEvent(ctx context.Context, accessToken, calendarID string, event *calendarDto.EventInput) (*calendarDto.CalendarEvent, error) {
	if f.createEventFn != nil {
		return f.createEventFn(ctx, accessToken, calendarID, event)
	}
	return &calendarDto.CalendarEvent{ID: "ev-created"}, nil
}

func (f *fakeCalendarClient) DeleteEvent(ctx context.Context, accessToken, calendarID, eventID string) error {
	if f.deleteEventFn != nil {
		return f.deleteEventFn(ctx, accessToken, calendarID, eventID)
	}
	return nil
}

func (f *fakeCalendarClient) RegisterWebhook(ctx context.Context, accessToken, calendarID, channelID, channelToken, callbackURL string, ttl time.Duration) (*calendarDto.WebhookChannel, error) {
	if f.registerWebhookFn != nil {
		return f.registerWebhookFn(ctx, accessToken, calendarID, channelID, channelToken, callbackURL, ttl)
	}
	return &calendarDto.WebhookChannel{ChannelID: channelID, ResourceID: "res-1", ExpiresAt: time.Now().Add(ttl)}, nil
}

func (f *fakeCalendarClient) DeregisterWebhook(ctx context.Context, accessToken, channelID, resourceID string) error {
	if f.deregisterWebhookFn != nil {
		return f.deregisterWebhookFn(ctx, accessToken, channelID, resourceID)
	}
	return nil
}

// ---- cache fake ----

type fakeCache struct {
	acquireLockFn func(ctx context.Context, key string, ttl time.Duration) (bool, error)
	releaseLockFn func(ctx context.Context, key string) error
}

func (f *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return nil
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	return "", nil
}

func (f *fakeCache) Del(ctx context.Context, key string) error {
	return nil
}

func (f *fakeCache) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if f.acquireLockFn != nil {
		return f.acquireLockFn(ctx, key, ttl)
	}
	return true, nil
}

func (f *fakeCache) ReleaseLock(ctx context.Context, key string) error {
	if f.releaseLockFn != nil {
		return f.releaseLockFn(ctx, key)
	}
	return nil
}

// ---- queue fake ----

type fakeQueue struct {
	enqueueSyncAccountFn func(ctx context.Context, accountID uuid.UUID) error
}

func (f *fakeQueue) EnqueueSyncAccount(ctx context.Context, accountID uuid.UUID) error {
	if f.enqueueSyncAccountFn != nil {
		return f.enqueueSyncAccountFn(ctx, accountID)
	}
	return nil
}

// ---- helpers ----

func syncReadyConnection() *calendarEntity.CalendarConnection {
	calendarID := "primary"
	conn := &calendarEntity.CalendarConnection{
		AccountID:      uuid.New(),
		Provider:       "google",
		AccessToken:    "access",
		RefreshToken:   "refresh",
		TokenExpiresAt: time.Now().Add(time.Hour),
		CalendarID:     &calendarID,
		SyncEnabled:    true,
	}
	conn.ID = uuid.New()
	return conn
}
