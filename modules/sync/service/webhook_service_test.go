package service

import (
	"context"
	"testing"
	"time"

	"clinic-booking-api/core/config"
	"clinic-booking-api/core/errors"
	"clinic-booking-api/core/utils"
	calendarDto "clinic-booking-api/modules/calendar/dto"
	calendarEntity "clinic-booking-api/modules/calendar/entity"

	"github.com/google/uuid"
)

func init() {
	config.Set(&config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", AccessTTLMinutes: 60},
	})
}

func newWebhookService(calRepo *fakeCalendarRepository, client *fakeCalendarClient, q *fakeQueue) WebhookService {
	return NewWebhookService(calRepo, &fakeTokenManager{}, client, q, "https://clinic.example.com/api/v1/public/sync/webhook")
}

func channelConnection(channelID string) *calendarEntity.CalendarConnection {
	conn := syncReadyConnection()
	resourceID := "res-1"
	expiresAt := time.Now().Add(24 * time.Hour)
	conn.ChannelID = &channelID
	conn.ResourceID = &resourceID
	conn.ChannelExpiresAt = &expiresAt
	return conn
}

func TestHandleNotificationEnqueuesImport(t *testing.T) {
	conn := channelConnection("chan-1")
	token, err := utils.GenerateChannelToken(conn.AccountID, "chan-1", time.Hour)
	if err != nil {
		t.Fatalf("failed to sign channel token: %v", err)
	}

	enqueued := uuid.Nil
	calRepo := &fakeCalendarRepository{
		getConnectionByChannelIDFn: func(ctx context.Context, channelID string) (*calendarEntity.CalendarConnection, error) {
			return conn, nil
		},
	}
	q := &fakeQueue{
		enqueueSyncAccountFn: func(ctx context.Context, accountID uuid.UUID) error {
			enqueued = accountID
			return nil
		},
	}

	svc := newWebhookService(calRepo, &fakeCalendarClient{}, q)
	if err := svc.HandleNotification(context.Background(), "chan-1", "exists", token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if enqueued != conn.AccountID {
		t.Errorf("expected import enqueued for %v, got %v", conn.AccountID, enqueued)
	}
}

func TestHandleNotificationRejectsBadToken(t *testing.T) {
	q := &fakeQueue{
		enqueueSyncAccountFn: func(ctx context.Context, accountID uuid.UUID) error {
			t.Error("no import may be enqueued for an unverified notification")
			return nil
		},
	}
	svc := newWebhookService(&fakeCalendarRepository{}, &fakeCalendarClient{}, q)

	err := svc.HandleNotification(context.Background(), "chan-1", "exists", "not-a-jwt")
	if !errors.IsCode(err, errors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestHandleNotificationRejectsChannelMismatch(t *testing.T) {
	conn := channelConnection("chan-1")
	token, err := utils.GenerateChannelToken(conn.AccountID, "chan-other", time.Hour)
	if err != nil {
		t.Fatalf("failed to sign channel token: %v", err)
	}

	svc := newWebhookService(&fakeCalendarRepository{}, &fakeCalendarClient{}, &fakeQueue{})
	err = svc.HandleNotification(context.Background(), "chan-1", "exists", token)
	if !errors.IsCode(err, errors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for channel mismatch, got %v", err)
	}
}

func TestHandleNotificationIgnoresHandshake(t *testing.T) {
	conn := channelConnection("chan-1")
	token, err := utils.GenerateChannelToken(conn.AccountID, "chan-1", time.Hour)
	if err != nil {
		t.Fatalf("failed to sign channel token: %v", err)
	}

	calRepo := &fakeCalendarRepository{
		getConnectionByChannelIDFn: func(ctx context.Context, channelID string) (*calendarEntity.CalendarConnection, error) {
			return conn, nil
		},
	}
	q := &fakeQueue{
		enqueueSyncAccountFn: func(ctx context.Context, accountID uuid.UUID) error {
			t.Error("the registration handshake must not trigger an import")
			return nil
		},
	}

	svc := newWebhookService(calRepo, &fakeCalendarClient{}, q)
	if err := svc.HandleNotification(context.Background(), "chan-1", "sync", token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHandleNotificationRejectsUnknownChannel(t *testing.T) {
	token, err := utils.GenerateChannelToken(uuid.New(), "chan-ghost", time.Hour)
	if err != nil {
		t.Fatalf("failed to sign channel token: %v", err)
	}

	svc := newWebhookService(&fakeCalendarRepository{}, &fakeCalendarClient{}, &fakeQueue{})
	err = svc.HandleNotification(context.Background(), "chan-ghost", "exists", token)
	if !errors.IsCode(err, errors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRegisterChannelPersistsChannelState(t *testing.T) {
	conn := syncReadyConnection()

	var storedChannelID, storedResourceID string
	calRepo := &fakeCalendarRepository{
		updateWebhookChannelFn: func(ctx context.Context, id uuid.UUID, channelID, resourceID string, expiresAt time.Time) error {
			storedChannelID = channelID
			storedResourceID = resourceID
			return nil
		},
	}
	client := &fakeCalendarClient{
		registerWebhookFn: func(ctx context.Context, accessToken, calendarID, channelID, channelToken, callbackURL string, ttl time.Duration) (*calendarDto.WebhookChannel, error) {
			if channelToken == "" {
				t.Error("expected a signed channel token on registration")
			}
			return &calendarDto.WebhookChannel{ChannelID: channelID, ResourceID: "res-42", ExpiresAt: time.Now().Add(ttl)}, nil
		},
	}

	svc := newWebhookService(calRepo, client, &fakeQueue{})
	if err := svc.RegisterChannel(context.Background(), conn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if storedChannelID == "" || storedResourceID != "res-42" {
		t.Errorf("expected channel persisted, got %q/%q", storedChannelID, storedResourceID)
	}
	if conn.ChannelID == nil || *conn.ChannelID != storedChannelID {
		t.Error("expected connection updated in place")
	}
}

func TestRegisterChannelRequiresChosenCalendar(t *testing.T) {
	conn := syncReadyConnection()
	conn.CalendarID = nil

	svc := newWebhookService(&fakeCalendarRepository{}, &fakeCalendarClient{}, &fakeQueue{})
	err := svc.RegisterChannel(context.Background(), conn)
	if !errors.IsCode(err, errors.ErrSyncNotConfigured) {
		t.Fatalf("expected ErrSyncNotConfigured, got %v", err)
	}
}

func TestRenewExpiringChannelsContinuesPastFailures(t *testing.T) {
	broken := channelConnection("chan-broken")
	healthy := channelConnection("chan-healthy")

	registered := 0
	calRepo := &fakeCalendarRepository{
		listConnectionsNeedingChannelFn: func(ctx context.Context, before time.Time) ([]calendarEntity.CalendarConnection, error) {
			return []calendarEntity.CalendarConnection{*broken, *healthy}, nil
		},
	}
	client := &fakeCalendarClient{
		registerWebhookFn: func(ctx context.Context, accessToken, calendarID, channelID, channelToken, callbackURL string, ttl time.Duration) (*calendarDto.WebhookChannel, error) {
			registered++
			if registered == 1 {
				return nil, errors.NewAppError(errors.ErrProviderUnavailable, "watch failed", nil)
			}
			return &calendarDto.WebhookChannel{ChannelID: channelID, ResourceID: "res-n", ExpiresAt: time.Now().Add(ttl)}, nil
		},
	}

	svc := newWebhookService(calRepo, client, &fakeQueue{})
	if err := svc.RenewExpiringChannels(context.Background()); err != nil {
		t.Fatalf("a failing channel must not abort the pass: %v", err)
	}
	if registered != 2 {
		t.Errorf("expected both channels attempted, got %d", registered)
	}
}
