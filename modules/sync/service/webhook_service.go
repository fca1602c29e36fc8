package service

import (
	"context"
	"time"

	"clinic-booking-api/core/constants"
	"clinic-booking-api/core/errors"
	"clinic-booking-api/core/logger"
	"clinic-booking-api/core/queue"
	"clinic-booking-api/core/utils"
	calendarEntity "clinic-booking-api/modules/calendar/entity"
	calendarRepo "clinic-booking-api/modules/calendar/repository"
	calendarSvc "clinic-booking-api/modules/calendar/service"
)

// resourceStateSync is Google's handshake notification sent right after a
// watch registration. It carries no change information.
const resourceStateSync = "sync"

// WebhookService manages push notification channels and processes inbound
// notifications. Notification payloads are never trusted: a verified
// notification only triggers a re-import through the queue.
type WebhookService interface {
	RegisterChannel(ctx context.Context, conn *calendarEntity.CalendarConnection) error
	DeregisterChannel(ctx context.Context, conn *calendarEntity.CalendarConnection) error
	// RenewExpiringChannels re-registers every channel expiring within the
	// renewal window and registers channels for sync-ready connections that
	// lack one. One channel failing does not stop the pass.
	RenewExpiringChannels(ctx context.Context) error
	// HandleNotification authenticates an inbound push and enqueues an import
	// run for the channel's account. Unverifiable notifications are dropped.
	HandleNotification(ctx context.Context, channelID, resourceState, channelToken string) error
}

type webhookService struct {
	calendarRepo calendarRepo.CalendarRepository
	tokenManager calendarSvc.TokenManager
	client       calendarSvc.CalendarClient
	queue        queue.Queue
	callbackURL  string
}

func NewWebhookService(
	calRepo calendarRepo.CalendarRepository,
	tokenManager calendarSvc.TokenManager,
	client calendarSvc.CalendarClient,
	q queue.Queue,
	callbackURL string,
) WebhookService {
	return &webhookService{
		calendarRepo: calRepo,
		tokenManager: tokenManager,
		client:       client,
		queue:        q,
		callbackURL:  callbackURL,
	}
}

func (s *webhookService) RegisterChannel(ctx context.Context, conn *calendarEntity.CalendarConnection) error {
	if conn.CalendarID == nil {
		return errors.NewAppError(errors.ErrSyncNotConfigured, "no calendar chosen", nil)
	}
	if s.callbackURL == "" {
		return errors.NewAppError(errors.ErrSyncNotConfigured, "webhook callback url not configured", nil)
	}

	accessToken, err := s.tokenManager.EnsureValidToken(ctx, conn)
	if err != nil {
		return err
	}

	channelID := utils.GenerateChannelID()
	channelToken, err := utils.GenerateChannelToken(conn.AccountID, channelID, constants.WebhookChannelTTL)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to sign channel token", err)
	}

	channel, err := s.client.RegisterWebhook(ctx, accessToken, *conn.CalendarID, channelID, channelToken, s.callbackURL, constants.WebhookChannelTTL)
	if err != nil {
		return err
	}

	if err := s.calendarRepo.UpdateWebhookChannel(ctx, conn.ID, channel.ChannelID, channel.ResourceID, channel.ExpiresAt); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to store webhook channel", err)
	}
	conn.ChannelID = &channel.ChannelID
	conn.ResourceID = &channel.ResourceID
	conn.ChannelExpiresAt = &channel.ExpiresAt

	logger.Info("WebhookService:RegisterChannel:Done",
		"account_id", conn.AccountID,
		"channel_id", channel.ChannelID,
		"expires_at", channel.ExpiresAt,
	)
	return nil
}

func (s *webhookService) DeregisterChannel(ctx context.Context, conn *calendarEntity.CalendarConnection) error {
	if conn.ChannelID == nil || conn.ResourceID == nil {
		return nil
	}

	if accessToken, err := s.tokenManager.EnsureValidToken(ctx, conn); err == nil {
		_ = s.client.DeregisterWebhook(ctx, accessToken, *conn.ChannelID, *conn.ResourceID)
	} else {
		logger.Warn("WebhookService:DeregisterChannel:TokenUnavailable", "account_id", conn.AccountID, "error", err)
	}

	if err := s.calendarRepo.ClearWebhookChannel(ctx, conn.ID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to clear webhook channel", err)
	}
	conn.ChannelID = nil
	conn.ResourceID = nil
	conn.ChannelExpiresAt = nil
	return nil
}

func (s *webhookService) RenewExpiringChannels(ctx context.Context) error {
	cutoff := time.Now().Add(constants.ChannelRenewalWindow)
	connections, err := s.calendarRepo.ListConnectionsNeedingChannel(ctx, cutoff)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to list expiring channels", err)
	}

	renewed := 0
	for i := range connections {
		conn := &connections[i]
		if err := s.DeregisterChannel(ctx, conn); err != nil {
			logger.Warn("WebhookService:Renew:DeregisterFailed", "account_id", conn.AccountID, "error", err)
		}
		if err := s.RegisterChannel(ctx, conn); err != nil {
			logger.Error("WebhookService:Renew:RegisterFailed", "account_id", conn.AccountID, "error", err)
			continue
		}
		renewed++
	}

	logger.Info("WebhookService:RenewExpiringChannels:Done", "expiring", len(connections), "renewed", renewed)
	return nil
}

func (s *webhookService) HandleNotification(ctx context.Context, channelID, resourceState, channelToken string) error {
	accountID, tokenChannelID, err := utils.ParseChannelToken(channelToken)
	if err != nil {
		return errors.NewAppError(errors.ErrUnauthorized, "invalid channel token", err)
	}
	if tokenChannelID != channelID {
		return errors.NewAppError(errors.ErrUnauthorized, "channel token does not match channel", nil)
	}

	conn, err := s.calendarRepo.GetConnectionByChannelID(ctx, channelID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to look up channel", err)
	}
	if conn == nil || conn.AccountID != accountID {
		return errors.NewAppError(errors.ErrNotFound, "unknown channel", nil)
	}

	if resourceState == resourceStateSync {
		// Registration handshake, nothing changed yet.
		return nil
	}

	if err := s.queue.EnqueueSyncAccount(ctx, conn.AccountID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to enqueue sync", err)
	}
	logger.Info("WebhookService:HandleNotification:Enqueued", "account_id", conn.AccountID, "state", resourceState)
	return nil
}
