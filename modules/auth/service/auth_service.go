package service

import (
	"context"
	"time"

	"clinic-booking-api/core/constants"
	"clinic-booking-api/core/errors"
	"clinic-booking-api/core/logger"
	"clinic-booking-api/core/queue"
	"clinic-booking-api/core/utils"
	"clinic-booking-api/modules/auth/dto"
	"clinic-booking-api/modules/auth/repository"
	calendarService "clinic-booking-api/modules/calendar/service"
	syncService "clinic-booking-api/modules/sync/service"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// AuthService runs the Google authorization flow that connects a
// professional's calendar.
type AuthService interface {
	// GetGoogleAuthURL starts the consent flow. The returned URL carries a
	// one-time state token bound to the account.
	GetGoogleAuthURL(ctx context.Context, accountID uuid.UUID) (*dto.AuthURLResponse, error)
	// HandleGoogleCallback finishes the flow: validates state, exchanges the
	// code, stores credentials, and kicks off an initial import.
	HandleGoogleCallback(ctx context.Context, code, state string) (*dto.ConnectResponse, error)
}

type authService struct {
	repo            repository.AuthRepository
	calendarService calendarService.CalendarService
	webhookService  syncService.WebhookService
	queue           queue.Queue
	oauthConfig     *oauth2.Config
}

func NewAuthService(
	repo repository.AuthRepository,
	calSvc calendarService.CalendarService,
	webhookSvc syncService.WebhookService,
	q queue.Queue,
	oauthConfig *oauth2.Config,
) AuthService {
	return &authService{
		repo:            repo,
		calendarService: calSvc,
		webhookService:  webhookSvc,
		queue:           q,
		oauthConfig:     oauthConfig,
	}
}

func (s *authService) GetGoogleAuthURL(ctx context.Context, accountID uuid.UUID) (*dto.AuthURLResponse, error) {
	state := utils.GenerateRandomString(32)
	expiresAt := time.Now().Add(constants.OAuthStateTTL)

	if err := s.repo.SaveOAuthState(ctx, state, accountID, expiresAt); err != nil {
		logger.Error("AuthService:GetGoogleAuthURL:SaveOAuthState:Error", "error", err, "account_id", accountID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to store state token", err)
	}

	// Offline access with forced approval so Google always returns a
	// refresh token, including on reconnects.
	authURL := s.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	return &dto.AuthURLResponse{AuthURL: authURL}, nil
}

func (s *authService) HandleGoogleCallback(ctx context.Context, code, state string) (*dto.ConnectResponse, error) {
	oauthState, err := s.repo.GetOAuthState(ctx, state)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to validate state token", err)
	}
	if oauthState == nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid or expired state token", nil)
	}
	// One-time use.
	if err := s.repo.DeleteOAuthState(ctx, state); err != nil {
		logger.Warn("AuthService:HandleGoogleCallback:DeleteOAuthState:Error", "error", err)
	}

	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		logger.Error("AuthService:HandleGoogleCallback:Exchange:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrProviderUnavailable, "failed to exchange authorization code", err)
	}
	if token.RefreshToken == "" {
		logger.Warn("AuthService:HandleGoogleCallback:NoRefreshToken", "account_id", oauthState.AccountID)
	}

	expiresAt := token.Expiry
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(constants.GoogleTokenExpiry)
	}

	conn, err := s.calendarService.SaveGoogleConnection(ctx, oauthState.AccountID, token.AccessToken, token.RefreshToken, expiresAt)
	if err != nil {
		return nil, err
	}

	resp := &dto.ConnectResponse{
		Connected:    true,
		Provider:     conn.Provider,
		ConnectionID: conn.ID.String(),
	}

	if conn.CalendarID == nil {
		resp.NextStep = "choose_calendar"
		return resp, nil
	}

	// Reconnect with a calendar already chosen: re-arm the push channel and
	// catch up on anything missed while the grant was dead.
	if err := s.webhookService.RegisterChannel(ctx, conn); err != nil {
		logger.Warn("AuthService:HandleGoogleCallback:RegisterChannelFailed", "account_id", conn.AccountID, "error", err)
	}
	if err := s.queue.EnqueueSyncAccount(ctx, conn.AccountID); err != nil {
		logger.Warn("AuthService:HandleGoogleCallback:EnqueueSyncFailed", "account_id", conn.AccountID, "error", err)
	}
	return resp, nil
}
