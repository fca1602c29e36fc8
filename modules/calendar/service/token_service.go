package service

import (
	"context"
	goerrors "errors"
	"net/http"
	"time"

	"clinic-booking-api/core/config"
	"clinic-booking-api/core/constants"
	"clinic-booking-api/core/errors"
	"clinic-booking-api/core/logger"
	"clinic-booking-api/modules/calendar/entity"
	"clinic-booking-api/modules/calendar/repository"

	"golang.org/x/oauth2"
)

// TokenManager hands out access tokens that are guaranteed usable for at
// least the refresh margin. Callers never touch raw credentials directly.
type TokenManager interface {
	// EnsureValidToken returns an access token valid for at least
	// constants.TokenRefreshMargin, refreshing and persisting it if needed.
	// Returns ErrReauthorizationRequired when the refresh token is no longer
	// accepted by the provider.
	EnsureValidToken(ctx context.Context, conn *entity.CalendarConnection) (string, error)
}

type tokenManager struct {
	calendarRepo repository.CalendarRepository
	oauthConfig  *oauth2.Config
}

func NewTokenManager(calendarRepo repository.CalendarRepository, oauthConfig *oauth2.Config) TokenManager {
	return &tokenManager{
		calendarRepo: calendarRepo,
		oauthConfig:  oauthConfig,
	}
}

// NewGoogleOAuthConfig builds the oauth2 exchange config from app config.
func NewGoogleOAuthConfig(cfg *config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.GoogleAPI.ClientID,
		ClientSecret: cfg.GoogleAPI.ClientSecret,
		RedirectURL:  cfg.GoogleAPI.RedirectURI,
		Scopes: []string{
			"https://www.googleapis.com/auth/calendar.readonly",
			"https://www.googleapis.com/auth/calendar.events",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.google.com/o/oauth2/auth",
			TokenURL: "https://oauth2.googleapis.com/token",
		},
	}
}

func (m *tokenManager) EnsureValidToken(ctx context.Context, conn *entity.CalendarConnection) (string, error) {
	if conn.NeedsReauth {
		return "", errors.NewAppError(errors.ErrReauthorizationRequired, "calendar connection requires re-authorization", nil)
	}
	if time.Until(conn.TokenExpiresAt) > constants.TokenRefreshMargin {
		return conn.AccessToken, nil
	}
	return m.refresh(ctx, conn)
}

// refresh exchanges the stored refresh token for a new access token and
// persists it with a compare-and-swap on the previous access token. If a
// concurrent refresh wins the race, the fresher stored credentials are used.
func (m *tokenManager) refresh(ctx context.Context, conn *entity.CalendarConnection) (string, error) {
	previousAccessToken := conn.AccessToken

	source := m.oauthConfig.TokenSource(ctx, &oauth2.Token{
		RefreshToken: conn.RefreshToken,
	})
	newToken, err := source.Token()
	if err != nil {
		if isRefreshRejected(err) {
			logger.Warn("TokenManager:Refresh:Rejected", "connection_id", conn.ID, "account_id", conn.AccountID)
			if markErr := m.calendarRepo.MarkNeedsReauth(ctx, conn.ID); markErr != nil {
				logger.Error("TokenManager:MarkNeedsReauth:Failed", "connection_id", conn.ID, "error", markErr)
			}
			conn.NeedsReauth = true
			return "", errors.NewAppError(errors.ErrReauthorizationRequired, "refresh token rejected by provider", err)
		}
		return "", errors.NewAppError(errors.ErrProviderUnavailable, "token refresh failed", err)
	}

	refreshToken := conn.RefreshToken
	if newToken.RefreshToken != "" {
		// Google may rotate the refresh token on refresh.
		refreshToken = newToken.RefreshToken
	}
	expiresAt := newToken.Expiry
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(constants.GoogleTokenExpiry)
	}

	updated, err := m.calendarRepo.UpdateTokensCAS(ctx, conn.ID, previousAccessToken, newToken.AccessToken, refreshToken, expiresAt)
	if err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "failed to persist refreshed token", err)
	}
	if !updated {
		// Lost the race: another run refreshed first. Use its result.
		fresh, err := m.calendarRepo.GetConnectionByAccountAndProvider(ctx, conn.AccountID, conn.Provider)
		if err != nil || fresh == nil {
			return "", errors.NewAppError(errors.ErrInternalServer, "failed to reload connection after refresh race", err)
		}
		*conn = *fresh
		if conn.NeedsReauth {
			return "", errors.NewAppError(errors.ErrReauthorizationRequired, "calendar connection requires re-authorization", nil)
		}
		return conn.AccessToken, nil
	}

	conn.AccessToken = newToken.AccessToken
	conn.RefreshToken = refreshToken
	conn.TokenExpiresAt = expiresAt
	logger.Info("TokenManager:Refresh:Success", "connection_id", conn.ID, "expires_at", expiresAt)
	return newToken.AccessToken, nil
}

// isRefreshRejected distinguishes "this grant is dead" from transient
// provider failures. A 400/401 from the token endpoint means the refresh
// token was revoked or expired; anything else may succeed on retry.
func isRefreshRejected(err error) bool {
	var retrieveErr *oauth2.RetrieveError
	if goerrors.As(err, &retrieveErr) {
		code := retrieveErr.Response.StatusCode
		return code == http.StatusBadRequest || code == http.StatusUnauthorized
	}
	return false
}
