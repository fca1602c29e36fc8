package constants

import "time"

// Request handling
const (
	DefaultTimeout     = 10 * time.Second
	ExternalAPITimeout = 30 * time.Second
)

// Database
const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
)

// Redis keys
const (
	RedisKeySyncLock = "sync:lock:"
)

// Sync engine
const (
	// TokenRefreshMargin is how close to expiry a stored access token may get
	// before it is refreshed.
	TokenRefreshMargin = 5 * time.Minute

	// SyncWindowDays is the forward window of external events pulled on each
	// import run.
	SyncWindowDays = 30

	// SyncLockTTL bounds how long a crashed import run can hold an account lock.
	SyncLockTTL = 2 * time.Minute

	// AccountSyncTimeout caps one account's import run inside the scheduler.
	AccountSyncTimeout = 60 * time.Second

	// SyncWorkerCount is the fan-out width of the scheduler. Kept small so a
	// full pass stays inside the provider's rate limits.
	SyncWorkerCount = 5

	// WebhookChannelTTL is the lifetime requested for a push notification
	// channel. Google caps calendar channels at roughly a week.
	WebhookChannelTTL = 7 * 24 * time.Hour

	// ChannelRenewalWindow is how close to expiry a channel may get before the
	// renewal pass re-registers it.
	ChannelRenewalWindow = 24 * time.Hour
)

// BlockedTimeReasonSync tags blocked-time records owned by the import
// reconciler. Records with any other reason are user-created overrides and
// are never touched by sync.
const BlockedTimeReasonSync = "calendar_sync"

// JWT token scopes
const (
	ScopeTokenAccess  = "access"
	ScopeTokenRefresh = "refresh"
	ScopeTokenChannel = "webhook_channel"
)

// OAuth
const (
	OAuthStateTTL     = 10 * time.Minute
	ProviderGoogle    = "google"
	GoogleTokenExpiry = time.Hour // fallback when the token response has no TTL
)
