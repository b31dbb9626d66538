package constants

import "time"

// Timeouts
const (
	DefaultTimeout        = 30 * time.Second
	DefaultRequestTimeout = 10 * time.Second
)

// Context keys
const (
	ContextTokenData = "token_data"
)

// Token scopes
const (
	ScopeTokenAccess  = "access"
	ScopeTokenRefresh = "refresh"
	ScopeTokenInvite  = "invite"
)

// Database settings
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// Redis key prefixes
const (
	RedisKeyInviteTokenUsed = "invite:used:"
	RedisKeyWebhookSeen     = "webhook:seen:"
)

// Invitation settings
const (
	InviteTokenTTL   = 14 * 24 * time.Hour
	WatchTTL         = 7 * 24 * time.Hour
	WebhookDedupeTTL = 24 * time.Hour
)

// Schedule defaults. Gigs rarely carry an explicit end time, so intervals
// are synthesized from whichever anchor exists.
const (
	DefaultGigStartTime      = "18:00"
	DefaultDurationFromStart = 2 * time.Hour
	DefaultDurationFromCall  = 3 * time.Hour
)
