package constants

import "time"

// Context and session keys
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUsername  = "username"
	ContextKeyRequestID = "request_id"
	SessionCookieName   = "pm_session"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Authentication
const (
	MinPasswordLength = 6
	// bcrypt ignores everything past 72 bytes
	MaxPasswordBytes = 72
	DefaultTokenTTL  = 24 * time.Hour
	TokenType        = "bearer"
)

// Analytics
const (
	HoursPerWeek      = 40.0
	NearBudgetPercent = 90.0
	FullPercent       = 100.0
)

// AI task drafting
const (
	MaxAIDraftedTasks = 20
)
