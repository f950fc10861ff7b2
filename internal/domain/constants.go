package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for files that may hold API keys (rw-------)
	SecureFilePermissions = 0o600
)

// Generation defaults
const (
	DefaultTemperature       = 0.05
	DefaultSuggestionCount   = 3
	MaxSuggestionCount       = 9
	DefaultMaxReferenceChars = 262144
)

// Retry defaults
const (
	DefaultRetryMaxAttempts = 4
	DefaultRetryBaseDelay   = time.Second
	DefaultRetryMaxDelay    = 8 * time.Second
	DefaultRetryJitter      = 0.2
	// DefaultAttemptTimeout bounds a single provider HTTP call.
	DefaultAttemptTimeout = 60 * time.Second
)

// ProgressInterval is how often the orchestrator reports elapsed time.
const ProgressInterval = 100 * time.Millisecond
