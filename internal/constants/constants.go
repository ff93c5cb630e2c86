package constants

import "time"

const (
	CheckInterval         = 5 * time.Minute
	CleanupInterval       = 30 * time.Minute
	LocationCheckInterval = 1 * time.Minute
)

const (
	ExternalAPITimeout = 30 * time.Second
	WebhookTimeout     = 30 * time.Second
	DatabaseTimeout    = 5 * time.Second
	CycleTimeout       = 90 * time.Second
)

const (
	DBMaxOpenConns    = 4
	DBMaxIdleConns    = 2
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

// Game tuning. Thresholds were picked empirically against the live boss map.
const (
	MajorMinMinutes = 61
	MajorMaxMinutes = 240
	MinorRadius     = 3
	NearbyRadius    = 3
	AttentionRadius = 1
	BunkerX         = 1054
	BunkerY         = 987
)

const (
	DefaultAccountName = "tommy660"
	DefaultAccounts    = "tommy660=14008279,runner660=14012933,runner661=14012934,runner662=14012935,runner663=14013021,runner664=14013022,runner665=14013023"
)

const (
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)
