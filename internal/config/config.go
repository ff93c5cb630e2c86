package config

import (
	"df-boss-monitor/internal/constants"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Mode string

const (
	ModeDetect Mode = "detect"
	ModeTrack  Mode = "track"
)

type Config struct {
	SlackWebhookURL      string
	SlackChannel         string
	LocationTrackChannel string
	SlackUsername        string
	SlackIconEmoji       string

	BossMapURL string

	Mode             Mode
	TrackAccount     string
	TrackedAccounts  map[string]string
	CheckInterval    time.Duration
	CleanupInterval  time.Duration
	LocationInterval time.Duration
	Location         *time.Location

	DBPath     string
	StatusPort string
	LogLevel   string

	MajorMinMinutes int
	MajorMaxMinutes int
	MinorRadius     int
	NearbyRadius    int
	AttentionRadius int
	BunkerX         int
	BunkerY         int
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		SlackWebhookURL:      getEnv("SLACK_WEBHOOK_URL", ""),
		SlackChannel:         getEnv("SLACK_CHANNEL", "#dfbossreminder"),
		LocationTrackChannel: getEnv("LOCATION_TRACK_CHANNEL", "#dflocationtrack"),
		SlackUsername:        getEnv("SLACK_USERNAME", "Bot"),
		SlackIconEmoji:       getEnv("SLACK_ICON_EMOJI", ":slack:"),
		BossMapURL:           strings.TrimRight(getEnv("BOSS_MAP_URL", "https://www.dfprofiler.com/bossmap"), "/"),
		Mode:                 Mode(strings.ToLower(getEnv("MONITOR_MODE", string(ModeDetect)))),
		TrackAccount:         getEnv("TRACK_ACCOUNT", constants.DefaultAccountName),
		DBPath:               getEnv("DB_PATH", "bossmonitor.db"),
		StatusPort:           os.Getenv("STATUS_PORT"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
	}
	if _, set := os.LookupEnv("STATUS_PORT"); !set {
		cfg.StatusPort = "9110"
	}

	if cfg.SlackWebhookURL == "" {
		return nil, fmt.Errorf("SLACK_WEBHOOK_URL is required")
	}
	if cfg.Mode != ModeDetect && cfg.Mode != ModeTrack {
		return nil, fmt.Errorf("MONITOR_MODE must be %q or %q, got %q", ModeDetect, ModeTrack, cfg.Mode)
	}

	var err error
	if cfg.TrackedAccounts, err = parseAccounts(getEnv("TRACKED_ACCOUNTS", constants.DefaultAccounts)); err != nil {
		return nil, err
	}

	durations := []struct {
		key      string
		fallback time.Duration
		dst      *time.Duration
	}{
		{"CHECK_INTERVAL", constants.CheckInterval, &cfg.CheckInterval},
		{"CLEANUP_INTERVAL", constants.CleanupInterval, &cfg.CleanupInterval},
		{"LOCATION_CHECK_INTERVAL", constants.LocationCheckInterval, &cfg.LocationInterval},
	}
	for _, d := range durations {
		if *d.dst, err = getDuration(d.key, d.fallback); err != nil {
			return nil, err
		}
	}

	ints := []struct {
		key      string
		fallback int
		dst      *int
	}{
		{"MAJOR_MIN_MINUTES", constants.MajorMinMinutes, &cfg.MajorMinMinutes},
		{"MAJOR_MAX_MINUTES", constants.MajorMaxMinutes, &cfg.MajorMaxMinutes},
		{"MINOR_RADIUS", constants.MinorRadius, &cfg.MinorRadius},
		{"NEARBY_RADIUS", constants.NearbyRadius, &cfg.NearbyRadius},
		{"ATTENTION_RADIUS", constants.AttentionRadius, &cfg.AttentionRadius},
		{"BUNKER_X", constants.BunkerX, &cfg.BunkerX},
		{"BUNKER_Y", constants.BunkerY, &cfg.BunkerY},
	}
	for _, i := range ints {
		if *i.dst, err = getInt(i.key, i.fallback); err != nil {
			return nil, err
		}
	}
	if cfg.MajorMinMinutes > cfg.MajorMaxMinutes {
		return nil, fmt.Errorf("MAJOR_MIN_MINUTES (%d) exceeds MAJOR_MAX_MINUTES (%d)", cfg.MajorMinMinutes, cfg.MajorMaxMinutes)
	}

	cfg.Location = time.Local
	if tz := os.Getenv("TIMEZONE"); tz != "" {
		if cfg.Location, err = time.LoadLocation(tz); err != nil {
			return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
		}
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	zerolog.SetGlobalLevel(level)

	logger.Info().
		Str("mode", string(cfg.Mode)).
		Str("track_account", cfg.TrackAccount).
		Str("db_path", cfg.DBPath).
		Str("status_port", cfg.StatusPort).
		Str("log_level", cfg.LogLevel).
		Str("timezone", cfg.Location.String()).
		Dur("check_interval", cfg.CheckInterval).
		Dur("cleanup_interval", cfg.CleanupInterval).
		Dur("location_interval", cfg.LocationInterval).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, d)
	}
	return d, nil
}

// parseAccounts reads "name=id,name=id".
func parseAccounts(raw string) (map[string]string, error) {
	accounts := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, id, ok := strings.Cut(pair, "=")
		name, id = strings.TrimSpace(name), strings.TrimSpace(id)
		if !ok || name == "" || id == "" {
			return nil, fmt.Errorf("invalid TRACKED_ACCOUNTS entry %q, want name=id", pair)
		}
		accounts[name] = id
	}
	return accounts, nil
}

var Module = fx.Provide(Load)
