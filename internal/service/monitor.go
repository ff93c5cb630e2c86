package service

import (
	"context"
	"df-boss-monitor/internal/config"
	"df-boss-monitor/internal/constants"
	"df-boss-monitor/internal/domain"
	"df-boss-monitor/internal/metrics"
	"df-boss-monitor/internal/middleware"
	"df-boss-monitor/internal/report"
	"df-boss-monitor/internal/spawn"
	"df-boss-monitor/internal/tracker"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type SpawnSource interface {
	FetchSnapshot(ctx context.Context) ([]domain.SpawnRecord, error)
}

type LocationSource interface {
	FetchPlayerLocation(ctx context.Context, account domain.Account) (*domain.PlayerLocation, error)
}

type Notifier interface {
	Send(ctx context.Context, channel, text string) error
}

const (
	modeDetect = "detect"
	modeTrack  = "track"
)

// CycleResult describes what one cycle did. Message is empty when nothing was sent.
type CycleResult struct {
	NewMajors []domain.Spawn
	NewMinors []domain.Spawn
	Message   string
	Delivered bool
}

// Monitor drives detection and tracking cycles. It owns the dedup tracker; the
// scheduler guarantees only one cycle runs at a time.
type Monitor struct {
	spawns     SpawnSource
	locations  LocationSource
	notifier   Notifier
	classifier *spawn.Classifier
	tracker    *tracker.Tracker
	formatter  *report.Formatter
	metrics    *metrics.Metrics
	account    domain.Account

	detectChannel string
	trackChannel  string
	nearbyRadius  int

	logger zerolog.Logger
	now    func() time.Time
}

func NewMonitor(
	cfg *config.Config,
	spawns SpawnSource,
	locations LocationSource,
	notifier Notifier,
	classifier *spawn.Classifier,
	tracker *tracker.Tracker,
	formatter *report.Formatter,
	account domain.Account,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Monitor {
	return &Monitor{
		spawns:        spawns,
		locations:     locations,
		notifier:      notifier,
		classifier:    classifier,
		tracker:       tracker,
		formatter:     formatter,
		metrics:       m,
		account:       account,
		detectChannel: cfg.SlackChannel,
		trackChannel:  cfg.LocationTrackChannel,
		nearbyRadius:  cfg.NearbyRadius,
		logger:        logger,
		now:           time.Now,
	}
}

func (m *Monitor) log(ctx context.Context) zerolog.Logger {
	if id := middleware.GetCycleID(ctx); id != "" {
		return m.logger.With().Str("cycle_id", id).Logger()
	}
	return m.logger
}

// RunDetectionCycle fetches the boss map, announces spawns not seen before and
// remembers them. A failed fetch leaves the tracker untouched.
func (m *Monitor) RunDetectionCycle(ctx context.Context) CycleResult {
	ctx, cancel := context.WithTimeout(ctx, constants.CycleTimeout)
	defer cancel()

	log := m.log(ctx)
	start := time.Now()
	defer func() { m.metrics.CycleDuration.WithLabelValues(modeDetect).Observe(time.Since(start).Seconds()) }()

	log.Info().Msg("checking boss map")

	records, err := m.spawns.FetchSnapshot(ctx)
	if err != nil {
		log.Error().Err(err).Msg("no boss data this cycle")
		m.metrics.Cycles.WithLabelValues(modeDetect, "fetch_error").Inc()
		return CycleResult{}
	}

	majors, minors := m.classifier.Classify(records, m.now())
	if len(majors) == 0 && len(minors) == 0 {
		log.Info().Int("records", len(records)).Msg("no qualifying bosses found")
		m.metrics.Cycles.WithLabelValues(modeDetect, "empty").Inc()
		return CycleResult{}
	}
	log.Info().Int("majors", len(majors)).Int("minors", len(minors)).Msg("bosses classified")

	result := CycleResult{
		NewMajors: m.tracker.MarkNew(domain.CategoryMajor, majors),
		NewMinors: m.tracker.MarkNew(domain.CategoryMinor, minors),
	}
	m.recordTracked()

	if len(result.NewMajors) == 0 && len(result.NewMinors) == 0 {
		log.Info().Msg("no new bosses")
		m.metrics.Cycles.WithLabelValues(modeDetect, "no_change").Inc()
		return result
	}

	m.metrics.Announced.WithLabelValues(string(domain.CategoryMajor)).Add(float64(len(result.NewMajors)))
	m.metrics.Announced.WithLabelValues(string(domain.CategoryMinor)).Add(float64(len(result.NewMinors)))

	result.Message = m.formatter.FormatDetection(result.NewMajors, result.NewMinors)
	result.Delivered = m.deliver(ctx, log, m.detectChannel, result.Message)

	log.Info().
		Int("new_majors", len(result.NewMajors)).
		Int("new_minors", len(result.NewMinors)).
		Bool("delivered", result.Delivered).
		Msg("detection cycle finished")
	m.metrics.Cycles.WithLabelValues(modeDetect, "announced").Inc()
	return result
}

// RunTrackingCycle reports the spawns around the tracked account's player.
func (m *Monitor) RunTrackingCycle(ctx context.Context) CycleResult {
	ctx, cancel := context.WithTimeout(ctx, constants.CycleTimeout)
	defer cancel()

	log := m.log(ctx).With().Str("account", m.account.Name).Logger()
	start := time.Now()
	defer func() { m.metrics.CycleDuration.WithLabelValues(modeTrack).Observe(time.Since(start).Seconds()) }()

	log.Info().Msg("tracking player location")

	var (
		player  *domain.PlayerLocation
		records []domain.SpawnRecord
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if player, err = m.locations.FetchPlayerLocation(gCtx, m.account); err != nil {
			return fmt.Errorf("player location unavailable: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if records, err = m.spawns.FetchSnapshot(gCtx); err != nil {
			return fmt.Errorf("boss map unavailable: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("skipping tracking cycle")
		m.metrics.Cycles.WithLabelValues(modeTrack, "fetch_error").Inc()
		return CycleResult{}
	}

	now := m.now()
	majors, _ := m.classifier.Classify(records, now)
	nearby := m.classifier.FindNearby(records, player.Location, m.nearbyRadius, now)

	result := CycleResult{Message: m.formatter.FormatTracking(*player, majors, nearby)}
	result.Delivered = m.deliver(ctx, log, m.trackChannel, result.Message)

	log.Info().
		Stringer("location", player.Location).
		Int("nearby", len(nearby)).
		Int("majors", len(majors)).
		Bool("delivered", result.Delivered).
		Msg("tracking cycle finished")
	m.metrics.Cycles.WithLabelValues(modeTrack, "reported").Inc()
	return result
}

// SweepExpired forgets announced spawns whose end time has passed.
func (m *Monitor) SweepExpired(ctx context.Context) int {
	log := m.log(ctx)

	removed := m.tracker.SweepExpired(m.now())
	m.metrics.Swept.Add(float64(removed))
	m.recordTracked()

	log.Info().
		Int("removed", removed).
		Int("majors_left", m.tracker.Len(domain.CategoryMajor)).
		Int("minors_left", m.tracker.Len(domain.CategoryMinor)).
		Msg("expired spawns swept")
	return removed
}

func (m *Monitor) deliver(ctx context.Context, log zerolog.Logger, channel, text string) bool {
	if err := m.notifier.Send(ctx, channel, text); err != nil {
		log.Error().Err(err).Str("channel", channel).Msg("failed to send notification")
		m.metrics.Notifications.WithLabelValues(channel, "error").Inc()
		return false
	}
	m.metrics.Notifications.WithLabelValues(channel, "sent").Inc()
	return true
}

func (m *Monitor) recordTracked() {
	m.metrics.Tracked.WithLabelValues(string(domain.CategoryMajor)).Set(float64(m.tracker.Len(domain.CategoryMajor)))
	m.metrics.Tracked.WithLabelValues(string(domain.CategoryMinor)).Set(float64(m.tracker.Len(domain.CategoryMinor)))
}
