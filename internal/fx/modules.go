package fx

import (
	"context"
	"df-boss-monitor/internal/api"
	"df-boss-monitor/internal/config"
	"df-boss-monitor/internal/constants"
	"df-boss-monitor/internal/database"
	"df-boss-monitor/internal/domain"
	"df-boss-monitor/internal/logger"
	"df-boss-monitor/internal/metrics"
	"df-boss-monitor/internal/notify"
	"df-boss-monitor/internal/report"
	"df-boss-monitor/internal/repository"
	"df-boss-monitor/internal/scheduler"
	"df-boss-monitor/internal/server"
	"df-boss-monitor/internal/service"
	"df-boss-monitor/internal/spawn"
	"df-boss-monitor/internal/tracker"
	"fmt"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func ProvideRules(cfg *config.Config) spawn.Rules {
	return spawn.Rules{
		MajorMinMinutes: float64(cfg.MajorMinMinutes),
		MajorMaxMinutes: float64(cfg.MajorMaxMinutes),
		MinorRadius:     cfg.MinorRadius,
		Bunker:          domain.Point{X: cfg.BunkerX, Y: cfg.BunkerY},
	}
}

func ProvideFormatter(cfg *config.Config) *report.Formatter {
	return report.NewFormatter(domain.Point{X: cfg.BunkerX, Y: cfg.BunkerY}, cfg.AttentionRadius, cfg.NearbyRadius, cfg.Location)
}

// ProvideAccount seeds the account directory and resolves the tracked account.
func ProvideAccount(cfg *config.Config, repo *repository.AccountRepository, log zerolog.Logger) (domain.Account, error) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.DatabaseTimeout)
	defer cancel()

	if err := repo.Seed(ctx, cfg.TrackedAccounts); err != nil {
		return domain.Account{}, err
	}
	known, err := repo.List(ctx)
	if err != nil {
		return domain.Account{}, err
	}
	names := make([]string, 0, len(known))
	for _, a := range known {
		names = append(names, a.Name)
	}
	log.Info().Strs("accounts", names).Msg("account directory loaded")

	account, err := repo.GetByName(ctx, cfg.TrackAccount)
	if err != nil {
		if cfg.Mode == config.ModeTrack {
			return domain.Account{}, fmt.Errorf("tracking account: %w", err)
		}
		log.Warn().Err(err).Str("account", cfg.TrackAccount).Msg("tracked account unknown, tracking disabled")
		return domain.Account{Name: cfg.TrackAccount}, nil
	}
	log.Info().Str("account", account.Name).Str("profile_id", account.ProfileID).Msg("account selected")
	return *account, nil
}

// ProvideRunner builds the job list for the configured mode.
func ProvideRunner(cfg *config.Config, monitor *service.Monitor, log zerolog.Logger) *scheduler.Runner {
	log = logger.Named(log, "scheduler")
	if cfg.Mode == config.ModeTrack {
		return scheduler.NewRunner(log,
			scheduler.Task{Name: "track", Every: cfg.LocationInterval, RunFirst: true, Job: func(ctx context.Context) { monitor.RunTrackingCycle(ctx) }},
		)
	}
	return scheduler.NewRunner(log,
		scheduler.Task{Name: "detect", Every: cfg.CheckInterval, RunFirst: true, Job: func(ctx context.Context) { monitor.RunDetectionCycle(ctx) }},
		scheduler.Task{Name: "sweep", Every: cfg.CleanupInterval, Job: func(ctx context.Context) { monitor.SweepExpired(ctx) }},
	)
}

func ProvideStatusServer(cfg *config.Config, t *tracker.Tracker, m *metrics.Metrics, log zerolog.Logger) *server.StatusServer {
	return server.NewStatusServer(t, m, string(cfg.Mode), logger.Named(log, "status"))
}

func ProvideClassifier(rules spawn.Rules, log zerolog.Logger) *spawn.Classifier {
	log = logger.Named(log, "classifier")
	log.Info().
		Float64("major_min_minutes", rules.MajorMinMinutes).
		Float64("major_max_minutes", rules.MajorMaxMinutes).
		Int("minor_radius", rules.MinorRadius).
		Stringer("bunker", rules.Bunker).
		Msg("classification rules loaded")
	return spawn.NewClassifier(rules, log)
}

func ProvideTracker(log zerolog.Logger) *tracker.Tracker {
	return tracker.New(logger.Named(log, "tracker"))
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	fx.Provide(metrics.New),
	// repos
	fx.Provide(repository.NewAccountRepository),
	fx.Provide(ProvideAccount),
	// external collaborators
	fx.Provide(fx.Annotate(api.NewClient, fx.As(new(service.SpawnSource)), fx.As(new(service.LocationSource)))),
	fx.Provide(fx.Annotate(notify.NewSlack, fx.As(new(service.Notifier)))),
	// core
	fx.Provide(ProvideRules),
	fx.Provide(ProvideClassifier),
	fx.Provide(ProvideTracker),
	fx.Provide(ProvideFormatter),
	fx.Provide(service.NewMonitor),
	// drivers
	fx.Provide(ProvideRunner),
	fx.Provide(ProvideStatusServer),
)
