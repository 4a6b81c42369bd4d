package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"companions/internal/adapter/repo"
	"companions/internal/infra"
)

const minSweepInterval = 10 * time.Second

// expirer is the listing side the sweeper needs.
type expirer interface {
	DowngradeExpired(ctx context.Context, now time.Time) (int64, error)
}

type sweeper struct {
	listings expirer
	interval time.Duration
	logger   infra.Logger
	now      func() time.Time
}

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadToolConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	runner := infra.NewSQLRunner(pool, logger)

	w := &sweeper{
		listings: repo.NewCompanionRepository(runner),
		interval: sweepInterval(cfg),
		logger:   logger,
		now:      time.Now,
	}

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}

func sweepInterval(cfg *infra.Config) time.Duration {
	if cfg.SweepInterval < minSweepInterval {
		return minSweepInterval
	}
	return cfg.SweepInterval
}

// Run sweeps once immediately and then on every tick until ctx ends.
func (w *sweeper) Run(ctx context.Context) error {
	w.logger.Info().Dur("interval", w.interval).Msg("worker: started")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		w.sweep(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// sweep moves listings whose paid period has lapsed back to free. Failures
// are logged and retried on the next tick.
func (w *sweeper) sweep(ctx context.Context) {
	n, err := w.listings.DowngradeExpired(ctx, w.now())
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Error().Err(err).Msg("worker: downgrade expired plans failed")
		}
		return
	}
	if n > 0 {
		w.logger.Info().Int64("downgraded", n).Msg("worker: expired plans downgraded")
	}
}
