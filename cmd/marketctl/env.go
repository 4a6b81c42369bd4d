package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"companions/internal/adapter/repo"
	"companions/internal/identity"
	"companions/internal/infra"
)

// toolEnv holds the connections a command opened; close releases them.
type toolEnv struct {
	cfg        *infra.Config
	logger     infra.Logger
	pool       *pgxpool.Pool
	companions *repo.CompanionRepositoryPG
	billing    *repo.BillingRepositoryPG
	metadata   identity.MetadataWriter
}

func openEnv(ctx context.Context) (*toolEnv, error) {
	cfg, err := infra.LoadToolConfig()
	if err != nil {
		return nil, err
	}
	logger := infra.NewLogger(cfg.AppEnv)
	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	runner := infra.NewSQLRunner(pool, logger)
	env := &toolEnv{
		cfg:        cfg,
		logger:     logger,
		pool:       pool,
		companions: repo.NewCompanionRepository(runner),
		billing:    repo.NewBillingRepository(runner),
	}
	if cfg.ClerkSecretKey != "" {
		env.metadata = identity.NewClerkMetadataWriter(cfg.ClerkAPIURL, cfg.ClerkSecretKey, logger)
	} else {
		logger.Warn().Msg("CLERK_SECRET_KEY not set, session metadata will not be updated")
	}
	return env, nil
}

func (e *toolEnv) close() {
	e.pool.Close()
}
