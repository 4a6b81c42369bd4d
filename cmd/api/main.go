package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"companions/internal/access"
	"companions/internal/adapter/repo"
	"companions/internal/entitlement"
	"companions/internal/http/handlers"
	"companions/internal/http/httpapi"
	"companions/internal/identity"
	"companions/internal/infra"
	"companions/internal/infra/geoip"
	"companions/internal/storage"
)

const entitlementCacheTTL = 24 * time.Hour

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()
	runner := infra.NewSQLRunner(dbpool, logger)

	companions := repo.NewCompanionRepository(runner)
	documents := repo.NewDocumentRepository(runner)
	billing := repo.NewBillingRepository(runner)

	var cache entitlement.Cache
	rdb, err := infra.NewRedis(ctx, cfg)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, purchases are read from the database")
	} else {
		defer rdb.Close()
		cache = entitlement.NewRedisCache(rdb, entitlementCacheTTL)
	}

	routes, err := access.LoadRoutes(cfg.RoutesFile)
	if err != nil {
		logger.Fatal().Err(err).Str("file", cfg.RoutesFile).Msg("failed to load route table")
	}

	verifier, err := identity.NewVerifier(ctx, identity.VerifierConfig{
		Secret:  cfg.SessionJWTSecret,
		JWKSURL: cfg.SessionJWKSURL,
		Issuer:  cfg.SessionIssuer,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure session verifier")
	}
	metadata := identity.NewClerkMetadataWriter(cfg.ClerkAPIURL, cfg.ClerkSecretKey, logger)

	store, err := storage.NewFileStore(cfg.StoragePath, cfg.StorageBaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure storage")
	}

	geo, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	defer geo.Close()

	catalog := entitlement.NewCatalog(cfg.StripePrices)
	provider := entitlement.NewStripeProvider(cfg.StripeSecretKey, catalog, logger)
	syncer := entitlement.NewSyncer(provider, billing, entitlement.NewPlanFanout(companions, metadata), cache, logger)
	checkout := entitlement.NewCheckout(provider, billing, catalog, cfg.AppBaseURL, logger)
	resolver := access.NewResolver(companions, documents, logger)

	app := handlers.NewApp(handlers.App{
		Logger:        logger,
		Companions:    companions,
		Documents:     documents,
		Reviews:       repo.NewReviewRepository(runner),
		Analytics:     repo.NewAnalyticsRepository(runner),
		Blocks:        repo.NewBlockRepository(runner),
		Billing:       billing,
		Verification:  resolver,
		Metadata:      metadata,
		Store:         store,
		Sync:          syncer,
		Checkout:      checkout,
		Catalog:       catalog,
		WebhookSecret: cfg.StripeWebhookSecret,
		Routes:        routes,
	})

	router := httpapi.NewRouter(httpapi.Deps{
		App:             app,
		Logger:          logger,
		Sessions:        verifier,
		Gate:            access.NewGate(routes),
		Profiles:        resolver,
		CORSOrigins:     cfg.CORSAllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		CountryLookup:   geo.Lookup(),
		Files:           store.Handler(),
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
