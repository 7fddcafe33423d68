package main

import (
	"context"
	"fmt"

	"adsyclub/internal/caching"
	"adsyclub/internal/config"
	"adsyclub/internal/jobs"
	"adsyclub/internal/logging"
	"adsyclub/internal/repositories"
	"adsyclub/internal/services"
	"adsyclub/pkg/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/gommon/random"
	"github.com/rs/zerolog/log"
)

// app holds the wired dependencies shared by every command.
type app struct {
	cfg           *config.Config
	pool          *pgxpool.Pool
	store         *repositories.Store
	clock         clockwork.Clock
	cache         caching.CacheService
	archiver      services.ReportArchiver
	events        *services.Dispatcher
	productSync   services.ProductSyncService
	subscriptions services.SubscriptionService
	users         services.UserService
	auth          services.AuthService
	sweep         *jobs.ExpirationSweep
}

func bootstrap(ctx context.Context, component string) (*app, error) {
	logging.Init(logging.Config{Format: "auto", Level: "info", Component: component})

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logging.Init(logging.Config{Format: cfg.Log.Format, Level: cfg.Log.Level, Component: component})

	if cfg.Auth.Secret == "" {
		cfg.Auth.Secret = random.String(32)
		log.Warn().Msg("JWT_SECRET not set, using a generated secret; tokens will not survive a restart")
	}

	pool, err := database.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		pool:   pool,
		store:  repositories.NewStore(pool),
		clock:  clockwork.NewRealClock(),
		cache:  caching.NewNoopCacheService(),
		events: services.NewDispatcher(),
	}

	if cfg.Redis.Addr != "" {
		a.cache = caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	} else {
		log.Info().Msg("Redis not configured, entitlement cache disabled")
	}

	a.archiver = services.NewNoopArchiver()
	if cfg.Minio.Endpoint != "" {
		archiver, err := services.NewMinioArchiver(services.MinioOptions{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			UseSSL:    cfg.Minio.UseSSL,
			Bucket:    cfg.Minio.Bucket,
		})
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to initialize MinIO archiver: %w", err)
		}
		if err := archiver.EnsureBucketExists(ctx); err != nil {
			log.Warn().Err(err).Str("bucket", cfg.Minio.Bucket).Msg("Report bucket unavailable, sweep reports may not be archived")
		}
		a.archiver = archiver
	}

	tx := repositories.NewTransactor(pool)
	engine := services.NewLifecycleEngine(a.clock)
	a.productSync = services.NewProductSyncService(a.store, a.clock)
	a.subscriptions = services.NewSubscriptionService(a.store, tx, engine, a.productSync, a.cache, a.events)
	a.users = services.NewUserService(a.store.Users, a.events)
	a.auth = services.NewAuthService(cfg.Auth.Secret, cfg.Auth.TokenTTL, a.clock)
	a.sweep = jobs.NewExpirationSweep(a.store, tx, engine, a.productSync, a.cache, a.archiver, a.events)

	services.RegisterDefaultHandlers(a.events, a.subscriptions, a.store)
	return a, nil
}

func (a *app) Close() {
	database.ClosePool(a.pool)
}
