/*
 * @module service/init
 * @description Service wiring: database, dataset store and snapshot service, reshape cache,
 *              dashboard, metrics, event publishers, health checks and the reload scheduler
 * @architecture Layered - service layer bootstrap
 * @documentReference DESIGN.md
 * @stateFlow config -> database + migrations -> publishers -> dataset service -> cache -> dashboard -> scheduler -> initial load
 * @rules A missing dataset at startup keeps the process up with /ready failing; optional backends degrade to in-process ones
 * @dependencies gorm.io/gorm, gorm.io/driver/postgres, gorm.io/driver/sqlite, github.com/prometheus/client_golang
 * @refs main.go, api/routes.go
 */

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"peer-funding-service/client/connectors"
	"peer-funding-service/service/cache"
	"peer-funding-service/service/config"
	"peer-funding-service/service/dashboard"
	"peer-funding-service/service/dataset"
	"peer-funding-service/service/event"
	"peer-funding-service/service/monitoring"
	"peer-funding-service/service/scheduler"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	DB                     *gorm.DB
	GlobalConfig           *config.Config
	GlobalMetrics          *monitoring.Metrics
	GlobalBroadcaster      *event.Broadcaster
	GlobalPublisher        event.Publisher
	GlobalDatasetStore     *dataset.Store
	GlobalDatasetService   *dataset.Service
	GlobalMetricsCache     cache.MetricsCache
	GlobalDashboardService *dashboard.Service
	GlobalHealthChecker    *monitoring.HealthChecker
	GlobalReloadScheduler  *scheduler.ReloadScheduler

	redisConnector *connectors.RedisConnector
)

// Init wires every service from cfg and loads the initial dataset. Metrics are registered on reg.
func Init(ctx context.Context, cfg *config.Config, reg prometheus.Registerer) error {
	GlobalConfig = cfg

	if err := initDatabase(cfg.Database); err != nil {
		return err
	}
	GlobalDatasetStore = dataset.NewStore(DB)
	GlobalDatasetStore.SetRetention(cfg.Dataset.RetainVersions)
	if err := GlobalDatasetStore.Migrate(); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}
	slog.Info("database migrations finished")

	GlobalMetrics = monitoring.NewMetrics(reg)
	initPublishers(cfg)

	GlobalDatasetService = dataset.NewService(
		dataset.NewLoader(cfg.Dataset.Encoding),
		GlobalDatasetStore,
		dataset.Sources{DistrictFile: cfg.Dataset.DistrictFile, CoverageFile: cfg.Dataset.CoverageFile},
		GlobalMetrics,
		GlobalPublisher,
	)

	GlobalMetricsCache = initCache(ctx, cfg)
	GlobalDatasetService.AddPurger(GlobalMetricsCache)
	GlobalDashboardService = dashboard.NewService(GlobalDatasetService, GlobalMetricsCache, GlobalMetrics)
	initHealthChecks()

	if err := GlobalDatasetService.Start(ctx); err != nil {
		slog.Error("initial dataset load failed, serving without data until a reload succeeds",
			"district_file", cfg.Dataset.DistrictFile,
			"coverage_file", cfg.Dataset.CoverageFile,
			"error", err)
	}

	GlobalReloadScheduler = scheduler.NewReloadScheduler(GlobalDatasetService, cfg.Dataset.ReloadCron)
	if err := GlobalReloadScheduler.Start(); err != nil {
		return err
	}

	slog.Info("services initialised")
	return nil
}

// initDatabase opens postgres when a URL is configured, sqlite otherwise.
func initDatabase(cfg config.DatabaseConfig) error {
	var dialector gorm.Dialector
	if cfg.URL != "" {
		dialector = postgres.Open(cfg.URL)
	} else {
		dialector = sqlite.Open(cfg.SQLitePath)
	}

	var err error
	DB, err = gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	if cfg.URL == "" {
		// in-memory sqlite needs a single connection to keep one database
		sqlDB, err := DB.DB()
		if err != nil {
			return err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	slog.Info("database connected", "driver", dialector.Name())
	return nil
}

// initPublishers fans dataset events out to the configured broker and SSE subscribers.
func initPublishers(cfg *config.Config) {
	GlobalBroadcaster = event.NewBroadcaster()

	external, err := event.NewPublisher(cfg)
	if err != nil {
		slog.Warn("event backend unavailable, notifications limited to /events", "backend", cfg.Event.Backend, "error", err)
		external = event.NoopPublisher{}
	}
	GlobalPublisher = event.MultiPublisher{external, GlobalBroadcaster}
}

// initCache returns the configured cache; an unreachable Redis falls back to memory.
func initCache(ctx context.Context, cfg *config.Config) cache.MetricsCache {
	if cfg.Cache.Backend != config.CacheBackendRedis {
		return cache.NewMemoryCache()
	}

	redisConnector = connectors.NewRedisConnector(connectors.RedisConfig{
		Address:  cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		Database: cfg.Redis.DB,
	})
	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := redisConnector.Connect(connectCtx); err != nil {
		slog.Warn("redis unavailable, using in-memory metrics cache", "addr", cfg.Redis.Addr(), "error", err)
		redisConnector = nil
		return cache.NewMemoryCache()
	}

	slog.Info("redis metrics cache enabled", "addr", cfg.Redis.Addr(), "ttl", cfg.Cache.TTL)
	return cache.NewRedisCache(redisConnector.Client(), cfg.Cache.TTL)
}

func initHealthChecks() {
	GlobalHealthChecker = monitoring.NewHealthChecker(5 * time.Second)
	GlobalHealthChecker.Register("dataset", true, GlobalDatasetService.Ready)
	GlobalHealthChecker.Register("database", true, func(ctx context.Context) error {
		sqlDB, err := DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
	if redisConnector != nil {
		GlobalHealthChecker.Register("redis", false, redisConnector.Ping)
	}
}

// Shutdown stops the scheduler and releases connections.
func Shutdown() {
	if GlobalReloadScheduler != nil {
		GlobalReloadScheduler.Stop()
	}
	if GlobalPublisher != nil {
		if err := GlobalPublisher.Close(); err != nil {
			slog.Warn("closing event publishers failed", "error", err)
		}
	}
	if redisConnector != nil {
		if err := redisConnector.Disconnect(); err != nil {
			slog.Warn("closing redis failed", "error", err)
		}
	}
	if DB != nil {
		if sqlDB, err := DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
	slog.Info("services stopped")
}
