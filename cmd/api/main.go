package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/comitanigiacomo/kanso-progress-engine/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/kanso-progress-engine/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-progress-engine/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-progress-engine/internal/config"
	"github.com/comitanigiacomo/kanso-progress-engine/internal/core/services"
)

func main() {
	startTime := time.Now()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Critical: invalid configuration: %v", err)
	}

	log.Println("Connecting to database...")

	db, err := sqlx.Connect("pgx", cfg.DB.DSN())
	if err != nil {
		log.Fatalf("Critical: Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	if err := repository.Migrate(migrateCtx, db); err != nil {
		cancelMigrate()
		log.Fatalf("Critical: %v", err)
	}
	cancelMigrate()

	log.Println("Database connected successfully.")

	var rdb *redis.Client
	var analyticsCache services.AnalyticsCache
	if cfg.Redis.Enabled() {
		rdb, err = cache.NewRedisClient(context.Background(), cfg.Redis)
		if err != nil {
			log.Printf("[CACHE] Redis unavailable, running without cache and rate limiting: %v", err)
		} else {
			defer rdb.Close()
			analyticsCache = cache.NewRedisAnalyticsCache(rdb, cfg.AnalyticsCacheTTL)
			log.Printf("[CACHE] Redis connected at %s", cfg.Redis.Addr())
		}
	}

	habitRepo := repository.NewPostgresHabitRepository(db)
	progressRepo := repository.NewPostgresProgressRepository(db)
	activityRepo := repository.NewPostgresActivityRepository(db, cfg.Analytics.StreakThreshold)

	statsService := services.NewStatsService(habitRepo, progressRepo, cfg.Analytics, analyticsCache)
	progressService, err := services.NewProgressService(activityRepo, cfg.XP, cfg.Curve, cfg.Badges)
	if err != nil {
		log.Fatalf("Critical: %v", err)
	}
	tokenService := services.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Duration)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		StatsHandler:    adapterHTTP.NewStatsHandler(statsService, cfg.MaxLookbackDays),
		ProgressHandler: adapterHTTP.NewProgressHandler(progressService, cfg.MaxLevelXP),
		TokenValidator:  tokenService,
		DB:              db,
		Redis:           rdb,
		RateLimit:       cfg.RateLimit,
		RateLimitWindow: cfg.RateLimitWindow,
		StartTime:       startTime,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Kanso Progress Engine running on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}
