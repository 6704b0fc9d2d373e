package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/lifecommander/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/lifecommander/internal/adapters/handler/http"
	"github.com/comitanigiacomo/lifecommander/internal/adapters/repository"
	"github.com/comitanigiacomo/lifecommander/internal/config"
	"github.com/comitanigiacomo/lifecommander/internal/core/domain"
	"github.com/comitanigiacomo/lifecommander/internal/core/services"
	"github.com/comitanigiacomo/lifecommander/internal/core/workers"
	"github.com/comitanigiacomo/lifecommander/internal/logger"
)

// tokenTTL applies to GenerateToken; the API itself only validates tokens.
const tokenTTL = 24 * time.Hour

// @title                       LifeCommander API
// @version                     1.0
// @description                 Habits, completion entries, countdown timers and the dashboard.
// @BasePath                    /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logrus.WithError(err).Fatal("invalid logger configuration")
	}

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped with error")
	}
}

type application struct {
	router  *gin.Engine
	workers []func(ctx context.Context) error
	closers []func() error
}

func (a *application) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	for _, start := range app.workers {
		if err := start(ctx); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      app.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("LifeCommander API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info("stop signal received, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

func newApplication(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*application, error) {
	app := &application{}

	var (
		db        *sqlx.DB
		habitRepo domain.HabitRepository
		entryRepo domain.HabitEntryRepository
		timerRepo domain.TimerRepository
	)

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		log.WithField("host", cfg.DBHost).Info("connecting to database")

		var err error
		db, err = sqlx.ConnectContext(ctx, "pgx", cfg.DatabaseDSN())
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, db.Close)

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err := repository.Migrate(ctx, db); err != nil {
			app.Close()
			return nil, err
		}

		habitRepo = repository.NewPostgresHabitRepository(db)
		entryRepo = repository.NewPostgresEntryRepository(db)
		timerRepo = repository.NewPostgresTimerRepository(db)

	default:
		log.Warn("using in-memory storage, data is lost on restart")
		habitRepo = repository.NewInMemoryHabitRepository()
		entryRepo = repository.NewInMemoryEntryRepository()
		timerRepo = repository.NewInMemoryTimerRepository()
	}

	var rdb *redis.Client
	if cfg.RedisHost != "" {
		var err error
		rdb, err = cache.NewRedisClient(ctx, cache.Options{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.WithError(err).Warn("redis unavailable, running without cache and rate limiter")
		} else {
			app.closers = append(app.closers, rdb.Close)
			habitRepo = repository.NewCachedHabitRepository(habitRepo, rdb, cfg.HabitCacheTTL, log)
		}
	}

	completionWorker := workers.NewCompletionWorker(habitRepo, entryRepo, log)
	timerChecker := workers.NewTimerChecker(timerRepo, cfg.TimerCheckSpec, time.Now, log)
	app.workers = append(app.workers,
		func(ctx context.Context) error {
			completionWorker.Start(ctx)
			return nil
		},
		timerChecker.Start,
	)

	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, tokenTTL)
	habitService := services.NewHabitService(habitRepo, completionWorker)
	entryService := services.NewEntryService(entryRepo, habitRepo, completionWorker)
	timerService := services.NewTimerService(timerRepo, time.Now)
	dashboardService := services.NewDashboardService(habitRepo, timerRepo)

	app.router = adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		HabitHandler:     adapterHTTP.NewHabitHandler(habitService, log),
		EntryHandler:     adapterHTTP.NewEntryHandler(entryService, log),
		TimerHandler:     adapterHTTP.NewTimerHandler(timerService, log),
		DashboardHandler: adapterHTTP.NewDashboardHandler(dashboardService, log),
		TokenService:     tokenService,
		DB:               db,
		Redis:            rdb,
		RateLimit:        cfg.RateLimit,
		RateLimitWindow:  cfg.RateLimitWindow,
		Logger:           log,
		StartTime:        time.Now(),
	})

	return app, nil
}
