package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/classgrid-backend/internal/config"
	"github.com/stemsi/classgrid-backend/internal/database"
	"github.com/stemsi/classgrid-backend/internal/handler"
	"github.com/stemsi/classgrid-backend/internal/logger"
	"github.com/stemsi/classgrid-backend/internal/model"
	"github.com/stemsi/classgrid-backend/internal/notify"
	"github.com/stemsi/classgrid-backend/internal/repository"
	"github.com/stemsi/classgrid-backend/internal/router"
	"github.com/stemsi/classgrid-backend/internal/service"
	"github.com/stemsi/classgrid-backend/internal/validator"
	"github.com/stemsi/classgrid-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("storage", cfg.StorageDriver).
		Str("auth", cfg.AuthDriver).
		Msg("Starting ClassGrid Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	// Needed for postgres storage and for local admin accounts.
	var pool *pgxpool.Pool
	if cfg.StorageDriver == config.StoragePostgres || cfg.AuthDriver == config.AuthLocal {
		p, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer p.Close()
		pool = p
	}

	// ─── Connect to Redis ──────────────────────────────────────────────
	// Sessions and notifications leave the process unless everything runs in memory.
	var rdb *redis.Client
	if cfg.StorageDriver != config.StorageMemory {
		r, err := database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer r.Close()
		rdb = r
	}

	// ─── Open the Catalog ──────────────────────────────────────────────
	var persisters service.CatalogPersisters
	switch cfg.StorageDriver {
	case config.StorageMemory:
		persisters = service.MemoryPersisters()
	case config.StoragePostgres:
		persisters = service.PostgresPersisters(pool)
	case config.StorageRedis:
		persisters = service.RedisPersisters(rdb)
	default:
		log.Fatal().Str("driver", cfg.StorageDriver).Msg("Unknown STORAGE_DRIVER")
	}
	catalog, err := service.OpenCatalog(ctx, persisters)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load catalog")
	}
	if cfg.SeedMockData {
		seeded, err := service.SeedDemo(ctx, catalog)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to seed demo data")
		}
		if seeded {
			log.Info().Msg("Demo school seeded")
		}
	}
	counts := catalog.Counts()
	log.Info().
		Int("teachers", counts.Teachers).
		Int("subjects", counts.Subjects).
		Int("sections", counts.Sections).
		Int("classes", counts.Classes).
		Msg("Catalog loaded")

	// ─── Notifications ─────────────────────────────────────────────────
	sink := notify.Fanout{notify.NewLogSink(log)}
	var subscriber notify.Subscriber
	if rdb != nil {
		sink = append(sink, notify.NewRedisSink(rdb, log))
		subscriber = notify.NewRedisSubscriber(rdb, log)
	} else {
		hub := notify.NewHub(32)
		sink = append(sink, hub)
		subscriber = hub
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	var settingRepo repository.SettingRepository = repository.NewMemorySettingRepository()
	var activity service.ActivitySource
	if pool != nil {
		settingRepo = repository.NewPostgresSettingRepository(pool)
	}
	var notificationRepo *repository.NotificationRepository
	if pool != nil && rdb != nil {
		notificationRepo = repository.NewNotificationRepository(pool)
		activity = notificationRepo
	}

	// ─── Initialize Services ──────────────────────────────────────────
	var sessions service.SessionStore = service.NewMemorySessionStore()
	if rdb != nil {
		sessions = service.NewRedisSessionStore(rdb)
	}

	var authenticator service.Authenticator
	switch cfg.AuthDriver {
	case config.AuthLocal:
		authenticator = service.NewLocalAuthenticator(repository.NewAdminRepository(pool))
	case config.AuthLegacy:
		if cfg.LegacyAuthURL == "" {
			log.Fatal().Msg("LEGACY_AUTH_URL is required for AUTH_DRIVER=legacy")
		}
		authenticator = service.NewLegacyFormAuthenticator(cfg.LegacyAuthURL, cfg.LegacyAuthTimeout, model.RoleName(cfg.LegacyAuthRole))
	default:
		log.Fatal().Str("driver", cfg.AuthDriver).Msg("Unknown AUTH_DRIVER")
	}

	authService := service.NewAuthService(authenticator, sessions, cfg.JWTSecret, cfg.JWTExpiry, sink, log)
	settingService := service.NewSettingService(settingRepo, sink, log)
	teacherService := service.NewTeacherService(catalog, sink, log)
	subjectService := service.NewSubjectService(catalog, sink, log)
	sectionService := service.NewSectionService(catalog, sink, log)
	scheduleService := service.NewScheduleService(catalog, sink, log)
	exportService := service.NewExportService(scheduleService, sectionService, cfg.ExportDir, log)
	dashboardService := service.NewDashboardService(catalog, settingService, activity, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Teacher:   handler.NewTeacherHandler(teacherService),
		Subject:   handler.NewSubjectHandler(subjectService),
		Section:   handler.NewSectionHandler(sectionService),
		Schedule:  handler.NewScheduleHandler(scheduleService, exportService),
		Setting:   handler.NewSettingHandler(settingService),
		WS:        handler.NewWSHandler(subscriber, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	if notificationRepo != nil {
		notificationWorker := worker.NewNotificationWorker(rdb, notificationRepo, log)
		workers.Go(func() { notificationWorker.Start(workerCtx) })
	}

	if cfg.ExportCron != "" {
		exportScheduler, err := worker.NewExportScheduler(cfg.ExportCron, exportService, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid EXPORT_CRON")
		}
		workers.Go(func() { exportScheduler.Start(workerCtx) })
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, authService, handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for queues to drain.
	workerCancel()
	workers.Wait()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
