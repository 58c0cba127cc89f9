// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

// Command api is the entry point for the Thuto HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lesedi/thuto/internal/access"
	"github.com/lesedi/thuto/internal/api"
	"github.com/lesedi/thuto/internal/platform/config"
	"github.com/lesedi/thuto/internal/platform/constants"
	"github.com/lesedi/thuto/internal/platform/mailer"
	"github.com/lesedi/thuto/internal/platform/metrics"
	"github.com/lesedi/thuto/internal/platform/middleware"
	"github.com/lesedi/thuto/internal/platform/migration"
	pgstore "github.com/lesedi/thuto/internal/platform/postgres"
	redisstore "github.com/lesedi/thuto/internal/platform/redis"
	"github.com/lesedi/thuto/internal/platform/sec"
	"github.com/lesedi/thuto/internal/school/assessment"
	"github.com/lesedi/thuto/internal/school/attendance"
	"github.com/lesedi/thuto/internal/school/calendar"
	"github.com/lesedi/thuto/internal/school/class"
	"github.com/lesedi/thuto/internal/school/enrollment"
	"github.com/lesedi/thuto/internal/school/report"
	"github.com/lesedi/thuto/internal/users/account"
	"github.com/lesedi/thuto/internal/users/activity"
	"github.com/lesedi/thuto/internal/users/admin"
	"github.com/lesedi/thuto/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "thuto"))
	slog.SetDefault(log)

	log.Info("[Thuto] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "thuto"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Platform Services ──────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	telemetry := metrics.New()

	var mail mailer.Mailer
	if cfg.SendgridAPIKey != "" {
		mail = mailer.NewSendgridMailer(cfg.SendgridAPIKey, cfg.MailFromName, cfg.MailFromAddr)
		log.Info("mailer_configured", slog.String("mode", "sendgrid"))
	} else {
		mail = mailer.NewConsoleMailer(log)
		log.Info("mailer_configured", slog.String("mode", "console"))
	}

	// ── 7. Access Control ─────────────────────────────────────────────────
	// Tokens carry identity only; roles are resolved from the profile store
	// on every gated request so administrative changes bite immediately.
	roleDirectory := auth.NewRoleDirectory(pool)
	roleResolver := access.NewResolver(roleDirectory)
	policy := middleware.NewAccessPolicy(roleResolver, telemetry)

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	profileRepository := auth.NewProfileRepository(pool)
	sessionRepository := auth.NewSessionRepository(pool)
	resetTokenRepository := auth.NewResetTokenRepository(rdb)
	verificationTokenRepository := auth.NewVerificationTokenRepository(rdb)
	authService := auth.NewService(profileRepository, sessionRepository,
		resetTokenRepository, verificationTokenRepository,
		jwtSvc, mail, telemetry, cfg.PublicBaseURL)

	accountService := account.NewService(
		account.NewAccountRepository(pool),
		account.NewSessionRepository(pool),
		log)

	activityService := activity.NewService(activity.NewPostgresRepository(pool), log)
	adminService := admin.NewService(admin.NewPostgresRepository(pool),
		profileRepository, sessionRepository, activityService, telemetry, log)

	schoolCalendar := calendar.New()
	classRepository := class.NewPostgresRepository(pool)
	classService := class.NewService(classRepository, log)

	enrollmentRepository := enrollment.NewPostgresRepository(pool)
	enrollmentService := enrollment.NewService(enrollmentRepository,
		classRepository, profileRepository, log)

	attendanceRepository := attendance.NewPostgresRepository(pool)
	attendanceService := attendance.NewService(attendanceRepository,
		classRepository, schoolCalendar, log)

	assessmentRepository := assessment.NewPostgresRepository(pool)
	assessmentService := assessment.NewService(assessmentRepository, classRepository, log)

	reportService := report.NewService(classRepository, attendanceRepository,
		assessmentRepository, enrollmentRepository, schoolCalendar, log)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Auth:       auth.NewHandler(authService),
		Account:    account.NewHandler(accountService),
		Admin:      admin.NewHandler(adminService),
		Activity:   activity.NewHandler(activityService),
		Class:      class.NewHandler(classService),
		Enrollment: enrollment.NewHandler(enrollmentService),
		Attendance: attendance.NewHandler(attendanceService),
		Assessment: assessment.NewHandler(assessmentService),
		Calendar:   calendar.NewHandler(schoolCalendar),
		Report:     report.NewHandler(reportService),
	}

	server := api.NewServer(context.Background(), cfg, log, jwtSvc, policy, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
