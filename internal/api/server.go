// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lesedi/thuto/internal/platform/config"
	"github.com/lesedi/thuto/internal/platform/constants"
	"github.com/lesedi/thuto/internal/platform/middleware"
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

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required
// beyond its mount line.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles registration, login, and token lifecycle.
	Auth *auth.Handler

	// Account handles the signed-in user's own profile and devices.
	Account *account.Handler

	// Admin handles user administration (roles, statuses, removal).
	Admin *admin.Handler

	// Activity exposes the administrative audit trail.
	Activity *activity.Handler

	// Class handles the class catalogue.
	Class *class.Handler

	// Enrollment handles class membership and roster uploads.
	Enrollment *enrollment.Handler

	// Attendance handles daily attendance registers.
	Attendance *attendance.Handler

	// Assessment handles assessments and grading.
	Assessment *assessment.Handler

	// Calendar serves the school term and holiday calendar.
	Calendar *calendar.Handler

	// Report builds oversight reports for leadership.
	Report *report.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, policy *middleware.AccessPolicy, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration, plus the
	// Prometheus scrape target.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes(policy))
		api.With(policy.RequireAuth).Mount("/account", h.Account.Routes())
		api.With(policy.RequireAuth).Get("/enrollments/me", h.Enrollment.ListOwn)

		api.Route("/users", func(users chi.Router) {
			h.Admin.RegisterRoutes(users, policy)
		})
		api.Route("/activity", func(audit chi.Router) {
			h.Activity.RegisterRoutes(audit, policy)
		})

		// The classes subtree is shared: the catalogue, membership, and
		// attendance packages each register their slice of it.
		api.Route("/classes", func(classes chi.Router) {
			h.Class.RegisterRoutes(classes, policy)
			h.Enrollment.RegisterRoutes(classes, policy)
			h.Attendance.RegisterRoutes(classes, policy)
		})

		api.Route("/assessments", func(assessments chi.Router) {
			h.Assessment.RegisterRoutes(assessments, policy)
		})
		api.Route("/calendar", func(schoolCalendar chi.Router) {
			h.Calendar.RegisterRoutes(schoolCalendar, policy)
		})
		api.Route("/reports", func(reports chi.Router) {
			h.Report.RegisterRoutes(reports, policy)
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
