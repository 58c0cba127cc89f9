// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

// Package metrics provides Prometheus observability for the Thuto API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
//
// All methods are nil-safe so callers can run with metrics disabled.
type Metrics struct {
	// Access decisions by outcome (allow, deny_unauthenticated, ...)
	AccessDecisions *prometheus.CounterVec

	// Successful sign-ins
	Logins prometheus.Counter

	// Users created, by role
	UsersCreated *prometheus.CounterVec

	// Verification and reset emails handed to the mailer
	EmailsSent *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		AccessDecisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "thuto_access_decisions_total",
			Help: "Total access guard decisions by outcome",
		}, []string{"outcome"}),

		Logins: promauto.NewCounter(prometheus.CounterOpts{
			Name: "thuto_logins_total",
			Help: "Total successful sign-ins",
		}),

		UsersCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "thuto_users_created_total",
			Help: "Total users created, by declared role",
		}, []string{"role"}),

		EmailsSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "thuto_emails_sent_total",
			Help: "Total transactional emails handed to the mailer, by kind",
		}, []string{"kind"}),
	}
}

// AccessDecision records the outcome of one access check.
func (m *Metrics) AccessDecision(outcome string) {
	if m != nil {
		m.AccessDecisions.WithLabelValues(outcome).Inc()
	}
}

// IncrementLogins records a successful sign-in.
func (m *Metrics) IncrementLogins() {
	if m != nil {
		m.Logins.Inc()
	}
}

// IncrementUsersCreated records a newly created user.
func (m *Metrics) IncrementUsersCreated(role string) {
	if m != nil {
		m.UsersCreated.WithLabelValues(role).Inc()
	}
}

// IncrementEmailsSent records a transactional email by kind
// ("verification", "password_reset").
func (m *Metrics) IncrementEmailsSent(kind string) {
	if m != nil {
		m.EmailsSent.WithLabelValues(kind).Inc()
	}
}
