// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package calendar

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lesedi/thuto/internal/platform/middleware"
	"github.com/lesedi/thuto/internal/platform/respond"
	"github.com/lesedi/thuto/internal/platform/validate"
)

type Handler struct {
	calendar *Calendar
}

func NewHandler(calendar *Calendar) *Handler {
	return &Handler{calendar: calendar}
}

// RegisterRoutes mounts the school calendar routes. The calendar is the
// same for every role, so an authenticated session is the only gate.
func (handler *Handler) RegisterRoutes(router chi.Router, policy *middleware.AccessPolicy) {
	router.Group(func(authed chi.Router) {
		authed.Use(policy.RequireAuth)
		authed.Get("/terms", handler.listTerms)
		authed.Get("/holidays", handler.listHolidays)
		authed.Get("/day", handler.describeDay)
	})
}

func (handler *Handler) listTerms(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]interface{}{
		"year":  handler.calendar.Year(),
		"terms": handler.calendar.Terms(),
	})
}

func (handler *Handler) listHolidays(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]interface{}{
		"year":     handler.calendar.Year(),
		"holidays": handler.calendar.Holidays(),
	})
}

// dayView describes one calendar date for the frontend's planner.
type dayView struct {
	Date            string `json:"date"`
	IsSchoolHoliday bool   `json:"is_school_holiday"`
	PublicHoliday   string `json:"public_holiday,omitempty"`
	CurrentTerm     *Term  `json:"current_term,omitempty"`
	NextTerm        *Term  `json:"next_term,omitempty"`
}

func (handler *Handler) describeDay(writer http.ResponseWriter, request *http.Request) {
	raw := request.URL.Query().Get("date")
	if raw == "" {
		raw = time.Now().Format("2006-01-02")
	}
	if err := validate.New().Date("date", raw).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}
	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		respond.Error(writer, request, validate.RequiredError("date", "Must be a date in YYYY-MM-DD format"))
		return
	}

	view := dayView{
		Date:            raw,
		IsSchoolHoliday: handler.calendar.IsSchoolHoliday(day),
	}
	if name, ok := handler.calendar.PublicHoliday(day); ok {
		view.PublicHoliday = name
	}
	if term, ok := handler.calendar.CurrentTerm(day); ok {
		view.CurrentTerm = &term
	}
	if term, ok := handler.calendar.NextTerm(day); ok {
		view.NextTerm = &term
	}
	respond.OK(writer, view)
}
