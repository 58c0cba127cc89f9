// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package attendance

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lesedi/thuto/internal/platform/middleware"
	requestutil "github.com/lesedi/thuto/internal/platform/request"
	"github.com/lesedi/thuto/internal/platform/respond"
	"github.com/lesedi/thuto/internal/platform/sec"
)

type Handler struct {
	attendanceService *Service
}

func NewHandler(attendanceService *Service) *Handler {
	return &Handler{attendanceService: attendanceService}
}

// RegisterRoutes mounts class-scoped attendance routes. The router is
// expected to be mounted under the classes resource.
func (handler *Handler) RegisterRoutes(router chi.Router, policy *middleware.AccessPolicy) {
	router.Group(func(staff chi.Router) {
		staff.Use(policy.RequireRole(sec.RoleEducator, sec.RoleAdmin, sec.RolePrincipal))
		staff.Get("/{id}/attendance", handler.getSheet)
		staff.Get("/{id}/attendance/range", handler.listRange)
	})

	router.Group(func(takers chi.Router) {
		takers.Use(policy.RequireRole(sec.RoleEducator, sec.RoleAdmin))
		takers.Put("/{id}/attendance", handler.takeSheet)
	})
}

type takeSheetRequest struct {
	Date    string   `json:"date"`
	Records []Record `json:"records"`
}

func (handler *Handler) takeSheet(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload takeSheetRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	sheet, err := handler.attendanceService.Take(
		request.Context(), chi.URLParam(request, "id"),
		payload.Date, claims.UserID, payload.Records)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, sheet)
}

func (handler *Handler) getSheet(writer http.ResponseWriter, request *http.Request) {
	sheet, err := handler.attendanceService.Get(
		request.Context(), chi.URLParam(request, "id"),
		request.URL.Query().Get("date"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, sheet)
}

func (handler *Handler) listRange(writer http.ResponseWriter, request *http.Request) {
	sheets, err := handler.attendanceService.ListRange(
		request.Context(), chi.URLParam(request, "id"),
		request.URL.Query().Get("from"), request.URL.Query().Get("to"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, sheets)
}
