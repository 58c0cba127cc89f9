// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package report

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lesedi/thuto/internal/platform/middleware"
	"github.com/lesedi/thuto/internal/platform/respond"
	"github.com/lesedi/thuto/internal/platform/sec"
)

type Handler struct {
	reportService *Service
}

func NewHandler(reportService *Service) *Handler {
	return &Handler{reportService: reportService}
}

// RegisterRoutes mounts the reporting routes. Reports expose school-wide
// performance data, so they are reserved for administrators and
// principals.
func (handler *Handler) RegisterRoutes(router chi.Router, policy *middleware.AccessPolicy) {
	router.Group(func(oversight chi.Router) {
		oversight.Use(policy.RequireRole(sec.RoleAdmin, sec.RolePrincipal))
		oversight.Get("/classes/{classID}", handler.classReport)
		oversight.Get("/classes/{classID}/attendance.csv", handler.exportAttendance)
	})
}

func (handler *Handler) classReport(writer http.ResponseWriter, request *http.Request) {
	classID := chi.URLParam(request, "classID")
	query := request.URL.Query()

	var (
		built *ClassReport
		err   error
	)
	if term := query.Get("term"); term != "" {
		built, err = handler.reportService.TermReport(request.Context(), classID, term)
	} else {
		built, err = handler.reportService.ClassReport(request.Context(), classID,
			query.Get("from"), query.Get("to"))
	}
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, built)
}

func (handler *Handler) exportAttendance(writer http.ResponseWriter, request *http.Request) {
	classID := chi.URLParam(request, "classID")
	query := request.URL.Query()
	from, to := query.Get("from"), query.Get("to")

	// Build the export in memory first so a failure can still produce a
	// clean JSON error response. Registers are small.
	var buffer bytes.Buffer
	err := handler.reportService.ExportAttendanceCSV(request.Context(), classID, from, to, &buffer)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	writer.Header().Set("Content-Type", "text/csv; charset=utf-8")
	writer.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "attendance-"+from+"-"+to+".csv"))
	writer.WriteHeader(http.StatusOK)
	_, _ = buffer.WriteTo(writer)
}
