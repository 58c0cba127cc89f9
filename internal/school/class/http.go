// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package class

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lesedi/thuto/internal/platform/middleware"
	requestutil "github.com/lesedi/thuto/internal/platform/request"
	"github.com/lesedi/thuto/internal/platform/respond"
	"github.com/lesedi/thuto/internal/platform/sec"
	"github.com/lesedi/thuto/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the class-catalogue endpoints.
//
// Browsing needs only an authenticated session; catalogue mutations are
// admin only.
func (handler *Handler) RegisterRoutes(router chi.Router, policy *middleware.AccessPolicy) {
	router.Group(func(authedRoute chi.Router) {
		authedRoute.Use(policy.RequireAuth)

		authedRoute.Get("/", handler.listClasses)
		authedRoute.Get("/{id}", handler.getClass)
	})

	router.Group(func(adminRoute chi.Router) {
		adminRoute.Use(policy.RequireRole(sec.RoleAdmin))

		adminRoute.Post("/", handler.createClass)
		adminRoute.Patch("/{id}", handler.updateClass)
		adminRoute.Delete("/{id}", handler.deleteClass)
	})
}

func (handler *Handler) listClasses(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	gradeLevel, _ := strconv.Atoi(request.URL.Query().Get("grade_level"))
	filter := Filter{
		EducatorID: request.URL.Query().Get("educator_id"),
		Subject:    request.URL.Query().Get("subject"),
		GradeLevel: gradeLevel,
		Query:      request.URL.Query().Get("q"),
	}

	classes, total, err := handler.service.ListClasses(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, classes, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getClass(writer http.ResponseWriter, request *http.Request) {
	identifier := requestutil.ID(request, "id")

	class, err := handler.service.GetClass(request.Context(), identifier)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, class)
}

func (handler *Handler) createClass(writer http.ResponseWriter, request *http.Request) {
	var input Class
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.CreateClass(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, input)
}

func (handler *Handler) updateClass(writer http.ResponseWriter, request *http.Request) {
	classID := requestutil.ID(request, "id")

	var input Class
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	class, err := handler.service.UpdateClass(request.Context(), classID, &input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, class)
}

func (handler *Handler) deleteClass(writer http.ResponseWriter, request *http.Request) {
	classID := requestutil.ID(request, "id")

	if err := handler.service.DeleteClass(request.Context(), classID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
