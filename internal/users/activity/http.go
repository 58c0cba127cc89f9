// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package activity

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lesedi/thuto/internal/platform/middleware"
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

// RegisterRoutes mounts the audit-log endpoints. Admin only.
func (handler *Handler) RegisterRoutes(router chi.Router, policy *middleware.AccessPolicy) {
	router.With(policy.RequireRole(sec.RoleAdmin)).Get("/", handler.listActivity)
}

func (handler *Handler) listActivity(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	filter := Filter{
		ActorID: request.URL.Query().Get("actor_id"),
		Action:  request.URL.Query().Get("action"),
	}

	entries, total, err := handler.service.List(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, entries, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}
