// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lesedi/thuto/internal/platform/middleware"
	requestutil "github.com/lesedi/thuto/internal/platform/request"
	"github.com/lesedi/thuto/internal/platform/respond"
	"github.com/lesedi/thuto/internal/platform/sec"
	"github.com/lesedi/thuto/internal/platform/validate"
	"github.com/lesedi/thuto/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the administrative user-management endpoints.
//
// Principals get read access for oversight; every mutation is admin only.
func (handler *Handler) RegisterRoutes(router chi.Router, policy *middleware.AccessPolicy) {
	router.Group(func(staffRoute chi.Router) {
		staffRoute.Use(policy.RequireRole(sec.RoleAdmin, sec.RolePrincipal))

		staffRoute.Get("/", handler.listUsers)
		staffRoute.Get("/{id}", handler.getUser)
	})

	router.Group(func(adminRoute chi.Router) {
		adminRoute.Use(policy.RequireRole(sec.RoleAdmin))

		adminRoute.Post("/", handler.createUser)
		adminRoute.Patch("/{id}", handler.updateUser)
		adminRoute.Delete("/{id}", handler.deleteUser)
	})
}

func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	filter := Filter{
		Role:   sec.Role(request.URL.Query().Get("role")),
		Status: sec.Status(request.URL.Query().Get("status")),
		Query:  request.URL.Query().Get("q"),
	}

	v := &validate.Validator{}
	if filter.Role != "" {
		v.Custom(FieldRole, !filter.Role.Valid(), "Unknown role")
	}
	if filter.Status != "" {
		v.Custom(FieldStatus, !filter.Status.Valid(), "Unknown status")
	}
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profiles, total, err := handler.service.ListUsers(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, profiles, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.ID(request, "id")

	profile, err := handler.service.GetUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, profile)
}

type createUserRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (handler *Handler) createUser(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required("full_name", input.FullName).
		MinLen("full_name", input.FullName, 2).
		Required("email", input.Email).
		Email("email", input.Email).
		Required("password", input.Password).
		MinLen("password", input.Password, 8).
		Required(FieldRole, input.Role).
		Custom(FieldRole, !sec.Role(input.Role).Valid(), "Unknown role")

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.service.CreateUser(request.Context(), actorID, CreateUserInput{
		FullName: input.FullName,
		Email:    input.Email,
		Password: input.Password,
		Role:     sec.Role(input.Role),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, profile)
}

type updateUserRequest struct {
	Role   *string `json:"role"`
	Status *string `json:"status"`
}

func (handler *Handler) updateUser(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	userID := requestutil.ID(request, "id")

	var input updateUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	if input.Role != nil {
		v.Custom(FieldRole, !sec.Role(*input.Role).Valid(), "Unknown role")
	}
	if input.Status != nil {
		v.Custom(FieldStatus, !sec.Status(*input.Status).Valid(), "Unknown status")
	}
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	update := UpdateUserInput{}
	if input.Role != nil {
		role := sec.Role(*input.Role)
		update.Role = &role
	}
	if input.Status != nil {
		status := sec.Status(*input.Status)
		update.Status = &status
	}

	profile, err := handler.service.UpdateUser(request.Context(), actorID, userID, update)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	userID := requestutil.ID(request, "id")

	if err := handler.service.DeleteUser(request.Context(), actorID, userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
