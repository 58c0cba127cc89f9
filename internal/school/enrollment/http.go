// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package enrollment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lesedi/thuto/internal/platform/apperr"
	"github.com/lesedi/thuto/internal/platform/middleware"
	requestutil "github.com/lesedi/thuto/internal/platform/request"
	"github.com/lesedi/thuto/internal/platform/respond"
	"github.com/lesedi/thuto/internal/platform/sec"
	"github.com/lesedi/thuto/internal/platform/validate"
)

// maxRosterUploadBytes caps the size of a bulk enrollment CSV upload.
const maxRosterUploadBytes = 5 << 20

type Handler struct {
	enrollmentService *Service
}

func NewHandler(enrollmentService *Service) *Handler {
	return &Handler{enrollmentService: enrollmentService}
}

// RegisterRoutes mounts class-scoped enrollment routes. The router is
// expected to be mounted under the classes resource.
func (handler *Handler) RegisterRoutes(router chi.Router, policy *middleware.AccessPolicy) {
	router.Group(func(staff chi.Router) {
		staff.Use(policy.RequireRole(sec.RoleEducator, sec.RoleAdmin, sec.RolePrincipal))
		staff.Get("/{id}/roster", handler.roster)
	})

	router.Group(func(managers chi.Router) {
		managers.Use(policy.RequireRole(sec.RoleEducator, sec.RoleAdmin))
		managers.Post("/{id}/enrollments", handler.enroll)
		managers.Post("/{id}/enrollments/bulk", handler.bulkEnroll)
		managers.Delete("/{id}/enrollments/{learnerID}", handler.withdraw)
	})
}

// ListOwn serves the calling learner's active memberships. Mounted on its
// own authenticated path rather than the classes resource.
func (handler *Handler) ListOwn(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	memberships, err := handler.enrollmentService.ListForLearner(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, memberships)
}

func (handler *Handler) roster(writer http.ResponseWriter, request *http.Request) {
	roster, err := handler.enrollmentService.Roster(request.Context(), chi.URLParam(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, roster)
}

type enrollRequest struct {
	LearnerID string `json:"learner_id"`
}

func (handler *Handler) enroll(writer http.ResponseWriter, request *http.Request) {
	var payload enrollRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := validate.New().
		Required(FieldLearnerID, payload.LearnerID).
		UUID(FieldLearnerID, payload.LearnerID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	membership, err := handler.enrollmentService.Enroll(
		request.Context(), chi.URLParam(request, "id"), payload.LearnerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, membership)
}

func (handler *Handler) bulkEnroll(writer http.ResponseWriter, request *http.Request) {
	request.Body = http.MaxBytesReader(writer, request.Body, maxRosterUploadBytes)
	if err := request.ParseMultipartForm(maxRosterUploadBytes); err != nil {
		respond.Error(writer, request, apperr.ValidationError("Upload must be a multipart form with a file field"))
		return
	}

	file, _, err := request.FormFile("file")
	if err != nil {
		respond.Error(writer, request, apperr.ValidationError("Upload must include a CSV file in the file field"))
		return
	}
	defer file.Close()

	result, err := handler.enrollmentService.BulkEnroll(
		request.Context(), chi.URLParam(request, "id"), file)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

func (handler *Handler) withdraw(writer http.ResponseWriter, request *http.Request) {
	err := handler.enrollmentService.Withdraw(
		request.Context(), chi.URLParam(request, "id"), chi.URLParam(request, "learnerID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
