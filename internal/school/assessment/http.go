// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package assessment

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lesedi/thuto/internal/platform/middleware"
	requestutil "github.com/lesedi/thuto/internal/platform/request"
	"github.com/lesedi/thuto/internal/platform/respond"
	"github.com/lesedi/thuto/internal/platform/sec"
	"github.com/lesedi/thuto/internal/platform/validate"
)

type Handler struct {
	assessmentService *Service
}

func NewHandler(assessmentService *Service) *Handler {
	return &Handler{assessmentService: assessmentService}
}

// RegisterRoutes mounts the assessment routes. Browsing requires an
// authenticated session; creation and grading are reserved for educators
// and administrators.
func (handler *Handler) RegisterRoutes(router chi.Router, policy *middleware.AccessPolicy) {
	router.Group(func(authed chi.Router) {
		authed.Use(policy.RequireAuth)
		authed.Get("/", handler.listAssessments)
		authed.Get("/{id}", handler.getAssessment)
	})

	router.Group(func(graders chi.Router) {
		graders.Use(policy.RequireRole(sec.RoleEducator, sec.RoleAdmin))
		graders.Post("/", handler.createAssessment)
		graders.Patch("/{id}", handler.updateAssessment)
		graders.Delete("/{id}", handler.deleteAssessment)
		graders.Put("/{id}/grades", handler.saveGrades)
	})

	router.Group(func(staff chi.Router) {
		staff.Use(policy.RequireRole(sec.RoleEducator, sec.RoleAdmin, sec.RolePrincipal))
		staff.Get("/{id}/grades", handler.listGrades)
	})
}

func (handler *Handler) listAssessments(writer http.ResponseWriter, request *http.Request) {
	classID := request.URL.Query().Get("class_id")
	validator := validate.New().
		Required(FieldClassID, classID).
		UUID(FieldClassID, classID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	assessments, err := handler.assessmentService.ListByClass(request.Context(), classID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, assessments)
}

// assessmentEnvelope pairs an assessment with its grading rollup.
type assessmentEnvelope struct {
	Assessment *Assessment `json:"assessment"`
	Summary    *Summary    `json:"summary"`
}

func (handler *Handler) getAssessment(writer http.ResponseWriter, request *http.Request) {
	found, summary, err := handler.assessmentService.GetAssessment(request.Context(), chi.URLParam(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, assessmentEnvelope{Assessment: found, Summary: summary})
}

type createAssessmentRequest struct {
	ClassID     string `json:"class_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	TotalMarks  int    `json:"total_marks"`
	DueDate     string `json:"due_date"`
}

func (handler *Handler) createAssessment(writer http.ResponseWriter, request *http.Request) {
	var payload createAssessmentRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := validate.New().
		Required(FieldDueDate, payload.DueDate).
		Date(FieldDueDate, payload.DueDate)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}
	dueDate, err := time.Parse("2006-01-02", payload.DueDate)
	if err != nil {
		respond.Error(writer, request, validate.RequiredError(FieldDueDate, "Must be a date in YYYY-MM-DD format"))
		return
	}

	created, err := handler.assessmentService.CreateAssessment(request.Context(), CreateInput{
		ClassID:     payload.ClassID,
		Title:       payload.Title,
		Description: payload.Description,
		TotalMarks:  payload.TotalMarks,
		DueDate:     dueDate,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, created)
}

type updateAssessmentRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	TotalMarks  *int    `json:"total_marks"`
	DueDate     *string `json:"due_date"`
}

func (handler *Handler) updateAssessment(writer http.ResponseWriter, request *http.Request) {
	var payload updateAssessmentRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input := UpdateInput{
		Title:       payload.Title,
		Description: payload.Description,
		TotalMarks:  payload.TotalMarks,
	}
	if payload.DueDate != nil {
		if err := validate.New().Date(FieldDueDate, *payload.DueDate).Err(); err != nil {
			respond.Error(writer, request, err)
			return
		}
		dueDate, err := time.Parse("2006-01-02", *payload.DueDate)
		if err != nil {
			respond.Error(writer, request, validate.RequiredError(FieldDueDate, "Must be a date in YYYY-MM-DD format"))
			return
		}
		input.DueDate = &dueDate
	}

	updated, err := handler.assessmentService.UpdateAssessment(request.Context(), chi.URLParam(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

func (handler *Handler) deleteAssessment(writer http.ResponseWriter, request *http.Request) {
	if err := handler.assessmentService.DeleteAssessment(request.Context(), chi.URLParam(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

type saveGradesRequest struct {
	Grades []GradeInput `json:"grades"`
}

func (handler *Handler) saveGrades(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload saveGradesRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	grades, err := handler.assessmentService.SaveGrades(
		request.Context(), chi.URLParam(request, "id"), claims.UserID, payload.Grades)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, grades)
}

func (handler *Handler) listGrades(writer http.ResponseWriter, request *http.Request) {
	grades, err := handler.assessmentService.ListGrades(request.Context(), chi.URLParam(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, grades)
}
