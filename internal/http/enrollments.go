package http

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-lms/internal/domain"
	"github.com/goliatone/go-lms/internal/enrollment"
)

type enrollPayload struct {
	StudentID uuid.UUID  `json:"student_id"`
	CourseID  uuid.UUID  `json:"course_id"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type gradePayload struct {
	Grade float64 `json:"grade"`
}

func (api *AdminAPI) registerEnrollmentRoutes(mux *http.ServeMux, base string) {
	if mux == nil {
		return
	}
	root := joinPath(base, "enrollments")
	mux.HandleFunc("POST "+root, api.handleEnroll)
	mux.HandleFunc("GET "+root+"/{id}", api.handleEnrollmentGet)
	mux.HandleFunc("POST "+root+"/{id}/drop", api.enrollmentTransition(func(svc enrollment.Service) transitionFunc {
		return svc.Drop
	}))
	mux.HandleFunc("POST "+root+"/{id}/suspend", api.enrollmentTransition(func(svc enrollment.Service) transitionFunc {
		return svc.Suspend
	}))
	mux.HandleFunc("POST "+root+"/{id}/resume", api.enrollmentTransition(func(svc enrollment.Service) transitionFunc {
		return svc.Resume
	}))
	mux.HandleFunc("POST "+root+"/{id}/complete", api.enrollmentTransition(func(svc enrollment.Service) transitionFunc {
		return svc.Complete
	}))
	mux.HandleFunc("POST "+root+"/{id}/grade", api.handleEnrollmentGrade)

	mux.HandleFunc("GET "+joinPath(base, "courses")+"/{id}/enrollments", api.handleEnrollmentListByCourse)
	mux.HandleFunc("GET "+joinPath(base, "students")+"/{id}/enrollments", api.handleEnrollmentListByStudent)
}

func (api *AdminAPI) handleEnroll(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.enrollments == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	var payload enrollPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	record, err := api.enrollments.Enroll(r.Context(), enrollment.EnrollInput{
		StudentID: payload.StudentID,
		CourseID:  payload.CourseID,
		ExpiresAt: payload.ExpiresAt,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (api *AdminAPI) handleEnrollmentGet(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.enrollments == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	record, err := api.enrollments.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

type transitionFunc func(ctx context.Context, id uuid.UUID) (*enrollment.Enrollment, error)

func (api *AdminAPI) enrollmentTransition(pick func(enrollment.Service) transitionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if api == nil || api.enrollments == nil {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
			return
		}
		id, err := parseUUID(r.PathValue("id"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
			return
		}
		record, err := pick(api.enrollments)(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, record)
	}
}

func (api *AdminAPI) handleEnrollmentGrade(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.enrollments == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	var payload gradePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	record, err := api.enrollments.SetFinalGrade(r.Context(), id, payload.Grade)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *AdminAPI) handleEnrollmentListByCourse(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.enrollments == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	opts := enrollment.ListOptions{
		Status: domain.EnrollmentStatus(r.URL.Query().Get("status")),
		Limit:  parseIntQuery(r.URL.Query().Get("limit"), 0),
		Offset: parseIntQuery(r.URL.Query().Get("offset"), 0),
	}
	list, total, err := api.enrollments.ListByCourse(r.Context(), id, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: list, Total: total})
}

func (api *AdminAPI) handleEnrollmentListByStudent(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.enrollments == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	list, err := api.enrollments.ListByStudent(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
