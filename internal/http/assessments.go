package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-lms/internal/assessment"
)

type assessmentCreatePayload struct {
	LessonID         *uuid.UUID                `json:"lesson_id,omitempty"`
	Kind             assessment.AssessmentKind `json:"kind,omitempty"`
	Title            string                    `json:"title"`
	Description      *string                   `json:"description,omitempty"`
	Questions        []assessment.Question     `json:"questions"`
	PassingScore     float64                   `json:"passing_score,omitempty"`
	MaxAttempts      int                       `json:"max_attempts,omitempty"`
	TimeLimitSeconds int                       `json:"time_limit_seconds,omitempty"`
	Weight           float64                   `json:"weight,omitempty"`
	AvailableFrom    *time.Time                `json:"available_from,omitempty"`
	AvailableUntil   *time.Time                `json:"available_until,omitempty"`
}

type assessmentUpdatePayload struct {
	Title            *string               `json:"title,omitempty"`
	Description      *string               `json:"description,omitempty"`
	Questions        []assessment.Question `json:"questions,omitempty"`
	PassingScore     *float64              `json:"passing_score,omitempty"`
	MaxAttempts      *int                  `json:"max_attempts,omitempty"`
	TimeLimitSeconds *int                  `json:"time_limit_seconds,omitempty"`
	Weight           *float64              `json:"weight,omitempty"`
	AvailableFrom    *time.Time            `json:"available_from,omitempty"`
	AvailableUntil   *time.Time            `json:"available_until,omitempty"`
}

type attemptStartPayload struct {
	EnrollmentID uuid.UUID `json:"enrollment_id"`
}

type attemptSubmitPayload struct {
	Answers map[string]string `json:"answers"`
}

type attemptGradePayload struct {
	Score    float64   `json:"score"`
	GradedBy uuid.UUID `json:"graded_by,omitempty"`
}

func (api *AdminAPI) registerAssessmentRoutes(mux *http.ServeMux, base string) {
	if mux == nil {
		return
	}
	root := joinPath(base, "assessments")
	mux.HandleFunc("GET "+joinPath(base, "courses")+"/{id}/assessments", api.handleAssessmentListByCourse)
	mux.HandleFunc("POST "+joinPath(base, "courses")+"/{id}/assessments", api.handleAssessmentCreate)
	mux.HandleFunc("GET "+root+"/{id}", api.handleAssessmentGet)
	mux.HandleFunc("PUT "+root+"/{id}", api.handleAssessmentUpdate)
	mux.HandleFunc("DELETE "+root+"/{id}", api.handleAssessmentDelete)
	mux.HandleFunc("POST "+root+"/{id}/publish", api.handleAssessmentPublish)
	mux.HandleFunc("POST "+root+"/{id}/attempts", api.handleAttemptStart)
	mux.HandleFunc("GET "+root+"/{id}/attempts", api.handleAttemptList)
	mux.HandleFunc("GET "+root+"/{id}/attempts/best", api.handleAttemptBest)

	attempts := joinPath(base, "attempts")
	mux.HandleFunc("GET "+attempts+"/{id}", api.handleAttemptGet)
	mux.HandleFunc("POST "+attempts+"/{id}/submit", api.handleAttemptSubmit)
	mux.HandleFunc("POST "+attempts+"/{id}/grade", api.handleAttemptGrade)
}

func (api *AdminAPI) handleAssessmentCreate(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.assessments == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	courseID, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	var payload assessmentCreatePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	record, err := api.assessments.CreateAssessment(r.Context(), assessment.CreateAssessmentInput{
		CourseID:         courseID,
		LessonID:         payload.LessonID,
		Kind:             payload.Kind,
		Title:            payload.Title,
		Description:      payload.Description,
		Questions:        payload.Questions,
		PassingScore:     payload.PassingScore,
		MaxAttempts:      payload.MaxAttempts,
		TimeLimitSeconds: payload.TimeLimitSeconds,
		Weight:           payload.Weight,
		AvailableFrom:    payload.AvailableFrom,
		AvailableUntil:   payload.AvailableUntil,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (api *AdminAPI) handleAssessmentListByCourse(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.assessments == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	courseID, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	list, err := api.assessments.ListByCourse(r.Context(), courseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (api *AdminAPI) handleAssessmentGet(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.assessments == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	record, err := api.assessments.GetAssessment(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *AdminAPI) handleAssessmentUpdate(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.assessments == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	var payload assessmentUpdatePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	record, err := api.assessments.UpdateAssessment(r.Context(), assessment.UpdateAssessmentInput{
		AssessmentID:     id,
		Title:            payload.Title,
		Description:      payload.Description,
		Questions:        payload.Questions,
		PassingScore:     payload.PassingScore,
		MaxAttempts:      payload.MaxAttempts,
		TimeLimitSeconds: payload.TimeLimitSeconds,
		Weight:           payload.Weight,
		AvailableFrom:    payload.AvailableFrom,
		AvailableUntil:   payload.AvailableUntil,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *AdminAPI) handleAssessmentDelete(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.assessments == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	if err := api.assessments.DeleteAssessment(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (api *AdminAPI) handleAssessmentPublish(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.assessments == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	record, err := api.assessments.PublishAssessment(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *AdminAPI) handleAttemptStart(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.assessments == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	var payload attemptStartPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	attempt, err := api.assessments.StartAttempt(r.Context(), assessment.StartAttemptInput{
		AssessmentID: id,
		EnrollmentID: payload.EnrollmentID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, attempt)
}

func (api *AdminAPI) handleAttemptList(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.assessments == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	enrollmentID, err := parseUUID(r.URL.Query().Get("enrollment_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid enrollment_id"})
		return
	}
	list, err := api.assessments.ListAttempts(r.Context(), id, enrollmentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (api *AdminAPI) handleAttemptBest(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.assessments == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	enrollmentID, err := parseUUID(r.URL.Query().Get("enrollment_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid enrollment_id"})
		return
	}
	best, err := api.assessments.BestAttempt(r.Context(), id, enrollmentID)
	if err != nil {
		if errors.Is(err, assessment.ErrNoGradedAttempts) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: err.Error()})
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, best)
}

func (api *AdminAPI) handleAttemptGet(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.assessments == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	attempt, err := api.assessments.GetAttempt(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attempt)
}

func (api *AdminAPI) handleAttemptSubmit(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.assessments == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	var payload attemptSubmitPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	attempt, err := api.assessments.SubmitAttempt(r.Context(), assessment.SubmitAttemptInput{
		AttemptID: id,
		Answers:   payload.Answers,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attempt)
}

func (api *AdminAPI) handleAttemptGrade(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.assessments == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	var payload attemptGradePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	attempt, err := api.assessments.GradeAttempt(r.Context(), assessment.GradeAttemptInput{
		AttemptID: id,
		Score:     payload.Score,
		GradedBy:  payload.GradedBy,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attempt)
}
