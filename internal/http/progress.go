package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/goliatone/go-lms/internal/progress"
)

type timeSpentPayload struct {
	TimeSpentSeconds int `json:"time_spent_seconds"`
}

func (api *AdminAPI) registerProgressRoutes(mux *http.ServeMux, base string) {
	if mux == nil {
		return
	}
	root := joinPath(base, "enrollments")
	mux.HandleFunc("POST "+root+"/{id}/lessons/{lessonID}/start", api.handleProgressStart)
	mux.HandleFunc("POST "+root+"/{id}/lessons/{lessonID}/complete", api.handleProgressComplete)
	mux.HandleFunc("POST "+root+"/{id}/lessons/{lessonID}/time", api.handleProgressTime)
	mux.HandleFunc("GET "+root+"/{id}/lessons/{lessonID}/progress", api.handleProgressGet)
	mux.HandleFunc("GET "+root+"/{id}/progress", api.handleProgressList)
	mux.HandleFunc("GET "+root+"/{id}/summary", api.handleProgressSummary)
}

func (api *AdminAPI) progressIDs(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	enrollmentID, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid enrollment id"})
		return uuid.Nil, uuid.Nil, false
	}
	lessonID, err := parseUUID(r.PathValue("lessonID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid lesson id"})
		return uuid.Nil, uuid.Nil, false
	}
	return enrollmentID, lessonID, true
}

func (api *AdminAPI) handleProgressStart(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.progress == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	enrollmentID, lessonID, ok := api.progressIDs(w, r)
	if !ok {
		return
	}
	record, err := api.progress.StartLesson(r.Context(), progress.StartLessonInput{
		EnrollmentID: enrollmentID,
		LessonID:     lessonID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *AdminAPI) handleProgressComplete(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.progress == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	enrollmentID, lessonID, ok := api.progressIDs(w, r)
	if !ok {
		return
	}
	var payload timeSpentPayload
	if err := decodeJSON(r, &payload); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	record, err := api.progress.CompleteLesson(r.Context(), progress.CompleteLessonInput{
		EnrollmentID:     enrollmentID,
		LessonID:         lessonID,
		TimeSpentSeconds: payload.TimeSpentSeconds,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *AdminAPI) handleProgressTime(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.progress == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	enrollmentID, lessonID, ok := api.progressIDs(w, r)
	if !ok {
		return
	}
	var payload timeSpentPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	record, err := api.progress.RecordTime(r.Context(), progress.RecordTimeInput{
		EnrollmentID:     enrollmentID,
		LessonID:         lessonID,
		TimeSpentSeconds: payload.TimeSpentSeconds,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *AdminAPI) handleProgressGet(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.progress == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	enrollmentID, lessonID, ok := api.progressIDs(w, r)
	if !ok {
		return
	}
	record, err := api.progress.GetLessonProgress(r.Context(), enrollmentID, lessonID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *AdminAPI) handleProgressList(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.progress == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	list, err := api.progress.ListProgress(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (api *AdminAPI) handleProgressSummary(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.progress == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	summary, err := api.progress.Summary(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
