package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-lms/internal/interactions"
)

type interactionRecordPayload struct {
	StudentID      uuid.UUID      `json:"student_id"`
	EnrollmentID   *uuid.UUID     `json:"enrollment_id,omitempty"`
	LessonID       *uuid.UUID     `json:"lesson_id,omitempty"`
	SessionID      string         `json:"session_id,omitempty"`
	Prompt         string         `json:"prompt"`
	Response       string         `json:"response"`
	Model          string         `json:"model,omitempty"`
	TokensPrompt   int            `json:"tokens_prompt,omitempty"`
	TokensResponse int            `json:"tokens_response,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

type interactionFlagPayload struct {
	Reason string `json:"reason,omitempty"`
}

type eraseResponse struct {
	Erased int `json:"erased"`
}

func (api *AdminAPI) registerInteractionRoutes(mux *http.ServeMux, base string) {
	if mux == nil {
		return
	}
	root := joinPath(base, "interactions")
	mux.HandleFunc("POST "+root, api.handleInteractionRecord)
	mux.HandleFunc("GET "+root+"/{id}", api.handleInteractionGet)
	mux.HandleFunc("POST "+root+"/{id}/flag", api.handleInteractionFlag)
	mux.HandleFunc("GET "+root+"/sessions/{sessionID}", api.handleInteractionListBySession)

	students := joinPath(base, "students")
	mux.HandleFunc("GET "+students+"/{id}/interactions", api.handleInteractionListByStudent)
	mux.HandleFunc("DELETE "+students+"/{id}/interactions", api.handleInteractionErase)
}

func (api *AdminAPI) handleInteractionRecord(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.interactions == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	var payload interactionRecordPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	record, err := api.interactions.Record(r.Context(), interactions.RecordInput{
		StudentID:      payload.StudentID,
		EnrollmentID:   payload.EnrollmentID,
		LessonID:       payload.LessonID,
		SessionID:      payload.SessionID,
		Prompt:         payload.Prompt,
		Response:       payload.Response,
		Model:          payload.Model,
		TokensPrompt:   payload.TokensPrompt,
		TokensResponse: payload.TokensResponse,
		Metadata:       payload.Metadata,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (api *AdminAPI) handleInteractionGet(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.interactions == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	record, err := api.interactions.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *AdminAPI) handleInteractionFlag(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.interactions == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	var payload interactionFlagPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	record, err := api.interactions.FlagForReview(r.Context(), interactions.FlagInput{
		InteractionID: id,
		Reason:        payload.Reason,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *AdminAPI) handleInteractionListByStudent(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.interactions == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	opts := interactions.ListOptions{
		Limit:  parseIntQuery(r.URL.Query().Get("limit"), 0),
		Offset: parseIntQuery(r.URL.Query().Get("offset"), 0),
	}
	if raw := r.URL.Query().Get("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid since timestamp"})
			return
		}
		opts.Since = &since
	}
	list, total, err := api.interactions.ListByStudent(r.Context(), id, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: list, Total: total})
}

func (api *AdminAPI) handleInteractionListBySession(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.interactions == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	sessionID := r.PathValue("sessionID")
	list, err := api.interactions.ListBySession(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (api *AdminAPI) handleInteractionErase(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.interactions == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	erased, err := api.interactions.EraseStudent(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, eraseResponse{Erased: erased})
}
