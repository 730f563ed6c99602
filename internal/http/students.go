package http

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/goliatone/go-lms/internal/domain"
	"github.com/goliatone/go-lms/internal/roster"
)

type studentRegisterPayload struct {
	Email         string     `json:"email"`
	FullName      string     `json:"full_name"`
	GradeLevel    string     `json:"grade_level,omitempty"`
	BirthDate     *time.Time `json:"birth_date,omitempty"`
	GuardianEmail *string    `json:"guardian_email,omitempty"`
}

type studentUpdatePayload struct {
	FullName      *string `json:"full_name,omitempty"`
	GradeLevel    *string `json:"grade_level,omitempty"`
	GuardianEmail *string `json:"guardian_email,omitempty"`
}

type consentGrantPayload struct {
	Purpose   string `json:"purpose"`
	GrantedBy string `json:"granted_by"`
}

type consentRevokePayload struct {
	RevokedBy string `json:"revoked_by"`
}

func (api *AdminAPI) registerStudentRoutes(mux *http.ServeMux, base string) {
	if mux == nil {
		return
	}
	root := joinPath(base, "students")
	mux.HandleFunc("GET "+root, api.handleStudentList)
	mux.HandleFunc("POST "+root, api.handleStudentRegister)
	mux.HandleFunc("GET "+root+"/{id}", api.handleStudentGet)
	mux.HandleFunc("PUT "+root+"/{id}", api.handleStudentUpdate)
	mux.HandleFunc("DELETE "+root+"/{id}", api.handleStudentDelete)
	mux.HandleFunc("POST "+root+"/{id}/deactivate", api.handleStudentDeactivate)

	mux.HandleFunc("GET "+root+"/{id}/consents", api.handleConsentList)
	mux.HandleFunc("POST "+root+"/{id}/consents", api.handleConsentGrant)
	mux.HandleFunc("DELETE "+root+"/{id}/consents/{purpose}", api.handleConsentRevoke)
}

func (api *AdminAPI) handleStudentList(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.students == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	opts := roster.ListStudentsOptions{
		ActiveOnly: parseBoolQuery(r.URL.Query().Get("active"), false),
		Limit:      parseIntQuery(r.URL.Query().Get("limit"), 0),
		Offset:     parseIntQuery(r.URL.Query().Get("offset"), 0),
	}
	list, total, err := api.students.ListStudents(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: list, Total: total})
}

func (api *AdminAPI) handleStudentRegister(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.students == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	var payload studentRegisterPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	student, err := api.students.RegisterStudent(r.Context(), roster.RegisterStudentInput{
		Email:         payload.Email,
		FullName:      payload.FullName,
		GradeLevel:    payload.GradeLevel,
		BirthDate:     payload.BirthDate,
		GuardianEmail: payload.GuardianEmail,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, student)
}

func (api *AdminAPI) handleStudentGet(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.students == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	student, err := api.students.GetStudent(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, student)
}

func (api *AdminAPI) handleStudentUpdate(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.students == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	var payload studentUpdatePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	student, err := api.students.UpdateStudent(r.Context(), roster.UpdateStudentInput{
		StudentID:     id,
		FullName:      payload.FullName,
		GradeLevel:    payload.GradeLevel,
		GuardianEmail: payload.GuardianEmail,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, student)
}

func (api *AdminAPI) handleStudentDelete(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.students == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	err = api.students.DeleteStudent(r.Context(), roster.DeleteStudentRequest{
		StudentID:  id,
		HardDelete: parseBoolQuery(r.URL.Query().Get("hard"), false),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (api *AdminAPI) handleStudentDeactivate(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.students == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	student, err := api.students.DeactivateStudent(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, student)
}

func (api *AdminAPI) handleConsentList(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.students == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	consents, err := api.students.ListConsents(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, consents)
}

func (api *AdminAPI) handleConsentGrant(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.students == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	var payload consentGrantPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	consent, err := api.students.GrantConsent(r.Context(), roster.GrantConsentInput{
		StudentID: id,
		Purpose:   domain.ConsentPurpose(payload.Purpose),
		GrantedBy: roster.ConsentActor(payload.GrantedBy),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, consent)
}

func (api *AdminAPI) handleConsentRevoke(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.students == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	var payload consentRevokePayload
	if err := decodeJSON(r, &payload); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	consent, err := api.students.RevokeConsent(r.Context(), roster.RevokeConsentInput{
		StudentID: id,
		Purpose:   domain.ConsentPurpose(r.PathValue("purpose")),
		RevokedBy: roster.ConsentActor(payload.RevokedBy),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, consent)
}
