package http

import (
	"net/http"
)

func (api *AdminAPI) registerAnalyticsRoutes(mux *http.ServeMux, base string) {
	if mux == nil {
		return
	}
	courses := joinPath(base, "courses")
	mux.HandleFunc("GET "+courses+"/{id}/analytics/overview", api.handleCourseOverview)
	mux.HandleFunc("GET "+courses+"/{id}/analytics/at-risk", api.handleAtRiskStudents)
	mux.HandleFunc("GET "+courses+"/{id}/analytics/engagement", api.handleWeeklyEngagement)
	mux.HandleFunc("DELETE "+courses+"/{id}/analytics/cache", api.handleAnalyticsInvalidate)

	students := joinPath(base, "students")
	mux.HandleFunc("GET "+students+"/{id}/analytics/overview", api.handleStudentOverview)
}

func (api *AdminAPI) handleCourseOverview(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.analytics == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	overview, err := api.analytics.CourseOverview(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (api *AdminAPI) handleStudentOverview(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.analytics == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	overview, err := api.analytics.StudentOverview(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (api *AdminAPI) handleAtRiskStudents(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.analytics == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	atRisk, err := api.analytics.AtRiskStudents(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, atRisk)
}

func (api *AdminAPI) handleWeeklyEngagement(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.analytics == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	weeks := parseIntQuery(r.URL.Query().Get("weeks"), 4)
	engagement, err := api.analytics.WeeklyEngagement(r.Context(), id, weeks)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, engagement)
}

func (api *AdminAPI) handleAnalyticsInvalidate(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.analytics == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	if err := api.analytics.InvalidateCourse(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
