package http

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-lms/internal/catalog"
	"github.com/goliatone/go-lms/internal/domain"
)

type courseCreatePayload struct {
	Code        string     `json:"code"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Capacity    int        `json:"capacity,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	PublishAt   *time.Time `json:"publish_at,omitempty"`
	UnpublishAt *time.Time `json:"unpublish_at,omitempty"`
}

type courseUpdatePayload struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Capacity    *int       `json:"capacity,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	PublishAt   *time.Time `json:"publish_at,omitempty"`
	UnpublishAt *time.Time `json:"unpublish_at,omitempty"`
}

type scheduleActionPayload struct {
	At *time.Time `json:"at,omitempty"`
}

type lessonCreatePayload struct {
	Slug            string `json:"slug"`
	Title           string `json:"title"`
	Body            string `json:"body"`
	Position        *int   `json:"position,omitempty"`
	Required        *bool  `json:"required,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
}

type lessonUpdatePayload struct {
	Title           *string `json:"title,omitempty"`
	Body            *string `json:"body,omitempty"`
	Required        *bool   `json:"required,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
}

type lessonOrderPayload struct {
	LessonID uuid.UUID `json:"lesson_id"`
	Position int       `json:"position"`
}

type lessonReorderPayload struct {
	Items []lessonOrderPayload `json:"items"`
}

func (api *AdminAPI) registerCourseRoutes(mux *http.ServeMux, base string) {
	if mux == nil {
		return
	}
	root := joinPath(base, "courses")
	mux.HandleFunc("GET "+root, api.handleCourseList)
	mux.HandleFunc("POST "+root, api.handleCourseCreate)
	mux.HandleFunc("GET "+root+"/{id}", api.handleCourseGet)
	mux.HandleFunc("PUT "+root+"/{id}", api.handleCourseUpdate)
	mux.HandleFunc("DELETE "+root+"/{id}", api.handleCourseDelete)
	mux.HandleFunc("POST "+root+"/{id}/publish", api.handleCoursePublish)
	mux.HandleFunc("POST "+root+"/{id}/unpublish", api.handleCourseUnpublish)
	mux.HandleFunc("POST "+root+"/{id}/archive", api.handleCourseArchive)

	mux.HandleFunc("GET "+root+"/{id}/lessons", api.handleLessonList)
	mux.HandleFunc("POST "+root+"/{id}/lessons", api.handleLessonCreate)
	mux.HandleFunc("PUT "+root+"/{id}/lessons/reorder", api.handleLessonReorder)

	lessons := joinPath(base, "lessons")
	mux.HandleFunc("GET "+lessons+"/{id}", api.handleLessonGet)
	mux.HandleFunc("PUT "+lessons+"/{id}", api.handleLessonUpdate)
	mux.HandleFunc("DELETE "+lessons+"/{id}", api.handleLessonDelete)
}

func (api *AdminAPI) handleCourseList(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.courses == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	opts := catalog.ListCoursesOptions{
		Status: domain.Status(r.URL.Query().Get("status")),
		Tag:    r.URL.Query().Get("tag"),
		Limit:  parseIntQuery(r.URL.Query().Get("limit"), 0),
		Offset: parseIntQuery(r.URL.Query().Get("offset"), 0),
	}
	list, total, err := api.courses.ListCourses(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: list, Total: total})
}

func (api *AdminAPI) handleCourseCreate(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.courses == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	var payload courseCreatePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	course, err := api.courses.CreateCourse(r.Context(), catalog.CreateCourseInput{
		Code:        payload.Code,
		Title:       payload.Title,
		Description: payload.Description,
		Capacity:    payload.Capacity,
		Tags:        payload.Tags,
		PublishAt:   payload.PublishAt,
		UnpublishAt: payload.UnpublishAt,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, course)
}

func (api *AdminAPI) handleCourseGet(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.courses == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	course, err := api.courses.GetCourse(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

func (api *AdminAPI) handleCourseUpdate(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.courses == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	var payload courseUpdatePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	course, err := api.courses.UpdateCourse(r.Context(), catalog.UpdateCourseInput{
		CourseID:    id,
		Title:       payload.Title,
		Description: payload.Description,
		Capacity:    payload.Capacity,
		Tags:        payload.Tags,
		PublishAt:   payload.PublishAt,
		UnpublishAt: payload.UnpublishAt,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

func (api *AdminAPI) handleCourseDelete(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.courses == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	err = api.courses.DeleteCourse(r.Context(), catalog.DeleteCourseRequest{
		CourseID:   id,
		HardDelete: parseBoolQuery(r.URL.Query().Get("hard"), false),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (api *AdminAPI) handleCoursePublish(w http.ResponseWriter, r *http.Request) {
	api.handleCourseSchedule(w, r, true)
}

func (api *AdminAPI) handleCourseUnpublish(w http.ResponseWriter, r *http.Request) {
	api.handleCourseSchedule(w, r, false)
}

func (api *AdminAPI) handleCourseSchedule(w http.ResponseWriter, r *http.Request, publish bool) {
	if api == nil || api.courses == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	var payload scheduleActionPayload
	if err := decodeJSON(r, &payload); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}

	var course *catalog.Course
	if publish {
		course, err = api.courses.PublishCourse(r.Context(), catalog.PublishCourseInput{CourseID: id, At: payload.At})
	} else {
		course, err = api.courses.UnpublishCourse(r.Context(), catalog.UnpublishCourseInput{CourseID: id, At: payload.At})
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

func (api *AdminAPI) handleCourseArchive(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.courses == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	course, err := api.courses.ArchiveCourse(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

func (api *AdminAPI) handleLessonList(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.courses == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	lessons, err := api.courses.ListLessons(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lessons)
}

func (api *AdminAPI) handleLessonCreate(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.courses == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	var payload lessonCreatePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	lesson, err := api.courses.AddLesson(r.Context(), catalog.AddLessonInput{
		CourseID:        id,
		Slug:            payload.Slug,
		Title:           payload.Title,
		Body:            payload.Body,
		Position:        payload.Position,
		Required:        payload.Required,
		DurationMinutes: payload.DurationMinutes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, lesson)
}

func (api *AdminAPI) handleLessonReorder(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.courses == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	var payload lessonReorderPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	items := make([]catalog.LessonOrder, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, catalog.LessonOrder{LessonID: item.LessonID, Position: item.Position})
	}
	lessons, err := api.courses.ReorderLessons(r.Context(), catalog.ReorderLessonsInput{
		CourseID: id,
		Items:    items,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lessons)
}

func (api *AdminAPI) handleLessonGet(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.courses == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	lesson, err := api.courses.GetLesson(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lesson)
}

func (api *AdminAPI) handleLessonUpdate(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.courses == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	var payload lessonUpdatePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	lesson, err := api.courses.UpdateLesson(r.Context(), catalog.UpdateLessonInput{
		LessonID:        id,
		Title:           payload.Title,
		Body:            payload.Body,
		Required:        payload.Required,
		DurationMinutes: payload.DurationMinutes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lesson)
}

func (api *AdminAPI) handleLessonDelete(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.courses == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	if err := api.courses.RemoveLesson(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
