package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-lms/internal/analytics"
	"github.com/goliatone/go-lms/internal/assessment"
	"github.com/goliatone/go-lms/internal/catalog"
	"github.com/goliatone/go-lms/internal/enrollment"
	"github.com/goliatone/go-lms/internal/interactions"
	"github.com/goliatone/go-lms/internal/progress"
	"github.com/goliatone/go-lms/internal/roster"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type listResponse struct {
	Items any `json:"items"`
	Total int `json:"total"`
}

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	if trimmedBase == "" {
		if trimmedSuffix == "" {
			return "/"
		}
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	baseClean := "/" + strings.Trim(trimmedBase, "/")
	if trimmedSuffix == "" {
		return baseClean
	}
	return baseClean + "/" + strings.Trim(trimmedSuffix, "/")
}

func decodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(target); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status, payload := mapError(err)
	writeJSON(w, status, payload)
}

// conflictErrors are duplicate or already-claimed resource failures.
var conflictErrors = []error{
	catalog.ErrCourseExists,
	catalog.ErrLessonExists,
	roster.ErrStudentExists,
	enrollment.ErrAlreadyEnrolled,
	assessment.ErrAttemptAlreadyOpen,
	interactions.ErrAlreadyFlagged,
}

// unprocessableErrors are requests that are well-formed but violate the
// current state of the domain.
var unprocessableErrors = []error{
	catalog.ErrCourseArchived,
	catalog.ErrCourseNotPublished,
	catalog.ErrCourseWithoutLessons,
	catalog.ErrCourseHasLessons,
	roster.ErrStudentInactive,
	roster.ErrGuardianConsentRequired,
	roster.ErrConsentNotGranted,
	enrollment.ErrStudentInactive,
	enrollment.ErrCourseNotOpen,
	enrollment.ErrCourseFull,
	enrollment.ErrTerminalState,
	enrollment.ErrNotSuspended,
	enrollment.ErrNotActive,
	enrollment.ErrEnrollmentDropped,
	progress.ErrEnrollmentNotActive,
	progress.ErrLessonNotInCourse,
	progress.ErrLessonNotStarted,
	assessment.ErrAssessmentPublished,
	assessment.ErrAssessmentNotPublished,
	assessment.ErrAssessmentHasAttempts,
	assessment.ErrEnrollmentNotActive,
	assessment.ErrEnrollmentCourseMismatch,
	assessment.ErrMaxAttemptsReached,
	assessment.ErrAttemptNotOpen,
	assessment.ErrAttemptExpired,
	assessment.ErrAssessmentNotAvailable,
	assessment.ErrAttemptNotGradable,
	assessment.ErrQuestionInvalid,
	assessment.ErrLessonNotInCourse,
	interactions.ErrConsentRequired,
	analytics.ErrConsentRequired,
}

// badRequestErrors are malformed or incomplete inputs.
var badRequestErrors = []error{
	catalog.ErrCourseSoftDeleteUnsupported,
	catalog.ErrCourseCodeRequired,
	catalog.ErrCourseCodeInvalid,
	catalog.ErrCourseTitleRequired,
	catalog.ErrCourseCapacityInvalid,
	catalog.ErrCourseWindowInvalid,
	catalog.ErrLessonCourseRequired,
	catalog.ErrLessonSlugRequired,
	catalog.ErrLessonSlugInvalid,
	catalog.ErrLessonTitleRequired,
	catalog.ErrLessonPositionInvalid,
	catalog.ErrLessonOrderMismatch,
	catalog.ErrLessonDurationInvalid,
	roster.ErrStudentEmailRequired,
	roster.ErrStudentEmailInvalid,
	roster.ErrStudentNameRequired,
	roster.ErrGuardianEmailRequired,
	roster.ErrGuardianEmailInvalid,
	roster.ErrBirthDateInFuture,
	roster.ErrConsentPurposeInvalid,
	roster.ErrConsentActorInvalid,
	enrollment.ErrStudentRequired,
	enrollment.ErrCourseRequired,
	enrollment.ErrExpiryInPast,
	enrollment.ErrGradeInvalid,
	progress.ErrEnrollmentRequired,
	progress.ErrLessonRequired,
	progress.ErrTimeSpentInvalid,
	assessment.ErrCourseRequired,
	assessment.ErrTitleRequired,
	assessment.ErrQuestionsRequired,
	assessment.ErrPassingScoreInvalid,
	assessment.ErrMaxAttemptsInvalid,
	assessment.ErrTimeLimitInvalid,
	assessment.ErrKindInvalid,
	assessment.ErrWeightInvalid,
	assessment.ErrWindowInvalid,
	assessment.ErrScoreInvalid,
	interactions.ErrStudentRequired,
	interactions.ErrPromptRequired,
	interactions.ErrResponseRequired,
	interactions.ErrTokensInvalid,
	analytics.ErrWeeksInvalid,
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	if isNotFound(err) {
		return http.StatusNotFound, errorResponse{Error: "not_found", Message: err.Error()}
	}

	for _, sentinel := range conflictErrors {
		if errors.Is(err, sentinel) {
			return http.StatusConflict, errorResponse{Error: "conflict", Message: err.Error()}
		}
	}

	for _, sentinel := range unprocessableErrors {
		if errors.Is(err, sentinel) {
			return http.StatusUnprocessableEntity, errorResponse{Error: "validation_failed", Message: err.Error()}
		}
	}

	for _, sentinel := range badRequestErrors {
		if errors.Is(err, sentinel) {
			return http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()}
		}
	}

	return http.StatusInternalServerError, errorResponse{Error: "internal_error", Message: err.Error()}
}

func isNotFound(err error) bool {
	var catalogNotFound *catalog.NotFoundError
	if errors.As(err, &catalogNotFound) {
		return true
	}
	var rosterNotFound *roster.NotFoundError
	if errors.As(err, &rosterNotFound) {
		return true
	}
	var enrollmentNotFound *enrollment.NotFoundError
	if errors.As(err, &enrollmentNotFound) {
		return true
	}
	var progressNotFound *progress.NotFoundError
	if errors.As(err, &progressNotFound) {
		return true
	}
	var assessmentNotFound *assessment.NotFoundError
	if errors.As(err, &assessmentNotFound) {
		return true
	}
	var interactionNotFound *interactions.NotFoundError
	return errors.As(err, &interactionNotFound)
}

func parseUUID(value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil, errors.New("uuid required")
	}
	parsed, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.Nil, err
	}
	return parsed, nil
}

func parseBoolQuery(value string, defaultValue bool) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(trimmed)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseIntQuery(value string, defaultValue int) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return defaultValue
	}
	return parsed
}
