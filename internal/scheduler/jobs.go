package scheduler

import "github.com/google/uuid"

const (
	JobTypeCoursePublish    = "lms.course.publish"
	JobTypeCourseUnpublish  = "lms.course.unpublish"
	JobTypeEnrollmentExpire = "lms.enrollment.expire"
	JobTypeInteractionPurge = "lms.interactions.purge"
	JobTypeAttemptExpire    = "lms.assessment.attempt.expire"
	JobTypeAttemptPurge     = "lms.assessment.attempt.purge"
)

func CoursePublishJobKey(id uuid.UUID) string {
	return "course:" + id.String() + ":publish"
}

func CourseUnpublishJobKey(id uuid.UUID) string {
	return "course:" + id.String() + ":unpublish"
}

func EnrollmentExpireJobKey(id uuid.UUID) string {
	return "enrollment:" + id.String() + ":expire"
}

func AttemptExpireJobKey(id uuid.UUID) string {
	return "attempt:" + id.String() + ":expire"
}

// InteractionPurgeJobKey is a singleton key so retention sweeps replace any
// previously scheduled run.
func InteractionPurgeJobKey() string {
	return "interactions:purge"
}

// AttemptPurgeJobKey is a singleton key so retention sweeps replace any
// previously scheduled run.
func AttemptPurgeJobKey() string {
	return "attempts:purge"
}
