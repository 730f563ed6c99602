package domain

// Status represents lifecycle states for catalog entities.
type Status string

const (
	// StatusDraft indicates a course still under preparation.
	StatusDraft Status = "draft"
	// StatusPublished identifies a course open to learners.
	StatusPublished Status = "published"
	// StatusArchived marks a course retained for history but no longer open.
	StatusArchived Status = "archived"
	// StatusScheduled marks a course with a future publish time configured.
	StatusScheduled Status = "scheduled"
)

// EnrollmentStatus represents the lifecycle of a student's course membership.
type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentDropped   EnrollmentStatus = "dropped"
	EnrollmentSuspended EnrollmentStatus = "suspended"
)

// Terminal reports whether the status admits no further transitions.
func (s EnrollmentStatus) Terminal() bool {
	return s == EnrollmentCompleted || s == EnrollmentDropped
}

// ProgressState tracks a learner's position within a single lesson.
type ProgressState string

const (
	ProgressNotStarted ProgressState = "not_started"
	ProgressInProgress ProgressState = "in_progress"
	ProgressCompleted  ProgressState = "completed"
)

// AttemptStatus tracks an assessment attempt through grading.
type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptSubmitted  AttemptStatus = "submitted"
	AttemptGraded     AttemptStatus = "graded"
	AttemptExpired    AttemptStatus = "expired"
)

// ConsentPurpose names the processing purposes a student (or guardian) can
// authorize. The purposes mirror the privacy obligations the platform carries
// for minors: analytics aggregation, AI tutoring capture, and data sharing.
type ConsentPurpose string

const (
	ConsentAnalytics   ConsentPurpose = "analytics"
	ConsentAITutor     ConsentPurpose = "ai_tutor"
	ConsentDataSharing ConsentPurpose = "data_sharing"
)

// KnownConsentPurpose reports whether the purpose is one the platform tracks.
func KnownConsentPurpose(p ConsentPurpose) bool {
	switch p {
	case ConsentAnalytics, ConsentAITutor, ConsentDataSharing:
		return true
	default:
		return false
	}
}
