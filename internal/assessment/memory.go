package assessment

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-lms/internal/domain"
)

type memoryAssessmentRepository struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*Assessment
}

// NewMemoryAssessmentRepository creates an in-memory assessment repository.
func NewMemoryAssessmentRepository() AssessmentRepository {
	return &memoryAssessmentRepository{byID: map[uuid.UUID]*Assessment{}}
}

func (r *memoryAssessmentRepository) Create(ctx context.Context, assessment *Assessment) (*Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := cloneAssessment(assessment)
	r.byID[clone.ID] = clone
	return cloneAssessment(clone), nil
}

func (r *memoryAssessmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*Assessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "assessment", Key: id.String()}
	}
	return cloneAssessment(record), nil
}

func (r *memoryAssessmentRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*Assessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []*Assessment
	for _, record := range r.byID {
		if record.CourseID == courseID {
			records = append(records, cloneAssessment(record))
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

func (r *memoryAssessmentRepository) Update(ctx context.Context, assessment *Assessment) (*Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[assessment.ID]; !ok {
		return nil, &NotFoundError{Resource: "assessment", Key: assessment.ID.String()}
	}
	clone := cloneAssessment(assessment)
	r.byID[clone.ID] = clone
	return cloneAssessment(clone), nil
}

func (r *memoryAssessmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return &NotFoundError{Resource: "assessment", Key: id.String()}
	}
	delete(r.byID, id)
	return nil
}

type memoryAttemptRepository struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*Attempt
}

// NewMemoryAttemptRepository creates an in-memory attempt repository.
func NewMemoryAttemptRepository() AttemptRepository {
	return &memoryAttemptRepository{byID: map[uuid.UUID]*Attempt{}}
}

func (r *memoryAttemptRepository) Create(ctx context.Context, attempt *Attempt) (*Attempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := cloneAttempt(attempt)
	r.byID[clone.ID] = clone
	return cloneAttempt(clone), nil
}

func (r *memoryAttemptRepository) GetByID(ctx context.Context, id uuid.UUID) (*Attempt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "attempt", Key: id.String()}
	}
	return cloneAttempt(record), nil
}

func (r *memoryAttemptRepository) ListByAssessmentAndEnrollment(ctx context.Context, assessmentID, enrollmentID uuid.UUID) ([]*Attempt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []*Attempt
	for _, record := range r.byID {
		if record.AssessmentID == assessmentID && record.EnrollmentID == enrollmentID {
			records = append(records, cloneAttempt(record))
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].AttemptNumber < records[j].AttemptNumber
	})
	return records, nil
}

func (r *memoryAttemptRepository) ListByEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]*Attempt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []*Attempt
	for _, record := range r.byID {
		if record.EnrollmentID == enrollmentID {
			records = append(records, cloneAttempt(record))
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].StartedAt.Before(records[j].StartedAt)
	})
	return records, nil
}

func (r *memoryAttemptRepository) Update(ctx context.Context, attempt *Attempt) (*Attempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[attempt.ID]; !ok {
		return nil, &NotFoundError{Resource: "attempt", Key: attempt.ID.String()}
	}
	clone := cloneAttempt(attempt)
	r.byID[clone.ID] = clone
	return cloneAttempt(clone), nil
}

func (r *memoryAttemptRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, record := range r.byID {
		if record.Status != domain.AttemptExpired {
			continue
		}
		if record.UpdatedAt.Before(cutoff) {
			delete(r.byID, id)
			removed++
		}
	}
	return removed, nil
}

func cloneAssessment(assessment *Assessment) *Assessment {
	if assessment == nil {
		return nil
	}
	clone := *assessment
	if assessment.LessonID != nil {
		id := *assessment.LessonID
		clone.LessonID = &id
	}
	clone.Description = cloneStringPtr(assessment.Description)
	if assessment.Questions != nil {
		clone.Questions = make([]Question, len(assessment.Questions))
		copy(clone.Questions, assessment.Questions)
		for i, q := range assessment.Questions {
			if q.Options != nil {
				opts := make([]string, len(q.Options))
				copy(opts, q.Options)
				clone.Questions[i].Options = opts
			}
		}
	}
	return &clone
}

func cloneAttempt(attempt *Attempt) *Attempt {
	if attempt == nil {
		return nil
	}
	clone := *attempt
	if attempt.Answers != nil {
		clone.Answers = maps.Clone(attempt.Answers)
	}
	clone.Score = cloneFloatPtr(attempt.Score)
	clone.Passed = cloneBoolPtr(attempt.Passed)
	clone.ExpiresAt = cloneTimePtr(attempt.ExpiresAt)
	clone.SubmittedAt = cloneTimePtr(attempt.SubmittedAt)
	clone.GradedAt = cloneTimePtr(attempt.GradedAt)
	return &clone
}
