package progress

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type memoryRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*LessonProgress
	byPair map[string]uuid.UUID
}

// NewMemoryRepository creates an in-memory lesson progress repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		byID:   map[uuid.UUID]*LessonProgress{},
		byPair: map[string]uuid.UUID{},
	}
}

func (r *memoryRepository) Create(ctx context.Context, record *LessonProgress) (*LessonProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := cloneProgress(record)
	r.byID[clone.ID] = clone
	r.byPair[pairKey(clone.EnrollmentID, clone.LessonID)] = clone.ID
	return cloneProgress(clone), nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*LessonProgress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "lesson progress", Key: id.String()}
	}
	return cloneProgress(record), nil
}

func (r *memoryRepository) GetByPair(ctx context.Context, enrollmentID, lessonID uuid.UUID) (*LessonProgress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byPair[pairKey(enrollmentID, lessonID)]
	if !ok {
		return nil, &NotFoundError{Resource: "lesson progress", Key: pairKey(enrollmentID, lessonID)}
	}
	return cloneProgress(r.byID[id]), nil
}

func (r *memoryRepository) ListByEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]*LessonProgress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []*LessonProgress
	for _, record := range r.byID {
		if record.EnrollmentID == enrollmentID {
			records = append(records, cloneProgress(record))
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

func (r *memoryRepository) Update(ctx context.Context, record *LessonProgress) (*LessonProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[record.ID]; !ok {
		return nil, &NotFoundError{Resource: "lesson progress", Key: record.ID.String()}
	}
	clone := cloneProgress(record)
	r.byID[clone.ID] = clone
	return cloneProgress(clone), nil
}

func cloneProgress(record *LessonProgress) *LessonProgress {
	if record == nil {
		return nil
	}
	clone := *record
	clone.StartedAt = cloneTimePtr(record.StartedAt)
	clone.CompletedAt = cloneTimePtr(record.CompletedAt)
	return &clone
}
