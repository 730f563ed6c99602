package interactions

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryRepository struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*AIInteraction
}

// NewMemoryRepository creates an in-memory AI interaction repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{byID: map[uuid.UUID]*AIInteraction{}}
}

func (r *memoryRepository) Create(ctx context.Context, record *AIInteraction) (*AIInteraction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := cloneInteraction(record)
	r.byID[clone.ID] = clone
	return cloneInteraction(clone), nil
}

func (r *memoryRepository) Update(ctx context.Context, record *AIInteraction) (*AIInteraction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[record.ID]; !ok {
		return nil, &NotFoundError{Resource: "ai interaction", Key: record.ID.String()}
	}
	clone := cloneInteraction(record)
	r.byID[clone.ID] = clone
	return cloneInteraction(clone), nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*AIInteraction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "ai interaction", Key: id.String()}
	}
	return cloneInteraction(record), nil
}

func (r *memoryRepository) ListByStudent(ctx context.Context, studentID uuid.UUID, opts ListOptions) ([]*AIInteraction, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []*AIInteraction
	for _, record := range r.byID {
		if record.StudentID != studentID {
			continue
		}
		if opts.Since != nil && record.OccurredAt.Before(*opts.Since) {
			continue
		}
		records = append(records, cloneInteraction(record))
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].OccurredAt.After(records[j].OccurredAt)
	})

	total := len(records)
	if opts.Offset > 0 {
		if opts.Offset >= len(records) {
			return nil, total, nil
		}
		records = records[opts.Offset:]
	}
	if opts.Limit > 0 && len(records) > opts.Limit {
		records = records[:opts.Limit]
	}
	return records, total, nil
}

func (r *memoryRepository) ListBySession(ctx context.Context, sessionID string) ([]*AIInteraction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []*AIInteraction
	for _, record := range r.byID {
		if record.SessionID == sessionID {
			records = append(records, cloneInteraction(record))
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].OccurredAt.Before(records[j].OccurredAt)
	})
	return records, nil
}

func (r *memoryRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var purged int
	for id, record := range r.byID {
		if record.OccurredAt.Before(cutoff) {
			delete(r.byID, id)
			purged++
		}
	}
	return purged, nil
}

func (r *memoryRepository) DeleteByStudent(ctx context.Context, studentID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int
	for id, record := range r.byID {
		if record.StudentID == studentID {
			delete(r.byID, id)
			removed++
		}
	}
	return removed, nil
}

func cloneInteraction(record *AIInteraction) *AIInteraction {
	if record == nil {
		return nil
	}
	clone := *record
	if record.EnrollmentID != nil {
		id := *record.EnrollmentID
		clone.EnrollmentID = &id
	}
	if record.LessonID != nil {
		id := *record.LessonID
		clone.LessonID = &id
	}
	if record.Metadata != nil {
		clone.Metadata = maps.Clone(record.Metadata)
	}
	return &clone
}
