package enrollment

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-lms/internal/domain"
)

// NewMemoryRepository constructs an in-memory enrollment repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		byID: make(map[uuid.UUID]*Enrollment),
	}
}

type memoryRepository struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*Enrollment
}

func (m *memoryRepository) Create(_ context.Context, enrollment *Enrollment) (*Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneEnrollment(enrollment)
	m.byID[cloned.ID] = cloned
	return cloneEnrollment(cloned), nil
}

func (m *memoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Enrollment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "enrollment", Key: id.String()}
	}
	return cloneEnrollment(record), nil
}

func (m *memoryRepository) GetActiveByPair(_ context.Context, studentID, courseID uuid.UUID) (*Enrollment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, record := range m.byID {
		if record.StudentID != studentID || record.CourseID != courseID {
			continue
		}
		if record.Status.Terminal() {
			continue
		}
		return cloneEnrollment(record), nil
	}
	return nil, &NotFoundError{Resource: "enrollment", Key: pairKey(studentID, courseID)}
}

func (m *memoryRepository) ListByCourse(_ context.Context, courseID uuid.UUID, opts ListOptions) ([]*Enrollment, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*Enrollment, 0)
	for _, record := range m.byID {
		if record.CourseID != courseID {
			continue
		}
		if opts.Status != "" && record.Status != opts.Status {
			continue
		}
		records = append(records, cloneEnrollment(record))
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].EnrolledAt.Before(records[j].EnrolledAt)
	})

	total := len(records)
	if opts.Offset > 0 {
		if opts.Offset >= len(records) {
			return []*Enrollment{}, total, nil
		}
		records = records[opts.Offset:]
	}
	if opts.Limit > 0 && len(records) > opts.Limit {
		records = records[:opts.Limit]
	}
	return records, total, nil
}

func (m *memoryRepository) ListByStudent(_ context.Context, studentID uuid.UUID) ([]*Enrollment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*Enrollment, 0)
	for _, record := range m.byID {
		if record.StudentID != studentID {
			continue
		}
		records = append(records, cloneEnrollment(record))
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].EnrolledAt.Before(records[j].EnrolledAt)
	})
	return records, nil
}

func (m *memoryRepository) CountActiveByCourse(_ context.Context, courseID uuid.UUID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, record := range m.byID {
		if record.CourseID == courseID && record.Status == domain.EnrollmentActive {
			count++
		}
	}
	return count, nil
}

func (m *memoryRepository) Update(_ context.Context, enrollment *Enrollment) (*Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[enrollment.ID]; !ok {
		return nil, &NotFoundError{Resource: "enrollment", Key: enrollment.ID.String()}
	}
	cloned := cloneEnrollment(enrollment)
	m.byID[cloned.ID] = cloned
	return cloneEnrollment(cloned), nil
}

func (m *memoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[id]; !ok {
		return &NotFoundError{Resource: "enrollment", Key: id.String()}
	}
	delete(m.byID, id)
	return nil
}

func cloneEnrollment(src *Enrollment) *Enrollment {
	if src == nil {
		return nil
	}
	cloned := *src
	cloned.CompletedAt = cloneTimePtr(src.CompletedAt)
	cloned.DroppedAt = cloneTimePtr(src.DroppedAt)
	cloned.SuspendedAt = cloneTimePtr(src.SuspendedAt)
	cloned.ExpiresAt = cloneTimePtr(src.ExpiresAt)
	if src.FinalGrade != nil {
		value := *src.FinalGrade
		cloned.FinalGrade = &value
	}
	return &cloned
}

func cloneTimePtr(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	value := *src
	return &value
}
