package roster

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-lms/internal/domain"
)

// NewMemoryStudentRepository constructs an in-memory student repository.
func NewMemoryStudentRepository() StudentRepository {
	return &memoryStudentRepository{
		byID:    make(map[uuid.UUID]*Student),
		byEmail: make(map[string]uuid.UUID),
	}
}

type memoryStudentRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*Student
	byEmail map[string]uuid.UUID
}

func (m *memoryStudentRepository) Create(_ context.Context, student *Student) (*Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneStudent(student)
	m.byID[cloned.ID] = cloned
	if cloned.Email != "" {
		m.byEmail[cloned.Email] = cloned.ID
	}
	return cloneStudent(cloned), nil
}

func (m *memoryStudentRepository) GetByID(_ context.Context, id uuid.UUID) (*Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "student", Key: id.String()}
	}
	return cloneStudent(record), nil
}

func (m *memoryStudentRepository) GetByEmail(_ context.Context, email string) (*Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[email]
	if !ok {
		return nil, &NotFoundError{Resource: "student", Key: email}
	}
	return cloneStudent(m.byID[id]), nil
}

func (m *memoryStudentRepository) List(_ context.Context, opts ListStudentsOptions) ([]*Student, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*Student, 0, len(m.byID))
	for _, record := range m.byID {
		if opts.ActiveOnly && !record.Active {
			continue
		}
		records = append(records, cloneStudent(record))
	}
	sort.Slice(records, func(i, j int) bool {
		return strings.Compare(records[i].Email, records[j].Email) < 0
	})

	total := len(records)
	if opts.Offset > 0 {
		if opts.Offset >= len(records) {
			return []*Student{}, total, nil
		}
		records = records[opts.Offset:]
	}
	if opts.Limit > 0 && len(records) > opts.Limit {
		records = records[:opts.Limit]
	}
	return records, total, nil
}

func (m *memoryStudentRepository) Update(_ context.Context, student *Student) (*Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[student.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "student", Key: student.ID.String()}
	}
	if existing.Email != student.Email {
		delete(m.byEmail, existing.Email)
	}

	cloned := cloneStudent(student)
	m.byID[cloned.ID] = cloned
	if cloned.Email != "" {
		m.byEmail[cloned.Email] = cloned.ID
	}
	return cloneStudent(cloned), nil
}

func (m *memoryStudentRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.byID[id]
	if !ok {
		return &NotFoundError{Resource: "student", Key: id.String()}
	}
	delete(m.byEmail, record.Email)
	delete(m.byID, id)
	return nil
}

// NewMemoryConsentRepository constructs an in-memory consent repository.
func NewMemoryConsentRepository() ConsentRepository {
	return &memoryConsentRepository{
		byID:      make(map[uuid.UUID]*PrivacyConsent),
		byStudent: make(map[uuid.UUID][]uuid.UUID),
	}
}

type memoryConsentRepository struct {
	mu        sync.RWMutex
	byID      map[uuid.UUID]*PrivacyConsent
	byStudent map[uuid.UUID][]uuid.UUID
}

func (m *memoryConsentRepository) Create(_ context.Context, consent *PrivacyConsent) (*PrivacyConsent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneConsent(consent)
	m.byID[cloned.ID] = cloned
	m.byStudent[cloned.StudentID] = append(m.byStudent[cloned.StudentID], cloned.ID)
	return cloneConsent(cloned), nil
}

func (m *memoryConsentRepository) GetLatest(_ context.Context, studentID uuid.UUID, purpose domain.ConsentPurpose) (*PrivacyConsent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest *PrivacyConsent
	for _, id := range m.byStudent[studentID] {
		record := m.byID[id]
		if record == nil || record.Purpose != purpose {
			continue
		}
		// ties go to the later insertion so a superseding grant wins
		if latest == nil || !record.GrantedAt.Before(latest.GrantedAt) {
			latest = record
		}
	}
	if latest == nil {
		return nil, &NotFoundError{Resource: "privacy_consent", Key: consentKey(studentID, purpose)}
	}
	return cloneConsent(latest), nil
}

func (m *memoryConsentRepository) ListByStudent(_ context.Context, studentID uuid.UUID) ([]*PrivacyConsent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.byStudent[studentID]
	consents := make([]*PrivacyConsent, 0, len(ids))
	for _, id := range ids {
		consents = append(consents, cloneConsent(m.byID[id]))
	}
	sort.Slice(consents, func(i, j int) bool {
		return consents[i].GrantedAt.Before(consents[j].GrantedAt)
	})
	return consents, nil
}

func (m *memoryConsentRepository) Update(_ context.Context, consent *PrivacyConsent) (*PrivacyConsent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[consent.ID]; !ok {
		return nil, &NotFoundError{Resource: "privacy_consent", Key: consent.ID.String()}
	}
	cloned := cloneConsent(consent)
	m.byID[cloned.ID] = cloned
	return cloneConsent(cloned), nil
}

func cloneStudent(src *Student) *Student {
	if src == nil {
		return nil
	}
	cloned := *src
	cloned.BirthDate = cloneTimePtr(src.BirthDate)
	cloned.DeletedAt = cloneTimePtr(src.DeletedAt)
	if src.GuardianEmail != nil {
		value := *src.GuardianEmail
		cloned.GuardianEmail = &value
	}
	if src.Consents != nil {
		cloned.Consents = make([]*PrivacyConsent, len(src.Consents))
		for i, consent := range src.Consents {
			cloned.Consents[i] = cloneConsent(consent)
		}
	}
	return &cloned
}

func cloneConsent(src *PrivacyConsent) *PrivacyConsent {
	if src == nil {
		return nil
	}
	cloned := *src
	cloned.RevokedAt = cloneTimePtr(src.RevokedAt)
	if src.Student != nil {
		cloned.Student = cloneStudent(src.Student)
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
