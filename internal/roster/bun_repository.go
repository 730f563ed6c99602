package roster

import (
	"context"
	"fmt"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-lms/internal/domain"
)

// BunStudentRepository implements StudentRepository with optional caching.
type BunStudentRepository struct {
	repo repository.Repository[*Student]
}

// NewBunStudentRepository creates a student repository without caching.
func NewBunStudentRepository(db *bun.DB) *BunStudentRepository {
	return NewBunStudentRepositoryWithCache(db, nil, nil)
}

// NewBunStudentRepositoryWithCache creates a student repository with caching.
func NewBunStudentRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunStudentRepository {
	base := NewStudentRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunStudentRepository{repo: base}
}

func (r *BunStudentRepository) Create(ctx context.Context, student *Student) (*Student, error) {
	record, err := r.repo.Create(ctx, student)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunStudentRepository) GetByID(ctx context.Context, id uuid.UUID) (*Student, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "student", id.String())
	}
	return record, nil
}

func (r *BunStudentRepository) GetByEmail(ctx context.Context, email string) (*Student, error) {
	record, err := r.repo.GetByIdentifier(ctx, email)
	if err != nil {
		return nil, mapRepositoryError(err, "student", email)
	}
	return record, nil
}

func (r *BunStudentRepository) List(ctx context.Context, opts ListStudentsOptions) ([]*Student, int, error) {
	criteria := []repository.SelectCriteria{}
	if opts.ActiveOnly {
		criteria = append(criteria, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.active = ?", true)
		}))
	}
	criteria = append(criteria, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("s.email ASC")
	}))
	if opts.Limit > 0 {
		criteria = append(criteria, repository.SelectPaginate(opts.Limit, opts.Offset))
	}
	records, total, err := r.repo.List(ctx, criteria...)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *BunStudentRepository) Update(ctx context.Context, student *Student) (*Student, error) {
	record, err := r.repo.Update(ctx, student, repository.UpdateByID(student.ID.String()))
	if err != nil {
		return nil, mapRepositoryError(err, "student", student.ID.String())
	}
	return record, nil
}

func (r *BunStudentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Student{ID: id}); err != nil {
		return mapRepositoryError(err, "student", id.String())
	}
	return nil
}

// BunConsentRepository implements ConsentRepository.
type BunConsentRepository struct {
	repo repository.Repository[*PrivacyConsent]
}

// NewBunConsentRepository creates a consent repository.
func NewBunConsentRepository(db *bun.DB) *BunConsentRepository {
	return &BunConsentRepository{repo: NewConsentRepository(db)}
}

func (r *BunConsentRepository) Create(ctx context.Context, consent *PrivacyConsent) (*PrivacyConsent, error) {
	record, err := r.repo.Create(ctx, consent)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunConsentRepository) GetLatest(ctx context.Context, studentID uuid.UUID, purpose domain.ConsentPurpose) (*PrivacyConsent, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.student_id = ?", studentID).
				Where("?TableAlias.purpose = ?", purpose).
				Order("pc.granted_at DESC").
				Order("pc.created_at DESC")
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "privacy_consent", Key: consentKey(studentID, purpose)}
	}
	return records[0], nil
}

func (r *BunConsentRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*PrivacyConsent, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.student_id = ?", studentID).Order("pc.granted_at ASC")
	}))
	return records, err
}

func (r *BunConsentRepository) Update(ctx context.Context, consent *PrivacyConsent) (*PrivacyConsent, error) {
	record, err := r.repo.Update(ctx, consent, repository.UpdateByID(consent.ID.String()))
	if err != nil {
		return nil, mapRepositoryError(err, "privacy_consent", consent.ID.String())
	}
	return record, nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if errors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
