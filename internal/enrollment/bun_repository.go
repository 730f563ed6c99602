package enrollment

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

// BunRepository implements Repository with optional caching.
type BunRepository struct {
	repo repository.Repository[*Enrollment]
}

// NewBunRepository creates an enrollment repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache creates an enrollment repository with caching.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	base := NewEnrollmentRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunRepository{repo: base}
}

func (r *BunRepository) Create(ctx context.Context, enrollment *Enrollment) (*Enrollment, error) {
	record, err := r.repo.Create(ctx, enrollment)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Enrollment, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "enrollment", id.String())
	}
	return record, nil
}

func (r *BunRepository) GetActiveByPair(ctx context.Context, studentID, courseID uuid.UUID) (*Enrollment, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.student_id = ?", studentID).
				Where("?TableAlias.course_id = ?", courseID).
				Where("?TableAlias.status IN (?)", bun.In([]domain.EnrollmentStatus{
					domain.EnrollmentActive,
					domain.EnrollmentSuspended,
				}))
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "enrollment", Key: pairKey(studentID, courseID)}
	}
	return records[0], nil
}

func (r *BunRepository) ListByCourse(ctx context.Context, courseID uuid.UUID, opts ListOptions) ([]*Enrollment, int, error) {
	criteria := []repository.SelectCriteria{
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.course_id = ?", courseID).Order("e.enrolled_at ASC")
		}),
	}
	if opts.Status != "" {
		criteria = append(criteria, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.status = ?", opts.Status)
		}))
	}
	if opts.Limit > 0 {
		criteria = append(criteria, repository.SelectPaginate(opts.Limit, opts.Offset))
	}
	records, total, err := r.repo.List(ctx, criteria...)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *BunRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*Enrollment, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.student_id = ?", studentID).Order("e.enrolled_at ASC")
	}))
	return records, err
}

func (r *BunRepository) CountActiveByCourse(ctx context.Context, courseID uuid.UUID) (int, error) {
	_, total, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.course_id = ?", courseID).
				Where("?TableAlias.status = ?", domain.EnrollmentActive)
		}),
	)
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *BunRepository) Update(ctx context.Context, enrollment *Enrollment) (*Enrollment, error) {
	record, err := r.repo.Update(ctx, enrollment, repository.UpdateByID(enrollment.ID.String()))
	if err != nil {
		return nil, mapRepositoryError(err, "enrollment", enrollment.ID.String())
	}
	return record, nil
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Enrollment{ID: id}); err != nil {
		return mapRepositoryError(err, "enrollment", id.String())
	}
	return nil
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
