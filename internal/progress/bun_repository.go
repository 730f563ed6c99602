package progress

import (
	"context"
	"fmt"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunRepository implements Repository with optional caching.
type BunRepository struct {
	repo repository.Repository[*LessonProgress]
}

// NewBunRepository creates a lesson progress repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache creates a lesson progress repository with caching.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	base := NewLessonProgressRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunRepository{repo: base}
}

func (r *BunRepository) Create(ctx context.Context, record *LessonProgress) (*LessonProgress, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*LessonProgress, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "lesson progress", id.String())
	}
	return record, nil
}

func (r *BunRepository) GetByPair(ctx context.Context, enrollmentID, lessonID uuid.UUID) (*LessonProgress, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.enrollment_id = ?", enrollmentID).
				Where("?TableAlias.lesson_id = ?", lessonID)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "lesson progress", Key: pairKey(enrollmentID, lessonID)}
	}
	return records[0], nil
}

func (r *BunRepository) ListByEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]*LessonProgress, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.enrollment_id = ?", enrollmentID).Order("lp.created_at ASC")
	}))
	return records, err
}

func (r *BunRepository) Update(ctx context.Context, record *LessonProgress) (*LessonProgress, error) {
	updated, err := r.repo.Update(ctx, record, repository.UpdateByID(record.ID.String()))
	if err != nil {
		return nil, mapRepositoryError(err, "lesson progress", record.ID.String())
	}
	return updated, nil
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
