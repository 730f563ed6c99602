package catalog

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

// BunCourseRepository implements CourseRepository with optional caching.
type BunCourseRepository struct {
	repo repository.Repository[*Course]
}

// NewBunCourseRepository creates a course repository without caching.
func NewBunCourseRepository(db *bun.DB) *BunCourseRepository {
	return NewBunCourseRepositoryWithCache(db, nil, nil)
}

// NewBunCourseRepositoryWithCache creates a course repository with caching.
func NewBunCourseRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunCourseRepository {
	base := NewCourseRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunCourseRepository{repo: base}
}

func (r *BunCourseRepository) Create(ctx context.Context, course *Course) (*Course, error) {
	record, err := r.repo.Create(ctx, course)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunCourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*Course, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "course", id.String())
	}
	return record, nil
}

func (r *BunCourseRepository) GetByCode(ctx context.Context, code string) (*Course, error) {
	record, err := r.repo.GetByIdentifier(ctx, code)
	if err != nil {
		return nil, mapRepositoryError(err, "course", code)
	}
	return record, nil
}

func (r *BunCourseRepository) List(ctx context.Context, opts ListCoursesOptions) ([]*Course, int, error) {
	criteria := []repository.SelectCriteria{}
	if opts.Status != "" {
		criteria = append(criteria, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.status = ?", opts.Status)
		}))
	}
	if opts.Tag != "" {
		criteria = append(criteria, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("? = ANY(?TableAlias.tags)", opts.Tag)
		}))
	}
	criteria = append(criteria, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("c.code ASC")
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

func (r *BunCourseRepository) Update(ctx context.Context, course *Course) (*Course, error) {
	record, err := r.repo.Update(ctx, course, repository.UpdateByID(course.ID.String()))
	if err != nil {
		return nil, mapRepositoryError(err, "course", course.ID.String())
	}
	return record, nil
}

func (r *BunCourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Course{ID: id}); err != nil {
		return mapRepositoryError(err, "course", id.String())
	}
	return nil
}

// BunLessonRepository implements LessonRepository with optional caching.
type BunLessonRepository struct {
	repo repository.Repository[*Lesson]
}

// NewBunLessonRepository creates a lesson repository without caching.
func NewBunLessonRepository(db *bun.DB) *BunLessonRepository {
	return NewBunLessonRepositoryWithCache(db, nil, nil)
}

// NewBunLessonRepositoryWithCache creates a lesson repository with caching.
func NewBunLessonRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunLessonRepository {
	base := NewLessonRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunLessonRepository{repo: base}
}

func (r *BunLessonRepository) Create(ctx context.Context, lesson *Lesson) (*Lesson, error) {
	record, err := r.repo.Create(ctx, lesson)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunLessonRepository) GetByID(ctx context.Context, id uuid.UUID) (*Lesson, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "lesson", id.String())
	}
	return record, nil
}

func (r *BunLessonRepository) GetBySlug(ctx context.Context, courseID uuid.UUID, slug string) (*Lesson, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.course_id = ?", courseID)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.slug = ?", slug)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "lesson", Key: lessonKey(courseID, slug)}
	}
	return records[0], nil
}

func (r *BunLessonRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*Lesson, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.course_id = ?", courseID).Order("l.position ASC")
		}),
	)
	return records, err
}

func (r *BunLessonRepository) Update(ctx context.Context, lesson *Lesson) (*Lesson, error) {
	record, err := r.repo.Update(ctx, lesson, repository.UpdateByID(lesson.ID.String()))
	if err != nil {
		return nil, mapRepositoryError(err, "lesson", lesson.ID.String())
	}
	return record, nil
}

func (r *BunLessonRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Lesson{ID: id}); err != nil {
		return mapRepositoryError(err, "lesson", id.String())
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
