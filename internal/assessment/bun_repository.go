package assessment

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-lms/internal/domain"
)

// BunAssessmentRepository implements AssessmentRepository with optional caching.
type BunAssessmentRepository struct {
	repo repository.Repository[*Assessment]
}

// NewBunAssessmentRepository creates an assessment repository without caching.
func NewBunAssessmentRepository(db *bun.DB) *BunAssessmentRepository {
	return NewBunAssessmentRepositoryWithCache(db, nil, nil)
}

// NewBunAssessmentRepositoryWithCache creates an assessment repository with caching.
func NewBunAssessmentRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunAssessmentRepository {
	base := NewAssessmentRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunAssessmentRepository{repo: base}
}

func (r *BunAssessmentRepository) Create(ctx context.Context, assessment *Assessment) (*Assessment, error) {
	record, err := r.repo.Create(ctx, assessment)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunAssessmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*Assessment, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "assessment", id.String())
	}
	return record, nil
}

func (r *BunAssessmentRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*Assessment, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.course_id = ?", courseID).Order("a.created_at ASC")
	}))
	return records, err
}

func (r *BunAssessmentRepository) Update(ctx context.Context, assessment *Assessment) (*Assessment, error) {
	record, err := r.repo.Update(ctx, assessment, repository.UpdateByID(assessment.ID.String()))
	if err != nil {
		return nil, mapRepositoryError(err, "assessment", assessment.ID.String())
	}
	return record, nil
}

func (r *BunAssessmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Assessment{ID: id}); err != nil {
		return mapRepositoryError(err, "assessment", id.String())
	}
	return nil
}

// BunAttemptRepository implements AttemptRepository on bun. Attempts are
// mutation-heavy, they stay uncached.
type BunAttemptRepository struct {
	db   *bun.DB
	repo repository.Repository[*Attempt]
}

// NewBunAttemptRepository creates an attempt repository.
func NewBunAttemptRepository(db *bun.DB) *BunAttemptRepository {
	return &BunAttemptRepository{db: db, repo: NewAttemptRepository(db)}
}

func (r *BunAttemptRepository) Create(ctx context.Context, attempt *Attempt) (*Attempt, error) {
	record, err := r.repo.Create(ctx, attempt)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunAttemptRepository) GetByID(ctx context.Context, id uuid.UUID) (*Attempt, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "attempt", id.String())
	}
	return record, nil
}

func (r *BunAttemptRepository) ListByAssessmentAndEnrollment(ctx context.Context, assessmentID, enrollmentID uuid.UUID) ([]*Attempt, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.assessment_id = ?", assessmentID).
			Where("?TableAlias.enrollment_id = ?", enrollmentID).
			Order("aa.attempt_number ASC")
	}))
	return records, err
}

func (r *BunAttemptRepository) ListByEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]*Attempt, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.enrollment_id = ?", enrollmentID).Order("aa.started_at ASC")
	}))
	return records, err
}

func (r *BunAttemptRepository) Update(ctx context.Context, attempt *Attempt) (*Attempt, error) {
	record, err := r.repo.Update(ctx, attempt, repository.UpdateByID(attempt.ID.String()))
	if err != nil {
		return nil, mapRepositoryError(err, "attempt", attempt.ID.String())
	}
	return record, nil
}

func (r *BunAttemptRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int, error) {
	result, err := r.db.NewDelete().
		Model((*Attempt)(nil)).
		Where("status = ?", domain.AttemptExpired).
		Where("updated_at < ?", cutoff).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("attempt purge failed: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return int(affected), nil
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
