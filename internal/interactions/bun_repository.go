package interactions

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunRepository implements Repository on bun. Interaction logs are
// write-heavy and short-lived, they stay uncached.
type BunRepository struct {
	db   *bun.DB
	repo repository.Repository[*AIInteraction]
}

// NewBunRepository creates an AI interaction repository.
func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{
		db:   db,
		repo: NewInteractionRepository(db),
	}
}

func (r *BunRepository) Create(ctx context.Context, record *AIInteraction) (*AIInteraction, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunRepository) Update(ctx context.Context, record *AIInteraction) (*AIInteraction, error) {
	updated, err := r.repo.Update(ctx, record, repository.UpdateByID(record.ID.String()))
	if err != nil {
		return nil, mapRepositoryError(err, "ai interaction", record.ID.String())
	}
	return updated, nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*AIInteraction, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "ai interaction", id.String())
	}
	return record, nil
}

func (r *BunRepository) ListByStudent(ctx context.Context, studentID uuid.UUID, opts ListOptions) ([]*AIInteraction, int, error) {
	criteria := []repository.SelectCriteria{
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.student_id = ?", studentID).Order("ai.occurred_at DESC")
		}),
	}
	if opts.Since != nil {
		criteria = append(criteria, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.occurred_at >= ?", *opts.Since)
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

func (r *BunRepository) ListBySession(ctx context.Context, sessionID string) ([]*AIInteraction, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.session_id = ?", sessionID).Order("ai.occurred_at ASC")
	}))
	return records, err
}

func (r *BunRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	result, err := r.db.NewDelete().
		Model((*AIInteraction)(nil)).
		Where("occurred_at < ?", cutoff).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("ai interaction purge failed: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return int(affected), nil
}

func (r *BunRepository) DeleteByStudent(ctx context.Context, studentID uuid.UUID) (int, error) {
	result, err := r.db.NewDelete().
		Model((*AIInteraction)(nil)).
		Where("student_id = ?", studentID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("ai interaction erasure failed: %w", err)
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
