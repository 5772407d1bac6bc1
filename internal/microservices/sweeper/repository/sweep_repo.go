package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"labourline/internal/domain"
)

type SweepRepositoryInterface interface {
	ExpireOpenWorks(ctx context.Context, olderThan time.Time) ([]domain.Work, error)
	RejectStaleBids(ctx context.Context, olderThan time.Time) (int64, error)
}

type SweepRepository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) SweepRepositoryInterface {
	return &SweepRepository{pool: pool}
}

// ExpireOpenWorks cancels every work item still OPEN past its TTL and
// appends the status log rows in the same transaction. The status filter in
// the UPDATE means a posting accepted mid-sweep is left alone.
func (r *SweepRepository) ExpireOpenWorks(ctx context.Context, olderThan time.Time) ([]domain.Work, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, `
		UPDATE works
		SET status = 'CANCELLED', updated_at = now()
		WHERE status = 'OPEN' AND created_at < $1
		RETURNING id, employer_id, title, budget`, olderThan)
	if err != nil {
		return nil, fmt.Errorf("expire works: %w", err)
	}

	var expired []domain.Work
	for rows.Next() {
		var w domain.Work
		if err := rows.Scan(&w.ID, &w.EmployerID, &w.Title, &w.Budget); err != nil {
			rows.Close()
			return nil, err
		}
		w.Status = domain.StatusCancelled
		expired = append(expired, w)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, w := range expired {
		if _, err := tx.Exec(ctx, `
			INSERT INTO work_status_log (work_id, status, changed_by, reason, changed_at)
			VALUES ($1, 'CANCELLED', 'sweeper', 'expired', now())`, w.ID); err != nil {
			return nil, fmt.Errorf("append status log: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return expired, nil
}

// RejectStaleBids flips PENDING bids older than the TTL to REJECTED and
// returns how many were touched. Only bids on still-OPEN work are swept;
// bids on resolved work are settled by the arbitration transaction.
func (r *SweepRepository) RejectStaleBids(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE bids
		SET status = 'REJECTED', updated_at = now()
		WHERE status = 'PENDING' AND created_at < $1
		  AND work_id IN (SELECT id FROM works WHERE status = 'OPEN')`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("reject stale bids: %w", err)
	}
	return tag.RowsAffected(), nil
}
