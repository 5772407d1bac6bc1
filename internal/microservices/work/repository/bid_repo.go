package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"labourline/internal/domain"
)

type BidRepositoryInterface interface {
	// Upsert creates a PENDING bid or replaces the worker's existing
	// PENDING bid for the same work item (re-bidding updates the offer,
	// it does not stack).
	Upsert(ctx context.Context, b domain.Bid) (domain.Bid, error)
	GetByID(ctx context.Context, bidID string) (domain.Bid, error)
	ListForWork(ctx context.Context, workID string) ([]domain.Bid, error)

	// ResolveTx is the single-winner arbitration. In one transaction it
	// locks the work row, re-checks that the work is OPEN and the bid
	// PENDING, accepts the bid, rejects every sibling PENDING bid and
	// transitions the work to ACCEPTED with the bid amount as the final
	// budget. A concurrent resolve on the same work item loses with
	// ErrConflict.
	ResolveTx(ctx context.Context, bidID, employerID string) (domain.Work, domain.Bid, error)
}

type BidRepository struct {
	pool *pgxpool.Pool
}

func NewBidRepository(pool *pgxpool.Pool) BidRepositoryInterface {
	return &BidRepository{pool: pool}
}

const bidColumns = `id, work_id, worker_id, amount, COALESCE(comment, ''), status, created_at, updated_at`

func scanBid(row pgx.Row) (domain.Bid, error) {
	var b domain.Bid
	var status string
	err := row.Scan(&b.ID, &b.WorkID, &b.WorkerID, &b.Amount, &b.Comment, &status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return domain.Bid{}, err
	}
	b.Status = domain.BidStatus(status)
	return b, nil
}

func (r *BidRepository) Upsert(ctx context.Context, b domain.Bid) (domain.Bid, error) {
	// The partial unique index on (work_id, worker_id) WHERE status='PENDING'
	// makes this a replace of the worker's live offer.
	created, err := scanBid(r.pool.QueryRow(ctx, `
		INSERT INTO bids (id, work_id, worker_id, amount, comment, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 'PENDING', now(), now())
		ON CONFLICT (work_id, worker_id) WHERE status = 'PENDING'
		DO UPDATE SET amount = EXCLUDED.amount, comment = EXCLUDED.comment, updated_at = now()
		RETURNING `+bidColumns,
		b.ID, b.WorkID, b.WorkerID, b.Amount, b.Comment))
	if err != nil {
		return domain.Bid{}, fmt.Errorf("upsert bid: %w", err)
	}
	return created, nil
}

func (r *BidRepository) GetByID(ctx context.Context, bidID string) (domain.Bid, error) {
	b, err := scanBid(r.pool.QueryRow(ctx,
		`SELECT `+bidColumns+` FROM bids WHERE id = $1`, bidID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Bid{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Bid{}, fmt.Errorf("get bid: %w", err)
	}
	return b, nil
}

func (r *BidRepository) ListForWork(ctx context.Context, workID string) ([]domain.Bid, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+bidColumns+` FROM bids WHERE work_id = $1 ORDER BY created_at ASC`, workID)
	if err != nil {
		return nil, fmt.Errorf("list bids: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Bid, 0)
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bid: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BidRepository) ResolveTx(ctx context.Context, bidID, employerID string) (domain.Work, domain.Bid, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Work{}, domain.Bid{}, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	bid, err := scanBid(tx.QueryRow(ctx, `SELECT `+bidColumns+` FROM bids WHERE id = $1`, bidID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Work{}, domain.Bid{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Work{}, domain.Bid{}, fmt.Errorf("read bid: %w", err)
	}

	// Lock the work row first: arbitration on one work item serializes here.
	// A resolve blocked on this lock re-reads the winner's committed status
	// once the lock is granted and fails the OPEN check below.
	work, err := lockWork(ctx, tx, bid.WorkID)
	if err != nil {
		return domain.Work{}, domain.Bid{}, err
	}
	if work.EmployerID != employerID {
		return domain.Work{}, domain.Bid{}, domain.ErrNotFound
	}
	if work.Status != domain.StatusOpen {
		return domain.Work{}, domain.Bid{}, domain.ErrConflict
	}

	// Re-check the bid under the work lock; the first resolve may already
	// have rejected it.
	bid, err = scanBid(tx.QueryRow(ctx, `SELECT `+bidColumns+` FROM bids WHERE id = $1 FOR UPDATE`, bidID))
	if err != nil {
		return domain.Work{}, domain.Bid{}, fmt.Errorf("lock bid: %w", err)
	}
	if bid.Status != domain.BidPending {
		return domain.Work{}, domain.Bid{}, domain.ErrConflict
	}

	winner, err := scanBid(tx.QueryRow(ctx, `
		UPDATE bids SET status = 'ACCEPTED', updated_at = now()
		WHERE id = $1 RETURNING `+bidColumns, bidID))
	if err != nil {
		return domain.Work{}, domain.Bid{}, fmt.Errorf("accept bid: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE bids SET status = 'REJECTED', updated_at = now()
		WHERE work_id = $1 AND status = 'PENDING' AND id <> $2`,
		bid.WorkID, bidID); err != nil {
		return domain.Work{}, domain.Bid{}, fmt.Errorf("reject sibling bids: %w", err)
	}

	updated, err := scanWork(tx.QueryRow(ctx, `
		UPDATE works
		SET status = 'ACCEPTED', assigned_worker_id = $2, budget = $3,
		    accepted_at = now(), updated_at = now()
		WHERE id = $1
		RETURNING `+workColumns,
		bid.WorkID, winner.WorkerID, winner.Amount))
	if err != nil {
		return domain.Work{}, domain.Bid{}, fmt.Errorf("transition work: %w", err)
	}

	if err := appendStatusLog(ctx, tx, bid.WorkID, domain.StatusAccepted, employerID, "bid "+bidID+" accepted"); err != nil {
		return domain.Work{}, domain.Bid{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Work{}, domain.Bid{}, fmt.Errorf("commit: %w", err)
	}
	return updated, winner, nil
}
