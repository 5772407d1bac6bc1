package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"labourline/internal/domain"
)

type WorkRepositoryInterface interface {
	Create(ctx context.Context, w domain.Work) (domain.Work, error)
	GetByID(ctx context.Context, workID string) (domain.Work, error)
	ListOpen(ctx context.Context, category string) ([]domain.Work, error)
	ListByEmployer(ctx context.Context, employerID string) ([]domain.Work, error)
	ActiveForWorker(ctx context.Context, workerID string) (domain.Work, bool, error)

	// Conditional transitions. Each runs in its own transaction, locks the
	// work row and re-checks the status precondition under the lock, so a
	// concurrent caller loses with ErrConflict instead of overwriting.
	AcceptDirectTx(ctx context.Context, workID, workerID string) (domain.Work, error)
	StartTx(ctx context.Context, workID, workerID string) (domain.Work, error)
	CompleteTx(ctx context.Context, workID, employerID string) (domain.Work, error)
	CancelTx(ctx context.Context, workID, employerID, reason string) (domain.Work, error)
}

type WorkRepository struct {
	pool *pgxpool.Pool
}

func NewWorkRepository(pool *pgxpool.Pool) WorkRepositoryInterface {
	return &WorkRepository{pool: pool}
}

const workColumns = `id, employer_id, title, description, category, pricing_model,
	budget, budget_label, bidding_allowed, status, latitude, longitude, address,
	image_url, audio_url, COALESCE(assigned_worker_id, ''), accepted_at,
	completed_at, created_at, updated_at`

func scanWork(row pgx.Row) (domain.Work, error) {
	var w domain.Work
	var status string
	err := row.Scan(
		&w.ID, &w.EmployerID, &w.Title, &w.Description, &w.Category, &w.PricingModel,
		&w.Budget, &w.BudgetLabel, &w.BiddingAllowed, &status, &w.Latitude, &w.Longitude,
		&w.Address, &w.ImageURL, &w.AudioURL, &w.AssignedWorker, &w.AcceptedAt,
		&w.CompletedAt, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return domain.Work{}, err
	}
	w.Status = domain.WorkStatus(status)
	return w, nil
}

func (r *WorkRepository) Create(ctx context.Context, w domain.Work) (domain.Work, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Work{}, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	created, err := scanWork(tx.QueryRow(ctx, `
		INSERT INTO works
			(id, employer_id, title, description, category, pricing_model, budget,
			 budget_label, bidding_allowed, status, latitude, longitude, address,
			 image_url, audio_url, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,now(),now())
		RETURNING `+workColumns,
		w.ID, w.EmployerID, w.Title, w.Description, w.Category, w.PricingModel,
		w.Budget, w.BudgetLabel, w.BiddingAllowed, string(w.Status),
		w.Latitude, w.Longitude, w.Address, w.ImageURL, w.AudioURL,
	))
	if err != nil {
		return domain.Work{}, fmt.Errorf("insert work: %w", err)
	}

	if err := appendStatusLog(ctx, tx, created.ID, created.Status, created.EmployerID, "posted"); err != nil {
		return domain.Work{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Work{}, fmt.Errorf("commit: %w", err)
	}
	return created, nil
}

func (r *WorkRepository) GetByID(ctx context.Context, workID string) (domain.Work, error) {
	w, err := scanWork(r.pool.QueryRow(ctx,
		`SELECT `+workColumns+` FROM works WHERE id = $1`, workID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Work{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Work{}, fmt.Errorf("get work: %w", err)
	}
	return w, nil
}

func (r *WorkRepository) ListOpen(ctx context.Context, category string) ([]domain.Work, error) {
	base := `SELECT ` + workColumns + ` FROM works WHERE status = 'OPEN'`
	var (
		rows pgx.Rows
		err  error
	)
	if category != "" {
		rows, err = r.pool.Query(ctx, base+` AND category = $1 ORDER BY created_at DESC`, category)
	} else {
		rows, err = r.pool.Query(ctx, base+` ORDER BY created_at DESC`)
	}
	if err != nil {
		return nil, fmt.Errorf("list open works: %w", err)
	}
	defer rows.Close()
	return collectWorks(rows)
}

func (r *WorkRepository) ListByEmployer(ctx context.Context, employerID string) ([]domain.Work, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+workColumns+` FROM works WHERE employer_id = $1 ORDER BY created_at DESC`,
		employerID)
	if err != nil {
		return nil, fmt.Errorf("list employer works: %w", err)
	}
	defer rows.Close()
	return collectWorks(rows)
}

func (r *WorkRepository) ActiveForWorker(ctx context.Context, workerID string) (domain.Work, bool, error) {
	w, err := scanWork(r.pool.QueryRow(ctx,
		`SELECT `+workColumns+` FROM works
		 WHERE assigned_worker_id = $1 AND status IN ('ACCEPTED','IN_PROGRESS')
		 ORDER BY accepted_at DESC LIMIT 1`, workerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Work{}, false, nil
	}
	if err != nil {
		return domain.Work{}, false, fmt.Errorf("active work: %w", err)
	}
	return w, true, nil
}

// AcceptDirectTx is the OPEN→ACCEPTED compare-and-swap for non-bidding work.
// The loser of a race gets ErrConflict, never a silent no-op.
func (r *WorkRepository) AcceptDirectTx(ctx context.Context, workID, workerID string) (domain.Work, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Work{}, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	w, err := lockWork(ctx, tx, workID)
	if err != nil {
		return domain.Work{}, err
	}
	if w.BiddingAllowed {
		return domain.Work{}, domain.Validationf("this work takes bids; submit a bid instead")
	}
	if w.Status != domain.StatusOpen {
		return domain.Work{}, domain.ErrConflict
	}

	updated, err := scanWork(tx.QueryRow(ctx, `
		UPDATE works
		SET status = 'ACCEPTED', assigned_worker_id = $2, accepted_at = now(), updated_at = now()
		WHERE id = $1
		RETURNING `+workColumns, workID, workerID))
	if err != nil {
		return domain.Work{}, fmt.Errorf("accept work: %w", err)
	}
	if err := appendStatusLog(ctx, tx, workID, domain.StatusAccepted, workerID, "direct accept"); err != nil {
		return domain.Work{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Work{}, fmt.Errorf("commit: %w", err)
	}
	return updated, nil
}

// StartTx moves ACCEPTED→IN_PROGRESS; only the assigned worker may start.
func (r *WorkRepository) StartTx(ctx context.Context, workID, workerID string) (domain.Work, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Work{}, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	w, err := lockWork(ctx, tx, workID)
	if err != nil {
		return domain.Work{}, err
	}
	if w.AssignedWorker != workerID {
		return domain.Work{}, domain.ErrNotFound
	}
	if w.Status != domain.StatusAccepted {
		return domain.Work{}, domain.ErrConflict
	}

	updated, err := scanWork(tx.QueryRow(ctx, `
		UPDATE works SET status = 'IN_PROGRESS', updated_at = now()
		WHERE id = $1 RETURNING `+workColumns, workID))
	if err != nil {
		return domain.Work{}, fmt.Errorf("start work: %w", err)
	}
	if err := appendStatusLog(ctx, tx, workID, domain.StatusInProgress, workerID, ""); err != nil {
		return domain.Work{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Work{}, fmt.Errorf("commit: %w", err)
	}
	return updated, nil
}

// CompleteTx moves ACCEPTED/IN_PROGRESS→COMPLETED; only the owning employer
// may complete, and a second completion gets ErrConflict.
func (r *WorkRepository) CompleteTx(ctx context.Context, workID, employerID string) (domain.Work, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Work{}, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	w, err := lockWork(ctx, tx, workID)
	if err != nil {
		return domain.Work{}, err
	}
	if w.EmployerID != employerID {
		return domain.Work{}, domain.ErrNotFound
	}
	if !domain.IsTransitionAllowed(w.Status, domain.StatusCompleted) {
		return domain.Work{}, domain.ErrConflict
	}

	updated, err := scanWork(tx.QueryRow(ctx, `
		UPDATE works SET status = 'COMPLETED', completed_at = now(), updated_at = now()
		WHERE id = $1 RETURNING `+workColumns, workID))
	if err != nil {
		return domain.Work{}, fmt.Errorf("complete work: %w", err)
	}
	if err := appendStatusLog(ctx, tx, workID, domain.StatusCompleted, employerID, ""); err != nil {
		return domain.Work{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Work{}, fmt.Errorf("commit: %w", err)
	}
	return updated, nil
}

// CancelTx moves OPEN/ACCEPTED→CANCELLED by the owning employer.
func (r *WorkRepository) CancelTx(ctx context.Context, workID, employerID, reason string) (domain.Work, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Work{}, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	w, err := lockWork(ctx, tx, workID)
	if err != nil {
		return domain.Work{}, err
	}
	if w.EmployerID != employerID {
		return domain.Work{}, domain.ErrNotFound
	}
	if !domain.IsTransitionAllowed(w.Status, domain.StatusCancelled) {
		return domain.Work{}, domain.ErrConflict
	}

	updated, err := scanWork(tx.QueryRow(ctx, `
		UPDATE works SET status = 'CANCELLED', updated_at = now()
		WHERE id = $1 RETURNING `+workColumns, workID))
	if err != nil {
		return domain.Work{}, fmt.Errorf("cancel work: %w", err)
	}
	if err := appendStatusLog(ctx, tx, workID, domain.StatusCancelled, employerID, reason); err != nil {
		return domain.Work{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Work{}, fmt.Errorf("commit: %w", err)
	}
	return updated, nil
}

// lockWork reads the work row FOR UPDATE inside tx. Every conditional
// transition funnels through this lock so transitions on the same work item
// serialize while different items stay independent.
func lockWork(ctx context.Context, tx pgx.Tx, workID string) (domain.Work, error) {
	w, err := scanWork(tx.QueryRow(ctx,
		`SELECT `+workColumns+` FROM works WHERE id = $1 FOR UPDATE`, workID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Work{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Work{}, fmt.Errorf("lock work: %w", err)
	}
	return w, nil
}

func appendStatusLog(ctx context.Context, tx pgx.Tx, workID string, status domain.WorkStatus, changedBy, reason string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO work_status_log (work_id, status, changed_by, reason, changed_at)
		VALUES ($1, $2, $3, $4, now())`,
		workID, string(status), changedBy, reason)
	if err != nil {
		return fmt.Errorf("append status log: %w", err)
	}
	return nil
}

func collectWorks(rows pgx.Rows) ([]domain.Work, error) {
	out := make([]domain.Work, 0)
	for rows.Next() {
		w, err := scanWork(rows)
		if err != nil {
			return nil, fmt.Errorf("scan work: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}
