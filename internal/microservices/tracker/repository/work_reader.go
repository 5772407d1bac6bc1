package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"labourline/internal/domain"
)

type WorkReaderInterface interface {
	GetByID(ctx context.Context, workID string) (domain.Work, error)
	ActiveForWorker(ctx context.Context, workerID string) (domain.Work, bool, error)
}

// WorkReader is the tracker's read-only view of the works table. All writes
// to works stay in the work service; the tracker only needs coordinates,
// status and assignment.
type WorkReader struct {
	pool *pgxpool.Pool
}

func NewWorkReader(pool *pgxpool.Pool) WorkReaderInterface {
	return &WorkReader{pool: pool}
}

const readerColumns = `id, employer_id, title, status, latitude, longitude,
	COALESCE(assigned_worker_id, '')`

func scanReaderWork(row pgx.Row) (domain.Work, error) {
	var w domain.Work
	var status string
	err := row.Scan(&w.ID, &w.EmployerID, &w.Title, &status, &w.Latitude, &w.Longitude, &w.AssignedWorker)
	if err != nil {
		return domain.Work{}, err
	}
	w.Status = domain.WorkStatus(status)
	return w, nil
}

func (r *WorkReader) GetByID(ctx context.Context, workID string) (domain.Work, error) {
	w, err := scanReaderWork(r.pool.QueryRow(ctx,
		`SELECT `+readerColumns+` FROM works WHERE id = $1`, workID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Work{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Work{}, err
	}
	return w, nil
}

func (r *WorkReader) ActiveForWorker(ctx context.Context, workerID string) (domain.Work, bool, error) {
	w, err := scanReaderWork(r.pool.QueryRow(ctx, `
		SELECT `+readerColumns+`
		FROM works
		WHERE assigned_worker_id = $1 AND status IN ('ACCEPTED', 'IN_PROGRESS')
		ORDER BY updated_at DESC
		LIMIT 1`, workerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Work{}, false, nil
	}
	if err != nil {
		return domain.Work{}, false, err
	}
	return w, true, nil
}
