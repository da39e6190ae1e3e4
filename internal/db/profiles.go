package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/carematch/internal/pool"
	"github.com/jonathan/carematch/internal/types"
)

// -----------------------------------------------------------------------------
// Worker Profile Methods
// -----------------------------------------------------------------------------

const workerColumns = `id, display_name, available, attributes`

// Worker retrieves a worker profile by id.
func (db *DB) Worker(ctx context.Context, id string) (*types.WorkerProfile, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+workerColumns+` FROM worker_profiles WHERE id = $1`, id)
	w, err := scanWorker(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("worker %s: %w", id, pool.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get worker profile: %w", err)
	}
	return w, nil
}

// AvailableWorkers lists workers accepting new work, ordered by id.
func (db *DB) AvailableWorkers(ctx context.Context) ([]types.WorkerProfile, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+workerColumns+` FROM worker_profiles WHERE available ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list available workers: %w", err)
	}
	defer rows.Close()

	var workers []types.WorkerProfile
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan worker profile: %w", err)
		}
		workers = append(workers, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list available workers: %w", err)
	}
	return workers, nil
}

func scanWorker(row pgx.Row) (*types.WorkerProfile, error) {
	var (
		id, name  string
		available bool
		attrs     map[string]any
	)
	if err := row.Scan(&id, &name, &available, &attrs); err != nil {
		return nil, err
	}
	return DecodeWorker(id, name, available, attrs)
}

// -----------------------------------------------------------------------------
// Job Posting Methods
// -----------------------------------------------------------------------------

const jobColumns = `id, title, status, attributes`

// Job retrieves a job posting by id, whatever its status.
func (db *DB) Job(ctx context.Context, id string) (*types.JobPosting, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM job_postings WHERE id = $1`, id)
	j, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("job %s: %w", id, pool.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}
	return j, nil
}

// PublishedJobs lists postings open for matching, ordered by id.
func (db *DB) PublishedJobs(ctx context.Context) ([]types.JobPosting, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM job_postings WHERE status = $1 ORDER BY id`,
		string(types.JobStatusPublished))
	if err != nil {
		return nil, fmt.Errorf("failed to list published jobs: %w", err)
	}
	defer rows.Close()

	var jobs []types.JobPosting
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job posting: %w", err)
		}
		jobs = append(jobs, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list published jobs: %w", err)
	}
	return jobs, nil
}

func scanJob(row pgx.Row) (*types.JobPosting, error) {
	var (
		id, title, status string
		attrs             map[string]any
	)
	if err := row.Scan(&id, &title, &status, &attrs); err != nil {
		return nil, err
	}
	return DecodeJob(id, title, types.JobStatus(status), attrs)
}
