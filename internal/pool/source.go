// Package pool supplies the anchors and candidate pools that the matching engine scores.
// Sources are read-only: they never change a profile or posting.
package pool

import (
	"context"
	"errors"

	"github.com/jonathan/carematch/internal/types"
)

// ErrNotFound is returned when a worker or job id is unknown.
var ErrNotFound = errors.New("not found")

// Source reads profiles and postings.
type Source interface {
	// Worker returns the worker with the given id or ErrNotFound.
	Worker(ctx context.Context, id string) (*types.WorkerProfile, error)
	// Job returns the posting with the given id or ErrNotFound.
	Job(ctx context.Context, id string) (*types.JobPosting, error)
	// PublishedJobs returns every posting open for matching, ordered by id.
	PublishedJobs(ctx context.Context) ([]types.JobPosting, error)
	// AvailableWorkers returns every worker accepting work, ordered by id.
	AvailableWorkers(ctx context.Context) ([]types.WorkerProfile, error)
}
