package pool

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonathan/carematch/internal/types"
)

type memStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
	getHits int
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte), ttls: make(map[string]time.Duration)}
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	data, ok := s.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	s.getHits++
	return data, nil
}

func (s *memStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.data[key] = value
	s.ttls[key] = ttl
	return nil
}

// countingSource wraps a Source and counts pool loads.
type countingSource struct {
	Source
	mu          sync.Mutex
	jobLoads    int
	workerLoads int
	err         error
}

func (c *countingSource) PublishedJobs(ctx context.Context) ([]types.JobPosting, error) {
	c.mu.Lock()
	c.jobLoads++
	err := c.err
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return c.Source.PublishedJobs(ctx)
}

func (c *countingSource) AvailableWorkers(ctx context.Context) ([]types.WorkerProfile, error) {
	c.mu.Lock()
	c.workerLoads++
	err := c.err
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return c.Source.AvailableWorkers(ctx)
}

var errBoom = errors.New("boom")
