package pool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/carematch/internal/types"
)

// ErrCacheMiss is returned by a Store when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// DefaultCacheTTL is used when no TTL is configured.
const DefaultCacheTTL = 5 * time.Minute

const (
	keyPublishedJobs    = "carematch:pool:published_jobs"
	keyAvailableWorkers = "carematch:pool:available_workers"
)

// Store is a byte-oriented key/value cache with expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedConfig holds configuration for the cached source.
type CachedConfig struct {
	TTL    time.Duration
	Logger *zap.Logger
}

// Cached wraps a Source and keeps the two candidate pools in a Store. Lookups by id
// always go to the underlying source so anchors are never stale. Cache failures are
// logged and fall back to the source.
type Cached struct {
	src   Source
	store Store
	ttl   time.Duration
	log   *zap.Logger
}

// NewCached creates a cached source.
func NewCached(src Source, store Store, config *CachedConfig) *Cached {
	if config == nil {
		config = &CachedConfig{}
	}
	ttl := config.TTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	log := config.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Cached{src: src, store: store, ttl: ttl, log: log}
}

func (c *Cached) Worker(ctx context.Context, id string) (*types.WorkerProfile, error) {
	return c.src.Worker(ctx, id)
}

func (c *Cached) Job(ctx context.Context, id string) (*types.JobPosting, error) {
	return c.src.Job(ctx, id)
}

func (c *Cached) PublishedJobs(ctx context.Context) ([]types.JobPosting, error) {
	var jobs []types.JobPosting
	if c.lookup(ctx, keyPublishedJobs, &jobs) {
		return jobs, nil
	}
	jobs, err := c.src.PublishedJobs(ctx)
	if err != nil {
		return nil, err
	}
	c.save(ctx, keyPublishedJobs, jobs)
	return jobs, nil
}

func (c *Cached) AvailableWorkers(ctx context.Context) ([]types.WorkerProfile, error) {
	var workers []types.WorkerProfile
	if c.lookup(ctx, keyAvailableWorkers, &workers) {
		return workers, nil
	}
	workers, err := c.src.AvailableWorkers(ctx)
	if err != nil {
		return nil, err
	}
	c.save(ctx, keyAvailableWorkers, workers)
	return workers, nil
}

// Refresh reloads both pools from the source and overwrites the cached copies.
func (c *Cached) Refresh(ctx context.Context) error {
	jobs, err := c.src.PublishedJobs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load published jobs: %w", err)
	}
	workers, err := c.src.AvailableWorkers(ctx)
	if err != nil {
		return fmt.Errorf("failed to load available workers: %w", err)
	}

	if err := c.put(ctx, keyPublishedJobs, jobs); err != nil {
		return err
	}
	if err := c.put(ctx, keyAvailableWorkers, workers); err != nil {
		return err
	}
	c.log.Debug("candidate pools refreshed", zap.Int("jobs", len(jobs)), zap.Int("workers", len(workers)))
	return nil
}

func (c *Cached) lookup(ctx context.Context, key string, out any) bool {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			c.log.Warn("pool cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.log.Warn("pool cache entry is corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *Cached) save(ctx context.Context, key string, v any) {
	if err := c.put(ctx, key, v); err != nil {
		c.log.Warn("pool cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *Cached) put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		return fmt.Errorf("failed to cache %s: %w", key, err)
	}
	return nil
}
