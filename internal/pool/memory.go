package pool

import (
	"context"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/carematch/internal/types"
)

// Fixtures is the on-disk layout of a fixture file. JSON files parse too.
type Fixtures struct {
	Workers []types.WorkerProfile `yaml:"workers" json:"workers"`
	Jobs    []types.JobPosting    `yaml:"jobs" json:"jobs"`
}

// Memory is a Source over a fixed set of profiles and postings.
type Memory struct {
	workers map[string]types.WorkerProfile
	jobs    map[string]types.JobPosting

	available []types.WorkerProfile
	published []types.JobPosting
}

// NewMemory builds a Memory source. Later entries win when ids repeat.
func NewMemory(workers []types.WorkerProfile, jobs []types.JobPosting) *Memory {
	m := &Memory{
		workers: make(map[string]types.WorkerProfile, len(workers)),
		jobs:    make(map[string]types.JobPosting, len(jobs)),
	}
	for _, w := range workers {
		m.workers[w.ID] = w
	}
	for _, j := range jobs {
		m.jobs[j.ID] = j
	}

	for _, w := range m.workers {
		if w.Available {
			m.available = append(m.available, w)
		}
	}
	for _, j := range m.jobs {
		if j.Status.Matchable() {
			m.published = append(m.published, j)
		}
	}
	sort.Slice(m.available, func(i, j int) bool { return m.available[i].ID < m.available[j].ID })
	sort.Slice(m.published, func(i, j int) bool { return m.published[i].ID < m.published[j].ID })

	return m
}

// LoadFixtures reads a YAML or JSON fixture file.
func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures %s: %w", path, err)
	}
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures %s: %w", path, err)
	}
	return &f, nil
}

// LoadMemory builds a Memory source from a fixture file.
func LoadMemory(path string) (*Memory, error) {
	f, err := LoadFixtures(path)
	if err != nil {
		return nil, err
	}
	return NewMemory(f.Workers, f.Jobs), nil
}

func (m *Memory) Worker(_ context.Context, id string) (*types.WorkerProfile, error) {
	w, ok := m.workers[id]
	if !ok {
		return nil, fmt.Errorf("worker %s: %w", id, ErrNotFound)
	}
	return &w, nil
}

func (m *Memory) Job(_ context.Context, id string) (*types.JobPosting, error) {
	j, ok := m.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	return &j, nil
}

func (m *Memory) PublishedJobs(ctx context.Context) ([]types.JobPosting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]types.JobPosting(nil), m.published...), nil
}

func (m *Memory) AvailableWorkers(ctx context.Context) ([]types.WorkerProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]types.WorkerProfile(nil), m.available...), nil
}
