package matching

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/carematch/internal/types"
)

// Engine produces ranked recommendations. It is immutable after NewEngine and safe for
// concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine validates cfg and returns an engine bound to it.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid matching config: %w", err)
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// RecommendJobsForWorker ranks the job pool for a worker and returns at most limit results.
// A nil pool is treated as empty.
func (e *Engine) RecommendJobsForWorker(ctx context.Context, w *types.WorkerProfile, jobs []types.JobPosting, limit int) ([]types.MatchResult, error) {
	if w == nil {
		return nil, &InternalError{Message: "nil worker anchor"}
	}
	if err := checkLimit(limit); err != nil {
		return nil, err
	}

	anchor, err := normalizeWorker(w)
	if err != nil {
		return nil, err
	}
	if err := checkIDs("job", len(jobs), func(i int) string { return jobs[i].ID }); err != nil {
		return nil, err
	}

	scores, err := e.scoreAll(ctx, len(jobs), func(i int) (pairScore, error) {
		j, err := normalizeJob(&jobs[i])
		if err != nil {
			return pairScore{}, err
		}
		return scorePair(anchor, j, e.cfg), nil
	})
	if err != nil {
		return nil, err
	}

	candidates := make([]Scored, len(jobs))
	for i := range jobs {
		candidates[i] = Scored{
			ID:         jobs[i].ID,
			MatchScore: scores[i].matchScore,
			Reputation: scores[i].scores[types.CriterionReputation].Value,
			TieKey:     float64(jobs[i].UrgencyLevel.Rank()),
			Index:      i,
		}
	}

	return e.results(candidates, limit, scores, func(i int) types.CandidateSummary {
		return types.SummarizeJob(&jobs[i])
	})
}

// RecommendWorkersForJob ranks the worker pool for a job and returns at most limit results.
// A nil pool is treated as empty.
func (e *Engine) RecommendWorkersForJob(ctx context.Context, j *types.JobPosting, workers []types.WorkerProfile, limit int) ([]types.MatchResult, error) {
	if j == nil {
		return nil, &InternalError{Message: "nil job anchor"}
	}
	if err := checkLimit(limit); err != nil {
		return nil, err
	}

	anchor, err := normalizeJob(j)
	if err != nil {
		return nil, err
	}
	if err := checkIDs("worker", len(workers), func(i int) string { return workers[i].ID }); err != nil {
		return nil, err
	}

	scores, err := e.scoreAll(ctx, len(workers), func(i int) (pairScore, error) {
		w, err := normalizeWorker(&workers[i])
		if err != nil {
			return pairScore{}, err
		}
		return scorePair(w, anchor, e.cfg), nil
	})
	if err != nil {
		return nil, err
	}

	candidates := make([]Scored, len(workers))
	for i := range workers {
		candidates[i] = Scored{
			ID:         workers[i].ID,
			MatchScore: scores[i].matchScore,
			Reputation: scores[i].scores[types.CriterionReputation].Value,
			TieKey:     workers[i].ExperienceYears,
			Index:      i,
		}
	}

	return e.results(candidates, limit, scores, func(i int) types.CandidateSummary {
		return types.SummarizeWorker(&workers[i])
	})
}

// ScorePair explains the score of a single worker/job pair.
func (e *Engine) ScorePair(w *types.WorkerProfile, j *types.JobPosting) (types.ScoreBreakdown, error) {
	if w == nil || j == nil {
		return types.ScoreBreakdown{}, &InternalError{Message: "nil profile or posting"}
	}
	nw, err := normalizeWorker(w)
	if err != nil {
		return types.ScoreBreakdown{}, err
	}
	nj, err := normalizeJob(j)
	if err != nil {
		return types.ScoreBreakdown{}, err
	}
	return scorePair(nw, nj, e.cfg).breakdown(), nil
}

func (e *Engine) results(candidates []Scored, limit int, scores []pairScore, summarize func(int) types.CandidateSummary) ([]types.MatchResult, error) {
	ranked, err := Rank(candidates, limit)
	if err != nil {
		return nil, err
	}

	results := make([]types.MatchResult, 0, len(ranked))
	for _, s := range ranked {
		b := scores[s.Index].breakdown()
		results = append(results, types.MatchResult{
			CandidateID:      s.ID,
			MatchScore:       b.MatchScore,
			Breakdown:        b.Breakdown,
			ExcludedCriteria: b.ExcludedCriteria,
			MatchedSkills:    b.MatchedSkills,
			MissingSkills:    b.MissingSkills,
			Notes:            b.Notes,
			CandidateSummary: summarize(s.Index),
		})
	}
	return results, nil
}

// scoreAll scores n candidates, in parallel when the pool is large enough. Results are
// stored by index, and when several candidates are invalid the lowest index is reported.
func (e *Engine) scoreAll(ctx context.Context, n int, score func(i int) (pairScore, error)) ([]pairScore, error) {
	out := make([]pairScore, n)

	if e.cfg.Parallelism <= 1 || n < e.cfg.ParallelThreshold {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			ps, err := score(i)
			if err != nil {
				return nil, err
			}
			out[i] = ps
		}
		return out, nil
	}

	errs := make([]error, n)
	var g errgroup.Group
	g.SetLimit(e.cfg.Parallelism)
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ps, err := score(i)
			if err != nil {
				errs[i] = err
				return nil
			}
			out[i] = ps
			return nil
		})
	}
	waitErr := g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	if waitErr != nil {
		return nil, waitErr
	}
	return out, nil
}

func checkLimit(limit int) error {
	if limit <= 0 {
		return &ValidationError{Entity: "request", Field: "limit", Message: "must be a positive integer"}
	}
	return nil
}

// checkIDs rejects empty and duplicate candidate ids so ranking ties always resolve.
func checkIDs(entity string, n int, id func(int) string) error {
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		key := id(i)
		if strings.TrimSpace(key) == "" {
			return &ValidationError{Entity: entity, Field: "id", Message: fmt.Sprintf("candidate at position %d has no id", i)}
		}
		if _, dup := seen[key]; dup {
			return &ValidationError{Entity: entity, ID: key, Field: "id", Message: "duplicate candidate id"}
		}
		seen[key] = struct{}{}
	}
	return nil
}
