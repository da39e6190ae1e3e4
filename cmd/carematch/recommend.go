package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/carematch/internal/logger"
	"github.com/jonathan/carematch/internal/matching"
	"github.com/jonathan/carematch/internal/observability"
	"github.com/jonathan/carematch/internal/pool"
	"github.com/jonathan/carematch/internal/schemas"
	"github.com/jonathan/carematch/internal/types"
)

const promptDone = "done"

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank a candidate pool file for one anchor",
	Long: `Rank the candidates in a pool file (YAML or JSON with "workers" and "jobs")
for a single anchor and print the recommendations as JSON.

With --type jobs the anchor is a worker and published jobs are ranked; with
--type workers the anchor is a job and available workers are ranked. The anchor
is read from --anchor, or looked up in the pool file by --anchor-id.`,
	RunE: runRecommend,
}

type recommendOptions struct {
	anchorFile  string
	anchorID    string
	poolFile    string
	kind        string
	limit       int
	outFile     string
	verbose     bool
	interactive bool
}

var recOpts recommendOptions

func init() {
	recommendCmd.Flags().StringVarP(&recOpts.anchorFile, "anchor", "a", "", "Path to the anchor profile or posting (YAML or JSON)")
	recommendCmd.Flags().StringVar(&recOpts.anchorID, "anchor-id", "", "Id of the anchor inside the pool file")
	recommendCmd.Flags().StringVarP(&recOpts.poolFile, "pool", "p", "", "Path to the candidate pool file (YAML or JSON)")
	recommendCmd.Flags().StringVarP(&recOpts.kind, "type", "t", "jobs", "What to recommend: jobs or workers")
	recommendCmd.Flags().IntVarP(&recOpts.limit, "limit", "n", 0, "Maximum number of results (default server.default_limit)")
	recommendCmd.Flags().StringVarP(&recOpts.outFile, "out", "o", "", "Write JSON to this file instead of stdout")
	recommendCmd.Flags().BoolVarP(&recOpts.verbose, "verbose", "v", false, "Print a summary box to stderr")
	recommendCmd.Flags().BoolVarP(&recOpts.interactive, "interactive", "i", false, "Pick results to see their full breakdown")
	_ = recommendCmd.MarkFlagRequired("pool")

	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	engine, err := matching.NewEngine(cfg.Matching)
	if err != nil {
		return fmt.Errorf("invalid matching configuration: %w", err)
	}

	opts := recOpts
	if opts.limit == 0 {
		opts.limit = cfg.Server.DefaultLimit
	}

	r := &recommender{
		engine: engine,
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
		log:    log,
		choose: promptChoose,
	}
	return r.run(cmd.Context(), opts)
}

// chooser asks the user to pick one of items and returns its index.
type chooser func(label string, items []string) (int, error)

func promptChoose(label string, items []string) (int, error) {
	prompt := promptui.Select{
		Label: label,
		Items: items,
		Size:  10,
	}
	idx, _, err := prompt.Run()
	return idx, err
}

// recommender runs one recommend invocation.
type recommender struct {
	engine *matching.Engine
	out    io.Writer
	errOut io.Writer
	log    *zap.Logger
	choose chooser
}

func (r *recommender) run(ctx context.Context, opts recommendOptions) error {
	if (opts.anchorFile == "") == (opts.anchorID == "") {
		return errors.New("exactly one of --anchor or --anchor-id is required")
	}
	if opts.limit <= 0 {
		return fmt.Errorf("--limit must be positive, got %d", opts.limit)
	}

	candidates, err := pool.LoadMemory(opts.poolFile)
	if err != nil {
		return err
	}

	var (
		resp    types.RecommendationsResponse
		explain func(candidateID string) (types.ScoreBreakdown, error)
		anchor  string
	)

	switch opts.kind {
	case "jobs":
		worker, err := r.loadWorker(ctx, candidates, opts)
		if err != nil {
			return err
		}
		anchor = worker.ID
		jobs, err := candidates.PublishedJobs(ctx)
		if err != nil {
			return err
		}
		r.log.Debug("ranking jobs", append(logger.MatchFields("", "jobs_for_worker", anchor), zap.Int("pool", len(jobs)))...)
		resp.Recommendations, err = r.engine.RecommendJobsForWorker(ctx, worker, jobs, opts.limit)
		if err != nil {
			return err
		}
		explain = func(id string) (types.ScoreBreakdown, error) {
			job, err := candidates.Job(ctx, id)
			if err != nil {
				return types.ScoreBreakdown{}, err
			}
			return r.engine.ScorePair(worker, job)
		}

	case "workers":
		job, err := r.loadJob(ctx, candidates, opts)
		if err != nil {
			return err
		}
		anchor = job.ID
		workers, err := candidates.AvailableWorkers(ctx)
		if err != nil {
			return err
		}
		r.log.Debug("ranking workers", append(logger.MatchFields("", "workers_for_job", anchor), zap.Int("pool", len(workers)))...)
		resp.Recommendations, err = r.engine.RecommendWorkersForJob(ctx, job, workers, opts.limit)
		if err != nil {
			return err
		}
		explain = func(id string) (types.ScoreBreakdown, error) {
			worker, err := candidates.Worker(ctx, id)
			if err != nil {
				return types.ScoreBreakdown{}, err
			}
			return r.engine.ScorePair(worker, job)
		}

	default:
		return fmt.Errorf("--type must be jobs or workers, got %q", opts.kind)
	}

	if err := r.write(resp, opts.outFile); err != nil {
		return err
	}

	printer := observability.NewPrinter(r.errOut)
	if opts.verbose {
		printer.PrintRecommendations(fmt.Sprintf("TOP %s FOR %s", strings.ToUpper(opts.kind), anchor), &resp)
	}
	if opts.interactive {
		return r.browse(resp.Recommendations, explain, printer)
	}
	return nil
}

func (r *recommender) loadWorker(ctx context.Context, candidates *pool.Memory, opts recommendOptions) (*types.WorkerProfile, error) {
	if opts.anchorID != "" {
		return candidates.Worker(ctx, opts.anchorID)
	}
	var w types.WorkerProfile
	if err := readDocument(opts.anchorFile, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *recommender) loadJob(ctx context.Context, candidates *pool.Memory, opts recommendOptions) (*types.JobPosting, error) {
	if opts.anchorID != "" {
		return candidates.Job(ctx, opts.anchorID)
	}
	var j types.JobPosting
	if err := readDocument(opts.anchorFile, &j); err != nil {
		return nil, err
	}
	return &j, nil
}

// readDocument decodes a YAML or JSON file; JSON is read as YAML.
func readDocument(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// write emits resp as indented JSON. A schema mismatch is reported but does not fail the run.
func (r *recommender) write(resp types.RecommendationsResponse, outFile string) error {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}
	if err := schemas.Validate(schemas.MatchResults, data); err != nil {
		r.log.Warn("output does not match schema", zap.Error(err))
		fmt.Fprintf(r.errOut, "Warning: %v\n", err)
	}

	data = append(data, '\n')
	if outFile == "" {
		_, err = r.out.Write(data)
		return err
	}
	if err := os.WriteFile(outFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(r.errOut, "Wrote %d recommendations to %s\n", len(resp.Recommendations), outFile)
	return nil
}

// browse lets the user open the breakdown of any result until they pick done.
func (r *recommender) browse(results []types.MatchResult, explain func(string) (types.ScoreBreakdown, error), printer *observability.Printer) error {
	if len(results) == 0 {
		return nil
	}

	items := make([]string, 0, len(results)+1)
	for _, res := range results {
		items = append(items, fmt.Sprintf("%s (%d)", res.CandidateID, res.MatchScore))
	}
	items = append(items, promptDone)

	for {
		idx, err := r.choose("Choose a candidate and press ENTER", items)
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(results) {
			return nil
		}

		id := results[idx].CandidateID
		b, err := explain(id)
		if err != nil {
			return err
		}
		printer.PrintBreakdown(id, &b)
	}
}
