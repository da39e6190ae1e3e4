package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/carematch/internal/logger"
	"github.com/jonathan/carematch/internal/matching"
	"github.com/jonathan/carematch/internal/types"
)

// Recommendation directions, as named by the type query parameter.
const (
	TypeJobs    = "jobs"
	TypeWorkers = "workers"

	RoleWorker = "worker"
	RoleFamily = "family"
)

// maxBodyBytes bounds an inline recommendation request.
const maxBodyBytes = 4 << 20

var validate = newValidator()

// newValidator reports field errors under their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return v
}

// recommendRequest is the body of POST /matching/recommendations. The anchor and the
// pool travel inline; nothing is read from the candidate source.
type recommendRequest struct {
	Type   string               `json:"type" validate:"required,oneof=jobs workers"`
	Worker *types.WorkerProfile `json:"worker" validate:"-"`
	Job    *types.JobPosting    `json:"job" validate:"-"`
	Pool   struct {
		Jobs    []types.JobPosting    `json:"jobs"`
		Workers []types.WorkerProfile `json:"workers"`
	} `json:"pool" validate:"-"`
	Limit *int `json:"limit" validate:"omitempty,min=1"`
}

type weightsResponse struct {
	Weights         map[types.Criterion]float64 `json:"weights"`
	Criteria        []types.Criterion           `json:"criteria"`
	ReviewThreshold int                         `json:"reviewThreshold"`
}

// handleWeights returns the effective weight table.
func (s *Server) handleWeights(w http.ResponseWriter, _ *http.Request) {
	cfg := s.engine.Config()
	criteria := matching.Criteria()
	weights := make(map[types.Criterion]float64, len(criteria))
	for _, c := range criteria {
		weights[c] = cfg.Weights.Of(c)
	}
	s.jsonResponse(w, http.StatusOK, weightsResponse{
		Weights:         weights,
		Criteria:        criteria,
		ReviewThreshold: cfg.ReviewThreshold,
	})
}

// handleRecommendations serves GET /matching/recommendations. The anchor is looked up
// in the candidate source and scored against the matching pool.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ctx := r.Context()

	limit, err := s.parseLimit(q.Get("limit"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	kind, role := q.Get("type"), q.Get("role")
	var results []types.MatchResult

	switch {
	case kind == TypeJobs && role == RoleWorker:
		id := q.Get("workerId")
		if id == "" {
			s.handleError(w, r, &ErrValidation{Field: "workerId", Message: "is required"})
			return
		}
		s.logger.Debug("recommending jobs", logger.MatchFields(requestID(ctx), "jobs_for_worker", id)...)

		worker, err := s.source.Worker(ctx, id)
		if err != nil {
			s.handleError(w, r, fmt.Errorf("load worker: %w", err))
			return
		}
		jobs, err := s.source.PublishedJobs(ctx)
		if err != nil {
			s.handleError(w, r, fmt.Errorf("load published jobs: %w", err))
			return
		}
		results, err = s.engine.RecommendJobsForWorker(ctx, worker, jobs, limit)
		if err != nil {
			s.handleError(w, r, err)
			return
		}

	case kind == TypeWorkers && role == RoleFamily:
		id := q.Get("jobId")
		if id == "" {
			s.handleError(w, r, &ErrValidation{Field: "jobId", Message: "is required"})
			return
		}
		s.logger.Debug("recommending workers", logger.MatchFields(requestID(ctx), "workers_for_job", id)...)

		job, err := s.source.Job(ctx, id)
		if err != nil {
			s.handleError(w, r, fmt.Errorf("load job: %w", err))
			return
		}
		workers, err := s.source.AvailableWorkers(ctx)
		if err != nil {
			s.handleError(w, r, fmt.Errorf("load available workers: %w", err))
			return
		}
		results, err = s.engine.RecommendWorkersForJob(ctx, job, workers, limit)
		if err != nil {
			s.handleError(w, r, err)
			return
		}

	default:
		s.handleError(w, r, &ErrValidation{
			Field:   "type",
			Message: fmt.Sprintf("unsupported combination type=%q role=%q", kind, role),
		})
		return
	}

	s.jsonResponse(w, http.StatusOK, types.RecommendationsResponse{Recommendations: results})
}

// handleRecommendationsInline serves POST /matching/recommendations.
func (s *Server) handleRecommendationsInline(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		s.handleError(w, r, &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()})
		return
	}
	if err := validate.Struct(&req); err != nil {
		s.handleError(w, r, requestValidationError(err))
		return
	}

	limit := s.defaultLimit
	if req.Limit != nil {
		limit = *req.Limit
	}

	var (
		results []types.MatchResult
		err     error
	)
	switch req.Type {
	case TypeJobs:
		if req.Worker == nil {
			s.handleError(w, r, &ErrValidation{Field: "worker", Message: "is required when type is jobs"})
			return
		}
		results, err = s.engine.RecommendJobsForWorker(r.Context(), req.Worker, req.Pool.Jobs, limit)
	case TypeWorkers:
		if req.Job == nil {
			s.handleError(w, r, &ErrValidation{Field: "job", Message: "is required when type is workers"})
			return
		}
		results, err = s.engine.RecommendWorkersForJob(r.Context(), req.Job, req.Pool.Workers, limit)
	}
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, types.RecommendationsResponse{Recommendations: results})
}

func (s *Server) parseLimit(raw string) (int, error) {
	if raw == "" {
		return s.defaultLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, &ErrValidation{Field: "limit", Message: "must be a positive integer"}
	}
	return limit, nil
}

// requestValidationError reports the first failing field of a request body.
func requestValidationError(err error) error {
	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ErrValidation{Field: fe.Field(), Message: fmt.Sprintf("failed %q check", fe.Tag())}
	}
	return &ErrValidation{Field: "body", Message: err.Error()}
}
