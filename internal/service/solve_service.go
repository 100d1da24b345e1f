package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/galymzhantore/teachload-api/internal/dto"
	"github.com/galymzhantore/teachload-api/internal/models"
	"github.com/galymzhantore/teachload-api/internal/solver"
	"github.com/galymzhantore/teachload-api/internal/store"
	appErrors "github.com/galymzhantore/teachload-api/pkg/errors"
)

// SolveConfig bounds solver runs accepted by the service.
type SolveConfig struct {
	DefaultTimeLimit time.Duration
	MaxTimeLimit     time.Duration
	CacheTTL         time.Duration
}

// SolveService runs solvers over stored instances and keeps their results.
// Routine solver outcomes, including infeasibility and timeouts, are
// carried in the stored result's status, never as service errors.
type SolveService struct {
	store     *store.MemoryStore
	cache     *store.ResultCache
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       SolveConfig
}

// NewSolveService wires solver dependencies. The cache may be nil.
func NewSolveService(
	memory *store.MemoryStore,
	cache *store.ResultCache,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg SolveConfig,
) *SolveService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultTimeLimit <= 0 {
		cfg.DefaultTimeLimit = 5 * time.Minute
	}
	if cfg.MaxTimeLimit <= 0 {
		cfg.MaxTimeLimit = 15 * time.Minute
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	return &SolveService{
		store:     memory,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// Solve runs the requested solver and stores the result under
// "{instance_id}_{solver}".
func (s *SolveService) Solve(ctx context.Context, req dto.SolveRequest) (*dto.SolveResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid solve payload")
	}

	instance, ok := s.store.Instance(req.InstanceID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "instance not found")
	}
	if err := instance.Validate(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInstanceInvalid.Code, appErrors.ErrInstanceInvalid.Status, err.Error())
	}

	resultID := store.ResultID(req.InstanceID, req.Solver)

	if cached := s.cachedResult(ctx, resultID); cached != nil {
		s.store.PutResult(resultID, req.InstanceID, cached)
		return solveResponse(resultID, cached), nil
	}

	params := s.params(req)
	run, err := solver.New(params)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	start := time.Now()
	result, err := run.Solve(ctx, instance)
	if err != nil {
		s.metrics.ObserveSolverRun(req.Solver, models.StatusError, time.Since(start))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "solver failed")
	}
	s.metrics.ObserveSolverRun(req.Solver, result.SolverStatus, time.Since(start))
	s.logger.Info("solver finished",
		zap.String("result_id", resultID),
		zap.String("solver", req.Solver),
		zap.String("status", string(result.SolverStatus)),
		zap.Float64("total_deviation", result.TotalDeviation),
		zap.Float64("seconds", result.ComputationTime),
	)

	s.store.PutResult(resultID, req.InstanceID, result)
	s.storeCached(ctx, resultID, result)

	return solveResponse(resultID, result), nil
}

// Result returns a stored result.
func (s *SolveService) Result(ctx context.Context, resultID string) (*models.OptimizationResult, error) {
	if resultID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "result id is required")
	}
	result, _, ok := s.store.Result(resultID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "result not found")
	}
	return result, nil
}

// Equity computes deviation statistics for a stored result against its
// instance's target loads.
func (s *SolveService) Equity(ctx context.Context, resultID string) (*models.EquityMetrics, error) {
	result, instanceID, ok := s.store.Result(resultID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "result not found")
	}
	instance, ok := s.store.Instance(instanceID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "instance for result not found")
	}
	targets := make(map[int]float64, len(instance.Faculty))
	for _, f := range instance.Faculty {
		targets[f.ID] = f.TargetLoad
	}
	metrics := result.Equity(targets)
	return &metrics, nil
}

func (s *SolveService) params(req dto.SolveRequest) solver.Params {
	timeLimit := s.cfg.DefaultTimeLimit
	if req.TimeLimitSeconds > 0 {
		timeLimit = time.Duration(req.TimeLimitSeconds) * time.Second
	}
	if timeLimit > s.cfg.MaxTimeLimit {
		timeLimit = s.cfg.MaxTimeLimit
	}

	params := solver.Params{
		Solver:    req.Solver,
		TimeLimit: timeLimit,
		Seed:      req.Seed,
	}
	if req.Genetic != nil {
		params.Genetic = solver.GeneticConfig{
			PopulationSize: req.Genetic.PopulationSize,
			Generations:    req.Genetic.Generations,
			EliteSize:      req.Genetic.EliteSize,
			CrossoverRate:  req.Genetic.CrossoverRate,
			MutationRate:   req.Genetic.MutationRate,
		}
	}
	if req.Annealing != nil {
		params.Annealing = solver.AnnealingConfig{
			InitialTemp:  req.Annealing.InitialTemp,
			CoolingRate:  req.Annealing.CoolingRate,
			MinTemp:      req.Annealing.MinTemp,
			StepsPerTemp: req.Annealing.StepsPerTemp,
		}
	}
	return params
}

func (s *SolveService) cachedResult(ctx context.Context, resultID string) *models.OptimizationResult {
	if s.cache == nil {
		return nil
	}
	start := time.Now()
	var cached models.OptimizationResult
	err := s.cache.Get(ctx, cacheKey(resultID), &cached)
	if err != nil {
		s.metrics.RecordCacheOperation(false, time.Since(start))
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("result cache get failed", zap.String("result_id", resultID), zap.Error(err))
		}
		return nil
	}
	s.metrics.RecordCacheOperation(true, time.Since(start))
	return &cached
}

func (s *SolveService) storeCached(ctx context.Context, resultID string, result *models.OptimizationResult) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(resultID), result, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("result cache set failed", zap.String("result_id", resultID), zap.Error(err))
	}
}

func cacheKey(resultID string) string {
	return "result:" + resultID
}

func solveResponse(resultID string, result *models.OptimizationResult) *dto.SolveResponse {
	return &dto.SolveResponse{
		ResultID:        resultID,
		Status:          result.SolverStatus,
		IsFeasible:      result.IsFeasible,
		TotalDeviation:  result.TotalDeviation,
		ComputationTime: result.ComputationTime,
	}
}
