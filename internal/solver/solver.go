package solver

import (
	"context"
	"fmt"
	"time"

	"github.com/galymzhantore/teachload-api/internal/models"
)

// Solver kinds accepted by the API. The exact kinds keep the names of the
// backends they emulate so existing clients keep working.
const (
	KindORTools   = "ortools"
	KindPuLP      = "pulp"
	KindGenetic   = "genetic"
	KindAnnealing = "sa"
)

// Solver runs one optimization over an instance. Routine problem outcomes
// (infeasibility, timeouts) are encoded in the result status, never as errors.
type Solver interface {
	Name() string
	Solve(ctx context.Context, instance *models.Instance) (*models.OptimizationResult, error)
}

// EvaluatorConfig tunes the shared metaheuristic energy function.
type EvaluatorConfig struct {
	OverloadPenalty  float64
	PreferenceWeight float64
}

func (c EvaluatorConfig) withDefaults() EvaluatorConfig {
	if c.OverloadPenalty <= 0 {
		c.OverloadPenalty = 100
	}
	if c.PreferenceWeight <= 0 {
		c.PreferenceWeight = 0.5
	}
	return c
}

// GeneticConfig holds the GA knobs.
type GeneticConfig struct {
	PopulationSize int
	Generations    int
	EliteSize      int
	CrossoverRate  float64
	MutationRate   float64
}

func (c GeneticConfig) withDefaults() GeneticConfig {
	if c.PopulationSize <= 0 {
		c.PopulationSize = 100
	}
	if c.Generations <= 0 {
		c.Generations = 500
	}
	if c.EliteSize <= 0 {
		c.EliteSize = 5
	}
	if c.CrossoverRate <= 0 {
		c.CrossoverRate = 0.8
	}
	if c.MutationRate <= 0 {
		c.MutationRate = 0.1
	}
	return c
}

// AnnealingConfig holds the SA knobs.
type AnnealingConfig struct {
	InitialTemp  float64
	CoolingRate  float64
	MinTemp      float64
	StepsPerTemp int
}

func (c AnnealingConfig) withDefaults() AnnealingConfig {
	if c.InitialTemp <= 0 {
		c.InitialTemp = 1000
	}
	if c.CoolingRate <= 0 {
		c.CoolingRate = 0.95
	}
	if c.MinTemp <= 0 {
		c.MinTemp = 0.1
	}
	if c.StepsPerTemp <= 0 {
		c.StepsPerTemp = 100
	}
	return c
}

// Params selects and configures a solver run.
type Params struct {
	Solver    string
	TimeLimit time.Duration
	Seed      int64

	Genetic   GeneticConfig
	Annealing AnnealingConfig
	Evaluator EvaluatorConfig
}

func (p Params) withDefaults() Params {
	if p.Solver == "" {
		p.Solver = KindORTools
	}
	if p.TimeLimit <= 0 {
		p.TimeLimit = 5 * time.Minute
	}
	if p.Seed == 0 {
		p.Seed = 42
	}
	p.Genetic = p.Genetic.withDefaults()
	p.Annealing = p.Annealing.withDefaults()
	p.Evaluator = p.Evaluator.withDefaults()
	return p
}

// New builds the solver selected by the params.
func New(params Params) (Solver, error) {
	params = params.withDefaults()
	switch params.Solver {
	case KindORTools:
		return newExactSolver(backendScaledInteger, params.TimeLimit), nil
	case KindPuLP:
		return newExactSolver(backendContinuous, params.TimeLimit), nil
	case KindGenetic:
		return newGeneticSolver(params), nil
	case KindAnnealing:
		return newAnnealingSolver(params), nil
	default:
		return nil, fmt.Errorf("unknown solver %q", params.Solver)
	}
}

// infeasibleResult is the common early exit when some activity has no
// qualified faculty.
func infeasibleResult(name string, unassigned []string, elapsed time.Duration) *models.OptimizationResult {
	return &models.OptimizationResult{
		Assignments:          []models.Assignment{},
		SolverName:           name,
		SolverStatus:         models.StatusInfeasible,
		FacultyLoads:         map[int]float64{},
		UnassignedActivities: unassigned,
		IsFeasible:           false,
		ComputationTime:      elapsed.Seconds(),
	}
}
