package solver

import (
	"context"
	"math"
	"time"

	"github.com/galymzhantore/teachload-api/internal/models"
)

// ExactSolver drives the shared branch-and-bound core over one of the
// two coefficient translations. Capacity is a hard constraint here: a
// run proves optimality, returns a timed-out incumbent, reports
// infeasibility, or reports UNKNOWN (deadline with no incumbent) or
// ERROR.
type ExactSolver struct {
	backend   modelBackend
	timeLimit time.Duration
}

func newExactSolver(backend modelBackend, timeLimit time.Duration) *ExactSolver {
	return &ExactSolver{backend: backend, timeLimit: timeLimit}
}

// Name identifies the backend in results.
func (s *ExactSolver) Name() string { return s.backend.name() }

// Solve builds the MILP model and minimizes it within the time limit.
func (s *ExactSolver) Solve(ctx context.Context, instance *models.Instance) (*models.OptimizationResult, error) {
	start := time.Now()

	idx, uncoverable := BuildIndex(instance)
	if len(uncoverable) > 0 {
		return infeasibleResult(s.Name(), uncoverable, time.Since(start)), nil
	}
	if !instance.CapacityFeasible() {
		res := infeasibleResult(s.Name(), activityIDs(instance), time.Since(start))
		return res, nil
	}

	model := buildModel(instance, idx, s.backend)
	deadline := start.Add(s.timeLimit)
	outcome := branchAndBound(ctx, model, deadline)
	elapsed := time.Since(start)

	switch outcome.status {
	case bnbOptimal, bnbFeasible:
		res := s.extract(instance, model, outcome, elapsed)
		return res, nil
	case bnbInfeasible:
		return infeasibleResult(s.Name(), activityIDs(instance), elapsed), nil
	case bnbUnknown:
		return &models.OptimizationResult{
			Assignments:          []models.Assignment{},
			SolverName:           s.Name(),
			SolverStatus:         models.StatusUnknown,
			FacultyLoads:         map[int]float64{},
			UnassignedActivities: activityIDs(instance),
			IsFeasible:           false,
			ComputationTime:      elapsed.Seconds(),
		}, nil
	default:
		return &models.OptimizationResult{
			Assignments:     []models.Assignment{},
			SolverName:      s.Name(),
			SolverStatus:    models.StatusError,
			FacultyLoads:    map[int]float64{},
			IsFeasible:      false,
			ComputationTime: elapsed.Seconds(),
		}, nil
	}
}

// extract reads assignments off the incumbent and recomputes loads and
// deviations in unscaled hours.
func (s *ExactSolver) extract(instance *models.Instance, model *assignmentModel, outcome bnbOutcome, elapsed time.Duration) *models.OptimizationResult {
	assignments := make([]models.Assignment, 0, len(instance.Activities))
	loads := make(map[int]float64, len(instance.Faculty))
	for _, f := range instance.Faculty {
		loads[f.ID] = 0
	}

	for col, pair := range model.pairs {
		if outcome.x[col] < 0.5 {
			continue
		}
		faculty := instance.Faculty[pair.FacultyPos]
		activity := instance.Activities[pair.ActivityPos]
		assignments = append(assignments, models.Assignment{
			FacultyID:       faculty.ID,
			ActivityID:      activity.ID,
			PreferenceScore: float64(faculty.Preference(activity.ID)),
		})
		loads[faculty.ID] += activity.Hours
	}

	var totalDeviation float64
	for _, f := range instance.Faculty {
		totalDeviation += math.Abs(loads[f.ID] - f.TargetLoad)
	}

	status := models.StatusOptimal
	var gap *float64
	if outcome.status == bnbFeasible {
		status = models.StatusFeasible
		g := 0.0
		if denom := math.Abs(outcome.objective); denom > 1e-9 {
			g = (outcome.objective - outcome.bound) / denom
		}
		gap = &g
	}

	return &models.OptimizationResult{
		Assignments:     assignments,
		ObjectiveValue:  outcome.objective / model.scale,
		TotalDeviation:  totalDeviation,
		ComputationTime: elapsed.Seconds(),
		SolverName:      s.Name(),
		SolverStatus:    status,
		FacultyLoads:    loads,
		IsFeasible:      true,
		Gap:             gap,
	}
}

func activityIDs(instance *models.Instance) []string {
	ids := make([]string, len(instance.Activities))
	for i, a := range instance.Activities {
		ids[i] = a.ID
	}
	return ids
}
