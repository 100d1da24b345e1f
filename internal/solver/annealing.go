package solver

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/galymzhantore/teachload-api/internal/models"
)

// AnnealingSolver perturbs a single chromosome under geometric cooling
// with Metropolis acceptance. The neighborhood is one gene flipped to a
// uniformly drawn alternative from its qualified list.
type AnnealingSolver struct {
	cfg       AnnealingConfig
	eval      EvaluatorConfig
	timeLimit time.Duration
	seed      int64
}

func newAnnealingSolver(params Params) *AnnealingSolver {
	return &AnnealingSolver{
		cfg:       params.Annealing,
		eval:      params.Evaluator,
		timeLimit: params.TimeLimit,
		seed:      params.Seed,
	}
}

// Name identifies the solver in results.
func (s *AnnealingSolver) Name() string { return "Simulated Annealing" }

// Solve anneals until the temperature drops below the floor or the wall
// clock runs out, returning the best chromosome visited.
func (s *AnnealingSolver) Solve(ctx context.Context, instance *models.Instance) (*models.OptimizationResult, error) {
	start := time.Now()

	idx, uncoverable := BuildIndex(instance)
	if len(uncoverable) > 0 {
		return infeasibleResult(s.Name(), uncoverable, time.Since(start)), nil
	}

	rng := rand.New(rand.NewSource(s.seed))
	eval := newEvaluator(instance, idx, s.eval)
	numActivities := len(instance.Activities)

	current := make([]int, numActivities)
	for i := range current {
		current[i] = rng.Intn(len(idx.PerActivity[i]))
	}
	currentEnergy := eval.Energy(current)

	best := make([]int, numActivities)
	copy(best, current)
	bestEnergy := currentEnergy

	neighbor := make([]int, numActivities)

	for temp := s.cfg.InitialTemp; temp > s.cfg.MinTemp; temp *= s.cfg.CoolingRate {
		if time.Since(start) > s.timeLimit || ctx.Err() != nil {
			break
		}

		for step := 0; step < s.cfg.StepsPerTemp; step++ {
			copy(neighbor, current)
			pos := rng.Intn(numActivities)
			if options := len(idx.PerActivity[pos]); options > 1 {
				choice := rng.Intn(options - 1)
				if choice >= neighbor[pos] {
					choice++
				}
				neighbor[pos] = choice
			}

			neighborEnergy := eval.Energy(neighbor)
			delta := neighborEnergy - currentEnergy

			if delta < 0 {
				copy(current, neighbor)
				currentEnergy = neighborEnergy
				if currentEnergy < bestEnergy {
					copy(best, current)
					bestEnergy = currentEnergy
				}
			} else if rng.Float64() < math.Exp(-delta/temp) {
				copy(current, neighbor)
				currentEnergy = neighborEnergy
			}
		}
	}

	return chromosomeResult(instance, idx, best, bestEnergy, s.Name(), time.Since(start)), nil
}
