package solver

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/galymzhantore/teachload-api/internal/models"
)

// GeneticSolver evolves a population of chromosomes with elitism,
// tournament selection, uniform crossover and point mutation. Given the
// same instance, parameters and seed the run is bit-identical: a single
// RNG draws every random choice in a fixed order.
type GeneticSolver struct {
	cfg       GeneticConfig
	eval      EvaluatorConfig
	timeLimit time.Duration
	seed      int64
}

func newGeneticSolver(params Params) *GeneticSolver {
	return &GeneticSolver{
		cfg:       params.Genetic,
		eval:      params.Evaluator,
		timeLimit: params.TimeLimit,
		seed:      params.Seed,
	}
}

// Name identifies the solver in results.
func (s *GeneticSolver) Name() string { return "Genetic Algorithm" }

// Solve runs the evolution loop until the generation budget or the wall
// clock is exhausted and returns the best chromosome as a result.
func (s *GeneticSolver) Solve(ctx context.Context, instance *models.Instance) (*models.OptimizationResult, error) {
	start := time.Now()

	idx, uncoverable := BuildIndex(instance)
	if len(uncoverable) > 0 {
		return infeasibleResult(s.Name(), uncoverable, time.Since(start)), nil
	}

	rng := rand.New(rand.NewSource(s.seed))
	eval := newEvaluator(instance, idx, s.eval)
	numActivities := len(instance.Activities)

	population := make([][]int, s.cfg.PopulationSize)
	for p := range population {
		chromosome := make([]int, numActivities)
		for i := range chromosome {
			chromosome[i] = rng.Intn(len(idx.PerActivity[i]))
		}
		population[p] = chromosome
	}

	var best []int
	bestEnergy := math.Inf(1)
	energies := make([]float64, s.cfg.PopulationSize)
	order := make([]int, s.cfg.PopulationSize)

	for generation := 0; generation < s.cfg.Generations; generation++ {
		if time.Since(start) > s.timeLimit || ctx.Err() != nil {
			break
		}

		for p, chromosome := range population {
			energies[p] = eval.Energy(chromosome)
			if energies[p] < bestEnergy {
				bestEnergy = energies[p]
				best = append(best[:0], chromosome...)
			}
		}

		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(i, j int) bool {
			return energies[order[i]] < energies[order[j]]
		})

		next := make([][]int, 0, s.cfg.PopulationSize)
		for i := 0; i < s.cfg.EliteSize && i < len(order); i++ {
			elite := make([]int, numActivities)
			copy(elite, population[order[i]])
			next = append(next, elite)
		}

		for len(next) < s.cfg.PopulationSize {
			parent1 := s.tournament(rng, population, energies)
			parent2 := s.tournament(rng, population, energies)

			child := make([]int, numActivities)
			if rng.Float64() < s.cfg.CrossoverRate {
				for i := range child {
					if rng.Float64() < 0.5 {
						child[i] = parent1[i]
					} else {
						child[i] = parent2[i]
					}
				}
			} else {
				copy(child, parent1)
			}

			if rng.Float64() < s.cfg.MutationRate {
				pos := rng.Intn(numActivities)
				child[pos] = rng.Intn(len(idx.PerActivity[pos]))
			}
			next = append(next, child)
		}
		population = next
	}

	// The last generation may hold an unevaluated improvement.
	for _, chromosome := range population {
		if energy := eval.Energy(chromosome); energy < bestEnergy {
			bestEnergy = energy
			best = append(best[:0], chromosome...)
		}
	}

	return chromosomeResult(instance, idx, best, bestEnergy, s.Name(), time.Since(start)), nil
}

// tournament picks the lowest-energy contender out of three uniform draws.
func (s *GeneticSolver) tournament(rng *rand.Rand, population [][]int, energies []float64) []int {
	winner := rng.Intn(len(population))
	for k := 0; k < 2; k++ {
		contender := rng.Intn(len(population))
		if energies[contender] < energies[winner] {
			winner = contender
		}
	}
	return population[winner]
}

// chromosomeResult converts the best chromosome into an optimization
// result, recomputing loads and deviations from the instance data.
func chromosomeResult(
	instance *models.Instance,
	idx *Index,
	genes []int,
	energy float64,
	name string,
	elapsed time.Duration,
) *models.OptimizationResult {
	assignments := make([]models.Assignment, 0, len(genes))
	loads := make(map[int]float64, len(instance.Faculty))
	for _, f := range instance.Faculty {
		loads[f.ID] = 0
	}

	for i, g := range genes {
		fi := idx.PerActivity[i][g]
		faculty := instance.Faculty[fi]
		activity := instance.Activities[i]
		assignments = append(assignments, models.Assignment{
			FacultyID:       faculty.ID,
			ActivityID:      activity.ID,
			PreferenceScore: float64(faculty.Preference(activity.ID)),
		})
		loads[faculty.ID] += activity.Hours
	}

	var totalDeviation float64
	feasible := true
	for _, f := range instance.Faculty {
		totalDeviation += math.Abs(loads[f.ID] - f.TargetLoad)
		if loads[f.ID] > f.MaxLoad {
			feasible = false
		}
	}

	return &models.OptimizationResult{
		Assignments:     assignments,
		ObjectiveValue:  energy,
		TotalDeviation:  totalDeviation,
		ComputationTime: elapsed.Seconds(),
		SolverName:      name,
		SolverStatus:    models.StatusCompleted,
		FacultyLoads:    loads,
		IsFeasible:      feasible,
	}
}
