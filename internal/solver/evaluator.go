package solver

import (
	"math"

	"github.com/galymzhantore/teachload-api/internal/models"
)

// evaluator is the shared GA/SA energy function. A chromosome is an int
// vector of length |activities| where gene i indexes the qualified list of
// activity i, so coverage and qualification hold by construction.
//
// Energy (lower is better):
//
//	sum_f weight_f * |load_f - target_f|
//	+ sum_f max(0, load_f - max_f) * OverloadPenalty
//	- sum_i preference(faculty(g_i), activity_i) * PreferenceWeight
type evaluator struct {
	cfg EvaluatorConfig
	idx *Index

	hours   []float64 // per activity position
	targets []float64 // per faculty position
	maxima  []float64
	weights []float64

	// prefByOption[i][k] is the preference of option k of activity i.
	prefByOption [][]float64

	// loads is reused across evaluations to avoid per-generation churn.
	loads []float64
}

func newEvaluator(instance *models.Instance, idx *Index, cfg EvaluatorConfig) *evaluator {
	e := &evaluator{
		cfg:          cfg,
		idx:          idx,
		hours:        make([]float64, len(instance.Activities)),
		targets:      make([]float64, len(instance.Faculty)),
		maxima:       make([]float64, len(instance.Faculty)),
		weights:      make([]float64, len(instance.Faculty)),
		prefByOption: make([][]float64, len(instance.Activities)),
		loads:        make([]float64, len(instance.Faculty)),
	}
	for i, a := range instance.Activities {
		e.hours[i] = a.Hours
		options := idx.PerActivity[i]
		prefs := make([]float64, len(options))
		for k, fi := range options {
			prefs[k] = float64(instance.Faculty[fi].Preference(a.ID))
		}
		e.prefByOption[i] = prefs
	}
	for i, f := range instance.Faculty {
		e.targets[i] = f.TargetLoad
		e.maxima[i] = f.MaxLoad
		e.weights[i] = f.Weight
	}
	return e
}

// Energy scores a chromosome. Lower is better.
func (e *evaluator) Energy(genes []int) float64 {
	for i := range e.loads {
		e.loads[i] = 0
	}
	var preference float64
	for i, g := range genes {
		fi := e.idx.PerActivity[i][g]
		e.loads[fi] += e.hours[i]
		preference += e.prefByOption[i][g]
	}

	var energy float64
	for fi, load := range e.loads {
		energy += e.weights[fi] * math.Abs(load-e.targets[fi])
		if over := load - e.maxima[fi]; over > 0 {
			energy += over * e.cfg.OverloadPenalty
		}
	}
	return energy - preference*e.cfg.PreferenceWeight
}

// Loads recomputes per-faculty-position loads for the chromosome into a
// fresh slice (the internal buffer stays reserved for Energy).
func (e *evaluator) Loads(genes []int) []float64 {
	loads := make([]float64, len(e.targets))
	for i, g := range genes {
		loads[e.idx.PerActivity[i][g]] += e.hours[i]
	}
	return loads
}
