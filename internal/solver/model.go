package solver

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/galymzhantore/teachload-api/internal/models"
)

// Fixed objective multipliers for the exact model.
const (
	weightDeviation  = 100.0
	weightPreference = 10.0
)

// assignmentPair identifies one x column of the exact model.
type assignmentPair struct {
	ActivityPos int
	FacultyPos  int
}

// assignmentModel is the exact model in simplex standard form:
// minimize c*v subject to A*v = b, v >= 0.
//
// Column layout: one binary x per qualified (activity, faculty) pair,
// then per faculty a load column, a positive and a negative deviation
// column, and finally one slack per capacity row. Rows: one cover
// equality per activity, one load-link and one capacity and one
// deviation-split row per faculty. The cover rows bound each x within
// [0,1], so no explicit upper-bound rows are needed; only the x columns
// carry an integrality constraint (loads and deviations settle to their
// implied values once x is fixed).
type assignmentModel struct {
	c []float64
	a *mat.Dense
	b []float64

	pairs   []assignmentPair
	numCols int

	// scale divides raw objective values back into reportable units.
	scale float64
}

// modelBackend selects the coefficient translation.
type modelBackend int

const (
	// backendScaledInteger mirrors a CP-SAT style integer model: hours
	// and load bounds carry one decimal as x10 integers, deviation
	// weights are x100 and preferences x10, objective reported /1000.
	backendScaledInteger modelBackend = iota
	// backendContinuous keeps real coefficients with binary x only.
	backendContinuous
)

func (b modelBackend) name() string {
	if b == backendScaledInteger {
		return "Exact CP-SAT style (integer B&B)"
	}
	return "Exact MILP (simplex B&B)"
}

// buildModel lowers the instance and its qualification index into the
// standard form consumed by the branch-and-bound core.
func buildModel(instance *models.Instance, idx *Index, backend modelBackend) *assignmentModel {
	numFaculty := len(instance.Faculty)
	numActivities := len(instance.Activities)

	pairs := make([]assignmentPair, 0, numActivities*2)
	for ai := 0; ai < numActivities; ai++ {
		for _, fi := range idx.PerActivity[ai] {
			pairs = append(pairs, assignmentPair{ActivityPos: ai, FacultyPos: fi})
		}
	}
	numX := len(pairs)

	// Column offsets.
	loadCol := func(fi int) int { return numX + fi }
	devPosCol := func(fi int) int { return numX + numFaculty + fi }
	devNegCol := func(fi int) int { return numX + 2*numFaculty + fi }
	slackCol := func(fi int) int { return numX + 3*numFaculty + fi }
	numCols := numX + 4*numFaculty

	numRows := numActivities + 3*numFaculty
	a := mat.NewDense(numRows, numCols, nil)
	b := make([]float64, numRows)
	c := make([]float64, numCols)

	hours := make([]float64, numActivities)
	for i, activity := range instance.Activities {
		hours[i] = activity.Hours
		if backend == backendScaledInteger {
			hours[i] = math.Round(activity.Hours * 10)
		}
	}

	// Cover rows: sum of x over qualified faculty equals one.
	for xi, p := range pairs {
		a.Set(p.ActivityPos, xi, 1)
	}
	for ai := 0; ai < numActivities; ai++ {
		b[ai] = 1
	}

	// Load link rows: assigned hours minus the load column equal zero.
	linkRow := func(fi int) int { return numActivities + fi }
	for xi, p := range pairs {
		a.Set(linkRow(p.FacultyPos), xi, hours[p.ActivityPos])
	}
	for fi := 0; fi < numFaculty; fi++ {
		a.Set(linkRow(fi), loadCol(fi), -1)
	}

	// Capacity rows: load plus slack equals max load.
	capRow := func(fi int) int { return numActivities + numFaculty + fi }
	for fi, f := range instance.Faculty {
		maxLoad := f.MaxLoad
		if backend == backendScaledInteger {
			maxLoad = math.Round(f.MaxLoad * 10)
		}
		a.Set(capRow(fi), loadCol(fi), 1)
		a.Set(capRow(fi), slackCol(fi), 1)
		b[capRow(fi)] = maxLoad
	}

	// Deviation split rows: load minus dPos plus dNeg equals target.
	devRow := func(fi int) int { return numActivities + 2*numFaculty + fi }
	for fi, f := range instance.Faculty {
		target := f.TargetLoad
		if backend == backendScaledInteger {
			target = math.Round(f.TargetLoad * 10)
		}
		a.Set(devRow(fi), loadCol(fi), 1)
		a.Set(devRow(fi), devPosCol(fi), -1)
		a.Set(devRow(fi), devNegCol(fi), 1)
		b[devRow(fi)] = target
	}

	// Objective: weighted deviation down, preferences up. The deviation
	// variable d = dPos + dNeg is substituted directly.
	for fi, f := range instance.Faculty {
		devWeight := weightDeviation * f.Weight
		if backend == backendScaledInteger {
			devWeight = math.Round(f.Weight * 100)
		}
		c[devPosCol(fi)] = devWeight
		c[devNegCol(fi)] = devWeight
	}
	for xi, p := range pairs {
		pref := float64(instance.Faculty[p.FacultyPos].Preference(instance.Activities[p.ActivityPos].ID))
		if pref > 0 {
			c[xi] = -pref * weightPreference
		}
	}

	scale := 1.0
	if backend == backendScaledInteger {
		scale = 1000
	}

	return &assignmentModel{
		c:       c,
		a:       a,
		b:       b,
		pairs:   pairs,
		numCols: numCols,
		scale:   scale,
	}
}
