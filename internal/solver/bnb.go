package solver

import (
	"context"
	"errors"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const (
	integralityTol = 1e-6
	pruneTol       = 1e-9
	maxNodes       = 200000
)

type bnbStatus int

const (
	bnbOptimal bnbStatus = iota
	bnbFeasible
	bnbUnknown
	bnbInfeasible
	bnbError
)

type bnbOutcome struct {
	status    bnbStatus
	x         []float64
	objective float64
	bound     float64
	nodes     int
}

// fixing pins one binary column to an integer value in a subproblem.
type fixing struct {
	col   int
	value float64
}

type bnbNode struct {
	fixings []fixing
}

// branchAndBound minimizes the model by LP relaxation and binary
// branching on the fractional x columns, depth first with incumbent
// pruning. It stops at the deadline and reports the incumbent, if any.
func branchAndBound(ctx context.Context, m *assignmentModel, deadline time.Time) bnbOutcome {
	outcome := bnbOutcome{status: bnbUnknown, bound: math.Inf(-1)}
	incumbent := math.Inf(1)
	var incumbentX []float64

	rootVal, rootX, err := solveRelaxation(m, nil)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) || errors.Is(err, lp.ErrSingular) {
			outcome.status = bnbInfeasible
		} else {
			outcome.status = bnbError
		}
		return outcome
	}
	outcome.bound = rootVal

	stack := []bnbNode{{}}
	// Reuse the root solution for the first pop.
	rootSolved := true

	exhausted := true
	for len(stack) > 0 {
		if time.Now().After(deadline) || ctx.Err() != nil || outcome.nodes >= maxNodes {
			exhausted = false
			break
		}
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		outcome.nodes++

		var val float64
		var x []float64
		if rootSolved && len(node.fixings) == 0 {
			val, x = rootVal, rootX
			rootSolved = false
		} else {
			val, x, err = solveRelaxation(m, node.fixings)
			if err != nil {
				// Infeasible or degenerate subproblems are abandoned.
				continue
			}
		}

		if val >= incumbent-pruneTol {
			continue
		}

		branchCol := mostFractionalColumn(m, x)
		if branchCol < 0 {
			// Integral on every binary column: new incumbent.
			incumbent = val
			incumbentX = append(incumbentX[:0], x...)
			continue
		}

		frac := x[branchCol] - math.Floor(x[branchCol])
		down := append(append([]fixing(nil), node.fixings...), fixing{col: branchCol, value: math.Floor(x[branchCol])})
		up := append(append([]fixing(nil), node.fixings...), fixing{col: branchCol, value: math.Ceil(x[branchCol])})
		if frac < 0.5 {
			stack = append(stack, bnbNode{fixings: up}, bnbNode{fixings: down})
		} else {
			stack = append(stack, bnbNode{fixings: down}, bnbNode{fixings: up})
		}
	}

	switch {
	case exhausted && incumbentX != nil:
		outcome.status = bnbOptimal
	case exhausted:
		outcome.status = bnbInfeasible
	case incumbentX != nil:
		outcome.status = bnbFeasible
	default:
		outcome.status = bnbUnknown
	}
	outcome.x = incumbentX
	outcome.objective = incumbent
	return outcome
}

// solveRelaxation runs the simplex on the model augmented with one
// equality row per fixing.
func solveRelaxation(m *assignmentModel, fixings []fixing) (float64, []float64, error) {
	baseRows, cols := m.a.Dims()
	if len(fixings) == 0 {
		return lp.Simplex(m.c, m.a, m.b, 0, nil)
	}

	rows := baseRows + len(fixings)
	aug := mat.NewDense(rows, cols, nil)
	aug.Slice(0, baseRows, 0, cols).(*mat.Dense).Copy(m.a)
	b := make([]float64, rows)
	copy(b, m.b)
	for i, fix := range fixings {
		aug.Set(baseRows+i, fix.col, 1)
		b[baseRows+i] = fix.value
	}
	return lp.Simplex(m.c, aug, b, 0, nil)
}

// mostFractionalColumn returns the binary column farthest from an
// integer value, or -1 when the solution is integral.
func mostFractionalColumn(m *assignmentModel, x []float64) int {
	best := -1
	bestDist := integralityTol
	for col := range m.pairs {
		frac := x[col] - math.Floor(x[col])
		dist := math.Min(frac, 1-frac)
		if dist > bestDist {
			bestDist = dist
			best = col
		}
	}
	return best
}
