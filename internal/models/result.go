package models

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// SolverStatus classifies the outcome of one solver run.
type SolverStatus string

const (
	// StatusOptimal means an exact solver proved optimality.
	StatusOptimal SolverStatus = "OPTIMAL"
	// StatusFeasible means an exact solver found an incumbent but ran out of time.
	StatusFeasible SolverStatus = "FEASIBLE"
	// StatusCompleted means a metaheuristic finished its schedule; it never proves optimality.
	StatusCompleted SolverStatus = "COMPLETED"
	// StatusInfeasible means the instance admits no valid assignment.
	StatusInfeasible SolverStatus = "INFEASIBLE"
	// StatusUnknown means the solver hit its deadline with no incumbent.
	StatusUnknown SolverStatus = "UNKNOWN"
	// StatusError means the backend rejected the model or crashed.
	StatusError SolverStatus = "ERROR"
)

// OptimizationResult carries everything observable about one solver run.
type OptimizationResult struct {
	Assignments          []Assignment    `json:"assignments"`
	ObjectiveValue       float64         `json:"objective_value"`
	TotalDeviation       float64         `json:"total_deviation"`
	ComputationTime      float64         `json:"computation_time_seconds"`
	SolverName           string          `json:"solver_name"`
	SolverStatus         SolverStatus    `json:"solver_status"`
	FacultyLoads         map[int]float64 `json:"faculty_loads"`
	UnassignedActivities []string        `json:"unassigned_activities,omitempty"`
	IsFeasible           bool            `json:"is_feasible"`
	Gap                  *float64        `json:"gap,omitempty"`
}

// EquityMetrics summarises how far realized loads sit from targets.
type EquityMetrics struct {
	MeanDeviation  float64 `json:"mean_deviation"`
	MaxDeviation   float64 `json:"max_deviation"`
	StdDeviation   float64 `json:"std_deviation"`
	TotalDeviation float64 `json:"total_deviation"`
}

// Equity computes deviation statistics against the provided targets.
func (r *OptimizationResult) Equity(targets map[int]float64) EquityMetrics {
	deviations := make([]float64, 0, len(r.FacultyLoads))
	for facultyID, load := range r.FacultyLoads {
		deviations = append(deviations, math.Abs(load-targets[facultyID]))
	}
	if len(deviations) == 0 {
		return EquityMetrics{}
	}
	var maxDev, totalDev float64
	for _, d := range deviations {
		totalDev += d
		if d > maxDev {
			maxDev = d
		}
	}
	return EquityMetrics{
		MeanDeviation:  stat.Mean(deviations, nil),
		MaxDeviation:   maxDev,
		StdDeviation:   stat.PopStdDev(deviations, nil),
		TotalDeviation: totalDev,
	}
}
