package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEquityMetrics(t *testing.T) {
	result := OptimizationResult{
		FacultyLoads: map[int]float64{
			1: 30,
			2: 50,
			3: 40,
		},
	}
	targets := map[int]float64{1: 40, 2: 40, 3: 40}

	metrics := result.Equity(targets)

	// Deviations are 10, 10, 0.
	assert.InDelta(t, 20.0/3.0, metrics.MeanDeviation, 1e-9)
	assert.InDelta(t, 10, metrics.MaxDeviation, 1e-9)
	assert.InDelta(t, 20, metrics.TotalDeviation, 1e-9)
	assert.InDelta(t, 4.714045207910317, metrics.StdDeviation, 1e-9)
}

func TestEquityMetricsEmpty(t *testing.T) {
	result := OptimizationResult{FacultyLoads: map[int]float64{}}
	metrics := result.Equity(map[int]float64{})
	assert.Zero(t, metrics.MeanDeviation)
	assert.Zero(t, metrics.MaxDeviation)
	assert.Zero(t, metrics.TotalDeviation)
}

func TestRankWeights(t *testing.T) {
	assert.Equal(t, 1.5, RankProfessor.Weight())
	assert.Equal(t, 1.5, RankDean.Weight())
	assert.Equal(t, 1.4, RankAssociateProfessor.Weight())
	assert.Equal(t, 1.3, RankAssistantProfessor.Weight())
	assert.Equal(t, 1.2, RankSeniorLecturer.Weight())
	assert.Equal(t, 1.1, RankSeniorTeacher.Weight())
	assert.Equal(t, 1.1, RankTeacherEnglish.Weight())
	assert.Equal(t, 1.0, RankTeacher.Weight())
	assert.Equal(t, 0.8, RankAdvisor.Weight())
	assert.Equal(t, 0.8, RankAdmin.Weight())
}

func TestRankAtLeast(t *testing.T) {
	assert.True(t, RankProfessor.AtLeast(RankSeniorLecturer))
	assert.True(t, RankSeniorLecturer.AtLeast(RankSeniorLecturer))
	assert.False(t, RankTeacher.AtLeast(RankSeniorLecturer))
	assert.True(t, RankDean.AtLeast(RankProfessor))
}
