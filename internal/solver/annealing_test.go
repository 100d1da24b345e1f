package solver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galymzhantore/teachload-api/internal/generator"
	"github.com/galymzhantore/teachload-api/internal/models"
)

func TestAnnealingSolverDeterminism(t *testing.T) {
	instance, err := generator.New(42).Instance(generator.SizeSmall)
	require.NoError(t, err)

	params := Params{
		Solver:    KindAnnealing,
		TimeLimit: time.Minute,
		Seed:      7,
		Annealing: AnnealingConfig{InitialTemp: 100, CoolingRate: 0.9, MinTemp: 1, StepsPerTemp: 40},
	}

	first, err := newAnnealingSolver(params.withDefaults()).Solve(context.Background(), instance)
	require.NoError(t, err)
	second, err := newAnnealingSolver(params.withDefaults()).Solve(context.Background(), instance)
	require.NoError(t, err)

	require.Equal(t, len(first.Assignments), len(second.Assignments))
	for i := range first.Assignments {
		assert.Equal(t, first.Assignments[i], second.Assignments[i])
	}
	assert.Equal(t, first.ObjectiveValue, second.ObjectiveValue)
}

func TestAnnealingSolverCompletes(t *testing.T) {
	instance, err := generator.New(42).Instance(generator.SizeSmall)
	require.NoError(t, err)

	params := Params{
		Solver:    KindAnnealing,
		TimeLimit: time.Minute,
		Seed:      11,
		Annealing: AnnealingConfig{InitialTemp: 200, CoolingRate: 0.9, MinTemp: 1, StepsPerTemp: 50},
	}
	result, err := newAnnealingSolver(params.withDefaults()).Solve(context.Background(), instance)
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, result.SolverStatus)
	assert.Len(t, result.Assignments, len(instance.Activities))
	for _, a := range result.Assignments {
		assert.True(t, instance.Qualifications.Qualified(a.FacultyID, a.ActivityID))
	}
}

func TestAnnealingSolverUncoverable(t *testing.T) {
	instance := &models.Instance{
		Name:    "uncoverable",
		Faculty: []models.Faculty{smallFaculty(1, 30, 60)},
		Activities: []models.CourseActivity{
			activity("A", 20),
			activity("B", 20),
		},
	}
	instance.Qualifications = models.NewQualifications()
	instance.Qualifications.Set(1, "A")

	params := Params{Solver: KindAnnealing, TimeLimit: time.Minute, Seed: 3}
	result, err := newAnnealingSolver(params.withDefaults()).Solve(context.Background(), instance)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInfeasible, result.SolverStatus)
	assert.Contains(t, result.UnassignedActivities, "B")
}
