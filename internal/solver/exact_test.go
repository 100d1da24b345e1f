package solver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galymzhantore/teachload-api/internal/models"
)

func smallFaculty(id int, target, max float64) models.Faculty {
	f := models.NewFaculty(id, "Test Faculty", models.RankTeacher, target, max)
	f.Weight = 1.0
	return f
}

func activity(id string, hours float64) models.CourseActivity {
	return models.CourseActivity{
		ID:            id,
		CourseID:      "CS101",
		CourseName:    "Programming I",
		Type:          models.ActivityPractical,
		SectionNumber: 1,
		Hours:         hours,
		StudentCount:  20,
	}
}

func qualifyAll(instance *models.Instance) {
	instance.Qualifications = models.NewQualifications()
	for _, f := range instance.Faculty {
		for _, a := range instance.Activities {
			instance.Qualifications.Set(f.ID, a.ID)
		}
	}
}

func exactBackends(t *testing.T) map[string]*ExactSolver {
	t.Helper()
	return map[string]*ExactSolver{
		"cpsat": newExactSolver(backendScaledInteger, 30*time.Second),
		"milp":  newExactSolver(backendContinuous, 30*time.Second),
	}
}

func TestExactSolverTrivialSingleton(t *testing.T) {
	instance := &models.Instance{
		Name:       "singleton",
		Faculty:    []models.Faculty{smallFaculty(1, 30, 60)},
		Activities: []models.CourseActivity{activity("A1", 20)},
	}
	qualifyAll(instance)

	for name, exact := range exactBackends(t) {
		t.Run(name, func(t *testing.T) {
			result, err := exact.Solve(context.Background(), instance)
			require.NoError(t, err)
			assert.Equal(t, models.StatusOptimal, result.SolverStatus)
			require.Len(t, result.Assignments, 1)
			assert.Equal(t, 1, result.Assignments[0].FacultyID)
			assert.Equal(t, "A1", result.Assignments[0].ActivityID)
			assert.InDelta(t, 20, result.FacultyLoads[1], 1e-9)
			assert.InDelta(t, 10, result.TotalDeviation, 1e-9)
			assert.True(t, result.IsFeasible)
		})
	}
}

func TestExactSolverTwoFacultyBalance(t *testing.T) {
	instance := &models.Instance{
		Name: "balance",
		Faculty: []models.Faculty{
			smallFaculty(1, 40, 60),
			smallFaculty(2, 40, 60),
		},
		Activities: []models.CourseActivity{
			activity("X", 20),
			activity("Y", 20),
			activity("Z", 20),
		},
	}
	qualifyAll(instance)

	for name, exact := range exactBackends(t) {
		t.Run(name, func(t *testing.T) {
			result, err := exact.Solve(context.Background(), instance)
			require.NoError(t, err)
			assert.Equal(t, models.StatusOptimal, result.SolverStatus)
			require.Len(t, result.Assignments, 3)

			// Optimal splits are 40/20 or 20/40; both deviate by 20 in total.
			loads := []float64{result.FacultyLoads[1], result.FacultyLoads[2]}
			assert.InDelta(t, 60, loads[0]+loads[1], 1e-9)
			assert.Contains(t, []float64{20, 40}, loads[0])
			assert.InDelta(t, 20, result.TotalDeviation, 1e-9)
		})
	}
}

func TestExactSolverCapacityTight(t *testing.T) {
	instance := &models.Instance{
		Name: "tight",
		Faculty: []models.Faculty{
			smallFaculty(1, 50, 50),
			smallFaculty(2, 50, 50),
		},
		Activities: []models.CourseActivity{
			activity("A", 30),
			activity("B", 20),
			activity("C", 10),
			activity("D", 20),
			activity("E", 20),
		},
	}
	qualifyAll(instance)

	for name, exact := range exactBackends(t) {
		t.Run(name, func(t *testing.T) {
			result, err := exact.Solve(context.Background(), instance)
			require.NoError(t, err)
			assert.Equal(t, models.StatusOptimal, result.SolverStatus)
			require.Len(t, result.Assignments, 5)
			assert.InDelta(t, 50, result.FacultyLoads[1], 1e-9)
			assert.InDelta(t, 50, result.FacultyLoads[2], 1e-9)
			assert.InDelta(t, 0, result.TotalDeviation, 1e-9)
		})
	}
}

func TestExactSolverUncoverable(t *testing.T) {
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

	for name, exact := range exactBackends(t) {
		t.Run(name, func(t *testing.T) {
			result, err := exact.Solve(context.Background(), instance)
			require.NoError(t, err)
			assert.Equal(t, models.StatusInfeasible, result.SolverStatus)
			assert.False(t, result.IsFeasible)
			assert.Contains(t, result.UnassignedActivities, "B")
			assert.Empty(t, result.Assignments)
		})
	}
}

func TestExactSolverCapacityInfeasible(t *testing.T) {
	instance := &models.Instance{
		Name:    "overfull",
		Faculty: []models.Faculty{smallFaculty(1, 25, 30)},
		Activities: []models.CourseActivity{
			activity("A", 20),
			activity("B", 20),
		},
	}
	qualifyAll(instance)

	for name, exact := range exactBackends(t) {
		t.Run(name, func(t *testing.T) {
			result, err := exact.Solve(context.Background(), instance)
			require.NoError(t, err)
			assert.Equal(t, models.StatusInfeasible, result.SolverStatus)
			assert.False(t, result.IsFeasible)
		})
	}
}

func TestExactSolverHonorsPreferences(t *testing.T) {
	// Two equally loaded splits exist; the preferred pairing must win.
	first := smallFaculty(1, 20, 40)
	second := smallFaculty(2, 20, 40)
	first.Preferences["A"] = 10
	second.Preferences["B"] = 10

	instance := &models.Instance{
		Name:    "preferences",
		Faculty: []models.Faculty{first, second},
		Activities: []models.CourseActivity{
			activity("A", 20),
			activity("B", 20),
		},
	}
	qualifyAll(instance)

	for name, exact := range exactBackends(t) {
		t.Run(name, func(t *testing.T) {
			result, err := exact.Solve(context.Background(), instance)
			require.NoError(t, err)
			assert.Equal(t, models.StatusOptimal, result.SolverStatus)

			assigned := make(map[string]int)
			for _, a := range result.Assignments {
				assigned[a.ActivityID] = a.FacultyID
			}
			assert.Equal(t, 1, assigned["A"])
			assert.Equal(t, 2, assigned["B"])
		})
	}
}
