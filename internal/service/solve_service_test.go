package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/galymzhantore/teachload-api/internal/dto"
	"github.com/galymzhantore/teachload-api/internal/generator"
	"github.com/galymzhantore/teachload-api/internal/models"
	"github.com/galymzhantore/teachload-api/internal/store"
	appErrors "github.com/galymzhantore/teachload-api/pkg/errors"
)

func newSolveFixture(t *testing.T) (*SolveService, *store.MemoryStore) {
	t.Helper()
	memory := store.NewMemoryStore()

	instance, err := generator.New(42).Instance(generator.SizeSmall)
	require.NoError(t, err)
	memory.PutInstance("small_42", instance)

	svc := NewSolveService(memory, nil, NewMetricsService(), validator.New(), zap.NewNop(), SolveConfig{})
	return svc, memory
}

func TestSolveServiceGeneticRun(t *testing.T) {
	svc, memory := newSolveFixture(t)

	resp, err := svc.Solve(context.Background(), dto.SolveRequest{
		InstanceID: "small_42",
		Solver:     "genetic",
		Seed:       7,
		Genetic:    &dto.GeneticParams{PopulationSize: 20, Generations: 20},
	})
	require.NoError(t, err)

	assert.Equal(t, "small_42_genetic", resp.ResultID)
	assert.Equal(t, models.StatusCompleted, resp.Status)

	stored, instanceID, ok := memory.Result("small_42_genetic")
	require.True(t, ok)
	assert.Equal(t, "small_42", instanceID)
	assert.Len(t, stored.Assignments, 73)
}

func TestSolveServiceUnknownInstance(t *testing.T) {
	svc, _ := newSolveFixture(t)

	_, err := svc.Solve(context.Background(), dto.SolveRequest{InstanceID: "missing", Solver: "genetic"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSolveServiceRejectsUnknownSolver(t *testing.T) {
	svc, _ := newSolveFixture(t)

	_, err := svc.Solve(context.Background(), dto.SolveRequest{InstanceID: "small_42", Solver: "brute-force"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSolveServiceEquity(t *testing.T) {
	svc, _ := newSolveFixture(t)

	_, err := svc.Solve(context.Background(), dto.SolveRequest{
		InstanceID: "small_42",
		Solver:     "sa",
		Seed:       7,
		Annealing:  &dto.AnnealingParams{InitialTemp: 50, CoolingRate: 0.8, MinTemp: 1, StepsPerTemp: 20},
	})
	require.NoError(t, err)

	metrics, err := svc.Equity(context.Background(), "small_42_sa")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, metrics.MaxDeviation, metrics.MeanDeviation)
	assert.Positive(t, metrics.TotalDeviation)
}

func TestSolveServiceResultNotFound(t *testing.T) {
	svc, _ := newSolveFixture(t)

	_, err := svc.Result(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
