package service

import (
	"context"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/galymzhantore/teachload-api/internal/dto"
	"github.com/galymzhantore/teachload-api/internal/store"
	appErrors "github.com/galymzhantore/teachload-api/pkg/errors"
)

func TestInstanceServiceGenerate(t *testing.T) {
	memory := store.NewMemoryStore()
	svc := NewInstanceService(memory, validator.New(), zap.NewNop())

	summary, err := svc.Generate(context.Background(), dto.GenerateInstanceRequest{Size: "small", Seed: 42})
	require.NoError(t, err)

	assert.Equal(t, "small_42", summary.InstanceID)
	assert.Equal(t, 15, summary.FacultyCount)
	assert.Equal(t, 73, summary.ActivityCount)
	assert.Positive(t, summary.TotalDemand)
	assert.Positive(t, summary.TotalCapacity)

	stored, err := svc.Get(context.Background(), "small_42")
	require.NoError(t, err)
	assert.Equal(t, 15, len(stored.Faculty))
}

func TestInstanceServiceRejectsBadSize(t *testing.T) {
	svc := NewInstanceService(store.NewMemoryStore(), validator.New(), zap.NewNop())

	_, err := svc.Generate(context.Background(), dto.GenerateInstanceRequest{Size: "huge"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestInstanceServiceGetMissing(t *testing.T) {
	svc := NewInstanceService(store.NewMemoryStore(), validator.New(), zap.NewNop())

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestInstanceServiceExportCSV(t *testing.T) {
	svc := NewInstanceService(store.NewMemoryStore(), validator.New(), zap.NewNop())
	_, err := svc.Generate(context.Background(), dto.GenerateInstanceRequest{Size: "small", Seed: 42})
	require.NoError(t, err)

	files, err := svc.ExportCSV(context.Background(), "small_42")
	require.NoError(t, err)
	require.Len(t, files, 3)

	faculty := string(files["faculty.csv"])
	assert.True(t, strings.HasPrefix(faculty, "id,name,rank,target_load,max_load,weight,qualified_courses"))
	// Header plus one row per faculty member.
	assert.Len(t, strings.Split(strings.TrimSpace(faculty), "\n"), 16)

	activities := string(files["activities.csv"])
	assert.Len(t, strings.Split(strings.TrimSpace(activities), "\n"), 74)

	qualifications := string(files["qualifications.csv"])
	assert.True(t, strings.HasPrefix(qualifications, "faculty_id,activity_id"))
}
