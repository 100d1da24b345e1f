package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galymzhantore/teachload-api/internal/models"
)

func TestBuildIndexAdjacency(t *testing.T) {
	instance := &models.Instance{
		Faculty: []models.Faculty{
			smallFaculty(10, 30, 60),
			smallFaculty(20, 30, 60),
			smallFaculty(30, 30, 60),
		},
		Activities: []models.CourseActivity{
			activity("A", 10),
			activity("B", 10),
		},
	}
	instance.Qualifications = models.NewQualifications()
	instance.Qualifications.Set(10, "A")
	instance.Qualifications.Set(30, "A")
	instance.Qualifications.Set(20, "B")

	idx, uncoverable := BuildIndex(instance)
	require.Empty(t, uncoverable)

	assert.Equal(t, []int{10, 20, 30}, idx.FacultyIDs)
	assert.Equal(t, []int{0, 2}, idx.PerActivity[0])
	assert.Equal(t, []int{1}, idx.PerActivity[1])
	assert.Equal(t, []int{0}, idx.PerFaculty[0])
	assert.Equal(t, []int{1}, idx.PerFaculty[1])
	assert.Equal(t, []int{0}, idx.PerFaculty[2])
}

func TestBuildIndexUncoverable(t *testing.T) {
	instance := &models.Instance{
		Faculty: []models.Faculty{smallFaculty(1, 30, 60)},
		Activities: []models.CourseActivity{
			activity("A", 10),
			activity("B", 10),
		},
	}
	instance.Qualifications = models.NewQualifications()
	instance.Qualifications.Set(1, "A")

	_, uncoverable := BuildIndex(instance)
	assert.Equal(t, []string{"B"}, uncoverable)
}
