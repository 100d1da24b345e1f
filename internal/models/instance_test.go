package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInstance() *Instance {
	instance := &Instance{
		Name: "test",
		Faculty: []Faculty{
			NewFaculty(1, "A", RankTeacher, 30, 60),
		},
		Activities: []CourseActivity{
			{ID: "X", CourseID: "CS101", CourseName: "Programming I", Type: ActivityLecture, SectionNumber: 1, Hours: 20, StudentCount: 50},
		},
		Qualifications: NewQualifications(),
	}
	instance.Qualifications.Set(1, "X")
	return instance
}

func TestInstanceValidateAccepts(t *testing.T) {
	require.NoError(t, validInstance().Validate())
}

func TestInstanceValidateRejects(t *testing.T) {
	cases := map[string]func(*Instance){
		"no faculty":      func(in *Instance) { in.Faculty = nil },
		"no activities":   func(in *Instance) { in.Activities = nil },
		"negative hours":  func(in *Instance) { in.Activities[0].Hours = -1 },
		"zero hours":      func(in *Instance) { in.Activities[0].Hours = 0 },
		"negative count":  func(in *Instance) { in.Activities[0].StudentCount = -5 },
		"target over max": func(in *Instance) { in.Faculty[0].TargetLoad = 100; in.Faculty[0].MaxLoad = 50 },
		"zero weight":     func(in *Instance) { in.Faculty[0].Weight = 0 },
		"bad section":     func(in *Instance) { in.Activities[0].SectionNumber = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			instance := validInstance()
			mutate(instance)
			assert.Error(t, instance.Validate())
		})
	}
}

func TestInstanceDemandAndCapacity(t *testing.T) {
	instance := validInstance()
	assert.Equal(t, 20.0, instance.TotalDemand())
	assert.Equal(t, 60.0, instance.TotalCapacity())
	assert.True(t, instance.CapacityFeasible())

	instance.Activities = append(instance.Activities, CourseActivity{
		ID: "Y", CourseID: "CS101", CourseName: "Programming I", Type: ActivityPractical,
		SectionNumber: 1, Hours: 50, StudentCount: 20,
	})
	assert.False(t, instance.CapacityFeasible())
}

func TestQualificationsLookup(t *testing.T) {
	q := NewQualifications()
	q.Set(1, "B")
	q.Set(1, "A")
	q.Set(2, "A")

	assert.True(t, q.Qualified(1, "A"))
	assert.True(t, q.Qualified(2, "A"))
	assert.False(t, q.Qualified(2, "B"))
	assert.False(t, q.Qualified(3, "A"))
	assert.Equal(t, []string{"A", "B"}, q.ActivityIDs(1))
	assert.Nil(t, q.ActivityIDs(9))
}
