package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galymzhantore/teachload-api/internal/models"
)

func fixtureInstance() (*models.Instance, *models.OptimizationResult) {
	faculty := []models.Faculty{
		models.NewFaculty(1, "A", models.RankTeacher, 50, 50),
		models.NewFaculty(2, "B", models.RankTeacher, 50, 50),
	}
	activities := []models.CourseActivity{
		{ID: "A", CourseID: "CS101", CourseName: "Programming I", Type: models.ActivityPractical, SectionNumber: 1, Hours: 30, StudentCount: 20},
		{ID: "B", CourseID: "CS101", CourseName: "Programming I", Type: models.ActivityPractical, SectionNumber: 2, Hours: 20, StudentCount: 20},
		{ID: "C", CourseID: "CS102", CourseName: "Algorithms", Type: models.ActivityPractical, SectionNumber: 1, Hours: 10, StudentCount: 20},
		{ID: "D", CourseID: "CS102", CourseName: "Algorithms", Type: models.ActivityPractical, SectionNumber: 2, Hours: 20, StudentCount: 20},
		{ID: "E", CourseID: "CS103", CourseName: "Data Structures", Type: models.ActivityPractical, SectionNumber: 1, Hours: 20, StudentCount: 20},
	}
	instance := &models.Instance{
		Name:           "tight",
		Faculty:        faculty,
		Activities:     activities,
		Qualifications: models.NewQualifications(),
	}
	for _, f := range faculty {
		for _, a := range activities {
			instance.Qualifications.Set(f.ID, a.ID)
		}
	}

	result := &models.OptimizationResult{
		Assignments: []models.Assignment{
			{FacultyID: 1, ActivityID: "A"},
			{FacultyID: 1, ActivityID: "B"},
			{FacultyID: 2, ActivityID: "C"},
			{FacultyID: 2, ActivityID: "D"},
			{FacultyID: 2, ActivityID: "E"},
		},
		SolverStatus: models.StatusOptimal,
		FacultyLoads: map[int]float64{1: 50, 2: 50},
		IsFeasible:   true,
	}
	return instance, result
}

func TestGenerateSchedulesAllAssignments(t *testing.T) {
	instance, result := fixtureInstance()
	rooms := []models.Room{
		{ID: "R1", Name: "Classroom 201", Type: models.RoomClassroom, Capacity: 40},
		{ID: "R2", Name: "Classroom 202", Type: models.RoomClassroom, Capacity: 40},
	}

	grid := New(42).Generate(instance, result, rooms)

	assert.Len(t, grid.Scheduled, 5)
	assert.Empty(t, grid.CheckConflicts())
	assert.Equal(t, rooms, grid.Rooms)
}

func TestGenerateSkipsSupervision(t *testing.T) {
	instance, result := fixtureInstance()
	instance.Activities = append(instance.Activities, models.CourseActivity{
		ID: "T1", CourseID: "THESIS_BACHELOR", CourseName: "Bachelor thesis #1",
		Type: models.ActivityBachelorThesis, SectionNumber: 1, Hours: 20, StudentCount: 1,
	})
	result.Assignments = append(result.Assignments, models.Assignment{FacultyID: 1, ActivityID: "T1"})

	grid := New(42).Generate(instance, result, nil)

	for _, s := range grid.Scheduled {
		assert.NotEqual(t, "T1", s.ActivityID)
	}
}

func TestGenerateDeterministicPerSeed(t *testing.T) {
	instance, result := fixtureInstance()

	first := New(7).Generate(instance, result, nil)
	second := New(7).Generate(instance, result, nil)
	assert.Equal(t, first.Scheduled, second.Scheduled)
}

func TestGenerateDropsWhenGridExhausted(t *testing.T) {
	// One room, one faculty, more activities than week slots.
	faculty := []models.Faculty{models.NewFaculty(1, "A", models.RankTeacher, 600, 680)}
	var activities []models.CourseActivity
	var assignments []models.Assignment
	for i := 0; i < 45; i++ {
		id := string(rune('a'+i%26)) + string(rune('0'+i/26))
		activities = append(activities, models.CourseActivity{
			ID: id, CourseID: "CS101", CourseName: "Programming I",
			Type: models.ActivityPractical, SectionNumber: i + 1, Hours: 10, StudentCount: 20,
		})
		assignments = append(assignments, models.Assignment{FacultyID: 1, ActivityID: id})
	}
	instance := &models.Instance{Name: "over", Faculty: faculty, Activities: activities, Qualifications: models.NewQualifications()}
	for _, a := range activities {
		instance.Qualifications.Set(1, a.ID)
	}
	result := &models.OptimizationResult{
		Assignments:  assignments,
		SolverStatus: models.StatusCompleted,
		FacultyLoads: map[int]float64{1: 450},
		IsFeasible:   true,
	}

	rooms := []models.Room{{ID: "R1", Name: "Classroom 201", Type: models.RoomClassroom, Capacity: 40}}
	grid := New(42).Generate(instance, result, rooms)

	// Five days with eight slots each: the grid holds 40 placements.
	require.Len(t, grid.Scheduled, 40)
	assert.Empty(t, grid.CheckConflicts())
}

func TestGenerateRoomsCatalog(t *testing.T) {
	rooms := New(42).GenerateRooms(20)

	byType := make(map[models.RoomType]int)
	for _, r := range rooms {
		byType[r.Type]++
		assert.Positive(t, r.Capacity)
	}
	assert.Equal(t, 5, byType[models.RoomLectureHall])
	assert.Equal(t, 10, byType[models.RoomClassroom])
	assert.Equal(t, 3, byType[models.RoomComputerLab])
	assert.Equal(t, 3, byType[models.RoomLaboratory])
}
