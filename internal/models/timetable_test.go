package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardSlots(t *testing.T) {
	slots := StandardSlots()
	assert.Len(t, slots, 8)
	for i, slot := range slots {
		assert.Equal(t, i+1, slot.ID)
		assert.NotEmpty(t, slot.Start)
		assert.NotEmpty(t, slot.End)
	}
}

func TestActivityTypeOccupiesRoom(t *testing.T) {
	assert.True(t, ActivityLecture.OccupiesRoom())
	assert.True(t, ActivityPractical.OccupiesRoom())
	assert.True(t, ActivityLab.OccupiesRoom())
	assert.True(t, ActivitySeminar.OccupiesRoom())
	assert.False(t, ActivityBachelorThesis.OccupiesRoom())
	assert.False(t, ActivityMasterThesis.OccupiesRoom())
	assert.False(t, ActivityResearchNIRM.OccupiesRoom())
}

func TestCheckConflictsClean(t *testing.T) {
	timetable := Timetable{
		Scheduled: []ScheduledActivity{
			{ActivityID: "A", FacultyID: 1, Day: Monday, SlotID: 1, RoomID: "R1"},
			{ActivityID: "B", FacultyID: 1, Day: Monday, SlotID: 2, RoomID: "R1"},
			{ActivityID: "C", FacultyID: 2, Day: Monday, SlotID: 1, RoomID: "R2"},
		},
	}
	assert.Empty(t, timetable.CheckConflicts())
}

func TestCheckConflictsFacultyDoubleBooking(t *testing.T) {
	timetable := Timetable{
		Scheduled: []ScheduledActivity{
			{ActivityID: "A", FacultyID: 1, Day: Tuesday, SlotID: 3, RoomID: "R1"},
			{ActivityID: "B", FacultyID: 1, Day: Tuesday, SlotID: 3, RoomID: "R2"},
		},
	}
	conflicts := timetable.CheckConflicts()
	assert.Len(t, conflicts, 1)
	assert.Equal(t, "FACULTY", conflicts[0].Kind)
}

func TestCheckConflictsRoomDoubleBooking(t *testing.T) {
	timetable := Timetable{
		Scheduled: []ScheduledActivity{
			{ActivityID: "A", FacultyID: 1, Day: Friday, SlotID: 8, RoomID: "R1"},
			{ActivityID: "B", FacultyID: 2, Day: Friday, SlotID: 8, RoomID: "R1"},
		},
	}
	conflicts := timetable.CheckConflicts()
	assert.Len(t, conflicts, 1)
	assert.Equal(t, "ROOM", conflicts[0].Kind)
}

func TestRoomCanFit(t *testing.T) {
	room := Room{ID: "R1", Capacity: 30}
	assert.True(t, room.CanFit(30))
	assert.True(t, room.CanFit(0))
	assert.False(t, room.CanFit(31))
}
