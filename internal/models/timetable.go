package models

import "fmt"

// RoomType enumerates the room categories on campus.
type RoomType string

const (
	RoomLectureHall RoomType = "LECTURE_HALL"
	RoomClassroom   RoomType = "CLASSROOM"
	RoomComputerLab RoomType = "COMPUTER_LAB"
	RoomLaboratory  RoomType = "LABORATORY"
)

// Room describes one bookable auditorium.
type Room struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Type     RoomType `json:"room_type"`
	Capacity int      `json:"capacity"`
	Building string   `json:"building,omitempty"`
}

// CanFit reports whether the room holds the given number of students.
func (r Room) CanFit(students int) bool {
	return r.Capacity >= students
}

// DayOfWeek enumerates the teaching days of the weekly grid.
type DayOfWeek string

const (
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
)

// WeekDays lists the teaching days in calendar order.
func WeekDays() []DayOfWeek {
	return []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday}
}

// TimeSlot is one of the eight fixed daily academic periods.
type TimeSlot struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Start string `json:"start_time"`
	End   string `json:"end_time"`
}

// StandardSlots returns the fixed daily grid of eight periods.
func StandardSlots() []TimeSlot {
	return []TimeSlot{
		{ID: 1, Name: "1", Start: "08:30", End: "09:20"},
		{ID: 2, Name: "2", Start: "09:30", End: "10:20"},
		{ID: 3, Name: "3", Start: "10:30", End: "11:20"},
		{ID: 4, Name: "4", Start: "11:30", End: "12:20"},
		{ID: 5, Name: "5", Start: "13:00", End: "13:50"},
		{ID: 6, Name: "6", Start: "14:00", End: "14:50"},
		{ID: 7, Name: "7", Start: "15:00", End: "15:50"},
		{ID: 8, Name: "8", Start: "16:00", End: "16:50"},
	}
}

// ScheduledActivity is one placed entry of the weekly timetable.
type ScheduledActivity struct {
	ActivityID string       `json:"activity_id"`
	FacultyID  int          `json:"faculty_id"`
	Day        DayOfWeek    `json:"day"`
	SlotID     int          `json:"slot_id"`
	RoomID     string       `json:"room_id"`
	CourseName string       `json:"course_name"`
	Type       ActivityType `json:"activity_type"`
	Hours      float64      `json:"hours"`
}

// Timetable collects conflict-free placements plus the room catalog used.
type Timetable struct {
	Scheduled []ScheduledActivity `json:"scheduled"`
	Rooms     []Room              `json:"rooms"`
}

// TimetableConflict names one double booking found by CheckConflicts.
type TimetableConflict struct {
	Kind        string    `json:"kind"`
	Day         DayOfWeek `json:"day"`
	SlotID      int       `json:"slot_id"`
	First       string    `json:"first_activity_id"`
	Second      string    `json:"second_activity_id"`
	Description string    `json:"description"`
}

// CheckConflicts verifies the two grid invariants: no faculty and no room
// is booked twice in the same (day, slot).
func (t *Timetable) CheckConflicts() []TimetableConflict {
	type facultyKey struct {
		faculty int
		day     DayOfWeek
		slot    int
	}
	type roomKey struct {
		room string
		day  DayOfWeek
		slot int
	}

	var conflicts []TimetableConflict
	facultySeen := make(map[facultyKey]string)
	roomSeen := make(map[roomKey]string)

	for _, s := range t.Scheduled {
		fk := facultyKey{faculty: s.FacultyID, day: s.Day, slot: s.SlotID}
		if prev, ok := facultySeen[fk]; ok {
			conflicts = append(conflicts, TimetableConflict{
				Kind:        "FACULTY",
				Day:         s.Day,
				SlotID:      s.SlotID,
				First:       prev,
				Second:      s.ActivityID,
				Description: fmt.Sprintf("faculty %d booked twice on %s slot %d", s.FacultyID, s.Day, s.SlotID),
			})
		} else {
			facultySeen[fk] = s.ActivityID
		}

		rk := roomKey{room: s.RoomID, day: s.Day, slot: s.SlotID}
		if prev, ok := roomSeen[rk]; ok {
			conflicts = append(conflicts, TimetableConflict{
				Kind:        "ROOM",
				Day:         s.Day,
				SlotID:      s.SlotID,
				First:       prev,
				Second:      s.ActivityID,
				Description: fmt.Sprintf("room %s booked twice on %s slot %d", s.RoomID, s.Day, s.SlotID),
			})
		} else {
			roomSeen[rk] = s.ActivityID
		}
	}
	return conflicts
}
