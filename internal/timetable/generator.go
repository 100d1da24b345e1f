package timetable

import (
	"fmt"
	"math/rand"

	"github.com/galymzhantore/teachload-api/internal/models"
)

// roomTypePreferences maps each classroom activity type onto the room
// types it should land in first.
var roomTypePreferences = map[models.ActivityType][]models.RoomType{
	models.ActivityLecture:   {models.RoomLectureHall, models.RoomClassroom},
	models.ActivityPractical: {models.RoomClassroom},
	models.ActivityLab:       {models.RoomLaboratory, models.RoomComputerLab},
	models.ActivitySeminar:   {models.RoomClassroom},
}

// Generator places solver assignments onto the weekly (day, slot, room)
// grid. It is a greedy best-effort placer, not a solver: an assignment
// with no free triple is dropped from the timetable and stays visible
// only in the optimization result. Given the same seed and assignment
// order the output is identical.
type Generator struct {
	rng   *rand.Rand
	slots []models.TimeSlot
	days  []models.DayOfWeek
}

// New builds a generator seeded for reproducible placement.
func New(seed int64) *Generator {
	return &Generator{
		rng:   rand.New(rand.NewSource(seed)),
		slots: models.StandardSlots(),
		days:  models.WeekDays(),
	}
}

// GenerateRooms produces a deterministic campus room catalog: a quarter
// lecture halls, half classrooms, and a sixth each of computer labs and
// laboratories, mirroring the real building stock.
func (g *Generator) GenerateRooms(count int) []models.Room {
	if count <= 0 {
		count = 20
	}
	var rooms []models.Room

	hallCapacities := []int{100, 120, 150, 200}
	for i := 1; i <= count/4; i++ {
		rooms = append(rooms, models.Room{
			ID:       fmt.Sprintf("LH%02d", i),
			Name:     fmt.Sprintf("Lecture hall %d", 100+i),
			Type:     models.RoomLectureHall,
			Capacity: hallCapacities[g.rng.Intn(len(hallCapacities))],
			Building: "Main building",
		})
	}

	roomCapacities := []int{30, 35, 40}
	for i := 1; i <= count/2; i++ {
		rooms = append(rooms, models.Room{
			ID:       fmt.Sprintf("CR%02d", i),
			Name:     fmt.Sprintf("Classroom %d", 200+i),
			Type:     models.RoomClassroom,
			Capacity: roomCapacities[g.rng.Intn(len(roomCapacities))],
			Building: "Main building",
		})
	}

	for i := 1; i <= count/6; i++ {
		rooms = append(rooms, models.Room{
			ID:       fmt.Sprintf("CL%02d", i),
			Name:     fmt.Sprintf("Computer lab %d", 300+i),
			Type:     models.RoomComputerLab,
			Capacity: 25,
			Building: "Main building",
		})
	}

	for i := 1; i <= count/6; i++ {
		rooms = append(rooms, models.Room{
			ID:       fmt.Sprintf("LB%02d", i),
			Name:     fmt.Sprintf("Laboratory %d", 400+i),
			Type:     models.RoomLaboratory,
			Capacity: 20,
			Building: "Main building",
		})
	}

	return rooms
}

// busyGrid tracks occupied slots per day for one faculty member or room.
type busyGrid map[models.DayOfWeek]map[int]struct{}

func newBusyGrid(days []models.DayOfWeek) busyGrid {
	grid := make(busyGrid, len(days))
	for _, day := range days {
		grid[day] = make(map[int]struct{})
	}
	return grid
}

func (b busyGrid) occupied(day models.DayOfWeek, slotID int) bool {
	_, ok := b[day][slotID]
	return ok
}

func (b busyGrid) reserve(day models.DayOfWeek, slotID int) {
	b[day][slotID] = struct{}{}
}

// Generate walks the result's assignments in order and places each
// classroom activity into the first free (room, day, slot) triple.
// Supervision and research activities never occupy rooms and are
// skipped.
func (g *Generator) Generate(
	instance *models.Instance,
	result *models.OptimizationResult,
	rooms []models.Room,
) *models.Timetable {
	if len(rooms) == 0 {
		rooms = g.GenerateRooms(20)
	}

	activitiesByID := make(map[string]models.CourseActivity, len(instance.Activities))
	for _, a := range instance.Activities {
		activitiesByID[a.ID] = a
	}
	facultyIDs := make(map[int]struct{}, len(instance.Faculty))
	for _, f := range instance.Faculty {
		facultyIDs[f.ID] = struct{}{}
	}

	facultyBusy := make(map[int]busyGrid, len(instance.Faculty))
	for _, f := range instance.Faculty {
		facultyBusy[f.ID] = newBusyGrid(g.days)
	}
	roomBusy := make(map[string]busyGrid, len(rooms))
	for _, r := range rooms {
		roomBusy[r.ID] = newBusyGrid(g.days)
	}

	timetable := &models.Timetable{Rooms: rooms, Scheduled: []models.ScheduledActivity{}}

	for _, assignment := range result.Assignments {
		activity, ok := activitiesByID[assignment.ActivityID]
		if !ok {
			continue
		}
		if _, ok := facultyIDs[assignment.FacultyID]; !ok {
			continue
		}
		if !activity.Type.OccupiesRoom() {
			continue
		}

		room, day, slot, found := g.findTriple(activity, assignment.FacultyID, rooms, roomBusy, facultyBusy)
		if !found {
			continue
		}

		timetable.Scheduled = append(timetable.Scheduled, models.ScheduledActivity{
			ActivityID: activity.ID,
			FacultyID:  assignment.FacultyID,
			Day:        day,
			SlotID:     slot.ID,
			RoomID:     room.ID,
			CourseName: activity.CourseName,
			Type:       activity.Type,
			Hours:      activity.Hours,
		})
		facultyBusy[assignment.FacultyID].reserve(day, slot.ID)
		roomBusy[room.ID].reserve(day, slot.ID)
	}

	return timetable
}

// findTriple narrows rooms by preferred type and capacity, relaxing to
// capacity-only and then to any room, shuffles candidates and days, and
// probes slots in fixed order for the first conflict-free triple.
func (g *Generator) findTriple(
	activity models.CourseActivity,
	facultyID int,
	rooms []models.Room,
	roomBusy map[string]busyGrid,
	facultyBusy map[int]busyGrid,
) (models.Room, models.DayOfWeek, models.TimeSlot, bool) {
	preferred := roomTypePreferences[activity.Type]
	if preferred == nil {
		preferred = []models.RoomType{models.RoomClassroom}
	}

	var candidates []models.Room
	for _, r := range rooms {
		if typeIn(r.Type, preferred) && r.CanFit(activity.StudentCount) {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		for _, r := range rooms {
			if r.CanFit(activity.StudentCount) {
				candidates = append(candidates, r)
			}
		}
	}
	if len(candidates) == 0 {
		candidates = append(candidates, rooms...)
	}

	g.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	days := make([]models.DayOfWeek, len(g.days))
	copy(days, g.days)
	g.rng.Shuffle(len(days), func(i, j int) {
		days[i], days[j] = days[j], days[i]
	})

	for _, room := range candidates {
		for _, day := range days {
			for _, slot := range g.slots {
				if roomBusy[room.ID].occupied(day, slot.ID) {
					continue
				}
				if facultyBusy[facultyID].occupied(day, slot.ID) {
					continue
				}
				return room, day, slot, true
			}
		}
	}
	return models.Room{}, "", models.TimeSlot{}, false
}

func typeIn(t models.RoomType, set []models.RoomType) bool {
	for _, candidate := range set {
		if t == candidate {
			return true
		}
	}
	return false
}
