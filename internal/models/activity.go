package models

// ActivityType enumerates the kinds of course work that consume load hours.
type ActivityType string

const (
	ActivityLecture        ActivityType = "LECTURE"
	ActivityPractical      ActivityType = "PRACTICAL"
	ActivityLab            ActivityType = "LAB"
	ActivitySeminar        ActivityType = "SEMINAR"
	ActivityBachelorThesis ActivityType = "BACHELOR_THESIS"
	ActivityMasterThesis   ActivityType = "MASTER_THESIS"
	ActivityResearchNIRM   ActivityType = "RESEARCH_NIRM"
)

// OccupiesRoom reports whether the activity takes place in a room.
// Supervision and research work is met outside the weekly grid.
func (t ActivityType) OccupiesRoom() bool {
	switch t {
	case ActivityBachelorThesis, ActivityMasterThesis, ActivityResearchNIRM:
		return false
	default:
		return true
	}
}

// CourseActivity is a single schedulable unit of a course: one lecture
// stream, one practical section, one supervised thesis, and so on.
type CourseActivity struct {
	ID            string       `json:"id"`
	CourseID      string       `json:"course_id"`
	CourseName    string       `json:"course_name"`
	Type          ActivityType `json:"activity_type"`
	SectionNumber int          `json:"section_number"`
	Hours         float64      `json:"hours"`
	StudentCount  int          `json:"student_count"`
	RequiredRank  *FacultyRank `json:"required_rank,omitempty"`
}

// Assignment pairs a faculty member with an activity in a solver result.
type Assignment struct {
	FacultyID       int     `json:"faculty_id"`
	ActivityID      string  `json:"activity_id"`
	PreferenceScore float64 `json:"preference_score"`
}
