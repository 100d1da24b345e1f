package models

import (
	"fmt"
	"sort"
)

// Qualifications is the sparse faculty-activity eligibility relation.
// Only true pairs are stored.
type Qualifications map[int]map[string]struct{}

// NewQualifications allocates an empty relation.
func NewQualifications() Qualifications {
	return make(Qualifications)
}

// Set marks the pair as qualified.
func (q Qualifications) Set(facultyID int, activityID string) {
	row, ok := q[facultyID]
	if !ok {
		row = make(map[string]struct{})
		q[facultyID] = row
	}
	row[activityID] = struct{}{}
}

// Qualified reports whether the faculty may take the activity.
func (q Qualifications) Qualified(facultyID int, activityID string) bool {
	row, ok := q[facultyID]
	if !ok {
		return false
	}
	_, ok = row[activityID]
	return ok
}

// ActivityIDs returns the sorted activity ids the faculty is qualified for.
func (q Qualifications) ActivityIDs(facultyID int) []string {
	row, ok := q[facultyID]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(row))
	for id := range row {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Instance is one immutable problem description handed to the solvers.
type Instance struct {
	Name           string           `json:"name"`
	Faculty        []Faculty        `json:"faculty"`
	Activities     []CourseActivity `json:"activities"`
	Qualifications Qualifications   `json:"-"`
	Metadata       map[string]any   `json:"metadata,omitempty"`
}

// TotalDemand sums the hours of all activities.
func (in *Instance) TotalDemand() float64 {
	var total float64
	for _, a := range in.Activities {
		total += a.Hours
	}
	return total
}

// TotalCapacity sums the max loads of all faculty.
func (in *Instance) TotalCapacity() float64 {
	var total float64
	for _, f := range in.Faculty {
		total += f.MaxLoad
	}
	return total
}

// CapacityFeasible reports whether demand fits within aggregate capacity.
func (in *Instance) CapacityFeasible() bool {
	return in.TotalDemand() <= in.TotalCapacity()
}

// Validate rejects malformed instances before any solve is attempted.
func (in *Instance) Validate() error {
	if len(in.Faculty) == 0 {
		return fmt.Errorf("instance invalid: no faculty")
	}
	if len(in.Activities) == 0 {
		return fmt.Errorf("instance invalid: no activities")
	}
	seenFaculty := make(map[int]struct{}, len(in.Faculty))
	for _, f := range in.Faculty {
		if _, dup := seenFaculty[f.ID]; dup {
			return fmt.Errorf("instance invalid: duplicate faculty id %d", f.ID)
		}
		seenFaculty[f.ID] = struct{}{}
		if f.TargetLoad < 0 {
			return fmt.Errorf("instance invalid: faculty %d has negative target load", f.ID)
		}
		if f.MaxLoad < f.TargetLoad {
			return fmt.Errorf("instance invalid: faculty %d target load %.1f exceeds max load %.1f", f.ID, f.TargetLoad, f.MaxLoad)
		}
		if f.Weight <= 0 {
			return fmt.Errorf("instance invalid: faculty %d has non-positive weight", f.ID)
		}
	}
	seenActivity := make(map[string]struct{}, len(in.Activities))
	for _, a := range in.Activities {
		if _, dup := seenActivity[a.ID]; dup {
			return fmt.Errorf("instance invalid: duplicate activity id %s", a.ID)
		}
		seenActivity[a.ID] = struct{}{}
		if a.Hours <= 0 {
			return fmt.Errorf("instance invalid: activity %s has non-positive hours", a.ID)
		}
		if a.StudentCount < 0 {
			return fmt.Errorf("instance invalid: activity %s has negative student count", a.ID)
		}
		if a.SectionNumber < 1 {
			return fmt.Errorf("instance invalid: activity %s has section number below 1", a.ID)
		}
	}
	return nil
}
