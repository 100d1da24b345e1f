package solver

import "github.com/galymzhantore/teachload-api/internal/models"

// Index lowers the sparse qualification relation into two adjacency lists
// so solvers can look up eligible pairs in O(1). Both lists are sorted by
// position for deterministic iteration.
type Index struct {
	// FacultyIDs maps faculty position to faculty id.
	FacultyIDs []int
	// PerActivity lists, for each activity position, the qualified faculty
	// positions in ascending order.
	PerActivity [][]int
	// PerFaculty lists, for each faculty position, the qualified activity
	// positions in ascending order.
	PerFaculty [][]int
}

// BuildIndex derives the adjacency lists for the instance. The second
// return value lists activities with no qualified faculty; a non-empty
// list means the instance is uncoverable and no search should start.
func BuildIndex(instance *models.Instance) (*Index, []string) {
	idx := &Index{
		FacultyIDs:  make([]int, len(instance.Faculty)),
		PerActivity: make([][]int, len(instance.Activities)),
		PerFaculty:  make([][]int, len(instance.Faculty)),
	}
	for i, f := range instance.Faculty {
		idx.FacultyIDs[i] = f.ID
	}

	var uncoverable []string
	for ai, activity := range instance.Activities {
		qualified := make([]int, 0, 4)
		for fi, f := range instance.Faculty {
			if instance.Qualifications.Qualified(f.ID, activity.ID) {
				qualified = append(qualified, fi)
				idx.PerFaculty[fi] = append(idx.PerFaculty[fi], ai)
			}
		}
		if len(qualified) == 0 {
			uncoverable = append(uncoverable, activity.ID)
		}
		idx.PerActivity[ai] = qualified
	}
	return idx, uncoverable
}

// Options returns the qualified faculty positions for the activity position.
func (idx *Index) Options(activityPos int) []int {
	return idx.PerActivity[activityPos]
}
