package generator

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/galymzhantore/teachload-api/internal/models"
)

// Size selects one of the three fixture profiles.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Valid reports whether the size names a known profile.
func (s Size) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	}
	return false
}

type sizeConfig struct {
	facultyCount     int
	courseCount      int
	lecturesPer      int
	practicalsPer    int
	bachelorStudents int
	masterStudents   int
	nirmProjects     int
}

var sizeConfigs = map[Size]sizeConfig{
	SizeSmall:  {facultyCount: 15, courseCount: 10, lecturesPer: 2, practicalsPer: 2, bachelorStudents: 20, masterStudents: 8, nirmProjects: 5},
	SizeMedium: {facultyCount: 35, courseCount: 25, lecturesPer: 2, practicalsPer: 3, bachelorStudents: 50, masterStudents: 20, nirmProjects: 12},
	SizeLarge:  {facultyCount: 70, courseCount: 50, lecturesPer: 3, practicalsPer: 4, bachelorStudents: 100, masterStudents: 40, nirmProjects: 25},
}

var firstNames = []string{
	"Aigul", "Assel", "Zhanar", "Dina", "Saule",
	"Yerlan", "Arman", "Nurlan", "Bauyrzhan", "Marat",
	"Aliya", "Kamila", "Nazym", "Assiya", "Zhaniya",
}

var lastNames = []string{
	"Abdullayev", "Smagulov", "Ospanova", "Zhumabayev", "Seitova",
	"Nurmukhanov", "Alimbetov", "Kassymova", "Yerlanov", "Zhaksylykov",
}

var coursePrefixes = []string{"CS", "MATH", "PHYS", "ENG", "BUS"}

var courseNames = map[string][]string{
	"CS":   {"Programming I", "Data Structures", "Algorithms", "Database Systems", "Web Development"},
	"MATH": {"Calculus", "Linear Algebra", "Discrete Mathematics", "Statistics", "Probability Theory"},
	"PHYS": {"Physics I", "Physics II", "Thermodynamics", "Quantum Mechanics", "Optics"},
	"ENG":  {"Academic Writing", "Technical English", "Literature", "Communication", "Presentation Skills"},
	"BUS":  {"Microeconomics", "Marketing", "Accounting", "Management", "Finance"},
}

var rankDistribution = []struct {
	rank models.FacultyRank
	prob float64
}{
	{models.RankProfessor, 0.05},
	{models.RankAssociateProfessor, 0.10},
	{models.RankAssistantProfessor, 0.15},
	{models.RankSeniorLecturer, 0.20},
	{models.RankSeniorTeacher, 0.20},
	{models.RankTeacher, 0.20},
	{models.RankAdvisor, 0.05},
	{models.RankTeacherEnglish, 0.05},
}

// Generator produces synthetic problem instances. Every random choice is
// drawn from one seeded RNG, so a (size, seed) pair always yields the
// same instance.
type Generator struct {
	seed int64
	rng  *rand.Rand
}

// New builds a generator for the given seed.
func New(seed int64) *Generator {
	return &Generator{seed: seed, rng: rand.New(rand.NewSource(seed))}
}

// Instance produces a full problem instance for the size profile.
func (g *Generator) Instance(size Size) (*models.Instance, error) {
	cfg, ok := sizeConfigs[size]
	if !ok {
		return nil, fmt.Errorf("invalid size %q: must be small, medium, or large", size)
	}

	faculty := g.generateFaculty(cfg.facultyCount)
	activities := g.generateCourses(cfg.courseCount, cfg.lecturesPer, cfg.practicalsPer)
	activities = append(activities, g.generateSupervision(cfg)...)
	qualifications := g.generateQualifications(faculty, activities)

	instance := &models.Instance{
		Name:           fmt.Sprintf("%s instance (%d faculty, %d activities)", size, len(faculty), len(activities)),
		Faculty:        faculty,
		Activities:     activities,
		Qualifications: qualifications,
		Metadata: map[string]any{
			"size": string(size),
			"seed": g.seed,
		},
	}
	if err := instance.Validate(); err != nil {
		return nil, err
	}
	return instance, nil
}

func (g *Generator) facultyName() string {
	first := firstNames[g.rng.Intn(len(firstNames))]
	last := lastNames[g.rng.Intn(len(lastNames))]
	return first + " " + last
}

func (g *Generator) generateFaculty(count int) []models.Faculty {
	var specialRoles []models.FacultyRank
	if count > 10 {
		specialRoles = append(specialRoles, models.RankDean)
	}
	if count > 15 {
		specialRoles = append(specialRoles, models.RankAdmin)
	}

	faculty := make([]models.Faculty, 0, count)
	for i := 0; i < count; i++ {
		var rank models.FacultyRank
		if i < len(specialRoles) {
			rank = specialRoles[i]
		} else {
			r := g.rng.Float64()
			rank = models.RankTeacher
			cumulative := 0.0
			for _, entry := range rankDistribution {
				cumulative += entry.prob
				if r <= cumulative {
					rank = entry.rank
					break
				}
			}
		}

		var target, maxLoad float64
		switch rank {
		case models.RankAdmin:
			target = uniform(g.rng, 100, 250)
			maxLoad = 300
		case models.RankDean:
			// Deans take at most half a full annual position.
			target = uniform(g.rng, 200, 340)
			maxLoad = math.Min(340, models.MaxAnnualLoad/2)
		default:
			target = rank.BaseTargetLoad() + uniform(g.rng, 0, 30)
			maxLoad = math.Min(target*uniform(g.rng, 1.1, 1.15), models.MaxAnnualLoad)
		}

		faculty = append(faculty, models.NewFaculty(
			i+1,
			g.facultyName(),
			rank,
			round1(target),
			round1(maxLoad),
		))
	}
	return faculty
}

func (g *Generator) generateCourses(count, lecturesPer, practicalsPer int) []models.CourseActivity {
	var activities []models.CourseActivity
	lectureRank := models.RankSeniorLecturer
	practicalRank := models.RankTeacher

	for courseNum := 1; courseNum <= count; courseNum++ {
		dept := coursePrefixes[g.rng.Intn(len(coursePrefixes))]
		courseID := fmt.Sprintf("%s%d", dept, 100+courseNum)
		names := courseNames[dept]
		courseName := names[g.rng.Intn(len(names))]

		for section := 1; section <= lecturesPer; section++ {
			hours := []float64{30, 45, 60}[g.rng.Intn(3)]
			students := 80 + g.rng.Intn(121)
			activities = append(activities, models.CourseActivity{
				ID:            fmt.Sprintf("%s_L%d", courseID, section),
				CourseID:      courseID,
				CourseName:    courseName,
				Type:          models.ActivityLecture,
				SectionNumber: section,
				Hours:         hours,
				StudentCount:  students,
				RequiredRank:  &lectureRank,
			})
		}

		for section := 1; section <= practicalsPer; section++ {
			hours := []float64{15, 30, 45}[g.rng.Intn(3)]
			students := 20 + g.rng.Intn(21)
			activities = append(activities, models.CourseActivity{
				ID:            fmt.Sprintf("%s_P%d", courseID, section),
				CourseID:      courseID,
				CourseName:    courseName,
				Type:          models.ActivityPractical,
				SectionNumber: section,
				Hours:         hours,
				StudentCount:  students,
				RequiredRank:  &practicalRank,
			})
		}
	}
	return activities
}

// Supervision norms in hours per unit: bachelor thesis 20, master thesis
// 40, NIRM project 25.
func (g *Generator) generateSupervision(cfg sizeConfig) []models.CourseActivity {
	var activities []models.CourseActivity
	bachelorRank := models.RankSeniorLecturer
	masterRank := models.RankAssistantProfessor

	for i := 1; i <= cfg.bachelorStudents; i++ {
		activities = append(activities, models.CourseActivity{
			ID:            fmt.Sprintf("THESIS_B%d", i),
			CourseID:      "THESIS_BACHELOR",
			CourseName:    fmt.Sprintf("Bachelor thesis #%d", i),
			Type:          models.ActivityBachelorThesis,
			SectionNumber: i,
			Hours:         20,
			StudentCount:  1,
			RequiredRank:  &bachelorRank,
		})
	}
	for i := 1; i <= cfg.masterStudents; i++ {
		activities = append(activities, models.CourseActivity{
			ID:            fmt.Sprintf("THESIS_M%d", i),
			CourseID:      "THESIS_MASTER",
			CourseName:    fmt.Sprintf("Master thesis #%d", i),
			Type:          models.ActivityMasterThesis,
			SectionNumber: i,
			Hours:         40,
			StudentCount:  1,
			RequiredRank:  &masterRank,
		})
	}
	for i := 1; i <= cfg.nirmProjects; i++ {
		activities = append(activities, models.CourseActivity{
			ID:            fmt.Sprintf("NIRM_%d", i),
			CourseID:      "NIRM_EIR",
			CourseName:    fmt.Sprintf("Research project #%d", i),
			Type:          models.ActivityResearchNIRM,
			SectionNumber: i,
			Hours:         25,
			StudentCount:  2 + g.rng.Intn(4),
			RequiredRank:  &masterRank,
		})
	}
	return activities
}

const qualificationRate = 0.4

// generateQualifications marks each faculty qualified for a sampled set
// of courses gated by rank, then repairs any activity left without a
// single qualified faculty so the coverage invariant holds.
func (g *Generator) generateQualifications(faculty []models.Faculty, activities []models.CourseActivity) models.Qualifications {
	courseSet := make(map[string]struct{})
	var courses []string
	for _, a := range activities {
		if _, seen := courseSet[a.CourseID]; !seen {
			courseSet[a.CourseID] = struct{}{}
			courses = append(courses, a.CourseID)
		}
	}

	matrix := models.NewQualifications()

	for fi := range faculty {
		f := &faculty[fi]
		numCourses := int(float64(len(courses)) * qualificationRate)
		if numCourses < 2 {
			numCourses = 2
		}
		if numCourses > len(courses) {
			numCourses = len(courses)
		}
		qualifiedCourses := make(map[string]struct{}, numCourses)
		for _, pos := range g.rng.Perm(len(courses))[:numCourses] {
			qualifiedCourses[courses[pos]] = struct{}{}
			f.QualifiedCourses = append(f.QualifiedCourses, courses[pos])
		}

		for _, activity := range activities {
			if _, ok := qualifiedCourses[activity.CourseID]; !ok {
				continue
			}
			if activity.RequiredRank != nil && !f.Rank.AtLeast(*activity.RequiredRank) {
				continue
			}
			matrix.Set(f.ID, activity.ID)
			f.Preferences[activity.ID] = 5 + g.rng.Intn(6)
		}
	}

	// Repair pass: every activity must have at least one qualified faculty.
	for _, activity := range activities {
		covered := false
		for _, f := range faculty {
			if matrix.Qualified(f.ID, activity.ID) {
				covered = true
				break
			}
		}
		if covered {
			continue
		}

		var eligible []int
		for fi, f := range faculty {
			if activity.RequiredRank == nil || f.Rank.AtLeast(*activity.RequiredRank) {
				eligible = append(eligible, fi)
			}
		}
		if len(eligible) == 0 {
			eligible = make([]int, len(faculty))
			for fi := range faculty {
				eligible[fi] = fi
			}
		}

		chosen := &faculty[eligible[g.rng.Intn(len(eligible))]]
		if !contains(chosen.QualifiedCourses, activity.CourseID) {
			chosen.QualifiedCourses = append(chosen.QualifiedCourses, activity.CourseID)
		}
		matrix.Set(chosen.ID, activity.ID)
		chosen.Preferences[activity.ID] = 5 + g.rng.Intn(6)
	}

	return matrix
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func contains(values []string, needle string) bool {
	for _, v := range values {
		if v == needle {
			return true
		}
	}
	return false
}
