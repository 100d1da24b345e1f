package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/galymzhantore/teachload-api/internal/dto"
	"github.com/galymzhantore/teachload-api/internal/generator"
	"github.com/galymzhantore/teachload-api/internal/models"
	"github.com/galymzhantore/teachload-api/internal/store"
	appErrors "github.com/galymzhantore/teachload-api/pkg/errors"
	"github.com/galymzhantore/teachload-api/pkg/export"
)

// InstanceService generates and serves problem instances.
type InstanceService struct {
	store     *store.MemoryStore
	validator *validator.Validate
	logger    *zap.Logger
	csv       *export.CSVExporter
}

// NewInstanceService wires instance dependencies.
func NewInstanceService(memory *store.MemoryStore, validate *validator.Validate, logger *zap.Logger) *InstanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstanceService{
		store:     memory,
		validator: validate,
		logger:    logger,
		csv:       export.NewCSVExporter(),
	}
}

// Generate produces a synthetic instance and stores it under "{size}_{seed}".
func (s *InstanceService) Generate(ctx context.Context, req dto.GenerateInstanceRequest) (*dto.InstanceSummary, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid instance generation payload")
	}
	if req.Seed == 0 {
		req.Seed = 42
	}

	instance, err := generator.New(req.Seed).Instance(generator.Size(req.Size))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInstanceInvalid.Code, appErrors.ErrInstanceInvalid.Status, err.Error())
	}

	id := store.InstanceID(req.Size, req.Seed)
	s.store.PutInstance(id, instance)
	s.logger.Info("instance generated",
		zap.String("instance_id", id),
		zap.Int("faculty", len(instance.Faculty)),
		zap.Int("activities", len(instance.Activities)),
	)

	return &dto.InstanceSummary{
		InstanceID:    id,
		Name:          instance.Name,
		FacultyCount:  len(instance.Faculty),
		ActivityCount: len(instance.Activities),
		TotalDemand:   instance.TotalDemand(),
		TotalCapacity: instance.TotalCapacity(),
	}, nil
}

// Get returns a stored instance.
func (s *InstanceService) Get(ctx context.Context, id string) (*models.Instance, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "instance id is required")
	}
	instance, ok := s.store.Instance(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "instance not found")
	}
	return instance, nil
}

// List returns the ids of stored instances.
func (s *InstanceService) List(ctx context.Context) []string {
	return s.store.InstanceIDs()
}

// ExportCSV renders the instance in the canonical rows-of-dicts layout:
// one file each for faculty, activities, and qualifications-where-true.
func (s *InstanceService) ExportCSV(ctx context.Context, id string) (map[string][]byte, error) {
	instance, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	files := make(map[string][]byte, 3)

	facultyData := export.NewDataset("id", "name", "rank", "target_load", "max_load", "weight", "qualified_courses")
	for _, f := range instance.Faculty {
		facultyData.Append(
			export.Count(f.ID),
			f.Name,
			string(f.Rank),
			export.Hours(f.TargetLoad),
			export.Hours(f.MaxLoad),
			fmt.Sprintf("%.1f", f.Weight),
			strings.Join(f.QualifiedCourses, ";"),
		)
	}
	facultyCSV, err := s.csv.Render(facultyData)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render faculty csv")
	}
	files["faculty.csv"] = facultyCSV

	activityData := export.NewDataset("id", "course_id", "course_name", "activity_type", "section", "hours", "students", "required_rank")
	for _, a := range instance.Activities {
		requiredRank := ""
		if a.RequiredRank != nil {
			requiredRank = string(*a.RequiredRank)
		}
		activityData.Append(
			a.ID,
			a.CourseID,
			a.CourseName,
			string(a.Type),
			export.Count(a.SectionNumber),
			export.Hours(a.Hours),
			export.Count(a.StudentCount),
			requiredRank,
		)
	}
	activitiesCSV, err := s.csv.Render(activityData)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render activities csv")
	}
	files["activities.csv"] = activitiesCSV

	qualificationData := export.NewDataset("faculty_id", "activity_id")
	for _, f := range instance.Faculty {
		for _, activityID := range instance.Qualifications.ActivityIDs(f.ID) {
			qualificationData.Append(export.Count(f.ID), activityID)
		}
	}
	qualificationsCSV, err := s.csv.Render(qualificationData)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render qualifications csv")
	}
	files["qualifications.csv"] = qualificationsCSV

	return files, nil
}
