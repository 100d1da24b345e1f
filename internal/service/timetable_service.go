package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/galymzhantore/teachload-api/internal/dto"
	"github.com/galymzhantore/teachload-api/internal/models"
	"github.com/galymzhantore/teachload-api/internal/store"
	"github.com/galymzhantore/teachload-api/internal/timetable"
	appErrors "github.com/galymzhantore/teachload-api/pkg/errors"
)

// TimetableService turns feasible results into weekly grids.
type TimetableService struct {
	store     *store.MemoryStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimetableService wires timetable dependencies.
func NewTimetableService(memory *store.MemoryStore, validate *validator.Validate, logger *zap.Logger) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{store: memory, validator: validate, logger: logger}
}

// Generate builds (or rebuilds, under a new seed) the timetable for a
// stored feasible result.
func (s *TimetableService) Generate(ctx context.Context, req dto.TimetableRequest) (*dto.TimetableSummary, *models.Timetable, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable payload")
	}

	result, instanceID, ok := s.store.Result(req.ResultID)
	if !ok {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "result not found")
	}
	instance, ok := s.store.Instance(instanceID)
	if !ok {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "instance for result not found")
	}
	if !result.IsFeasible {
		return nil, nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "timetables require a feasible result")
	}

	seed := req.Seed
	if seed == 0 {
		seed = 42
	}
	gen := timetable.New(seed)

	rooms := req.Rooms
	if len(rooms) == 0 && req.RoomCount > 0 {
		rooms = gen.GenerateRooms(req.RoomCount)
	}

	grid := gen.Generate(instance, result, rooms)
	s.store.PutTimetable(req.ResultID, grid)

	placeable := 0
	for _, assignment := range result.Assignments {
		for _, a := range instance.Activities {
			if a.ID == assignment.ActivityID && a.Type.OccupiesRoom() {
				placeable++
				break
			}
		}
	}

	s.logger.Info("timetable generated",
		zap.String("result_id", req.ResultID),
		zap.Int("scheduled", len(grid.Scheduled)),
		zap.Int("dropped", placeable-len(grid.Scheduled)),
	)

	return &dto.TimetableSummary{
		ResultID:       req.ResultID,
		ScheduledCount: len(grid.Scheduled),
		DroppedCount:   placeable - len(grid.Scheduled),
		RoomCount:      len(grid.Rooms),
	}, grid, nil
}

// Get returns the stored timetable for a result.
func (s *TimetableService) Get(ctx context.Context, resultID string) (*models.Timetable, error) {
	if resultID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "result id is required")
	}
	grid, ok := s.store.Timetable(resultID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
	}
	return grid, nil
}

// Conflicts re-checks the stored timetable's grid invariants. A grid
// produced by the generator always reports an empty list.
func (s *TimetableService) Conflicts(ctx context.Context, resultID string) ([]models.TimetableConflict, error) {
	grid, err := s.Get(ctx, resultID)
	if err != nil {
		return nil, err
	}
	conflicts := grid.CheckConflicts()
	if conflicts == nil {
		conflicts = []models.TimetableConflict{}
	}
	return conflicts, nil
}
