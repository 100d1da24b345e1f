package dto

import "github.com/galymzhantore/teachload-api/internal/models"

// GenerateInstanceRequest asks the fixture producer for a synthetic instance.
type GenerateInstanceRequest struct {
	Size string `json:"size" validate:"required,oneof=small medium large"`
	Seed int64  `json:"seed"`
}

// InstanceSummary is the lightweight view returned after generation.
type InstanceSummary struct {
	InstanceID    string  `json:"instance_id"`
	Name          string  `json:"name"`
	FacultyCount  int     `json:"faculty_count"`
	ActivityCount int     `json:"activity_count"`
	TotalDemand   float64 `json:"total_demand"`
	TotalCapacity float64 `json:"total_capacity"`
}

// GeneticParams exposes the GA knobs over the API.
type GeneticParams struct {
	PopulationSize int     `json:"population_size" validate:"omitempty,min=2"`
	Generations    int     `json:"generations" validate:"omitempty,min=1"`
	EliteSize      int     `json:"elite_size" validate:"omitempty,min=1"`
	CrossoverRate  float64 `json:"crossover_rate" validate:"omitempty,gt=0,lte=1"`
	MutationRate   float64 `json:"mutation_rate" validate:"omitempty,gt=0,lte=1"`
}

// AnnealingParams exposes the SA knobs over the API.
type AnnealingParams struct {
	InitialTemp  float64 `json:"initial_temp" validate:"omitempty,gt=0"`
	CoolingRate  float64 `json:"cooling_rate" validate:"omitempty,gt=0,lt=1"`
	MinTemp      float64 `json:"min_temp" validate:"omitempty,gt=0"`
	StepsPerTemp int     `json:"steps_per_temp" validate:"omitempty,min=1"`
}

// SolveRequest selects an instance and a solver configuration.
type SolveRequest struct {
	InstanceID       string           `json:"instance_id" validate:"required"`
	Solver           string           `json:"solver" validate:"required,oneof=ortools pulp genetic sa"`
	TimeLimitSeconds int              `json:"time_limit" validate:"omitempty,min=1"`
	Seed             int64            `json:"seed"`
	Genetic          *GeneticParams   `json:"genetic,omitempty"`
	Annealing        *AnnealingParams `json:"annealing,omitempty"`
}

// SolveResponse summarises a stored solver run.
type SolveResponse struct {
	ResultID        string              `json:"result_id"`
	Status          models.SolverStatus `json:"status"`
	IsFeasible      bool                `json:"is_feasible"`
	TotalDeviation  float64             `json:"total_deviation"`
	ComputationTime float64             `json:"computation_time_seconds"`
}

// TimetableRequest turns a feasible result into a weekly grid.
type TimetableRequest struct {
	ResultID  string        `json:"result_id" validate:"required"`
	Seed      int64         `json:"seed"`
	RoomCount int           `json:"room_count" validate:"omitempty,min=1"`
	Rooms     []models.Room `json:"rooms,omitempty"`
}

// TimetableSummary reports placement coverage for a generated grid.
type TimetableSummary struct {
	ResultID       string `json:"result_id"`
	ScheduledCount int    `json:"scheduled_count"`
	DroppedCount   int    `json:"dropped_count"`
	RoomCount      int    `json:"room_count"`
}

// ReportRequest queues an official load report for a stored result.
type ReportRequest struct {
	ResultID     string `json:"result_id" validate:"required"`
	Format       string `json:"format" validate:"required,oneof=csv pdf"`
	Department   string `json:"department"`
	AcademicYear string `json:"academic_year"`
}

// ReportJobResponse acknowledges a queued report.
type ReportJobResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// ReportStatusResponse reports job progress and, when ready, a download token.
type ReportStatusResponse struct {
	JobID         string `json:"job_id"`
	Status        string `json:"status"`
	Format        string `json:"format,omitempty"`
	DownloadToken string `json:"download_token,omitempty"`
	ExpiresAt     string `json:"expires_at,omitempty"`
	Error         string `json:"error,omitempty"`
}
