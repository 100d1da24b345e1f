package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/galymzhantore/teachload-api/internal/dto"
	"github.com/galymzhantore/teachload-api/internal/models"
	"github.com/galymzhantore/teachload-api/internal/store"
	appErrors "github.com/galymzhantore/teachload-api/pkg/errors"
	"github.com/galymzhantore/teachload-api/pkg/export"
	"github.com/galymzhantore/teachload-api/pkg/jobs"
	"github.com/galymzhantore/teachload-api/pkg/storage"
)

const (
	reportStatusQueued     = "QUEUED"
	reportStatusProcessing = "PROCESSING"
	reportStatusReady      = "READY"
	reportStatusFailed     = "FAILED"
)

type reportJob struct {
	ID           string
	ResultID     string
	Format       string
	Department   string
	AcademicYear string
	Status       string
	FileName     string
	Token        string
	ExpiresAt    time.Time
	Err          string
}

// ReportDownload is a resolved report file ready for streaming.
type ReportDownload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ReportService renders official load-distribution reports in the
// background: one row per faculty member with hours broken down by
// activity type, plus a totals row.
type ReportService struct {
	store     *store.MemoryStore
	files     *storage.LocalStorage
	signer    *storage.SignedURLSigner
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	validator *validator.Validate
	logger    *zap.Logger

	queue *jobs.Queue

	mu   sync.RWMutex
	jobs map[string]*reportJob
}

// NewReportService wires report dependencies. Attach the queue with
// AttachQueue once it has been built around Handle.
func NewReportService(
	memory *store.MemoryStore,
	files *storage.LocalStorage,
	signer *storage.SignedURLSigner,
	validate *validator.Validate,
	logger *zap.Logger,
) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		store:     memory,
		files:     files,
		signer:    signer,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validate,
		logger:    logger,
		jobs:      make(map[string]*reportJob),
	}
}

// AttachQueue registers the started queue used to process jobs.
func (s *ReportService) AttachQueue(queue *jobs.Queue) {
	s.queue = queue
}

// CreateJob validates the request and queues report generation.
func (s *ReportService) CreateJob(ctx context.Context, req dto.ReportRequest) (*dto.ReportJobResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report payload")
	}
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "report queue unavailable")
	}

	result, _, ok := s.store.Result(req.ResultID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "result not found")
	}
	if !result.IsFeasible {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "reports require a feasible result")
	}

	job := &reportJob{
		ID:           uuid.NewString(),
		ResultID:     req.ResultID,
		Format:       req.Format,
		Department:   req.Department,
		AcademicYear: req.AcademicYear,
		Status:       reportStatusQueued,
	}
	if job.Department == "" {
		job.Department = "Information Technology"
	}
	if job.AcademicYear == "" {
		job.AcademicYear = "2024-2025"
	}

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Job{
		ID:       job.ID,
		Kind:     jobs.KindOfficialReport,
		ResultID: job.ResultID,
		Format:   job.Format,
	}); err != nil {
		s.mu.Lock()
		job.Status = reportStatusFailed
		job.Err = err.Error()
		s.mu.Unlock()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue report job")
	}

	return &dto.ReportJobResponse{JobID: job.ID, Status: reportStatusQueued}, nil
}

// GetStatus reports job progress and the download token once ready.
func (s *ReportService) GetStatus(ctx context.Context, jobID string) (*dto.ReportStatusResponse, error) {
	s.mu.RLock()
	job, ok := s.jobs[jobID]
	s.mu.RUnlock()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report job not found")
	}

	resp := &dto.ReportStatusResponse{
		JobID:  job.ID,
		Status: job.Status,
		Format: job.Format,
		Error:  job.Err,
	}
	if job.Status == reportStatusReady {
		resp.DownloadToken = job.Token
		resp.ExpiresAt = job.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return resp, nil
}

// ResolveDownload validates the token and loads the rendered file.
func (s *ReportService) ResolveDownload(ctx context.Context, token string) (*ReportDownload, error) {
	if token == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "download token is required")
	}
	jobID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid download token")
	}

	s.mu.RLock()
	job, ok := s.jobs[jobID]
	s.mu.RUnlock()
	if !ok || job.Status != reportStatusReady {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report not available")
	}

	data, err := s.files.Read(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read report file")
	}

	contentType := "text/csv"
	if job.Format == "pdf" {
		contentType = "application/pdf"
	}
	return &ReportDownload{FileName: relPath, ContentType: contentType, Data: data}, nil
}

// Handle renders one queued report. It runs on the jobs queue workers.
func (s *ReportService) Handle(ctx context.Context, queued jobs.Job) error {
	s.mu.Lock()
	job, ok := s.jobs[queued.ID]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	job.Status = reportStatusProcessing
	s.mu.Unlock()

	err := s.render(job)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		job.Status = reportStatusFailed
		job.Err = err.Error()
		s.logger.Error("report rendering failed", zap.String("job_id", job.ID), zap.Error(err))
		return err
	}
	job.Status = reportStatusReady
	job.Err = ""
	return nil
}

func (s *ReportService) render(job *reportJob) error {
	result, instanceID, ok := s.store.Result(job.ResultID)
	if !ok {
		return fmt.Errorf("result %s disappeared", job.ResultID)
	}
	instance, ok := s.store.Instance(instanceID)
	if !ok {
		return fmt.Errorf("instance %s disappeared", instanceID)
	}

	dataset := buildLoadReport(instance, result)
	title := fmt.Sprintf("Teaching load distribution, %s department, %s", job.Department, job.AcademicYear)

	var payload []byte
	var err error
	switch job.Format {
	case "pdf":
		payload, err = s.pdf.Render(dataset, title)
	default:
		payload, err = s.csv.Render(dataset)
	}
	if err != nil {
		return err
	}

	fileName := fmt.Sprintf("report_%s.%s", job.ID, job.Format)
	if _, err := s.files.Save(fileName, payload); err != nil {
		return err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, fileName)
	if err != nil {
		return err
	}
	job.FileName = fileName
	job.Token = token
	job.ExpiresAt = expiresAt
	return nil
}

// buildLoadReport aggregates per-faculty hours by activity type, in the
// column order of the department's official distribution sheet.
func buildLoadReport(instance *models.Instance, result *models.OptimizationResult) *export.Dataset {
	type breakdown struct {
		assignments int
		byType      map[models.ActivityType]float64
	}

	activitiesByID := make(map[string]models.CourseActivity, len(instance.Activities))
	for _, a := range instance.Activities {
		activitiesByID[a.ID] = a
	}

	perFaculty := make(map[int]*breakdown, len(instance.Faculty))
	for _, f := range instance.Faculty {
		perFaculty[f.ID] = &breakdown{byType: make(map[models.ActivityType]float64)}
	}
	for _, assignment := range result.Assignments {
		activity, ok := activitiesByID[assignment.ActivityID]
		if !ok {
			continue
		}
		data, ok := perFaculty[assignment.FacultyID]
		if !ok {
			continue
		}
		data.assignments++
		data.byType[activity.Type] += activity.Hours
	}

	dataset := export.NewDataset(
		"No", "Faculty", "Rank", "Target", "Max", "Actual", "Deviation", "Fill %",
		"Assignments", "Lectures", "Practicals", "Labs", "Seminars",
		"Bachelor supervision", "Master supervision", "Research",
	)

	faculty := make([]models.Faculty, len(instance.Faculty))
	copy(faculty, instance.Faculty)
	sort.Slice(faculty, func(i, j int) bool { return faculty[i].ID < faculty[j].ID })

	var totalTarget, totalMax, totalActual, totalDeviation float64
	totalAssignments := 0

	for i, f := range faculty {
		data := perFaculty[f.ID]
		actual := result.FacultyLoads[f.ID]
		deviation := actual - f.TargetLoad
		fill := 0.0
		if f.TargetLoad > 0 {
			fill = actual / f.TargetLoad * 100
		}

		dataset.Append(
			export.Count(i+1),
			f.Name,
			string(f.Rank),
			export.Hours(f.TargetLoad),
			export.Hours(f.MaxLoad),
			export.Hours(actual),
			export.Hours(deviation),
			export.Percent(fill),
			export.Count(data.assignments),
			export.Hours(data.byType[models.ActivityLecture]),
			export.Hours(data.byType[models.ActivityPractical]),
			export.Hours(data.byType[models.ActivityLab]),
			export.Hours(data.byType[models.ActivitySeminar]),
			export.Hours(data.byType[models.ActivityBachelorThesis]),
			export.Hours(data.byType[models.ActivityMasterThesis]),
			export.Hours(data.byType[models.ActivityResearchNIRM]),
		)

		totalTarget += f.TargetLoad
		totalMax += f.MaxLoad
		totalActual += actual
		totalDeviation += deviation
		totalAssignments += data.assignments
	}

	// Totals row; Append pads the per-type columns.
	dataset.Append(
		"",
		"TOTAL",
		"",
		export.Hours(totalTarget),
		export.Hours(totalMax),
		export.Hours(totalActual),
		export.Hours(totalDeviation),
		"",
		export.Count(totalAssignments),
	)

	return dataset
}
