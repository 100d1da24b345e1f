package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/galymzhantore/teachload-api/internal/dto"
	"github.com/galymzhantore/teachload-api/internal/models"
	"github.com/galymzhantore/teachload-api/internal/store"
	appErrors "github.com/galymzhantore/teachload-api/pkg/errors"
	"github.com/galymzhantore/teachload-api/pkg/jobs"
	"github.com/galymzhantore/teachload-api/pkg/storage"
)

func reportFixture(t *testing.T) (*ReportService, func()) {
	t.Helper()
	memory := store.NewMemoryStore()

	faculty := []models.Faculty{
		models.NewFaculty(1, "Aigul Smagulova", models.RankProfessor, 500, 560),
		models.NewFaculty(2, "Marat Ospanov", models.RankTeacher, 650, 680),
	}
	activities := []models.CourseActivity{
		{ID: "L1", CourseID: "CS101", CourseName: "Programming I", Type: models.ActivityLecture, SectionNumber: 1, Hours: 45, StudentCount: 120},
		{ID: "P1", CourseID: "CS101", CourseName: "Programming I", Type: models.ActivityPractical, SectionNumber: 1, Hours: 30, StudentCount: 25},
		{ID: "T1", CourseID: "THESIS_BACHELOR", CourseName: "Bachelor thesis #1", Type: models.ActivityBachelorThesis, SectionNumber: 1, Hours: 20, StudentCount: 1},
	}
	instance := &models.Instance{Name: "report", Faculty: faculty, Activities: activities, Qualifications: models.NewQualifications()}
	for _, f := range faculty {
		for _, a := range activities {
			instance.Qualifications.Set(f.ID, a.ID)
		}
	}
	memory.PutInstance("report_1", instance)
	memory.PutResult("report_1_ortools", "report_1", &models.OptimizationResult{
		Assignments: []models.Assignment{
			{FacultyID: 1, ActivityID: "L1"},
			{FacultyID: 1, ActivityID: "T1"},
			{FacultyID: 2, ActivityID: "P1"},
		},
		SolverStatus: models.StatusOptimal,
		FacultyLoads: map[int]float64{1: 65, 2: 30},
		IsFeasible:   true,
	})

	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)

	svc := NewReportService(memory, files, signer, validator.New(), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	queue := jobs.NewQueue("renders", jobs.Config{Workers: 1, Logger: zap.NewNop()})
	queue.Register(jobs.KindOfficialReport, svc.Handle)
	queue.Start(ctx)
	svc.AttachQueue(queue)

	return svc, func() {
		cancel()
		queue.Stop()
	}
}

func TestReportServiceRendersCSV(t *testing.T) {
	svc, stop := reportFixture(t)
	defer stop()

	resp, err := svc.CreateJob(context.Background(), dto.ReportRequest{ResultID: "report_1_ortools", Format: "csv"})
	require.NoError(t, err)
	assert.Equal(t, "QUEUED", resp.Status)

	var status *dto.ReportStatusResponse
	require.Eventually(t, func() bool {
		status, err = svc.GetStatus(context.Background(), resp.JobID)
		return err == nil && status.Status == "READY"
	}, 5*time.Second, 10*time.Millisecond)
	require.NotEmpty(t, status.DownloadToken)

	download, err := svc.ResolveDownload(context.Background(), status.DownloadToken)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", download.ContentType)

	body := string(download.Data)
	assert.Contains(t, body, "Aigul Smagulova")
	assert.Contains(t, body, "TOTAL")
	// Faculty 1 carries the lecture plus the supervised thesis.
	assert.Contains(t, body, "45.0")
	assert.Contains(t, body, "20.0")
}

func TestReportServiceRendersPDF(t *testing.T) {
	svc, stop := reportFixture(t)
	defer stop()

	resp, err := svc.CreateJob(context.Background(), dto.ReportRequest{ResultID: "report_1_ortools", Format: "pdf"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		status, err := svc.GetStatus(context.Background(), resp.JobID)
		return err == nil && status.Status == "READY"
	}, 5*time.Second, 10*time.Millisecond)

	status, err := svc.GetStatus(context.Background(), resp.JobID)
	require.NoError(t, err)

	download, err := svc.ResolveDownload(context.Background(), status.DownloadToken)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", download.ContentType)
	assert.True(t, strings.HasPrefix(string(download.Data), "%PDF"))
}

func TestReportServiceUnknownResult(t *testing.T) {
	svc, stop := reportFixture(t)
	defer stop()

	_, err := svc.CreateJob(context.Background(), dto.ReportRequest{ResultID: "missing", Format: "csv"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestReportServiceInvalidToken(t *testing.T) {
	svc, stop := reportFixture(t)
	defer stop()

	_, err := svc.ResolveDownload(context.Background(), "bogus-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
