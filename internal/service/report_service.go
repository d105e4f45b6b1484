package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-pulse-api/internal/dto"
	"github.com/noah-isme/sma-pulse-api/internal/models"
	"github.com/noah-isme/sma-pulse-api/internal/repository"
	appErrors "github.com/noah-isme/sma-pulse-api/pkg/errors"
	"github.com/noah-isme/sma-pulse-api/pkg/jobs"
	"github.com/noah-isme/sma-pulse-api/pkg/middleware/requestid"
	"github.com/noah-isme/sma-pulse-api/pkg/storage"
)

// ReportJobType tags standing report jobs on the queue.
const ReportJobType = "standing_report"

type reportJobStore interface {
	Create(ctx context.Context, job *models.ReportJob) error
	GetByID(ctx context.Context, id string) (*models.ReportJob, error)
	Update(ctx context.Context, id string, params repository.UpdateReportJobParams) error
	Delete(ctx context.Context, id string) error
	ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ReportJob, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

type reportFileStore interface {
	Save(name string, data []byte) error
	Read(name string) ([]byte, error)
	Delete(name string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type downloadSigner interface {
	Generate(jobID, relPath string) (string, time.Time, error)
	Verify(token string) (storage.Claims, error)
}

type standingRenderer interface {
	StandingReport(ctx context.Context, format ReportFormat) (*ExportResult, error)
}

// ReportJobRequest asks for a standing report rendered in the background.
type ReportJobRequest struct {
	Format string `json:"format" validate:"omitempty,oneof=csv pdf"`
}

// ReportServiceConfig governs download links and cleanup.
type ReportServiceConfig struct {
	// DownloadPath prefixes the token in download URLs, e.g. /api/v1/reports/download.
	DownloadPath    string
	ResultTTL       time.Duration
	CleanupInterval time.Duration
}

// ReportServiceParams groups ReportService collaborators.
type ReportServiceParams struct {
	Repo      reportJobStore
	Queue     jobDispatcher
	Files     reportFileStore
	Signer    downloadSigner
	Validator *validator.Validate
	Logger    *zap.Logger
	Config    ReportServiceConfig
}

// ReportService orchestrates the report job lifecycle.
type ReportService struct {
	repo      reportJobStore
	queue     jobDispatcher
	files     reportFileStore
	signer    downloadSigner
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ReportServiceConfig
	now       func() time.Time
}

// NewReportService constructs the report service.
func NewReportService(p ReportServiceParams) *ReportService {
	if p.Validator == nil {
		p.Validator = validator.New()
	}
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	if p.Config.ResultTTL <= 0 {
		p.Config.ResultTTL = 24 * time.Hour
	}
	if p.Config.DownloadPath == "" {
		p.Config.DownloadPath = "/api/v1/reports/download"
	}
	p.Config.DownloadPath = strings.TrimRight(p.Config.DownloadPath, "/")
	return &ReportService{
		repo:      p.Repo,
		queue:     p.Queue,
		files:     p.Files,
		signer:    p.Signer,
		validator: p.Validator,
		logger:    p.Logger,
		cfg:       p.Config,
		now:       time.Now,
	}
}

// CreateJob registers a standing report job and hands it to the queue.
func (s *ReportService) CreateJob(ctx context.Context, req ReportJobRequest) (*dto.ReportJob, error) {
	req.Format = strings.ToLower(strings.TrimSpace(req.Format))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report payload")
	}
	format := req.Format
	if format == "" {
		format = string(ReportFormatCSV)
	}

	job := &models.ReportJob{
		Format:    format,
		Status:    models.ReportStatusQueued,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, err
	}
	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: ReportJobType}); err != nil {
		status := models.ReportStatusFailed
		msg := "failed to enqueue job"
		now := s.now().UTC()
		_ = s.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{Status: &status, ErrorMessage: &msg, FinishedAt: &now})
		if errors.Is(err, jobs.ErrFull) {
			return nil, appErrors.Wrap(err, appErrors.ErrQueueFull.Code, appErrors.ErrQueueFull.Status, "report queue is full, retry later")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue report job")
	}
	s.logger.Info("report job queued",
		zap.String("job_id", job.ID),
		zap.String("format", format),
		zap.String("request_id", requestid.FromContext(ctx)))
	return s.toDTO(job), nil
}

// GetStatus exposes job progress, with a download URL once finished.
func (s *ReportService) GetStatus(ctx context.Context, id string) (*dto.ReportJob, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toDTO(job), nil
}

// ResolveDownload validates token and loads the stored report.
func (s *ReportService) ResolveDownload(ctx context.Context, token string) (*ExportResult, error) {
	claims, err := s.signer.Verify(token)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid or expired download token")
	}
	job, err := s.repo.GetByID(ctx, claims.JobID)
	if err != nil {
		return nil, err
	}
	if job.Token != token || job.Path != claims.Path {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "token mismatch")
	}
	if job.Status != models.ReportStatusFinished {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "report not ready")
	}
	payload, err := s.files.Read(claims.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report file no longer available")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read report file")
	}
	return &ExportResult{Filename: job.Filename, ContentType: job.ContentType, Payload: payload}, nil
}

// StartCleanup boots a goroutine that purges expired reports periodically.
func (s *ReportService) StartCleanup(ctx context.Context) {
	if s.cfg.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.cleanupExpired(ctx)
			}
		}
	}()
}

func (s *ReportService) cleanupExpired(ctx context.Context) {
	cutoff := s.now().Add(-s.cfg.ResultTTL)
	expired, err := s.repo.ListFinishedBefore(ctx, cutoff, 0)
	if err != nil {
		s.logger.Warn("cleanup list failed", zap.Error(err))
		return
	}
	removed := 0
	for _, job := range expired {
		if job.Path != "" {
			if err := s.files.Delete(job.Path); err != nil {
				s.logger.Warn("cleanup delete failed", zap.String("job_id", job.ID), zap.Error(err))
				continue
			}
		}
		_ = s.repo.Delete(ctx, job.ID)
		removed++
	}
	orphans, err := s.files.CleanupOlderThan(s.cfg.ResultTTL)
	if err != nil {
		s.logger.Warn("filesystem cleanup failed", zap.Error(err))
	}
	if removed > 0 || len(orphans) > 0 {
		s.logger.Info("report cleanup finished", zap.Int("jobs", removed), zap.Int("orphans", len(orphans)))
	}
}

func (s *ReportService) toDTO(job *models.ReportJob) *dto.ReportJob {
	out := &dto.ReportJob{
		ID:         job.ID,
		Format:     job.Format,
		Status:     job.Status,
		Attempts:   job.Attempts,
		CreatedAt:  job.CreatedAt,
		FinishedAt: job.FinishedAt,
		Error:      job.ErrorMessage,
	}
	if job.Status == models.ReportStatusFinished && job.Token != "" {
		out.Filename = job.Filename
		out.DownloadURL = s.cfg.DownloadPath + "/" + job.Token
		out.ExpiresAt = job.ExpiresAt
	}
	return out
}

// ReportWorker renders queued report jobs.
type ReportWorker struct {
	repo     reportJobStore
	renderer standingRenderer
	files    reportFileStore
	signer   downloadSigner
	logger   *zap.Logger
	now      func() time.Time
}

// NewReportWorker constructs a worker.
func NewReportWorker(repo reportJobStore, renderer standingRenderer, files reportFileStore, signer downloadSigner, logger *zap.Logger) *ReportWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportWorker{repo: repo, renderer: renderer, files: files, signer: signer, logger: logger, now: time.Now}
}

// Handle processes a queue job. Returned errors are retried by the queue.
func (w *ReportWorker) Handle(ctx context.Context, job jobs.Job) error {
	record, err := w.repo.GetByID(ctx, job.ID)
	if err != nil {
		if appErrors.Is(err, appErrors.ErrNotFound) {
			w.logger.Warn("report job vanished before processing", zap.String("job_id", job.ID))
			return nil
		}
		return err
	}
	processing := models.ReportStatusProcessing
	attempts := job.Attempt + 1
	if err := w.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{Status: &processing, Attempts: &attempts}); err != nil {
		return err
	}

	result, err := w.renderer.StandingReport(ctx, ReportFormat(record.Format))
	if err != nil {
		w.requeued(ctx, job.ID, err)
		return err
	}

	path := fmt.Sprintf("reports/%s.%s", record.ID, record.Format)
	if err := w.files.Save(path, result.Payload); err != nil {
		w.requeued(ctx, job.ID, err)
		return err
	}
	token, expiresAt, err := w.signer.Generate(record.ID, path)
	if err != nil {
		w.requeued(ctx, job.ID, err)
		return err
	}

	finished := models.ReportStatusFinished
	now := w.now().UTC()
	noError := ""
	if err := w.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
		Status:       &finished,
		Filename:     &result.Filename,
		ContentType:  &result.ContentType,
		Path:         &path,
		Token:        &token,
		ExpiresAt:    &expiresAt,
		ErrorMessage: &noError,
		FinishedAt:   &now,
	}); err != nil {
		return err
	}
	w.logger.Info("report job finished", zap.String("job_id", job.ID), zap.Int("bytes", len(result.Payload)))
	return nil
}

// MarkFailed records a job the queue stopped retrying.
func (w *ReportWorker) MarkFailed(job jobs.Job, cause error) {
	failed := models.ReportStatusFailed
	msg := cause.Error()
	now := w.now().UTC()
	if err := w.repo.Update(context.Background(), job.ID, repository.UpdateReportJobParams{
		Status:       &failed,
		ErrorMessage: &msg,
		FinishedAt:   &now,
	}); err != nil {
		w.logger.Warn("failed to mark job failed", zap.String("job_id", job.ID), zap.Error(err))
	}
}

func (w *ReportWorker) requeued(ctx context.Context, id string, cause error) {
	queued := models.ReportStatusQueued
	msg := cause.Error()
	if err := w.repo.Update(ctx, id, repository.UpdateReportJobParams{Status: &queued, ErrorMessage: &msg}); err != nil {
		w.logger.Warn("failed to mark job queued", zap.String("job_id", id), zap.Error(err))
	}
}
