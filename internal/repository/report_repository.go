package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/sma-pulse-api/internal/models"
	appErrors "github.com/noah-isme/sma-pulse-api/pkg/errors"
)

// ReportRepository keeps report job metadata in process memory.
type ReportRepository struct {
	mu      sync.RWMutex
	jobs    map[string]*models.ReportJob
	maxJobs int
}

// NewReportRepository constructs the repository. Once maxJobs is reached the oldest
// terminal job is forgotten to make room.
func NewReportRepository(maxJobs int) *ReportRepository {
	if maxJobs <= 0 {
		maxJobs = 200
	}
	return &ReportRepository{jobs: make(map[string]*models.ReportJob), maxJobs: maxJobs}
}

// Create stores a new job, assigning an ID when missing.
func (r *ReportRepository) Create(ctx context.Context, job *models.ReportJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.jobs[job.ID]; exists {
		return appErrors.Clone(appErrors.ErrConflict, "report job already exists")
	}
	if len(r.jobs) >= r.maxJobs && !r.evictOldestTerminal() {
		return appErrors.Clone(appErrors.ErrQueueFull, "too many report jobs in flight")
	}
	stored := *job
	r.jobs[job.ID] = &stored
	return nil
}

// GetByID returns a copy of the job or ErrNotFound.
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*models.ReportJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report job not found")
	}
	out := *job
	return &out, nil
}

// UpdateReportJobParams lists optional fields to change.
type UpdateReportJobParams struct {
	Status       *models.ReportStatus
	Attempts     *int
	Filename     *string
	ContentType  *string
	Path         *string
	Token        *string
	ExpiresAt    *time.Time
	ErrorMessage *string
	FinishedAt   *time.Time
}

// Update applies non-nil fields of params to the job.
func (r *ReportRepository) Update(ctx context.Context, id string, params UpdateReportJobParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "report job not found")
	}
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.Attempts != nil {
		job.Attempts = *params.Attempts
	}
	if params.Filename != nil {
		job.Filename = *params.Filename
	}
	if params.ContentType != nil {
		job.ContentType = *params.ContentType
	}
	if params.Path != nil {
		job.Path = *params.Path
	}
	if params.Token != nil {
		job.Token = *params.Token
	}
	if params.ExpiresAt != nil {
		t := *params.ExpiresAt
		job.ExpiresAt = &t
	}
	if params.ErrorMessage != nil {
		job.ErrorMessage = *params.ErrorMessage
	}
	if params.FinishedAt != nil {
		t := *params.FinishedAt
		job.FinishedAt = &t
	}
	return nil
}

// Delete forgets a job.
func (r *ReportRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, id)
	return nil
}

// ListFinishedBefore returns terminal jobs finished before cutoff, oldest first.
func (r *ReportRepository) ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ReportJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.ReportJob, 0)
	for _, job := range r.jobs {
		if job.Status.Terminal() && job.FinishedAt != nil && job.FinishedAt.Before(cutoff) {
			out = append(out, *job)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FinishedAt.Before(*out[j].FinishedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ReportRepository) evictOldestTerminal() bool {
	var oldest *models.ReportJob
	for _, job := range r.jobs {
		if !job.Status.Terminal() {
			continue
		}
		if oldest == nil || job.CreatedAt.Before(oldest.CreatedAt) {
			oldest = job
		}
	}
	if oldest == nil {
		return false
	}
	delete(r.jobs, oldest.ID)
	return true
}
