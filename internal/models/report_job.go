package models

import "time"

// ReportStatus captures background job lifecycle states.
type ReportStatus string

const (
	ReportStatusQueued     ReportStatus = "QUEUED"
	ReportStatusProcessing ReportStatus = "PROCESSING"
	ReportStatusFinished   ReportStatus = "FINISHED"
	ReportStatusFailed     ReportStatus = "FAILED"
)

// Terminal reports whether the job will not change again.
func (s ReportStatus) Terminal() bool {
	return s == ReportStatusFinished || s == ReportStatusFailed
}

// ReportJob is an asynchronously rendered standing report.
type ReportJob struct {
	ID          string
	Format      string
	Status      ReportStatus
	Attempts    int
	CreatedAt   time.Time
	FinishedAt  *time.Time
	Filename    string
	ContentType string
	// Path is relative to the report storage directory.
	Path         string
	Token        string
	ExpiresAt    *time.Time
	ErrorMessage string
}
