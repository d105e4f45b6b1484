package dto

import (
	"time"

	"github.com/noah-isme/sma-pulse-api/internal/models"
)

// ReportJob exposes the progress of an asynchronous standing report.
type ReportJob struct {
	ID          string              `json:"id"`
	Format      string              `json:"format"`
	Status      models.ReportStatus `json:"status"`
	Attempts    int                 `json:"attempts"`
	CreatedAt   time.Time           `json:"createdAt"`
	FinishedAt  *time.Time          `json:"finishedAt,omitempty"`
	Filename    string              `json:"filename,omitempty"`
	DownloadURL string              `json:"downloadUrl,omitempty"`
	ExpiresAt   *time.Time          `json:"expiresAt,omitempty"`
	Error       string              `json:"error,omitempty"`
}
