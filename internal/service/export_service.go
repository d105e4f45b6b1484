package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-pulse-api/internal/dto"
	"github.com/noah-isme/sma-pulse-api/internal/models"
	"github.com/noah-isme/sma-pulse-api/internal/outcome"
	appErrors "github.com/noah-isme/sma-pulse-api/pkg/errors"
	"github.com/noah-isme/sma-pulse-api/pkg/export"
)

// ReportFormat is the rendering of an exported report.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

// ExportResult is a rendered report ready to be streamed.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

type reportRecords interface {
	Student() models.StudentProfile
	History() []models.PerformanceHistoryEntry
}

type documentRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

// ExportService renders the standing table as a downloadable report.
type ExportService struct {
	standings standingProvider
	records   reportRecords
	csv       documentRenderer
	pdf       documentRenderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(standings standingProvider, records reportRecords, logger *zap.Logger, csv, pdf documentRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{standings: standings, records: records, csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// StandingReport renders every subject's standing in the requested format.
func (s *ExportService) StandingReport(ctx context.Context, format ReportFormat) (*ExportResult, error) {
	doc, err := s.buildStandingDocument(ctx)
	if err != nil {
		return nil, err
	}

	var (
		payload     []byte
		contentType string
	)
	switch format {
	case ReportFormatCSV:
		payload, err = s.csv.Render(doc)
		contentType = "text/csv"
	case ReportFormatPDF:
		payload, err = s.pdf.Render(doc)
		contentType = "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %q", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	filename := fmt.Sprintf("standing_%s_%s.%s", sanitizeFilename(s.records.Student().Name), s.now().UTC().Format("20060102_150405"), format)
	s.logger.Info("standing report rendered", zap.String("format", string(format)), zap.Int("bytes", len(payload)))
	return &ExportResult{Filename: filename, ContentType: contentType, Payload: payload}, nil
}

func (s *ExportService) buildStandingDocument(ctx context.Context) (export.Document, error) {
	standings, err := s.standings.List(ctx)
	if err != nil {
		return export.Document{}, err
	}
	overall, err := s.standings.Overall(ctx)
	if err != nil {
		return export.Document{}, err
	}

	headers := []string{"Code", "Subject", "Attended", "Held", "Attendance (%)", "Tier", "Safe Misses", "Score", "Cohort", "Vs Cohort"}
	rows := make([]map[string]string, 0, len(standings))
	for _, st := range standings {
		rows = append(rows, standingRow(st))
	}

	student := s.records.Student()
	details := []export.Detail{{Label: "Student", Value: student.Name}}
	if student.Programme != "" {
		details = append(details, export.Detail{Label: "Programme", Value: student.Programme})
	}
	if student.Term != "" {
		details = append(details, export.Detail{Label: "Term", Value: student.Term})
	}
	if overall.Percent != nil {
		details = append(details, export.Detail{Label: "Overall attendance", Value: fmt.Sprintf("%d%% (%s)", *overall.Percent, overall.Tier)})
	}
	if history := s.records.History(); len(history) > 0 {
		details = append(details, export.Detail{Label: "Cumulative average", Value: formatScore(history[len(history)-1].CumulativeAverage)})
	}

	return export.Document{
		Title:   "Attendance Standing Report",
		Details: details,
		Data: export.Dataset{
			Headers: headers,
			Rows:    rows,
			Numeric: map[string]bool{"Attended": true, "Held": true, "Attendance (%)": true, "Safe Misses": true, "Score": true, "Cohort": true},
			Highlight: func(row map[string]string) bool {
				return row["Tier"] == string(outcome.TierCritical) || row["Tier"] == string(outcome.TierBorderline)
			},
		},
		Notes: []string{
			fmt.Sprintf("Tiers: Safe at %s%% and above, Borderline from %s%%, Critical below.",
				formatScore(outcome.SafeThreshold), formatScore(outcome.BorderlineThreshold)),
			"Safe Misses is the number of further sessions that can be missed while staying Safe.",
		},
		GeneratedAt: s.now(),
	}, nil
}

func standingRow(st dto.SubjectStanding) map[string]string {
	row := map[string]string{
		"Code":        st.Code,
		"Subject":     st.Name,
		"Attended":    strconv.Itoa(st.Attended),
		"Held":        strconv.Itoa(st.Held),
		"Safe Misses": strconv.Itoa(st.SafeMissBudget),
		"Score":       formatScore(st.Score),
		"Cohort":      formatScore(st.CohortAverage),
		"Vs Cohort":   string(st.Comparison),
	}
	if st.Percent != nil {
		row["Attendance (%)"] = strconv.Itoa(*st.Percent)
		row["Tier"] = string(st.Tier)
	} else {
		row["Attendance (%)"] = "-"
		row["Tier"] = "-"
	}
	return row
}

func sanitizeFilename(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "student"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "\"", "")
	result := strings.ToLower(replacer.Replace(raw))
	if len(result) > 60 {
		return result[:60]
	}
	return result
}
