package repository

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-pulse-api/internal/models"
	"github.com/noah-isme/sma-pulse-api/internal/outcome"
	appErrors "github.com/noah-isme/sma-pulse-api/pkg/errors"
)

//go:embed data/default_snapshot.json
var defaultSnapshot []byte

// cumulativeTolerance absorbs the two-decimal rounding used by record sources.
const cumulativeTolerance = 0.005

// SnapshotRepository serves the read-only academic snapshot loaded at startup.
type SnapshotRepository struct {
	snapshot    models.Snapshot
	subjectByID map[string]int
}

// LoadSnapshot reads the snapshot at path, or the embedded default when path is empty.
func LoadSnapshot(path string, validate *validator.Validate, logger *zap.Logger) (*SnapshotRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	raw := defaultSnapshot
	source := "embedded"
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrSnapshotInvalid.Code, appErrors.ErrSnapshotInvalid.Status, "read snapshot file")
		}
		raw = data
		source = path
	}
	repo, err := NewSnapshotRepository(raw, validate)
	if err != nil {
		return nil, err
	}
	snap := repo.snapshot
	logger.Info("academic snapshot loaded",
		zap.String("source", source),
		zap.Int("subjects", len(snap.Subjects)),
		zap.Int("terms", len(snap.History)),
		zap.Int("assignments", len(snap.Assignments)),
	)
	return repo, nil
}

// NewSnapshotRepository decodes and validates a JSON snapshot.
func NewSnapshotRepository(raw []byte, validate *validator.Validate) (*SnapshotRepository, error) {
	if validate == nil {
		validate = validator.New()
	}
	var snap models.Snapshot
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&snap); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSnapshotInvalid.Code, appErrors.ErrSnapshotInvalid.Status, "decode snapshot")
	}
	if err := validate.Struct(snap); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSnapshotInvalid.Code, appErrors.ErrSnapshotInvalid.Status, "snapshot failed validation")
	}
	index, err := indexSubjects(snap.Subjects)
	if err != nil {
		return nil, err
	}
	if err := checkReferences(snap, index); err != nil {
		return nil, err
	}
	if err := checkHistory(snap.History); err != nil {
		return nil, err
	}
	return &SnapshotRepository{snapshot: snap, subjectByID: index}, nil
}

// Student returns the snapshot owner.
func (r *SnapshotRepository) Student() models.StudentProfile {
	return r.snapshot.Student
}

// ListSubjects returns all subject records in snapshot order.
func (r *SnapshotRepository) ListSubjects() []models.SubjectRecord {
	return append([]models.SubjectRecord(nil), r.snapshot.Subjects...)
}

// FindSubject returns the subject with the given ID.
func (r *SnapshotRepository) FindSubject(id string) (models.SubjectRecord, error) {
	idx, ok := r.subjectByID[id]
	if !ok {
		return models.SubjectRecord{}, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}
	return r.snapshot.Subjects[idx], nil
}

// History returns the term history in chronological order.
func (r *SnapshotRepository) History() []models.PerformanceHistoryEntry {
	return append([]models.PerformanceHistoryEntry(nil), r.snapshot.History...)
}

// ListAssignments returns assignments ordered by due date.
func (r *SnapshotRepository) ListAssignments(filter models.AssignmentFilter) []models.AssignmentRecord {
	out := make([]models.AssignmentRecord, 0, len(r.snapshot.Assignments))
	for _, a := range r.snapshot.Assignments {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.SubjectID != "" && a.SubjectID != filter.SubjectID {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate.Before(out[j].DueDate.Time)
	})
	return out
}

// ListRemarks returns remarks newest first.
func (r *SnapshotRepository) ListRemarks(filter models.RemarkFilter) []models.Remark {
	out := make([]models.Remark, 0, len(r.snapshot.Remarks))
	for _, rm := range r.snapshot.Remarks {
		if filter.Type != "" && rm.Type != filter.Type {
			continue
		}
		if filter.SubjectID != "" && rm.SubjectID != filter.SubjectID {
			continue
		}
		out = append(out, rm)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out
}

// ListTopics returns topics ordered by week.
func (r *SnapshotRepository) ListTopics(filter models.TopicFilter) []models.Topic {
	out := make([]models.Topic, 0, len(r.snapshot.Topics))
	for _, tp := range r.snapshot.Topics {
		if filter.Status != "" && tp.Status != filter.Status {
			continue
		}
		if filter.SubjectID != "" && tp.SubjectID != filter.SubjectID {
			continue
		}
		out = append(out, tp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Week < out[j].Week
	})
	return out
}

func indexSubjects(subjects []models.SubjectRecord) (map[string]int, error) {
	index := make(map[string]int, len(subjects))
	for i, s := range subjects {
		if _, dup := index[s.ID]; dup {
			return nil, snapshotError("duplicate subject id %q", s.ID)
		}
		index[s.ID] = i
	}
	return index, nil
}

func checkReferences(snap models.Snapshot, index map[string]int) error {
	for _, a := range snap.Assignments {
		if _, ok := index[a.SubjectID]; !ok {
			return snapshotError("assignment %q references unknown subject %q", a.ID, a.SubjectID)
		}
	}
	for _, rm := range snap.Remarks {
		if _, ok := index[rm.SubjectID]; !ok {
			return snapshotError("remark %q references unknown subject %q", rm.ID, rm.SubjectID)
		}
	}
	for _, tp := range snap.Topics {
		if _, ok := index[tp.SubjectID]; !ok {
			return snapshotError("topic %q references unknown subject %q", tp.ID, tp.SubjectID)
		}
	}
	return nil
}

// checkHistory verifies each cumulative average is the running mean of term averages.
func checkHistory(history []models.PerformanceHistoryEntry) error {
	terms := make([]float64, len(history))
	for i, h := range history {
		terms[i] = h.TermAverage
	}
	for i, expected := range outcome.CumulativeAverages(terms) {
		if math.Abs(history[i].CumulativeAverage-expected) > cumulativeTolerance+1e-9 {
			return snapshotError("term %q cumulative average %.2f does not match running mean %.3f",
				history[i].Term, history[i].CumulativeAverage, expected)
		}
	}
	return nil
}

func snapshotError(format string, args ...interface{}) error {
	return appErrors.Clone(appErrors.ErrSnapshotInvalid, fmt.Sprintf(format, args...))
}
