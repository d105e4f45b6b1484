package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-pulse-api/internal/models"
	appErrors "github.com/noah-isme/sma-pulse-api/pkg/errors"
)

type recordReader interface {
	Student() models.StudentProfile
	FindSubject(id string) (models.SubjectRecord, error)
	ListAssignments(filter models.AssignmentFilter) []models.AssignmentRecord
	ListRemarks(filter models.RemarkFilter) []models.Remark
	ListTopics(filter models.TopicFilter) []models.Topic
}

// RecordService lists the non-graded records of the snapshot.
type RecordService struct {
	records   recordReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRecordService constructs a RecordService.
func NewRecordService(records recordReader, validate *validator.Validate, logger *zap.Logger) *RecordService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordService{records: records, validator: validate, logger: logger}
}

// Student returns the profile the snapshot belongs to.
func (s *RecordService) Student(ctx context.Context) models.StudentProfile {
	return s.records.Student()
}

// Assignments lists assignments ordered by due date.
func (s *RecordService) Assignments(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentRecord, error) {
	if err := s.checkFilter(filter, filter.SubjectID); err != nil {
		return nil, err
	}
	return s.records.ListAssignments(filter), nil
}

// Remarks lists professor remarks newest first.
func (s *RecordService) Remarks(ctx context.Context, filter models.RemarkFilter) ([]models.Remark, error) {
	if err := s.checkFilter(filter, filter.SubjectID); err != nil {
		return nil, err
	}
	return s.records.ListRemarks(filter), nil
}

// Topics lists syllabus topics by week.
func (s *RecordService) Topics(ctx context.Context, filter models.TopicFilter) ([]models.Topic, error) {
	if err := s.checkFilter(filter, filter.SubjectID); err != nil {
		return nil, err
	}
	return s.records.ListTopics(filter), nil
}

func (s *RecordService) checkFilter(filter interface{}, subjectID string) error {
	if err := s.validator.Struct(filter); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid filter")
	}
	if strings.TrimSpace(subjectID) == "" {
		return nil
	}
	_, err := s.records.FindSubject(subjectID)
	return err
}
