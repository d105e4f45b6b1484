package models

import "time"

// SubjectRecord captures one course's attendance and grade standing.
type SubjectRecord struct {
	ID               string  `json:"id" validate:"required"`
	Name             string  `json:"name" validate:"required"`
	Code             string  `json:"code" validate:"required"`
	Professor        string  `json:"professor"`
	SessionsHeld     int     `json:"totalClasses" validate:"gte=0"`
	SessionsAttended int     `json:"attendedClasses" validate:"gte=0,ltefield=SessionsHeld"`
	LatestScore      float64 `json:"marks"`
	CohortAverage    float64 `json:"classAverage"`
}

// PerformanceHistoryEntry captures one completed term's aggregate scores.
type PerformanceHistoryEntry struct {
	Term              string  `json:"semester" validate:"required"`
	TermAverage       float64 `json:"sgpa" validate:"gte=0"`
	CumulativeAverage float64 `json:"cgpa" validate:"gte=0"`
}

// AssignmentStatus is the completion state of a deliverable.
type AssignmentStatus string

const (
	AssignmentStatusPending   AssignmentStatus = "pending"
	AssignmentStatusSubmitted AssignmentStatus = "submitted"
)

// AssignmentRecord represents one deliverable.
type AssignmentRecord struct {
	ID        string           `json:"id" validate:"required"`
	Title     string           `json:"title" validate:"required"`
	SubjectID string           `json:"subjectId" validate:"required"`
	DueDate   Date             `json:"deadline"`
	Status    AssignmentStatus `json:"status" validate:"required,oneof=pending submitted"`
	Weight    float64          `json:"weightage" validate:"gte=0,lte=100"`
}

// RemarkType classifies professor feedback.
type RemarkType string

const (
	RemarkTypePositive    RemarkType = "positive"
	RemarkTypeWarning     RemarkType = "warning"
	RemarkTypeImprovement RemarkType = "improvement"
)

// Remark is a professor comment attached to a subject.
type Remark struct {
	ID        string     `json:"id" validate:"required"`
	SubjectID string     `json:"subjectId" validate:"required"`
	Professor string     `json:"professor"`
	Text      string     `json:"text" validate:"required"`
	Date      Date       `json:"date"`
	Type      RemarkType `json:"type" validate:"required,oneof=positive warning improvement"`
}

// TopicStatus tracks self-assessed understanding of a syllabus topic.
type TopicStatus string

const (
	TopicStatusUnderstood    TopicStatus = "understood"
	TopicStatusNeedsRevision TopicStatus = "needs-revision"
)

// Topic is a syllabus topic covered in a given week.
type Topic struct {
	ID        string      `json:"id" validate:"required"`
	SubjectID string      `json:"subjectId" validate:"required"`
	Name      string      `json:"name" validate:"required"`
	Status    TopicStatus `json:"status" validate:"required,oneof=understood needs-revision"`
	Week      int         `json:"week" validate:"gte=1"`
}

// StudentProfile identifies whose records the snapshot holds.
type StudentProfile struct {
	Name      string `json:"name" validate:"required"`
	Programme string `json:"programme"`
	Term      string `json:"term"`
	Institute string `json:"institute"`
}

// Snapshot is the immutable set of academic records supplied at startup.
type Snapshot struct {
	Student     StudentProfile            `json:"student"`
	Subjects    []SubjectRecord           `json:"subjects" validate:"dive"`
	History     []PerformanceHistoryEntry `json:"history" validate:"dive"`
	Assignments []AssignmentRecord        `json:"assignments" validate:"dive"`
	Remarks     []Remark                  `json:"remarks" validate:"dive"`
	Topics      []Topic                   `json:"topics" validate:"dive"`
}

// Date is a calendar day encoded as YYYY-MM-DD.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate builds a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// MarshalJSON encodes the date as YYYY-MM-DD.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON decodes YYYY-MM-DD or null.
func (d *Date) UnmarshalJSON(raw []byte) error {
	s := string(raw)
	if s == "null" || s == `""` {
		d.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(`"`+dateLayout+`"`, s)
	if err != nil {
		return err
	}
	d.Time = parsed
	return nil
}

// String returns the YYYY-MM-DD form.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}
