package models

// AssignmentFilter narrows assignment listings. Zero fields match everything.
type AssignmentFilter struct {
	Status    AssignmentStatus `form:"status" validate:"omitempty,oneof=pending submitted"`
	SubjectID string           `form:"subjectId"`
}

// RemarkFilter narrows remark listings.
type RemarkFilter struct {
	Type      RemarkType `form:"type" validate:"omitempty,oneof=positive warning improvement"`
	SubjectID string     `form:"subjectId"`
}

// TopicFilter narrows topic listings.
type TopicFilter struct {
	Status    TopicStatus `form:"status" validate:"omitempty,oneof=understood needs-revision"`
	SubjectID string      `form:"subjectId"`
}
