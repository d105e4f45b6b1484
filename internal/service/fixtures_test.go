package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/noah-isme/sma-pulse-api/internal/models"
	appErrors "github.com/noah-isme/sma-pulse-api/pkg/errors"
	"github.com/noah-isme/sma-pulse-api/pkg/genai"
)

type fakeRecords struct {
	student     models.StudentProfile
	subjects    []models.SubjectRecord
	history     []models.PerformanceHistoryEntry
	assignments []models.AssignmentRecord
	topics      []models.Topic
	remarks     []models.Remark
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{
		student: models.StudentProfile{Name: "Aryan", Programme: "B.Tech 2nd Year", Term: "Spring 2024", Institute: "SVNIT"},
		subjects: []models.SubjectRecord{
			{ID: "1", Name: "Discrete Mathematics", Code: "CS201", SessionsHeld: 30, SessionsAttended: 25, LatestScore: 85, CohortAverage: 72},
			{ID: "2", Name: "Data Structures", Code: "CS202", SessionsHeld: 28, SessionsAttended: 21, LatestScore: 68, CohortAverage: 75},
			{ID: "3", Name: "Digital Logic", Code: "CS203", SessionsHeld: 25, SessionsAttended: 22, LatestScore: 78, CohortAverage: 70},
			{ID: "4", Name: "Linear Algebra", Code: "MA201", SessionsHeld: 32, SessionsAttended: 21, LatestScore: 55, CohortAverage: 65},
		},
		history: []models.PerformanceHistoryEntry{
			{Term: "Sem 1", TermAverage: 8.2, CumulativeAverage: 8.2},
			{Term: "Sem 2", TermAverage: 7.9, CumulativeAverage: 8.05},
			{Term: "Sem 3", TermAverage: 8.5, CumulativeAverage: 8.2},
			{Term: "Sem 4", TermAverage: 8.1, CumulativeAverage: 8.18},
		},
		assignments: []models.AssignmentRecord{
			{ID: "a1", Title: "Graph Algorithms Lab", SubjectID: "2", DueDate: models.NewDate(2024, 3, 10), Status: models.AssignmentStatusPending, Weight: 15},
			{ID: "a2", Title: "K-Map Worksheet", SubjectID: "3", DueDate: models.NewDate(2024, 3, 5), Status: models.AssignmentStatusSubmitted, Weight: 10},
			{ID: "a3", Title: "Proof Set 3", SubjectID: "1", DueDate: models.NewDate(2024, 3, 15), Status: models.AssignmentStatusPending, Weight: 20},
		},
		topics: []models.Topic{
			{ID: "t1", SubjectID: "2", Name: "AVL Trees", Status: models.TopicStatusNeedsRevision, Week: 6},
			{ID: "t2", SubjectID: "4", Name: "Eigenvalues", Status: models.TopicStatusNeedsRevision, Week: 5},
			{ID: "t3", SubjectID: "1", Name: "Relations", Status: models.TopicStatusUnderstood, Week: 3},
		},
		remarks: []models.Remark{
			{ID: "r1", SubjectID: "4", Text: "Attendance needs attention", Type: models.RemarkTypeWarning, Date: models.NewDate(2024, 2, 20)},
		},
	}
}

func (f *fakeRecords) Student() models.StudentProfile { return f.student }

func (f *fakeRecords) ListSubjects() []models.SubjectRecord {
	return append([]models.SubjectRecord(nil), f.subjects...)
}

func (f *fakeRecords) FindSubject(id string) (models.SubjectRecord, error) {
	for _, s := range f.subjects {
		if s.ID == id {
			return s, nil
		}
	}
	return models.SubjectRecord{}, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
}

func (f *fakeRecords) History() []models.PerformanceHistoryEntry {
	return append([]models.PerformanceHistoryEntry(nil), f.history...)
}

func (f *fakeRecords) ListAssignments(filter models.AssignmentFilter) []models.AssignmentRecord {
	var out []models.AssignmentRecord
	for _, a := range f.assignments {
		if (filter.Status == "" || a.Status == filter.Status) && (filter.SubjectID == "" || a.SubjectID == filter.SubjectID) {
			out = append(out, a)
		}
	}
	return out
}

func (f *fakeRecords) ListRemarks(filter models.RemarkFilter) []models.Remark {
	var out []models.Remark
	for _, r := range f.remarks {
		if (filter.Type == "" || r.Type == filter.Type) && (filter.SubjectID == "" || r.SubjectID == filter.SubjectID) {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeRecords) ListTopics(filter models.TopicFilter) []models.Topic {
	var out []models.Topic
	for _, t := range f.topics {
		if (filter.Status == "" || t.Status == filter.Status) && (filter.SubjectID == "" || t.SubjectID == filter.SubjectID) {
			out = append(out, t)
		}
	}
	return out
}

type stubCacheRepo struct {
	store map[string][]byte
	sets  int
}

func (s *stubCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	payload, ok := s.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (s *stubCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if s.store == nil {
		s.store = make(map[string][]byte)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.store[key] = payload
	s.sets++
	return nil
}

func (s *stubCacheRepo) DeleteByPattern(_ context.Context, _ string) error {
	s.store = nil
	return nil
}

type fakeGenerator struct {
	mu       sync.Mutex
	replies  []string
	err      error
	requests []genai.Request
}

func (f *fakeGenerator) Generate(ctx context.Context, req genai.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "ok", nil
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply, nil
}

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeGenerator) last() genai.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}
