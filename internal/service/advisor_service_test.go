package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-pulse-api/internal/dto"
	appErrors "github.com/noah-isme/sma-pulse-api/pkg/errors"
	"github.com/noah-isme/sma-pulse-api/pkg/genai"
)

func newTestAdvisor(gen textGenerator, cache *CacheService, cfg AdvisorConfig) *AdvisorService {
	records := newFakeRecords()
	return NewAdvisorService(AdvisorServiceParams{
		Generator: gen,
		Standings: NewStandingService(records, nil, nil),
		Records:   records,
		Cache:     cache,
		Metrics:   NewMetricsService(),
		Config:    cfg,
	})
}

func TestSubjectContextLine(t *testing.T) {
	percent := 75
	line := SubjectContextLine(dto.SubjectStanding{
		Name: "Data Structures", Code: "CS202", Percent: &percent, Tier: "Safe",
		Score: 68, CohortAverage: 75, Comparison: "Below",
	})
	assert.Equal(t, "Data Structures (CS202): attendance 75%, Safe, score 68 below cohort 75", line)

	line = SubjectContextLine(dto.SubjectStanding{Name: "Seminar", Code: "SE100", NoSessions: true, Score: 70, CohortAverage: 70, Comparison: "Equal"})
	assert.Equal(t, "Seminar (SE100): no sessions held yet, score 70 equal to cohort 70", line)
}

func TestAdvisorAnalysisCachesGeneratedText(t *testing.T) {
	gen := &fakeGenerator{replies: []string{"Prioritise Linear Algebra attendance."}}
	repo := &stubCacheRepo{}
	svc := newTestAdvisor(gen, NewCacheService(repo, nil, time.Minute, nil, true), AdvisorConfig{})

	first, cached, err := svc.Analysis(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "Prioritise Linear Algebra attendance.", first.Text)

	prompt := gen.last().Messages[0].Text
	assert.Contains(t, prompt, "Linear Algebra (MA201): attendance 66%, Critical, score 55 below cohort 65")
	assert.Contains(t, prompt, "Overall attendance: 77%, Safe")

	second, cached, err := svc.Analysis(context.Background())
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, 1, gen.calls())
}

func TestAdvisorAnalysisFallsBackWithoutCaching(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	repo := &stubCacheRepo{}
	svc := newTestAdvisor(gen, NewCacheService(repo, nil, time.Minute, nil, true), AdvisorConfig{})

	result, _, err := svc.Analysis(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Fallback)
	assert.Equal(t, AnalysisFallbackText, result.Text)
	assert.Zero(t, repo.sets)

	noKey := newTestAdvisor(nil, nil, AdvisorConfig{})
	result, _, err = noKey.Analysis(context.Background())
	require.NoError(t, err)
	assert.Equal(t, AnalysisFallbackText, result.Text)
}

func TestAdvisorAdvice(t *testing.T) {
	gen := &fakeGenerator{replies: []string{"Attend every Linear Algebra lecture."}}
	svc := newTestAdvisor(gen, nil, AdvisorConfig{})

	result, err := svc.Advice(context.Background(), AdviceRequest{Context: "custom context"})
	require.NoError(t, err)
	assert.Equal(t, "Attend every Linear Algebra lecture.", result.Text)
	assert.Contains(t, gen.last().Messages[0].Text, "custom context")

	_, err = svc.Advice(context.Background(), AdviceRequest{})
	require.NoError(t, err)
	assert.Contains(t, gen.last().Messages[0].Text, "Discrete Mathematics (CS201)")

	failing := newTestAdvisor(&fakeGenerator{err: errors.New("down")}, nil, AdvisorConfig{})
	_, err = failing.Advice(context.Background(), AdviceRequest{})
	assert.True(t, appErrors.Is(err, appErrors.ErrAdvisorUnavailable))

	_, err = svc.Advice(context.Background(), AdviceRequest{Context: strings.Repeat("x", 4001)})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestAdvisorAttendDecisionParsesReply(t *testing.T) {
	gen := &fakeGenerator{replies: []string{`{"decision":"Yes","reason":"Trees are examined next week."}`}}
	svc := newTestAdvisor(gen, nil, AdvisorConfig{})

	decision, err := svc.AttendDecision(context.Background(), AttendDecisionRequest{SubjectID: "2", Importance: "High"})
	require.NoError(t, err)
	assert.Equal(t, "Yes", decision.Decision)
	assert.Equal(t, "Trees are examined next week.", decision.Reason)
	assert.Equal(t, decisionSourceAdvisor, decision.Source)
	assert.Equal(t, "Data Structures", decision.Subject)

	req := gen.last()
	assert.NotNil(t, req.ResponseSchema)
	assert.Contains(t, req.Messages[0].Text, "Current attendance: 75%")
	assert.Contains(t, req.Messages[0].Text, "Topic importance: High")
}

func TestAdvisorAttendDecisionEngineFallback(t *testing.T) {
	cases := []struct {
		name     string
		gen      textGenerator
		req      AttendDecisionRequest
		decision string
		reason   string
	}{
		{
			name:     "next miss drops below safe",
			gen:      &fakeGenerator{err: errors.New("down")},
			req:      AttendDecisionRequest{SubjectID: "2"},
			decision: "Yes",
			reason:   "Missing the next session would drop attendance to 72% (Borderline).",
		},
		{
			name:     "comfortably safe",
			gen:      &fakeGenerator{replies: []string{"not json"}},
			req:      AttendDecisionRequest{SubjectID: "3"},
			decision: "No",
			reason:   "Attendance stays at 85% (Safe) even after missing the next session.",
		},
		{
			name:     "high importance",
			gen:      nil,
			req:      AttendDecisionRequest{SubjectID: "3", Importance: "High"},
			decision: "Yes",
		},
		{
			name:     "bare percentage near threshold",
			gen:      nil,
			req:      AttendDecisionRequest{Subject: "Physics", Attendance: floatPtr(78)},
			decision: "Yes",
		},
		{
			name:     "bare percentage critical",
			gen:      nil,
			req:      AttendDecisionRequest{Subject: "Physics", Attendance: floatPtr(60)},
			decision: "Yes",
			reason:   "Attendance of 60% is already Critical.",
		},
		{
			name:     "bare percentage comfortable",
			gen:      &fakeGenerator{replies: []string{`{"decision":"","reason":""}`}},
			req:      AttendDecisionRequest{Subject: "Physics", Attendance: floatPtr(92)},
			decision: "No",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestAdvisor(tc.gen, nil, AdvisorConfig{})
			decision, err := svc.AttendDecision(context.Background(), tc.req)
			require.NoError(t, err)
			assert.Equal(t, decisionSourceEngine, decision.Source)
			assert.Equal(t, tc.decision, decision.Decision)
			if tc.reason != "" {
				assert.Equal(t, tc.reason, decision.Reason)
			}
		})
	}
}

func TestAdvisorAttendDecisionValidation(t *testing.T) {
	svc := newTestAdvisor(nil, nil, AdvisorConfig{})
	ctx := context.Background()

	_, err := svc.AttendDecision(ctx, AttendDecisionRequest{Subject: "Physics"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = svc.AttendDecision(ctx, AttendDecisionRequest{Subject: "Physics", Attendance: floatPtr(101)})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = svc.AttendDecision(ctx, AttendDecisionRequest{SubjectID: "2", Importance: "Urgent"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = svc.AttendDecision(ctx, AttendDecisionRequest{SubjectID: "missing"})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestAdvisorChatConversation(t *testing.T) {
	gen := &fakeGenerator{replies: []string{"Focus on Linear Algebra.", "Aim for 8.82 next term."}}
	svc := newTestAdvisor(gen, nil, AdvisorConfig{})
	ctx := context.Background()

	session, err := svc.CreateChat(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Hello Aryan! I am your SVNIT Academic Mentor. How can I help you today?", session.Greeting.Text)
	assert.Empty(t, session.Messages)

	reply, err := svc.SendChat(ctx, session.ID, ChatMessageRequest{Text: "What should I focus on?"})
	require.NoError(t, err)
	assert.False(t, reply.Fallback)
	assert.Equal(t, "Focus on Linear Algebra.", reply.Reply.Text)

	_, err = svc.SendChat(ctx, session.ID, ChatMessageRequest{Text: "  And my average?  "})
	require.NoError(t, err)

	req := gen.last()
	require.Len(t, req.Messages, 3)
	assert.Equal(t, genai.RoleUser, req.Messages[0].Role)
	assert.Equal(t, genai.RoleModel, req.Messages[1].Role)
	assert.Equal(t, "And my average?", req.Messages[2].Text)
	assert.Contains(t, req.System, "the SVNIT Academic Mentor")
	assert.Contains(t, req.System, "Linear Algebra (MA201)")

	transcript, err := svc.GetChat(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, transcript.Messages, 4)
	assert.Equal(t, "Aim for 8.82 next term.", transcript.Messages[3].Text)
}

func TestAdvisorChatFailures(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("invalid api key")}
	svc := newTestAdvisor(gen, nil, AdvisorConfig{})
	ctx := context.Background()

	session, err := svc.CreateChat(ctx)
	require.NoError(t, err)

	reply, err := svc.SendChat(ctx, session.ID, ChatMessageRequest{Text: "hi"})
	require.NoError(t, err)
	assert.True(t, reply.Fallback)
	assert.Equal(t, ChatFallbackText, reply.Reply.Text)

	transcript, err := svc.GetChat(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, transcript.Messages)

	gen.err = genai.ErrEmptyResponse
	reply, err = svc.SendChat(ctx, session.ID, ChatMessageRequest{Text: "hi"})
	require.NoError(t, err)
	assert.False(t, reply.Fallback)
	assert.Equal(t, ChatEmptyReplyText, reply.Reply.Text)

	transcript, err = svc.GetChat(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, transcript.Messages, 2)

	_, err = svc.SendChat(ctx, session.ID, ChatMessageRequest{Text: "   "})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = svc.SendChat(ctx, "unknown", ChatMessageRequest{Text: "hi"})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestAdvisorChatCancelledRequest(t *testing.T) {
	gen := &fakeGenerator{}
	svc := newTestAdvisor(gen, nil, AdvisorConfig{})

	session, err := svc.CreateChat(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	reply, err := svc.SendChat(ctx, session.ID, ChatMessageRequest{Text: "hi"})
	require.NoError(t, err)
	assert.True(t, reply.Fallback)

	transcript, err := svc.GetChat(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Empty(t, transcript.Messages)
}

func TestAdvisorChatHistoryAndSessionLimits(t *testing.T) {
	gen := &fakeGenerator{}
	svc := newTestAdvisor(gen, nil, AdvisorConfig{MaxSessions: 2, MaxTurns: 4})
	ctx := context.Background()

	first, err := svc.CreateChat(ctx)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = svc.SendChat(ctx, first.ID, ChatMessageRequest{Text: fmt.Sprintf("message %d", i)})
		require.NoError(t, err)
	}
	transcript, err := svc.GetChat(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, transcript.Messages, 4)
	assert.Equal(t, "message 1", transcript.Messages[0].Text)

	clock := time.Now()
	svc.chats.now = func() time.Time { return clock }
	second, err := svc.CreateChat(ctx)
	require.NoError(t, err)
	clock = clock.Add(time.Second)
	_, err = svc.GetChat(ctx, first.ID)
	require.NoError(t, err)

	clock = clock.Add(time.Second)
	_, err = svc.CreateChat(ctx)
	require.NoError(t, err)

	_, err = svc.GetChat(ctx, second.ID)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
	_, err = svc.GetChat(ctx, first.ID)
	assert.NoError(t, err)
}
