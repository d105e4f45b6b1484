package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-pulse-api/internal/dto"
	"github.com/noah-isme/sma-pulse-api/internal/models"
	"github.com/noah-isme/sma-pulse-api/internal/outcome"
	appErrors "github.com/noah-isme/sma-pulse-api/pkg/errors"
	"github.com/noah-isme/sma-pulse-api/pkg/genai"
	"github.com/noah-isme/sma-pulse-api/pkg/middleware/requestid"
)

// Canned replies used when the text generator cannot answer.
const (
	AnalysisFallbackText = "Unable to generate real-time analysis at this moment. Focus on maintaining subjects above 75%."
	ChatFallbackText     = "There was an error connecting to the AI. Please check your API key."
	ChatEmptyReplyText   = "I'm sorry, I couldn't process that. Could you try again?"
)

const (
	chatRoleUser  = "user"
	chatRoleModel = "model"

	decisionSourceAdvisor = "advisor"
	decisionSourceEngine  = "engine"
)

type textGenerator interface {
	Generate(ctx context.Context, req genai.Request) (string, error)
}

type advisorRecords interface {
	Student() models.StudentProfile
	History() []models.PerformanceHistoryEntry
	FindSubject(id string) (models.SubjectRecord, error)
	ListAssignments(filter models.AssignmentFilter) []models.AssignmentRecord
}

// AdviceRequest asks for a recommendation. An empty Context is replaced by the dashboard context.
type AdviceRequest struct {
	Context string `json:"context" validate:"max=4000"`
}

// AttendDecisionRequest asks whether to attend the next session of a subject.
// Either SubjectID or both Subject and Attendance must be set.
type AttendDecisionRequest struct {
	SubjectID  string   `json:"subjectId"`
	Subject    string   `json:"subject" validate:"max=120"`
	Attendance *float64 `json:"attendance"`
	Importance string   `json:"importance" validate:"omitempty,oneof=Low Medium High"`
}

// ChatMessageRequest is one user message to a chat session.
type ChatMessageRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// AdvisorConfig tunes advisor behaviour.
type AdvisorConfig struct {
	AnalysisModel string
	ChatModel     string
	CacheTTL      time.Duration
	MaxSessions   int
	MaxTurns      int
}

// AdvisorServiceParams groups constructor dependencies.
type AdvisorServiceParams struct {
	Generator textGenerator
	Standings standingProvider
	Records   advisorRecords
	Cache     *CacheService
	Metrics   *MetricsService
	Validator *validator.Validate
	Logger    *zap.Logger
	Config    AdvisorConfig
}

// AdvisorService turns engine results into context for a text generator and
// keeps every failure of that generator behind a graceful reply.
type AdvisorService struct {
	generator textGenerator
	standings standingProvider
	records   advisorRecords
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       AdvisorConfig
	chats     *chatStore
	now       func() time.Time
}

// NewAdvisorService constructs an AdvisorService.
func NewAdvisorService(params AdvisorServiceParams) *AdvisorService {
	cfg := params.Config
	if cfg.AnalysisModel == "" {
		cfg.AnalysisModel = "gemini-3-flash-preview"
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = "gemini-3-pro-preview"
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdvisorService{
		generator: params.Generator,
		standings: params.Standings,
		records:   params.Records,
		cache:     params.Cache,
		metrics:   params.Metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		chats:     newChatStore(cfg.MaxSessions, cfg.MaxTurns),
		now:       time.Now,
	}
}

// Analysis returns a short priority summary of the whole snapshot. Generated
// summaries are cached per context; failures yield AnalysisFallbackText.
func (s *AdvisorService) Analysis(ctx context.Context) (*dto.AdvisorText, bool, error) {
	snapshot, err := s.buildContext(ctx)
	if err != nil {
		return nil, false, err
	}
	contextText := snapshot.String()
	cacheKey := CacheKey("advisor", "analysis", digest(s.cfg.AnalysisModel, contextText))

	var cached dto.AdvisorText
	if s.cache.Get(ctx, cacheKey, &cached) {
		s.metrics.RecordAdvisorCall("analysis", AdvisorOutcomeCached, 0)
		return &cached, true, nil
	}

	temperature := 0.7
	text, err := s.generate(ctx, "analysis", genai.Request{
		Model: s.cfg.AnalysisModel,
		Messages: []genai.Message{{Role: genai.RoleUser, Text: "Analyze this student's status and provide a 2-sentence tactical summary of their biggest priority.\n" +
			"Data:\n" + contextText}},
		Temperature:     &temperature,
		MaxOutputTokens: 150,
	})
	if err != nil {
		return &dto.AdvisorText{Text: AnalysisFallbackText, Fallback: true}, false, nil
	}
	result := &dto.AdvisorText{Text: text}
	s.cache.Set(ctx, cacheKey, result, s.cfg.CacheTTL)
	return result, false, nil
}

// Advice returns a recommendation for the supplied or derived context.
func (s *AdvisorService) Advice(ctx context.Context, req AdviceRequest) (*dto.AdvisorText, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid advice payload")
	}
	contextText := strings.TrimSpace(req.Context)
	if contextText == "" {
		snapshot, err := s.buildContext(ctx)
		if err != nil {
			return nil, err
		}
		contextText = snapshot.String()
	}

	temperature := 0.7
	text, err := s.generate(ctx, "advice", genai.Request{
		Model: s.cfg.AnalysisModel,
		Messages: []genai.Message{{Role: genai.RoleUser, Text: "You are an expert academic advisor. Based on the following student dashboard context, " +
			"provide a concise, high-impact recommendation (max 100 words) on how to improve or what to prioritize next.\nContext:\n" + contextText}},
		Temperature:     &temperature,
		MaxOutputTokens: 250,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrAdvisorUnavailable.Code, appErrors.ErrAdvisorUnavailable.Status, appErrors.ErrAdvisorUnavailable.Message)
	}
	return &dto.AdvisorText{Text: text}, nil
}

// AttendDecision answers whether the next session should be attended. When the
// generator fails or answers malformed JSON the rule-based engine answer is returned.
func (s *AdvisorService) AttendDecision(ctx context.Context, req AttendDecisionRequest) (*dto.AttendDecision, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid decision payload")
	}
	situation, err := s.resolveSituation(req)
	if err != nil {
		return nil, err
	}

	temperature := 0.2
	prompt := fmt.Sprintf("Student wants to know if they should attend the next %s class. Current attendance: %s%%. Topic importance: %s. "+
		"Attendance below 75%% is critical. Provide a 'Yes' or 'No' decision with a 1-sentence reason.",
		situation.subject, formatScore(situation.percent), situation.importance)
	if situation.line != "" {
		prompt += "\nSubject record: " + situation.line
	}
	text, err := s.generate(ctx, "attend_decision", genai.Request{
		Model:       s.cfg.AnalysisModel,
		Messages:    []genai.Message{{Role: genai.RoleUser, Text: prompt}},
		Temperature: &temperature,
		ResponseSchema: map[string]any{
			"type": "OBJECT",
			"properties": map[string]any{
				"decision": map[string]any{"type": "STRING"},
				"reason":   map[string]any{"type": "STRING"},
			},
			"required": []string{"decision", "reason"},
		},
	})
	if err == nil {
		var parsed struct {
			Decision string `json:"decision"`
			Reason   string `json:"reason"`
		}
		if jsonErr := json.Unmarshal([]byte(text), &parsed); jsonErr == nil && strings.TrimSpace(parsed.Decision) != "" {
			return &dto.AttendDecision{
				Subject:  situation.subject,
				Decision: strings.TrimSpace(parsed.Decision),
				Reason:   strings.TrimSpace(parsed.Reason),
				Source:   decisionSourceAdvisor,
			}, nil
		}
		s.logger.Warn("advisor decision unparseable", zap.String("subject", situation.subject))
		s.metrics.RecordAdvisorCall("attend_decision", AdvisorOutcomeFallback, 0)
	}
	return engineDecision(situation), nil
}

// CreateChat opens a conversation seeded with a greeting.
func (s *AdvisorService) CreateChat(ctx context.Context) (*dto.ChatSession, error) {
	student := s.records.Student()
	name := student.Name
	if name == "" {
		name = "there"
	}
	mentor := "Academic Mentor"
	if student.Institute != "" {
		mentor = student.Institute + " " + mentor
	}
	sess := s.chats.create(fmt.Sprintf("Hello %s! I am your %s. How can I help you today?", name, mentor))
	s.logger.Debug("chat session opened", zap.String("session_id", sess.id), zap.Int("open_sessions", s.chats.len()))

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.view(), nil
}

// GetChat returns a conversation transcript.
func (s *AdvisorService) GetChat(ctx context.Context, id string) (*dto.ChatSession, error) {
	sess, ok := s.chats.get(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "chat session not found")
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.view(), nil
}

// SendChat sends a user message with the full session history. A failed call
// returns ChatFallbackText and leaves the history untouched.
func (s *AdvisorService) SendChat(ctx context.Context, id string, req ChatMessageRequest) (*dto.ChatReply, error) {
	req.Text = strings.TrimSpace(req.Text)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid chat message")
	}
	sess, ok := s.chats.get(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "chat session not found")
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	user := dto.ChatMessage{Role: chatRoleUser, Text: req.Text, SentAt: s.now().UTC()}
	turns := make([]genai.Message, 0, len(sess.messages)+1)
	for _, m := range sess.messages {
		turns = append(turns, genai.Message{Role: genai.Role(m.Role), Text: m.Text})
	}
	turns = append(turns, genai.Message{Role: genai.RoleUser, Text: user.Text})

	temperature := 0.9
	text, err := s.generate(ctx, "chat", genai.Request{
		Model:       s.cfg.ChatModel,
		System:      s.chatInstruction(ctx),
		Messages:    turns,
		Temperature: &temperature,
	})
	switch {
	case errors.Is(err, genai.ErrEmptyResponse):
		text = ChatEmptyReplyText
	case err != nil:
		return &dto.ChatReply{
			SessionID: sess.id,
			Reply:     dto.ChatMessage{Role: chatRoleModel, Text: ChatFallbackText, SentAt: s.now().UTC()},
			Fallback:  true,
		}, nil
	}

	reply := dto.ChatMessage{Role: chatRoleModel, Text: text, SentAt: s.now().UTC()}
	sess.appendExchange(user, reply, s.chats.maxTurns)
	return &dto.ChatReply{SessionID: sess.id, Reply: reply}, nil
}

func (s *AdvisorService) generate(ctx context.Context, operation string, req genai.Request) (string, error) {
	if s.generator == nil {
		s.metrics.RecordAdvisorCall(operation, AdvisorOutcomeFallback, 0)
		return "", genai.ErrMissingAPIKey
	}
	start := time.Now()
	text, err := s.generator.Generate(ctx, req)
	duration := time.Since(start)
	if err != nil {
		if ctx.Err() != nil {
			s.logger.Debug("advisor call cancelled", zap.String("operation", operation), zap.Error(err))
		} else {
			s.logger.Warn("advisor call failed",
				zap.String("operation", operation),
				zap.String("request_id", requestid.FromContext(ctx)),
				zap.Duration("duration", duration),
				zap.Error(err))
		}
		s.metrics.RecordAdvisorCall(operation, AdvisorOutcomeFallback, duration)
		return "", err
	}
	s.metrics.RecordAdvisorCall(operation, AdvisorOutcomeOK, duration)
	return text, nil
}

func (s *AdvisorService) buildContext(ctx context.Context) (advisorContext, error) {
	standings, err := s.standings.List(ctx)
	if err != nil {
		return advisorContext{}, err
	}
	overall, err := s.standings.Overall(ctx)
	if err != nil {
		return advisorContext{}, err
	}
	return advisorContext{
		student:   s.records.Student(),
		history:   s.records.History(),
		overall:   overall,
		standings: standings,
		pending:   s.records.ListAssignments(models.AssignmentFilter{Status: models.AssignmentStatusPending}),
	}, nil
}

func (s *AdvisorService) chatInstruction(ctx context.Context) string {
	mentor := "an Academic Mentor"
	if inst := s.records.Student().Institute; inst != "" {
		mentor = "the " + inst + " Academic Mentor"
	}
	instruction := fmt.Sprintf("You are %s. You help students navigate their academic journey. "+
		"Be encouraging, data-driven, and familiar with the 75%% attendance rule and the importance of the cumulative average. "+
		"If the student asks about specific data, refer to their dashboard values.", mentor)
	snapshot, err := s.buildContext(ctx)
	if err != nil {
		s.logger.Warn("chat context unavailable", zap.Error(err))
		return instruction
	}
	return instruction + "\nDashboard:\n" + snapshot.String()
}

type attendSituation struct {
	subject    string
	percent    float64
	importance string
	line       string
	noSessions bool
	// projection after one more missed session; nil when only a percentage was supplied.
	next *outcome.Projection
}

func (s *AdvisorService) resolveSituation(req AttendDecisionRequest) (attendSituation, error) {
	situation := attendSituation{importance: req.Importance}
	if situation.importance == "" {
		situation.importance = "Medium"
	}

	if id := strings.TrimSpace(req.SubjectID); id != "" {
		record, err := s.records.FindSubject(id)
		if err != nil {
			return attendSituation{}, err
		}
		situation.subject = record.Name
		if record.SessionsHeld == 0 {
			situation.noSessions = true
			return situation, nil
		}
		current, err := outcome.Predict(record.SessionsAttended, record.SessionsHeld, 0)
		if err != nil {
			return attendSituation{}, err
		}
		next, err := outcome.Predict(record.SessionsAttended, record.SessionsHeld, 1)
		if err != nil {
			return attendSituation{}, err
		}
		situation.percent = float64(current.Percent)
		situation.next = &next
		situation.line = SubjectContextLine(dto.SubjectStanding{
			Name:          record.Name,
			Code:          record.Code,
			Percent:       &current.Percent,
			Tier:          current.Tier,
			Score:         record.LatestScore,
			CohortAverage: record.CohortAverage,
			Comparison:    outcome.Compare(record.LatestScore, record.CohortAverage),
		})
		return situation, nil
	}

	if strings.TrimSpace(req.Subject) == "" || req.Attendance == nil {
		return attendSituation{}, appErrors.Clone(appErrors.ErrValidation, "subjectId or subject and attendance are required")
	}
	if *req.Attendance < 0 || *req.Attendance > 100 {
		return attendSituation{}, appErrors.Clone(appErrors.ErrValidation, "attendance must be between 0 and 100")
	}
	situation.subject = strings.TrimSpace(req.Subject)
	situation.percent = *req.Attendance
	return situation, nil
}

// nearSafeMargin is how close to the Safe threshold a bare percentage counts as at risk.
const nearSafeMargin = 5.0

func engineDecision(sit attendSituation) *dto.AttendDecision {
	decision := &dto.AttendDecision{Subject: sit.subject, Decision: "Yes", Source: decisionSourceEngine}
	switch {
	case sit.importance == "High":
		decision.Reason = "The session covers high-importance material."
	case sit.next != nil && sit.next.Tier != outcome.TierSafe:
		decision.Reason = fmt.Sprintf("Missing the next session would drop attendance to %d%% (%s).", sit.next.Percent, sit.next.Tier)
	case sit.next != nil:
		decision.Decision = "No"
		decision.Reason = fmt.Sprintf("Attendance stays at %d%% (%s) even after missing the next session.", sit.next.Percent, sit.next.Tier)
	case sit.noSessions:
		decision.Reason = "No sessions have been held yet, so every attended session sets the baseline."
	case outcome.Classify(sit.percent) != outcome.TierSafe:
		decision.Reason = fmt.Sprintf("Attendance of %s%% is already %s.", formatScore(sit.percent), outcome.Classify(sit.percent))
	case sit.percent < outcome.SafeThreshold+nearSafeMargin:
		decision.Reason = fmt.Sprintf("Attendance of %s%% is too close to the 75%% threshold to risk a miss.", formatScore(sit.percent))
	default:
		decision.Decision = "No"
		decision.Reason = fmt.Sprintf("Attendance of %s%% leaves room for one missed session.", formatScore(sit.percent))
	}
	return decision
}

func digest(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
