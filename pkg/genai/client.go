// Package genai is a small client for the Gemini generateContent REST endpoint.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/sma-pulse-api/pkg/circuitbreaker"
)

// DefaultBaseURL is the public Generative Language API host.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

const maxErrorBody = 4096

var (
	// ErrMissingAPIKey is returned before any network call when no key is configured.
	ErrMissingAPIKey = errors.New("genai: api key is not configured")
	// ErrEmptyResponse means the model answered without any text part.
	ErrEmptyResponse = errors.New("genai: response contained no text")
)

// StatusError carries a non-2xx upstream response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("genai: upstream status %d: %s", e.StatusCode, e.Body)
}

// Role of a conversation turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one conversation turn.
type Message struct {
	Role Role
	Text string
}

// Request describes a single generateContent call.
type Request struct {
	Model    string
	System   string
	Messages []Message
	// Temperature is sent only when non-nil.
	Temperature     *float64
	MaxOutputTokens int
	// ResponseSchema switches the response MIME type to JSON and constrains its shape.
	ResponseSchema map[string]any
}

// Config configures a Client.
type Config struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Breaker    circuitbreaker.Config
}

// Client calls the generateContent endpoint behind a circuit breaker.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	breaker *circuitbreaker.Breaker
	tracer  trace.Tracer
}

// NewClient builds a Client. A nil HTTPClient gets one bounded by cfg.Timeout.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	breakerCfg := cfg.Breaker
	if breakerCfg.Name == "" {
		breakerCfg.Name = "genai"
	}
	if breakerCfg.IsFailure == nil {
		breakerCfg.IsFailure = IsUpstreamFailure
	}
	return &Client{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		baseURL: baseURL,
		http:    httpClient,
		breaker: circuitbreaker.New(breakerCfg),
		tracer:  otel.Tracer("github.com/noah-isme/sma-pulse-api/pkg/genai"),
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

// BreakerState reports the current state of the upstream breaker.
func (c *Client) BreakerState() circuitbreaker.State {
	return c.breaker.State()
}

// Ready fails while the breaker is open.
func (c *Client) Ready(context.Context) error {
	if c.BreakerState() == circuitbreaker.StateOpen {
		return circuitbreaker.ErrOpen
	}
	return nil
}

// Generate sends req and returns the concatenated text of the first candidate.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	if !c.Configured() {
		return "", ErrMissingAPIKey
	}
	if strings.TrimSpace(req.Model) == "" {
		return "", fmt.Errorf("genai: model is required")
	}
	if len(req.Messages) == 0 {
		return "", fmt.Errorf("genai: at least one message is required")
	}

	ctx, span := c.tracer.Start(ctx, "genai.generateContent",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("genai.model", req.Model),
			attribute.Int("genai.turns", len(req.Messages)),
		),
	)
	defer span.End()

	var text string
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		var callErr error
		text, callErr = c.call(ctx, req)
		return callErr
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetAttributes(attribute.Int("genai.response_chars", len(text)))
	return text, nil
}

func (c *Client) call(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(buildPayload(req))
	if err != nil {
		return "", fmt.Errorf("genai: marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, url.PathEscape(req.Model))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("genai: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	res, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("genai: request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		raw, readErr := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		if readErr != nil {
			return "", fmt.Errorf("genai: read error body: %w", readErr)
		}
		return "", &StatusError{StatusCode: res.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var decoded generateResponse
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("genai: decode response: %w", err)
	}
	return decoded.text()
}

// IsUpstreamFailure reports whether err says something about upstream health.
// Caller cancellation and 4xx other than 429 do not count.
func IsUpstreamFailure(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
	}
	return true
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature      *float64       `json:"temperature,omitempty"`
	MaxOutputTokens  int            `json:"maxOutputTokens,omitempty"`
	ResponseMIMEType string         `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

func (r generateResponse) text() (string, error) {
	if len(r.Candidates) == 0 {
		if r.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w: blocked (%s)", ErrEmptyResponse, r.PromptFeedback.BlockReason)
		}
		return "", ErrEmptyResponse
	}
	var b strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}

func buildPayload(req Request) generateRequest {
	payload := generateRequest{Contents: make([]content, 0, len(req.Messages))}
	for _, m := range req.Messages {
		role := m.Role
		if role == "" {
			role = RoleUser
		}
		payload.Contents = append(payload.Contents, content{Role: string(role), Parts: []part{{Text: m.Text}}})
	}
	if strings.TrimSpace(req.System) != "" {
		payload.SystemInstruction = &content{Parts: []part{{Text: req.System}}}
	}
	if req.Temperature != nil || req.MaxOutputTokens > 0 || req.ResponseSchema != nil {
		cfg := &generationConfig{Temperature: req.Temperature, MaxOutputTokens: req.MaxOutputTokens}
		if req.ResponseSchema != nil {
			cfg.ResponseMIMEType = "application/json"
			cfg.ResponseSchema = req.ResponseSchema
		}
		payload.GenerationConfig = cfg
	}
	return payload
}
