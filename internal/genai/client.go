// Package genai talks to the generative content provider. The engine trusts
// the provider for content but defensively parses everything it returns;
// malformed output surfaces as a retryable generation failure and is never
// partially applied to progression state.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/takeru/enghub/internal/errors"
	"github.com/takeru/enghub/internal/logger"
	"github.com/takeru/enghub/internal/models"
)

// Config for the Gemini client.
type Config struct {
	APIKey  string
	BaseURL string // API base URL
	Model   string
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL: "https://generativelanguage.googleapis.com",
		Model:   "gemini-2.5-flash",
		Timeout: 60 * time.Second,
	}
}

// Client calls the Gemini generateContent endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient creates a new generative content client.
func NewClient(cfg Config) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// WithHTTPClient swaps the underlying transport. Used by tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// generate sends one prompt and returns the raw text of the first candidate.
func (c *Client) generate(ctx context.Context, prompt string, wantJSON bool) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("genai")

	req := generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}}
	if wantJSON {
		req.GenerationConfig = &generationConfig{ResponseMIMEType: "application/json"}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	log.Debug("calling generative provider: model=%s, prompt_bytes=%d", c.model, len(prompt))
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("provider error %d: %s", resp.StatusCode, string(respBody))
	}

	var out generateResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from provider")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}

// GenerateReadingQuiz produces a passage with MCQ and open questions for the
// given topic and learner level.
func (c *Client) GenerateReadingQuiz(ctx context.Context, topic, level string) (*models.ReadingQuizContent, error) {
	text, err := c.generate(ctx, readingQuizPrompt(topic, level), true)
	if err != nil {
		return nil, errors.NewGenerationError(err)
	}

	quiz, err := parseReadingQuiz(text)
	if err != nil {
		return nil, errors.NewGenerationError(err)
	}
	return quiz, nil
}

// EvaluateOpenAnswer grades a free-text answer against the passage.
func (c *Client) EvaluateOpenAnswer(ctx context.Context, passage, question, answer string) (*models.OpenAnswerEvaluation, error) {
	text, err := c.generate(ctx, evaluationPrompt(passage, question, answer), true)
	if err != nil {
		return nil, errors.NewGenerationError(err)
	}

	eval, err := parseEvaluation(text)
	if err != nil {
		return nil, errors.NewGenerationError(err)
	}
	return eval, nil
}

// WritingFeedback returns markdown feedback for an essay.
func (c *Client) WritingFeedback(ctx context.Context, topic, essay string) (string, error) {
	text, err := c.generate(ctx, writingFeedbackPrompt(topic, essay), false)
	if err != nil {
		return "", errors.NewGenerationError(err)
	}
	if text == "" {
		return "", errors.NewGenerationError(fmt.Errorf("empty feedback"))
	}
	return text, nil
}

// GenerateLearningPlan builds a one-week plan from preferences and recent
// activity.
func (c *Client) GenerateLearningPlan(ctx context.Context, prefs models.Preferences, recent []models.ActivityLog) (*models.LearningPlan, error) {
	text, err := c.generate(ctx, learningPlanPrompt(prefs, recent), true)
	if err != nil {
		return nil, errors.NewGenerationError(err)
	}

	plan, err := parseLearningPlan(text)
	if err != nil {
		return nil, errors.NewGenerationError(err)
	}
	return plan, nil
}
