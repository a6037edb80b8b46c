package strategy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
)

const (
	defaultModel   = "gpt-4o-mini"
	defaultBaseURL = "https://api.openai.com/v1"
	maxMarkupBytes = 30000
)

const systemPrompt = `You plan web page extraction strategies. Given a page and a goal,
respond with a single JSON object and nothing else:

{
  "name": "short strategy name",
  "steps": [
    {"kind": "click", "selector": "..."},
    {"kind": "input", "selector": "...", "value": "..."},
    {"kind": "hover", "selector": "..."},
    {"kind": "scroll", "pixels": 800},
    {"kind": "wait", "duration_ms": 500}
  ],
  "views": [
    {"name": "view name", "selector": "...", "mode": "css"}
  ]
}

Rules:
- steps are optional and run in order before content is collected
- view mode is "css", "xpath" or "text"; "text" needs no selector
- prefer stable selectors (ids, data attributes) over positional ones
- at least one view is required`

// PageContext is the page evidence handed to the planner.
type PageContext struct {
	URL    string
	Title  string
	Markup string
}

// Planner asks a chat-completions endpoint to produce a Strategy for
// a page and a goal.
type Planner struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
	logger     *slog.Logger
}

// PlannerOption configures a Planner.
type PlannerOption func(*Planner)

// WithModel overrides the default model.
func WithModel(model string) PlannerOption {
	return func(p *Planner) {
		if model != "" {
			p.model = model
		}
	}
}

// WithBaseURL overrides the API base URL, for proxies and
// OpenAI-compatible providers.
func WithBaseURL(baseURL string) PlannerOption {
	return func(p *Planner) {
		if baseURL != "" {
			p.baseURL = strings.TrimSuffix(baseURL, "/")
		}
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) PlannerOption {
	return func(p *Planner) {
		if c != nil {
			p.httpClient = c
		}
	}
}

// WithPlannerLogger sets the logger.
func WithPlannerLogger(l *slog.Logger) PlannerOption {
	return func(p *Planner) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPlanner creates a planner. An empty apiKey falls back to
// OPENAI_API_KEY; the base URL falls back to OPENAI_BASE_URL.
func NewPlanner(apiKey string, opts ...PlannerOption) *Planner {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	p := &Planner{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		model:      defaultModel,
		logger:     slog.Default(),
	}
	if env := os.Getenv("OPENAI_BASE_URL"); env != "" {
		p.baseURL = strings.TrimSuffix(env, "/")
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan produces a validated strategy for the page. The model response
// must be a single JSON object; there is no retry, a malformed answer
// is the caller's error to surface.
func (p *Planner) Plan(ctx context.Context, page PageContext, goal string) (Strategy, error) {
	if p.apiKey == "" {
		return Strategy{}, fmt.Errorf("strategy: planner requires an API key")
	}
	if goal == "" {
		return Strategy{}, fmt.Errorf("strategy: planner requires a goal")
	}

	markup := page.Markup
	if len(markup) > maxMarkupBytes {
		markup = markup[:maxMarkupBytes]
	}

	var user strings.Builder
	fmt.Fprintf(&user, "Goal: %s\n\nURL: %s\nTitle: %s\n\nMarkup:\n%s", goal, page.URL, page.Title, markup)

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemPrompt),
		openai.UserMessage(user.String()),
	}

	raw, err := p.complete(ctx, messages)
	if err != nil {
		return Strategy{}, err
	}

	var s Strategy
	if err := json.Unmarshal([]byte(stripFences(raw)), &s); err != nil {
		return Strategy{}, fmt.Errorf("strategy: decode plan: %w", err)
	}
	if err := Validate(s); err != nil {
		return Strategy{}, fmt.Errorf("strategy: planner produced invalid plan: %w", err)
	}

	p.logger.Debug("strategy planned", "name", s.Name, "steps", len(s.Steps), "views", len(s.Views))
	return s, nil
}

type completionRequest struct {
	Model    string                                   `json:"model"`
	Messages []openai.ChatCompletionMessageParamUnion `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *Planner) complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	body, err := json.Marshal(completionRequest{Model: p.model, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("strategy: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("strategy: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("strategy: completion request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("strategy: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("strategy: completion status %d: %s", resp.StatusCode, truncate(string(data), 300))
	}

	var cr completionResponse
	if err := json.Unmarshal(data, &cr); err != nil {
		return "", fmt.Errorf("strategy: decode response: %w", err)
	}
	if cr.Error != nil {
		return "", fmt.Errorf("strategy: provider error: %s", cr.Error.Message)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("strategy: empty completion")
	}
	return cr.Choices[0].Message.Content, nil
}

// stripFences removes a surrounding markdown code fence, which models
// add despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
