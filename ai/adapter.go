// ABOUTME: Chat-completion client used for meeting prep, document extraction and CRM suggestions
// ABOUTME: One JSON-mode request per call; no retries and no caching
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL     = "https://api.openai.com/v1"
	DefaultModel       = "gpt-4o-mini"
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 2000
)

// Config holds the provider settings. Only APIKey is required.
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int

	// Temperature is sent as given, zero included. Nil means DefaultTemperature.
	Temperature *float64

	HTTPClient *http.Client
	Logger     *zap.Logger
	Now        func() time.Time
}

// Adapter sends prompts to an OpenAI-compatible chat-completion endpoint
// and validates the JSON it gets back.
type Adapter struct {
	cfg         Config
	temperature float64
	client      *http.Client
	logger      *zap.Logger
}

// New fills in defaults for unset fields. A missing API key is reported
// when an operation runs, not here.
func New(cfg Config) *Adapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	temperature := DefaultTemperature
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Adapter{cfg: cfg, temperature: temperature, client: client, logger: logger}
}

// Model returns the model identifier requests are sent with.
func (a *Adapter) Model() string {
	return a.cfg.Model
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	MaxTokens      int            `json:"max_tokens"`
	ResponseFormat responseFormat `json:"response_format"`
}

// complete runs one chat round trip and returns the first choice's content.
func (a *Adapter) complete(ctx context.Context, p Prompt) (string, error) {
	if strings.TrimSpace(a.cfg.APIKey) == "" {
		return "", &ConfigurationError{Setting: "API key"}
	}

	payload, err := json.Marshal(chatRequest{
		Model: a.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: p.System},
			{Role: "user", Content: p.User},
		},
		Temperature:    a.temperature,
		MaxTokens:      a.cfg.MaxTokens,
		ResponseFormat: responseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)

	a.logger.Debug("sending chat completion",
		zap.String("model", a.cfg.Model),
		zap.Int("prompt_bytes", len(p.System)+len(p.User)))

	resp, err := a.client.Do(req)
	if err != nil {
		return "", &UpstreamError{Message: transportMessage(err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UpstreamError{Status: resp.StatusCode, Message: transportMessage(err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &UpstreamError{Status: resp.StatusCode, Message: providerMessage(resp.StatusCode, body)}
	}

	content := gjson.GetBytes(body, "choices.0.message.content")
	if !content.Exists() {
		a.logger.Debug("response envelope has no content", zap.ByteString("body", body))
		return "", &ParseError{Kind: p.Kind, Reason: "no message content in response"}
	}
	return stripFences(content.String()), nil
}

// stripFences removes a surrounding ``` or ```json code fence.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop the info string, e.g. "json"
		if !strings.ContainsAny(s[:nl], "{[") {
			s = s[nl+1:]
		}
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
