// ABOUTME: Typed failures of the AI adapter: missing credential, provider failure, unreadable payload
// ABOUTME: Also turns provider error envelopes and transport errors into readable messages
package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ConfigurationError means the adapter cannot run with its current settings.
// No request is sent when it is returned.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("ai: %s is not configured", e.Setting)
}

// UpstreamError is a transport failure or a non-2xx provider response.
// Status is 0 when no response was received.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return "ai: provider unreachable: " + e.Message
	}
	return fmt.Sprintf("ai: provider returned %d: %s", e.Status, e.Message)
}

// ParseError means the provider answered but the content was not a usable
// JSON object. The raw content is never part of the message.
type ParseError struct {
	Kind   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ai: unusable %s response: %s", e.Kind, e.Reason)
}

// UserMessage turns an adapter error into text an advisor can act on.
// Parse failures get a generic message so raw model output is never shown.
func UserMessage(err error) string {
	var cfgErr *ConfigurationError
	var upErr *UpstreamError
	var parseErr *ParseError
	switch {
	case errors.As(err, &cfgErr):
		return "No API key configured. Run `clarity config set-key` or set OPENAI_API_KEY."
	case errors.As(err, &upErr):
		return fmt.Sprintf("AI provider error (%s). Please try again.", upErr.Message)
	case errors.As(err, &parseErr):
		return "The AI response could not be read. Please try again."
	}
	return err.Error()
}

// providerMessage extracts a readable message from a provider error body.
func providerMessage(status int, body []byte) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &envelope) == nil {
		if msg := envelope.Error.Message; msg != "" {
			return msg
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}

	switch status {
	case http.StatusUnauthorized:
		return "authentication failed, check your API key"
	case http.StatusForbidden:
		return "access denied for this API key"
	case http.StatusNotFound:
		return "model or endpoint not found"
	case http.StatusTooManyRequests:
		return "rate limited, please wait before trying again"
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return "provider temporarily unavailable"
	}

	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	if s == "" {
		s = http.StatusText(status)
	}
	return s
}

// transportMessage shortens common network errors.
func transportMessage(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "connection refused"
	case strings.Contains(msg, "no such host"):
		return "host not found, check the base URL"
	case strings.Contains(msg, "deadline exceeded"), strings.Contains(msg, "timeout"):
		return "request timed out"
	case strings.Contains(msg, "context canceled"):
		return "request cancelled"
	}
	return msg
}
