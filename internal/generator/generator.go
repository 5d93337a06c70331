// Package generator holds the LLM generation collaborators: the provider
// registry, the rate-limit aware fallback chain, the system prompt template
// and the HTTP plumbing shared by the provider clients in the sub-packages.
package generator

import (
	"encoding/json"
	"net/http"
	"time"

	"pitchwise/internal/config"
)

// NoResponseText stands in for a completion that carried no text.
const NoResponseText = "No response received."

const (
	defaultTimeout     = 60 * time.Second
	defaultTemperature = 0.7
	defaultMaxTokens   = 350
)

// Settings are the sampling parameters common to every provider.
type Settings struct {
	Model       string
	Endpoint    string
	APIKey      string
	Temperature float64
	MaxTokens   int
	Client      *http.Client
}

// NewSettings resolves cfg against provider defaults.
func NewSettings(cfg *config.ProviderConfig, defaultModel, defaultEndpoint string) Settings {
	s := Settings{
		Model:       cfg.DefaultModel,
		Endpoint:    cfg.Endpoint,
		APIKey:      cfg.APIKey,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}
	if s.Model == "" {
		s.Model = defaultModel
	}
	if s.Endpoint == "" {
		s.Endpoint = defaultEndpoint
	}
	// Zero is a valid temperature; only a negative one means unset.
	if s.Temperature < 0 {
		s.Temperature = defaultTemperature
	}
	if s.MaxTokens <= 0 {
		s.MaxTokens = defaultMaxTokens
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = defaultTimeout
	}
	s.Client = &http.Client{Timeout: timeout}
	return s
}

// TextOrDefault substitutes NoResponseText for an empty completion.
func TextOrDefault(text string) string {
	if text == "" {
		return NoResponseText
	}
	return text
}

// RawText returns the string held by raw, or "" when raw is not a JSON string.
func RawText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Truncate shortens s for inclusion in error messages.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
