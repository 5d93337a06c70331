package claude

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"pitchwise/internal/config"
	"pitchwise/internal/domain"
	"pitchwise/internal/generator"
	"pitchwise/internal/port"
)

const (
	apiURL       = "https://api.anthropic.com/v1/messages"
	apiVersion   = "2023-06-01"
	defaultModel = "claude-sonnet-4-20250514"
)

// Generator implements port.Generator using the Anthropic Messages API.
type Generator struct {
	settings generator.Settings
	prompt   *generator.PromptTemplate
}

// NewGenerator creates a Claude-backed generator.
func NewGenerator(cfg *config.ProviderConfig, prompt *generator.PromptTemplate) *Generator {
	return &Generator{
		settings: generator.NewSettings(cfg, defaultModel, apiURL),
		prompt:   prompt,
	}
}

// Factory is the generator.ProviderFactory for "claude".
func Factory(cfg *config.ProviderConfig, prompt *generator.PromptTemplate) (port.Generator, error) {
	return NewGenerator(cfg, prompt), nil
}

func (g *Generator) Generate(ctx context.Context, req domain.Request) (string, error) {
	if g.settings.APIKey == "" {
		return "", fmt.Errorf("claude: %w", domain.ErrMissingAPIKey)
	}

	system, err := g.prompt.Render(req)
	if err != nil {
		return "", err
	}

	reqBody := map[string]interface{}{
		"model":       g.settings.Model,
		"max_tokens":  g.settings.MaxTokens,
		"temperature": g.settings.Temperature,
		"system":      system,
		"messages": []map[string]interface{}{
			{"role": "user", "content": req.ContentJSON()},
		},
	}

	body, err := generator.PostJSON(ctx, g.settings.Client, generator.Call{
		Provider: "claude",
		Model:    g.settings.Model,
		Endpoint: g.settings.Endpoint,
		Headers: map[string]string{
			"x-api-key":         g.settings.APIKey,
			"anthropic-version": apiVersion,
		},
		Body: reqBody,
	})
	if err != nil {
		return "", err
	}

	return parseResponse(body), nil
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text json.RawMessage `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// parseResponse joins the text blocks of the reply. A reply cut off by
// max_tokens is still returned; the extractor copes with partial output.
// An undecodable body counts as no response.
func parseResponse(body []byte) string {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return generator.NoResponseText
	}

	var parts []string
	for _, block := range resp.Content {
		if block.Type != "text" {
			continue
		}
		if text := generator.RawText(block.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return generator.TextOrDefault(strings.Join(parts, "\n"))
}
