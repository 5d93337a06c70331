package gemini

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
	apiBaseURL   = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultModel = "gemini-2.0-flash"
)

// Generator implements port.Generator using Google's Gemini API.
type Generator struct {
	settings generator.Settings
	prompt   *generator.PromptTemplate
}

// NewGenerator creates a Gemini-backed generator.
func NewGenerator(cfg *config.ProviderConfig, prompt *generator.PromptTemplate) *Generator {
	model := cfg.DefaultModel
	if model == "" {
		model = defaultModel
	}
	return &Generator{
		settings: generator.NewSettings(cfg, model, fmt.Sprintf("%s/%s:generateContent", apiBaseURL, model)),
		prompt:   prompt,
	}
}

// Factory is the generator.ProviderFactory for "gemini".
func Factory(cfg *config.ProviderConfig, prompt *generator.PromptTemplate) (port.Generator, error) {
	return NewGenerator(cfg, prompt), nil
}

func (g *Generator) Generate(ctx context.Context, req domain.Request) (string, error) {
	if g.settings.APIKey == "" {
		return "", fmt.Errorf("gemini: %w", domain.ErrMissingAPIKey)
	}

	system, err := g.prompt.Render(req)
	if err != nil {
		return "", err
	}

	reqBody := map[string]interface{}{
		"systemInstruction": map[string]interface{}{
			"parts": []map[string]interface{}{{"text": system}},
		},
		"contents": []map[string]interface{}{
			{
				"role":  "user",
				"parts": []map[string]interface{}{{"text": req.ContentJSON()}},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature":     g.settings.Temperature,
			"maxOutputTokens": g.settings.MaxTokens,
		},
	}

	body, err := generator.PostJSON(ctx, g.settings.Client, generator.Call{
		Provider: "gemini",
		Model:    g.settings.Model,
		Endpoint: g.settings.Endpoint,
		Headers:  map[string]string{"x-goog-api-key": g.settings.APIKey},
		Body:     reqBody,
	})
	if err != nil {
		return "", err
	}

	return parseResponse(body), nil
}

// geminiResponse models the Gemini API response.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text json.RawMessage `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

// parseResponse joins the text parts of the first candidate. An undecodable
// body or parts without string text count as no response.
func parseResponse(body []byte) string {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil || len(resp.Candidates) == 0 {
		return generator.NoResponseText
	}

	var parts []string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text := generator.RawText(part.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return generator.TextOrDefault(strings.Join(parts, "\n"))
}
