package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"pitchwise/internal/config"
	"pitchwise/internal/domain"
	"pitchwise/internal/generator"
	"pitchwise/internal/port"
)

const (
	apiURL     = "https://api.openai.com/v1/chat/completions"
	groqAPIURL = "https://api.groq.com/openai/v1/chat/completions"

	defaultModel     = "gpt-4o-mini"
	defaultGroqModel = "llama-3.3-70b-versatile"
)

// Generator implements port.Generator against any OpenAI-compatible Chat
// Completions endpoint. Groq is served by the same client.
type Generator struct {
	name     string
	settings generator.Settings
	prompt   *generator.PromptTemplate
}

// NewGenerator creates an OpenAI-backed generator.
func NewGenerator(cfg *config.ProviderConfig, prompt *generator.PromptTemplate) *Generator {
	return &Generator{
		name:     "openai",
		settings: generator.NewSettings(cfg, defaultModel, apiURL),
		prompt:   prompt,
	}
}

// NewGroqGenerator creates a Groq-backed generator.
func NewGroqGenerator(cfg *config.ProviderConfig, prompt *generator.PromptTemplate) *Generator {
	return &Generator{
		name:     "groq",
		settings: generator.NewSettings(cfg, defaultGroqModel, groqAPIURL),
		prompt:   prompt,
	}
}

// Factory is the generator.ProviderFactory for "openai".
func Factory(cfg *config.ProviderConfig, prompt *generator.PromptTemplate) (port.Generator, error) {
	return NewGenerator(cfg, prompt), nil
}

// GroqFactory is the generator.ProviderFactory for "groq".
func GroqFactory(cfg *config.ProviderConfig, prompt *generator.PromptTemplate) (port.Generator, error) {
	return NewGroqGenerator(cfg, prompt), nil
}

func (g *Generator) Generate(ctx context.Context, req domain.Request) (string, error) {
	if g.settings.APIKey == "" {
		return "", fmt.Errorf("%s: %w", g.name, domain.ErrMissingAPIKey)
	}

	system, err := g.prompt.Render(req)
	if err != nil {
		return "", err
	}

	reqBody := map[string]interface{}{
		"model": g.settings.Model,
		"messages": []map[string]interface{}{
			{"role": "system", "content": system},
			{"role": "user", "content": req.ContentJSON()},
		},
		"temperature": g.settings.Temperature,
		"max_tokens":  g.settings.MaxTokens,
	}

	body, err := generator.PostJSON(ctx, g.settings.Client, generator.Call{
		Provider: g.name,
		Model:    g.settings.Model,
		Endpoint: g.settings.Endpoint,
		Headers:  map[string]string{"Authorization": "Bearer " + g.settings.APIKey},
		Body:     reqBody,
	})
	if err != nil {
		return "", err
	}

	return parseResponse(body), nil
}

// apiResponse models the Chat Completions API response.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content json.RawMessage `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// parseResponse reads the first choice's text. An undecodable body or a
// content that is not a string counts as no response.
func parseResponse(body []byte) string {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil || len(resp.Choices) == 0 {
		return generator.NoResponseText
	}
	return generator.TextOrDefault(generator.RawText(resp.Choices[0].Message.Content))
}
