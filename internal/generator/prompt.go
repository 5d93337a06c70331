package generator

import (
	"fmt"
	"os"
	"strings"
	"text/template"

	"pitchwise/internal/domain"
)

// PromptTemplate renders the system prompt for a request. It is built once at
// startup and never modified afterwards.
type PromptTemplate struct {
	tmpl *template.Template
}

// promptData is what a template can reference.
type promptData struct {
	Goal           string
	ProjectContext string
	CompanyContext string
}

const defaultPrompt = `You are a senior sales strategist. Read the conversation history, infer what the client cares about but has not said, and weigh it against the business objective.
{{- if .Goal}}

The conversation goal is: "{{.Goal}}". Every option must move the conversation toward this goal.
{{- end}}
{{- if .ProjectContext}}

Project Context: "{{.ProjectContext}}". Use this project information when writing the options.
{{- end}}
{{- if .CompanyContext}}

Company Context: "{{.CompanyContext}}". Use this company information when writing the options.
{{- end}}

Write 3 continuations the salesperson could say next. Each option should address a likely unspoken objection (budget, approvals, competitors), tie the client's priorities to a concrete advantage of the offer, and match the client's communication style.

Constraints:
- Only make offers that are already approved; no speculative promises.
- No overt pressure tactics.
- Mirror the structure of the client's last sentence (question for question, statement for statement).
- 17-23 words per option.

Output protocol: ONLY 3 numbered options, each a single line of exact dialogue in double quotes followed by an analysis score between 0 and 1. No labels, explanations or other formatting.

Example of valid output:

1. "Let's benchmark your last project's resale uplift. Was the maintenance clause a factor?" analysis_score: 0.91

2. "Competitor quotes often exclude monsoon-proofing. Should we pressure-test their specs together?" analysis_score: 0.82

3. "If we align terms by Friday, could your CFO review the proposal next week?" analysis_score: 0.73`

// NewPromptTemplate parses text as a text/template.
func NewPromptTemplate(text string) (*PromptTemplate, error) {
	tmpl, err := template.New("system").Option("missingkey=zero").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing prompt template: %w", err)
	}
	return &PromptTemplate{tmpl: tmpl}, nil
}

// DefaultPromptTemplate returns the built-in sales strategist prompt.
func DefaultPromptTemplate() *PromptTemplate {
	p, err := NewPromptTemplate(defaultPrompt)
	if err != nil {
		panic(err)
	}
	return p
}

// LoadPromptTemplate reads a template from path, or returns the default
// template when path is empty.
func LoadPromptTemplate(path string) (*PromptTemplate, error) {
	if path == "" {
		return DefaultPromptTemplate(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading prompt template: %w", err)
	}
	return NewPromptTemplate(string(raw))
}

// Render produces the system prompt for req.
func (p *PromptTemplate) Render(req domain.Request) (string, error) {
	var b strings.Builder
	err := p.tmpl.Execute(&b, promptData{
		Goal:           req.Goal,
		ProjectContext: req.ProjectContext,
		CompanyContext: req.CompanyContext,
	})
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return b.String(), nil
}
