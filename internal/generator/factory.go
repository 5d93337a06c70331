package generator

import (
	"fmt"

	"pitchwise/internal/config"
	"pitchwise/internal/domain"
	"pitchwise/internal/logger"
	"pitchwise/internal/port"
)

// ProviderFactory builds a Generator from a provider config and the shared
// system prompt template.
type ProviderFactory func(cfg *config.ProviderConfig, prompt *PromptTemplate) (port.Generator, error)

// registry of provider factories, filled at startup via RegisterProvider.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewGenerator creates a Generator from a provider config using the registered factory.
func NewGenerator(cfg *config.ProviderConfig, prompt *PromptTemplate) (port.Generator, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown generator provider: %s", cfg.Provider)
	}
	return factory(cfg, prompt)
}

// NewFromConfig builds the fallback chain over every configured provider.
func NewFromConfig(cfg *config.GeneratorConfig, prompt *PromptTemplate, log logger.Logger) (*FallbackGenerator, error) {
	var (
		gens  []port.Generator
		names []string
	)
	for _, pc := range cfg.Providers() {
		if pc.Provider == "" {
			continue
		}
		g, err := NewGenerator(pc, prompt)
		if err != nil {
			return nil, err
		}
		gens = append(gens, g)
		names = append(names, pc.Provider)
	}
	if len(gens) == 0 {
		return nil, domain.ErrNoProviders
	}
	return NewFallbackGenerator(gens, names, log), nil
}
