package generator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pitchwise/internal/config"
	"pitchwise/internal/domain"
	"pitchwise/internal/generator"
	"pitchwise/internal/logger"
	"pitchwise/internal/port"
)

type staticGenerator string

func (s staticGenerator) Generate(context.Context, domain.Request) (string, error) {
	return string(s), nil
}

func init() {
	generator.RegisterProvider("static-test", func(cfg *config.ProviderConfig, _ *generator.PromptTemplate) (port.Generator, error) {
		return staticGenerator("from " + cfg.DefaultModel), nil
	})
}

func TestNewGenerator_UnknownProvider(t *testing.T) {
	_, err := generator.NewGenerator(&config.ProviderConfig{Provider: "nope"}, generator.DefaultPromptTemplate())

	assert.ErrorContains(t, err, "unknown generator provider: nope")
}

func TestNewFromConfig_BuildsChainInOrder(t *testing.T) {
	cfg := &config.GeneratorConfig{
		Primary:   config.ProviderConfig{Provider: "static-test", DefaultModel: "first"},
		Secondary: config.ProviderConfig{Provider: "static-test", DefaultModel: "second"},
	}

	fg, err := generator.NewFromConfig(cfg, generator.DefaultPromptTemplate(), logger.NewNoOpLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{"static-test", "static-test"}, fg.Names())
	text, err := fg.Generate(context.Background(), domain.Request{})
	require.NoError(t, err)
	assert.Equal(t, "from first", text)
}

func TestNewFromConfig_NoProviders(t *testing.T) {
	_, err := generator.NewFromConfig(&config.GeneratorConfig{}, generator.DefaultPromptTemplate(), logger.NewNoOpLogger())

	assert.ErrorIs(t, err, domain.ErrNoProviders)
}

func TestNewSettings_Defaults(t *testing.T) {
	s := generator.NewSettings(&config.ProviderConfig{Temperature: -1}, "model-x", "https://example.test")

	assert.Equal(t, "model-x", s.Model)
	assert.Equal(t, "https://example.test", s.Endpoint)
	assert.Equal(t, 0.7, s.Temperature)
	assert.Equal(t, 350, s.MaxTokens)
	assert.NotNil(t, s.Client)
}

func TestNewSettings_ZeroTemperatureIsKept(t *testing.T) {
	s := generator.NewSettings(&config.ProviderConfig{Temperature: 0, MaxTokens: 100}, "model-x", "https://example.test")

	assert.Equal(t, 0.0, s.Temperature)
	assert.Equal(t, 100, s.MaxTokens)
}

func TestRawText(t *testing.T) {
	assert.Equal(t, "hello", generator.RawText([]byte(`"hello"`)))
	assert.Empty(t, generator.RawText([]byte(`42`)))
	assert.Empty(t, generator.RawText([]byte(`null`)))
	assert.Empty(t, generator.RawText([]byte(`["a"]`)))
	assert.Empty(t, generator.RawText(nil))
}

func TestTextOrDefault(t *testing.T) {
	assert.Equal(t, generator.NoResponseText, generator.TextOrDefault(""))
	assert.Equal(t, "x", generator.TextOrDefault("x"))
}
