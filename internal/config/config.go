package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	CORS      CORSConfig
	Generator GeneratorConfig
	Prompt    PromptConfig
	Session   SessionConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings. The same list gates WebSocket origins.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ProviderConfig holds settings for a single LLM generation provider.
type ProviderConfig struct {
	Provider     string  `mapstructure:"provider"`
	APIKey       string  `mapstructure:"api_key"`
	DefaultModel string  `mapstructure:"default_model"`
	Endpoint     string  `mapstructure:"endpoint"`
	TimeoutSecs  int     `mapstructure:"timeout_secs"`
	Temperature  float64 `mapstructure:"temperature"`
	MaxTokens    int     `mapstructure:"max_tokens"`
}

// GeneratorConfig holds generation settings with multi-provider support.
type GeneratorConfig struct {
	// Legacy flat fields
	Provider     string  `mapstructure:"provider"`
	APIKey       string  `mapstructure:"api_key"`
	DefaultModel string  `mapstructure:"default_model"`
	Endpoint     string  `mapstructure:"endpoint"`
	TimeoutSecs  int     `mapstructure:"timeout_secs"`
	Temperature  float64 `mapstructure:"temperature"`
	MaxTokens    int     `mapstructure:"max_tokens"`

	Primary   ProviderConfig `mapstructure:"primary"`
	Secondary ProviderConfig `mapstructure:"secondary"`
	Tertiary  ProviderConfig `mapstructure:"tertiary"`
}

// PrimaryConfig returns the primary provider config, falling back to the flat fields.
func (g *GeneratorConfig) PrimaryConfig() *ProviderConfig {
	if g.Primary.Provider != "" {
		return &g.Primary
	}
	return &ProviderConfig{
		Provider:     g.Provider,
		APIKey:       g.APIKey,
		DefaultModel: g.DefaultModel,
		Endpoint:     g.Endpoint,
		TimeoutSecs:  g.TimeoutSecs,
		Temperature:  g.Temperature,
		MaxTokens:    g.MaxTokens,
	}
}

// SecondaryConfig returns the secondary provider config, or nil if not configured.
func (g *GeneratorConfig) SecondaryConfig() *ProviderConfig {
	if g.Secondary.Provider != "" {
		return &g.Secondary
	}
	return nil
}

// TertiaryConfig returns the tertiary provider config, or nil if not configured.
func (g *GeneratorConfig) TertiaryConfig() *ProviderConfig {
	if g.Tertiary.Provider != "" {
		return &g.Tertiary
	}
	return nil
}

// Providers returns the configured providers in fallback order.
func (g *GeneratorConfig) Providers() []*ProviderConfig {
	out := []*ProviderConfig{g.PrimaryConfig()}
	if s := g.SecondaryConfig(); s != nil {
		out = append(out, s)
	}
	if t := g.TertiaryConfig(); t != nil {
		out = append(out, t)
	}
	return out
}

// PromptConfig points at an optional system prompt template file.
type PromptConfig struct {
	TemplateFile string `mapstructure:"template_file"`
}

// SessionConfig holds realtime connection settings.
type SessionConfig struct {
	SerializeCycles bool          `mapstructure:"serialize_cycles"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	PongWait        time.Duration `mapstructure:"pong_wait"`
	PingInterval    time.Duration `mapstructure:"ping_interval"`
	MaxMessageBytes int64         `mapstructure:"max_message_bytes"`
	SendBuffer      int           `mapstructure:"send_buffer"`
}

// Load reads configuration from environment variables with the PITCHWISE_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PITCHWISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":5000")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000")

	// Generator defaults (legacy flat)
	v.SetDefault("generator.provider", "groq")
	v.SetDefault("generator.api_key", "")
	v.SetDefault("generator.default_model", "")
	v.SetDefault("generator.endpoint", "")
	v.SetDefault("generator.timeout_secs", 60)
	v.SetDefault("generator.temperature", 0.7)
	v.SetDefault("generator.max_tokens", 350)

	for _, tier := range []string{"primary", "secondary", "tertiary"} {
		v.SetDefault("generator."+tier+".provider", "")
		v.SetDefault("generator."+tier+".api_key", "")
		v.SetDefault("generator."+tier+".default_model", "")
		v.SetDefault("generator."+tier+".endpoint", "")
		v.SetDefault("generator."+tier+".timeout_secs", 60)
		v.SetDefault("generator."+tier+".temperature", 0.7)
		v.SetDefault("generator."+tier+".max_tokens", 350)
	}

	v.SetDefault("prompt.template_file", "")

	// Session defaults
	v.SetDefault("session.serialize_cycles", false)
	v.SetDefault("session.write_timeout", "10s")
	v.SetDefault("session.pong_wait", "60s")
	v.SetDefault("session.ping_interval", "54s")
	v.SetDefault("session.max_message_bytes", 64*1024)
	v.SetDefault("session.send_buffer", 32)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":               "PITCHWISE_SERVER_PORT",
		"server.read_timeout":       "PITCHWISE_SERVER_READ_TIMEOUT",
		"server.write_timeout":      "PITCHWISE_SERVER_WRITE_TIMEOUT",
		"server.environment":        "PITCHWISE_SERVER_ENVIRONMENT",
		"log.level":                 "PITCHWISE_LOG_LEVEL",
		"log.format":                "PITCHWISE_LOG_FORMAT",
		"cors.allowed_origins":      "PITCHWISE_CORS_ALLOWED_ORIGINS",
		"generator.provider":        "PITCHWISE_GENERATOR_PROVIDER",
		"generator.api_key":         "PITCHWISE_GENERATOR_API_KEY",
		"generator.default_model":   "PITCHWISE_GENERATOR_DEFAULT_MODEL",
		"generator.endpoint":        "PITCHWISE_GENERATOR_ENDPOINT",
		"generator.timeout_secs":    "PITCHWISE_GENERATOR_TIMEOUT_SECS",
		"generator.temperature":     "PITCHWISE_GENERATOR_TEMPERATURE",
		"generator.max_tokens":      "PITCHWISE_GENERATOR_MAX_TOKENS",
		"prompt.template_file":      "PITCHWISE_PROMPT_TEMPLATE_FILE",
		"session.serialize_cycles":  "PITCHWISE_SESSION_SERIALIZE_CYCLES",
		"session.write_timeout":     "PITCHWISE_SESSION_WRITE_TIMEOUT",
		"session.pong_wait":         "PITCHWISE_SESSION_PONG_WAIT",
		"session.ping_interval":     "PITCHWISE_SESSION_PING_INTERVAL",
		"session.max_message_bytes": "PITCHWISE_SESSION_MAX_MESSAGE_BYTES",
		"session.send_buffer":       "PITCHWISE_SESSION_SEND_BUFFER",
	}
	for _, tier := range []string{"primary", "secondary", "tertiary"} {
		for _, field := range []string{"provider", "api_key", "default_model", "endpoint", "timeout_secs", "temperature", "max_tokens"} {
			key := "generator." + tier + "." + field
			envBindings[key] = "PITCHWISE_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		}
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set PORT. Use it if PITCHWISE_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("PITCHWISE_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	originList := v.GetString("cors.allowed_origins")
	if frontend := os.Getenv("FRONTEND_URL"); frontend != "" && os.Getenv("PITCHWISE_CORS_ALLOWED_ORIGINS") == "" {
		originList = frontend
	}
	var corsOrigins []string
	for _, o := range strings.Split(originList, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Generator = GeneratorConfig{
		Provider:     v.GetString("generator.provider"),
		APIKey:       v.GetString("generator.api_key"),
		DefaultModel: v.GetString("generator.default_model"),
		Endpoint:     v.GetString("generator.endpoint"),
		TimeoutSecs:  v.GetInt("generator.timeout_secs"),
		Temperature:  v.GetFloat64("generator.temperature"),
		MaxTokens:    v.GetInt("generator.max_tokens"),
		Primary:      providerConfig(v, "primary"),
		Secondary:    providerConfig(v, "secondary"),
		Tertiary:     providerConfig(v, "tertiary"),
	}
	// GROQ_API_KEY predates the prefixed variables.
	if groqKey := os.Getenv("GROQ_API_KEY"); groqKey != "" {
		if cfg.Generator.APIKey == "" && cfg.Generator.Provider == "groq" {
			cfg.Generator.APIKey = groqKey
		}
		if cfg.Generator.Primary.APIKey == "" && cfg.Generator.Primary.Provider == "groq" {
			cfg.Generator.Primary.APIKey = groqKey
		}
	}

	cfg.Prompt = PromptConfig{TemplateFile: v.GetString("prompt.template_file")}

	cfg.Session = SessionConfig{
		SerializeCycles: v.GetBool("session.serialize_cycles"),
		WriteTimeout:    v.GetDuration("session.write_timeout"),
		PongWait:        v.GetDuration("session.pong_wait"),
		PingInterval:    v.GetDuration("session.ping_interval"),
		MaxMessageBytes: v.GetInt64("session.max_message_bytes"),
		SendBuffer:      v.GetInt("session.send_buffer"),
	}
	if cfg.Session.PingInterval >= cfg.Session.PongWait {
		return nil, fmt.Errorf("session.ping_interval (%s) must be shorter than session.pong_wait (%s)",
			cfg.Session.PingInterval, cfg.Session.PongWait)
	}

	return cfg, nil
}

func providerConfig(v *viper.Viper, tier string) ProviderConfig {
	prefix := "generator." + tier + "."
	return ProviderConfig{
		Provider:     v.GetString(prefix + "provider"),
		APIKey:       v.GetString(prefix + "api_key"),
		DefaultModel: v.GetString(prefix + "default_model"),
		Endpoint:     v.GetString(prefix + "endpoint"),
		TimeoutSecs:  v.GetInt(prefix + "timeout_secs"),
		Temperature:  v.GetFloat64(prefix + "temperature"),
		MaxTokens:    v.GetInt(prefix + "max_tokens"),
	}
}
