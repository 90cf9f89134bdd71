package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gemini-chat/internal/llm"

	"github.com/spf13/viper"
)

const (
	DefaultModel    = "gemini-1.5-flash-latest"
	DefaultLogLevel = "warn"
)

type Config struct {
	LLM LLMConfig `mapstructure:"llm"`
	Log LogConfig `mapstructure:"log"`
}

type LLMConfig struct {
	URL       string `mapstructure:"url"`
	Model     string `mapstructure:"model"`
	Token     string `mapstructure:"token"`
	Type      string `mapstructure:"type"`
	MaxTokens int    `mapstructure:"max_tokens"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// SetDefaults registers every key so AutomaticEnv can resolve it during Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("llm.type", llm.ProviderGemini)
	v.SetDefault("llm.model", DefaultModel)
	v.SetDefault("llm.url", "")
	v.SetDefault("llm.token", "")
	v.SetDefault("llm.max_tokens", 0)
	v.SetDefault("log.level", DefaultLogLevel)
}

// LoadFrom unmarshals v and fills the token from the provider's credential
// variable when the config itself does not carry one.
func LoadFrom(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	cfg.LLM.Type = strings.ToLower(strings.TrimSpace(cfg.LLM.Type))
	cfg.LLM.Model = strings.TrimSpace(cfg.LLM.Model)
	cfg.LLM.Token = strings.TrimSpace(cfg.LLM.Token)
	if cfg.LLM.Token == "" {
		cfg.LLM.Token = strings.TrimSpace(os.Getenv(cfg.CredentialEnv()))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.LLM.Type {
	case "", llm.ProviderOpenAI, llm.ProviderAnthropic, llm.ProviderGemini:
	default:
		return fmt.Errorf("invalid llm.type: %s", c.LLM.Type)
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if c.LLM.MaxTokens < 0 {
		return fmt.Errorf("invalid llm.max_tokens: %d", c.LLM.MaxTokens)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return fmt.Errorf("invalid log.level: %s", c.Log.Level)
	}
	return nil
}

// CredentialEnv names the variable consulted when llm.token is unset.
func (c Config) CredentialEnv() string {
	return llm.CredentialEnv(c.LLM.Type)
}
