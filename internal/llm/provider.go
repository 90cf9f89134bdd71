package llm

import (
	"fmt"
	"net/http"
	"strings"
)

const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropics"
)

// Options selects and configures a provider client.
type Options struct {
	Provider   string
	BaseURL    string
	Token      string
	Model      string
	MaxTokens  int
	HTTPClient *http.Client
}

func NewClient(opts Options) (Client, error) {
	switch normalizeProvider(opts.Provider) {
	case ProviderGemini:
		client, err := NewGeminiClient(GeminiConfig{
			BaseURL:    opts.BaseURL,
			Token:      opts.Token,
			Model:      opts.Model,
			HTTPClient: opts.HTTPClient,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case ProviderOpenAI:
		client, err := NewOpenAIClient(OpenAIConfig{
			BaseURL:    opts.BaseURL,
			Token:      opts.Token,
			Model:      opts.Model,
			HTTPClient: opts.HTTPClient,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case ProviderAnthropic:
		client, err := NewAnthropicClient(AnthropicConfig{
			BaseURL:    opts.BaseURL,
			Token:      opts.Token,
			Model:      opts.Model,
			MaxTokens:  opts.MaxTokens,
			HTTPClient: opts.HTTPClient,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, ConfigError("configure client", fmt.Errorf("unsupported llm.type: %s", opts.Provider))
	}
}

// Label is the speaker name printed in front of replies.
func Label(provider string) string {
	switch normalizeProvider(provider) {
	case ProviderOpenAI:
		return "OpenAI"
	case ProviderAnthropic:
		return "Claude"
	default:
		return "Gemini"
	}
}

// CredentialEnv names the environment variable that holds the provider's api key.
func CredentialEnv(provider string) string {
	switch normalizeProvider(provider) {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return "GOOGLE_API_KEY"
	}
}

func normalizeProvider(provider string) string {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		return ProviderGemini
	}
	return provider
}
