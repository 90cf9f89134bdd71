package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type OpenAIConfig struct {
	BaseURL    string
	Token      string
	Model      string
	HTTPClient *http.Client
}

type OpenAIClient struct {
	client openai.Client
	model  string
}

func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, CredentialError("configure openai", errors.New("openai token is required"))
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, ConfigError("configure openai", errors.New("openai model is required"))
	}
	opts := []option.RequestOption{
		option.WithAPIKey(token),
		option.WithMaxRetries(0),
	}
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(normalizeOpenAIBaseURL(baseURL)))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	return &OpenAIClient{
		client: openai.NewClient(opts...),
		model:  model,
	}, nil
}

func (c *OpenAIClient) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	model := req.Model
	if strings.TrimSpace(model) == "" {
		model = c.model
	}
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: buildOpenAIMessages(req.Messages),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return ChatResponse{}, TransportError("openai request failed", fmt.Errorf("%s (status %d)", apiErr.Message, apiErr.StatusCode))
		}
		return ChatResponse{}, TransportError("openai request", err)
	}
	if len(completion.Choices) == 0 {
		return ChatResponse{Model: completion.Model}, nil
	}
	return ChatResponse{
		Content:      completion.Choices[0].Message.Content,
		Model:        completion.Model,
		FinishReason: string(completion.Choices[0].FinishReason),
	}, nil
}

func buildOpenAIMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, message := range messages {
		switch message.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(message.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(message.Content))
		default:
			out = append(out, openai.UserMessage(message.Content))
		}
	}
	return out
}

// normalizeOpenAIBaseURL accepts both "https://host" and "https://host/v1".
func normalizeOpenAIBaseURL(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	if !strings.HasSuffix(base, "/v1") {
		base += "/v1"
	}
	return base + "/"
}
