package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	DefaultAnthropicBaseURL   = "https://api.anthropic.com"
	defaultAnthropicVersion   = "2023-06-01"
	defaultAnthropicMaxTokens = 1024
)

type AnthropicConfig struct {
	BaseURL    string
	Token      string
	Model      string
	MaxTokens  int
	HTTPClient *http.Client
}

type AnthropicClient struct {
	endpoint   string
	token      string
	model      string
	maxTokens  int
	httpClient *http.Client
}

func NewAnthropicClient(cfg AnthropicConfig) (*AnthropicClient, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, CredentialError("configure anthropic", errors.New("anthropic token is required"))
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, ConfigError("configure anthropic", errors.New("anthropic model is required"))
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultAnthropicBaseURL
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	return &AnthropicClient{
		endpoint:   buildAnthropicEndpoint(baseURL),
		token:      token,
		model:      model,
		maxTokens:  maxTokens,
		httpClient: client,
	}, nil
}

func (c *AnthropicClient) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	messages, system := splitAnthropicMessages(req.Messages)
	model := req.Model
	if strings.TrimSpace(model) == "" {
		model = c.model
	}
	requestBody, err := json.Marshal(anthropicChatRequest{
		Model:     model,
		Messages:  messages,
		System:    system,
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return ChatResponse{}, ResponseError("marshal request", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(requestBody))
	if err != nil {
		return ChatResponse{}, TransportError("create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.token)
	httpReq.Header.Set("anthropic-version", defaultAnthropicVersion)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return ChatResponse{}, TransportError("anthropic request", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < http.StatusOK || httpResp.StatusCode >= http.StatusMultipleChoices {
		return ChatResponse{}, readAnthropicError(httpResp.Body, httpResp.StatusCode)
	}
	var resp anthropicChatResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return ChatResponse{}, ResponseError("decode response", err)
	}
	if resp.Error != nil {
		return ChatResponse{}, ResponseError("anthropic error", errors.New(resp.Error.Message))
	}
	return ChatResponse{
		Content:      flattenAnthropicContent(resp.Content),
		Model:        resp.Model,
		FinishReason: resp.StopReason,
	}, nil
}

func buildAnthropicEndpoint(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	if strings.HasSuffix(base, "/v1") {
		return base + "/messages"
	}
	return base + "/v1/messages"
}

func readAnthropicError(body io.Reader, status int) error {
	var resp anthropicChatResponse
	_ = json.NewDecoder(body).Decode(&resp)
	if resp.Error != nil && resp.Error.Message != "" {
		return TransportError("anthropic request failed", fmt.Errorf("%s (status %d)", resp.Error.Message, status))
	}
	return TransportError("anthropic request failed", fmt.Errorf("status %d", status))
}

// splitAnthropicMessages lifts a leading system message into the top-level
// system field, which is where the messages API expects it.
func splitAnthropicMessages(messages []Message) ([]Message, string) {
	if len(messages) == 0 || messages[0].Role != RoleSystem {
		return messages, ""
	}
	return messages[1:], messages[0].Content
}

func flattenAnthropicContent(blocks []anthropicContent) string {
	var builder strings.Builder
	for _, block := range blocks {
		if block.Type == "text" {
			builder.WriteString(block.Text)
		}
	}
	return builder.String()
}

type anthropicChatRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	System    string    `json:"system,omitempty"`
	MaxTokens int       `json:"max_tokens"`
}

type anthropicChatResponse struct {
	ID         string             `json:"id"`
	Model      string             `json:"model"`
	Content    []anthropicContent `json:"content"`
	StopReason string             `json:"stop_reason"`
	Error      *anthropicError    `json:"error,omitempty"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}
