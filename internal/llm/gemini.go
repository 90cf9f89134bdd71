package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
)

const DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

type GeminiConfig struct {
	BaseURL    string
	Token      string
	Model      string
	HTTPClient *http.Client
}

type GeminiClient struct {
	endpoint   *url.URL
	token      string
	model      string
	httpClient *http.Client
}

func NewGeminiClient(cfg GeminiConfig) (*GeminiClient, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, CredentialError("configure gemini", errors.New("gemini token is required"))
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, ConfigError("configure gemini", errors.New("gemini model is required"))
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultGeminiBaseURL
	}
	endpoint, err := url.Parse(baseURL)
	if err != nil {
		return nil, ConfigError("configure gemini", fmt.Errorf("invalid base url: %w", err))
	}
	if endpoint.Scheme == "" || endpoint.Host == "" {
		return nil, ConfigError("configure gemini", fmt.Errorf("invalid base url: %q", baseURL))
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	return &GeminiClient{
		endpoint:   endpoint,
		token:      token,
		model:      model,
		httpClient: client,
	}, nil
}

func (c *GeminiClient) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	contents, system := buildGeminiContents(req.Messages)
	payload := geminiGenerateContentRequest{
		Contents:          contents,
		SystemInstruction: system,
	}
	var resp geminiGenerateContentResponse
	if err := c.do(ctx, payload, c.resolveModel(req.Model), &resp); err != nil {
		return ChatResponse{}, err
	}
	if len(resp.Candidates) == 0 {
		// A blocked prompt comes back without candidates; the caller treats
		// that the same as a blank reply.
		var reason string
		if resp.PromptFeedback != nil {
			reason = resp.PromptFeedback.BlockReason
		}
		return ChatResponse{Model: resp.ModelVersion, FinishReason: reason}, nil
	}
	return ChatResponse{
		Content:      flattenGeminiContent(resp.Candidates[0].Content),
		Model:        resp.ModelVersion,
		FinishReason: resp.Candidates[0].FinishReason,
	}, nil
}

func (c *GeminiClient) resolveModel(override string) string {
	if strings.TrimSpace(override) == "" {
		return c.model
	}
	return override
}

func (c *GeminiClient) do(ctx context.Context, payload geminiGenerateContentRequest, model string, out *geminiGenerateContentResponse) error {
	requestBody, err := json.Marshal(payload)
	if err != nil {
		return ResponseError("marshal request", err)
	}
	endpoint := buildGeminiEndpoint(c.endpoint, model, c.token)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(requestBody))
	if err != nil {
		return TransportError("create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return TransportError("gemini request", redactKey(err))
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < http.StatusOK || httpResp.StatusCode >= http.StatusMultipleChoices {
		return readGeminiError(httpResp.Body, httpResp.StatusCode)
	}
	if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil {
		return ResponseError("decode response", err)
	}
	if out.Error != nil {
		return ResponseError("gemini error", errors.New(out.Error.Message))
	}
	return nil
}

func buildGeminiEndpoint(base *url.URL, model string, token string) string {
	u := *base
	apiPath := strings.TrimSuffix(u.Path, "/")
	if !strings.HasSuffix(apiPath, "/v1") && !strings.HasSuffix(apiPath, "/v1beta") {
		apiPath = path.Join(apiPath, "/v1beta")
	}
	u.Path = path.Join(apiPath, "models", model+":generateContent")
	query := u.Query()
	query.Set("key", token)
	u.RawQuery = query.Encode()
	return u.String()
}

// redactKey masks the key query parameter of url errors so the api key never
// reaches the console.
func redactKey(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}
	u, parseErr := url.Parse(urlErr.URL)
	if parseErr != nil {
		urlErr.URL = ""
		return err
	}
	query := u.Query()
	if query.Has("key") {
		query.Set("key", "REDACTED")
		u.RawQuery = query.Encode()
		urlErr.URL = u.String()
	}
	return err
}

func readGeminiError(body io.Reader, status int) error {
	var resp geminiGenerateContentResponse
	_ = json.NewDecoder(body).Decode(&resp)
	if resp.Error != nil && resp.Error.Message != "" {
		return TransportError("gemini request failed", fmt.Errorf("%s (status %d)", resp.Error.Message, status))
	}
	return TransportError("gemini request failed", fmt.Errorf("status %d", status))
}

func buildGeminiContents(messages []Message) ([]geminiContent, *geminiSystemInstruction) {
	if len(messages) == 0 {
		return nil, nil
	}
	var system *geminiSystemInstruction
	start := 0
	if messages[0].Role == RoleSystem {
		system = &geminiSystemInstruction{
			Parts: []geminiPart{{Text: messages[0].Content}},
		}
		start = 1
	}
	contents := make([]geminiContent, 0, len(messages)-start)
	for _, message := range messages[start:] {
		role := message.Role
		if role == RoleAssistant {
			role = "model"
		}
		contents = append(contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: message.Content}},
		})
	}
	return contents, system
}

func flattenGeminiContent(content geminiContent) string {
	var builder strings.Builder
	for _, part := range content.Parts {
		builder.WriteString(part.Text)
	}
	return builder.String()
}

type geminiGenerateContentRequest struct {
	Contents          []geminiContent          `json:"contents"`
	SystemInstruction *geminiSystemInstruction `json:"systemInstruction,omitempty"`
}

type geminiGenerateContentResponse struct {
	Candidates     []geminiCandidate     `json:"candidates"`
	PromptFeedback *geminiPromptFeedback `json:"promptFeedback,omitempty"`
	ModelVersion   string                `json:"modelVersion,omitempty"`
	Error          *geminiError          `json:"error,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type geminiPromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiSystemInstruction struct {
	Parts []geminiPart `json:"parts"`
}

type geminiError struct {
	Message string `json:"message"`
	Status  string `json:"status,omitempty"`
}
