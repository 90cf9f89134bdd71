// Package chat runs one interactive conversation against a provider client.
package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gemini-chat/internal/llm"
	"gemini-chat/internal/observability"

	"github.com/google/uuid"
)

// Outcome tags the result of a single Send.
type Outcome int

const (
	OutcomeReply Outcome = iota + 1
	OutcomeEmpty
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeReply:
		return "reply"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is what Send hands back to the loop. Text is set for OutcomeReply,
// Err for OutcomeFailed.
type Result struct {
	Outcome Outcome
	Text    string
	Err     error
}

// Session holds the conversation history for one process run. It is not
// safe for concurrent use; the loop owns it exclusively.
type Session struct {
	id      string
	client  llm.Client
	model   string
	history []llm.Message
	logger  *slog.Logger
}

func NewSession(client llm.Client, model string, logger *slog.Logger) (*Session, error) {
	if client == nil {
		return nil, llm.ConfigError("create session", errors.New("llm client is required"))
	}
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, llm.ConfigError("create session", errors.New("model is required"))
	}
	if logger == nil {
		logger = observability.Discard()
	}
	id := uuid.Must(uuid.NewV7()).String()
	return &Session{
		id:     id,
		client: client,
		model:  model,
		logger: logger.With("session_id", id, "model", model),
	}, nil
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Model() string {
	return s.model
}

// History returns a copy of the completed exchanges.
func (s *Session) History() []llm.Message {
	out := make([]llm.Message, len(s.history))
	copy(out, s.history)
	return out
}

// Send forwards text together with the prior history. Only exchanges that
// produced content are recorded, so a failed or empty turn can be retried
// without leaving a dangling user message behind.
func (s *Session) Send(ctx context.Context, text string) Result {
	userMessage := llm.Message{Role: llm.RoleUser, Content: text}
	messages := make([]llm.Message, 0, len(s.history)+1)
	messages = append(messages, s.history...)
	messages = append(messages, userMessage)

	start := time.Now()
	resp, err := s.client.Chat(ctx, llm.ChatRequest{
		Model:    s.model,
		Messages: messages,
	})
	elapsed := time.Since(start)
	if err != nil {
		s.logger.Debug("send failed", "kind", llm.KindOf(err).String(), "elapsed", elapsed, "error", err)
		return Result{Outcome: OutcomeFailed, Err: err}
	}
	if strings.TrimSpace(resp.Content) == "" {
		s.logger.Debug("empty reply",
			"response_model", resp.Model,
			"finish_reason", resp.FinishReason,
			"elapsed", elapsed,
		)
		return Result{Outcome: OutcomeEmpty}
	}

	s.history = append(s.history, userMessage, llm.Message{Role: llm.RoleAssistant, Content: resp.Content})
	s.logger.Debug("reply received",
		"response_model", resp.Model,
		"finish_reason", resp.FinishReason,
		"elapsed", elapsed,
		"history", len(s.history),
	)
	return Result{Outcome: OutcomeReply, Text: resp.Content}
}
