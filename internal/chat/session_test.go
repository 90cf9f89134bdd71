package chat

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"gemini-chat/internal/llm"
	"gemini-chat/internal/observability"

	"github.com/google/uuid"
)

func TestSendRecordsCompletedExchanges(t *testing.T) {
	client := &fakeClient{replies: []fakeReply{{content: "first reply"}, {content: "second reply"}}}
	session, err := NewSession(client, "gemini-test", nil)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	if res := session.Send(context.Background(), "one"); res.Outcome != OutcomeReply || res.Text != "first reply" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res := session.Send(context.Background(), "two"); res.Outcome != OutcomeReply {
		t.Fatalf("unexpected result: %+v", res)
	}

	second := client.requests[1]
	if second.Model != "gemini-test" {
		t.Fatalf("unexpected model: %s", second.Model)
	}
	want := []llm.Message{
		{Role: llm.RoleUser, Content: "one"},
		{Role: llm.RoleAssistant, Content: "first reply"},
		{Role: llm.RoleUser, Content: "two"},
	}
	if len(second.Messages) != len(want) {
		t.Fatalf("unexpected history: %+v", second.Messages)
	}
	for i := range want {
		if second.Messages[i] != want[i] {
			t.Fatalf("message %d: got %+v want %+v", i, second.Messages[i], want[i])
		}
	}
	if len(session.History()) != 4 {
		t.Fatalf("unexpected history length: %d", len(session.History()))
	}
}

func TestSendOutcomes(t *testing.T) {
	boom := llm.TransportError("gemini request", errors.New("boom"))
	tests := []struct {
		name  string
		reply fakeReply
		want  Outcome
	}{
		{name: "reply", reply: fakeReply{content: "4"}, want: OutcomeReply},
		{name: "empty", reply: fakeReply{content: ""}, want: OutcomeEmpty},
		{name: "whitespace", reply: fakeReply{content: " \n "}, want: OutcomeEmpty},
		{name: "failed", reply: fakeReply{err: boom}, want: OutcomeFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{replies: []fakeReply{tt.reply}}
			session, err := NewSession(client, "m", nil)
			if err != nil {
				t.Fatalf("new session: %v", err)
			}
			res := session.Send(context.Background(), "q")
			if res.Outcome != tt.want {
				t.Fatalf("got %s want %s", res.Outcome, tt.want)
			}
			if tt.want == OutcomeFailed && !errors.Is(res.Err, boom) {
				t.Fatalf("error not propagated: %v", res.Err)
			}
			if tt.want != OutcomeReply && len(session.History()) != 0 {
				t.Fatalf("unsuccessful exchange recorded: %+v", session.History())
			}
		})
	}
}

func TestNewSession(t *testing.T) {
	session, err := NewSession(&fakeClient{}, " gemini-test ", nil)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if session.Model() != "gemini-test" {
		t.Fatalf("model not trimmed: %q", session.Model())
	}
	if _, err := uuid.Parse(session.ID()); err != nil {
		t.Fatalf("session id is not a uuid: %v", err)
	}

	if _, err := NewSession(nil, "m", nil); llm.KindOf(err) != llm.KindConfig {
		t.Fatalf("expected config error for nil client, got %v", err)
	}
	if _, err := NewSession(&fakeClient{}, "  ", nil); llm.KindOf(err) != llm.KindConfig {
		t.Fatalf("expected config error for blank model, got %v", err)
	}
}

func TestSendLogsResponseModel(t *testing.T) {
	var logs bytes.Buffer
	logger, err := observability.NewLogger(&logs, "debug")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	client := &fakeClient{replies: []fakeReply{{content: "4"}, {content: ""}}}
	session, err := NewSession(client, "gemini-test", logger)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	session.Send(context.Background(), "What is 2+2?")
	session.Send(context.Background(), "again")

	out := logs.String()
	if strings.Count(out, "response_model=gemini-test-001") != 2 {
		t.Fatalf("response model not logged for reply and empty outcomes: %s", out)
	}
	if !strings.Contains(out, "finish_reason=STOP") {
		t.Fatalf("finish reason not logged: %s", out)
	}
}
