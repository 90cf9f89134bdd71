package llm

import "testing"

func TestNewClientSelectsProvider(t *testing.T) {
	tests := []struct {
		provider string
		want     string
	}{
		{provider: "", want: "*llm.GeminiClient"},
		{provider: "Gemini", want: "*llm.GeminiClient"},
		{provider: "openai", want: "*llm.OpenAIClient"},
		{provider: "anthropics", want: "*llm.AnthropicClient"},
	}
	for _, tt := range tests {
		client, err := NewClient(Options{Provider: tt.provider, Token: "t", Model: "m"})
		if err != nil {
			t.Fatalf("provider %q: %v", tt.provider, err)
		}
		var got string
		switch client.(type) {
		case *GeminiClient:
			got = "*llm.GeminiClient"
		case *OpenAIClient:
			got = "*llm.OpenAIClient"
		case *AnthropicClient:
			got = "*llm.AnthropicClient"
		}
		if got != tt.want {
			t.Fatalf("provider %q: got %s want %s", tt.provider, got, tt.want)
		}
	}
}

func TestNewClientUnknownProvider(t *testing.T) {
	_, err := NewClient(Options{Provider: "llama", Token: "t", Model: "m"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if KindOf(err) != KindConfig || !IsFatal(err) {
		t.Fatalf("unexpected classification: %v", err)
	}
}

func TestCredentialEnv(t *testing.T) {
	if CredentialEnv("") != "GOOGLE_API_KEY" {
		t.Fatalf("unexpected gemini env: %s", CredentialEnv(""))
	}
	if CredentialEnv("openai") != "OPENAI_API_KEY" {
		t.Fatalf("unexpected openai env: %s", CredentialEnv("openai"))
	}
	if CredentialEnv("anthropics") != "ANTHROPIC_API_KEY" {
		t.Fatalf("unexpected anthropic env: %s", CredentialEnv("anthropics"))
	}
}

func TestKindOfUnclassified(t *testing.T) {
	if IsFatal(nil) {
		t.Fatalf("nil error is not fatal")
	}
	if KindOf(errString("boom")) != KindTransport {
		t.Fatalf("unclassified errors count as transport failures")
	}
}

type errString string

func (e errString) Error() string { return string(e) }
