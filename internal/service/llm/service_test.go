package llm

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"

	"github.com/vikalpedu/voice-agent/backend/internal/config"
)

func TestCompleteWithoutOpenAIKeyReturnsDiagnostic(t *testing.T) {
	svc, err := NewService(context.Background(), config.VoiceSettings{
		LLMProvider: config.LLMOpenAI,
	})
	if err != nil {
		t.Fatalf("NewService err: %v", err)
	}
	if svc.Configured() {
		t.Fatal("expected unconfigured service")
	}

	text, err := svc.Complete(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	if err != nil {
		t.Fatalf("Complete must not error when unconfigured: %v", err)
	}
	if text != "(no OPENAI_API_KEY set)" {
		t.Fatalf("unexpected diagnostic: %q", text)
	}
}

func TestCompleteWithoutOpenRouterKeyReturnsDiagnostic(t *testing.T) {
	svc, err := NewService(context.Background(), config.VoiceSettings{
		LLMProvider: config.LLMOpenRouter,
	})
	if err != nil {
		t.Fatalf("NewService err: %v", err)
	}

	text, err := svc.Complete(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	if err != nil {
		t.Fatalf("Complete must not error when unconfigured: %v", err)
	}
	if text != "(no OPENROUTER_API_KEY set)" {
		t.Fatalf("unexpected diagnostic: %q", text)
	}
}

func TestNewServiceRejectsUnknownProvider(t *testing.T) {
	if _, err := NewService(context.Background(), config.VoiceSettings{LLMProvider: "acme"}); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
