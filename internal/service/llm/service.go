// Package llm wraps chat-completion providers behind one Complete call.
// The backend variant is fixed at construction from a settings snapshot, so
// the per-turn path never re-branches on configuration strings.
package llm

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/vikalpedu/voice-agent/backend/internal/config"
)

const (
	diagNoOpenAIKey     = "(no OPENAI_API_KEY set)"
	diagNoOpenRouterKey = "(no OPENROUTER_API_KEY set)"
)

// Service is the chat-completion adapter. When the selected variant has no
// credential it stays degraded: Complete returns a fixed diagnostic string
// so callers can still reply to the client instead of breaking the channel.
type Service struct {
	provider   config.LLMProvider
	chatModel  model.ChatModel
	diagnostic string
}

// NewService builds the adapter for the variant selected in settings. There
// is no cross-variant fallback; selection is purely configuration.
func NewService(ctx context.Context, settings config.VoiceSettings) (*Service, error) {
	svc := &Service{provider: settings.LLMProvider}

	temperature := float32(settings.LLMTemperature)

	switch settings.LLMProvider {
	case config.LLMOpenAI:
		if settings.OpenAIAPIKey == "" {
			svc.diagnostic = diagNoOpenAIKey
			return svc, nil
		}
		chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:      settings.OpenAIAPIKey,
			Model:       settings.LLMModel,
			Temperature: &temperature,
		})
		if err != nil {
			return nil, fmt.Errorf("create openai chat model: %w", err)
		}
		svc.chatModel = chatModel

	case config.LLMOpenRouter:
		if settings.OpenRouterAPIKey == "" {
			svc.diagnostic = diagNoOpenRouterKey
			return svc, nil
		}
		// OpenRouter speaks the OpenAI chat wire format.
		chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL:     strings.TrimSuffix(settings.OpenRouterBase, "/") + "/v1",
			APIKey:      settings.OpenRouterAPIKey,
			Model:       settings.OpenRouterModel,
			Temperature: &temperature,
		})
		if err != nil {
			return nil, fmt.Errorf("create openrouter chat model: %w", err)
		}
		svc.chatModel = chatModel

	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", settings.LLMProvider)
	}

	return svc, nil
}

// Complete runs one chat completion over the ordered message list.
func (s *Service) Complete(ctx context.Context, messages []*schema.Message) (string, error) {
	if s.chatModel == nil {
		log.Printf("[llm] provider %s unconfigured, returning diagnostic", s.provider)
		return s.diagnostic, nil
	}

	response, err := s.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	return response.Content, nil
}

// Configured reports whether a real backend is wired up.
func (s *Service) Configured() bool {
	return s.chatModel != nil
}
