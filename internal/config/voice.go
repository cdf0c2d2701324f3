package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// Architecture selects how voice turns flow through providers.
type Architecture string

const (
	// ArchitectureChained runs audio through STT, then the LLM, then TTS.
	ArchitectureChained Architecture = "chained"
	// ArchitectureRealtime relays audio to a speech-to-speech provider.
	ArchitectureRealtime Architecture = "realtime"
)

// STTProvider names a speech-to-text backend variant.
type STTProvider string

const (
	STTOpenAI       STTProvider = "openai"
	STTLocalWhisper STTProvider = "local_whisper"
)

// LLMProvider names a chat-completion backend variant.
type LLMProvider string

const (
	LLMOpenAI     LLMProvider = "openai"
	LLMOpenRouter LLMProvider = "openrouter"
)

// TTSProvider names a speech-synthesis backend variant.
type TTSProvider string

const (
	TTSOpenAI  TTSProvider = "openai"
	TTSOffline TTSProvider = "offline"
)

// VoiceSettings is an immutable snapshot of provider selection and
// credentials. A snapshot is handed to each connection at accept time and
// stays valid for that connection's whole life; runtime updates only affect
// snapshots taken afterwards.
type VoiceSettings struct {
	Architecture Architecture

	OpenAIAPIKey string

	STTProvider STTProvider
	STTModel    string

	LLMProvider    LLMProvider
	LLMModel       string
	LLMTemperature float64

	TTSProvider TTSProvider
	TTSModel    string
	TTSVoice    string

	RealtimeModel string
	RealtimeVoice string

	OpenRouterAPIKey string
	OpenRouterModel  string
	OpenRouterBase   string

	WhisperBin      string
	WhisperModelDir string
}

func loadVoiceSettings() (VoiceSettings, error) {
	temperature := 0.7
	if t, err := parseOptionalFloatEnv("LLM_TEMPERATURE"); err != nil {
		return VoiceSettings{}, err
	} else if t != nil {
		temperature = *t
	}

	s := VoiceSettings{
		Architecture:     Architecture(strings.ToLower(getEnvOrDefault("VOICE_ARCHITECTURE", string(ArchitectureChained)))),
		OpenAIAPIKey:     strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		STTProvider:      STTProvider(strings.ToLower(getEnvOrDefault("STT_PROVIDER", string(STTLocalWhisper)))),
		STTModel:         getEnvOrDefault("STT_MODEL", "whisper-1"),
		LLMProvider:      LLMProvider(strings.ToLower(getEnvOrDefault("LLM_PROVIDER", string(LLMOpenRouter)))),
		LLMModel:         getEnvOrDefault("LLM_MODEL", "gpt-4o"),
		LLMTemperature:   temperature,
		TTSProvider:      TTSProvider(strings.ToLower(getEnvOrDefault("TTS_PROVIDER", string(TTSOffline)))),
		TTSModel:         getEnvOrDefault("TTS_MODEL", "tts-1"),
		TTSVoice:         getEnvOrDefault("TTS_VOICE", "alloy"),
		RealtimeModel:    getEnvOrDefault("REALTIME_MODEL", "gpt-4o-realtime-preview"),
		RealtimeVoice:    getEnvOrDefault("REALTIME_VOICE", "alloy"),
		OpenRouterAPIKey: strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY")),
		OpenRouterModel:  getEnvOrDefault("OPENROUTER_MODEL", "meta-llama/llama-3.2-3b-instruct:free"),
		OpenRouterBase:   getEnvOrDefault("OPENROUTER_BASE", "https://openrouter.ai/api"),
		WhisperBin:       getEnvOrDefault("WHISPER_BIN", "whisper.cpp/main"),
		WhisperModelDir:  getEnvOrDefault("WHISPER_MODEL_DIR", "whisper.cpp/models"),
	}

	if err := validateVoiceSettings(s); err != nil {
		return VoiceSettings{}, err
	}
	return s, nil
}

func validateVoiceSettings(s VoiceSettings) error {
	switch s.Architecture {
	case ArchitectureChained, ArchitectureRealtime:
	default:
		return fmt.Errorf("invalid VOICE_ARCHITECTURE value: %q", s.Architecture)
	}
	switch s.STTProvider {
	case STTOpenAI, STTLocalWhisper:
	default:
		return fmt.Errorf("invalid STT_PROVIDER value: %q", s.STTProvider)
	}
	switch s.LLMProvider {
	case LLMOpenAI, LLMOpenRouter:
	default:
		return fmt.Errorf("invalid LLM_PROVIDER value: %q", s.LLMProvider)
	}
	switch s.TTSProvider {
	case TTSOpenAI, TTSOffline:
	default:
		return fmt.Errorf("invalid TTS_PROVIDER value: %q", s.TTSProvider)
	}
	return nil
}

// Holder serves voice settings snapshots. Environment is re-read on every
// Snapshot so an exported variable change reaches new connections without a
// restart; runtime overrides applied through Update win over the
// environment. Existing connections keep the snapshot they were given.
type Holder struct {
	mu        sync.RWMutex
	overrides map[string]string
}

// NewHolder creates an empty settings holder.
func NewHolder() *Holder {
	return &Holder{overrides: make(map[string]string)}
}

// Snapshot returns the current voice settings.
func (h *Holder) Snapshot() (VoiceSettings, error) {
	s, err := loadVoiceSettings()
	if err != nil {
		return VoiceSettings{}, err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if v, ok := h.overrides["architecture"]; ok {
		s.Architecture = Architecture(v)
	}
	if v, ok := h.overrides["stt_provider"]; ok {
		s.STTProvider = STTProvider(v)
	}
	if v, ok := h.overrides["llm_provider"]; ok {
		s.LLMProvider = LLMProvider(v)
	}
	if v, ok := h.overrides["tts_provider"]; ok {
		s.TTSProvider = TTSProvider(v)
	}

	if err := validateVoiceSettings(s); err != nil {
		return VoiceSettings{}, err
	}
	return s, nil
}

// Update records runtime overrides for provider selection. Only the four
// selection keys are accepted; credentials and model names stay env-driven.
func (h *Holder) Update(updates map[string]string) error {
	trial := VoiceSettings{
		Architecture: ArchitectureChained,
		STTProvider:  STTOpenAI,
		LLMProvider:  LLMOpenAI,
		TTSProvider:  TTSOpenAI,
	}
	for key, value := range updates {
		value = strings.ToLower(strings.TrimSpace(value))
		switch key {
		case "architecture":
			trial.Architecture = Architecture(value)
		case "stt_provider":
			trial.STTProvider = STTProvider(value)
		case "llm_provider":
			trial.LLMProvider = LLMProvider(value)
		case "tts_provider":
			trial.TTSProvider = TTSProvider(value)
		default:
			return fmt.Errorf("unknown config key: %q", key)
		}
	}
	if err := validateVoiceSettings(trial); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for key, value := range updates {
		h.overrides[key] = strings.ToLower(strings.TrimSpace(value))
	}
	return nil
}
