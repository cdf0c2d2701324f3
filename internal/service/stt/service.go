// Package stt transcribes stored audio files. A remote provider is tried
// first when selected; the local whisper.cpp model is the fallback. The
// public contract never fails: when nothing can transcribe, a fixed
// unavailable sentinel is returned so the turn still completes.
package stt

import (
	"context"
	"log"

	"github.com/vikalpedu/voice-agent/backend/internal/config"
)

// Unavailable is returned when no backend could produce a transcription.
const Unavailable = "(transcription unavailable)"

type transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

type localModel interface {
	transcriber
	// Loaded reports whether the model is usable. Initialization is lazy
	// and a failed load disables the model for the rest of the process.
	Loaded() bool
}

// Service is the speech-to-text adapter.
type Service struct {
	primary transcriber // nil when the local model is the selected variant
	local   localModel
}

// NewService wires the variant selected in settings plus the local fallback.
func NewService(settings config.VoiceSettings) *Service {
	svc := &Service{
		local: newWhisperLocal(settings.WhisperBin, settings.WhisperModelDir),
	}
	if settings.STTProvider == config.STTOpenAI {
		svc.primary = newOpenAIClient(settings.OpenAIAPIKey, settings.STTModel)
	}
	return svc
}

// Transcribe converts the audio file at path to text. Transcription failure
// must never abort the caller's session, so every failure path degrades.
func (s *Service) Transcribe(ctx context.Context, audioPath string) string {
	if s.primary != nil {
		text, err := s.primary.Transcribe(ctx, audioPath)
		if err == nil && text != "" {
			return text
		}
		if err != nil {
			log.Printf("[stt] primary transcription failed: %v", err)
		}
	}

	if s.local != nil && s.local.Loaded() {
		text, err := s.local.Transcribe(ctx, audioPath)
		if err == nil {
			return text
		}
		log.Printf("[stt] local transcription failed: %v", err)
	}

	return Unavailable
}
