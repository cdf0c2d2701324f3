// Package tts turns reply text into stored audio files. Remote synthesis is
// preferred when selected; offline synthesis is the mandatory fallback so a
// completed turn ships a playable file whenever one can be produced at all.
package tts

import (
	"context"
	"log"
	"path/filepath"

	"github.com/vikalpedu/voice-agent/backend/internal/config"
)

type synthesizer interface {
	// Synthesize writes audio for text to the given path.
	Synthesize(ctx context.Context, text, path string) error
	// Ext is the container extension this backend produces, without dot.
	Ext() string
}

// Service is the text-to-speech adapter.
type Service struct {
	primary synthesizer // nil when offline synthesis is the selected variant
	offline synthesizer
}

// NewService wires the variant selected in settings plus the offline fallback.
func NewService(settings config.VoiceSettings) *Service {
	svc := &Service{offline: newEspeakSynth()}
	if settings.TTSProvider == config.TTSOpenAI {
		svc.primary = newOpenAIClient(settings.OpenAIAPIKey, settings.TTSModel, settings.TTSVoice)
	}
	return svc
}

// Synthesize produces an audio file for text under dir, named baseName plus
// the backend's extension, and returns the resulting filename. Any primary
// failure falls through to the offline backend; an error means both failed.
func (s *Service) Synthesize(ctx context.Context, text, dir, baseName string) (string, error) {
	if s.primary != nil {
		filename := baseName + "." + s.primary.Ext()
		if err := s.primary.Synthesize(ctx, text, filepath.Join(dir, filename)); err == nil {
			return filename, nil
		} else {
			log.Printf("[tts] primary synthesis failed, trying offline: %v", err)
		}
	}

	filename := baseName + "." + s.offline.Ext()
	if err := s.offline.Synthesize(ctx, text, filepath.Join(dir, filename)); err != nil {
		return "", err
	}
	return filename, nil
}
