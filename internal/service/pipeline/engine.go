// Package pipeline drives one chained-architecture conversation turn:
// receive, transcribe when audio, compose, complete, synthesize, reply.
// Every turn-level failure is contained here and surfaces to the client as
// a single error event; the connection itself is never torn down by a turn.
package pipeline

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	model "github.com/vikalpedu/voice-agent/backend/internal/model/session"
	"github.com/vikalpedu/voice-agent/backend/internal/service/prompt"
	sessionsvc "github.com/vikalpedu/voice-agent/backend/internal/service/session"
)

// Inbound is one decoded client frame for the chained architecture.
type Inbound struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	Audio string `json:"audio,omitempty"` // base64
}

// Emitter delivers outbound events to the client. Implementations must be
// safe to call from the turn goroutine; write serialization is theirs.
type Emitter interface {
	EmitTranscription(text string) error
	EmitFinal(text string, audioURL *string) error
	EmitError(message string) error
}

// Completer runs a chat completion over an ordered message list.
type Completer interface {
	Complete(ctx context.Context, messages []*schema.Message) (string, error)
}

// Transcriber converts a stored audio file to text, degrading internally.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) string
}

// Synthesizer stores audio for text and returns the resulting filename.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, dir, baseName string) (string, error)
}

// Normalizer resamples stored audio for transcription.
type Normalizer interface {
	Normalize(ctx context.Context, inputPath string) string
}

// Engine executes turns against one fixed set of adapters. Adapters are
// selected once from a settings snapshot at connection accept, so the hot
// path never consults configuration.
type Engine struct {
	store     *sessionsvc.Service
	prompts   *prompt.Builder
	completer Completer
	stt       Transcriber
	tts       Synthesizer
	converter Normalizer
	dataDir   string
}

// NewEngine assembles a turn engine.
func NewEngine(store *sessionsvc.Service, prompts *prompt.Builder, completer Completer, stt Transcriber, tts Synthesizer, converter Normalizer, dataDir string) *Engine {
	return &Engine{
		store:     store,
		prompts:   prompts,
		completer: completer,
		stt:       stt,
		tts:       tts,
		converter: converter,
		dataDir:   dataDir,
	}
}

// ProcessTurn handles one inbound frame. sessionID may be empty: sessionless
// connections still process turns but accumulate no memory. A nil error is
// returned for every turn-level failure; only emitter (channel) faults
// propagate, because those mean the connection is gone.
func (e *Engine) ProcessTurn(ctx context.Context, sessionID string, in Inbound, em Emitter) error {
	var text string

	switch in.Type {
	case "text":
		if in.Text == "" {
			return nil
		}
		text = in.Text

	case "audio":
		if in.Audio == "" {
			return nil
		}
		transcribed, err := e.transcribeInbound(ctx, in.Audio)
		if err != nil {
			log.Printf("[pipeline] audio intake failed session=%s: %v", sessionID, err)
			return em.EmitError("audio processing error: " + err.Error())
		}
		text = transcribed
		if err := em.EmitTranscription(text); err != nil {
			return err
		}

	default:
		// Unrecognized frame types are ignored; the loop continues.
		return nil
	}

	if sessionID != "" {
		e.store.AddTurn(sessionID, "user", text, "", "")
	}

	reply, err := e.complete(ctx, sessionID, text)
	if err != nil {
		log.Printf("[pipeline] completion failed session=%s: %v", sessionID, err)
		return em.EmitError("AI processing error: " + err.Error())
	}

	audioFile, audioURL := e.synthesizeReply(ctx, reply)

	if sessionID != "" {
		e.store.AddTurn(sessionID, "assistant", reply, audioFile, "")
	}

	return em.EmitFinal(reply, audioURL)
}

// transcribeInbound persists the raw payload, normalizes it, and runs STT.
func (e *Engine) transcribeInbound(ctx context.Context, audioB64 string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(audioB64)
	if err != nil {
		return "", fmt.Errorf("decode audio payload: %w", err)
	}

	// Millisecond timestamps alone collide across concurrent connections.
	rawPath := filepath.Join(e.dataDir, fmt.Sprintf("user-audio-%d-%s.wav", time.Now().UnixMilli(), uuid.NewString()))
	if err := os.WriteFile(rawPath, raw, 0o644); err != nil {
		return "", fmt.Errorf("store audio payload: %w", err)
	}

	converted := e.converter.Normalize(ctx, rawPath)
	return e.stt.Transcribe(ctx, converted), nil
}

func (e *Engine) complete(ctx context.Context, sessionID, text string) (string, error) {
	var messages []*schema.Message
	if sess, ok := e.boundSession(sessionID); ok {
		messages = e.prompts.BuildMessages(&sess, text)
	} else {
		messages = []*schema.Message{schema.UserMessage(text)}
	}
	return e.completer.Complete(ctx, messages)
}

func (e *Engine) boundSession(sessionID string) (model.Session, bool) {
	if sessionID == "" {
		return model.Session{}, false
	}
	// Re-fetch on every turn: the store is the source of truth and other
	// connections may have appended in the meantime.
	return e.store.Get(sessionID)
}

// synthesizeReply returns the stored filename and its public URL, or empty
// and nil: missing audio is not a turn-ending fault.
func (e *Engine) synthesizeReply(ctx context.Context, reply string) (string, *string) {
	speech := SanitizeForSpeech(reply)
	if speech == "" {
		return "", nil
	}

	baseName := fmt.Sprintf("ai-audio-%d-%s", time.Now().UnixMilli(), uuid.NewString())
	filename, err := e.tts.Synthesize(ctx, speech, e.dataDir, baseName)
	if err != nil {
		log.Printf("[pipeline] synthesis failed, replying without audio: %v", err)
		return "", nil
	}

	url := "/data/" + filename
	return filename, &url
}
