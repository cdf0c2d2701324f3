package realtime

import (
	"log"
	"strings"

	sessionsvc "github.com/vikalpedu/voice-agent/backend/internal/service/session"
)

// Sink delivers provider output to the browser client. Implementations own
// write serialization.
type Sink interface {
	EmitAudio(audioB64 string) error
	EmitTranscript(text string) error
}

// EventSource yields provider events in order. *Client satisfies it.
type EventSource interface {
	Next() (Event, error)
}

// Relay dispatches provider events for one connection: audio chunks are
// forwarded as they arrive, transcript deltas are accumulated and delivered
// once per response, and completed turns are persisted to the session.
type Relay struct {
	store     *sessionsvc.Service
	sessionID string

	transcript strings.Builder
}

// NewRelay creates a relay bound to one session.
func NewRelay(store *sessionsvc.Service, sessionID string) *Relay {
	return &Relay{store: store, sessionID: sessionID}
}

// Run consumes provider events until the source fails, which means the
// provider leg is gone. Provider-reported errors do not stop the relay.
func (r *Relay) Run(source EventSource, sink Sink) error {
	for {
		ev, err := source.Next()
		if err != nil {
			return err
		}
		if err := r.dispatch(ev, sink); err != nil {
			return err
		}
	}
}

func (r *Relay) dispatch(ev Event, sink Sink) error {
	switch ev.Type {
	case "response.audio.delta":
		// Audio is forwarded chunk by chunk; buffering it would defeat
		// the point of the realtime architecture.
		if ev.Delta != "" {
			return sink.EmitAudio(ev.Delta)
		}

	case "response.audio_transcript.delta":
		r.transcript.WriteString(ev.Delta)

	case "response.audio_transcript.done":
		text := ev.Transcript
		if text == "" {
			text = r.transcript.String()
		}
		r.transcript.Reset()
		if text == "" {
			return nil
		}
		r.store.AddTurn(r.sessionID, "assistant", text, "", "")
		return sink.EmitTranscript(text)

	case "conversation.item.input_audio_transcription.completed":
		if ev.Transcript != "" {
			r.store.AddTurn(r.sessionID, "user", ev.Transcript, "", "")
		}

	case "response.done":
		r.transcript.Reset()

	case "error":
		// Provider errors are turn-scoped; the stream itself stays up.
		msg := "provider error"
		if ev.Error != nil && ev.Error.Message != "" {
			msg = ev.Error.Message
		}
		log.Printf("[realtime] provider error session=%s: %s", r.sessionID, msg)

	case "input_audio_buffer.speech_started", "input_audio_buffer.speech_stopped":
		// VAD notifications carry no payload the client needs.
	}
	return nil
}
