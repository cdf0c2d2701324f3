// Package voice serves the conversation WebSocket endpoints for both the
// chained pipeline and the realtime relay.
package voice

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/vikalpedu/voice-agent/backend/internal/config"
	"github.com/vikalpedu/voice-agent/backend/internal/service/audio"
	"github.com/vikalpedu/voice-agent/backend/internal/service/llm"
	"github.com/vikalpedu/voice-agent/backend/internal/service/pipeline"
	"github.com/vikalpedu/voice-agent/backend/internal/service/prompt"
	"github.com/vikalpedu/voice-agent/backend/internal/service/realtime"
	sessionsvc "github.com/vikalpedu/voice-agent/backend/internal/service/session"
	"github.com/vikalpedu/voice-agent/backend/internal/service/stt"
	"github.com/vikalpedu/voice-agent/backend/internal/service/tts"
	"github.com/vikalpedu/voice-agent/backend/pkg/utils"
)

type turnProcessor interface {
	ProcessTurn(ctx context.Context, sessionID string, in pipeline.Inbound, em pipeline.Emitter) error
}

type providerSession interface {
	SendAudio(audioB64 string) error
	CommitAudio() error
	SendText(text string) error
	Next() (realtime.Event, error)
	Close() error
}

// Handler upgrades voice connections and runs them to completion. Provider
// adapters are selected once per connection from a settings snapshot.
type Handler struct {
	store    *sessionsvc.Service
	holder   *config.Holder
	prompts  *prompt.Builder
	dataDir  string
	upgrader websocket.Upgrader

	newProcessor func(ctx context.Context, settings config.VoiceSettings) (turnProcessor, error)
	dial         func(ctx context.Context, settings config.VoiceSettings, instructions string) (providerSession, error)
}

// New creates the voice handler.
func New(store *sessionsvc.Service, holder *config.Holder, prompts *prompt.Builder, dataDir string) *Handler {
	h := &Handler{
		store:   store,
		holder:  holder,
		prompts: prompts,
		dataDir: dataDir,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	h.newProcessor = h.buildProcessor
	h.dial = func(ctx context.Context, settings config.VoiceSettings, instructions string) (providerSession, error) {
		return realtime.Dial(ctx, settings, instructions)
	}
	return h
}

// RegisterRoutes mounts the WebSocket endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.handleChained)
	r.Get("/ws/realtime", h.handleRealtime)
}

func (h *Handler) buildProcessor(ctx context.Context, settings config.VoiceSettings) (turnProcessor, error) {
	llmSvc, err := llm.NewService(ctx, settings)
	if err != nil {
		return nil, err
	}
	return pipeline.NewEngine(
		h.store,
		h.prompts,
		llmSvc,
		stt.NewService(settings),
		tts.NewService(settings),
		audio.NewConverter(h.dataDir),
		h.dataDir,
	), nil
}

type errorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type transcriptionFrame struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// finalFrame always carries audio_url, null when no audio was produced.
type finalFrame struct {
	Type     string  `json:"type"`
	Text     string  `json:"text"`
	AudioURL *string `json:"audio_url"`
}

type chainedEmitter struct {
	out *outbound
}

func (e *chainedEmitter) EmitTranscription(text string) error {
	return e.out.Send(transcriptionFrame{Type: "transcription", Text: text})
}

func (e *chainedEmitter) EmitFinal(text string, audioURL *string) error {
	return e.out.Send(finalFrame{Type: "final", Text: text, AudioURL: audioURL})
}

func (e *chainedEmitter) EmitError(message string) error {
	return e.out.Send(errorFrame{Type: "error", Message: message})
}

func (h *Handler) handleChained(w http.ResponseWriter, r *http.Request) {
	settings, err := h.holder.Snapshot()
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	sessionID := r.URL.Query().Get("session_id")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[voice] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	out := newOutbound(conn)
	defer out.Close()

	log.Printf("[voice] chained open client=%s session=%s", conn.RemoteAddr(), sessionID)

	proc, err := h.newProcessor(r.Context(), settings)
	if err != nil {
		log.Printf("[voice] adapter setup failed: %v", err)
		out.Send(errorFrame{Type: "error", Message: "voice pipeline unavailable"})
		return
	}

	em := &chainedEmitter{out: out}
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var in pipeline.Inbound
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[voice] chained read error session=%s: %v", sessionID, err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))

		if err := proc.ProcessTurn(r.Context(), sessionID, in, em); err != nil {
			log.Printf("[voice] chained emit failed session=%s: %v", sessionID, err)
			return
		}
	}
}

type realtimeInbound struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	Audio string `json:"audio,omitempty"`
}

type audioFrame struct {
	Type  string `json:"type"`
	Audio string `json:"audio"`
}

type relaySink struct {
	out *outbound
}

func (s *relaySink) EmitAudio(audioB64 string) error {
	return s.out.Send(audioFrame{Type: "audio", Audio: audioB64})
}

func (s *relaySink) EmitTranscript(text string) error {
	return s.out.Send(transcriptionFrame{Type: "transcript", Text: text})
}

func (h *Handler) handleRealtime(w http.ResponseWriter, r *http.Request) {
	settings, err := h.holder.Snapshot()
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	sessionID := r.URL.Query().Get("session_id")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[voice] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	out := newOutbound(conn)
	defer out.Close()

	sess, ok := h.store.Get(sessionID)
	if !ok {
		out.Send(errorFrame{Type: "error", Message: "Session required for realtime mode"})
		return
	}

	log.Printf("[voice] realtime open client=%s session=%s", conn.RemoteAddr(), sessionID)

	instructions := h.prompts.BuildSystemPrompt(&sess, "")
	provider, err := h.dial(r.Context(), settings, instructions)
	if err != nil {
		log.Printf("[voice] realtime dial failed session=%s: %v", sessionID, err)
		out.Send(errorFrame{Type: "error", Message: "Failed to connect to realtime provider"})
		return
	}
	defer provider.Close()

	out.Send(map[string]string{"type": "connected", "message": "Realtime session established"})

	// The relay owns the provider-to-client direction. When it stops, the
	// client connection is closed to unblock the read loop below.
	relay := realtime.NewRelay(h.store, sess.ID)
	go func() {
		if err := relay.Run(provider, &relaySink{out: out}); err != nil {
			log.Printf("[voice] realtime relay ended session=%s: %v", sessionID, err)
		}
		conn.Close()
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var in realtimeInbound
		if err := conn.ReadJSON(&in); err != nil {
			log.Printf("[voice] realtime close session=%s: %v", sessionID, err)
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))

		switch in.Type {
		case "audio":
			if in.Audio == "" {
				continue
			}
			if err := provider.SendAudio(in.Audio); err != nil {
				log.Printf("[voice] forward audio failed session=%s: %v", sessionID, err)
				return
			}
		case "audio_commit":
			if err := provider.CommitAudio(); err != nil {
				log.Printf("[voice] commit failed session=%s: %v", sessionID, err)
				return
			}
		case "text":
			if in.Text == "" {
				continue
			}
			h.store.AddTurn(sess.ID, "user", in.Text, "", "")
			if err := provider.SendText(in.Text); err != nil {
				log.Printf("[voice] forward text failed session=%s: %v", sessionID, err)
				return
			}
		}
	}
}
