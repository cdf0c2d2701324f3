// Package realtime relays audio between a browser client and a
// speech-to-speech provider session over WebSocket.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vikalpedu/voice-agent/backend/internal/config"
)

const providerURL = "wss://api.openai.com/v1/realtime"

// Event is one decoded provider frame. Only the fields the relay dispatches
// on are decoded; everything else is ignored.
type Event struct {
	Type       string         `json:"type"`
	Delta      string         `json:"delta,omitempty"`
	Transcript string         `json:"transcript,omitempty"`
	Error      *ProviderError `json:"error,omitempty"`
}

// ProviderError carries the provider's error detail.
type ProviderError struct {
	Type    string `json:"type,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Client is one provider-side session. All sends go through a single mutex
// since both the client-read loop and teardown touch the connection.
type Client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// Dial opens the provider session and applies the session configuration:
// instructions, voice, PCM16 both ways, input transcription, and server-side
// voice activity detection.
func Dial(ctx context.Context, settings config.VoiceSettings, instructions string) (*Client, error) {
	if settings.OpenAIAPIKey == "" {
		return nil, errors.New("realtime architecture requires OPENAI_API_KEY")
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+settings.OpenAIAPIKey)
	header.Set("OpenAI-Beta", "realtime=v1")

	url := providerURL + "?model=" + settings.RealtimeModel
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, fmt.Errorf("dial realtime provider: %w", err)
	}

	c := &Client{conn: conn}
	if err := c.send(map[string]any{
		"type": "session.update",
		"session": map[string]any{
			"modalities":          []string{"text", "audio"},
			"instructions":        instructions,
			"voice":               settings.RealtimeVoice,
			"input_audio_format":  "pcm16",
			"output_audio_format": "pcm16",
			"input_audio_transcription": map[string]any{
				"model": "whisper-1",
			},
			"turn_detection": map[string]any{
				"type":                "server_vad",
				"threshold":           0.5,
				"prefix_padding_ms":   300,
				"silence_duration_ms": 500,
			},
		},
	}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("configure realtime session: %w", err)
	}
	return c, nil
}

// SendAudio appends one base64 PCM16 chunk to the provider's input buffer.
func (c *Client) SendAudio(audioB64 string) error {
	return c.send(map[string]any{
		"type":  "input_audio_buffer.append",
		"audio": audioB64,
	})
}

// CommitAudio closes the current input buffer and requests a response.
// Server VAD usually does this on its own; clients may force it.
func (c *Client) CommitAudio() error {
	if err := c.send(map[string]any{"type": "input_audio_buffer.commit"}); err != nil {
		return err
	}
	return c.send(map[string]any{"type": "response.create"})
}

// SendText injects a typed user message and requests a response.
func (c *Client) SendText(text string) error {
	if err := c.send(map[string]any{
		"type": "conversation.item.create",
		"item": map[string]any{
			"type": "message",
			"role": "user",
			"content": []map[string]any{
				{"type": "input_text", "text": text},
			},
		},
	}); err != nil {
		return err
	}
	return c.send(map[string]any{"type": "response.create"})
}

// Next blocks for the next provider event.
func (c *Client) Next() (Event, error) {
	var ev Event
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return Event{}, err
	}
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, fmt.Errorf("decode provider event: %w", err)
	}
	return ev, nil
}

// Close tears down the provider session.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}

func (c *Client) send(payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(payload)
}
