package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const speechEndpoint = "https://api.openai.com/v1/audio/speech"

// openaiClient calls the speech synthesis HTTP API and stores MP3 output.
type openaiClient struct {
	apiKey     string
	model      string
	voice      string
	endpoint   string
	httpClient *http.Client
}

func newOpenAIClient(apiKey, model, voice string) *openaiClient {
	return &openaiClient{
		apiKey:     apiKey,
		model:      model,
		voice:      voice,
		endpoint:   speechEndpoint,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *openaiClient) Ext() string { return "mp3" }

func (c *openaiClient) Synthesize(ctx context.Context, text, path string) error {
	if c.apiKey == "" {
		return errors.New("OPENAI_API_KEY not set")
	}

	payload, err := json.Marshal(map[string]string{
		"model":           c.model,
		"input":           text,
		"voice":           c.voice,
		"response_format": "mp3",
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("speech request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("speech API returned %d: %s", resp.StatusCode, snippet)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create audio file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("write audio file: %w", err)
	}
	return nil
}
