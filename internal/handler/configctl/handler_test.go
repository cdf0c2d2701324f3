package configctl

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/vikalpedu/voice-agent/backend/internal/config"
)

func newTestServer() *httptest.Server {
	r := chi.NewRouter()
	New(config.NewHolder()).RegisterRoutes(r)
	return httptest.NewServer(r)
}

func TestHealth(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var got map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got["ok"] != true {
		t.Fatalf("response = %v", got)
	}
}

func TestRootReportsProviders(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var got map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got["status"] != "ready" {
		t.Fatalf("status = %v", got["status"])
	}
	for _, key := range []string{"architecture", "stt_provider", "llm_provider", "tts_provider"} {
		if got[key] == nil || got[key] == "" {
			t.Fatalf("missing %q in %v", key, got)
		}
	}
}

func TestUpdateConfigRoundTrip(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/config", "application/json",
		strings.NewReader(`{"tts_provider":"openai","architecture":"realtime"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var got struct {
		OK     bool                   `json:"ok"`
		Config map[string]interface{} `json:"config"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if !got.OK || got.Config["tts_provider"] != "openai" || got.Config["architecture"] != "realtime" {
		t.Fatalf("response = %+v", got)
	}

	check, err := http.Get(srv.URL + "/config")
	if err != nil {
		t.Fatal(err)
	}
	defer check.Body.Close()
	var current map[string]interface{}
	if err := json.NewDecoder(check.Body).Decode(&current); err != nil {
		t.Fatal(err)
	}
	if current["tts_provider"] != "openai" {
		t.Fatalf("update did not stick: %v", current)
	}
}

func TestUpdateConfigRejectsUnknownValue(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/config", "application/json",
		strings.NewReader(`{"stt_provider":"bogus"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
