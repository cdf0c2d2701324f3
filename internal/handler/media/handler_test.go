package media

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

type fakeTranscriber struct {
	text string
}

func (f fakeTranscriber) Transcribe(_ context.Context, _ string) string { return f.text }

type passthroughNormalizer struct{}

func (passthroughNormalizer) Normalize(_ context.Context, p string) string { return p }

func newTestServer(t *testing.T, text string) (*httptest.Server, string) {
	t.Helper()
	dataDir := t.TempDir()
	factory := func() (Transcriber, error) { return fakeTranscriber{text: text}, nil }

	r := chi.NewRouter()
	New(factory, passthroughNormalizer{}, dataDir).RegisterRoutes(r)
	return httptest.NewServer(r), dataDir
}

func uploadFile(t *testing.T, url, filename string, contents []byte) (int, map[string]interface{}) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(contents)
	mw.WriteField("user_id", "u-1")
	mw.Close()

	resp, err := http.Post(url+"/upload_audio", mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var got map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, got
}

func TestUploadStoresFileAndTranscribes(t *testing.T) {
	srv, dataDir := newTestServer(t, "hello from audio")
	defer srv.Close()

	status, got := uploadFile(t, srv.URL, "my recording.webm", []byte("fake audio"))
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if got["ok"] != true || got["processing"] != true {
		t.Fatalf("response = %v", got)
	}

	filename, _ := got["filename"].(string)
	if !strings.HasPrefix(filename, "user-audio-") || !strings.HasSuffix(filename, "my_recording.webm") {
		t.Fatalf("filename = %q", filename)
	}

	stored, err := os.ReadFile(filepath.Join(dataDir, filename))
	if err != nil {
		t.Fatalf("stored file: %v", err)
	}
	if string(stored) != "fake audio" {
		t.Fatalf("stored contents = %q", stored)
	}

	// Background transcription lands shortly after the response.
	txtPath := filepath.Join(dataDir, filename+".txt")
	deadline := time.Now().Add(2 * time.Second)
	for {
		if data, err := os.ReadFile(txtPath); err == nil {
			if string(data) != "hello from audio" {
				t.Fatalf("transcription = %q", data)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("transcription file never appeared")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestUploadNamesNeverCollide(t *testing.T) {
	srv, _ := newTestServer(t, "")
	defer srv.Close()

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		_, got := uploadFile(t, srv.URL, "clip.webm", []byte("audio"))
		filename, _ := got["filename"].(string)
		if filename == "" {
			t.Fatalf("missing filename in %v", got)
		}
		if seen[filename] {
			t.Fatalf("duplicate upload filename %q", filename)
		}
		seen[filename] = true
	}
}

func TestUploadRequiresFile(t *testing.T) {
	srv, _ := newTestServer(t, "")
	defer srv.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("user_id", "u-1")
	mw.Close()

	resp, err := http.Post(srv.URL+"/upload_audio", mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestTranscriptionPending(t *testing.T) {
	srv, _ := newTestServer(t, "")
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/transcription/never-uploaded.webm")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var got map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got["ok"] != false || got["processing"] != true {
		t.Fatalf("response = %v", got)
	}
}

func TestTranscriptionReady(t *testing.T) {
	srv, dataDir := newTestServer(t, "")
	defer srv.Close()

	if err := os.WriteFile(filepath.Join(dataDir, "clip.webm.txt"), []byte("done text"), 0o644); err != nil {
		t.Fatal(err)
	}

	resp, err := http.Get(srv.URL + "/transcription/clip.webm")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var got map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got["ok"] != true || got["transcription"] != "done text" || got["source"] != "file" {
		t.Fatalf("response = %v", got)
	}
}
