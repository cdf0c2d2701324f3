// Package media handles audio upload, background transcription, and serving
// of stored media files.
package media

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vikalpedu/voice-agent/backend/pkg/utils"
)

// Transcriber converts a stored audio file to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) string
}

// Normalizer resamples stored audio for transcription.
type Normalizer interface {
	Normalize(ctx context.Context, inputPath string) string
}

// TranscriberFactory builds a transcriber for the current settings. Uploads
// are rare enough that building per request keeps runtime provider switches
// effective without restarting.
type TranscriberFactory func() (Transcriber, error)

const maxUploadBytes = 50 << 20

// Handler serves /upload_audio and /transcription routes.
type Handler struct {
	newTranscriber TranscriberFactory
	converter      Normalizer
	dataDir        string
}

// New creates a media handler storing files under dataDir.
func New(newTranscriber TranscriberFactory, converter Normalizer, dataDir string) *Handler {
	return &Handler{newTranscriber: newTranscriber, converter: converter, dataDir: dataDir}
}

// RegisterRoutes mounts the media endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/upload_audio", h.upload)
	r.Get("/transcription/{filename}", h.transcription)
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	// filepath.Base strips any client-supplied directory components; the
	// uuid keeps concurrent uploads in the same millisecond apart.
	safeName := fmt.Sprintf("user-audio-%d-%s-%s",
		time.Now().UnixMilli(),
		uuid.NewString(),
		strings.ReplaceAll(filepath.Base(header.Filename), " ", "_"))

	dst, err := os.Create(filepath.Join(h.dataDir, safeName))
	if err != nil {
		log.Printf("[media] create upload file: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		log.Printf("[media] write upload file: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	dst.Close()

	userID := r.FormValue("user_id")
	log.Printf("[media] audio received file=%s user=%s", safeName, userID)

	go h.transcribeAndSave(safeName)

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":         true,
		"filename":   safeName,
		"processing": true,
	})
}

// transcribeAndSave runs after the upload response: normalize, transcribe,
// and drop the text next to the audio so /transcription can find it.
func (h *Handler) transcribeAndSave(safeName string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	stt, err := h.newTranscriber()
	if err != nil {
		log.Printf("[media] transcriber unavailable for %s: %v", safeName, err)
		return
	}

	converted := h.converter.Normalize(ctx, filepath.Join(h.dataDir, safeName))
	text := stt.Transcribe(ctx, converted)

	txtPath := filepath.Join(h.dataDir, safeName+".txt")
	if err := os.WriteFile(txtPath, []byte(text), 0o644); err != nil {
		log.Printf("[media] save transcription for %s: %v", safeName, err)
		return
	}
	log.Printf("[media] transcription saved file=%s", txtPath)
}

func (h *Handler) transcription(w http.ResponseWriter, r *http.Request) {
	filename := filepath.Base(chi.URLParam(r, "filename"))

	data, err := os.ReadFile(filepath.Join(h.dataDir, filename+".txt"))
	if err != nil {
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"ok":         false,
			"processing": true,
		})
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":            true,
		"transcription": string(data),
		"source":        "file",
	})
}
