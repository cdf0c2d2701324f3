// Package configctl exposes service status and runtime provider selection.
package configctl

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vikalpedu/voice-agent/backend/internal/config"
	"github.com/vikalpedu/voice-agent/backend/pkg/utils"
)

// Handler serves the status and configuration endpoints.
type Handler struct {
	holder *config.Holder
}

// New creates a config handler over the settings holder.
func New(holder *config.Holder) *Handler {
	return &Handler{holder: holder}
}

// RegisterRoutes mounts the status and config endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.root)
	r.Get("/health", h.health)
	r.Get("/config", h.getConfig)
	r.Post("/config", h.updateConfig)
}

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	s, err := h.holder.Snapshot()
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "ready",
		"time":         time.Now().UTC().Format(time.RFC3339),
		"architecture": s.Architecture,
		"stt_provider": s.STTProvider,
		"llm_provider": s.LLMProvider,
		"tts_provider": s.TTSProvider,
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"message": "backend alive",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func currentConfig(s config.VoiceSettings) map[string]interface{} {
	return map[string]interface{}{
		"architecture":   s.Architecture,
		"stt_provider":   s.STTProvider,
		"stt_model":      s.STTModel,
		"llm_provider":   s.LLMProvider,
		"llm_model":      s.LLMModel,
		"tts_provider":   s.TTSProvider,
		"tts_model":      s.TTSModel,
		"tts_voice":      s.TTSVoice,
		"realtime_model": s.RealtimeModel,
		"realtime_voice": s.RealtimeVoice,
	}
}

func (h *Handler) getConfig(w http.ResponseWriter, r *http.Request) {
	s, err := h.holder.Snapshot()
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, currentConfig(s))
}

type updateRequest struct {
	Architecture string `json:"architecture"`
	STTProvider  string `json:"stt_provider"`
	LLMProvider  string `json:"llm_provider"`
	TTSProvider  string `json:"tts_provider"`
}

func (h *Handler) updateConfig(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updates := make(map[string]string)
	if req.Architecture != "" {
		updates["architecture"] = req.Architecture
	}
	if req.STTProvider != "" {
		updates["stt_provider"] = req.STTProvider
	}
	if req.LLMProvider != "" {
		updates["llm_provider"] = req.LLMProvider
	}
	if req.TTSProvider != "" {
		updates["tts_provider"] = req.TTSProvider
	}

	if err := h.holder.Update(updates); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s, err := h.holder.Snapshot()
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":     true,
		"config": currentConfig(s),
	})
}
