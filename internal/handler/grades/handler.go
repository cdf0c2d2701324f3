// Package grades exposes curriculum discovery and conversation starters.
package grades

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vikalpedu/voice-agent/backend/internal/service/curriculum"
	"github.com/vikalpedu/voice-agent/backend/internal/service/suggest"
	"github.com/vikalpedu/voice-agent/backend/pkg/utils"
)

// Handler serves /grades and /suggestions routes.
type Handler struct {
	curriculum *curriculum.Service
}

// New creates a grades handler.
func New(c *curriculum.Service) *Handler {
	return &Handler{curriculum: c}
}

// RegisterRoutes mounts the curriculum endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/grades", h.listGrades)
	r.Get("/grades/{grade}/context", h.gradeContext)
	r.Get("/suggestions/contextual", h.contextualSuggestions)
	r.Get("/suggestions/{grade}/{intent}", h.suggestions)
}

func (h *Handler) listGrades(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":     true,
		"grades": h.curriculum.AvailableGrades(),
	})
}

func (h *Handler) gradeContext(w http.ResponseWriter, r *http.Request) {
	grade := chi.URLParam(r, "grade")
	text, ok := h.curriculum.Context(grade)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "grade context not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"grade":   grade,
		"context": text,
	})
}

func (h *Handler) suggestions(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":          true,
		"suggestions": suggest.Starters(chi.URLParam(r, "grade"), chi.URLParam(r, "intent")),
	})
}

// contextualSuggestions serves the quick-reply chips shown after an
// assistant reply.
func (h *Handler) contextualSuggestions(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":          true,
		"suggestions": suggest.Contextual(),
	})
}
