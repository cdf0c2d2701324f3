// Package session exposes session lifecycle and transcript endpoints.
package session

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	model "github.com/vikalpedu/voice-agent/backend/internal/model/session"
	sessionsvc "github.com/vikalpedu/voice-agent/backend/internal/service/session"
	"github.com/vikalpedu/voice-agent/backend/pkg/utils"
)

// LeadCapturer receives the lead snapshot of a freshly created session.
type LeadCapturer interface {
	Capture(sess *model.Session)
}

// Handler serves /sessions routes.
type Handler struct {
	store *sessionsvc.Service
	leads LeadCapturer
}

// New creates a session handler. leads may be nil when lead capture is
// disabled.
func New(store *sessionsvc.Service, leads LeadCapturer) *Handler {
	return &Handler{store: store, leads: leads}
}

// RegisterRoutes mounts the session endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/sessions", h.create)
	r.Get("/sessions", h.list)
	r.Get("/sessions/{sessionID}", h.get)
	r.Delete("/sessions/{sessionID}", h.delete)
	r.Get("/sessions/{sessionID}/transcript", h.transcript)
}

type createRequest struct {
	Grade  string `json:"grade"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile"`
	Intent string `json:"intent"` // Admission, Fees, Demo, Syllabus, Other
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Grade == "" || req.Name == "" {
		utils.RespondError(w, http.StatusBadRequest, "grade and name are required")
		return
	}

	sess := h.store.Create(req.Grade, req.Name, req.Email, req.Mobile, req.Intent)

	if h.leads != nil {
		// Lead capture must not delay session creation.
		go h.leads.Capture(&sess)
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"ok":         true,
		"session_id": sess.ID,
		"grade":      sess.Grade,
		"name":       sess.Name,
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":       true,
		"sessions": h.store.List(),
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.store.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"session": sess,
	})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if !h.store.Delete(chi.URLParam(r, "sessionID")) {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) transcript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	text, ok := h.store.Transcript(sessionID)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=transcript-%s.txt", sessionID))
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, text)
}
