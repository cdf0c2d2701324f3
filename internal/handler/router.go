package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vikalpedu/voice-agent/backend/internal/config"
	configHandler "github.com/vikalpedu/voice-agent/backend/internal/handler/configctl"
	gradesHandler "github.com/vikalpedu/voice-agent/backend/internal/handler/grades"
	mediaHandler "github.com/vikalpedu/voice-agent/backend/internal/handler/media"
	sessionHandler "github.com/vikalpedu/voice-agent/backend/internal/handler/session"
	voiceHandler "github.com/vikalpedu/voice-agent/backend/internal/handler/voice"
	middlewarePkg "github.com/vikalpedu/voice-agent/backend/internal/middleware"
	"github.com/vikalpedu/voice-agent/backend/internal/service/audio"
	"github.com/vikalpedu/voice-agent/backend/internal/service/curriculum"
	leadService "github.com/vikalpedu/voice-agent/backend/internal/service/lead"
	"github.com/vikalpedu/voice-agent/backend/internal/service/prompt"
	sessionService "github.com/vikalpedu/voice-agent/backend/internal/service/session"
	"github.com/vikalpedu/voice-agent/backend/internal/service/stt"
)

// Deps bundles the services the router wires into handlers.
type Deps struct {
	Store      *sessionService.Service
	Holder     *config.Holder
	Curriculum *curriculum.Service
	Prompts    *prompt.Builder
	Leads      *leadService.Service
	DataDir    string
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	configHandler.New(deps.Holder).RegisterRoutes(r)
	sessionHandler.New(deps.Store, deps.Leads).RegisterRoutes(r)
	gradesHandler.New(deps.Curriculum).RegisterRoutes(r)
	voiceHandler.New(deps.Store, deps.Holder, deps.Prompts, deps.DataDir).RegisterRoutes(r)

	converter := audio.NewConverter(deps.DataDir)
	newTranscriber := func() (mediaHandler.Transcriber, error) {
		settings, err := deps.Holder.Snapshot()
		if err != nil {
			return nil, err
		}
		return stt.NewService(settings), nil
	}
	mediaHandler.New(newTranscriber, converter, deps.DataDir).RegisterRoutes(r)

	// Stored media (AI replies, uploads, transcriptions) is served as-is.
	fileServer := http.StripPrefix("/data/", http.FileServer(http.Dir(deps.DataDir)))
	r.Get("/data/*", func(w http.ResponseWriter, req *http.Request) {
		fileServer.ServeHTTP(w, req)
	})

	return r
}
