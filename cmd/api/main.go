package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/vikalpedu/voice-agent/backend/internal/config"
	"github.com/vikalpedu/voice-agent/backend/internal/handler"
	"github.com/vikalpedu/voice-agent/backend/internal/service/curriculum"
	leadService "github.com/vikalpedu/voice-agent/backend/internal/service/lead"
	"github.com/vikalpedu/voice-agent/backend/internal/service/prompt"
	sessionService "github.com/vikalpedu/voice-agent/backend/internal/service/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if err := os.MkdirAll(cfg.Data.Dir, 0o755); err != nil {
		log.Fatalf("failed to create data directory %s: %v", cfg.Data.Dir, err)
	}

	holder := config.NewHolder()
	if _, err := holder.Snapshot(); err != nil {
		log.Fatalf("invalid voice configuration: %v", err)
	}

	store := sessionService.NewService()
	store.StartReaper(ctx, cfg.Session.IdleTTL)

	curriculumSvc := curriculum.NewService(cfg.Curriculum.GradeDir, cfg.Curriculum.CourseDir)
	prompts := prompt.NewBuilder(curriculumSvc)
	leads := leadService.NewService(cfg.Data.Dir, cfg.Lead)
	if cfg.Lead.SMTPConfigured() {
		log.Println("lead email notification enabled")
	} else {
		log.Println("SMTP not configured, lead capture will only write to disk")
	}

	router := handler.NewRouter(handler.Deps{
		Store:      store,
		Holder:     holder,
		Curriculum: curriculumSvc,
		Prompts:    prompts,
		Leads:      leads,
		DataDir:    cfg.Data.Dir,
	})

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Vikalp voice agent backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
