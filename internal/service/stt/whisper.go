package stt

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

// whisperLocal runs the whisper.cpp binary against a model file on disk.
// The model check happens once; if it fails, the backend stays disabled for
// the rest of the process and callers fall through to the sentinel.
type whisperLocal struct {
	bin      string
	modelDir string

	initOnce  sync.Once
	modelPath string
	loaded    bool
}

func newWhisperLocal(bin, modelDir string) *whisperLocal {
	return &whisperLocal{bin: bin, modelDir: modelDir}
}

func (w *whisperLocal) Loaded() bool {
	w.initOnce.Do(w.init)
	return w.loaded
}

func (w *whisperLocal) init() {
	if _, err := os.Stat(w.bin); err != nil {
		log.Printf("[stt] whisper binary not found at %s, local transcription disabled", w.bin)
		return
	}

	models, err := filepath.Glob(filepath.Join(w.modelDir, "*.bin"))
	if err != nil || len(models) == 0 {
		log.Printf("[stt] no whisper model in %s, local transcription disabled", w.modelDir)
		return
	}

	w.modelPath = models[0]
	w.loaded = true
	log.Printf("[stt] whisper.cpp ready: %s", w.modelPath)
}

func (w *whisperLocal) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if !w.Loaded() {
		return "", fmt.Errorf("local whisper model not loaded")
	}

	cmd := exec.CommandContext(ctx, w.bin, "-m", w.modelPath, "-f", audioPath, "-nt")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("whisper.cpp run: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
