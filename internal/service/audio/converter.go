// Package audio normalizes inbound audio for transcription by shelling out
// to ffmpeg. No decoding happens in-process.
package audio

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Converter resamples audio to the canonical transcription format:
// 16 kHz, mono, WAV container.
type Converter struct {
	bin string
	dir string
}

// NewConverter creates a converter writing output files under dir.
func NewConverter(dir string) *Converter {
	return &Converter{bin: "ffmpeg", dir: dir}
}

// Normalize converts the file at inputPath and returns the converted path.
// When the external tool fails the original path is returned instead: a
// degraded transcription beats an aborted turn.
func (c *Converter) Normalize(ctx context.Context, inputPath string) string {
	outputPath := filepath.Join(c.dir, fmt.Sprintf("conv-%d-%s.wav", time.Now().UnixMilli(), uuid.NewString()))

	cmd := exec.CommandContext(ctx, c.bin, "-y", "-i", inputPath, "-ar", "16000", "-ac", "1", "-vn", outputPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		log.Printf("[audio] ffmpeg failed, using unconverted input: %v (%s)", err, truncate(out, 200))
		return inputPath
	}
	return outputPath
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
