package tts

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
)

// espeakSynth shells out to espeak-ng (or espeak) for offline synthesis.
// It needs no credentials or network, which is what makes it a safe last
// resort for the synthesis fallback chain.
type espeakSynth struct {
	lookupOnce sync.Once
	bin        string
}

func newEspeakSynth() *espeakSynth {
	return &espeakSynth{}
}

func (e *espeakSynth) Ext() string { return "wav" }

func (e *espeakSynth) resolveBin() string {
	e.lookupOnce.Do(func() {
		for _, candidate := range []string{"espeak-ng", "espeak"} {
			if path, err := exec.LookPath(candidate); err == nil {
				e.bin = path
				return
			}
		}
	})
	return e.bin
}

func (e *espeakSynth) Synthesize(ctx context.Context, text, path string) error {
	bin := e.resolveBin()
	if bin == "" {
		return fmt.Errorf("no espeak binary on PATH")
	}

	cmd := exec.CommandContext(ctx, bin, "-w", path, text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("espeak run: %w (%s)", err, out)
	}
	return nil
}
