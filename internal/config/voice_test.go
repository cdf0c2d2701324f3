package config

import "testing"

func TestHolderSnapshotDefaults(t *testing.T) {
	h := NewHolder()

	s, err := h.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot err: %v", err)
	}
	if s.Architecture != ArchitectureChained {
		t.Fatalf("expected chained default, got %s", s.Architecture)
	}
	if s.STTProvider != STTLocalWhisper {
		t.Fatalf("expected local_whisper default, got %s", s.STTProvider)
	}
}

func TestHolderUpdateAffectsNextSnapshot(t *testing.T) {
	h := NewHolder()

	before, err := h.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot err: %v", err)
	}

	if err := h.Update(map[string]string{"architecture": "realtime", "tts_provider": "openai"}); err != nil {
		t.Fatalf("Update err: %v", err)
	}

	after, err := h.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot err: %v", err)
	}
	if after.Architecture != ArchitectureRealtime {
		t.Fatalf("expected realtime after update, got %s", after.Architecture)
	}
	if after.TTSProvider != TTSOpenAI {
		t.Fatalf("expected openai tts after update, got %s", after.TTSProvider)
	}

	// The snapshot taken before the update is untouched.
	if before.Architecture != ArchitectureChained {
		t.Fatal("earlier snapshot must not change")
	}
}

func TestHolderUpdateRejectsUnknownKeyAndValue(t *testing.T) {
	h := NewHolder()

	if err := h.Update(map[string]string{"voice": "nova"}); err == nil {
		t.Fatal("expected error for unknown key")
	}
	if err := h.Update(map[string]string{"architecture": "quantum"}); err == nil {
		t.Fatal("expected error for invalid architecture")
	}

	s, err := h.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot err: %v", err)
	}
	if s.Architecture != ArchitectureChained {
		t.Fatal("rejected update must not leak into snapshots")
	}
}

func TestLoadServerConfig(t *testing.T) {
	t.Setenv("PORT", "9000")
	cfg, err := loadServerConfig()
	if err != nil {
		t.Fatalf("loadServerConfig err: %v", err)
	}
	if cfg.Addr != ":9000" {
		t.Fatalf("expected :9000, got %s", cfg.Addr)
	}

	t.Setenv("PORT", "127.0.0.1:9001")
	cfg, err = loadServerConfig()
	if err != nil {
		t.Fatalf("loadServerConfig err: %v", err)
	}
	if cfg.Addr != "127.0.0.1:9001" {
		t.Fatalf("expected host:port to pass through, got %s", cfg.Addr)
	}

	t.Setenv("PORT", "90 00")
	if _, err := loadServerConfig(); err == nil {
		t.Fatal("expected error for malformed PORT")
	}
}
