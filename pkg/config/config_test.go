package config

import (
	"testing"
	"time"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if cfg.ListenAddr != ":8080" {
		t.Fatalf("ListenAddr=%q; want :8080", cfg.ListenAddr)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("LogLevel=%q; want info", cfg.LogLevel)
	}
	if cfg.DBPath != "poi.db" {
		t.Fatalf("DBPath=%q; want poi.db", cfg.DBPath)
	}
	if cfg.EpochDuration != 10*time.Minute {
		t.Fatalf("EpochDuration=%v; want 10m", cfg.EpochDuration)
	}
	if cfg.InitialDifficulty != 8 {
		t.Fatalf("InitialDifficulty=%d; want 8", cfg.InitialDifficulty)
	}
	if cfg.ConnTimeout != 2*time.Minute {
		t.Fatalf("ConnTimeout=%v; want 2m", cfg.ConnTimeout)
	}
	if cfg.ShutdownWait != 5*time.Second {
		t.Fatalf("ShutdownWait=%v; want 5s", cfg.ShutdownWait)
	}
	if cfg.RotateTick != time.Second {
		t.Fatalf("RotateTick=%v; want 1s", cfg.RotateTick)
	}
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", "127.0.0.1:9999")
	t.Setenv("EPOCH_DURATION", "90s")
	t.Setenv("INITIAL_DIFFICULTY", "17")
	t.Setenv("SHUTDOWN_WAIT", "1500ms")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if cfg.ListenAddr != "127.0.0.1:9999" {
		t.Fatalf("ListenAddr=%q; want 127.0.0.1:9999", cfg.ListenAddr)
	}
	if cfg.EpochDuration != 90*time.Second {
		t.Fatalf("EpochDuration=%v; want 90s", cfg.EpochDuration)
	}
	if cfg.InitialDifficulty != 17 {
		t.Fatalf("InitialDifficulty=%d; want 17", cfg.InitialDifficulty)
	}
	if cfg.ShutdownWait != 1500*time.Millisecond {
		t.Fatalf("ShutdownWait=%v; want 1500ms", cfg.ShutdownWait)
	}
}

func TestParse_InvalidValues(t *testing.T) {
	t.Setenv("EPOCH_DURATION", "oops")

	if _, err := Parse(); err == nil {
		t.Fatal("Parse() expected error for bad duration")
	}
}

func TestParse_InvalidDifficulty(t *testing.T) {
	t.Setenv("INITIAL_DIFFICULTY", "abc")

	if _, err := Parse(); err == nil {
		t.Fatal("Parse() expected error for bad difficulty")
	}
}
