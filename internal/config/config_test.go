package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"PIXPIPE_LOG_LEVEL", "PIXPIPE_LOG_FORMAT", "PIXPIPE_PARALLEL",
		"PIXPIPE_JPEG_QUALITY", "PIXPIPE_AUTO_ORIENT", "PIXPIPE_CACHE",
	} {
		// Setenv restores the original value after the test.
		t.Setenv(name, "")
		if err := os.Unsetenv(name); err != nil {
			t.Fatalf("Unsetenv %s: %v", name, err)
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel: got %q, want info", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat: got %q, want text", cfg.LogFormat)
	}
	if !cfg.Parallel {
		t.Error("Parallel should default to true")
	}
	if cfg.JPEGQuality != 95 {
		t.Errorf("JPEGQuality: got %d, want 95", cfg.JPEGQuality)
	}
	if cfg.AutoOrient {
		t.Error("AutoOrient should default to false")
	}
	if !cfg.Cache {
		t.Error("Cache should default to true")
	}
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PIXPIPE_LOG_LEVEL", "debug")
	t.Setenv("PIXPIPE_LOG_FORMAT", "json")
	t.Setenv("PIXPIPE_PARALLEL", "false")
	t.Setenv("PIXPIPE_JPEG_QUALITY", "70")
	t.Setenv("PIXPIPE_AUTO_ORIENT", "true")
	t.Setenv("PIXPIPE_CACHE", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Errorf("logging: got %s/%s, want debug/json", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.Parallel || cfg.Cache || !cfg.AutoOrient {
		t.Errorf("booleans: got parallel=%v cache=%v autoOrient=%v", cfg.Parallel, cfg.Cache, cfg.AutoOrient)
	}
	if cfg.JPEGQuality != 70 {
		t.Errorf("JPEGQuality: got %d, want 70", cfg.JPEGQuality)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, env, value string
	}{
		{"unknown level", "PIXPIPE_LOG_LEVEL", "verbose"},
		{"unknown format", "PIXPIPE_LOG_FORMAT", "xml"},
		{"quality too low", "PIXPIPE_JPEG_QUALITY", "0"},
		{"quality too high", "PIXPIPE_JPEG_QUALITY", "101"},
		{"quality not a number", "PIXPIPE_JPEG_QUALITY", "high"},
		{"bad boolean", "PIXPIPE_PARALLEL", "sometimes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.env, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%q", tt.env, tt.value)
			}
		})
	}
}

func TestConfig_Level(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for in, want := range tests {
		cfg := Config{LogLevel: in}
		if got := cfg.Level(); got != want {
			t.Errorf("Level(%q): got %v, want %v", in, got, want)
		}
	}
}

func TestConfig_Logger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{LogLevel: "warn", LogFormat: "json"}
	logger := cfg.Logger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "path", "a.png")

	out := strings.TrimSpace(buf.String())
	if strings.Contains(out, "hidden") {
		t.Error("info record should be filtered at warn level")
	}

	var record map[string]any
	if err := json.Unmarshal([]byte(out), &record); err != nil {
		t.Fatalf("expected one JSON record, got %q: %v", out, err)
	}
	if record["msg"] != "shown" || record["path"] != "a.png" {
		t.Errorf("unexpected record: %v", record)
	}
}

func TestConfig_TextLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{LogLevel: "info", LogFormat: "text"}
	cfg.Logger(&buf).Info("hello", "stage", "load")

	if out := buf.String(); !strings.Contains(out, "msg=hello") || !strings.Contains(out, "stage=load") {
		t.Errorf("unexpected text output: %q", out)
	}
}

func TestConfig_CodecOptions(t *testing.T) {
	cfg := Config{JPEGQuality: 80, AutoOrient: true, Cache: true}
	opts := cfg.CodecOptions(nil)
	if opts.JPEGQuality != 80 || !opts.AutoOrient {
		t.Errorf("unexpected codec options: %+v", opts)
	}
	if opts.Cache == nil {
		t.Error("cache should be attached when enabled")
	}

	cfg.Cache = false
	if cfg.CodecOptions(nil).Cache != nil {
		t.Error("cache should be nil when disabled")
	}
}

func TestConfig_PipelineOptions(t *testing.T) {
	cfg := Config{Parallel: true}
	if !cfg.PipelineOptions(nil).ParallelResize {
		t.Error("ParallelResize should follow Parallel")
	}
}
