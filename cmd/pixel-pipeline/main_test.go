package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setQuietEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PIXPIPE_LOG_LEVEL", "error")
}

func TestRun_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"pixel-pipeline"}, &stdout, &stderr); code != 1 {
		t.Errorf("exit code: got %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "Usage:") {
		t.Errorf("usage should go to stderr, got %q", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout should be empty, got %q", stdout.String())
	}
}

func TestRun_Version(t *testing.T) {
	for _, arg := range []string{"--version", "-v"} {
		var stdout, stderr bytes.Buffer
		if code := run([]string{"pixel-pipeline", arg}, &stdout, &stderr); code != 0 {
			t.Errorf("%s: exit code %d", arg, code)
		}
		if !strings.Contains(stdout.String(), Version) {
			t.Errorf("%s: version missing from %q", arg, stdout.String())
		}
	}
}

func TestRun_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"pixel-pipeline", "-h"}, &stdout, &stderr); code != 0 {
		t.Errorf("exit code: got %d, want 0", code)
	}
	for _, want := range []string{"--load", "--lanczos", "--dither", "--save", "PIXPIPE_LOG_LEVEL"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("help missing %q", want)
		}
	}
}

func TestRun_UnknownStage(t *testing.T) {
	setQuietEnv(t)
	var stdout, stderr bytes.Buffer
	if code := run([]string{"pixel-pipeline", "--frobnicate"}, &stdout, &stderr); code != 1 {
		t.Errorf("exit code: got %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "--frobnicate") {
		t.Errorf("error should name the token, got %q", stderr.String())
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("PIXPIPE_JPEG_QUALITY", "500")
	var stdout, stderr bytes.Buffer
	if code := run([]string{"pixel-pipeline", "--dither"}, &stdout, &stderr); code != 1 {
		t.Errorf("exit code: got %d, want 1", code)
	}
}

func TestRun_MissingInput(t *testing.T) {
	setQuietEnv(t)
	var stdout, stderr bytes.Buffer
	if code := run([]string{"pixel-pipeline", "--dither"}, &stdout, &stderr); code != 1 {
		t.Errorf("exit code: got %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "missing input image") {
		t.Errorf("unexpected stderr: %q", stderr.String())
	}
}

func TestRun_Success(t *testing.T) {
	setQuietEnv(t)
	dir := t.TempDir()

	src := image.NewNRGBA(image.Rect(0, 0, 12, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 12; x++ {
			src.Set(x, y, color.NRGBA{R: uint8(x * 20), G: uint8(y * 20), B: 128, A: 255})
		}
	}
	in := filepath.Join(dir, "in.png")
	f, err := os.Create(in)
	if err != nil {
		t.Fatalf("failed to create input: %v", err)
	}
	if err := png.Encode(f, src); err != nil {
		t.Fatalf("failed to encode input: %v", err)
	}
	f.Close()

	out := filepath.Join(dir, "out.png")
	var stdout, stderr bytes.Buffer
	code := run([]string{"pixel-pipeline", "--load", in, "--lanczos", "6", "4", "--dither", "--save", out}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code: got %d, stderr %q", code, stderr.String())
	}

	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("output is empty")
	}
}
