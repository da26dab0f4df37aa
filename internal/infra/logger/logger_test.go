package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var file, console bytes.Buffer
	l := NewWithWriters(&file, &console, LevelWarn)

	l.Info("hidden %d", 1)
	l.Warn("shown %d", 2)

	if strings.Contains(file.String(), "hidden") {
		t.Error("info should be filtered at warn level")
	}
	if !strings.Contains(file.String(), "[WARN] shown 2") {
		t.Errorf("expected warn line in file, got %q", file.String())
	}
	if !strings.Contains(console.String(), "shown 2") {
		t.Errorf("expected warn line on console, got %q", console.String())
	}
}

func TestDebugStaysOffConsole(t *testing.T) {
	var file, console bytes.Buffer
	l := NewWithWriters(&file, &console, LevelDebug)

	l.Debug("noisy")

	if !strings.Contains(file.String(), "[DEBUG] noisy") {
		t.Errorf("expected debug in file, got %q", file.String())
	}
	if strings.Contains(console.String(), "noisy") {
		t.Error("debug should not reach the console")
	}
}

func TestProgressLineIsReplacedAndTerminated(t *testing.T) {
	var file, console bytes.Buffer
	l := NewWithWriters(&file, &console, LevelInfo)

	l.Progress("[1/2] 10.0%% 1MiB/s")
	l.Progress("[1/2] 55.5%%")
	l.Info("done")

	out := console.String()
	if strings.Count(out, "\r") != 2 {
		t.Errorf("expected two carriage returns, got %q", out)
	}
	if !strings.Contains(out, "55.5%") {
		t.Errorf("expected latest progress, got %q", out)
	}

	// The permanent line must start on a fresh line
	idx := strings.Index(out, "done")
	nl := strings.LastIndex(out[:idx], "\n")
	if nl == -1 || nl < strings.LastIndex(out[:idx], "55.5%") {
		t.Errorf("progress line was not terminated before the next message: %q", out)
	}

	if strings.Contains(file.String(), "PROGRESS") {
		t.Error("progress should only reach the file at debug level")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		"WARN":    LevelWarn,
		"error":   LevelError,
		"info":    LevelInfo,
		"unknown": LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gotube.log")
	l, err := New(path, LevelInfo, false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	l.Error("boom %s", "here")
	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[ERROR] boom here") {
		t.Errorf("unexpected log file content: %q", data)
	}
}
