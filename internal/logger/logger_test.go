package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/mmdcodec/pkg/binio"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLogRotation(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "mmdtool.log")

	// 1MB is the smallest size lumberjack rotates at.
	cfg := FileConfig{
		Path:       logFile,
		MaxSizeMB:  1,
		MaxBackups: 2,
		MaxAgeDays: 1,
	}
	if err := InitWithFileConfig("debug", cfg, nil); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	defer Sync()

	name := strings.Repeat("x", 200)
	for i := 0; i < 15000; i++ {
		Debug("bone key", zap.Int("index", i), zap.String("bone", name))
	}
	Sync()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read log dir: %v", err)
	}
	var rotated []string
	for _, e := range entries {
		if e.Name() != "mmdtool.log" && strings.HasPrefix(e.Name(), "mmdtool-") {
			rotated = append(rotated, e.Name())
		}
	}
	if _, err := os.Stat(logFile); err != nil {
		t.Errorf("current log file missing: %v", err)
	}
	if len(rotated) == 0 {
		t.Errorf("expected rotated backups, found %v", entries)
	}
}

// readEntries decodes a JSON log file into one map per line.
func readEntries(t *testing.T, path string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	var entries []map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(data), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var e map[string]any
		if err := json.Unmarshal(line, &e); err != nil {
			t.Fatalf("log line is not JSON: %s", line)
		}
		entries = append(entries, e)
	}
	return entries
}

func TestLogLevels(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		level string
		want  []string
	}{
		{"error", []string{"ERROR"}},
		{"warn", []string{"WARN", "ERROR"}},
		{"info", []string{"INFO", "WARN", "ERROR"}},
		{"debug", []string{"DEBUG", "INFO", "WARN", "ERROR"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(dir, tt.level+".log")
			if err := InitWithFileConfig(tt.level, FileConfig{Path: logFile, MaxSizeMB: 10}, nil); err != nil {
				t.Fatalf("failed to init logger: %v", err)
			}

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")
			Sync()

			entries := readEntries(t, logFile)
			if len(entries) != len(tt.want) {
				t.Fatalf("got %d entries, want %d", len(entries), len(tt.want))
			}
			for i, e := range entries {
				if e["level"] != tt.want[i] {
					t.Errorf("entry %d level = %v, want %s", i, e["level"], tt.want[i])
				}
			}
		})
	}
}

func TestFileOutputCarriesErrorFields(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "fail.log")
	if err := InitWithFileConfig("info", FileConfig{Path: logFile, MaxSizeMB: 10}, nil); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}

	err := fmt.Errorf("parsing motion dance.vmd: %w", binio.Exhausted(1234))
	Named("vmd").Error("parse failed", ErrorFields(err)...)
	Sync()

	entries := readEntries(t, logFile)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e["logger"] != "vmd" || e["kind"] != "exhausted" {
		t.Errorf("unexpected entry %v", e)
	}
	if pos, _ := e["pos"].(float64); pos != 1234 {
		t.Errorf("pos = %v, want 1234", e["pos"])
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/test.log")

	if cfg.Path != "/tmp/test.log" {
		t.Errorf("expected path /tmp/test.log, got %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 10 {
		t.Errorf("expected MaxSizeMB 10, got %d", cfg.MaxSizeMB)
	}
	if cfg.MaxBackups != 3 {
		t.Errorf("expected MaxBackups 3, got %d", cfg.MaxBackups)
	}
	if cfg.MaxAgeDays != 30 {
		t.Errorf("expected MaxAgeDays 30, got %d", cfg.MaxAgeDays)
	}
	if !cfg.Compress {
		t.Error("expected Compress to be true")
	}
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithFileConfig("info", FileConfig{}, &buf); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}

	Debug("hidden")
	Named("pmd").Info("parsed model")
	Sync()

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug message written at info level")
	}
	if !strings.Contains(out, "parsed model") {
		t.Errorf("expected info message, got %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"", zapcore.InfoLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"verbose", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestErrorFields(t *testing.T) {
	err := fmt.Errorf("bones: %w", binio.Malformed(42, "bad record"))
	fields := ErrorFields(err)

	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(fields))
	}
	if fields[1].Key != "kind" || fields[1].String != "malformed" {
		t.Errorf("unexpected kind field %+v", fields[1])
	}
	if fields[2].Key != "pos" || fields[2].Integer != 42 {
		t.Errorf("unexpected pos field %+v", fields[2])
	}

	plain := ErrorFields(os.ErrNotExist)
	if len(plain) != 1 {
		t.Errorf("expected only the error field, got %d", len(plain))
	}
}
