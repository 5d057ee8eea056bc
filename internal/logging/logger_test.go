package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/backmassage/quiltpair/internal/config"
)

func TestNewLogger_NoFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.LogFile = ""
	l, err := NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	l.Info("test message")
}

func TestNewLogger_WithFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorAlways
	cfg.LogFile = filepath.Join(dir, "logs", "quiltpair.log")
	l, err := NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	l.Info("to file")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(cfg.LogFile)
	if !bytes.Contains(b, []byte("[INFO] to file")) {
		t.Errorf("log file content: %s", string(b))
	}
	if bytes.Contains(b, []byte("\033[")) {
		t.Errorf("log file should not contain color codes: %q", string(b))
	}
}

func TestWriterLogger_DebugGating(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	quiet, _ := NewLogger(&cfg) // resets colors for the writer loggers below
	quiet.Close()

	var buf bytes.Buffer
	l := NewWriterLogger(&buf, false)
	l.Debug("hidden %d", 1)
	l.Warn("shown")
	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("debug line written when not verbose: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "[WARN] shown") {
		t.Errorf("warn line missing: %q", buf.String())
	}

	buf.Reset()
	v := NewWriterLogger(&buf, true)
	v.Debug("row %d", 7)
	v.Error("boom")
	if !strings.Contains(buf.String(), "[DEBUG] row 7") || !strings.Contains(buf.String(), "[ERROR] boom") {
		t.Errorf("verbose output = %q", buf.String())
	}
}
