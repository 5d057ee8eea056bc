package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNormalizeDirArg(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no trailing slash", "/data/quilt_1m", "/data/quilt_1m"},
		{"single trailing slash", "/data/quilt_1m/", "/data/quilt_1m"},
		{"multiple trailing slashes", "/data/quilt_1m///", "/data/quilt_1m"},
		{"root path", "/", "/"},
		{"relative path", "quilt_1m", "quilt_1m"},
		{"relative with slash", "quilt_1m/", "quilt_1m"},
		{"empty string", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDirArg(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeDirArg(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDefaultConfig_QuiltLayout(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.IndexPath != "quilt_1M_lookup.csv" {
		t.Errorf("default IndexPath = %q", cfg.IndexPath)
	}
	if cfg.ImageDir != "quilt_1m" {
		t.Errorf("default ImageDir = %q", cfg.ImageDir)
	}
	if cfg.OutputDir != "quilt_1m_paired" {
		t.Errorf("default OutputDir = %q", cfg.OutputDir)
	}
	if cfg.Mode != ModePair {
		t.Errorf("default Mode = %q, want %q", cfg.Mode, ModePair)
	}
	if cfg.Workers != 1 {
		t.Errorf("default Workers = %d, want 1", cfg.Workers)
	}
	if cfg.DryRun {
		t.Error("default DryRun should be false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown mode", func(c *Config) { c.Mode = "split" }, true},
		{"empty mode", func(c *Config) { c.Mode = "" }, true},
		{"unknown color", func(c *Config) { c.ColorMode = "sometimes" }, true},
		{"zero workers", func(c *Config) { c.Workers = 0 }, true},
		{"empty caption column", func(c *Config) { c.CaptionColumn = " " }, true},
		{"same columns", func(c *Config) { c.CaptionColumn = "IMAGE_PATH" }, true},
		{"pair needs index", func(c *Config) { c.IndexPath = "" }, true},
		{"pair needs output", func(c *Config) { c.OutputDir = "" }, true},
		{"missing ignores index", func(c *Config) { c.Mode = ModeMissing; c.IndexPath = ""; c.OutputDir = "" }, false},
		{"stats needs stats out", func(c *Config) { c.Mode = ModeStats; c.StatsOut = "" }, true},
		{"images always required", func(c *Config) { c.Mode = ModeStats; c.ImageDir = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidatePaths(t *testing.T) {
	tests := []struct {
		name    string
		images  string
		output  string
		wantErr bool
	}{
		{"separate directories", "/data/quilt_1m", "/data/quilt_1m_paired", false},
		{"output equals images", "/data/quilt_1m", "/data/quilt_1m", true},
		{"output inside images", "/data/quilt_1m", "/data/quilt_1m/paired", true},
		{"output is parent of images", "/data/quilt_1m/sub", "/data/quilt_1m", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.ValidatePaths(tt.images, tt.output)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePaths(%q, %q) error = %v, wantErr %v",
					tt.images, tt.output, err, tt.wantErr)
			}
		})
	}
}

func TestParseArgs_Overrides(t *testing.T) {
	cfg := DefaultConfig()
	args := []string{
		"-i", "lookup.tsv",
		"--images", "imgs/",
		"-o", "out//",
		"--mode", "MERGE",
		"-w", "4",
		"--dry-run",
		"--no-progress",
		"--no-color",
		"--caption-column", "text",
	}
	var stdout, stderr bytes.Buffer
	if err := ParseArgs(&cfg, args, "test", &stdout, &stderr); err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if cfg.IndexPath != "lookup.tsv" || cfg.ImageDir != "imgs" || cfg.OutputDir != "out" {
		t.Errorf("paths = %q %q %q", cfg.IndexPath, cfg.ImageDir, cfg.OutputDir)
	}
	if cfg.Mode != ModeMerge {
		t.Errorf("Mode = %q, want merge", cfg.Mode)
	}
	if cfg.Workers != 4 || !cfg.DryRun || cfg.ShowProgress {
		t.Errorf("workers=%d dry=%v progress=%v", cfg.Workers, cfg.DryRun, cfg.ShowProgress)
	}
	if cfg.ColorMode != ColorNever {
		t.Errorf("ColorMode = %q, want never", cfg.ColorMode)
	}
	if cfg.CaptionColumn != "text" {
		t.Errorf("CaptionColumn = %q", cfg.CaptionColumn)
	}
}

func TestParseArgs_InvalidMode(t *testing.T) {
	cfg := DefaultConfig()
	var stdout, stderr bytes.Buffer
	if err := ParseArgs(&cfg, []string{"--mode", "split"}, "test", &stdout, &stderr); err == nil {
		t.Fatal("expected error for invalid mode")
	}
}

func TestParseArgs_RejectsPositional(t *testing.T) {
	cfg := DefaultConfig()
	var stdout, stderr bytes.Buffer
	if err := ParseArgs(&cfg, []string{"extra"}, "test", &stdout, &stderr); err == nil {
		t.Fatal("expected error for positional argument")
	}
}

func TestParseArgs_VersionAndHelp(t *testing.T) {
	cfg := DefaultConfig()
	var stdout, stderr bytes.Buffer
	err := ParseArgs(&cfg, []string{"-V"}, "9.9.9", &stdout, &stderr)
	if !errors.Is(err, ErrHelp) {
		t.Fatalf("ParseArgs(-V) err = %v, want ErrHelp", err)
	}
	if !strings.Contains(stdout.String(), "quiltpair v9.9.9") {
		t.Errorf("version output = %q", stdout.String())
	}

	stdout.Reset()
	err = ParseArgs(&cfg, []string{"--help"}, "9.9.9", &stdout, &stderr)
	if !errors.Is(err, ErrHelp) {
		t.Fatalf("ParseArgs(--help) err = %v, want ErrHelp", err)
	}
	if !strings.Contains(stderr.String(), "--caption-column") {
		t.Errorf("help output missing flags: %q", stderr.String())
	}
}

func TestParseArgs_ConfigFileThenFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quiltpair.yaml")
	yml := "index: from_file.csv\nimages: file_images/\nworkers: 3\nmode: missing\nprogress: false\n"
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	var stdout, stderr bytes.Buffer
	args := []string{"--config", path, "-w", "8"}
	if err := ParseArgs(&cfg, args, "test", &stdout, &stderr); err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if cfg.IndexPath != "from_file.csv" {
		t.Errorf("IndexPath = %q, want value from file", cfg.IndexPath)
	}
	if cfg.ImageDir != "file_images" {
		t.Errorf("ImageDir = %q, want normalized value from file", cfg.ImageDir)
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d, flag should override file", cfg.Workers)
	}
	if cfg.Mode != ModeMissing || cfg.ShowProgress {
		t.Errorf("mode=%q progress=%v", cfg.Mode, cfg.ShowProgress)
	}
	if cfg.ConfigFile != path {
		t.Errorf("ConfigFile = %q", cfg.ConfigFile)
	}
}

func TestLoadFile_RejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("imagez: typo\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	if err := LoadFile(&cfg, path); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestLoadFile_EmptyFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	if err := LoadFile(&cfg, path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.IndexPath != "quilt_1M_lookup.csv" {
		t.Errorf("IndexPath = %q, want default", cfg.IndexPath)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	cfg := DefaultConfig()
	if err := LoadFile(&cfg, filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
