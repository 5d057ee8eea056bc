// Package config holds runtime configuration: defaults, an optional YAML
// config file, CLI flag parsing, and validation. Defaults match the
// directory names used by the Quilt-1M preparation scripts.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// --- Enum types for validated string fields ---

// Mode selects which operation the command runs.
type Mode string

const (
	ModePair    Mode = "pair"    // One image copy + caption file per index row (default).
	ModeMerge   Mode = "merge"   // One caption file per image, captions joined.
	ModeMissing Mode = "missing" // Report images without a usable caption file.
	ModeStats   Mode = "stats"   // Image dimension statistics.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally overlaid by [LoadFile], then mutated by [ParseArgs] before
// being passed (by pointer) to packages that need it.
type Config struct {
	// Paths.
	IndexPath string // Default: "quilt_1M_lookup.csv".
	ImageDir  string // Default: "quilt_1m".
	OutputDir string // Default: "quilt_1m_paired".

	// Index columns.
	ImageColumn   string // Default: "image_path".
	CaptionColumn string // Default: "caption".

	// Behavior.
	Mode             Mode
	Workers          int    // Default: 1. Emission and decode workers.
	DryRun           bool   // Classify only; write nothing.
	CaptionSeparator string // Fixed: "\n\n" (merge mode).

	// Outputs besides the pairs themselves.
	MetricsFile string // Prometheus textfile; empty disables.
	ReportFile  string // Missing-mode report; empty logs only.
	StatsOut    string // Default: "image_stats.json".

	// Display and logging.
	Verbose      bool
	ShowProgress bool      // Default: true. Cleared by --no-progress.
	ColorMode    ColorMode // Default: "auto".
	LogFile      string    // Optional log file path.
	CheckOnly    bool      // Run --check diagnostics and exit.

	// ConfigFile is the YAML file the settings were overlaid from, if any.
	ConfigFile string
}

// DefaultConfig returns a Config with the conventional Quilt-1M layout.
// Used as the base before [LoadFile] and [ParseArgs] apply overrides.
func DefaultConfig() Config {
	return Config{
		IndexPath:        "quilt_1M_lookup.csv",
		ImageDir:         "quilt_1m",
		OutputDir:        "quilt_1m_paired",
		ImageColumn:      "image_path",
		CaptionColumn:    "caption",
		Mode:             ModePair,
		Workers:          1,
		CaptionSeparator: "\n\n",
		StatsOut:         "image_stats.json",
		ShowProgress:     true,
		ColorMode:        ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields and numeric ranges, and that the paths the
// selected mode needs are set.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModePair, ModeMerge, ModeMissing, ModeStats:
		// valid
	default:
		return fmt.Errorf("invalid mode %q (use 'pair', 'merge', 'missing' or 'stats')", c.Mode)
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1 (got %d)", c.Workers)
	}
	if strings.TrimSpace(c.ImageColumn) == "" || strings.TrimSpace(c.CaptionColumn) == "" {
		return errors.New("image and caption column names must not be empty")
	}
	if strings.EqualFold(strings.TrimSpace(c.ImageColumn), strings.TrimSpace(c.CaptionColumn)) {
		return errors.New("image and caption columns must differ")
	}

	if c.ImageDir == "" {
		return errors.New("image directory must be set")
	}
	switch c.Mode {
	case ModePair, ModeMerge:
		if c.IndexPath == "" {
			return errors.New("index path must be set")
		}
		if c.OutputDir == "" {
			return errors.New("output directory must be set")
		}
	case ModeStats:
		if c.StatsOut == "" {
			return errors.New("stats output path must be set")
		}
	}
	return nil
}

// ValidatePaths ensures the resolved output directory is not inside (or
// equal to) the resolved image directory. Otherwise a re-run would index
// its own output as source images. Both arguments must be absolute,
// symlink-resolved paths.
func (c *Config) ValidatePaths(imagesAbs, outputAbs string) error {
	sep := string(filepath.Separator)
	if outputAbs == imagesAbs || strings.HasPrefix(outputAbs+sep, imagesAbs+sep) {
		return errors.New("output directory must not be inside image directory")
	}
	return nil
}
