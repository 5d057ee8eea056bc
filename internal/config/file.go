package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig models the optional YAML config file. Pointer fields keep
// "absent" distinct from the zero value so only keys present in the file
// override defaults.
type fileConfig struct {
	Index         *string `yaml:"index"`
	Images        *string `yaml:"images"`
	Output        *string `yaml:"output"`
	Mode          *string `yaml:"mode"`
	ImageColumn   *string `yaml:"image_column"`
	CaptionColumn *string `yaml:"caption_column"`
	Workers       *int    `yaml:"workers"`
	DryRun        *bool   `yaml:"dry_run"`
	MetricsFile   *string `yaml:"metrics_file"`
	Report        *string `yaml:"report"`
	StatsOut      *string `yaml:"stats_out"`
	Verbose       *bool   `yaml:"verbose"`
	Progress      *bool   `yaml:"progress"`
	Color         *string `yaml:"color"`
	Log           *string `yaml:"log"`
}

// LoadFile overlays settings from a YAML file onto cfg. Unknown keys are
// rejected so typos do not silently fall back to defaults.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.IndexPath, fc.Index)
	if fc.Images != nil {
		cfg.ImageDir = NormalizeDirArg(*fc.Images)
	}
	if fc.Output != nil {
		cfg.OutputDir = NormalizeDirArg(*fc.Output)
	}
	if fc.Mode != nil {
		if err := (&modeValue{&cfg.Mode}).Set(*fc.Mode); err != nil {
			return fmt.Errorf("config %s: %w", path, err)
		}
	}
	setString(&cfg.ImageColumn, fc.ImageColumn)
	setString(&cfg.CaptionColumn, fc.CaptionColumn)
	if fc.Workers != nil {
		cfg.Workers = *fc.Workers
	}
	if fc.DryRun != nil {
		cfg.DryRun = *fc.DryRun
	}
	setString(&cfg.MetricsFile, fc.MetricsFile)
	setString(&cfg.ReportFile, fc.Report)
	setString(&cfg.StatsOut, fc.StatsOut)
	if fc.Verbose != nil {
		cfg.Verbose = *fc.Verbose
	}
	if fc.Progress != nil {
		cfg.ShowProgress = *fc.Progress
	}
	if fc.Color != nil {
		if err := (&colorModeValue{&cfg.ColorMode}).Set(*fc.Color); err != nil {
			return fmt.Errorf("config %s: %w", path, err)
		}
	}
	setString(&cfg.LogFile, fc.Log)

	cfg.ConfigFile = path
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
