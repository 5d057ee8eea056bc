// Package check provides the --check preflight: it inspects the configured
// index, image directory and output location and reports what a run would
// find, without writing any pair.
package check

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/backmassage/quiltpair/internal/config"
	"github.com/backmassage/quiltpair/internal/imagedir"
	"github.com/backmassage/quiltpair/internal/index"
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// stays testable with a recording logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
}

// RunCheck logs the state of every input the configured mode needs and
// returns false if any of them would make a run fail.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== Preflight Check (%s mode) ===", cfg.Mode)

	ok := checkImageDir(cfg, log)
	if cfg.Mode == config.ModePair || cfg.Mode == config.ModeMerge {
		ok = checkIndex(cfg, log) && ok
		ok = checkWritable("Output", cfg.OutputDir, log) && ok
	}
	if cfg.Mode == config.ModeMissing && cfg.ReportFile != "" {
		ok = checkWritable("Report", filepath.Dir(cfg.ReportFile), log) && ok
	}
	if cfg.Mode == config.ModeStats {
		ok = checkWritable("Stats output", filepath.Dir(cfg.StatsOut), log) && ok
	}

	if ok {
		log.Success("All checks passed")
	} else {
		log.Error("Preflight failed")
	}
	return ok
}

// checkImageDir indexes the image directory and reports its size.
func checkImageDir(cfg *config.Config, log Logger) bool {
	d, err := imagedir.Open(cfg.ImageDir)
	if err != nil {
		log.Error("Images: %v", err)
		return false
	}
	log.Success("Images: %s (%d images, %d files)", cfg.ImageDir, d.ImageCount(), d.Len())
	if d.ImageCount() == 0 {
		log.Warn("  No files with accepted extensions (%s)", strings.Join(imagedir.Extensions(), ", "))
	}
	if u := d.Unreadable(); len(u) > 0 {
		log.Warn("  %d unreadable entries will be skipped (first: %s)", len(u), u[0])
	}
	return true
}

// checkIndex loads the index and reports its format, size and columns.
func checkIndex(cfg *config.Config, log Logger) bool {
	fi, err := os.Stat(cfg.IndexPath)
	if err != nil {
		log.Error("Index: %v", err)
		return false
	}
	idx, err := index.Load(cfg.IndexPath, index.Options{
		ImageColumn:   cfg.ImageColumn,
		CaptionColumn: cfg.CaptionColumn,
	})
	if err != nil {
		log.Error("Index: %v", err)
		return false
	}
	log.Success("Index: %s (%s, %s, %d rows)",
		cfg.IndexPath, idx.Format, humanize.IBytes(uint64(fi.Size())), idx.Len())
	if idx.Sheet != "" {
		log.Info("  Sheet: %s", idx.Sheet)
	}
	log.Info("  Columns: %s", strings.Join(idx.Header, ", "))

	malformed := 0
	for _, r := range idx.Rows {
		if r.Malformed {
			malformed++
		}
	}
	if malformed > 0 {
		log.Warn("  %d malformed rows will be skipped", malformed)
	}
	return true
}

// checkWritable verifies that dir (or its nearest existing ancestor, since
// the run creates missing directories) accepts new files.
func checkWritable(label, dir string, log Logger) bool {
	if dir == "" {
		dir = "."
	}
	probe := dir
	for {
		fi, err := os.Stat(probe)
		if err == nil {
			if !fi.IsDir() {
				log.Error("%s: %s is not a directory", label, probe)
				return false
			}
			break
		}
		if !errors.Is(err, fs.ErrNotExist) {
			log.Error("%s: %v", label, err)
			return false
		}
		parent := filepath.Dir(probe)
		if parent == probe {
			log.Error("%s: no existing parent for %s", label, dir)
			return false
		}
		probe = parent
	}

	f, err := os.CreateTemp(probe, ".quiltpair-check-*")
	if err != nil {
		log.Error("%s: %s is not writable: %v", label, probe, err)
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)

	if probe != dir {
		log.Success("%s: %s (will be created)", label, dir)
	} else {
		log.Success("%s: %s (writable)", label, dir)
	}
	return true
}
