package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/backmassage/quiltpair/internal/config"
	"github.com/backmassage/quiltpair/internal/emit"
	"github.com/backmassage/quiltpair/internal/logging"
	"github.com/backmassage/quiltpair/internal/naming"
)

// FindMissing lists images that have no usable sibling caption file:
// "<stem>.txt" is absent or holds only whitespace. The report is sorted by
// relative path and, when cfg.ReportFile is set, written there one path per
// line.
func FindMissing(ctx context.Context, cfg *config.Config, log *logging.Logger) (MissingReport, error) {
	start := time.Now()
	var r MissingReport

	dir, err := openImageDir(cfg.ImageDir, log)
	if err != nil {
		return r, err
	}
	images := dir.Images()
	bar := newProgress(cfg, int64(len(images)), "checking")
	for _, img := range images {
		if err := ctx.Err(); err != nil {
			bar.finish()
			return r, err
		}
		bar.add(1)
		r.Scanned++

		capPath := naming.CaptionPath(filepath.Dir(img), filepath.Base(img))
		b, err := os.ReadFile(capPath)
		var empty bool
		switch {
		case errors.Is(err, fs.ErrNotExist):
			r.Absent++
		case err != nil:
			log.Warn("Cannot read %s: %v", capPath, err)
			continue
		case len(bytes.TrimSpace(b)) == 0:
			empty = true
			r.Empty++
		default:
			continue
		}
		rel, err := filepath.Rel(dir.Root, img)
		if err != nil {
			rel = img
		}
		r.Missing = append(r.Missing, MissingImage{Path: filepath.ToSlash(rel), Empty: empty})
	}
	bar.finish()
	r.Elapsed = time.Since(start)

	for _, m := range r.Missing {
		log.Debug("missing caption: %s", m.Path)
	}
	log.Info("Scanned %d images: %d without caption file, %d with empty caption",
		r.Scanned, r.Absent, r.Empty)

	if cfg.ReportFile != "" {
		var sb strings.Builder
		for _, m := range r.Missing {
			sb.WriteString(m.Path)
			sb.WriteByte('\n')
		}
		if err := os.MkdirAll(filepath.Dir(cfg.ReportFile), 0o755); err != nil {
			return r, fmt.Errorf("create report directory: %w", err)
		}
		if _, err := emit.WriteText(ctx, cfg.ReportFile, sb.String()); err != nil {
			return r, fmt.Errorf("write report: %w", err)
		}
		log.Success("Report written to %s", cfg.ReportFile)
	}
	return r, nil
}
