package pipeline

import (
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
	"github.com/backmassage/quiltpair/internal/imagedir"
	"github.com/backmassage/quiltpair/internal/index"
	"github.com/backmassage/quiltpair/internal/logging"
	"github.com/backmassage/quiltpair/internal/naming"
)

// Merge writes one caption file per image in the image directory root:
// "<stem>.txt" holding every caption the index has for that image, joined
// with cfg.CaptionSeparator. Only the top level of the directory is
// scanned. When two images share a stem ("a.jpg", "a.png") the first in
// name order owns "<stem>.txt" and the later ones are counted as
// collisions.
func Merge(ctx context.Context, cfg *config.Config, log *logging.Logger) (MergeSummary, error) {
	start := time.Now()
	var s MergeSummary

	entries, err := os.ReadDir(cfg.ImageDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, fmt.Errorf("%w: %s", imagedir.ErrNotFound, cfg.ImageDir)
		}
		return s, fmt.Errorf("read image directory: %w", err)
	}
	idx, err := index.Load(cfg.IndexPath, index.Options{
		ImageColumn:   cfg.ImageColumn,
		CaptionColumn: cfg.CaptionColumn,
	})
	if err != nil {
		return s, err
	}
	captions := idx.CaptionsByBase()
	log.Info("Index: %s (%d rows, %d distinct images)", idx.Path, idx.Len(), len(captions))

	if !cfg.DryRun {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return s, fmt.Errorf("create output directory: %w", err)
		}
	}

	owner := make(map[string]string) // output path -> image that claimed it
	bar := newProgress(cfg, int64(len(entries)), "merging")
	for _, e := range entries {
		if ctx.Err() != nil {
			s.Interrupted = true
			break
		}
		bar.add(1)
		s.Entries++
		name := e.Name()
		if e.IsDir() {
			s.Dirs++
			continue
		}
		if !imagedir.IsImageName(name) {
			s.NonImages++
			continue
		}
		s.Images++

		caps := captions[name]
		if len(caps) == 0 {
			s.NoCaption++
			log.Debug("no caption for %s", name)
			continue
		}
		out := naming.CaptionPath(cfg.OutputDir, name)
		if prev, ok := owner[out]; ok {
			s.Collisions++
			log.Debug("%s: %s already written for %s", name, filepath.Base(out), prev)
			continue
		}
		owner[out] = name
		if cfg.DryRun {
			s.Created++
			continue
		}
		n, err := emit.WriteText(ctx, out, strings.Join(caps, cfg.CaptionSeparator))
		if err != nil {
			s.Errors++
			log.Debug("write %s: %v", filepath.Base(out), err)
			continue
		}
		s.Created++
		s.BytesWritten += n
	}
	bar.finish()
	s.Elapsed = time.Since(start)

	log.Info("==============================")
	log.Info("Entries: %d (images %d, other files %d, directories %d)",
		s.Entries, s.Images, s.NonImages, s.Dirs)
	log.Success("Caption files written: %d", s.Created)
	if s.NoCaption > 0 {
		log.Warn("Images without captions: %d", s.NoCaption)
	}
	if s.Collisions > 0 {
		log.Warn("Images sharing a caption file with an earlier image: %d", s.Collisions)
	}
	if s.Errors > 0 {
		log.Error("Write errors: %d", s.Errors)
	}
	return s, nil
}
