package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/backmassage/quiltpair/internal/config"
	"github.com/backmassage/quiltpair/internal/emit"
	"github.com/backmassage/quiltpair/internal/imagedir"
	"github.com/backmassage/quiltpair/internal/index"
	"github.com/backmassage/quiltpair/internal/logging"
	"github.com/backmassage/quiltpair/internal/reconcile"
)

// Run is the pair-mode entry point. It returns an error only for fatal
// conditions (image directory root, index, output directory); every
// per-row problem ends up as a counter in the summary.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) (RunSummary, error) {
	start := time.Now()
	s := newRunSummary(newRunID(), cfg.DryRun)

	dir, err := openImageDir(cfg.ImageDir, log)
	if err != nil {
		return s, err
	}
	idx, err := index.Load(cfg.IndexPath, index.Options{
		ImageColumn:   cfg.ImageColumn,
		CaptionColumn: cfg.CaptionColumn,
	})
	if err != nil {
		return s, err
	}
	em, err := emit.New(cfg.OutputDir, emit.Options{DryRun: cfg.DryRun})
	if err != nil {
		return s, err
	}

	s.RowsRead = idx.Len()
	logRunHeader(cfg, log, &s, idx, dir)

	bar := newProgress(cfg, int64(idx.Len()), "pairing")

	workers := max(cfg.Workers, 1)
	var (
		mu      sync.Mutex
		sources = make(map[string]struct{})
		g       errgroup.Group
	)
	g.SetLimit(workers)

	for c := range reconcile.New(dir, reconcile.Options{}).Classify(idx) {
		if ctx.Err() != nil {
			break
		}
		switch c := c.(type) {
		case reconcile.Missing:
			s.ImagesMissing++
			log.Debug("line %d: missing image %q", c.Row.Line, c.ImagePath)
			bar.add(1)
		case reconcile.Skipped:
			s.RowsSkipped++
			s.SkipReasons[c.Reason]++
			log.Debug("line %d: skipped (%s) %q", c.Row.Line, c.Reason, c.Row.ImagePath)
			bar.add(1)
		case reconcile.Pairable:
			g.Go(func() error {
				res, err := em.Emit(ctx, c)
				mu.Lock()
				defer mu.Unlock()
				defer bar.add(1)
				if err != nil {
					if ctx.Err() != nil {
						return nil
					}
					s.Errors++
					log.Debug("line %d: %v", c.Row.Line, err)
					return nil
				}
				s.PairsCreated++
				s.BytesCopied += res.Bytes
				sources[c.Source] = struct{}{}
				return nil
			})
		}
	}
	_ = g.Wait()

	s.Interrupted = ctx.Err() != nil
	s.ImagesProcessed = len(sources)
	s.Elapsed = time.Since(start)
	bar.finish()

	if s.Interrupted {
		log.Warn("Interrupted; %d pairs written before stop", s.PairsCreated)
	}
	logRunSummary(log, &s)

	if cfg.MetricsFile != "" {
		if err := writeRunMetrics(cfg.MetricsFile, &s); err != nil {
			log.Warn("Cannot write metrics file: %v", err)
		} else {
			log.Debug("Metrics written to %s", cfg.MetricsFile)
		}
	}
	return s, nil
}

// openImageDir indexes root and reports entries the walk had to skip.
func openImageDir(root string, log *logging.Logger) (*imagedir.Dir, error) {
	dir, err := imagedir.Open(root)
	if err != nil {
		return nil, err
	}
	if u := dir.Unreadable(); len(u) > 0 {
		log.Warn("Skipped %d unreadable entries under %s", len(u), root)
		for _, p := range u {
			log.Debug("unreadable: %s", p)
		}
	}
	return dir, nil
}

// newRunID returns a time-ordered identifier for log correlation.
func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func logRunHeader(cfg *config.Config, log *logging.Logger, s *RunSummary, idx *index.Index, dir *imagedir.Dir) {
	log.Info("Run %s", s.RunID)
	log.Info("Index: %s (%s, %d rows)", idx.Path, idx.Format, idx.Len())
	if idx.Sheet != "" {
		log.Info("  Sheet: %s", idx.Sheet)
	}
	imgCol, capCol := idx.Columns()
	log.Debug("  Columns: %s=%d %s=%d", cfg.ImageColumn, imgCol, cfg.CaptionColumn, capCol)
	log.Info("Images: %s (%d images, %d files)", dir.Root, dir.ImageCount(), dir.Len())
	log.Info("Output: %s", cfg.OutputDir)
	if cfg.Workers > 1 {
		log.Info("Workers: %d", cfg.Workers)
	}
	if cfg.DryRun {
		log.Warn("Dry run: nothing will be written")
	}
}

func logRunSummary(log *logging.Logger, s *RunSummary) {
	log.Info("==============================")
	verb := "created"
	if s.DryRun {
		verb = "planned"
	}
	log.Info("Done: %d pairs %s, %d missing, %d skipped, %d errors",
		s.PairsCreated, verb, s.ImagesMissing, s.RowsSkipped, s.Errors)
	for _, r := range []reconcile.Reason{
		reconcile.ReasonEmptyCaption, reconcile.ReasonExtension, reconcile.ReasonMalformedPath,
	} {
		if n := s.SkipReasons[r]; n > 0 {
			log.Debug("  skipped (%s): %d", r, n)
		}
	}
	if s.Interrupted {
		log.Warn("Classified %d of %d rows", s.Classified(), s.RowsRead)
	}
	if s.Errors > 0 {
		log.Warn("%d pairs failed to write; rerun to retry them", s.Errors)
	}
}
