// Command quiltpair is the CLI entrypoint for the Quilt-1M caption pairing
// tool.
//
// It parses flags, validates configuration and paths, and either runs the
// preflight check (--check) or one of the modes: pair, merge, missing, stats.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/backmassage/quiltpair/internal/check"
	"github.com/backmassage/quiltpair/internal/config"
	"github.com/backmassage/quiltpair/internal/display"
	"github.com/backmassage/quiltpair/internal/logging"
	"github.com/backmassage/quiltpair/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one invocation and returns the process exit status: 0 on
// success (per-row issues included), 1 on any fatal error.
func run(args []string, stdout, stderr io.Writer) int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr via fmt.
	cfg := config.DefaultConfig()
	if err := config.ParseArgs(&cfg, args, version, stdout, stderr); err != nil {
		if errors.Is(err, config.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "quiltpair: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "quiltpair: %v\n", err)
		return 1
	}

	log, err := logging.NewLoggerTo(&cfg, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "quiltpair: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available; all output goes through log from here on.
	display.PrintBanner(stdout)

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, log) {
			return 1
		}
		return 0
	}

	// Output must not be inside the image directory, or a rerun would pair
	// its own output.
	if cfg.Mode == config.ModePair {
		imagesAbs, err := absPath(cfg.ImageDir)
		if err != nil {
			log.Error("Image directory not found: %s", cfg.ImageDir)
			return 1
		}
		outputAbs, err := absPath(cfg.OutputDir)
		if err != nil {
			log.Error("Cannot resolve output path: %s", cfg.OutputDir)
			return 1
		}
		if err := cfg.ValidatePaths(imagesAbs, outputAbs); err != nil {
			log.Error("%v", err)
			log.Error("Choose an output path outside: %s", cfg.ImageDir)
			return 1
		}
	}

	log.Info("=== quiltpair v%s (%s) ===", version, commit)
	log.Info("Mode: %s", cfg.Mode)
	if cfg.ConfigFile != "" {
		log.Info("Config: %s", cfg.ConfigFile)
	}
	log.Info("")

	// Phase 3: Signal handling. Cancel the context on SIGINT/SIGTERM so the
	// pass stops scheduling records; written pairs stay intact.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		if _, ok := <-sigCh; ok {
			log.Warn("Received interrupt, finishing records in flight…")
			cancel()
		}
	}()

	// Phase 4: Run the selected mode.
	if err := dispatch(ctx, &cfg, log, stdout); err != nil {
		log.Error("%v", err)
		return 1
	}
	return 0
}

// dispatch runs cfg.Mode and prints its summary. Only fatal errors are
// returned; per-row problems are part of the summary.
func dispatch(ctx context.Context, cfg *config.Config, log *logging.Logger, w io.Writer) error {
	switch cfg.Mode {
	case config.ModeMerge:
		s, err := pipeline.Merge(ctx, cfg, log)
		if err != nil {
			return err
		}
		display.PrintSummary(w, "Merge summary", mergeFields(&s))
	case config.ModeMissing:
		r, err := pipeline.FindMissing(ctx, cfg, log)
		if err != nil {
			return err
		}
		display.PrintSummary(w, "Missing captions", []display.Field{
			{Label: "images_scanned", Value: display.FormatCount(r.Scanned)},
			{Label: "no_caption_file", Value: display.FormatCount(r.Absent), Tone: warnIf(r.Absent)},
			{Label: "empty_caption", Value: display.FormatCount(r.Empty), Tone: warnIf(r.Empty)},
			{Label: "elapsed", Value: display.FormatDuration(r.Elapsed)},
		})
	case config.ModeStats:
		if _, err := pipeline.CollectStats(ctx, cfg, log); err != nil {
			return err
		}
	default:
		s, err := pipeline.Run(ctx, cfg, log)
		if err != nil {
			return err
		}
		display.PrintSummary(w, "Run summary", runFields(&s))
	}
	return nil
}

func runFields(s *pipeline.RunSummary) []display.Field {
	title := "pairs_created"
	if s.DryRun {
		title = "pairs_planned"
	}
	f := []display.Field{
		{Label: title, Value: display.FormatCount(s.PairsCreated), Tone: display.ToneGood},
		{Label: "images_processed", Value: display.FormatCount(s.ImagesProcessed)},
		{Label: "images_missing", Value: display.FormatCount(s.ImagesMissing), Tone: warnIf(s.ImagesMissing)},
		{Label: "rows_skipped", Value: display.FormatCount(s.RowsSkipped), Tone: warnIf(s.RowsSkipped)},
		{Label: "errors", Value: display.FormatCount(s.Errors), Tone: badIf(s.Errors)},
		{Label: "rows_read", Value: display.FormatCount(s.RowsRead)},
		{Label: "bytes_copied", Value: display.FormatBytes(s.BytesCopied)},
		{Label: "elapsed", Value: display.FormatDuration(s.Elapsed) + " (" + display.FormatRate(s.RowsRead, s.Elapsed) + ")"},
		{Label: "run_id", Value: s.RunID},
	}
	if s.Interrupted {
		f = append(f, display.Field{Label: "status", Value: "interrupted", Tone: display.ToneWarn})
	}
	return f
}

func mergeFields(s *pipeline.MergeSummary) []display.Field {
	return []display.Field{
		{Label: "entries", Value: display.FormatCount(s.Entries)},
		{Label: "images", Value: display.FormatCount(s.Images)},
		{Label: "captions_written", Value: display.FormatCount(s.Created), Tone: display.ToneGood},
		{Label: "no_caption", Value: display.FormatCount(s.NoCaption), Tone: warnIf(s.NoCaption)},
		{Label: "stem_collisions", Value: display.FormatCount(s.Collisions), Tone: warnIf(s.Collisions)},
		{Label: "errors", Value: display.FormatCount(s.Errors), Tone: badIf(s.Errors)},
		{Label: "bytes_written", Value: display.FormatBytes(s.BytesWritten)},
		{Label: "elapsed", Value: display.FormatDuration(s.Elapsed)},
	}
}

func warnIf(n int) display.Tone {
	if n > 0 {
		return display.ToneWarn
	}
	return display.ToneNormal
}

func badIf(n int) display.Tone {
	if n > 0 {
		return display.ToneBad
	}
	return display.ToneNormal
}

// absPath returns the absolute, symlink-resolved path for comparing the
// image and output hierarchies. A path that does not exist yet resolves
// through its nearest existing ancestor.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return resolved, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	parent := filepath.Dir(abs)
	if parent == abs {
		return "", err
	}
	base, perr := absPath(parent)
	if perr != nil {
		return "", perr
	}
	return filepath.Join(base, filepath.Base(abs)), nil
}
