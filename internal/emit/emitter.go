// Package emit writes output pairs: a copy of the source image and a
// sibling caption file, both named "<base>_pair<N>".
//
// Every file is written atomically and the pair's modification times are
// set from the source image, so emitting the same record twice leaves the
// output directory byte-for-byte and timestamp-for-timestamp unchanged.
package emit

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/backmassage/quiltpair/internal/naming"
	"github.com/backmassage/quiltpair/internal/reconcile"
)

// Options configures an Emitter.
type Options struct {
	DryRun   bool        // Resolve names only; touch nothing on disk.
	FileMode os.FileMode // Default: 0o644.
	DirMode  os.FileMode // Default: 0o755.
}

// Result describes one emitted (or, in dry-run, planned) pair.
type Result struct {
	Image   string
	Caption string
	Bytes   int64 // image bytes copied plus caption bytes written
	DryRun  bool
}

// Emitter writes pairs into one output directory. It holds no per-record
// state; Emit may be called from several goroutines for distinct records.
type Emitter struct {
	dir      string
	dryRun   bool
	fileMode os.FileMode
}

// New returns an Emitter for outDir, creating the directory when needed.
// In dry-run mode the directory is not created.
func New(outDir string, opts Options) (*Emitter, error) {
	if opts.FileMode == 0 {
		opts.FileMode = 0o644
	}
	if opts.DirMode == 0 {
		opts.DirMode = 0o755
	}
	if !opts.DryRun {
		if err := os.MkdirAll(outDir, opts.DirMode); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}
	return &Emitter{dir: outDir, dryRun: opts.DryRun, fileMode: opts.FileMode}, nil
}

// Paths returns the two output paths for p without writing anything.
func (e *Emitter) Paths(p reconcile.Pairable) (image, caption string) {
	return naming.PairPaths(e.dir, p.Base, p.Ext, p.PairIndex)
}

// Emit copies p.Source and writes p.Caption verbatim. Existing outputs are
// replaced. A pair is all or nothing: when the caption cannot be written the
// image copy is removed again. The returned error names the file that
// failed.
func (e *Emitter) Emit(ctx context.Context, p reconcile.Pairable) (Result, error) {
	imgPath, capPath := e.Paths(p)
	res := Result{Image: imgPath, Caption: capPath, DryRun: e.dryRun}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	if e.dryRun {
		return res, nil
	}

	src, err := os.Open(p.Source)
	if err != nil {
		return res, fmt.Errorf("open source: %w", err)
	}
	defer src.Close()
	fi, err := src.Stat()
	if err != nil {
		return res, fmt.Errorf("stat source: %w", err)
	}

	n, err := writeAtomic(ctx, imgPath, src, e.fileMode)
	if err != nil {
		return res, fmt.Errorf("copy %s: %w", p.Source, err)
	}

	m, err := writeAtomic(ctx, capPath, strings.NewReader(p.Caption), e.fileMode)
	if err != nil {
		discard(imgPath)
		return res, fmt.Errorf("write caption %s: %w", capPath, err)
	}

	mtime := fi.ModTime()
	for _, out := range []string{imgPath, capPath} {
		if err := os.Chtimes(out, mtime, mtime); err != nil {
			discard(imgPath, capPath)
			return res, fmt.Errorf("set times %s: %w", out, err)
		}
	}
	res.Bytes = n + m
	return res, nil
}

// discard removes the already-written half of a failed pair so the output
// directory never holds an image without its caption.
func discard(paths ...string) {
	for _, p := range paths {
		_ = os.Remove(p)
	}
}
