// Package reconcile classifies caption index rows against an image
// directory. Classification is sequential and lazy; pair indices are
// assigned here, in row order, so later stages never influence naming.
package reconcile

import (
	"iter"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/backmassage/quiltpair/internal/imagedir"
	"github.com/backmassage/quiltpair/internal/index"
	"github.com/backmassage/quiltpair/internal/naming"
)

// Options tunes classification.
type Options struct {
	// Accept decides whether an extension (with dot) is allowed. Defaults to
	// imagedir.IsImageExt.
	Accept func(ext string) bool
}

// Reconciler matches rows against a pre-indexed image directory.
type Reconciler struct {
	dir    *imagedir.Dir
	accept func(string) bool
}

// New returns a Reconciler over dir.
func New(dir *imagedir.Dir, opts Options) *Reconciler {
	accept := opts.Accept
	if accept == nil {
		accept = imagedir.IsImageExt
	}
	return &Reconciler{dir: dir, accept: accept}
}

// Classify yields one Classification per row of idx, in row order. Every
// call starts a fresh pair counter, so iterating twice yields the same
// sequence.
func (r *Reconciler) Classify(idx *index.Index) iter.Seq[Classification] {
	return func(yield func(Classification) bool) {
		counter := naming.NewPairCounter()
		for _, row := range idx.Rows {
			if !yield(r.classify(row, counter)) {
				return
			}
		}
	}
}

func (r *Reconciler) classify(row index.Row, counter *naming.PairCounter) Classification {
	if row.Malformed || malformedPath(row.ImagePath) {
		return Skipped{Row: row, Reason: ReasonMalformedPath}
	}
	if strings.TrimSpace(row.Caption) == "" {
		return Skipped{Row: row, Reason: ReasonEmptyCaption}
	}
	ref := strings.TrimSpace(row.ImagePath)
	if !r.accept(path.Ext(naming.BaseName(ref))) {
		return Skipped{Row: row, Reason: ReasonExtension}
	}
	src, ok := r.dir.Lookup(ref)
	if !ok {
		return Missing{Row: row, ImagePath: row.ImagePath}
	}

	stem, ext := naming.SplitExt(naming.BaseName(src))
	return Pairable{
		Row:       row,
		Source:    src,
		Caption:   row.Caption,
		Base:      naming.TrimPairSuffix(stem),
		Ext:       ext,
		PairIndex: counter.Next(naming.BaseKey(src)),
	}
}

// malformedPath reports references that cannot name a file: empty, a bare
// "." or "..", no stem, NUL bytes or invalid UTF-8.
func malformedPath(p string) bool {
	p = strings.TrimSpace(p)
	if p == "" || !utf8.ValidString(p) || strings.ContainsRune(p, 0) ||
		strings.ContainsRune(p, utf8.RuneError) {
		return true
	}
	base := naming.BaseName(p)
	if base == "" || base == "." || base == ".." {
		return true
	}
	stem, _ := naming.SplitExt(base)
	return strings.TrimSpace(stem) == ""
}
