// Package imagedir pre-indexes an image directory into an in-memory set so
// that the reconciler can answer "does this image exist" with a map lookup
// instead of a directory listing per row.
package imagedir

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/backmassage/quiltpair/internal/naming"
)

var (
	// ErrNotFound is returned by Open when the root does not exist.
	ErrNotFound = errors.New("image directory not found")
	// ErrNotDir is returned by Open when the root is not a directory.
	ErrNotDir = errors.New("image directory is not a directory")
)

// Dir is a read-only snapshot of the regular files under a root directory.
// Files are keyed three ways: slash-separated path relative to the root,
// exact base name, and folded base name. When several files share a base
// name, the lexicographically first relative path wins.
type Dir struct {
	Root string

	files  []string          // sorted relative paths
	byRel  map[string]string // rel -> rel
	byBase map[string]string // base -> rel
	byFold map[string]string // naming.Fold(base) -> rel
	images int

	unreadable []string // entries below the root the walk could not read
}

// Open walks root once and builds the lookup tables. A missing root or a
// root that is not a directory is a structural failure. Entries below the
// root that cannot be read are left out and reported by Unreadable.
func Open(root string) (*Dir, error) {
	fi, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, root)
		}
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDir, root)
	}

	sc := &scanner{root: root}
	if err := filepath.WalkDir(root, sc.visit); err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	files := sc.files
	sort.Strings(files)

	d := &Dir{
		Root:   root,
		files:  files,
		byRel:  make(map[string]string, len(files)),
		byBase: make(map[string]string, len(files)),
		byFold: make(map[string]string, len(files)),

		unreadable: sc.unreadable,
	}
	for _, rel := range files {
		d.byRel[rel] = rel
		base := path.Base(rel)
		if _, ok := d.byBase[base]; !ok {
			d.byBase[base] = rel
		}
		if f := naming.Fold(base); f != "" {
			if _, ok := d.byFold[f]; !ok {
				d.byFold[f] = rel
			}
		}
		if IsImageName(base) {
			d.images++
		}
	}
	return d, nil
}

// Lookup resolves an index reference to an absolute file path. It tries the
// cleaned relative path, then the base name, then the folded base name.
// A reference that starts with the root's own name ("quilt_1m/a.jpg") is
// also matched relative to the root.
func (d *Dir) Lookup(ref string) (string, bool) {
	ref = strings.ReplaceAll(strings.TrimSpace(ref), `\`, "/")
	if ref == "" {
		return "", false
	}
	clean := strings.TrimPrefix(path.Clean(ref), "/")
	if rel, ok := d.byRel[clean]; ok {
		return d.abs(rel), true
	}
	prefix := filepath.Base(d.Root) + "/"
	if rel, ok := d.byRel[strings.TrimPrefix(clean, prefix)]; ok {
		return d.abs(rel), true
	}
	base := path.Base(clean)
	if rel, ok := d.byBase[base]; ok {
		return d.abs(rel), true
	}
	if rel, ok := d.byFold[naming.Fold(base)]; ok {
		return d.abs(rel), true
	}
	return "", false
}

// Len returns the number of regular files indexed.
func (d *Dir) Len() int { return len(d.files) }

// ImageCount returns the number of indexed files with an accepted image
// extension.
func (d *Dir) ImageCount() int { return d.images }

// Images returns absolute paths of every indexed image, sorted by relative
// path.
func (d *Dir) Images() []string {
	return d.Select(IsImageName)
}

// Select returns absolute paths of the indexed files whose base name
// satisfies keep, sorted by relative path.
func (d *Dir) Select(keep func(name string) bool) []string {
	var out []string
	for _, rel := range d.files {
		if keep(path.Base(rel)) {
			out = append(out, d.abs(rel))
		}
	}
	return out
}

// Unreadable returns the slash-separated relative paths of entries that
// were skipped because they could not be read.
func (d *Dir) Unreadable() []string { return d.unreadable }

func (d *Dir) abs(rel string) string {
	return filepath.Join(d.Root, filepath.FromSlash(rel))
}

// scanner collects regular files during the walk. Only an error on the
// root itself stops it.
type scanner struct {
	root       string
	files      []string
	unreadable []string
}

func (sc *scanner) visit(p string, d fs.DirEntry, err error) error {
	if err != nil {
		if p == sc.root {
			return err
		}
		sc.unreadable = append(sc.unreadable, sc.rel(p))
		if d != nil && d.IsDir() {
			return fs.SkipDir
		}
		return nil
	}
	if !d.Type().IsRegular() {
		return nil
	}
	sc.files = append(sc.files, sc.rel(p))
	return nil
}

func (sc *scanner) rel(p string) string {
	rel, err := filepath.Rel(sc.root, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}
