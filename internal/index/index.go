// Package index loads the tabular caption index (CSV, TSV or XLSX) into an
// ordered, read-only table of image path / caption rows.
//
// The whole file is read inside [Load]; pair indices are derived from row
// order, so the table must be resident before reconciliation starts.
package index

import (
	"errors"
	"fmt"
	"strings"

	"github.com/backmassage/quiltpair/internal/naming"
)

// Sentinel errors wrapped by [LoadError].
var (
	ErrMissingColumn = errors.New("required column not found")
	ErrEmptyIndex    = errors.New("index has no header row")
)

// LoadError reports a fatal failure to load an index file.
type LoadError struct {
	Path string
	Op   string // "open", "read", "header"
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("index %s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Row is one data record of the index.
type Row struct {
	Line      int // 1-based record number in the source, header is line 1
	ImagePath string
	Caption   string

	// Malformed is set when the record could not be parsed or its image
	// path is not usable text; MalformedReason says why.
	Malformed       bool
	MalformedReason string
}

// Index is the loaded caption table. Rows keep source order.
type Index struct {
	Path   string
	Format Format
	Header []string
	Rows   []Row
	Sheet  string // XLSX only: the sheet rows were read from

	imgCol int
	capCol int
}

// Len returns the number of data rows.
func (ix *Index) Len() int { return len(ix.Rows) }

// Columns returns the header positions of the image and caption columns.
func (ix *Index) Columns() (image, caption int) { return ix.imgCol, ix.capCol }

// Options selects the required columns.
type Options struct {
	ImageColumn   string // Default: "image_path".
	CaptionColumn string // Default: "caption".
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.ImageColumn) == "" {
		o.ImageColumn = "image_path"
	}
	if strings.TrimSpace(o.CaptionColumn) == "" {
		o.CaptionColumn = "caption"
	}
	return o
}

// Format is the on-disk layout of an index file.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatXLSX Format = "xlsx"
)

// DetectFormat chooses the reader from the file extension. Anything that
// is not tab-separated or a workbook is read as CSV.
func DetectFormat(path string) Format {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".tsv"), strings.HasSuffix(lower, ".tab"):
		return FormatTSV
	case strings.HasSuffix(lower, ".xlsx"), strings.HasSuffix(lower, ".xlsm"):
		return FormatXLSX
	default:
		return FormatCSV
	}
}

// CaptionsByBase groups non-empty trimmed captions by the base file name of
// their image path, preserving row order within each group. Rows with a
// malformed or empty path are dropped.
func (ix *Index) CaptionsByBase() map[string][]string {
	out := make(map[string][]string)
	for _, r := range ix.Rows {
		if r.Malformed {
			continue
		}
		p := strings.TrimSpace(r.ImagePath)
		c := strings.TrimSpace(r.Caption)
		if p == "" || c == "" {
			continue
		}
		name := naming.BaseName(p)
		out[name] = append(out[name], c)
	}
	return out
}
