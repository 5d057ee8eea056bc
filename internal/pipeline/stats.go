package pipeline

import (
	"time"

	"github.com/backmassage/quiltpair/internal/reconcile"
)

// RunSummary is the result of one pair-mode pass.
type RunSummary struct {
	RunID string `json:"run_id"`

	PairsCreated    int `json:"pairs_created"`
	ImagesProcessed int `json:"images_processed"`
	ImagesMissing   int `json:"images_missing"`
	RowsSkipped     int `json:"rows_skipped"`
	Errors          int `json:"errors"`

	RowsRead    int                      `json:"rows_read"`
	SkipReasons map[reconcile.Reason]int `json:"-"`
	BytesCopied int64                    `json:"bytes_copied"`
	Elapsed     time.Duration            `json:"-"`
	DryRun      bool                     `json:"dry_run"`
	Interrupted bool                     `json:"interrupted"`
}

func newRunSummary(id string, dryRun bool) RunSummary {
	return RunSummary{
		RunID:       id,
		SkipReasons: make(map[reconcile.Reason]int),
		DryRun:      dryRun,
	}
}

// Classified returns the number of rows that reached a final outcome.
// For a pass that was not interrupted it equals RowsRead.
func (s *RunSummary) Classified() int {
	return s.PairsCreated + s.ImagesMissing + s.RowsSkipped + s.Errors
}

// MergeSummary is the result of merge mode.
type MergeSummary struct {
	Entries      int // directory entries scanned
	Images       int
	NonImages    int
	Dirs         int
	Created      int // caption files written
	NoCaption    int // images with no caption in the index
	Collisions   int // images whose "<stem>.txt" was already claimed
	Errors       int
	BytesWritten int64
	Elapsed      time.Duration
	Interrupted  bool
}

// MissingImage is one entry of a missing-caption report.
type MissingImage struct {
	Path  string // relative to the image directory, slash-separated
	Empty bool   // caption file exists but holds only whitespace
}

// MissingReport is the result of missing mode.
type MissingReport struct {
	Scanned int
	Missing []MissingImage
	Absent  int
	Empty   int
	Elapsed time.Duration
}
