package pipeline

import (
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/backmassage/quiltpair/internal/config"
	"github.com/backmassage/quiltpair/internal/term"
)

// progress wraps a terminal progress bar. The zero value and a nil
// pointer are silent, so callers never branch on whether a bar is shown.
type progress struct {
	bar *progressbar.ProgressBar
}

// newProgress returns a bar on stderr when progress is enabled and stderr
// is a terminal; otherwise a silent progress.
func newProgress(cfg *config.Config, total int64, desc string) *progress {
	if !cfg.ShowProgress || total <= 0 || !term.IsTerminal(os.Stderr) {
		return &progress{}
	}
	return &progress{bar: progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("rows"),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionEnableColorCodes(term.Enabled()),
	)}
}

func (p *progress) add(n int) {
	if p == nil || p.bar == nil {
		return
	}
	_ = p.bar.Add(n)
}

func (p *progress) finish() {
	if p == nil || p.bar == nil {
		return
	}
	_ = p.bar.Finish()
	p.bar = nil
}
