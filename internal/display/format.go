// Package display formats human-facing output: the banner, sizes,
// durations and the end-of-run summary box.
package display

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatBytes returns a human-readable IEC size ("512 B", "1.5 KiB").
func FormatBytes(bytes int64) string {
	if bytes < 0 {
		return "-" + humanize.IBytes(uint64(-bytes))
	}
	return humanize.IBytes(uint64(bytes))
}

// FormatCount groups thousands ("1,000,000").
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// FormatDuration renders d at a precision that suits its size.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return d.Round(time.Second).String()
	}
}

// FormatRate returns "<n>/s" for n items over d, or "n/a" for a zero d.
func FormatRate(n int, d time.Duration) string {
	if d <= 0 {
		return "n/a"
	}
	return fmt.Sprintf("%s/s", humanize.CommafWithDigits(float64(n)/d.Seconds(), 1))
}
