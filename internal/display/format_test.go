package display

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/backmassage/quiltpair/internal/config"
	"github.com/backmassage/quiltpair/internal/term"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"zero", 0, "0 B"},
		{"small bytes", 512, "512 B"},
		{"exactly 1 KiB", 1024, "1.0 KiB"},
		{"1.5 KiB", 1536, "1.5 KiB"},
		{"1 MiB", 1024 * 1024, "1.0 MiB"},
		{"typical shard 700 MiB", 734003200, "700 MiB"},
		{"negative", -2048, "-2.0 KiB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatBytes(tt.bytes)
			if got != tt.want {
				t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestFormatCount(t *testing.T) {
	if got := FormatCount(1000000); got != "1,000,000" {
		t.Errorf("FormatCount = %q", got)
	}
	if got := FormatCount(7); got != "7" {
		t.Errorf("FormatCount = %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{250 * time.Millisecond, "250ms"},
		{1500 * time.Millisecond, "1.5s"},
		{90*time.Second + 400*time.Millisecond, "1m30s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatRate(t *testing.T) {
	if got := FormatRate(10, 0); got != "n/a" {
		t.Errorf("zero duration: %q", got)
	}
	if got := FormatRate(3000, 2*time.Second); got != "1,500/s" {
		t.Errorf("FormatRate = %q", got)
	}
}

func TestRenderSummary_Plain(t *testing.T) {
	term.Configure(config.ColorNever)
	out := RenderSummary("Summary", []Field{
		{Label: "pairs_created", Value: "3", Tone: ToneGood},
		{Label: "errors", Value: "0"},
	})
	lines := strings.Split(out, "\n")
	if len(lines) != 3 || strings.TrimRight(lines[0], " ") != "Summary" {
		t.Fatalf("got %q", out)
	}
	if !strings.HasPrefix(lines[1], "pairs_created:  3") {
		t.Errorf("line 1 = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "errors:") || !strings.Contains(lines[2], "0") {
		t.Errorf("line 2 = %q", lines[2])
	}
	if strings.Contains(out, "\033[") {
		t.Errorf("plain summary contains escape codes: %q", out)
	}
}

func TestPrintBanner_NoColor(t *testing.T) {
	term.Configure(config.ColorNever)
	var buf bytes.Buffer
	PrintBanner(&buf)
	if strings.Contains(buf.String(), "\033[") || !strings.Contains(buf.String(), "|_|") {
		t.Errorf("banner = %q", buf.String())
	}
}
