package display

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/backmassage/quiltpair/internal/term"
)

// Tone selects the color of a summary value.
type Tone int

const (
	ToneNormal Tone = iota
	ToneGood
	ToneWarn
	ToneBad
)

// Field is one "label: value" line of a summary box.
type Field struct {
	Label string
	Value string
	Tone  Tone
}

var toneColors = map[Tone]lipgloss.Color{
	ToneGood: lipgloss.Color("10"),
	ToneWarn: lipgloss.Color("11"),
	ToneBad:  lipgloss.Color("9"),
}

// RenderSummary lays out fields as an aligned block under title. With
// colors enabled the block is boxed and values are tinted by tone.
func RenderSummary(title string, fields []Field) string {
	width := 0
	for _, f := range fields {
		width = max(width, len(f.Label))
	}

	color := term.Enabled()
	labelStyle := lipgloss.NewStyle().Width(width + 3)
	lines := make([]string, 0, len(fields)+1)
	if color {
		lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")).Render(title))
	} else {
		lines = append(lines, title)
	}
	for _, f := range fields {
		value := f.Value
		if c, ok := toneColors[f.Tone]; ok && color {
			value = lipgloss.NewStyle().Foreground(c).Render(value)
		}
		lines = append(lines, labelStyle.Render(f.Label+":")+value)
	}
	body := lipgloss.JoinVertical(lipgloss.Left, lines...)
	if !color {
		return body
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1).
		Render(body)
}

// PrintSummary writes RenderSummary's output followed by a newline.
func PrintSummary(w io.Writer, title string, fields []Field) {
	s := RenderSummary(title, fields)
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, _ = io.WriteString(w, s)
}
