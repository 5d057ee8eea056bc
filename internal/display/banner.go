package display

import (
	"fmt"
	"io"

	"github.com/backmassage/quiltpair/internal/term"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Magenta)
	fmt.Fprint(w, `             _ _ _               _
  __ _ _   _(_) | |_ _ __   __ _(_)_ __
 / _`+"`"+` | | | | | | __| '_ \ / _`+"`"+` | | '__|
| (_| | |_| | | | |_| |_) | (_| | | |
 \__, |\__,_|_|_|\__| .__/ \__,_|_|_|
    |_|             |_|
`)
	if term.Enabled() {
		fmt.Fprintln(w, term.NC)
	}
}
