package naming

import (
	"path"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// rePairSuffix matches a pair suffix already present on a stem, so that
// re-pairing "a_pair0.jpg" groups it with "a.jpg".
var rePairSuffix = regexp.MustCompile(`_pair[0-9]+$`)

// BaseName returns the last element of an index path. Both separators are
// recognised: index files are produced on any OS.
func BaseName(p string) string {
	p = strings.TrimRight(p, `/\`)
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}

// SplitExt splits a file name into stem and extension (with the dot). The
// extension keeps its original spelling.
func SplitExt(name string) (stem, ext string) {
	ext = path.Ext(name)
	return strings.TrimSuffix(name, ext), ext
}

// Fold returns the comparison form of a name: Unicode NFC with full case
// folding. Two names that differ only in case or composition fold equal.
func Fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// TrimPairSuffix removes a trailing "_pair<N>" from stem.
func TrimPairSuffix(stem string) string {
	return rePairSuffix.ReplaceAllString(stem, "")
}

// BaseKey is the grouping key for pair index assignment: the folded stem of
// the base name with any trailing "_pair<N>" removed.
func BaseKey(name string) string {
	stem, _ := SplitExt(BaseName(name))
	return Fold(TrimPairSuffix(stem))
}
