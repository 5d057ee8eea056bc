package naming

import (
	"fmt"
	"path/filepath"
)

// CaptionExt is the extension of every caption file.
const CaptionExt = ".txt"

// PairStem returns "<base>_pair<index>".
func PairStem(base string, index int) string {
	return fmt.Sprintf("%s_pair%d", base, index)
}

// PairPaths builds the two output paths of a pair. ext includes the dot and
// is used as given.
//
//	<outputDir>/<base>_pair<index><ext>
//	<outputDir>/<base>_pair<index>.txt
func PairPaths(outputDir, base, ext string, index int) (image, caption string) {
	stem := PairStem(base, index)
	return filepath.Join(outputDir, stem+ext), filepath.Join(outputDir, stem+CaptionExt)
}

// CaptionPath returns the caption file that sits next to an image:
// "<dir>/<stem>.txt".
func CaptionPath(dir, imageName string) string {
	stem, _ := SplitExt(imageName)
	return filepath.Join(dir, stem+CaptionExt)
}
