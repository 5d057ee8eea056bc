package imagedir

import (
	"path"
	"strings"
)

// imageExtensions is the accepted set (lowercase, with leading dot).
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".tif":  true,
	".tiff": true,
	".bmp":  true,
	".gif":  true,
}

// IsImageExt reports whether ext (with or without the leading dot) is an
// accepted image extension. Comparison ignores case.
func IsImageExt(ext string) bool {
	if ext == "" {
		return false
	}
	if ext[0] != '.' {
		ext = "." + ext
	}
	return imageExtensions[strings.ToLower(ext)]
}

// IsImageName reports whether the file name carries an accepted extension.
func IsImageName(name string) bool {
	return IsImageExt(path.Ext(name))
}

// Extensions returns the accepted extensions in a stable order.
func Extensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".tif", ".tiff", ".bmp", ".gif"}
}
