// Package imagestats reads image headers and summarises width and height
// across a dataset: count, min, max, mean, median and standard deviation.
//
// Only image headers are decoded (image.DecodeConfig), so a million-file
// scan reads a few kilobytes per file. Formats: JPEG, PNG and GIF from the
// standard library; BMP, TIFF and WebP from golang.org/x/image.
package imagestats
