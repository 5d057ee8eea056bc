package imagestats

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"slices"
)

// Size is the pixel dimensions of one image.
type Size struct {
	Width  int
	Height int
}

// Dimension summarises one axis across all decoded images.
type Dimension struct {
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
}

// Stats is the dataset summary written by stats mode.
type Stats struct {
	Count          int       `json:"count"`
	Failed         int       `json:"failed"`
	Width          Dimension `json:"width"`
	Height         Dimension `json:"height"`
	ElapsedSeconds float64   `json:"processing_time_seconds"`
}

// Summarize computes Stats over sizes. failed is carried through as-is.
func Summarize(sizes []Size, failed int) *Stats {
	s := &Stats{Count: len(sizes), Failed: failed}
	if len(sizes) == 0 {
		return s
	}
	w := make([]int, len(sizes))
	h := make([]int, len(sizes))
	for i, sz := range sizes {
		w[i], h[i] = sz.Width, sz.Height
	}
	s.Width = summarize(w)
	s.Height = summarize(h)
	return s
}

// summarize uses the population standard deviation.
func summarize(v []int) Dimension {
	slices.Sort(v)
	var sum, sq float64
	for _, x := range v {
		f := float64(x)
		sum += f
		sq += f * f
	}
	n := float64(len(v))
	mean := sum / n
	variance := sq/n - mean*mean
	if variance < 0 {
		variance = 0
	}

	var median float64
	if mid := len(v) / 2; len(v)%2 == 1 {
		median = float64(v[mid])
	} else {
		median = float64(v[mid-1]+v[mid]) / 2
	}
	return Dimension{
		Min:    v[0],
		Max:    v[len(v)-1],
		Mean:   mean,
		Median: median,
		Std:    math.Sqrt(variance),
	}
}

// WriteJSON writes s as indented JSON to path.
func (s *Stats) WriteJSON(path string) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("write stats: %w", err)
	}
	return nil
}
