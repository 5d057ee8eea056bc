package imagestats

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// decodable lists the extensions whose headers can be read.
var decodable = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// IsDecodable reports whether a file name has an extension this package
// can read.
func IsDecodable(name string) bool {
	return decodable[strings.ToLower(filepath.Ext(name))]
}

// Probe reads the header of the image at path.
func Probe(path string) (Size, error) {
	f, err := os.Open(path)
	if err != nil {
		return Size{}, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return Size{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return Size{Width: cfg.Width, Height: cfg.Height}, nil
}

// Collect probes every path with up to workers goroutines. Files that
// cannot be decoded are counted in Stats.Failed and passed to onFail when
// it is non-nil. Only cancellation of ctx returns an error.
func Collect(ctx context.Context, paths []string, workers int, onFail func(path string, err error)) (*Stats, error) {
	start := time.Now()
	var (
		mu     sync.Mutex
		sizes  = make([]Size, 0, len(paths))
		failed int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for _, p := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sz, err := Probe(p)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				if onFail != nil {
					onFail(p, err)
				}
				return nil
			}
			sizes = append(sizes, sz)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := Summarize(sizes, failed)
	s.ElapsedSeconds = time.Since(start).Seconds()
	return s, nil
}
