package emit

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const copyBufSize = 256 << 10

// writeAtomic streams r into dest through a temp file in the same
// directory: write, flush, fsync, close, rename. On any failure the temp
// file is removed and dest is left as it was.
func writeAtomic(ctx context.Context, dest string, r io.Reader, perm os.FileMode) (int64, error) {
	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, ".quiltpair-*.tmp")
	if err != nil {
		return 0, err
	}
	tmpPath := tmp.Name()
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return 0, err
	}

	bw := bufio.NewWriterSize(tmp, copyBufSize)
	n, err := io.Copy(bw, &ctxReader{ctx: ctx, r: r})
	if err == nil {
		err = bw.Flush()
	}
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmpPath, dest)
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return 0, err
	}
	return n, nil
}

// WriteText atomically replaces path with text. Used for merged caption
// files and reports, which share the pair writer's crash behavior.
func WriteText(ctx context.Context, path, text string) (int64, error) {
	return writeAtomic(ctx, path, strings.NewReader(text), 0o644)
}

// ctxReader fails the copy once ctx is cancelled.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *ctxReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}
