package trace

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Open reads and parses the trace at path. Gzip and zstd input is detected
// from its magic bytes.
func Open(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, closeFn, err := decompress(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("open trace %s: %w", path, err)
	}
	defer closeFn()

	t, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse trace %s: %w", path, err)
	}
	t.Name = traceName(path)
	return t, nil
}

// decompress wraps br in a decoder when it starts with a known magic.
func decompress(br *bufio.Reader) (io.Reader, func(), error) {
	head, _ := br.Peek(len(zstdMagic))
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("gzip: %w", err)
		}
		return zr, func() { _ = zr.Close() }, nil
	case bytes.HasPrefix(head, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd: %w", err)
		}
		return zr, zr.Close, nil
	default:
		return br, func() {}, nil
	}
}

// Create writes t to path, compressing by extension (.gz or .zst).
func Create(path string, t *Trace) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	var w io.WriteCloser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		w = gzip.NewWriter(f)
	case ".zst":
		zw, zerr := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if zerr != nil {
			return fmt.Errorf("zstd: %w", zerr)
		}
		w = zw
	default:
		bw := bufio.NewWriter(f)
		if err := Write(bw, t); err != nil {
			return err
		}
		return bw.Flush()
	}

	if err := Write(w, t); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// Write emits t in trace format.
func Write(w io.Writer, t *Trace) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n%d\n%d\n%d\n", t.SuggestedHeap, t.NumIDs, len(t.Ops), t.Weight)
	for _, op := range t.Ops {
		if op.Kind == OpFree {
			fmt.Fprintf(bw, "%c %d\n", op.Kind, op.ID)
			continue
		}
		fmt.Fprintf(bw, "%c %d %d\n", op.Kind, op.ID, op.Size)
	}
	return bw.Flush()
}

// traceName strips directories and compression/trace extensions.
func traceName(path string) string {
	name := filepath.Base(path)
	for _, ext := range []string{".gz", ".zst", ".rep", ".trace"} {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}
