package seqkmer

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// openReader opens path ("-" is stdin) and transparently decompresses gzip
// and zstd, detected by magic number or suffix.
func openReader(path string) (io.ReadCloser, error) {
	var fh io.ReadCloser
	if path == "-" {
		fh = io.NopCloser(os.Stdin)
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		fh = f
	}

	br := bufio.NewReaderSize(fh, 1<<16)
	sig, _ := br.Peek(4)
	switch {
	case (len(sig) >= 2 && sig[0] == 0x1f && sig[1] == 0x8b) || strings.HasSuffix(path, ".gz"):
		gr, err := gzip.NewReader(br)
		if err != nil {
			_ = fh.Close()
			return nil, errors.Wrapf(err, "opening gzip stream %q", path)
		}
		return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, fh}}, nil
	case (len(sig) == 4 && sig[0] == 0x28 && sig[1] == 0xb5 && sig[2] == 0x2f && sig[3] == 0xfd) ||
		strings.HasSuffix(path, ".zst"):
		zr, err := zstd.NewReader(br)
		if err != nil {
			_ = fh.Close()
			return nil, errors.Wrapf(err, "opening zstd stream %q", path)
		}
		return &multiReadCloser{Reader: zr, closers: []io.Closer{closerFunc(func() error { zr.Close(); return nil }), fh}}, nil
	}
	return &multiReadCloser{Reader: br, closers: []io.Closer{fh}}, nil
}
