package fasta

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var gzipMagic = []byte{0x1f, 0x8b}

// input is an opened FASTA source; Close releases the decompressor and the file.
type input struct {
	io.Reader
	closers []io.Closer
}

func (in *input) Close() error {
	errs := make([]error, 0, len(in.closers))
	for _, c := range in.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// Open opens path for reading; "-" is stdin. A gzip header switches to
// decompression on any source, stdin included. A ".gz" name without one
// is an error.
func Open(path string) (io.ReadCloser, error) {
	var src io.ReadCloser = io.NopCloser(os.Stdin)
	if path != "-" {
		fh, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		src = fh
	}
	br := bufio.NewReaderSize(src, 64<<10)
	head, _ := br.Peek(len(gzipMagic))
	if !bytes.Equal(head, gzipMagic) && !strings.HasSuffix(path, ".gz") {
		return &input{Reader: br, closers: []io.Closer{src}}, nil
	}
	zr, err := gzip.NewReader(br)
	if err != nil {
		_ = src.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &input{Reader: zr, closers: []io.Closer{zr, src}}, nil
}
