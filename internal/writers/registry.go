package writers

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"syscall"
)

// Options tune presentation only.
type Options struct {
	Header bool // TSV header row
}

// WriteFunc serializes one payload: []api.KmerResultV1, []api.PrimerResultV1,
// api.TheoreticalV1 or api.LimitsV1.
type WriteFunc func(w io.Writer, payload any, opt Options) error

// Writers is the registry (format → handler). Formats register in init()
// blocks of their own files.
var Writers = map[string]WriteFunc{}

// Register adds a format (idempotent last-wins).
func Register(format string, fn WriteFunc) { Writers[format] = fn }

// Formats lists the registered format names, sorted.
func Formats() []string { return slices.Sorted(maps.Keys(Writers)) }

// Write dispatches to the registered format. A downstream consumer closing
// the pipe early (like `head`) is not an error.
func Write(format string, w io.Writer, payload any, opt Options) error {
	fn, ok := Writers[format]
	if !ok {
		return fmt.Errorf("unknown output format %q (no writer registered)", format)
	}
	if err := fn(w, payload, opt); err != nil && !IsBrokenPipe(err) {
		return err
	}
	return nil
}

// IsBrokenPipe matches EPIPE and io.ErrClosedPipe, wrapped or not.
func IsBrokenPipe(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe)
}

func unsupported(format string, payload any) error {
	return fmt.Errorf("%s writer: unsupported payload %T", format, payload)
}
