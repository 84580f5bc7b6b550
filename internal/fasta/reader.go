// Package fasta reads FASTA (plain, gzip, or stdin) into sequence records
// numbered in reading order.
package fasta

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
)

// ScanCtx parses FASTA from r and calls emit once per record with its header
// id (the header up to the first blank) and its sequence, line breaks
// removed. The seq slice is reused after emit returns.
//
// It is cancelable: it returns promptly when ctx is done, even mid-record.
func ScanCtx(ctx context.Context, r io.Reader, emit func(name string, seq []byte) error) error {
	sc := bufio.NewScanner(r)
	const maxLine = 64 * 1024 * 1024 // allow very long single-line sequences (64 MiB)
	buf := make([]byte, 64*1024)
	sc.Buffer(buf, maxLine)

	var (
		name   string
		inRec  bool
		seq    = make([]byte, 0, 1<<16)
		lineNo int
	)
	flush := func() error {
		if !inRec {
			return nil
		}
		return emit(name, seq)
	}

	for sc.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		lineNo++
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return err
			}
			name = parseHeaderID(line[1:])
			inRec = true
			seq = seq[:0]
			continue
		}
		if line[0] == ';' {
			continue
		}
		if !inRec {
			return fmt.Errorf("fasta line %d: sequence before first header", lineNo)
		}
		seq = append(seq, bytes.TrimSpace(line)...)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("fasta scan: %w", err)
	}
	return flush()
}

func parseHeaderID(hdr []byte) string {
	hdr = bytes.TrimSpace(hdr)
	if i := bytes.IndexAny(hdr, " \t"); i >= 0 {
		return string(hdr[:i])
	}
	return string(hdr)
}
