// Package record defines the sequence record handed to the k-mer engine and
// helpers to build and batch streams of them.
package record

import (
	"context"
	"strings"

	"hmerize/internal/seqmask"
)

// Record is one sequence at the engine boundary.
// Ambiguous must equal the number of ambiguity symbols in Seq[:Len]; it is
// trusted, not re-verified.
type Record struct {
	ID        uint64
	Seq       string
	Len       int
	Ambiguous int
}

// Named pairs a record with the name it was read under (FASTA header, primer id).
type Named struct {
	Record
	Name string
}

// New upper-cases seq and fills Len and Ambiguous from it.
func New(id uint64, seq string) Record {
	seq = strings.ToUpper(seq)
	return Record{ID: id, Seq: seq, Len: len(seq), Ambiguous: CountAmbiguous(seq)}
}

// CountAmbiguous counts IUPAC ambiguity symbols in seq.
func CountAmbiguous(seq string) int {
	n := 0
	for i := 0; i < len(seq); i++ {
		if seqmask.IsAmbiguous(seq[i]) {
			n++
		}
	}
	return n
}

// Slice streams recs on a closed channel. Useful for callers that already hold
// a materialized batch.
func Slice(recs []Record) <-chan Record {
	out := make(chan Record, len(recs))
	for _, r := range recs {
		out <- r
	}
	close(out)
	return out
}

// Chunks groups in into slices of at most n records (n<1 → 1).
// The output closes when in closes or ctx is done.
func Chunks(ctx context.Context, in <-chan Record, n int) <-chan []Record {
	if n < 1 {
		n = 1
	}
	out := make(chan []Record, 1)
	go func() {
		defer close(out)
		buf := make([]Record, 0, n)
		emit := func() bool {
			if len(buf) == 0 {
				return true
			}
			select {
			case out <- buf:
			case <-ctx.Done():
				return false
			}
			buf = make([]Record, 0, n)
			return true
		}
		for {
			select {
			case <-ctx.Done():
				return
			case r, ok := <-in:
				if !ok {
					emit()
					return
				}
				buf = append(buf, r)
				if len(buf) == n && !emit() {
					return
				}
			}
		}
	}()
	return out
}
