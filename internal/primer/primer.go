// Package primer builds reference hash sets for primers and scans target
// sequences for the first window that matches one.
package primer

import (
	"fmt"
	"math"

	"hmerize/internal/hmer"
	"hmerize/internal/record"
	"hmerize/internal/seqmask"
)

// Primer is the full deambiguation of a primer read as one window.
type Primer struct {
	ID  uint64
	Len int
	Ref map[hmer.Hash]struct{}
}

// Build expands the whole primer and collects its hashes.
func Build(r record.Record, lim hmer.Limits) (Primer, error) {
	if r.Len < 1 {
		return Primer{}, fmt.Errorf("primer %d: empty sequence", r.ID)
	}
	if r.Len > hmer.MaxSize {
		return Primer{}, fmt.Errorf("primer %d length %d: %w", r.ID, r.Len, hmer.ErrSizeOverflow)
	}
	mask, amb, err := seqmask.Build(r.Seq, r.Len, r.Ambiguous)
	if err != nil {
		return Primer{}, fmt.Errorf("primer %d: %w", r.ID, err)
	}
	n, ok := seqmask.Count(mask, amb, 0, r.Len)
	if !ok {
		return Primer{}, fmt.Errorf("primer %d: %w", r.ID, hmer.ErrWindowOverflow)
	}
	plan := hmer.Plan{Variants: n, Size: r.Len}
	if err := lim.Check(plan); err != nil {
		return Primer{}, fmt.Errorf("primer %d: %w", r.ID, err)
	}
	hashes := hmer.NewScratch(plan).Window(mask, amb, 0, r.Len, n)
	ref := make(map[hmer.Hash]struct{}, len(hashes))
	for _, h := range hashes {
		ref[h] = struct{}{}
	}
	return Primer{ID: r.ID, Len: r.Len, Ref: ref}, nil
}

// Guard is the variant count at or above which a target window is skipped:
// 4^(L/2) for L >= 16, else 4^L. It saturates at MaxUint64.
func Guard(l int) uint64 {
	e := l
	if l >= 16 {
		e = l / 2
	}
	if e >= 32 {
		return math.MaxUint64
	}
	return uint64(1) << (2 * uint(e))
}
