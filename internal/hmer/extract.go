package hmer

import (
	"fmt"

	"hmerize/internal/seqmask"
)

// Kmerize adds every window of one size to d.
func (s *Scratch) Kmerize(d *Dedup, mask seqmask.Mask, amb seqmask.Map, size int) error {
	for off := 0; off+size <= len(mask); off++ {
		n, ok := seqmask.Count(mask, amb, off, size)
		if !ok {
			return fmt.Errorf("window %d+%d: %w", off, size, ErrWindowOverflow)
		}
		d.Add(s.Window(mask, amb, off, size, n), uint64(off))
	}
	return nil
}

// Extract runs every size over one sequence and returns its distinct hmers.
// s must have been planned for the sequence.
func (s *Scratch) Extract(mask seqmask.Mask, amb seqmask.Map, sizes []int) ([]Pack, error) {
	d := NewDedup(dedupHint(len(mask), sizes))
	for _, k := range sizes {
		if err := s.Kmerize(d, mask, amb, k); err != nil {
			return nil, err
		}
	}
	return d.Packs(), nil
}

// dedupHint bounds the initial set size by the window count and by the
// theoretical k-mer space.
func dedupHint(n int, sizes []int) int {
	windows := 0
	for _, k := range sizes {
		if n >= k {
			windows += n - k + 1
		}
	}
	if total, ok := TheoreticalTotal(sizes); ok && total < uint64(windows) {
		return int(total)
	}
	return windows
}
