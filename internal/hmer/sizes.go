package hmer

import (
	"fmt"
	"math/bits"
)

// MaxEnumerableSize caps the sizes for which the whole theoretical k-mer
// space is enumerated.
const MaxEnumerableSize = 15

// CheckSizes validates requested k-mer sizes and drops repeats, keeping the
// request order.
func CheckSizes(sizes []int) ([]int, error) {
	if len(sizes) == 0 {
		return nil, fmt.Errorf("no k-mer sizes requested")
	}
	out := make([]int, 0, len(sizes))
	seen := make(map[int]struct{}, len(sizes))
	for _, k := range sizes {
		if k < 1 {
			return nil, fmt.Errorf("k-mer size %d: must be positive", k)
		}
		if k > MaxSize {
			return nil, fmt.Errorf("k-mer size %d: %w (max %d)", k, ErrSizeOverflow, MaxSize)
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out, nil
}

// HashBits is the smallest power-of-two integer width holding the tagged
// hashes of every requested size.
func HashBits(sizes []int) int {
	maxK := 0
	for _, k := range sizes {
		if k > maxK {
			maxK = k
		}
	}
	need := 2*maxK + 1
	w := 8
	for w < need {
		w <<= 1
	}
	return w
}

// TheoreticalTotal is Σ 4^k over sizes, the bound on distinct hmers a single
// sequence can yield. ok is false on uint64 overflow.
func TheoreticalTotal(sizes []int) (total uint64, ok bool) {
	for _, k := range sizes {
		if k < 0 || k >= 32 {
			return 0, false
		}
		var carry uint64
		total, carry = bits.Add64(total, uint64(1)<<(2*uint(k)), 0)
		if carry != 0 {
			return 0, false
		}
	}
	return total, true
}
