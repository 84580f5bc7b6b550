package seqmask

import (
	"math"
	"math/bits"
)

// Count returns the number of concrete variants of window [off, off+size):
// the product of the alternative counts of its ambiguous cells.
// ok is false when the product does not fit a uint64; n is then MaxUint64.
func Count(mask Mask, amb Map, off, size int) (n uint64, ok bool) {
	n = 1
	for _, c := range mask[off : off+size] {
		if !c.IsAmbiguous() {
			continue
		}
		hi, lo := bits.Mul64(n, uint64(amb[c.Index()].Alts))
		if hi != 0 {
			return math.MaxUint64, false
		}
		n = lo
	}
	return n, true
}
