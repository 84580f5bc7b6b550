// Package hmer is the ambiguity-aware k-mer engine. It plans scratch buffers
// for a sequence, expands each window into its concrete variants, packs every
// variant into a length-tagged hash ("hmer") and deduplicates hashes per
// sequence while tracking the first and last window offset of each.
package hmer

import (
	"errors"
	"math/bits"
)

// MaxSize is the largest k-mer size whose tagged hash fits a uint64
// (2 bits per base plus one tag bit).
const MaxSize = 31

var (
	// ErrSizeOverflow reports a requested k-mer size whose hash space does not
	// fit the hash integer.
	ErrSizeOverflow = errors.New("k-mer size exceeds representable hash range")
	// ErrWindowOverflow reports a window whose variant count does not fit a uint64.
	ErrWindowOverflow = errors.New("window expansion exceeds representable range")
)

// Hash is a packed k-mer: 2 bits per base, first base most significant,
// plus Tag(size). Hashes of different sizes occupy disjoint ranges
// [4^k, 2·4^k).
type Hash uint64

// Tag is the length offset added to every hash of the given size.
func Tag(size int) Hash { return Hash(1) << (2 * uint(size)) }

// PackCodes folds 2-bit codes into a tagged hash.
func PackCodes(codes []uint8) Hash {
	var h Hash
	for _, c := range codes {
		h = h<<2 | Hash(c&3)
	}
	return h + Tag(len(codes))
}

// Size recovers the k-mer size from the tag bit.
func (h Hash) Size() int {
	if h == 0 {
		return 0
	}
	return (bits.Len64(uint64(h)) - 1) / 2
}

var codeBase = [4]byte{'A', 'C', 'T', 'G'}

// Kmer decodes the hash back to its bases.
func (h Hash) Kmer() string {
	k := h.Size()
	out := make([]byte, k)
	v := uint64(h - Tag(k))
	for i := k - 1; i >= 0; i-- {
		out[i] = codeBase[v&3]
		v >>= 2
	}
	return string(out)
}
