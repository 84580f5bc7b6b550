package hmer

import (
	"errors"
	"fmt"

	"hmerize/internal/seqmask"
)

// ErrNotConcrete reports a theoretical k-mer with a base outside A/C/G/T.
var ErrNotConcrete = errors.New("k-mer has non A/C/G/T base")

// HashKmer packs an unambiguous k-mer.
func HashKmer(kmer string) (Hash, error) {
	if len(kmer) > MaxSize {
		return 0, fmt.Errorf("k-mer %q: %w", kmer, ErrSizeOverflow)
	}
	var h Hash
	for i := 0; i < len(kmer); i++ {
		c := kmer[i]
		if c != 'A' && c != 'C' && c != 'G' && c != 'T' {
			return 0, fmt.Errorf("k-mer %q at %d: %w", kmer, i, ErrNotConcrete)
		}
		h = h<<2 | Hash(seqmask.Code(c))
	}
	return h + Tag(len(kmer)), nil
}

// Theoretical hashes fixed-size unambiguous k-mers without position tracking.
func Theoretical(kmers []string, size int) (map[Hash]struct{}, error) {
	if _, err := CheckSizes([]int{size}); err != nil {
		return nil, err
	}
	out := make(map[Hash]struct{}, len(kmers))
	for _, km := range kmers {
		if len(km) != size {
			return nil, fmt.Errorf("k-mer %q: length %d, want %d", km, len(km), size)
		}
		h, err := HashKmer(km)
		if err != nil {
			return nil, err
		}
		out[h] = struct{}{}
	}
	return out, nil
}

const enumBases = "ATGC"

// Enumerate calls fn for every k-mer of the given size over A/T/G/C, the last
// position changing fastest. It stops early when fn returns false.
func Enumerate(size int, fn func(kmer string) bool) {
	if size < 1 {
		return
	}
	digits := make([]int, size)
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = enumBases[0]
	}
	for {
		if !fn(string(buf)) {
			return
		}
		i := size - 1
		for ; i >= 0; i-- {
			digits[i]++
			if digits[i] < len(enumBases) {
				buf[i] = enumBases[digits[i]]
				break
			}
			digits[i] = 0
			buf[i] = enumBases[0]
		}
		if i < 0 {
			return
		}
	}
}
