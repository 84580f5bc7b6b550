package hmer

import "hmerize/internal/seqmask"

// Scratch holds the deambiguation matrix and hash buffer for one planned
// sequence or chunk. It is reused across windows and is not safe for
// concurrent use.
type Scratch struct {
	rows   []uint8 // row-major, stride columns per row
	stride int
	hashes []Hash

	Windows  uint64 // windows expanded so far
	Variants uint64 // variant rows produced so far
}

// NewScratch allocates buffers for p. Check or Clamp p against Limits first;
// an unchecked plan may not be allocatable.
func NewScratch(p Plan) *Scratch {
	v := p.Variants
	if v == 0 {
		v = 1
	}
	return &Scratch{
		rows:   make([]uint8, int(v)*p.Size),
		stride: p.Size,
		hashes: make([]Hash, v),
	}
}

// Fits reports whether a window of n variants and size columns fits.
func (s *Scratch) Fits(n uint64, size int) bool {
	return n <= uint64(len(s.hashes)) && size <= s.stride
}

// Row returns variant row r of the last expanded window.
func (s *Scratch) Row(r, size int) []uint8 {
	return s.rows[r*s.stride : r*s.stride+size]
}

// Expand writes the n concrete variants of window [off, off+size) into the
// matrix. Columns are filled left to right; cum is the product of the
// alternative counts of the ambiguous cells seen so far, this one included.
// The rows are split into cum equal segments and segment j takes alternative
// j mod k, so later ambiguous positions cycle fastest.
func (s *Scratch) Expand(mask seqmask.Mask, amb seqmask.Map, off, size int, n uint64) {
	rows := int(n)
	cum := 1
	for col := 0; col < size; col++ {
		c := mask[off+col]
		if !c.IsAmbiguous() {
			code := c.Code()
			for r := 0; r < rows; r++ {
				s.rows[r*s.stride+col] = code
			}
			continue
		}
		e := amb[c.Index()]
		k := int(e.Alts)
		cum *= k
		step := rows / cum
		r, alt := 0, 0
		for seg := 0; seg < cum; seg++ {
			code := e.Alt(alt)
			for end := r + step; r < end; r++ {
				s.rows[r*s.stride+col] = code
			}
			if alt++; alt == k {
				alt = 0
			}
		}
	}
}

// Hash packs the first n rows of the matrix into the hash buffer.
func (s *Scratch) Hash(n uint64, size int) []Hash {
	out := s.hashes[:n]
	for r := range out {
		out[r] = PackCodes(s.Row(r, size))
	}
	return out
}

// Window expands and packs one window. The returned slice aliases the
// scratch and is valid until the next call.
func (s *Scratch) Window(mask seqmask.Mask, amb seqmask.Map, off, size int, n uint64) []Hash {
	s.Expand(mask, amb, off, size, n)
	s.Windows++
	s.Variants += n
	return s.Hash(n, size)
}
