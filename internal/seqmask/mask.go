// Package seqmask turns a sequence into the per-position form the k-mer
// engine works on: an ambiguous map with one entry per IUPAC ambiguity
// symbol, and a hashmask of tagged cells.
package seqmask

import (
	"errors"
	"fmt"
)

var (
	// ErrMapSize is returned when the ambiguous map cannot be sized from the
	// declared ambiguous count.
	ErrMapSize = errors.New("ambiguous map size")
	// ErrMaskSize is returned when the hashmask cannot be sized from the
	// declared sequence length.
	ErrMaskSize = errors.New("hashmask size")
)

// Entry is one ambiguous position of a sequence.
type Entry struct {
	Pos int32
	Branch
}

// Map lists ambiguous positions in sequence order.
type Map []Entry

// Cell is one hashmask position: either a concrete 2-bit code or a reference
// to an ambiguous map entry. The zero Cell is Concrete(0).
type Cell struct {
	ref  int32 // map index + 1; 0 for concrete cells
	code uint8
}

// Concrete returns a cell holding a 2-bit base code.
func Concrete(code uint8) Cell { return Cell{code: code & 3} }

// Ambiguous returns a cell referencing ambiguous map entry i.
func Ambiguous(i int) Cell { return Cell{ref: int32(i) + 1} }

func (c Cell) IsAmbiguous() bool { return c.ref != 0 }
func (c Cell) Code() uint8 { return c.code }

// Index is the ambiguous map index; only meaningful when IsAmbiguous.
func (c Cell) Index() int { return int(c.ref) - 1 }

// Mask is the hashmask of a sequence.
type Mask []Cell

// BuildMap scans seq[:n] once and records every ambiguity symbol.
// declared sizes the allocation and is trusted: a wrong value only costs a
// reallocation or slack capacity.
func BuildMap(seq string, n, declared int) (Map, error) {
	if n < 0 || n > len(seq) {
		return nil, fmt.Errorf("%w: length %d outside sequence of %d", ErrMaskSize, n, len(seq))
	}
	if declared < 0 || declared > n {
		return nil, fmt.Errorf("%w: declared %d for length %d", ErrMapSize, declared, n)
	}
	m := make(Map, 0, declared)
	for i := 0; i < n; i++ {
		if b := table[seq[i]]; b.Alts > 0 {
			m = append(m, Entry{Pos: int32(i), Branch: b})
		}
	}
	return m, nil
}

// BuildMask encodes seq[:n] and overwrites the positions listed in amb with
// references into it.
func BuildMask(seq string, n int, amb Map) (Mask, error) {
	if n < 0 || n > len(seq) {
		return nil, fmt.Errorf("%w: length %d outside sequence of %d", ErrMaskSize, n, len(seq))
	}
	mask := make(Mask, n)
	for i := 0; i < n; i++ {
		mask[i] = Concrete(Code(seq[i]))
	}
	for i, e := range amb {
		mask[e.Pos] = Ambiguous(i)
	}
	return mask, nil
}

// Build returns the hashmask and ambiguous map of seq[:n].
func Build(seq string, n, declared int) (Mask, Map, error) {
	amb, err := BuildMap(seq, n, declared)
	if err != nil {
		return nil, nil, err
	}
	mask, err := BuildMask(seq, n, amb)
	if err != nil {
		return nil, nil, err
	}
	return mask, amb, nil
}
