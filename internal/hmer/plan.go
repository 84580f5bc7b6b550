package hmer

import (
	"errors"
	"fmt"
	"math/bits"

	"hmerize/internal/seqmask"
)

// Plan sizes the scratch buffers shared by every window of a sequence or chunk.
type Plan struct {
	Variants uint64 // largest variant count of any planned window
	Size     int    // largest window size
}

// Merge returns the element-wise maximum of two plans.
func (p Plan) Merge(q Plan) Plan {
	if q.Variants > p.Variants {
		p.Variants = q.Variants
	}
	if q.Size > p.Size {
		p.Size = q.Size
	}
	return p
}

// Cells is Variants×Size; ok is false on overflow.
func (p Plan) Cells() (uint64, bool) {
	hi, lo := bits.Mul64(p.Variants, uint64(p.Size))
	return lo, hi == 0
}

// PlanSequence walks every window of every size and records the worst case.
func PlanSequence(mask seqmask.Mask, amb seqmask.Map, sizes []int) (Plan, error) {
	p := Plan{Variants: 1}
	for _, k := range sizes {
		if k > p.Size {
			p.Size = k
		}
		for off := 0; off+k <= len(mask); off++ {
			n, ok := seqmask.Count(mask, amb, off, k)
			if !ok {
				return Plan{}, fmt.Errorf("window %d+%d: %w", off, k, ErrWindowOverflow)
			}
			if n > p.Variants {
				p.Variants = n
			}
		}
	}
	return p, nil
}

var (
	// ErrVariantBudget reports a plan whose row count exceeds Limits.MaxVariants.
	ErrVariantBudget = errors.New("variant buffer over budget")
	// ErrCellBudget reports a plan whose matrix exceeds Limits.MaxCells.
	ErrCellBudget = errors.New("deambiguation buffer over budget")
)

// Limits bounds scratch allocation. Zero fields, and fields above Ceiling,
// use the Ceiling value.
type Limits struct {
	MaxVariants uint64 // rows of the deambiguation matrix (and hash buffer length)
	MaxCells    uint64 // rows × columns of the deambiguation matrix
}

// DefaultLimits keeps a single scratch under ~256 MiB.
var DefaultLimits = Limits{MaxVariants: 1 << 22, MaxCells: 1 << 28}

// Ceiling bounds every scratch: 512 MiB of hashes, 1 GiB of matrix.
var Ceiling = Limits{MaxVariants: 1 << 26, MaxCells: 1 << 30}

// Effective resolves zero and oversized fields against Ceiling.
func (l Limits) Effective() Limits {
	if l.MaxVariants == 0 || l.MaxVariants > Ceiling.MaxVariants {
		l.MaxVariants = Ceiling.MaxVariants
	}
	if l.MaxCells == 0 || l.MaxCells > Ceiling.MaxCells {
		l.MaxCells = Ceiling.MaxCells
	}
	return l
}

// Check rejects plans the limits cannot serve.
func (l Limits) Check(p Plan) error {
	l = l.Effective()
	if p.Variants > l.MaxVariants {
		return fmt.Errorf("%w: %d rows > %d", ErrVariantBudget, p.Variants, l.MaxVariants)
	}
	cells, ok := p.Cells()
	if !ok || cells > l.MaxCells {
		return fmt.Errorf("%w: %d×%d cells > %d", ErrCellBudget, p.Variants, p.Size, l.MaxCells)
	}
	return nil
}

// Clamp lowers p.Variants until p passes Check. Windows with more variants
// than the clamped plan do not fit its scratch.
func (l Limits) Clamp(p Plan) Plan {
	l = l.Effective()
	if p.Variants > l.MaxVariants {
		p.Variants = l.MaxVariants
	}
	if p.Size > 0 && p.Variants*uint64(p.Size) > l.MaxCells {
		p.Variants = l.MaxCells / uint64(p.Size)
	}
	return p
}
