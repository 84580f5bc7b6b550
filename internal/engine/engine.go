package engine

import (
	"fmt"

	"hmerize/internal/hmer"
	"hmerize/internal/primer"
	"hmerize/internal/record"
	"hmerize/internal/seqmask"
)

// Config bounds the scratch a single chunk may allocate.
type Config struct {
	Limits hmer.Limits
	// MaxChunkBases caps the summed length of the records of one chunk,
	// which sizes the hashmasks held at once. Zero disables the bound.
	MaxChunkBases uint64
}

// Stats counts the work done for one chunk.
type Stats struct {
	Records    uint64
	Windows    uint64 // windows expanded
	Variants   uint64 // variant rows hashed
	Skipped    uint64 // primer windows not scanned
	OverBudget uint64 // Skipped windows below the guard that did not fit the scratch
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Records += o.Records
	s.Windows += o.Windows
	s.Variants += o.Variants
	s.Skipped += o.Skipped
	s.OverBudget += o.OverBudget
}

type Engine struct{ cfg Config }

func New(c Config) *Engine { return &Engine{cfg: c} }

// Matched holds the match state of every primer against one target.
type Matched struct {
	SeqID  uint64
	States []primer.State
}

/* -------------------------------------------------------------------------- */
/*                               preparation                                  */
/* -------------------------------------------------------------------------- */

type prepared struct {
	id   uint64
	mask seqmask.Mask
	amb  seqmask.Map
}

// prepare builds the hashmask and ambiguous map of every record in chunk.
func (e *Engine) prepare(op string, chunk []record.Record) ([]prepared, error) {
	var bases uint64
	for _, r := range chunk {
		if r.Len > 0 {
			bases += uint64(r.Len)
		}
	}
	if e.cfg.MaxChunkBases > 0 && bases > e.cfg.MaxChunkBases {
		return nil, &Error{Kind: KindChunk, Op: op, Err: fmt.Errorf("%w: %d bases in %d records > %d",
			ErrChunkBudget, bases, len(chunk), e.cfg.MaxChunkBases)}
	}
	out := make([]prepared, 0, len(chunk))
	seen := make(map[uint64]struct{}, len(chunk))
	for _, r := range chunk {
		if _, dup := seen[r.ID]; dup {
			return nil, DuplicateID(op, r.ID)
		}
		seen[r.ID] = struct{}{}
		mask, amb, err := seqmask.Build(r.Seq, r.Len, r.Ambiguous)
		if err != nil {
			return nil, classify(op, fmt.Errorf("sequence %d: %w", r.ID, err))
		}
		out = append(out, prepared{id: r.ID, mask: mask, amb: amb})
	}
	return out, nil
}

// DuplicateID reports a second record with the same id within one call.
func DuplicateID(op string, id uint64) error {
	return &Error{Kind: KindResult, Op: op, Err: fmt.Errorf("sequence %d: %w", id, ErrDuplicateID)}
}

// checkPlan verifies the plan of one record before it joins the chunk plan.
func (e *Engine) checkPlan(op string, id uint64, p hmer.Plan) error {
	if err := e.cfg.Limits.Check(p); err != nil {
		return classify(op, fmt.Errorf("sequence %d: %w", id, err))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/*                                 k-mers                                     */
/* -------------------------------------------------------------------------- */

// ParseChunk extracts the distinct hmers of every record for every size.
// One scratch, sized to the chunk's worst window, serves the whole chunk.
// Results follow chunk order.
func (e *Engine) ParseChunk(chunk []record.Record, sizes []int) ([]hmer.Parsed, Stats, error) {
	const op = "parse"
	sizes, err := hmer.CheckSizes(sizes)
	if err != nil {
		return nil, Stats{}, classify(op, err)
	}
	preps, err := e.prepare(op, chunk)
	if err != nil {
		return nil, Stats{}, err
	}

	plan := hmer.Plan{Variants: 1}
	for _, p := range preps {
		sp, err := hmer.PlanSequence(p.mask, p.amb, sizes)
		if err != nil {
			return nil, Stats{}, classify(op, fmt.Errorf("sequence %d: %w", p.id, err))
		}
		if err := e.checkPlan(op, p.id, sp); err != nil {
			return nil, Stats{}, err
		}
		plan = plan.Merge(sp)
	}

	s := hmer.NewScratch(plan)
	out := make([]hmer.Parsed, 0, len(preps))
	for _, p := range preps {
		packs, err := s.Extract(p.mask, p.amb, sizes)
		if err != nil {
			return nil, Stats{}, classify(op, fmt.Errorf("sequence %d: %w", p.id, err))
		}
		out = append(out, hmer.Parsed{SeqID: p.id, Hmers: packs})
	}
	return out, Stats{Records: uint64(len(preps)), Windows: s.Windows, Variants: s.Variants}, nil
}

/* -------------------------------------------------------------------------- */
/*                                 primers                                    */
/* -------------------------------------------------------------------------- */

// BuildPrimers deambiguates every primer into its reference hash set.
func (e *Engine) BuildPrimers(recs []record.Record) ([]primer.Primer, error) {
	const op = "primer"
	out := make([]primer.Primer, 0, len(recs))
	seen := make(map[uint64]struct{}, len(recs))
	for _, r := range recs {
		if _, dup := seen[r.ID]; dup {
			return nil, DuplicateID(op, r.ID)
		}
		seen[r.ID] = struct{}{}
		p, err := primer.Build(r, e.cfg.Limits)
		if err != nil {
			return nil, classify(op, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// MatchChunk scans every target of chunk for every primer. States keep the
// primer order. The scratch is clamped to the budget; windows below the
// guard that do not fit it are skipped and counted in Stats.OverBudget.
func (e *Engine) MatchChunk(chunk []record.Record, primers []primer.Primer) ([]Matched, Stats, error) {
	const op = "match"
	preps, err := e.prepare(op, chunk)
	if err != nil {
		return nil, Stats{}, err
	}

	plan := hmer.Plan{Variants: 1}
	for _, p := range preps {
		plan = plan.Merge(primer.Plan(p.mask, p.amb, primers, e.cfg.Limits))
	}
	plan = e.cfg.Limits.Clamp(plan)

	m := primer.NewMatcher(hmer.NewScratch(plan))
	out := make([]Matched, 0, len(preps))
	for _, p := range preps {
		out = append(out, Matched{SeqID: p.id, States: m.MatchAll(p.mask, p.amb, primers)})
	}
	s := m.Scratch()
	return out, Stats{
		Records:    uint64(len(preps)),
		Windows:    s.Windows,
		Variants:   s.Variants,
		Skipped:    m.Skipped,
		OverBudget: m.OverBudget,
	}, nil
}

/* -------------------------------------------------------------------------- */
/*                               theoretical                                  */
/* -------------------------------------------------------------------------- */

// Theoretical hashes a chunk of unambiguous k-mers of one size.
func (e *Engine) Theoretical(kmers []string, size int) (map[hmer.Hash]struct{}, error) {
	out, err := hmer.Theoretical(kmers, size)
	if err != nil {
		return nil, classify("theoretical", err)
	}
	return out, nil
}
