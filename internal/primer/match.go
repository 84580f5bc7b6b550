package primer

import (
	"hmerize/internal/hmer"
	"hmerize/internal/seqmask"
)

/* ----------------------- types --------------------- */

// State is the outcome of scanning one target for one primer. Matches counts
// the matching variant rows of the first matching window only. FirstPos is 0
// when nothing matched; check Matches > 0 for presence.
type State struct {
	PrimerID uint64
	Matches  uint64
	FirstPos uint64
}

// Plan sizes a matcher scratch for one target and a primer set: the largest
// variant count among windows below each primer's guard, and the longest
// primer, clamped to lim.
func Plan(mask seqmask.Mask, amb seqmask.Map, primers []Primer, lim hmer.Limits) hmer.Plan {
	p := hmer.Plan{Variants: 1}
	for _, pr := range primers {
		if pr.Len > p.Size {
			p.Size = pr.Len
		}
		guard := Guard(pr.Len)
		for off := 0; off+pr.Len <= len(mask); off++ {
			n, ok := seqmask.Count(mask, amb, off, pr.Len)
			if ok && n < guard && n > p.Variants {
				p.Variants = n
			}
		}
	}
	return lim.Clamp(p)
}

// Matcher scans targets with a planned scratch. A window below the guard
// whose variants do not fit the scratch is skipped like one over the guard.
type Matcher struct {
	s          *hmer.Scratch
	Skipped    uint64 // windows not scanned, OverBudget included
	OverBudget uint64 // windows below the guard that did not fit the scratch
}

func NewMatcher(s *hmer.Scratch) *Matcher { return &Matcher{s: s} }

// Scratch exposes the matcher's buffers (window and variant counters).
func (m *Matcher) Scratch() *hmer.Scratch { return m.s }

// Match scans windows of the primer's length at increasing offsets and stops
// at the first one with at least one variant row in the reference set.
func (m *Matcher) Match(mask seqmask.Mask, amb seqmask.Map, p Primer) State {
	st := State{PrimerID: p.ID}
	guard := Guard(p.Len)
	for off := 0; off+p.Len <= len(mask); off++ {
		n, ok := seqmask.Count(mask, amb, off, p.Len)
		if !ok || n >= guard {
			m.Skipped++
			continue
		}
		if !m.s.Fits(n, p.Len) {
			m.Skipped++
			m.OverBudget++
			continue
		}
		var hits uint64
		for _, h := range m.s.Window(mask, amb, off, p.Len, n) {
			if _, ok := p.Ref[h]; ok {
				hits++
			}
		}
		if hits > 0 {
			st.Matches = hits
			st.FirstPos = uint64(off)
			break
		}
	}
	return st
}

// MatchAll runs every primer against one target.
func (m *Matcher) MatchAll(mask seqmask.Mask, amb seqmask.Map, primers []Primer) []State {
	out := make([]State, len(primers))
	for i, p := range primers {
		out[i] = m.Match(mask, amb, p)
	}
	return out
}
