package hmer

// Pack is one distinct hmer of a sequence with the lowest and highest window
// offset that produced it.
type Pack struct {
	Hash  Hash
	First uint64
	Last  uint64
}

// Parsed is the hmer set of one sequence across every requested size.
type Parsed struct {
	SeqID uint64
	Hmers []Pack
}

// Dedup accumulates distinct hashes in first-seen order.
type Dedup struct {
	index map[Hash]int
	packs []Pack
}

// NewDedup sizes the set for about hint distinct hashes.
func NewDedup(hint int) *Dedup {
	if hint < 0 {
		hint = 0
	}
	return &Dedup{index: make(map[Hash]int, hint), packs: make([]Pack, 0, hint)}
}

// Add records hashes seen at window offset pos.
// First/Last are the min/max offsets, independent of call order.
func (d *Dedup) Add(hashes []Hash, pos uint64) {
	for _, h := range hashes {
		i, ok := d.index[h]
		if !ok {
			d.index[h] = len(d.packs)
			d.packs = append(d.packs, Pack{Hash: h, First: pos, Last: pos})
			continue
		}
		p := &d.packs[i]
		if pos < p.First {
			p.First = pos
		}
		if pos > p.Last {
			p.Last = pos
		}
	}
}

func (d *Dedup) Len() int { return len(d.packs) }

// Packs returns the accumulated set. The slice is owned by the caller.
func (d *Dedup) Packs() []Pack { return d.packs }
