// Package api holds the stable wire schema (v1) of hmerize outputs.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
package api

// HmerV1 is one distinct packed k-mer of a sequence. First and Last are the
// smallest and largest window offsets it was seen at, over every size.
type HmerV1 struct {
	Hash  uint64 `json:"hash" yaml:"hash"`
	Size  int    `json:"size" yaml:"size"`
	Kmer  string `json:"kmer,omitempty" yaml:"kmer,omitempty"`
	First uint64 `json:"first" yaml:"first"`
	Last  uint64 `json:"last" yaml:"last"`
}

// KmerResultV1 lists the hmers of one sequence in first-seen order.
type KmerResultV1 struct {
	SequenceID uint64   `json:"sequence_id" yaml:"sequence_id"`
	Name       string   `json:"name,omitempty" yaml:"name,omitempty"`
	Hmers      []HmerV1 `json:"hmers" yaml:"hmers"`
}

// PrimerStateV1 is the outcome of one primer against one target.
// FirstPos is meaningful only when Found is true.
type PrimerStateV1 struct {
	PrimerID   uint64 `json:"primer_id" yaml:"primer_id"`
	PrimerName string `json:"primer_name,omitempty" yaml:"primer_name,omitempty"`
	Found      bool   `json:"found" yaml:"found"`
	Matches    uint64 `json:"matches" yaml:"matches"`
	FirstPos   uint64 `json:"first_pos" yaml:"first_pos"`
}

// PrimerResultV1 lists every primer's state against one target, in primer id order.
type PrimerResultV1 struct {
	SequenceID uint64          `json:"sequence_id" yaml:"sequence_id"`
	Name       string          `json:"name,omitempty" yaml:"name,omitempty"`
	Primers    []PrimerStateV1 `json:"primers" yaml:"primers"`
}

// TheoreticalV1 is a set of theoretical hashes, ascending.
type TheoreticalV1 struct {
	Sizes  []int    `json:"sizes" yaml:"sizes"`
	Count  int      `json:"count" yaml:"count"`
	Hashes []HmerV1 `json:"hashes" yaml:"hashes"`
}

// LimitsV1 reports the representable range of a size request.
type LimitsV1 struct {
	Sizes      []int  `json:"sizes" yaml:"sizes"`
	HashBits   int    `json:"hash_bits" yaml:"hash_bits"`
	Total      uint64 `json:"total" yaml:"total"`
	Overflow   bool   `json:"overflow,omitempty" yaml:"overflow,omitempty"`
	Valid      bool   `json:"valid" yaml:"valid"`
	Enumerable bool   `json:"enumerable" yaml:"enumerable"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}
