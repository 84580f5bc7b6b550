// Package output converts engine results to the stable pkg/api schema and
// flattens them to TSV rows.
package output

// TSV header rows. Keep these as the single source of truth; all writers use them.
const (
	KmerTSVHeader        = "sequence_id\tname\tsize\thash\tkmer\tfirst\tlast"
	PrimerTSVHeader      = "sequence_id\tname\tprimer_id\tprimer_name\tfound\tmatches\tfirst_pos"
	TheoreticalTSVHeader = "size\thash\tkmer"
	LimitsTSVHeader      = "sizes\thash_bits\ttotal\toverflow\tvalid\tenumerable\terror"
)
