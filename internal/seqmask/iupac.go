// internal/seqmask/iupac.go
package seqmask

/* ------------------------ IUPAC ambiguity table ------------------------ */

// Symbols lists every ambiguity code the table expands.
const Symbols = "RYSWKMBDHVN"

// Branch holds the concrete alternatives of one ambiguity symbol.
// Packed stores one 2-bit code per alternative, the first listed alternative
// in the most significant field.
type Branch struct {
	Alts   int32
	Packed uint16
}

var table [256]Branch // Alts==0 → concrete (or unknown) symbol

func init() {
	set := func(c byte, alts string) { table[c] = Branch{Alts: int32(len(alts)), Packed: packAlts(alts)} }
	set('R', "AG")
	set('Y', "CT")
	set('S', "GC")
	set('W', "AT")
	set('K', "GT")
	set('M', "AC")
	set('B', "CGT")
	set('D', "AGT")
	set('H', "ACT")
	set('V', "ACG")
	set('N', "ACTG")
}

// Code maps an ASCII base to its 2-bit code: A=0 C=1 T=2 G=3.
func Code(c byte) uint8 { return (c >> 1) & 3 }

func packAlts(alts string) uint16 {
	var w uint16
	for i := 0; i < len(alts); i++ {
		w = w<<2 | uint16(Code(alts[i]))
	}
	return w
}

// Lookup returns the branch of an ambiguity symbol.
func Lookup(c byte) (Branch, bool) {
	b := table[c]
	return b, b.Alts > 0
}

// IsAmbiguous reports whether c is one of Symbols.
func IsAmbiguous(c byte) bool { return table[c].Alts > 0 }

// Alt returns the j-th alternative in deambiguation order (low field first).
func (b Branch) Alt(j int) uint8 { return uint8(b.Packed>>(2*uint(j))) & 3 }
