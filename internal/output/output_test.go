package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hmerize/internal/hmer"
	"hmerize/internal/primer"
	"hmerize/pkg/api"
)

func TestTSVHeadersStable(t *testing.T) {
	assert.Equal(t, "sequence_id\tname\tsize\thash\tkmer\tfirst\tlast", KmerTSVHeader)
	assert.Equal(t, "sequence_id\tname\tprimer_id\tprimer_name\tfound\tmatches\tfirst_pos", PrimerTSVHeader)
}

func TestToAPIKmersSortsSequences(t *testing.T) {
	ac, _ := hmer.HashKmer("AC")
	gt, _ := hmer.HashKmer("GT")
	res := map[uint64][]hmer.Pack{
		2: {{Hash: gt, First: 1, Last: 4}, {Hash: ac, First: 0, Last: 0}},
		0: {},
	}
	names := NameFunc(func(id uint64) string { return []string{"a", "b", "c"}[id] })
	got := ToAPIKmers(res, names, true)
	require.Len(t, got, 2)
	assert.Equal(t, uint64(0), got[0].SequenceID)
	assert.Equal(t, "a", got[0].Name)
	assert.Empty(t, got[0].Hmers)
	assert.Equal(t, []api.HmerV1{
		{Hash: uint64(gt), Size: 2, Kmer: "GT", First: 1, Last: 4},
		{Hash: uint64(ac), Size: 2, Kmer: "AC", First: 0, Last: 0},
	}, got[1].Hmers)

	assert.Equal(t, []string{
		"2\tc\t2\t" + itoa(uint64(gt)) + "\tGT\t1\t4",
		"2\tc\t2\t" + itoa(uint64(ac)) + "\tAC\t0\t0",
	}, KmerRows(got))
}

func TestToAPIPrimers(t *testing.T) {
	res := map[uint64]map[uint64]primer.State{
		1: {
			5: {PrimerID: 5},
			3: {PrimerID: 3, Matches: 2, FirstPos: 7},
		},
	}
	got := ToAPIPrimers(res, nil, func(id uint64) string { return "p" + itoa(id) })
	require.Len(t, got, 1)
	assert.Equal(t, []api.PrimerStateV1{
		{PrimerID: 3, PrimerName: "p3", Found: true, Matches: 2, FirstPos: 7},
		{PrimerID: 5, PrimerName: "p5"},
	}, got[0].Primers)
	assert.Equal(t, "1\t\t3\tp3\ttrue\t2\t7", PrimerRows(got)[0])
}

func TestToAPITheoretical(t *testing.T) {
	set, err := hmer.Theoretical([]string{"T", "A", "G", "C"}, 1)
	require.NoError(t, err)
	got := ToAPITheoretical(set, []int{1}, true)
	assert.Equal(t, 4, got.Count)
	var kmers []string
	for _, h := range got.Hashes {
		kmers = append(kmers, h.Kmer)
	}
	// ascending hash: A=4, C=5, T=6, G=7
	assert.Equal(t, []string{"A", "C", "T", "G"}, kmers)
	assert.Equal(t, "1\t4\tA", TheoreticalRows(got)[0])
}

func TestToAPILimits(t *testing.T) {
	l := ToAPILimits([]int{3, 5})
	assert.True(t, l.Valid)
	assert.True(t, l.Enumerable)
	assert.Equal(t, 16, l.HashBits)
	assert.Equal(t, uint64(64+1024), l.Total)

	l = ToAPILimits([]int{20})
	assert.True(t, l.Valid)
	assert.False(t, l.Enumerable)
	assert.Equal(t, 64, l.HashBits)

	l = ToAPILimits([]int{32})
	assert.False(t, l.Valid)
	assert.True(t, l.Overflow)
	assert.NotEmpty(t, l.Error)
	assert.Equal(t, "32\t128\t0\ttrue\tfalse\tfalse\t"+l.Error, LimitsRows(l)[0])
}

func TestWriteTSV(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, WriteTSV(&b, "h1\th2", []string{"a\tb"}, true))
	assert.Equal(t, "h1\th2\na\tb\n", b.String())

	b.Reset()
	require.NoError(t, WriteTSV(&b, "h1\th2", nil, false))
	assert.Empty(t, b.String())
}

func TestIntsCSV(t *testing.T) {
	assert.Equal(t, "", IntsCSV(nil))
	assert.Equal(t, "3,5", IntsCSV([]int{3, 5}))
}

func itoa(v uint64) string {
	return IntsCSV([]int{int(v)})
}
