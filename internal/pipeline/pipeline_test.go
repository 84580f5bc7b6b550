package pipeline

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hmerize/internal/engine"
	"hmerize/internal/hmer"
	"hmerize/internal/metrics"
	"hmerize/internal/primer"
	"hmerize/internal/record"
)

func recs(seqs ...string) <-chan record.Record {
	out := make([]record.Record, len(seqs))
	for i, s := range seqs {
		out[i] = record.New(uint64(i), s)
	}
	return record.Slice(out)
}

func mustHash(t *testing.T, kmer string) hmer.Hash {
	t.Helper()
	h, err := hmer.HashKmer(kmer)
	require.NoError(t, err)
	return h
}

func TestExtractKmers(t *testing.T) {
	for _, cfg := range []Config{
		{Threads: 1, ChunkSize: 0},
		{Threads: 4, ChunkSize: 1},
		{Threads: 2, ChunkSize: 2},
	} {
		got, err := ExtractKmers(context.Background(), cfg, recs("ACGTN", "AAAA", "G"), []int{2})
		require.NoError(t, err)
		require.Len(t, got, 3)

		assert.Len(t, got[0], 7)
		assert.Equal(t, []hmer.Pack{{Hash: mustHash(t, "AA"), First: 0, Last: 2}}, got[1])
		assert.Empty(t, got[2])
	}
}

func TestExtractKmersRejectsSizes(t *testing.T) {
	_, err := ExtractKmers(context.Background(), Config{}, recs("ACGT"), []int{0})
	require.Error(t, err)

	_, err = ExtractKmers(context.Background(), Config{}, recs("ACGT"), []int{40})
	assert.ErrorIs(t, err, hmer.ErrSizeOverflow)
}

func TestExtractKmersDuplicateIDAcrossChunks(t *testing.T) {
	in := record.Slice([]record.Record{record.New(5, "ACGT"), record.New(5, "TTTT")})
	got, err := ExtractKmers(context.Background(), Config{Threads: 2, ChunkSize: 1}, in, []int{2})
	require.Error(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, engine.ErrDuplicateID)
	k, ok := engine.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, engine.KindResult, k)
}

func TestExtractKmersBudgetDiscardsAll(t *testing.T) {
	cfg := Config{
		Threads:   2,
		ChunkSize: 1,
		Limits:    engine.Config{Limits: hmer.Limits{MaxVariants: 4}},
	}
	got, err := ExtractKmers(context.Background(), cfg, recs("ACGT", "NNNN", "AAAA"), []int{2})
	require.Error(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, engine.ErrAlloc)
	assert.ErrorIs(t, err, hmer.ErrVariantBudget)
}

func TestExtractKmersZeroConfigFailsCleanly(t *testing.T) {
	got, err := ExtractKmers(context.Background(), Config{Threads: 1}, recs(strings.Repeat("N", 28)), []int{28})
	require.Error(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, engine.ErrAlloc)
	assert.ErrorIs(t, err, hmer.ErrVariantBudget)
}

func TestExtractKmersCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got, err := ExtractKmers(ctx, Config{}, recs("ACGT"), []int{2})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, got)
}

func TestExtractTheoretical(t *testing.T) {
	got, err := ExtractTheoretical([]string{"A", "C", "G", "T"}, 1)
	require.NoError(t, err)
	assert.Len(t, got, 4)

	_, err = ExtractTheoretical([]string{"ACG"}, 2)
	require.Error(t, err)
}

func TestTheoreticalSpace(t *testing.T) {
	m := metrics.New()
	got, err := TheoreticalSpace(context.Background(), Config{Threads: 3, Metrics: m}, []int{1, 2, 6})
	require.NoError(t, err)
	assert.Len(t, got, 4+16+4096)
	for _, km := range []string{"A", "GT", "TTTTTT"} {
		assert.Contains(t, got, mustHash(t, km))
	}

	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))
	assert.Contains(t, buf.String(), `hmerize_records_total{op="theoretical"} 4116`)

	_, err = TheoreticalSpace(context.Background(), Config{}, []int{hmer.MaxEnumerableSize + 1})
	assert.ErrorIs(t, err, hmer.ErrSizeOverflow)
}

func TestMatchPrimers(t *testing.T) {
	primers := []record.Record{record.New(0, "AC"), record.New(1, "GRC")}
	got, err := MatchPrimers(context.Background(), Config{Threads: 2, ChunkSize: 1}, recs("GGACGG", "TTTT", "AGGC"), primers)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, primer.State{PrimerID: 0, Matches: 1, FirstPos: 2}, got[0][0])
	assert.Equal(t, primer.State{PrimerID: 1, Matches: 1, FirstPos: 1}, got[0][1])
	assert.Equal(t, primer.State{PrimerID: 0}, got[1][0])
	assert.Equal(t, primer.State{PrimerID: 1}, got[1][1])
	assert.Equal(t, primer.State{PrimerID: 1, Matches: 1, FirstPos: 1}, got[2][1])
}

func TestMatchPrimersSkipsWindowsOverBudget(t *testing.T) {
	var logs bytes.Buffer
	cfg := Config{
		Limits: engine.Config{Limits: hmer.Limits{MaxVariants: 1 << 10}},
		Logger: slog.New(slog.NewTextHandler(&logs, nil)),
	}
	target := strings.Repeat("N", 5) + "R" + strings.Repeat("ACGT", 4)
	got, err := MatchPrimers(context.Background(), cfg, recs(target), []record.Record{record.New(0, strings.Repeat("ACGT", 4))})
	require.NoError(t, err)
	assert.Equal(t, primer.State{PrimerID: 0, Matches: 1, FirstPos: 6}, got[0][0])
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "windows over scratch budget skipped")
}

func TestMatchPrimersBadPrimer(t *testing.T) {
	_, err := MatchPrimers(context.Background(), Config{}, recs("ACGT"), []record.Record{record.New(0, "")})
	require.Error(t, err)
}

func TestMetricsObserved(t *testing.T) {
	m := metrics.New()
	_, err := ExtractKmers(context.Background(), Config{Metrics: m, ChunkSize: 2}, recs("ACGT", "AAAA", "CC"), []int{2})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))
	out := buf.String()
	assert.Contains(t, out, `hmerize_records_total{op="kmers"} 3`)
	assert.Contains(t, out, `hmerize_chunks_total{op="kmers"} 2`)
	assert.Contains(t, out, `hmerize_windows_total{op="kmers"} 7`)
}

// failingEng fails the second chunk it sees.
type failingEng struct {
	*engine.Engine
	calls atomic.Int32
}

var errBoom = errors.New("boom")

func (f *failingEng) ParseChunk(chunk []record.Record, sizes []int) ([]hmer.Parsed, engine.Stats, error) {
	if f.calls.Add(1) == 2 {
		return nil, engine.Stats{}, errBoom
	}
	return f.Engine.ParseChunk(chunk, sizes)
}

func TestEngineErrorDiscardsResults(t *testing.T) {
	fake := &failingEng{Engine: engine.New(engine.Config{})}
	got, err := ExtractKmers(context.Background(), Config{Engine: fake, ChunkSize: 1}, recs("AC", "GT", "TT"), []int{1})
	assert.ErrorIs(t, err, errBoom)
	assert.Nil(t, got)
}
