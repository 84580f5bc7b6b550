package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hmerize/pkg/api"
)

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errb bytes.Buffer
	code := Run(args, &out, &errb)
	return code, out.String(), errb.String()
}

func write(t *testing.T, dir, name, data string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(data), 0o644))
	return p
}

func TestNoArgsPrintsHelp(t *testing.T) {
	t.Chdir(t.TempDir())
	code, out, _ := run(t)
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "kmers")
}

func TestVersion(t *testing.T) {
	code, out, _ := run(t, "version")
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "hmerize version dev\n", out)
}

func TestUsageErrors(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	fa := write(t, dir, "s.fa", ">s\nACGT\n")
	for name, args := range map[string][]string{
		"missing sizes":    {"kmers", fa},
		"unknown command":  {"frobnicate"},
		"unknown flag":     {"kmers", "-k", "2", "--nope", fa},
		"bad output":       {"-o", "xml", "kmers", "-k", "2", fa},
		"bad threads":      {"--threads", "-1", "kmers", "-k", "2", fa},
		"no primer file":   {"primers", fa},
		"kmers file sizes": {"theoretical", "-k", "2,3", "--kmers", fa},
	} {
		t.Run(name, func(t *testing.T) {
			code, _, stderr := run(t, args...)
			assert.Equal(t, ExitUsage, code)
			assert.Contains(t, stderr, "error: ")
		})
	}
}

func TestKmersTSV(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	fa := write(t, dir, "s.fa", ">s1 desc\nACGTN\n")
	code, out, stderr := run(t, "-o", "tsv", "--header=false", "kmers", "-k", "2", "--with-kmer", fa)
	require.Equal(t, ExitOK, code, stderr)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	assert.True(t, strings.HasPrefix(lines[0], "0\ts1\t2\t"))
	assert.True(t, strings.HasSuffix(lines[0], "\tAC\t0\t0"))
	// N expands G, T, C, A.
	assert.True(t, strings.HasSuffix(lines[3], "\tTG\t3\t3"))
	assert.True(t, strings.HasSuffix(lines[6], "\tTA\t3\t3"))
}

func TestKmersJSONAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	a := write(t, dir, "a.fa", ">a\nAAAA\n")
	b := write(t, dir, "b.fa", ">b\nCC\n")
	code, out, stderr := run(t, "--threads", "2", "--chunk-size", "1", "kmers", "-k", "2", a, b)
	require.Equal(t, ExitOK, code, stderr)

	var got []api.KmerResultV1
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Name)
	assert.Equal(t, uint64(1), got[1].SequenceID)
	assert.Equal(t, []api.HmerV1{{Hash: 16, Size: 2, First: 0, Last: 2}}, got[0].Hmers)
}

func TestKmersBudgetIsRuntimeError(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	fa := write(t, dir, "s.fa", ">s\nACGTN\n")
	code, out, stderr := run(t, "--max-variants", "2", "kmers", "-k", "2", fa)
	assert.Equal(t, ExitRuntime, code)
	assert.Empty(t, out)
	assert.Contains(t, stderr, "hasharray allocation")
}

func TestKmersMissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	code, _, stderr := run(t, "kmers", "-k", "2", "nope.fa")
	assert.Equal(t, ExitRuntime, code)
	assert.Contains(t, stderr, "nope.fa")
}

func TestTheoreticalSpaceJSONL(t *testing.T) {
	t.Chdir(t.TempDir())
	code, out, stderr := run(t, "-o", "jsonl", "theoretical", "-k", "1")
	require.Equal(t, ExitOK, code, stderr)
	assert.Equal(t, 4, strings.Count(out, "\n"))
	assert.Contains(t, out, `{"hash":4,"size":1,"first":0,"last":0}`)
}

func TestTheoreticalFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	list := write(t, dir, "k.txt", "# two-mers\nac\n\nGT\nAC\n")
	code, out, stderr := run(t, "-o", "tsv", "theoretical", "-k", "2", "--kmers", list, "--with-kmer")
	require.Equal(t, ExitOK, code, stderr)
	assert.Equal(t, "size\thash\tkmer\n2\t17\tAC\n2\t30\tGT\n", out)

	bad := write(t, dir, "bad.txt", "AN\n")
	code, _, stderr = run(t, "theoretical", "-k", "2", "--kmers", bad)
	assert.Equal(t, ExitRuntime, code)
	assert.Contains(t, stderr, "non A/C/G/T")
}

func TestPrimers(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	prs := write(t, dir, "p.tsv", "# id seq\nfwd AC\nrev GRC\n")
	fa := write(t, dir, "t.fa", ">t1\nGGACGG\n>t2\nTTTT\n")
	code, out, stderr := run(t, "primers", "--primers", prs, fa)
	require.Equal(t, ExitOK, code, stderr)

	var got []api.PrimerResultV1
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, []api.PrimerStateV1{
		{PrimerID: 0, PrimerName: "fwd", Found: true, Matches: 1, FirstPos: 2},
		{PrimerID: 1, PrimerName: "rev", Found: true, Matches: 1, FirstPos: 1},
	}, got[0].Primers)
	assert.Equal(t, "t2", got[1].Name)
	assert.False(t, got[1].Primers[0].Found)
}

func TestPrimersFromFasta(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	prs := write(t, dir, "p.fa", ">p1\nAC\n")
	fa := write(t, dir, "t.fa", ">t1\nGGACGG\n")
	code, out, stderr := run(t, "-o", "tsv", "primers", "--primers-fasta", prs, fa)
	require.Equal(t, ExitOK, code, stderr)
	assert.Equal(t, "sequence_id\tname\tprimer_id\tprimer_name\tfound\tmatches\tfirst_pos\n0\tt1\t0\tp1\ttrue\t1\t2\n", out)
}

func TestLimits(t *testing.T) {
	t.Chdir(t.TempDir())
	code, out, _ := run(t, "-o", "yaml", "limits", "-k", "3,5")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "hash_bits: 16\n")
	assert.Contains(t, out, "total: 1088\n")

	code, out, _ = run(t, "-o", "tsv", "--header=false", "limits", "-k", "32")
	assert.Equal(t, ExitRejected, code)
	assert.True(t, strings.HasPrefix(out, "32\t128\t0\ttrue\tfalse\tfalse\t"))
}

func TestConfigFileAndMetrics(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	fa := write(t, dir, "s.fa", ">s\nACGT\n")
	cfg := write(t, dir, "cfg.yaml", "output: tsv\nheader: false\n")
	prom := filepath.Join(dir, "metrics.prom")

	code, out, stderr := run(t, "--config", cfg, "--metrics", prom, "kmers", "-k", "1", fa)
	require.Equal(t, ExitOK, code, stderr)
	assert.Equal(t, 4, strings.Count(out, "\n"))
	assert.NotContains(t, out, "sequence_id")

	b, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(b), `hmerize_records_total{op="kmers"} 1`)
	assert.Contains(t, string(b), `hmerize_windows_total{op="kmers"} 4`)
}

func TestJSONLogsOnStderr(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	fa := write(t, dir, "s.fa", ">s\nACGT\n")
	code, _, stderr := run(t, "--log-level", "info", "--log-format", "json", "kmers", "-k", "2", fa)
	require.Equal(t, ExitOK, code)
	assert.Contains(t, stderr, `"msg":"batch done"`)
	assert.Contains(t, stderr, `"op":"kmers"`)
}

func TestCanceled(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	fa := write(t, dir, "s.fa", ">s\nACGT\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out, errb bytes.Buffer
	code := RunContext(ctx, []string{"kmers", "-k", "2", fa}, &out, &errb)
	assert.Equal(t, ExitCanceled, code)
}
