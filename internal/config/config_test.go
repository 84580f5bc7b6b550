package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hmerize/internal/hmer"
)

func TestDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	c, err := Load(New(), "")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, c.Threads, 1)
	assert.Equal(t, 64, c.ChunkSize)
	assert.Equal(t, "json", c.Output)
	assert.True(t, c.Header)
	assert.Equal(t, "warn", c.LogLevel)
	assert.Equal(t, hmer.DefaultLimits, c.Engine().Limits)
	assert.Zero(t, c.Engine().MaxChunkBases)
}

func TestLayering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("threads: 3\nchunk-size: 8\noutput: tsv\nmax-cells: 1000\n"), 0o644))

	t.Setenv("HMERIZE_CHUNK_SIZE", "16")
	v := New()
	v.Set("output", "yaml") // stands in for an explicitly set flag

	c, err := Load(v, path)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Threads, "file")
	assert.Equal(t, 16, c.ChunkSize, "env over file")
	assert.Equal(t, "yaml", c.Output, "flag over file")
	assert.Equal(t, uint64(1000), c.Engine().Limits.MaxCells)
}

func TestDefaultFileInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFile), []byte("log-format: json\n"), 0o644))
	c, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "json", c.LogFormat)
}

func TestMissingConfigFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	c := Config{Threads: 0, ChunkSize: 0, LogLevel: "loud", LogFormat: "xml"}
	err := c.Validate()
	require.Error(t, err)
	for _, want := range []string{"threads", "chunk-size", "log-level", "log-format"} {
		assert.Contains(t, err.Error(), want)
	}
	assert.NoError(t, Config{Threads: 1, ChunkSize: 1, LogLevel: "DEBUG", LogFormat: "text"}.Validate())
}
