package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeWriteFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.md")
	require.NoError(t, SafeWriteFile(p, []byte("one")))
	require.NoError(t, SafeWriteFile(p, []byte("two")))
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "two", string(b))
	assert.NoFileExists(t, p+".tmp")

	err = SafeWriteFile(filepath.Join(t.TempDir(), "missing", "x"), []byte("x"))
	assert.ErrorContains(t, err, "write temp file")
}

func TestPrettyJSON(t *testing.T) {
	b, err := PrettyJSON(map[string]any{"a": 1, "b": "<x>"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1,"b":"<x>"}`, string(b))
	assert.Contains(t, string(b), "\n  \"a\": 1")

	_, err = PrettyJSON(make(chan int))
	assert.Error(t, err)
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "a.csv", "c.tsv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x\n1\n"), 0o644))
	}
	got := ExpandInputs([]string{
		filepath.Join(dir, "*.csv"),
		filepath.Join(dir, "a.csv"),
		filepath.Join(dir, "c.tsv"),
		filepath.Join(dir, "none-*.csv"),
		filepath.Join(dir, "missing.csv"),
	})
	assert.Equal(t, []string{
		filepath.Join(dir, "a.csv"),
		filepath.Join(dir, "b.csv"),
		filepath.Join(dir, "c.tsv"),
	}, got)
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	taken := map[string]bool{}
	first := UniquePath(dir, "metrics", ".md", taken)
	assert.Equal(t, filepath.Join(dir, "metrics.md"), first)
	second := UniquePath(dir, "metrics", ".md", taken)
	assert.Equal(t, filepath.Join(dir, "metrics__2.md"), second)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "sales.md"), nil, 0o644))
	assert.Equal(t, filepath.Join(dir, "sales__2.md"), UniquePath(dir, "sales", ".md", map[string]bool{}))
}

func TestStem(t *testing.T) {
	assert.Equal(t, "report", Stem("/tmp/x/report.csv"))
	assert.Equal(t, "noext", Stem("noext"))
}
