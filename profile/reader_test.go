package profile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autofdo-go/sampleprofile/ir"
)

func writeTemp(t *testing.T, w *Writer) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := w.WriteTo(&buf)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "sp.data")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

// TestSingleFlatSample covers loading a single flat (non-inlined) sample.
func TestSingleFlatSample(t *testing.T) {
	w := NewWriter()
	w.AddFunction("a.c", "foo").AddLine(10, 100, 4)

	idx, n, err := Load(writeTemp(t, w))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	e, ok := idx.FindFlat("a.c", 10, "foo")
	require.True(t, ok)
	assert.Equal(t, int64(100), e.Freq)
	assert.Equal(t, uint32(4), e.NumInstr)
}

// TestInlineStackLookup covers loading and looking up a sample attributed
// to an inlined call site.
func TestInlineStackLookup(t *testing.T) {
	w := NewWriter()
	fn := w.AddFunction("a.c", "foo")
	stack := []ir.SourceLocation{{File: "a.c", Line: 42}, {File: "b.c", Line: 7}}
	fn.AddInlineCallsite(stack, "b.c", "foo").
		WithTotal(500).
		AddLine(7, 500, 5)

	idx, n, err := Load(writeTemp(t, w))
	require.NoError(t, err)
	assert.Equal(t, 1, n, "only the line entry counts toward the sample count")

	line, ok := idx.FindInline(stack, "b.c", 7, "foo")
	require.True(t, ok)
	assert.Equal(t, int64(500), line.Freq)

	total, ok := idx.FindInline(stack, "b.c", 0, "foo")
	require.True(t, ok)
	assert.Equal(t, int64(500), total.Freq)
}

func TestMultipleFunctionsAndInlines(t *testing.T) {
	w := NewWriter()
	foo := w.AddFunction("a.c", "foo")
	foo.AddLine(1, 10, 1).AddLine(2, 20, 2)
	innerStack := []ir.SourceLocation{{File: "a.c", Line: 2}}
	foo.AddInlineCallsite(innerStack, "inc.h", "inline_me").
		AddLine(3, 30, 1).AddLine(4, 40, 1)

	bar := w.AddFunction("c.c", "bar")
	bar.AddLine(1, 5, 1)

	idx, n, err := Load(writeTemp(t, w))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	e, ok := idx.FindFlat("c.c", 1, "bar")
	require.True(t, ok)
	assert.Equal(t, int64(5), e.Freq)

	line, ok := idx.FindInline(innerStack, "inc.h", 4, "inline_me")
	require.True(t, ok)
	assert.Equal(t, int64(40), line.Freq)

	total, ok := idx.FindInline(innerStack, "inc.h", 0, "inline_me")
	require.True(t, ok)
	assert.Equal(t, int64(70), total.Freq, "default total is the sum of line freqs")
}

func TestLoadMissingFileDisablesProfile(t *testing.T) {
	idx, n, err := Load(filepath.Join(t.TempDir(), "does-not-exist.data"))
	require.Error(t, err)
	assert.Equal(t, 0, n)
	assert.NotNil(t, idx)
}

func TestLoadEmptyProfileYieldsZeroSamples(t *testing.T) {
	w := NewWriter()
	_, n, err := Load(writeTemp(t, w))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestZstdCompressedProfile(t *testing.T) {
	w := NewWriter()
	w.AddFunction("a.c", "foo").AddLine(1, 42, 2)

	var raw bytes.Buffer
	_, err := w.WriteTo(&raw)
	require.NoError(t, err)

	compressed := compressZstdForTest(t, raw.Bytes())
	path := filepath.Join(t.TempDir(), "sp.data.zst")
	require.NoError(t, os.WriteFile(path, compressed, 0o600))

	idx, n, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	e, ok := idx.FindFlat("a.c", 1, "foo")
	require.True(t, ok)
	assert.Equal(t, int64(42), e.Freq)
}
