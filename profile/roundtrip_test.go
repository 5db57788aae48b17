package profile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flatTuple struct {
	file, fn string
	line     int
	freq     int64
	numInstr int
}

// TestRoundTripLaw checks that encoding a set of flat tuples and reading
// them back produces a flat store whose contents are a bijection with
// the input set.
func TestRoundTripLaw(t *testing.T) {
	tuples := []flatTuple{
		{"a.c", "foo", 10, 100, 4},
		{"a.c", "foo", 11, 50, 2},
		{"b.c", "bar", 3, 7, 1},
		{"b.c", "baz", 3, 9, 3}, // same file/line, different func: distinct key
	}

	byFunc := map[string][]flatTuple{}
	for _, tp := range tuples {
		byFunc[tp.fn] = append(byFunc[tp.fn], tp)
	}

	w := NewWriter()
	for fn, group := range byFunc {
		file := group[0].file
		fb := w.AddFunction(file, fn)
		for _, tp := range group {
			fb.AddLine(tp.line, tp.freq, tp.numInstr)
		}
	}

	var buf bytes.Buffer
	_, err := w.WriteTo(&buf)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "sp.data")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	idx, n, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, len(tuples), n)

	for _, tp := range tuples {
		e, ok := idx.FindFlat(tp.file, int32(tp.line), tp.fn)
		require.True(t, ok, "missing tuple %+v", tp)
		assert.Equal(t, tp.freq, e.Freq, fmt.Sprintf("freq mismatch for %+v", tp))
		assert.Equal(t, uint32(tp.numInstr), e.NumInstr)
	}
}

// TestRoundTripDropsDuplicateKeyButKeepsFirst verifies the "modulo
// duplicate keys being dropped with a warning" clause of the round-trip
// law: two records sharing a (file, line, func) key collapse to one,
// and the first one written wins.
func TestRoundTripDropsDuplicateKeyButKeepsFirst(t *testing.T) {
	w := NewWriter()
	fn := w.AddFunction("a.c", "foo")
	fn.AddLine(10, 111, 1)
	fn.AddLine(10, 222, 2) // duplicate key, must be dropped

	idx, n, err := Load(writeTemp(t, w))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	e, ok := idx.FindFlat("a.c", 10, "foo")
	require.True(t, ok)
	assert.Equal(t, int64(111), e.Freq)
}
