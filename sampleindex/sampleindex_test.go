package sampleindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autofdo-go/sampleprofile/ir"
)

func TestFlatInsertAndFind(t *testing.T) {
	idx := New()

	e := &FlatEntry{File: "a.c", Func: "foo", Line: 10, Freq: 100, NumInstr: 4}
	require.True(t, idx.InsertFlat(e))

	got, ok := idx.FindFlat("a.c", 10, "foo")
	require.True(t, ok)
	assert.Same(t, e, got)

	_, ok = idx.FindFlat("a.c", 11, "foo")
	assert.False(t, ok)

	_, ok = idx.FindFlat("a.c", 10, "bar")
	assert.False(t, ok, "different function must not match")
}

func TestFlatInsertNonPositiveLinePanics(t *testing.T) {
	idx := New()
	assert.Panics(t, func() {
		idx.InsertFlat(&FlatEntry{File: "a.c", Func: "foo", Line: 0, Freq: 1})
	})
}

func TestFlatDuplicateKeepsFirst(t *testing.T) {
	idx := New()
	first := &FlatEntry{File: "a.c", Func: "foo", Line: 10, Freq: 100, NumInstr: 4}
	second := &FlatEntry{File: "a.c", Func: "foo", Line: 10, Freq: 999, NumInstr: 1}

	require.True(t, idx.InsertFlat(first))
	require.False(t, idx.InsertFlat(second))

	got, ok := idx.FindFlat("a.c", 10, "foo")
	require.True(t, ok)
	assert.Same(t, first, got)
	assert.Equal(t, int64(100), idx.MaxCount(), "max count observed at first insert only")
}

func TestInlineInsertAndFind(t *testing.T) {
	idx := New()
	stack := []ir.SourceLocation{{File: "a.c", Line: 42}}

	lineEntry := &InlineEntry{
		Stack: stack, File: "b.c", Func: "foo", Line: 7, Freq: 500, NumInstr: 5,
	}
	totalEntry := &InlineEntry{
		Stack: stack, File: "b.c", Func: "foo", Line: 0, Freq: 500,
	}
	require.True(t, idx.InsertInline(lineEntry))
	require.True(t, idx.InsertInline(totalEntry))

	got, ok := idx.FindInline(stack, "b.c", 7, "foo")
	require.True(t, ok)
	assert.Same(t, lineEntry, got)

	totalGot, ok := idx.FindInline(stack, "b.c", 0, "foo")
	require.True(t, ok)
	assert.Same(t, totalEntry, totalGot)

	// A different stack must never match (dedup and lookup rely on
	// structural equality of the whole stack, not just the tail frame).
	otherStack := []ir.SourceLocation{{File: "c.c", Line: 42}}
	_, ok = idx.FindInline(otherStack, "b.c", 7, "foo")
	assert.False(t, ok)
}

func TestInlineDepthZeroNeverMatchesStackedEntries(t *testing.T) {
	idx := New()
	stack := []ir.SourceLocation{{File: "a.c", Line: 42}}
	require.True(t, idx.InsertInline(&InlineEntry{
		Stack: stack, File: "b.c", Func: "foo", Line: 7, Freq: 500, NumInstr: 5,
	}))

	_, ok := idx.FindInline(nil, "b.c", 7, "foo")
	assert.False(t, ok, "empty stack must not match a depth>0 entry")
}

func TestMaxCountAcrossBothStores(t *testing.T) {
	idx := New()
	require.True(t, idx.InsertFlat(&FlatEntry{File: "a.c", Func: "f", Line: 1, Freq: 50}))
	require.True(t, idx.InsertInline(&InlineEntry{
		Stack: []ir.SourceLocation{{File: "x.c", Line: 1}},
		File:  "a.c", Func: "g", Line: 2, Freq: 900,
	}))
	assert.Equal(t, int64(900), idx.MaxCount())
}
