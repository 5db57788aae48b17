// Package sampleindex implements the two-level sample index: a flat
// store keyed by (file, line, func) and an inline store keyed by
// (inline_stack, file, line, func).
//
// Both stores are plain Go maps from a 64-bit xxh3 hash to a bucket of
// candidate entries, with structural equality deciding matches within a
// bucket — a generic bounded-eviction cache (this project's own
// elastic/go-freelru, used elsewhere for per-pass dedup) is the wrong
// tool here because entries live for the whole compilation unit and
// lookups must never evict a still-valid entry.
package sampleindex

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/autofdo-go/sampleprofile/ir"
	"github.com/autofdo-go/sampleprofile/metrics"
)

// FlatEntry is one flat sample: a per-line frequency attributed to a
// source location with no inlining involved. The invariant line > 0 is
// enforced by Index.InsertFlat, not merely assumed at hash time.
type FlatEntry struct {
	File     string
	Func     string
	Line     int32
	Freq     int64
	NumInstr uint32
}

// InlineEntry is one inline sample: either a per-line frequency within
// an inlined body (Line > 0) or a callsite total (Line == 0, Freq equal
// to the total samples attributed to the whole inlined invocation).
//
// Stack is outermost-to-innermost, the reverse of the on-disk order, so
// that matching against an ir-derived stack (also outermost-first, see
// package inlinestack) is a direct slice comparison. Per Design Notes'
// suggested reformulation, Stack is a plain Go slice shared by every
// entry from the same callsite header; Go's garbage collector reclaims
// it once the last referencing entry is gone, so there is no need for
// the original's is_first ownership flag.
type InlineEntry struct {
	Stack    []ir.SourceLocation
	File     string
	Func     string
	Line     int32
	Freq     int64
	NumInstr uint32
}

// Index holds both sample stores for one compilation unit. The zero
// value is not usable; construct with New.
type Index struct {
	flat     map[uint64][]*FlatEntry
	inline   map[uint64][]*InlineEntry
	maxCount int64
}

// New creates an empty Index.
func New() *Index {
	return &Index{
		flat:   make(map[uint64][]*FlatEntry),
		inline: make(map[uint64][]*InlineEntry),
	}
}

// InsertFlat adds e to the flat store. Returns false and logs a
// diagnostic, keeping the first-inserted entry, if an entry with the
// same (File, Line, Func) key already exists. Panics if e.Line <= 0 —
// the flat store's line > 0 invariant is enforced here at insertion,
// not only implicitly during hashing.
func (idx *Index) InsertFlat(e *FlatEntry) bool {
	if e.Line <= 0 {
		panic("sampleindex: flat entry inserted with non-positive line")
	}

	key := hashKey(nil, e.File, e.Line, e.Func)
	for _, existing := range idx.flat[key] {
		if flatEqual(existing, e) {
			log.Warnf("Duplicate entry: %s:%d func_name:%s", e.File, e.Line, e.Func)
			metrics.Add(context.Background(), metrics.IDDuplicateFlatEntry, 1)
			return false
		}
	}
	idx.flat[key] = append(idx.flat[key], e)
	idx.observe(e.Freq)
	metrics.Add(context.Background(), metrics.IDSamplesLoaded, 1)
	return true
}

// InsertInline adds e to the inline store, with the same
// keep-first-on-duplicate policy as InsertFlat.
func (idx *Index) InsertInline(e *InlineEntry) bool {
	key := hashKey(e.Stack, e.File, e.Line, e.Func)
	for _, existing := range idx.inline[key] {
		if inlineEqual(existing, e) {
			log.Warnf("Duplicate entry of callstack: %s:%d func_name:%s",
				e.File, e.Line, e.Func)
			metrics.Add(context.Background(), metrics.IDDuplicateInlineEntry, 1)
			return false
		}
	}
	idx.inline[key] = append(idx.inline[key], e)
	idx.observe(e.Freq)
	metrics.Add(context.Background(), metrics.IDSamplesLoaded, 1)
	return true
}

// FindFlat looks up a flat entry by its (file, line, func) key.
func (idx *Index) FindFlat(file string, line int32, fn string) (*FlatEntry, bool) {
	if line <= 0 {
		return nil, false
	}
	key := hashKey(nil, file, line, fn)
	for _, e := range idx.flat[key] {
		if e.File == file && e.Line == line && e.Func == fn {
			return e, true
		}
	}
	return nil, false
}

// FindInline looks up an inline entry by its (stack, file, line, func)
// key. Passing line == 0 looks up the callsite-total entry.
func (idx *Index) FindInline(stack []ir.SourceLocation, file string, line int32,
	fn string) (*InlineEntry, bool) {
	key := hashKey(stack, file, line, fn)
	for _, e := range idx.inline[key] {
		if inlineKeyEqual(e, stack, file, line, fn) {
			return e, true
		}
	}
	return nil, false
}

// MaxCount returns the maximum freq across every entry inserted into
// either store so far (sp_max_count in the original design).
func (idx *Index) MaxCount() int64 {
	return idx.maxCount
}

// NumSamples returns the total number of entries successfully inserted
// (duplicates excluded) across both stores.
func (idx *Index) NumSamples() int {
	n := 0
	for _, bucket := range idx.flat {
		n += len(bucket)
	}
	for _, bucket := range idx.inline {
		n += len(bucket)
	}
	return n
}

func (idx *Index) observe(freq int64) {
	if freq > idx.maxCount {
		idx.maxCount = freq
	}
}

func flatEqual(a, b *FlatEntry) bool {
	return a.Line == b.Line && a.File == b.File && a.Func == b.Func
}

func inlineEqual(a, b *InlineEntry) bool {
	return inlineKeyEqual(a, b.Stack, b.File, b.Line, b.Func)
}

func inlineKeyEqual(e *InlineEntry, stack []ir.SourceLocation, file string, line int32,
	fn string) bool {
	if e.Line != line || len(e.Stack) != len(stack) {
		return false
	}
	for i := range stack {
		if e.Stack[i] != stack[i] {
			return false
		}
	}
	return e.File == file && e.Func == fn
}
