// Package annotator implements the Block Annotator: per basic block, it
// walks statements, classifies each as inlined or not, looks each up in
// the sample index, accumulates sampled frequencies and
// sampled-instruction counts, and derives a block count from their
// ratio.
package annotator

import (
	"context"
	"unsafe"

	"github.com/elastic/go-freelru"
	"github.com/ianlancetaylor/demangle"

	"github.com/autofdo-go/sampleprofile/cfg"
	"github.com/autofdo-go/sampleprofile/inlinestack"
	"github.com/autofdo-go/sampleprofile/log"
	"github.com/autofdo-go/sampleprofile/metrics"
	"github.com/autofdo-go/sampleprofile/sampleindex"
)

// maxInlineDepth bounds the inline stack depth the annotator will
// accept from the extractor, matching sampleindex/profile's MAX_STACK
// assertion class: an inline stack this deep indicates a structural
// impossibility, not recoverable input.
const maxInlineDepth = 200

// dedupCapacity bounds each per-block dedup set. A block that would
// credit more than this many distinct flat (or inline) entries is a
// structural impossibility: Annotate panics rather than letting the set
// evict an entry and credit it a second time.
const dedupCapacity = 500

// Annotate sets block.count from idx, for statements belonging to
// function (identified by its assembler-mangled name, used verbatim as
// the lookup key — never demangled for lookup purposes). It is
// idempotent with respect to idx and never mutates any index entry.
//
// It reports whether the block was "annotated": its resulting count is
// nonzero, matching sp_annotate_cfg's num_bb_annotated bookkeeping
// (incremented only "if (bb->count)"). A block whose only matching
// samples carry freq == 0 or num_instr == 0 contributes nothing to the
// count and is therefore not annotated, even though a lookup matched.
func Annotate(block cfg.Block, idx *sampleindex.Index, function string) (annotated bool) {
	seenFlat, err := freelru.New[*sampleindex.FlatEntry, struct{}](dedupCapacity, hashFlatPtr)
	if err != nil {
		panic("annotator: failed to allocate flat dedup set: " + err.Error())
	}
	seenInline, err := freelru.New[*sampleindex.InlineEntry, struct{}](dedupCapacity, hashInlinePtr)
	if err != nil {
		panic("annotator: failed to allocate inline dedup set: " + err.Error())
	}

	var sumFreq, sumInstr, maxFreq int64

	for _, stmt := range block.Statements() {
		loc := stmt.Location()
		if loc.IsZero() {
			continue
		}

		stack := inlinestack.Extract(stmt)
		if len(stack) >= maxInlineDepth {
			panic("annotator: inline stack exceeds maximum depth")
		}

		var freq int64
		var numInstr uint32
		var credited bool

		if len(stack) > 0 {
			e, ok := idx.FindInline(stack, loc.File, int32(loc.Line), function)
			if !ok {
				continue
			}
			if _, found := seenInline.Get(e); found {
				continue
			}
			if seenInline.Add(e, struct{}{}) {
				panic("annotator: inline dedup set overflow")
			}
			freq, numInstr, credited = e.Freq, e.NumInstr, true
		} else {
			e, ok := idx.FindFlat(loc.File, int32(loc.Line), function)
			if !ok {
				continue
			}
			if _, found := seenFlat.Get(e); found {
				continue
			}
			if seenFlat.Add(e, struct{}{}) {
				panic("annotator: flat dedup set overflow")
			}
			freq, numInstr, credited = e.Freq, e.NumInstr, true
		}

		if !credited {
			continue
		}
		sumFreq += freq
		sumInstr += int64(numInstr)
		if freq > maxFreq {
			maxFreq = freq
		}
	}

	if sumInstr > 0 {
		block.SetCount(sumFreq / sumInstr)
	} else {
		block.SetCount(0)
	}

	annotated = block.Count() != 0
	if annotated {
		log.Debugf("annotated block in %s: count=%d", function, block.Count())
		metrics.Add(context.Background(), metrics.IDBlocksAnnotated, 1)
	}
	return annotated
}

// DemangledName best-effort demangles a mangled assembler name for
// human-facing diagnostic output (log lines, dump files). It never
// affects lookup keys, which always use the raw mangled name. If name
// does not parse as a mangled symbol, it is returned unchanged.
func DemangledName(name string) string {
	out, err := demangle.ToString(name)
	if err != nil {
		return name
	}
	return out
}

func hashFlatPtr(e *sampleindex.FlatEntry) uint32 {
	return hashPtr(unsafe.Pointer(e))
}

func hashInlinePtr(e *sampleindex.InlineEntry) uint32 {
	return hashPtr(unsafe.Pointer(e))
}

// hashPtr reduces a pointer's bit pattern to a uint32 hash, used only to
// bucket index-entry identity within the annotator's bounded dedup
// sets. It never affects any on-disk or lookup semantics.
func hashPtr(p unsafe.Pointer) uint32 {
	v := uint64(uintptr(p))
	v ^= v >> 33
	v *= 0xff51afd7ed558ccd
	v ^= v >> 33
	return uint32(v)
}
