// Package inlinestack reconstructs the ordered inline-call chain leading
// to an IR statement, for use as a sampleindex lookup key. It operates
// entirely through the narrow ir.Statement/ir.LexicalBlock interfaces
// (package ir), in the same spirit as interpreter/types.go's
// Loader/Data/Instance split: this package never assumes a concrete IR.
package inlinestack

import "github.com/autofdo-go/sampleprofile/ir"

// Extract reconstructs the inline stack for stmt: the (file, line)
// frames of every lexical block enclosing stmt that carries inlining
// information, one frame per distinct call site on the path from the
// statement back to the top-level function.
//
// The walk starts at stmt's innermost block's Enclosing() block (the
// innermost block itself is the statement's own lexical scope, not a
// call frame) and proceeds upward. A block contributes a frame only if
// its Location() is non-zero and differs from the most recently
// emitted frame; consecutive lexical blocks that repeat the same call
// site (nested scopes within one inlined body) collapse to one frame.
//
// sampleindex.InlineEntry.Stack is ordered outermost-to-innermost so
// that two stacks compare with a plain slice equality; this function
// returns frames in that same order, reversing the innermost-to-outermost
// order the upward walk naturally produces.
func Extract(stmt ir.Statement) []ir.SourceLocation {
	block := stmt.Block()
	if block == nil {
		return nil
	}

	var innermostFirst []ir.SourceLocation
	var last ir.SourceLocation
	haveLast := false

	for b := block.Enclosing(); b != nil; b = b.Enclosing() {
		loc := b.Location()
		if loc.IsZero() {
			continue
		}
		if haveLast && loc == last {
			continue
		}
		innermostFirst = append(innermostFirst, loc)
		last = loc
		haveLast = true
	}

	reverse(innermostFirst)
	return innermostFirst
}

// TotalCountStack builds the lookup key used by the "total count of an
// inlined function invocation" query (get_total_count in the original
// design): stmt's own location becomes the new innermost frame, appended
// after the frames Extract would produce for stmt. Callers look this
// stack up with sampleindex.Index.FindInline using line == 0, matching
// the callsite-total entry the profile reader inserts for that callsite.
func TotalCountStack(stmt ir.Statement) []ir.SourceLocation {
	stack := Extract(stmt)
	loc := stmt.Location()
	return append(stack, loc)
}

func reverse(s []ir.SourceLocation) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
