package inlinestack

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/autofdo-go/sampleprofile/ir"
)

// fakeBlock is a minimal ir.LexicalBlock for tests.
type fakeBlock struct {
	loc       ir.SourceLocation
	enclosing *fakeBlock
}

func (b *fakeBlock) Location() ir.SourceLocation {
	return b.loc
}

func (b *fakeBlock) Enclosing() ir.LexicalBlock {
	if b.enclosing == nil {
		return nil
	}
	return b.enclosing
}

// fakeStatement is a minimal ir.Statement for tests.
type fakeStatement struct {
	loc   ir.SourceLocation
	block *fakeBlock
}

func (s *fakeStatement) Location() ir.SourceLocation {
	return s.loc
}

func (s *fakeStatement) Block() ir.LexicalBlock {
	if s.block == nil {
		return nil
	}
	return s.block
}

func TestExtractNoBlockYieldsEmptyStack(t *testing.T) {
	stmt := &fakeStatement{loc: ir.SourceLocation{File: "a.c", Line: 5}}
	assert.Empty(t, Extract(stmt))
}

func TestExtractSkipsOwnBlockAndZeroLocations(t *testing.T) {
	// top (zero loc, outermost function body) <- mid (b.c:7) <- own (zero,
	// lexical scope only)
	top := &fakeBlock{}
	mid := &fakeBlock{loc: ir.SourceLocation{File: "b.c", Line: 7}, enclosing: top}
	own := &fakeBlock{enclosing: mid}
	stmt := &fakeStatement{loc: ir.SourceLocation{File: "a.c", Line: 42}, block: own}

	got := Extract(stmt)
	assert.Equal(t, []ir.SourceLocation{{File: "b.c", Line: 7}}, got)
}

func TestExtractOutermostFirstOrderAndDedup(t *testing.T) {
	// outer (c.c:3) <- mid (b.c:7) <- mid again (b.c:7, collapses) <- own
	outer := &fakeBlock{loc: ir.SourceLocation{File: "c.c", Line: 3}}
	mid2 := &fakeBlock{loc: ir.SourceLocation{File: "b.c", Line: 7}, enclosing: outer}
	mid1 := &fakeBlock{loc: ir.SourceLocation{File: "b.c", Line: 7}, enclosing: mid2}
	own := &fakeBlock{enclosing: mid1}
	stmt := &fakeStatement{loc: ir.SourceLocation{File: "a.c", Line: 42}, block: own}

	got := Extract(stmt)
	assert.Equal(t, []ir.SourceLocation{
		{File: "c.c", Line: 3},
		{File: "b.c", Line: 7},
	}, got)
}

func TestTotalCountStackAppendsStatementLocationAsInnermost(t *testing.T) {
	outer := &fakeBlock{loc: ir.SourceLocation{File: "c.c", Line: 3}}
	own := &fakeBlock{enclosing: outer}
	stmt := &fakeStatement{loc: ir.SourceLocation{File: "a.c", Line: 42}, block: own}

	got := TotalCountStack(stmt)
	assert.Equal(t, []ir.SourceLocation{
		{File: "c.c", Line: 3},
		{File: "a.c", Line: 42},
	}, got)
}
