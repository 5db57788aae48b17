// fixture.go implements a tiny textual CFG description, parsed into the
// cfg/ir interfaces this module operates over, so the command can be
// smoke-tested without a real compiler driving it.
package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/autofdo-go/sampleprofile/cfg"
	"github.com/autofdo-go/sampleprofile/ir"
)

// fixtureBlock is a concrete cfg.Block backing the textual fixture.
type fixtureBlock struct {
	name    string
	stmts   []ir.Statement
	succ    []cfg.Edge
	pred    []cfg.Edge
	count   cfg.Count
	isEntry bool
	isExit  bool
}

func (b *fixtureBlock) Statements() []ir.Statement { return b.stmts }
func (b *fixtureBlock) Successors() []cfg.Edge     { return b.succ }
func (b *fixtureBlock) Predecessors() []cfg.Edge   { return b.pred }
func (b *fixtureBlock) Count() cfg.Count           { return b.count }
func (b *fixtureBlock) SetCount(c cfg.Count)       { b.count = c }
func (b *fixtureBlock) IsEntry() bool              { return b.isEntry }
func (b *fixtureBlock) IsExit() bool               { return b.isExit }

// fixtureEdge is a concrete cfg.Edge.
type fixtureEdge struct {
	src, dst *fixtureBlock
	prob     cfg.Count
	count    cfg.Count
}

func (e *fixtureEdge) Source() cfg.Block          { return e.src }
func (e *fixtureEdge) Destination() cfg.Block     { return e.dst }
func (e *fixtureEdge) Probability() cfg.Count     { return e.prob }
func (e *fixtureEdge) SetProbability(p cfg.Count) { e.prob = p }
func (e *fixtureEdge) Count() cfg.Count           { return e.count }
func (e *fixtureEdge) SetCount(c cfg.Count)       { e.count = c }

// fixtureGraph is a concrete cfg.Graph over the parsed blocks.
type fixtureGraph struct {
	entry, exit *fixtureBlock
	blocks      []cfg.Block
}

func (g *fixtureGraph) Blocks() []cfg.Block { return g.blocks }
func (g *fixtureGraph) Entry() cfg.Block    { return g.entry }
func (g *fixtureGraph) Exit() cfg.Block     { return g.exit }
func (g *fixtureGraph) NumBasicBlocks() int { return len(g.blocks) + 2 }

// fixtureLexicalBlock is a flat, blockless lexical scope: the fixture format
// has no nested lexical blocks of its own, only the flat inline chain
// described inline on each stmt line.
type fixtureLexicalBlock struct {
	loc       ir.SourceLocation
	enclosing ir.LexicalBlock
}

func (b *fixtureLexicalBlock) Location() ir.SourceLocation { return b.loc }
func (b *fixtureLexicalBlock) Enclosing() ir.LexicalBlock  { return b.enclosing }

// fixtureStatement is a concrete ir.Statement.
type fixtureStatement struct {
	loc   ir.SourceLocation
	block ir.LexicalBlock
}

func (s *fixtureStatement) Location() ir.SourceLocation { return s.loc }
func (s *fixtureStatement) Block() ir.LexicalBlock      { return s.block }

// fixtureFunction holds the parsed graph plus the mangled name samples
// should be looked up under.
type fixtureFunction struct {
	name  string
	graph *fixtureGraph
}

// parseFixture reads the textual CFG description from r. Grammar, one
// directive per line, blank lines and "#"-prefixed comments ignored:
//
//	function <name>
//	block <name> [entry|exit]
//	edge <src> <dst> [<probability-numerator-of-10000>]
//	stmt <block> <file> <line> [<inline-file>:<inline-line>,...]
//
// The inline list, if present, is outermost-first, matching this
// module's own Stack convention; each entry becomes one link in the
// statement's lexical-block chain.
func parseFixture(r io.Reader) (*fixtureFunction, error) {
	blocks := map[string]*fixtureBlock{}
	var order []string
	fn := &fixtureFunction{}

	getBlock := func(name string) *fixtureBlock {
		if b, ok := blocks[name]; ok {
			return b
		}
		b := &fixtureBlock{name: name}
		blocks[name] = b
		order = append(order, name)
		return b
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "function":
			if len(fields) != 2 {
				return nil, fmt.Errorf("fixture line %d: want 'function <name>'", lineNo)
			}
			fn.name = fields[1]

		case "block":
			if len(fields) < 2 {
				return nil, fmt.Errorf("fixture line %d: want 'block <name> [entry|exit]'", lineNo)
			}
			b := getBlock(fields[1])
			for _, flag := range fields[2:] {
				switch flag {
				case "entry":
					b.isEntry = true
				case "exit":
					b.isExit = true
				default:
					return nil, fmt.Errorf("fixture line %d: unknown block flag %q", lineNo, flag)
				}
			}

		case "edge":
			if len(fields) < 3 {
				return nil, fmt.Errorf("fixture line %d: want 'edge <src> <dst> [prob]'", lineNo)
			}
			src, dst := getBlock(fields[1]), getBlock(fields[2])
			prob := cfg.ProbBase
			if len(fields) == 4 {
				p, err := strconv.ParseInt(fields[3], 10, 64)
				if err != nil {
					return nil, fmt.Errorf("fixture line %d: bad probability: %w", lineNo, err)
				}
				prob = cfg.Count(p)
			}
			e := &fixtureEdge{src: src, dst: dst, prob: prob}
			src.succ = append(src.succ, e)
			dst.pred = append(dst.pred, e)

		case "stmt":
			if len(fields) < 4 {
				return nil, fmt.Errorf("fixture line %d: want 'stmt <block> <file> <line> [inline...]'",
					lineNo)
			}
			b := getBlock(fields[1])
			line, err := strconv.Atoi(fields[3])
			if err != nil {
				return nil, fmt.Errorf("fixture line %d: bad line number: %w", lineNo, err)
			}

			// Build the Enclosing() chain outermost-to-innermost, then
			// wrap it in a zero-location "own scope" leaf: inlinestack.
			// Extract walks from stmt.Block().Enclosing() upward, never
			// consulting stmt.Block() itself, so the statement's own
			// lexical scope carries no call-site location of its own.
			var block ir.LexicalBlock
			for _, frame := range fields[4:] {
				parts := strings.SplitN(frame, ":", 2)
				if len(parts) != 2 {
					return nil, fmt.Errorf("fixture line %d: bad inline frame %q", lineNo, frame)
				}
				fline, err := strconv.Atoi(parts[1])
				if err != nil {
					return nil, fmt.Errorf("fixture line %d: bad inline line: %w", lineNo, err)
				}
				block = &fixtureLexicalBlock{
					loc:       ir.SourceLocation{File: parts[0], Line: fline},
					enclosing: block,
				}
			}
			if block != nil {
				block = &fixtureLexicalBlock{enclosing: block}
			}

			stmt := &fixtureStatement{
				loc:   ir.SourceLocation{File: fields[2], Line: line},
				block: block,
			}
			b.stmts = append(b.stmts, stmt)

		default:
			return nil, fmt.Errorf("fixture line %d: unknown directive %q", lineNo, fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	g := &fixtureGraph{}
	for _, name := range order {
		b := blocks[name]
		switch {
		case b.isEntry:
			g.entry = b
		case b.isExit:
			g.exit = b
		default:
			g.blocks = append(g.blocks, b)
		}
	}
	if g.entry == nil || g.exit == nil {
		return nil, fmt.Errorf("fixture: missing entry or exit block")
	}
	fn.graph = g
	return fn, nil
}
