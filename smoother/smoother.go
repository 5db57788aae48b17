// Package smoother implements the CFG Smoother: it seeds edge counts
// from block counts and static probabilities, bridges the synthetic
// entry/exit blocks, reconciles the whole graph to flow consistency via
// an injectable FlowSolver, and applies the adoption criterion. It
// operates purely through the cfg package's interfaces plus the two
// injected collaborators (ProbabilityEstimator, FlowSolver) that stand
// in for the original design's general-purpose estimator and
// minimum-cost-flow pass.
package smoother

import (
	"context"

	"github.com/autofdo-go/sampleprofile/cfg"
	"github.com/autofdo-go/sampleprofile/log"
	"github.com/autofdo-go/sampleprofile/metrics"
)

// smallFunctionBlockLimit is the n_basic_blocks threshold below which a
// function with exactly one annotated block may still adopt its
// smoothed profile.
const smallFunctionBlockLimit = 5

// FakeExitAdder is an optional capability a cfg.Graph implementation may
// provide: blocks with no successors other than the true exit (calls to
// a noreturn function, __builtin_unreachable, etc.) need a temporary
// edge to the exit block so a FlowSolver sees a single sink, mirroring
// the original design's add_fake_exit_edges / remove_fake_exit_edges
// external utilities. A graph with no such no-return paths need not
// implement this; Smooth skips the step entirely when it doesn't.
type FakeExitAdder interface {
	// AddFakeExitEdges adds the temporary edges and returns them.
	AddFakeExitEdges() []cfg.Edge

	// RemoveFakeExitEdges removes exactly the edges AddFakeExitEdges
	// returned.
	RemoveFakeExitEdges([]cfg.Edge)
}

// CompactBlocks renumbers or otherwise normalizes g's block set to
// remove gaps left by earlier passes. The cfg.Graph interface here
// exposes no block-numbering concept of its
// own — compaction is purely the implementing compiler's bookkeeping —
// so this is a deliberate no-op hook, called for parity with the
// original pipeline's step ordering and to give a graph implementation
// that does track explicit indices a place to normalize them, via the
// same optional-capability pattern as FakeExitAdder.
type BlockCompactor interface {
	CompactBlocks()
}

// CompactBlocks runs g's BlockCompactor hook, if it implements one.
func CompactBlocks(g cfg.Graph) {
	if c, ok := g.(BlockCompactor); ok {
		c.CompactBlocks()
	}
}

// SeedEdgeCounts seeds edge counts from block counts: for every
// non-entry, non-exit block b and each outgoing edge e, e.count =
// b.count * e.probability / ProbBase, then b.count is re-summed from
// its own outgoing edges. Per the Design Notes, this runs twice in
// succession — the second pass is intentional, not an oversight: it
// re-stabilizes b.count against the integer-division truncation the
// first pass's edge counts may have introduced.
func SeedEdgeCounts(g cfg.Graph) {
	for pass := 0; pass < 2; pass++ {
		for _, b := range g.Blocks() {
			seedBlockEdges(b)
		}
	}
}

func seedBlockEdges(b cfg.Block) {
	edges := b.Successors()
	if len(edges) == 0 {
		return
	}

	var sum cfg.Count
	for _, e := range edges {
		c := b.Count() * e.Probability() / cfg.ProbBase
		e.SetCount(c)
		sum += c
	}
	b.SetCount(sum)
}

// BridgeEntryExit bridges the synthetic entry/exit blocks: each of
// entry's successor edges takes its destination block's count, summed
// into entry's own count; exit's count becomes the sum of its
// predecessor edges' counts.
func BridgeEntryExit(g cfg.Graph) {
	entry := g.Entry()
	var entrySum cfg.Count
	for _, e := range entry.Successors() {
		c := e.Destination().Count()
		e.SetCount(c)
		entrySum += c
	}
	entry.SetCount(entrySum)

	exit := g.Exit()
	var exitSum cfg.Count
	for _, e := range exit.Predecessors() {
		exitSum += e.Count()
	}
	exit.SetCount(exitSum)
}

// Smooth runs the full pipeline over g, given numAnnotated (the number
// of blocks annotator.Annotate reported as annotated, i.e. left with a
// nonzero count, for this function) and the two injected collaborators. It reports whether the
// smoothed profile was adopted per the adoption criterion; when not
// adopted, every block and edge count is zeroed, preserving the
// pre-existing static estimate
// (the probabilities UniformEstimator or any other ProbabilityEstimator
// already assigned are left untouched either way).
func Smooth(g cfg.Graph, numAnnotated int, estimator ProbabilityEstimator,
	solver FlowSolver) (adopted bool, err error) {
	if !hasEstimatedProbabilities(g) {
		estimator.Estimate(g)
	}

	CompactBlocks(g)
	SeedEdgeCounts(g)
	BridgeEntryExit(g)

	var fake []cfg.Edge
	if adder, ok := g.(FakeExitAdder); ok {
		fake = adder.AddFakeExitEdges()
	}

	if err := solver.Solve(g); err != nil {
		if adder, ok := g.(FakeExitAdder); ok {
			adder.RemoveFakeExitEdges(fake)
		}
		log.Errorf("flow solver failed: %v", err)
		return false, err
	}

	if adder, ok := g.(FakeExitAdder); ok {
		adder.RemoveFakeExitEdges(fake)
	}

	if !adoptProfile(numAnnotated, g.NumBasicBlocks()) {
		zeroAllCounts(g)
		log.Debugf("profile rejected: numAnnotated=%d numBasicBlocks=%d", numAnnotated, g.NumBasicBlocks())
		metrics.Add(context.Background(), metrics.IDProfileRejected, 1)
		return false, nil
	}
	log.Debugf("profile adopted: numAnnotated=%d numBasicBlocks=%d", numAnnotated, g.NumBasicBlocks())
	metrics.Add(context.Background(), metrics.IDProfileAdopted, 1)
	return true, nil
}

// adoptProfile implements the adoption criterion.
func adoptProfile(numAnnotated, numBasicBlocks int) bool {
	if numAnnotated > 1 {
		return true
	}
	return numAnnotated == 1 && numBasicBlocks < smallFunctionBlockLimit
}

func zeroAllCounts(g cfg.Graph) {
	all := append([]cfg.Block{g.Entry(), g.Exit()}, g.Blocks()...)
	for _, b := range all {
		b.SetCount(0)
		for _, e := range b.Successors() {
			e.SetCount(0)
		}
	}
}

// hasEstimatedProbabilities reports whether every block with outgoing
// edges already carries probabilities summing to ProbBase, so Smooth
// only invokes the estimator once per function, matching the pass-entry
// contract: if static probabilities have not been estimated yet, run
// the estimator.
func hasEstimatedProbabilities(g cfg.Graph) bool {
	blocks := append([]cfg.Block{g.Entry()}, g.Blocks()...)
	for _, b := range blocks {
		edges := b.Successors()
		if len(edges) == 0 {
			continue
		}
		var sum cfg.Count
		for _, e := range edges {
			sum += e.Probability()
		}
		if sum != cfg.ProbBase {
			return false
		}
	}
	return true
}

// Frequencies translates g's smoothed counts into relative execution
// frequencies, each expressed as a ProbBase-scaled fixed-point fraction
// of the function's total entry count (an empty map if the entry count
// is 0),
// matching the original design's counts_to_freqs output convention.
// Unlike the general minimum-cost-flow reconciliation FlowSolver
// performs, this final translation step is pure arithmetic over
// already-consistent counts, so it is implemented directly rather than
// behind an injected interface.
func Frequencies(g cfg.Graph) map[cfg.Edge]cfg.Count {
	freqs := make(map[cfg.Edge]cfg.Count)
	total := g.Entry().Count()
	if total == 0 {
		return freqs
	}

	blocks := append([]cfg.Block{g.Entry()}, g.Blocks()...)
	for _, b := range blocks {
		for _, e := range b.Successors() {
			freqs[e] = e.Count() * cfg.ProbBase / total
		}
	}
	return freqs
}
