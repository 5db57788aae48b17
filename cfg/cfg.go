// Package cfg declares the narrow surface this module needs from a
// compiler's control-flow graph. As with package ir, the real graph
// structure belongs to the compiler driving this module; only the shape
// needed for annotation and flow smoothing is named here.
package cfg

import "github.com/autofdo-go/sampleprofile/ir"

// Count is an execution count or frequency. It mirrors gcov_type from the
// original design: a signed wide integer that is never negative once
// assigned by this module.
type Count = int64

// ProbBase is the fixed-point base that edge probabilities are expressed
// against, matching REG_BR_PROB_BASE from the original design: a
// probability of p/ProbBase.
const ProbBase Count = 10000

// Block is one basic block of the CFG being annotated.
type Block interface {
	// Statements returns this block's IR statements in execution order.
	Statements() []ir.Statement

	// Successors returns the block's outgoing edges.
	Successors() []Edge

	// Predecessors returns the block's incoming edges.
	Predecessors() []Edge

	// Count returns the block's current execution count.
	Count() Count

	// SetCount overwrites the block's execution count.
	SetCount(Count)

	// IsEntry reports whether this is the CFG's synthetic entry block.
	IsEntry() bool

	// IsExit reports whether this is the CFG's synthetic exit block.
	IsExit() bool
}

// Edge is a directed control-flow edge between two blocks.
type Edge interface {
	Source() Block
	Destination() Block

	// Probability is the edge's static taken-probability, expressed as a
	// fixed-point fraction of ProbBase.
	Probability() Count

	// SetProbability overwrites the edge's static probability. Used only
	// by a ProbabilityEstimator, before any sample-based counts exist.
	SetProbability(Count)

	// Count returns the edge's current execution count.
	Count() Count

	// SetCount overwrites the edge's execution count.
	SetCount(Count)
}

// Graph is the full function CFG, as needed by the smoother.
type Graph interface {
	// Blocks returns every block in the graph, in an unspecified but
	// stable order, excluding the synthetic entry/exit blocks.
	Blocks() []Block

	// Entry returns the synthetic entry block.
	Entry() Block

	// Exit returns the synthetic exit block.
	Exit() Block

	// NumBasicBlocks is the total block count, matching the source's
	// n_basic_blocks (used by the small-function adoption criterion).
	// It includes the synthetic entry/exit blocks, matching the original
	// GCC semantics where n_basic_blocks counts ENTRY and EXIT too.
	NumBasicBlocks() int
}
