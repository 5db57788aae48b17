package smoother

import "github.com/autofdo-go/sampleprofile/cfg"

// ProbabilityEstimator assigns static edge probabilities before any
// sample-based counts exist. It stands in for the original design's
// general-purpose estimate_probability, which reasons about loop
// structure, heuristics on branch shape, and call profiles — a general
// solver deliberately left out of scope here. Only a trivial reference
// implementation is provided; a real compiler substitutes its own.
type ProbabilityEstimator interface {
	// Estimate assigns cfg.Edge.Probability values summing to
	// cfg.ProbBase across each block's outgoing edges.
	Estimate(g cfg.Graph)
}

// UniformEstimator splits each block's outgoing probability evenly
// across its successors. Any remainder from integer division (when
// ProbBase doesn't divide evenly by the successor count) is added to
// the first successor, so probabilities still sum exactly to ProbBase.
type UniformEstimator struct{}

// Estimate implements ProbabilityEstimator.
func (UniformEstimator) Estimate(g cfg.Graph) {
	blocks := append([]cfg.Block{g.Entry()}, g.Blocks()...)
	for _, b := range blocks {
		estimateBlock(b)
	}
}

func estimateBlock(b cfg.Block) {
	edges := b.Successors()
	n := len(edges)
	if n == 0 {
		return
	}

	share := cfg.ProbBase / cfg.Count(n)
	remainder := cfg.ProbBase - share*cfg.Count(n)

	for i, e := range edges {
		p := share
		if i == 0 {
			p += remainder
		}
		e.SetProbability(p)
	}
}
