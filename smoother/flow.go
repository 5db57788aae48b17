package smoother

import (
	"errors"

	"github.com/autofdo-go/sampleprofile/cfg"
)

// ErrCyclicGraph is returned by ConservationSolver when the CFG contains
// a back edge (a loop). A real compiler's minimum-cost-flow solver
// handles cycles by construction; ConservationSolver deliberately does
// not, since it stands in only for the acyclic shapes this module's own
// tests exercise — the general mcf_smooth_cfg solver is out of scope
// here.
var ErrCyclicGraph = errors.New("smoother: ConservationSolver requires an acyclic CFG")

// FlowSolver reconciles raw per-block counts against edge probabilities
// so that, for every block, incoming count equals the block count
// equals outgoing count. It stands in for the original design's
// mcf_smooth_cfg plus its counts_to_freqs translator, both treated here
// as out-of-scope external collaborators.
type FlowSolver interface {
	// Solve reconciles g's block and edge counts in place.
	Solve(g cfg.Graph) error
}

// ConservationSolver is a reference FlowSolver for acyclic CFGs: it
// visits blocks in topological order, setting each non-entry block's
// count to the sum of its incoming edge counts, then distributing that
// count across its outgoing edges by their static probability. This
// achieves exact flow conservation for a DAG without the iterative
// cost-minimization a general network-flow solver performs; a cyclic
// CFG (one with loops) needs that general solver instead.
type ConservationSolver struct{}

// Solve implements FlowSolver.
func (ConservationSolver) Solve(g cfg.Graph) error {
	order, err := topoOrder(g)
	if err != nil {
		return err
	}

	for _, b := range order {
		if b.IsEntry() {
			continue
		}

		var sum cfg.Count
		for _, e := range b.Predecessors() {
			sum += e.Count()
		}
		b.SetCount(sum)

		for _, e := range b.Successors() {
			e.SetCount(b.Count() * e.Probability() / cfg.ProbBase)
		}
	}
	return nil
}

// topoOrder returns every block of g (including entry and exit) in an
// order where every predecessor precedes its successors, via Kahn's
// algorithm. Returns ErrCyclicGraph if g is not a DAG.
func topoOrder(g cfg.Graph) ([]cfg.Block, error) {
	all := append([]cfg.Block{g.Entry()}, g.Blocks()...)
	all = append(all, g.Exit())

	indegree := make(map[cfg.Block]int, len(all))
	for _, b := range all {
		indegree[b] = len(b.Predecessors())
	}

	var ready []cfg.Block
	for _, b := range all {
		if indegree[b] == 0 {
			ready = append(ready, b)
		}
	}

	order := make([]cfg.Block, 0, len(all))
	for len(ready) > 0 {
		b := ready[0]
		ready = ready[1:]
		order = append(order, b)

		for _, e := range b.Successors() {
			dst := e.Destination()
			indegree[dst]--
			if indegree[dst] == 0 {
				ready = append(ready, dst)
			}
		}
	}

	if len(order) != len(all) {
		return nil, ErrCyclicGraph
	}
	return order, nil
}
