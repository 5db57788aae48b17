// Package dump implements the optional flow-analysis dump: when the
// dump flag is set, it appends one header line and one record per edge
// to the prof.compare.sample sink, for diagnostic comparison against
// other profiling sources. Its format is fully specified in the
// original design, so — unlike the general minimum-cost-flow solver or
// static probability estimator — it is implemented directly rather than
// left as an injected collaborator.
package dump

import (
	"bufio"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"

	"github.com/autofdo-go/sampleprofile/cfg"
)

// blockID assigns stable small integers to a function's blocks for the
// dump's src/dst columns, matching the original design's basic-block
// numbering convention: 0 for ENTRY, 1 for EXIT, 2.. for the real
// blocks in Blocks() order.
func blockID(g cfg.Graph) map[cfg.Block]int {
	ids := make(map[cfg.Block]int, g.NumBasicBlocks())
	ids[g.Entry()] = 0
	ids[g.Exit()] = 1
	for i, b := range g.Blocks() {
		ids[b] = i + 2
	}
	return ids
}

// WriteFunctionProfile appends name's flow analysis to w: a header line
// ";;n_bb n_edges entry_count name", a "run-id" correlation line, then
// one "src dst pct_weight probability edge_count" record per edge in
// the function, in blockID order. Only the header line's literal
// format is fixed by dump_cfg_profile's format; the run-id line is
// this module's own addition and is not part of that contract, so it
// is kept off the header line entirely.
func WriteFunctionProfile(w io.Writer, g cfg.Graph, name string) error {
	bw := bufio.NewWriter(w)
	ids := blockID(g)

	all := append([]cfg.Block{g.Entry()}, g.Blocks()...)
	all = append(all, g.Exit())

	edges := make([]cfg.Edge, 0)
	for _, b := range all {
		edges = append(edges, b.Successors()...)
	}

	entryCount := g.Entry().Count()
	if _, err := fmt.Fprintf(bw, ";;%d %d %d %s\n",
		g.NumBasicBlocks(), len(edges), entryCount, name); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(bw, ";;run-id %s\n", runID(name, entryCount)); err != nil {
		return err
	}

	var sumEdgeFreq cfg.Count
	for _, e := range edges {
		sumEdgeFreq += e.Count()
	}

	for _, b := range all {
		for _, e := range b.Successors() {
			pctWeight := percentWeight(e.Count(), sumEdgeFreq)
			if _, err := fmt.Fprintf(bw, "%d %d %d %d %d\n",
				ids[b], ids[e.Destination()], pctWeight, e.Probability(), e.Count()); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

// runID derives a stable, compact identifier for one dump record from
// the function name and its entry count, formatted as a UUID string so
// two dumps of the same function at the same entry count can be
// correlated across build machines without comparing the whole record
// body. Mirrors this project's own libpf.basehash.Hash128.ToUUIDString
// convention for turning a 128-bit hash into a readable identifier.
func runID(name string, entryCount cfg.Count) string {
	var buf [8]byte
	for i := range buf {
		buf[i] = byte(entryCount >> (8 * i))
	}
	h := xxh3.Hash128(append([]byte(name), buf[:]...))
	b := h.Bytes()
	id, _ := uuid.FromBytes(b[:])
	return id.String()
}

// percentWeight expresses edgeCount as a percentage of sumEdgeFreq, the
// summed frequency of every edge in the function, matching
// dump_cfg_profile's normalization of each edge's weight against
// sum_edge_freq rather than against the function's entry count.
func percentWeight(edgeCount, sumEdgeFreq cfg.Count) cfg.Count {
	if sumEdgeFreq == 0 {
		return 0
	}
	return edgeCount * 100 / sumEdgeFreq
}
