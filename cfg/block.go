// Package cfg implements the control-flow graph of spec.md §4.D: an
// arena-indexed set of basic blocks with an intrusive, append-only edge
// list, plus the Location arithmetic (is_before/is_after) liveness and
// coloring build on.
//
// The arena+index strategy (two parallel slices, integer handles, an
// all-ones sentinel for "no more edges") is the Design Notes' own
// recommendation ("avoid back-pointers that would create cycles... an edge
// stores both endpoints explicitly"), used here in place of the teacher's
// pointer-linked ssa.basicBlock, because spec.md additionally requires
// swap-removal of edges with index fix-up (§4.D remove_edge) which a
// pointer graph can't express as cheaply.
package cfg

import "github.com/ssacore/rtlc/rtl"

// BlockHandle is an opaque index into a Graph's block arena.
type BlockHandle uint32

// noEdge is the sentinel terminating an intrusive edge list.
const noEdge = ^uint32(0)

// Block is a basic block: an ordered instruction sequence (spec.md §3).
// Instructions are addressed by their 0-based offset within the block.
type Block struct {
	Instructions []rtl.Instruction

	// firstOut/firstIn are the heads of this block's intrusive outgoing and
	// incoming edge lists, or noEdge.
	firstOut, firstIn uint32

	// invalid marks a block removed by Graph.RemoveBlock. Its slot stays
	// allocated (so later BlockHandles don't shift) but Valid() reports
	// false and its instructions are cleared.
	invalid bool
}

// Len returns the number of instructions in the block.
func (b *Block) Len() int { return len(b.Instructions) }

// Valid reports whether this block has not been removed.
func (b *Block) Valid() bool { return !b.invalid }

// edge is one directed control transfer. Both nextOut and nextIn chain this
// edge into its source's outgoing list and its target's incoming list
// respectively, so neighbour iteration never allocates.
type edge struct {
	from, to        BlockHandle
	nextOut, nextIn uint32
}

// Graph is the CFG: a set of basic blocks plus a multiset of directed
// edges. Blocks are append-only; edges are append-only except for the
// explicit swap-remove operation.
type Graph struct {
	blocks []Block
	edges  []edge
}

// New returns an empty graph.
func New() *Graph { return &Graph{} }

// AddBlock appends a new block holding the given instructions and returns
// its handle.
func (g *Graph) AddBlock(instructions []rtl.Instruction) BlockHandle {
	h := BlockHandle(len(g.blocks))
	g.blocks = append(g.blocks, Block{Instructions: instructions, firstOut: noEdge, firstIn: noEdge})
	return h
}

// Block returns a pointer to the block named by h. Panics on an
// out-of-range handle: spec.md §4.D says "all handle lookups fail fatally
// on out-of-range (programmer error, not runtime input)".
func (g *Graph) Block(h BlockHandle) *Block {
	if int(h) >= len(g.blocks) {
		panic("rtlc/cfg: out-of-range BlockHandle")
	}
	return &g.blocks[h]
}

// NumBlocks returns the number of blocks ever added (including any later
// removed — removed blocks are tombstoned, not compacted, so handles stay
// stable).
func (g *Graph) NumBlocks() int { return len(g.blocks) }

// EdgeHandle is an opaque index into a Graph's edge arena.
type EdgeHandle uint32

// AddEdge appends a directed edge from -> to. Duplicate edges are
// permitted: spec.md §4.D says they "model distinct control transfers".
// The new edge is prepended onto both endpoints' intrusive lists.
func (g *Graph) AddEdge(from, to BlockHandle) EdgeHandle {
	fb, tb := g.Block(from), g.Block(to)
	idx := uint32(len(g.edges))
	g.edges = append(g.edges, edge{from: from, to: to, nextOut: fb.firstOut, nextIn: tb.firstIn})
	fb.firstOut = idx
	tb.firstIn = idx
	return EdgeHandle(idx)
}
