package ifg

import (
	"github.com/sirupsen/logrus"

	"github.com/ssacore/rtlc/liveness"
	"github.com/ssacore/rtlc/regalloc"
)

// NodeID is an arena index into a Graph's node slice.
type NodeID int

// Node is one interference-graph vertex: a single virtual register's live
// range, plus the set of other ranges it's simultaneously live with.
type Node struct {
	ID    NodeID
	VReg  regalloc.VReg
	Range liveness.LiveRange

	neighbors map[NodeID]bool

	colored bool
	color   Color
}

// Colored reports whether this node has been painted.
func (n *Node) Colored() bool { return n.colored }

// Color returns the node's assigned Color; panics if uncolored.
func (n *Node) Color() Color {
	if !n.colored {
		panic("rtlc/ifg: Color called on an uncolored Node")
	}
	return n.color
}

// Graph is the interference graph: an arena of Nodes plus adjacency sets
// (spec.md §4.F — "arena+index, not a pointer graph", per Design Notes).
type Graph struct {
	nodes []*Node
}

// VRegRange pairs a virtual register with one of its live ranges — a var
// with a disjoint live range (e.g. reused across two unrelated stretches of
// a block) contributes one VRegRange per range, matching spec.md §4.F's
// "one node per live range, not per variable".
type VRegRange struct {
	VReg  regalloc.VReg
	Range liveness.LiveRange
}

// Build constructs the interference graph from a flat list of (vreg, range)
// pairs: two nodes interfere iff they're the same RegType and their ranges
// intersect at some shared block offset (backend/regalloc/coloring.go's
// buildNeighborsByLiveNodes, generalized from per-block live-node lists to
// whole live ranges since this model has no block-local liveNodeInBlock
// intermediate).
func Build(pairs []VRegRange) *Graph {
	g := &Graph{nodes: make([]*Node, len(pairs))}
	for i, p := range pairs {
		g.nodes[i] = &Node{ID: NodeID(i), VReg: p.VReg, Range: p.Range, neighbors: map[NodeID]bool{}}
	}
	for i := 0; i < len(g.nodes); i++ {
		for j := i + 1; j < len(g.nodes); j++ {
			a, b := g.nodes[i], g.nodes[j]
			if a.VReg.RegType() != b.VReg.RegType() {
				continue
			}
			if a.Range.Intersects(b.Range) {
				a.neighbors[b.ID] = true
				b.neighbors[a.ID] = true
			}
		}
	}
	logrus.WithField("nodes", len(g.nodes)).Trace("ifg: built interference graph")
	return g
}

// Nodes returns every node in the graph, in build order.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Node returns the node named by id.
func (g *Graph) Node(id NodeID) *Node { return g.nodes[id] }

// Neighbors returns id's interfering nodes.
func (g *Graph) Neighbors(id NodeID) []NodeID {
	n := g.nodes[id]
	out := make([]NodeID, 0, len(n.neighbors))
	for nb := range n.neighbors {
		out = append(out, nb)
	}
	return out
}
