package ifg

import (
	"github.com/sirupsen/logrus"

	"github.com/ssacore/rtlc/isa/amd64"
	"github.com/ssacore/rtlc/regalloc"
)

// Color paints every node in g using DSATUR (spec.md §4.H): repeatedly pick
// the uncolored node with the highest saturation degree (the number of
// distinct registers its already-colored neighbors forbid it from using),
// breaking ties by raw interference degree and finally by NodeID for
// determinism (spec.md §9 property 7, "coloring is deterministic given a
// fixed input and a fixed register order"), then paint it with the lowest
// isa/amd64.GPROrder register not forbidden by any already-colored
// neighbor. A node with no legal register is spilled to a fresh stack slot
// instead — spec.md's "coloring never fails, it degrades to spilling".
//
// Runs once per RegType, since ranges of different types never interfere
// (spec.md §4.F) and so never compete for the same palette.
func Color(g *Graph) {
	ColorWithPalette(g, amd64.GPROrder)
}

// ColorWithPalette is Color parameterized over the candidate register
// order, so tests can exercise register-pressure scenarios (spec.md §8
// scenario S4) against a palette smaller than the real machine's without
// needing a second physical register table.
func ColorWithPalette(g *Graph, palette []regalloc.RealReg) {
	byType := map[regalloc.RegType][]NodeID{}
	for _, n := range g.nodes {
		t := n.VReg.RegType()
		byType[t] = append(byType[t], n.ID)
	}
	nextStackSlot := 0
	for t, ids := range byType {
		logrus.WithFields(logrus.Fields{"regType": t, "count": len(ids)}).Trace("ifg: coloring pass")
		colorOneType(g, ids, palette, &nextStackSlot)
	}
}

func colorOneType(g *Graph, ids []NodeID, palette []regalloc.RealReg, nextStackSlot *int) {
	remaining := map[NodeID]bool{}
	for _, id := range ids {
		remaining[id] = true
	}

	for len(remaining) > 0 {
		best := pickMostSaturated(g, remaining, palette)
		n := g.Node(best)

		forbidden := forbiddenRegisters(g, n, palette)
		assigned := false
		for _, candidate := range palette {
			if forbidden[candidate] {
				continue
			}
			n.color = RegisterColor(candidate)
			n.colored = true
			assigned = true
			break
		}
		if !assigned {
			n.color = StackColor(*nextStackSlot)
			n.colored = true
			*nextStackSlot++
			logrus.WithField("vreg", n.VReg.String()).Trace("ifg: spilled to stack slot")
		}
		delete(remaining, best)
	}
}

// forbiddenRegisters returns the set of machine registers n cannot take
// because some already-colored neighbor occupies an overlapping unit at
// n's width (spec.md §4.B's partial-aliasing overlap rule). Stack-colored
// neighbors never forbid anything: spill slots don't alias registers.
func forbiddenRegisters(g *Graph, n *Node, palette []regalloc.RealReg) map[regalloc.RealReg]bool {
	forbidden := map[regalloc.RealReg]bool{}
	for nbID := range neighborSet(g, n.ID) {
		nb := g.Node(nbID)
		if !nb.colored || nb.color.IsStack() {
			continue
		}
		nbView := nb.color.PhysicalView(nb.VReg.WidthBytes())
		for _, candidate := range palette {
			if forbidden[candidate] {
				continue
			}
			candView := amd64.ViewAt(candidate, n.VReg.WidthBytes())
			if candView.Overlaps(nbView) {
				forbidden[candidate] = true
			}
		}
	}
	return forbidden
}

// pickMostSaturated selects the DSATUR candidate: maximum saturation
// degree, then maximum raw degree, then lowest NodeID.
func pickMostSaturated(g *Graph, remaining map[NodeID]bool, palette []regalloc.RealReg) NodeID {
	var best NodeID
	bestSat, bestDeg := -1, -1
	first := true
	for id := range remaining {
		n := g.Node(id)
		sat := len(forbiddenRegisters(g, n, palette))
		deg := len(n.neighbors)
		if first || sat > bestSat || (sat == bestSat && deg > bestDeg) || (sat == bestSat && deg == bestDeg && id < best) {
			best, bestSat, bestDeg, first = id, sat, deg, false
		}
	}
	return best
}

func neighborSet(g *Graph, id NodeID) map[NodeID]bool {
	return g.Node(id).neighbors
}
