package cfg

// replaceOutRef walks the outgoing-edge chain rooted at blocks[h].firstOut,
// rewriting the single reference (either the block's firstOut, or some
// edge's nextOut) that currently equals old to instead equal new. Used both
// to unlink a removed edge from its chain (new = the removed edge's own
// nextOut, i.e. "skip me") and to re-point references at a swap-relocated
// edge's old index to its new index. Grounded on spec.md §4.D's
// remove_edge contract: "any stored edge id equal to the old last index is
// rewritten to the freed index". replaceInRef does the same for the
// incoming-edge chain rooted at blocks[h].firstIn.
func (g *Graph) replaceOutRef(h BlockHandle, old, new uint32) {
	b := g.Block(h)
	if b.firstOut == old {
		b.firstOut = new
		return
	}
	for cur := b.firstOut; cur != noEdge; cur = g.edges[cur].nextOut {
		if g.edges[cur].nextOut == old {
			g.edges[cur].nextOut = new
			return
		}
	}
}

func (g *Graph) replaceInRef(h BlockHandle, old, new uint32) {
	b := g.Block(h)
	if b.firstIn == old {
		b.firstIn = new
		return
	}
	for cur := b.firstIn; cur != noEdge; cur = g.edges[cur].nextIn {
		if g.edges[cur].nextIn == old {
			g.edges[cur].nextIn = new
			return
		}
	}
}

// RemoveEdge swap-removes the edge named by e, fixing up any stored index
// that pointed at the old last slot (spec.md §4.D). Returns the edge's
// (from, to) and true, or the zero value and false if e no longer names a
// live edge.
func (g *Graph) RemoveEdge(e EdgeHandle) (from, to BlockHandle, ok bool) {
	idx := uint32(e)
	if idx >= uint32(len(g.edges)) {
		return 0, 0, false
	}
	removed := g.edges[idx]
	g.replaceOutRef(removed.from, idx, removed.nextOut)
	g.replaceInRef(removed.to, idx, removed.nextIn)

	last := uint32(len(g.edges) - 1)
	if idx != last {
		moved := g.edges[last]
		g.replaceOutRef(moved.from, last, idx)
		g.replaceInRef(moved.to, last, idx)
		g.edges[idx] = moved
	}
	g.edges = g.edges[:last]
	return removed.from, removed.to, true
}

// RemoveBlock removes the block named by h and every edge incident to it
// (both directions), returning the block's former contents. Later blocks
// keep their handles: only h's slot is tombstoned (Valid() becomes false),
// not compacted away, so no other BlockHandle is invalidated.
func (g *Graph) RemoveBlock(h BlockHandle) Block {
	b := g.Block(h)
	for b.firstOut != noEdge {
		g.RemoveEdge(EdgeHandle(b.firstOut))
	}
	for b.firstIn != noEdge {
		g.RemoveEdge(EdgeHandle(b.firstIn))
	}
	removed := *b
	b.invalid = true
	b.Instructions = nil
	return removed
}

// Predecessors returns, in intrusive-list order, every block with an edge
// into h. A duplicate edge produces a duplicate entry, per spec.md §4.D.
func (g *Graph) Predecessors(h BlockHandle) []BlockHandle {
	var out []BlockHandle
	b := g.Block(h)
	for cur := b.firstIn; cur != noEdge; cur = g.edges[cur].nextIn {
		out = append(out, g.edges[cur].from)
	}
	return out
}

// Descendants returns, in intrusive-list order, every block h has an edge
// to.
func (g *Graph) Descendants(h BlockHandle) []BlockHandle {
	var out []BlockHandle
	b := g.Block(h)
	for cur := b.firstOut; cur != noEdge; cur = g.edges[cur].nextOut {
		out = append(out, g.edges[cur].to)
	}
	return out
}

// HasForwardPath reports whether b is reachable from a by following edges
// forward. DFS over an explicit stack; a path back to the start is not
// itself a match (spec.md §4.D: "detects cycles by comparing against the
// start block and returning false").
func (g *Graph) HasForwardPath(a, b BlockHandle) bool {
	if a == b {
		return true
	}
	visited := make(map[BlockHandle]bool)
	stack := []BlockHandle{a}
	visited[a] = true
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range g.Descendants(cur) {
			if next == b {
				return true
			}
			if next == a || visited[next] {
				continue
			}
			visited[next] = true
			stack = append(stack, next)
		}
	}
	return false
}

// HasBackwardsPath reports whether b is reachable from a by following
// edges backward (i.e. whether a is forward-reachable from b through
// predecessors).
func (g *Graph) HasBackwardsPath(a, b BlockHandle) bool {
	if a == b {
		return true
	}
	visited := make(map[BlockHandle]bool)
	stack := []BlockHandle{a}
	visited[a] = true
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range g.Predecessors(cur) {
			if next == b {
				return true
			}
			if next == a || visited[next] {
				continue
			}
			visited[next] = true
			stack = append(stack, next)
		}
	}
	return false
}
