// Package liveness implements spec.md §4.E: find_deaths (per-branch last
// use) and mark_live_in_range (upward liveness walk), plus the
// LiveRangesBuilder that merges marked locations into LiveSegments.
//
// Grounded on backend/regalloc/regalloc.go's per-block liveIn/liveOut/def/
// lastUse bookkeeping and the classic backward-dataflow shape shown by
// other_examples' avo pass.Liveness (iterate until no changes).
package liveness

import (
	"github.com/ssacore/rtlc/cfg"
	"github.com/ssacore/rtlc/regalloc"
)

// FindDeaths produces one last-use Location per outgoing acyclic path from
// start, for the given virtual register. Under SSA, a variable's single def
// dominates all its uses, so the last use on every path is that path's
// death point (spec.md §4.E.1).
//
// This resolves spec.md's Open Question 1 by giving each path that diverges
// from another a distinct branch slot: a straight-line run of blocks keeps
// writing into the same slot (later reads simply overwrite earlier ones, as
// the spec describes), and only a block with more than one live descendant
// allocates a fresh slot per extra branch. A block that rejoins two earlier
// branches still belongs to both, and a read there updates both slots — the
// "safe reading" the spec calls for, rather than wazero-style silent
// overwriting across an arbitrary shared counter.
func FindDeaths(g *cfg.Graph, v regalloc.VReg, start cfg.BlockHandle) []cfg.Location {
	var out []cfg.Location
	out = append(out, cfg.Location{}) // slot 0, may remain zero-value if var is never read.
	found := make([]bool, 1)
	onPath := map[cfg.BlockHandle]bool{}

	var walk func(b cfg.BlockHandle, slot int)
	walk = func(b cfg.BlockHandle, slot int) {
		if onPath[b] {
			return // back-edge: stop, per spec.md §9 Design Notes on cyclic CFGs.
		}
		onPath[b] = true
		defer delete(onPath, b)

		blk := g.Block(b)
		for off, instr := range blk.Instructions {
			for _, r := range instr.UsedRegisters() {
				if !r.IsPhysical() && r.AsVirtual().ID() == v.ID() {
					out[slot] = cfg.At(b, off, cfg.Pre)
					found[slot] = true
				}
			}
		}

		descendants := g.Descendants(b)
		for i, d := range descendants {
			childSlot := slot
			if i > 0 {
				out = append(out, cfg.Location{})
				found = append(found, false)
				childSlot = len(out) - 1
			}
			walk(d, childSlot)
		}
	}
	walk(start, 0)

	// Drop slots that never saw a read of v: a branch that doesn't use v has
	// no death to report.
	result := out[:0]
	for i, loc := range out {
		if found[i] {
			result = append(result, loc)
		}
	}
	return result
}
