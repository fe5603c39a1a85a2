package liveness

import (
	"github.com/sirupsen/logrus"

	"github.com/ssacore/rtlc/cfg"
	"github.com/ssacore/rtlc/regalloc"
)

// MarkLiveInRange walks backward from end toward begin marking every Pre
// Location live for v, crossing block boundaries through predecessors when
// the walk reaches the top of a block before reaching begin (spec.md
// §4.E.2).
//
// This resolves spec.md's Open Question 2: rather than a single pass that
// can under- or over-mark around loops, the walk is memoized on
// (var, Location) through builder.Mark, whose return value is the
// termination signal — once a Location has already been marked, any further
// path that reaches it again contributes nothing new, so recursion there
// stops. Backward dataflow over a cyclic CFG reaches this fixed point after
// a bounded number of re-visits per loop, the same shape other_examples' avo
// pass.Liveness uses (iterate until no bit changes).
func MarkLiveInRange(g *cfg.Graph, v regalloc.VReg, begin, end cfg.Location, b *LiveRangesBuilder) {
	logrus.WithFields(logrus.Fields{
		"vreg":  v.String(),
		"begin": begin,
		"end":   end,
	}).Trace("liveness: mark_live_in_range")
	walkBackward(g, v, begin, end.Block, end.Offset, b)
}

func walkBackward(g *cfg.Graph, v regalloc.VReg, begin cfg.Location, block cfg.BlockHandle, fromOffset int, b *LiveRangesBuilder) {
	off := fromOffset
	for off >= 0 {
		loc := cfg.At(block, off, cfg.Pre)
		if !b.Mark(v, loc) {
			return // already live here: this path has converged.
		}
		if block == begin.Block && off <= begin.Offset {
			return // reached the range's lower bound.
		}
		off--
	}
	if block == begin.Block {
		// begin lives in this block but above any instruction we walked
		// (e.g. begin.Offset < 0, the block-entry gap); nothing more to do.
		return
	}
	for _, pred := range g.Predecessors(block) {
		walkThroughPredecessor(g, v, begin, pred, b)
	}
}

// walkThroughPredecessor enters pred from its successor's edge. An empty
// block contributes no instructions to mark, so the walk passes straight
// through to pred's own predecessors instead of stopping there.
func walkThroughPredecessor(g *cfg.Graph, v regalloc.VReg, begin cfg.Location, pred cfg.BlockHandle, b *LiveRangesBuilder) {
	lastOffset := g.Block(pred).Len() - 1
	if lastOffset < 0 {
		for _, grandPred := range g.Predecessors(pred) {
			walkThroughPredecessor(g, v, begin, grandPred, b)
		}
		return
	}
	walkBackward(g, v, begin, pred, lastOffset, b)
}
