package liveness

import (
	"github.com/ssacore/rtlc/cfg"
	"github.com/ssacore/rtlc/regalloc"
)

// LiveRangesBuilder accumulates, per virtual register, the set of Locations
// mark_live_in_range has visited, then coalesces them into LiveSegments and
// LiveRanges (spec.md §4.E.3).
//
// Grounded on backend/regalloc/regalloc.go's liveNodeInfo bookkeeping, which
// also separates "mark every live point" from "summarize into ranges" as two
// passes.
type LiveRangesBuilder struct {
	marks map[regalloc.VRegID]map[cfg.Location]bool
}

// NewLiveRangesBuilder returns an empty builder.
func NewLiveRangesBuilder() *LiveRangesBuilder {
	return &LiveRangesBuilder{marks: map[regalloc.VRegID]map[cfg.Location]bool{}}
}

// Mark records loc as live for v. Reports whether this is new information
// (false means loc was already marked live, the fixed-point termination
// signal mark_live_in_range relies on).
func (b *LiveRangesBuilder) Mark(v regalloc.VReg, loc cfg.Location) bool {
	set, ok := b.marks[v.ID()]
	if !ok {
		set = map[cfg.Location]bool{}
		b.marks[v.ID()] = set
	}
	if set[loc] {
		return false
	}
	set[loc] = true
	return true
}

// IsLive reports whether loc has been marked live for v.
func (b *LiveRangesBuilder) IsLive(v regalloc.VReg, loc cfg.Location) bool {
	return b.marks[v.ID()][loc]
}

// LiveSegment is a maximal contiguous run of live instruction offsets within
// a single block (spec.md §4.E.3), both bounds inclusive.
type LiveSegment struct {
	Block       cfg.BlockHandle
	StartOffset int
	EndOffset   int
}

// LiveRange is a set of LiveSegments transitively joined across block
// boundaries: a segment that stays live through the last instruction of its
// block is merged with a successor's segment that is live from the first
// instruction, following spec.md's index-arithmetic merge (Design Note 3)
// rather than aliased pointers between ranges.
type LiveRange struct {
	Segments []LiveSegment
}

// Intersects reports whether r and other ever hold the same variable alive
// at the same program point: true iff some pair of their segments share a
// block and overlap in offset. Used by package ifg to decide interference
// between two live ranges.
func (r LiveRange) Intersects(other LiveRange) bool {
	for _, a := range r.Segments {
		for _, b := range other.Segments {
			if a.Block == b.Block && a.StartOffset <= b.EndOffset && b.StartOffset <= a.EndOffset {
				return true
			}
		}
	}
	return false
}

// Build coalesces every var's marked Locations into per-block LiveSegments,
// then fixed-point-merges segments that abut across a CFG edge into
// LiveRanges. Returns one []LiveRange per virtual register that was ever
// marked live.
func (b *LiveRangesBuilder) Build(g *cfg.Graph) map[regalloc.VRegID][]LiveRange {
	out := map[regalloc.VRegID][]LiveRange{}
	for id, set := range b.marks {
		out[id] = buildOne(g, set)
	}
	return out
}

// buildOne runs the two-stage merge for a single variable's mark set.
func buildOne(g *cfg.Graph, set map[cfg.Location]bool) []LiveRange {
	byBlock := map[cfg.BlockHandle][]int{}
	for loc := range set {
		byBlock[loc.Block] = append(byBlock[loc.Block], loc.Offset)
	}

	var segs []LiveSegment
	// startsAt/endsAt map a block to the index of the segment that
	// touches its first/last instruction offset, if any — used to find
	// cross-block merge candidates without rescanning.
	startsAt := map[cfg.BlockHandle]int{} // block -> seg index whose StartOffset == 0
	endsAt := map[cfg.BlockHandle]int{}   // block -> seg index whose EndOffset == last instruction offset

	blocks := sortedBlockKeys(byBlock)
	for _, blk := range blocks {
		offsets := sortedInts(byBlock[blk])
		lastInstrOffset := g.Block(blk).Len() - 1

		runStart := offsets[0]
		prev := offsets[0]
		flush := func(end int) {
			idx := len(segs)
			segs = append(segs, LiveSegment{Block: blk, StartOffset: runStart, EndOffset: end})
			if runStart == 0 {
				startsAt[blk] = idx
			}
			if end == lastInstrOffset {
				endsAt[blk] = idx
			}
		}
		for _, o := range offsets[1:] {
			if o == prev+1 {
				prev = o
				continue
			}
			flush(prev)
			runStart = o
			prev = o
		}
		flush(prev)
	}

	uf := newUnionFind(len(segs))
	for blk, endIdx := range endsAt {
		for _, succ := range g.Descendants(blk) {
			if startIdx, ok := startsAt[succ]; ok {
				uf.union(endIdx, startIdx)
			}
		}
	}

	groups := map[int][]LiveSegment{}
	for i, s := range segs {
		root := uf.find(i)
		groups[root] = append(groups[root], s)
	}

	var ranges []LiveRange
	for _, root := range sortedIntKeys(groups) {
		ranges = append(ranges, LiveRange{Segments: groups[root]})
	}
	return ranges
}

// unionFind is a minimal index-based disjoint-set: spec.md's Design Note 3
// calls for "index arithmetic, not aliased pointers" when joining ranges
// across block boundaries, which a union-find over segment indices gives
// directly.
type unionFind struct{ parent []int }

func newUnionFind(n int) *unionFind {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return &unionFind{parent: p}
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[ra] = rb
	}
}

func sortedInts(xs []int) []int {
	out := append([]int(nil), xs...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func sortedBlockKeys(m map[cfg.BlockHandle][]int) []cfg.BlockHandle {
	out := make([]cfg.BlockHandle, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func sortedIntKeys(m map[int][]LiveSegment) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
