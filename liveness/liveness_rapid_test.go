package liveness

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/ssacore/rtlc/cfg"
	"github.com/ssacore/rtlc/rtl"
)

// TestSegmentInvariants is spec.md §8 property 3: for any built LiveRange,
// its segments are pairwise non-overlapping and non-adjacent within the
// same block, regardless of which locations were marked live.
func TestSegmentInvariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		const numBlocks = 3
		const blockLen = 6

		g := cfg.New()
		instrs := make([]rtl.Instruction, blockLen)
		for i := range instrs {
			instrs[i] = rtl.DummyUse(rtl.Virtual(vreg(0)))
		}
		blocks := make([]cfg.BlockHandle, numBlocks)
		for i := range blocks {
			blocks[i] = g.AddBlock(append([]rtl.Instruction(nil), instrs...))
		}
		for i := 0; i+1 < numBlocks; i++ {
			g.AddEdge(blocks[i], blocks[i+1])
		}

		v := vreg(0)
		b := NewLiveRangesBuilder()
		n := rapid.IntRange(0, 20).Draw(rt, "marks")
		for i := 0; i < n; i++ {
			blk := blocks[rapid.IntRange(0, numBlocks-1).Draw(rt, "block")]
			off := rapid.IntRange(0, blockLen-1).Draw(rt, "offset")
			b.Mark(v, cfg.At(blk, off, cfg.Pre))
		}

		ranges := b.Build(g)
		for _, r := range ranges[v.ID()] {
			byBlock := map[cfg.BlockHandle][]LiveSegment{}
			for _, seg := range r.Segments {
				byBlock[seg.Block] = append(byBlock[seg.Block], seg)
			}
			for blk, segs := range byBlock {
				for i := 0; i < len(segs); i++ {
					for j := i + 1; j < len(segs); j++ {
						a, bSeg := segs[i], segs[j]
						if a.StartOffset > bSeg.StartOffset {
							a, bSeg = bSeg, a
						}
						if a.EndOffset+1 >= bSeg.StartOffset {
							rt.Fatalf("block %d: segments %v and %v should have merged (overlap or adjacent)", blk, a, bSeg)
						}
					}
				}
			}
		}
	})
}
