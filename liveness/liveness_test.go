package liveness

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ssacore/rtlc/cfg"
	"github.com/ssacore/rtlc/regalloc"
	"github.com/ssacore/rtlc/rtl"
)

func vreg(id uint32) regalloc.VReg {
	return regalloc.NewVReg(regalloc.VRegID(id), 4, regalloc.RegTypeInt)
}

// straightLine builds b0: v0 = 1; v1 = v0 + 1; return v1 — a single block,
// no branches.
func straightLine() (*cfg.Graph, cfg.BlockHandle, regalloc.VReg) {
	v0, v1 := vreg(0), vreg(1)
	instrs := []rtl.Instruction{
		rtl.Copy(rtl.Virtual(v0), rtl.Immediate(1, 4)),
		rtl.Add(rtl.Virtual(v1), rtl.FromRegister(rtl.Virtual(v0))),
		rtl.Return(rtl.FromRegister(rtl.Virtual(v1)), true),
	}
	g := cfg.New()
	b0 := g.AddBlock(instrs)
	return g, b0, v0
}

func TestFindDeathsStraightLine(t *testing.T) {
	g, b0, v0 := straightLine()
	deaths := FindDeaths(g, v0, b0)
	require.Len(t, deaths, 1)
	require.Equal(t, cfg.At(b0, 1, cfg.Pre), deaths[0])
}

// diamond builds:
//
//	b0: v0 = 1; branch
//	b1: use v0; goto b3
//	b2: use v0; goto b3
//	b3: return
func diamond() (g *cfg.Graph, b0, b1, b2, b3 cfg.BlockHandle, v0 regalloc.VReg) {
	v0 = vreg(0)
	g = cfg.New()
	b0 = g.AddBlock([]rtl.Instruction{
		rtl.Copy(rtl.Virtual(v0), rtl.Immediate(1, 4)),
	})
	b1 = g.AddBlock([]rtl.Instruction{
		rtl.DummyUse(rtl.Virtual(v0)),
	})
	b2 = g.AddBlock([]rtl.Instruction{
		rtl.DummyUse(rtl.Virtual(v0)),
	})
	b3 = g.AddBlock([]rtl.Instruction{
		rtl.Return(rtl.RValue{}, false),
	})
	g.AddEdge(b0, b1)
	g.AddEdge(b0, b2)
	g.AddEdge(b1, b3)
	g.AddEdge(b2, b3)
	return g, b0, b1, b2, b3, v0
}

func TestFindDeathsDiamondProducesOneDeathPerBranch(t *testing.T) {
	g, b0, b1, b2, _, v0 := diamond()
	deaths := FindDeaths(g, v0, b0)
	require.Len(t, deaths, 2)

	want := map[cfg.Location]bool{
		cfg.At(b1, 0, cfg.Pre): true,
		cfg.At(b2, 0, cfg.Pre): true,
	}
	for _, d := range deaths {
		require.True(t, want[d], "unexpected death location %v", d)
	}
}

func TestMarkLiveInRangeStraightLine(t *testing.T) {
	g, b0, v0 := straightLine()
	b := NewLiveRangesBuilder()

	begin := cfg.At(b0, 0, cfg.Pre)
	end := cfg.At(b0, 1, cfg.Pre)
	MarkLiveInRange(g, v0, begin, end, b)

	require.True(t, b.IsLive(v0, cfg.At(b0, 0, cfg.Pre)))
	require.True(t, b.IsLive(v0, cfg.At(b0, 1, cfg.Pre)))
	require.False(t, b.IsLive(v0, cfg.At(b0, 2, cfg.Pre)))
}

func TestMarkLiveInRangeAcrossBlocks(t *testing.T) {
	g, b0, b1, _, _, v0 := diamond()
	b := NewLiveRangesBuilder()

	begin := cfg.At(b0, 0, cfg.Pre)
	end := cfg.At(b1, 0, cfg.Pre)
	MarkLiveInRange(g, v0, begin, end, b)

	require.True(t, b.IsLive(v0, cfg.At(b0, 0, cfg.Pre)))
	require.True(t, b.IsLive(v0, cfg.At(b1, 0, cfg.Pre)))
}

func TestBuildMergesSegmentsAcrossEdge(t *testing.T) {
	g, b0, b1, b2, _, v0 := diamond()
	b := NewLiveRangesBuilder()

	b.Mark(v0, cfg.At(b0, 0, cfg.Pre))
	b.Mark(v0, cfg.At(b1, 0, cfg.Pre))
	b.Mark(v0, cfg.At(b2, 0, cfg.Pre))

	ranges := b.Build(g)
	got := ranges[v0.ID()]
	require.Len(t, got, 1, "b0's single segment should merge with both b1 and b2's segments")
	require.Len(t, got[0].Segments, 3)
}

func TestBuildKeepsDisjointSegmentsSeparate(t *testing.T) {
	v0, v1 := vreg(0), vreg(1)
	g := cfg.New()
	b0 := g.AddBlock([]rtl.Instruction{
		rtl.Copy(rtl.Virtual(v0), rtl.Immediate(1, 4)),
		rtl.DummyUse(rtl.Virtual(v0)),
	})
	b1 := g.AddBlock([]rtl.Instruction{
		rtl.Copy(rtl.Virtual(v1), rtl.Immediate(2, 4)),
	})
	// No edge between b0 and b1: their segments must not merge.

	b := NewLiveRangesBuilder()
	b.Mark(v0, cfg.At(b0, 0, cfg.Pre))
	b.Mark(v0, cfg.At(b0, 1, cfg.Pre))
	b.Mark(v1, cfg.At(b1, 0, cfg.Pre))

	ranges := b.Build(g)
	require.Len(t, ranges[v0.ID()], 1)
	require.Equal(t, 0, ranges[v0.ID()][0].Segments[0].StartOffset)
	require.Equal(t, 1, ranges[v0.ID()][0].Segments[0].EndOffset)
	require.Len(t, ranges[v1.ID()], 1)
}
