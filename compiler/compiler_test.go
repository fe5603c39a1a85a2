package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ssacore/rtlc/cfg"
	"github.com/ssacore/rtlc/ifg"
	"github.com/ssacore/rtlc/isa/amd64"
	"github.com/ssacore/rtlc/liveness"
	"github.com/ssacore/rtlc/regalloc"
	"github.com/ssacore/rtlc/rewrite"
	"github.com/ssacore/rtlc/rtl"
	"github.com/ssacore/rtlc/ssa"
	"github.com/ssacore/rtlc/types"
)

func onlyInstr(g *cfg.Graph, block int) []rtl.Instruction {
	return g.Block(cfg.BlockHandle(block)).Instructions
}

// TestS1SingleMoveReturn is spec.md §8 scenario S1: `x := 10 (u32); return
// x` compiles to exactly one physical register holding 10 and a return of
// that same register — the copy from x into the return register is elided
// once both land on the same color.
func TestS1SingleMoveReturn(t *testing.T) {
	x := ssa.NewVariable(0, "x", types.U32)
	fn := ssa.Function{Blocks: []ssa.Block{{
		Instructions: []ssa.Instruction{
			ssa.AssignInstr(x, ssa.Flat(ssa.LitValue(ssa.U32Literal(10)))),
			ssa.ReturnInstr(x, true),
		},
	}}}

	res, err := Compile(fn, Config{})
	require.NoError(t, err)

	instrs := onlyInstr(res.Graph, 0)
	require.Len(t, instrs, 2, "the x->return-register copy should have been elided")

	require.Equal(t, rtl.OpCopy, instrs[0].Op)
	require.True(t, instrs[0].To.IsPhysical())
	require.True(t, instrs[0].Val.IsImmediate())
	require.EqualValues(t, 10, instrs[0].Val.ImmediateValue())

	require.Equal(t, rtl.OpReturn, instrs[1].Op)
	require.True(t, instrs[1].HasValue)
	require.True(t, instrs[1].Value.Register().IsPhysical())
	require.Equal(t, instrs[0].To.AsPhysical().RealReg(), instrs[1].Value.Register().AsPhysical().RealReg())
}

// TestS2BinOpPairwiseInterference is spec.md §8 scenario S2: `x := 10 (u32);
// y := x; y1 := y - x` makes {x, y, y1} pairwise interfere, so DSATUR must
// assign three distinct, non-overlapping registers.
func TestS2BinOpPairwiseInterference(t *testing.T) {
	x := ssa.NewVariable(0, "x", types.U32)
	y := ssa.NewVariable(1, "y", types.U32)
	y1 := ssa.NewVariable(2, "y1", types.U32)
	fn := ssa.Function{Blocks: []ssa.Block{{
		Instructions: []ssa.Instruction{
			ssa.AssignInstr(x, ssa.Flat(ssa.LitValue(ssa.U32Literal(10)))),
			ssa.AssignInstr(y, ssa.Flat(ssa.VarValue(x))),
			ssa.AssignInstr(y1, ssa.MakeBinOp(ssa.Sub, ssa.VarValue(y), ssa.VarValue(x))),
		},
	}}}

	res, err := Compile(fn, Config{})
	require.NoError(t, err)

	cx := res.Colors[regalloc.VRegID(x.ID())]
	cy := res.Colors[regalloc.VRegID(y.ID())]
	cy1 := res.Colors[regalloc.VRegID(y1.ID())]

	require.False(t, cx.IsStackSlot())
	require.False(t, cy.IsStackSlot())
	require.False(t, cy1.IsStackSlot())
	require.NotEqual(t, cx.RealReg(), cy.RealReg())
	require.NotEqual(t, cx.RealReg(), cy1.RealReg())
	require.NotEqual(t, cy.RealReg(), cy1.RealReg())
}

// TestS2ElidesCopyWhenColorsCoincide is the conditional half of S2's claim
// ("no redundant copy between y1 and y if they received the same color"):
// when two non-interfering variables happen to land on the same register,
// the Copy materializing that coincidence disappears.
func TestS2ElidesCopyWhenColorsCoincide(t *testing.T) {
	v0 := regalloc.NewVReg(0, 4, regalloc.RegTypeInt)
	v1 := regalloc.NewVReg(1, 4, regalloc.RegTypeInt)

	g := cfg.New()
	g.AddBlock([]rtl.Instruction{
		rtl.Copy(rtl.Virtual(v0), rtl.Immediate(1, 4)),
		rtl.DummyUse(rtl.Virtual(v0)),
	})
	g.AddBlock([]rtl.Instruction{
		rtl.Copy(rtl.Virtual(v1), rtl.FromRegister(rtl.Virtual(v0))),
		rtl.DummyUse(rtl.Virtual(v1)),
	})

	colors := rewrite.Colors{
		v0.ID(): amd64.ViewAt(amd64.RAX, 4),
		v1.ID(): amd64.ViewAt(amd64.RAX, 4),
	}
	require.NoError(t, rewrite.Rewrite(g, colors))
	removed := rewrite.ElideRedundantCopies(g)
	require.Equal(t, 1, removed)
	require.Len(t, onlyInstr(g, 1), 1, "the same-color copy must be gone, the DummyUse must remain")
}

// TestS3CrossBlockLiveness is spec.md §8 scenario S3: a variable live across
// an edge produces a single interference-graph node, colorable with one
// register.
func TestS3CrossBlockLiveness(t *testing.T) {
	v := regalloc.NewVReg(0, 4, regalloc.RegTypeInt)
	g := cfg.New()
	b0 := g.AddBlock([]rtl.Instruction{
		rtl.Copy(rtl.Virtual(v), rtl.Immediate(10, 4)),
		rtl.DummyUse(rtl.Virtual(v)),
		rtl.Return(rtl.RValue{}, false),
	})
	b1 := g.AddBlock([]rtl.Instruction{
		rtl.DummyUse(rtl.Virtual(v)),
	})
	g.AddEdge(b0, b1)

	builder := liveness.NewLiveRangesBuilder()
	begin := cfg.At(b0, 0, cfg.Pre)
	for _, death := range liveness.FindDeaths(g, v, b0) {
		liveness.MarkLiveInRange(g, v, begin, death, builder)
	}
	ranges := builder.Build(g)
	require.Len(t, ranges[v.ID()], 1, "the segments in b0 and b1 must merge into one range")
	require.Len(t, ranges[v.ID()][0].Segments, 2)

	graph := ifg.Build([]ifg.VRegRange{{VReg: v, Range: ranges[v.ID()][0]}})
	require.Len(t, graph.Nodes(), 1)
	ifg.Color(graph)
	require.False(t, graph.Node(0).Color().IsStack())
}

// TestS4RegisterPressureInducesSpill is spec.md §8 scenario S4: with a
// 2-register palette and three mutually interfering virtual registers,
// DSATUR spills exactly one to a fresh stack slot of the spilled
// register's own width.
func TestS4RegisterPressureInducesSpill(t *testing.T) {
	seg := func(start, end int) liveness.LiveRange {
		return liveness.LiveRange{Segments: []liveness.LiveSegment{{Block: 0, StartOffset: start, EndOffset: end}}}
	}
	a := regalloc.NewVReg(0, 4, regalloc.RegTypeInt)
	b := regalloc.NewVReg(1, 4, regalloc.RegTypeInt)
	c := regalloc.NewVReg(2, 4, regalloc.RegTypeInt)

	graph := ifg.Build([]ifg.VRegRange{
		{VReg: a, Range: seg(0, 5)},
		{VReg: b, Range: seg(0, 5)},
		{VReg: c, Range: seg(0, 5)},
	})
	ifg.ColorWithPalette(graph, []regalloc.RealReg{amd64.RAX, amd64.RCX})

	spilled := 0
	for _, n := range graph.Nodes() {
		if n.Color().IsStack() {
			spilled++
			require.Equal(t, 0, n.Color().StackSlot())
		}
	}
	require.Equal(t, 1, spilled, "exactly one of three mutually-interfering nodes must spill under a 2-register palette")
}

// TestCompileAppliesSpillSlotBase checks Config.SpillSlotBase end to end:
// under the same register pressure as S4, driven through Compile rather
// than ifg directly, the one spilled virtual register's final
// PhysicalRegister must land at exactly SpillSlotBase, not at the
// zero-based slot index ifg assigned it internally.
func TestCompileAppliesSpillSlotBase(t *testing.T) {
	// Same shape as TestS2BinOpPairwiseInterference: x, the copy y of x,
	// and z := y-x all pairwise interfere, forming the triangle a
	// 2-register palette can't 3-color without a spill.
	x := ssa.NewVariable(0, "x", types.U32)
	y := ssa.NewVariable(1, "y", types.U32)
	z := ssa.NewVariable(2, "z", types.U32)
	fn := ssa.Function{Blocks: []ssa.Block{{
		Instructions: []ssa.Instruction{
			ssa.AssignInstr(x, ssa.Flat(ssa.LitValue(ssa.U32Literal(1)))),
			ssa.AssignInstr(y, ssa.Flat(ssa.VarValue(x))),
			ssa.AssignInstr(z, ssa.MakeBinOp(ssa.Sub, ssa.VarValue(y), ssa.VarValue(x))),
			ssa.ReturnInstr(z, true),
		},
	}}}

	const base = 32
	res, err := Compile(fn, Config{
		Palette:       []regalloc.RealReg{amd64.RAX, amd64.RCX},
		SpillSlotBase: base,
	})
	require.NoError(t, err)

	spilled := 0
	for _, color := range res.Colors {
		if color.IsStackSlot() {
			spilled++
			require.Equal(t, base, color.StackOffset(), "the sole spill slot must sit at exactly SpillSlotBase")
		}
	}
	require.Equal(t, 1, spilled, "x, y and z mutually interfere under a 2-register palette, so exactly one must spill")
}

// TestS5PartialAliasingRespected is spec.md §8 scenario S5: when a
// 64-bit-wide node interferes with a 32-bit-wide node already colored, the
// 64-bit node must avoid any register whose low-32 unit overlaps the
// 32-bit neighbor's color — never the aliased parent of that color.
func TestS5PartialAliasingRespected(t *testing.T) {
	seg := func() liveness.LiveRange {
		return liveness.LiveRange{Segments: []liveness.LiveSegment{{Block: 0, StartOffset: 0, EndOffset: 3}}}
	}
	// b (32-bit, lower NodeID) is added first so DSATUR's insertion-order
	// tie-break colors it before a, forcing a to react to b's choice.
	b := regalloc.NewVReg(0, 4, regalloc.RegTypeInt)
	a := regalloc.NewVReg(1, 8, regalloc.RegTypeInt)

	graph := ifg.Build([]ifg.VRegRange{
		{VReg: b, Range: seg()},
		{VReg: a, Range: seg()},
	})
	ifg.Color(graph)

	nb, na := graph.Node(0), graph.Node(1)
	require.False(t, nb.Color().IsStack())
	require.False(t, na.Color().IsStack())
	require.Equal(t, amd64.RAX, nb.Color().Register(), "b should take the first palette entry, uncontested")
	require.NotEqual(t, amd64.RAX, na.Color().Register(), "a must avoid RAX: its low-32 unit overlaps b's color")

	bView := nb.Color().PhysicalView(nb.VReg.WidthBytes())
	aView := na.Color().PhysicalView(na.VReg.WidthBytes())
	require.False(t, aView.Overlaps(bView))
}
