// Package compiler implements the top-level orchestration spec.md §2
// describes as the pipeline's outer shell: lower SSA to RTL (§4.G), compute
// live ranges for every virtual register lowering introduced (§4.E), build
// and DSATUR-color the interference graph (§4.F/§4.H), then rewrite the RTL
// in place to reference only physical registers and stack slots (§4.H).
//
// Grounded on wazero's top-level per-function compile orchestration
// (internal/engine/wazevo's compileLocalFunction sequencing frontend →
// backend.RegAlloc → backend's post-regalloc encode loop), simplified to
// this spec's synchronous, single-procedure, no-I/O scope (§5).
package compiler

import (
	"github.com/sirupsen/logrus"

	"github.com/ssacore/rtlc/cfg"
	"github.com/ssacore/rtlc/diag"
	"github.com/ssacore/rtlc/ifg"
	"github.com/ssacore/rtlc/isa/amd64"
	"github.com/ssacore/rtlc/liveness"
	"github.com/ssacore/rtlc/lower"
	"github.com/ssacore/rtlc/regalloc"
	"github.com/ssacore/rtlc/rewrite"
	"github.com/ssacore/rtlc/ssa"
)

// Config carries Compile's knobs. Entirely in-memory: no files, no
// environment variables, no CLI flags — spec.md §5 forbids I/O in the core,
// so every configuration surface is a plain Go struct the caller fills in.
type Config struct {
	// Palette restricts the physical registers DSATUR may assign, in
	// priority order. Nil defaults to amd64.GPROrder — tests shrink this to
	// exercise register pressure (spec.md §8 scenario S4) without a second
	// physical machine description.
	Palette []regalloc.RealReg

	// TraceLogging turns on per-pass logrus.Trace logging of liveness
	// marks, coloring decisions and spills, mirroring the teacher's
	// wazevoapi.RegAllocLoggingEnabled gate. Off by default: trace-level
	// formatting isn't free even when discarded by the logger.
	TraceLogging bool

	// SpillSlotBase is the byte offset of the first spill slot within the
	// caller's frame. Zero-valued by default (spill slot N sits at
	// N*width from the frame's own spill area); callers that reserve frame
	// space above the spill area (saved registers, locals) set this so
	// rewrite emits absolute offsets instead of zero-based slot indices.
	SpillSlotBase int
}

// Result is Compile's output: the RTL graph Lower produced, rewritten in
// place to physical registers and stack slots, plus the color table that
// produced the rewrite (useful for debugging and for tests that want to
// assert on a specific register assignment).
type Result struct {
	Graph  *cfg.Graph
	Colors rewrite.Colors
}

// Compile runs the full pipeline: lower(fn) → liveness → interference graph
// → DSATUR coloring → rewrite. Returns a diagnostic built via diag.Fatalf
// (spec.md §7) if any pass detects an invariant violation; register
// pressure is never such a violation; it is handled by spilling inside
// ifg.ColorWithPalette and never reaches this error path.
func Compile(fn ssa.Function, conf Config) (*Result, error) {
	if conf.TraceLogging {
		logrus.SetLevel(logrus.TraceLevel)
	}
	palette := conf.Palette
	if palette == nil {
		palette = amd64.GPROrder
	}

	lowered, err := lower.Lower(fn)
	if err != nil {
		return nil, diag.Fatalf("lower", "%s", err)
	}

	ranges := computeLiveRanges(lowered)

	var pairs []ifg.VRegRange
	for _, v := range lowered.VRegs {
		for _, r := range ranges[v.ID()] {
			pairs = append(pairs, ifg.VRegRange{VReg: v, Range: r})
		}
	}
	graph := ifg.Build(pairs)
	ifg.ColorWithPalette(graph, palette)
	logrus.WithFields(logrus.Fields{"nodes": len(graph.Nodes())}).Trace("compiler: coloring complete")

	colors := rewrite.FromGraphWithSpillBase(graph, conf.SpillSlotBase)
	if err := rewrite.Rewrite(lowered.Graph, colors); err != nil {
		return nil, diag.Fatalf("rewrite", "%s", err)
	}
	elided := rewrite.ElideRedundantCopies(lowered.Graph)
	logrus.WithField("count", elided).Trace("compiler: elided redundant copies")

	return &Result{Graph: lowered.Graph, Colors: colors}, nil
}

// computeLiveRanges drives §4.E for every virtual register Lower
// introduced: find where it's defined, find its deaths along every
// outgoing path (find_deaths), mark it live across each def-to-death span
// (mark_live_in_range), then let LiveRangesBuilder merge the marks into
// LiveSegments/LiveRanges.
func computeLiveRanges(lowered *lower.Result) map[regalloc.VRegID][]liveness.LiveRange {
	builder := liveness.NewLiveRangesBuilder()

	for _, v := range lowered.VRegs {
		defBlock, defOffset, ok := findDefinition(lowered.Graph, v)
		if !ok {
			// Lower always assigns a vreg at the same Copy/Add/Sub/Mul/Div
			// instruction that introduces it; a vreg with no definition in
			// the graph indicates a lowering bug, not a runtime condition,
			// but compile-time absence of a range is harmless here — it
			// simply never becomes an ifg node and never competes for a
			// color.
			continue
		}

		begin := cfg.At(defBlock, defOffset, cfg.Pre)
		deaths := liveness.FindDeaths(lowered.Graph, v, defBlock)
		if len(deaths) == 0 {
			// Defined but never read on any path: still alive at its own
			// definition, nowhere else.
			builder.Mark(v, begin)
			continue
		}
		for _, end := range deaths {
			liveness.MarkLiveInRange(lowered.Graph, v, begin, end, builder)
		}
	}

	return builder.Build(lowered.Graph)
}

// findDefinition locates the single instruction that defines v — SSA's
// single-assignment property guarantees at most one exists.
func findDefinition(g *cfg.Graph, v regalloc.VReg) (cfg.BlockHandle, int, bool) {
	for i := 0; i < g.NumBlocks(); i++ {
		h := cfg.BlockHandle(i)
		blk := g.Block(h)
		if !blk.Valid() {
			continue
		}
		for off, instr := range blk.Instructions {
			for _, r := range instr.DefinedRegisters() {
				if !r.IsPhysical() && r.AsVirtual().ID() == v.ID() {
					return h, off, true
				}
			}
		}
	}
	return 0, 0, false
}
