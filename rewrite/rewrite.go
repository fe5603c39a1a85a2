// Package rewrite implements spec.md §4.H: walk every RTL op, substituting
// each Register::Virtual occurrence for the physical color package ifg
// chose for it. Immediates pass through untouched; a spilled virtual
// register becomes a PhysicalRegister::StackSlot operand, which the
// external encoder turns into a `[sp + k]` addressing form.
//
// Grounded on backend/regalloc/assign.go and the AssignDef/AssignUses
// contract backend/regalloc/api.go declares: a pass that only ever touches
// operand slots through a narrow accessor, never the instruction's
// internal layout directly.
package rewrite

import (
	"github.com/pkg/errors"

	"github.com/ssacore/rtlc/cfg"
	"github.com/ssacore/rtlc/ifg"
	"github.com/ssacore/rtlc/regalloc"
	"github.com/ssacore/rtlc/rtl"
)

// Colors maps a virtual register's id to the PhysicalRegister package ifg
// assigned it.
type Colors map[regalloc.VRegID]regalloc.PhysicalRegister

// FromGraph builds a Colors table from a colored interference graph, with
// spill slots numbered from offset 0. Panics if called before ifg.Color:
// every node must carry a color.
func FromGraph(g *ifg.Graph) Colors {
	return FromGraphWithSpillBase(g, 0)
}

// FromGraphWithSpillBase is FromGraph, translating each spilled node's
// zero-based slot index into an absolute byte offset
// spillBase+slot*widthBytes — compiler.Config's spill-slot base offset
// (SPEC_FULL.md Component M), so the caller's frame layout controls where
// the spill area actually starts instead of every compilation assuming it
// begins at byte 0.
func FromGraphWithSpillBase(g *ifg.Graph, spillBase int) Colors {
	out := make(Colors, len(g.Nodes()))
	for _, n := range g.Nodes() {
		width := n.VReg.WidthBytes()
		c := n.Color()
		if c.IsStack() {
			out[n.VReg.ID()] = regalloc.StackSlot(spillBase+c.StackSlot()*width, width)
			continue
		}
		out[n.VReg.ID()] = c.PhysicalView(width)
	}
	return out
}

// Rewrite rewrites every instruction in g in place, substituting each
// virtual register occurrence with its assigned color. Returns a fatal
// diagnostic (spec.md §4.I) if an instruction references a virtual
// register with no entry in colors — a violated invariant, not a runtime
// condition.
func Rewrite(g *cfg.Graph, colors Colors) error {
	for i := 0; i < g.NumBlocks(); i++ {
		h := cfg.BlockHandle(i)
		blk := g.Block(h)
		if !blk.Valid() {
			continue
		}
		for idx := range blk.Instructions {
			if err := rewriteInstruction(&blk.Instructions[idx], colors); err != nil {
				return errors.Wrapf(err, "rewrite: block %d instruction %d", i, idx)
			}
		}
	}
	return nil
}

// rewriteInstruction touches only the operand slots the instruction's
// opcode actually defines, matching rtl.Instruction.UsedRegisters'/
// DefinedRegisters' own per-opcode switch — a slot an opcode doesn't use
// may hold a stale zero Register and must never be treated as a reference
// needing a color.
func rewriteInstruction(instr *rtl.Instruction, colors Colors) error {
	switch instr.Op {
	case rtl.OpCopy, rtl.OpAdd, rtl.OpSub, rtl.OpMul, rtl.OpDiv:
		to, err := rewriteRegister(instr.To, colors)
		if err != nil {
			return err
		}
		instr.To = to
		val, err := rewriteRValue(instr.Val, colors)
		if err != nil {
			return err
		}
		instr.Val = val
	case rtl.OpReturn:
		if instr.HasValue {
			val, err := rewriteRValue(instr.Value, colors)
			if err != nil {
				return err
			}
			instr.Value = val
		}
	case rtl.OpDummyUse:
		reg, err := rewriteRegister(instr.Reg, colors)
		if err != nil {
			return err
		}
		instr.Reg = reg
	}
	return nil
}

// ElideRedundantCopies removes every Copy instruction that, after coloring,
// both reads and writes the exact same physical location — the "no
// redundant copy between y1 and y if they received the same color" case
// spec.md §8 scenario S2 calls out. Must run after Rewrite: it only
// recognizes redundancy once both operands are physical.
func ElideRedundantCopies(g *cfg.Graph) int {
	removed := 0
	for i := 0; i < g.NumBlocks(); i++ {
		blk := g.Block(cfg.BlockHandle(i))
		if !blk.Valid() {
			continue
		}
		kept := blk.Instructions[:0]
		for _, instr := range blk.Instructions {
			if isRedundantCopy(instr) {
				removed++
				continue
			}
			kept = append(kept, instr)
		}
		blk.Instructions = kept
	}
	return removed
}

func isRedundantCopy(instr rtl.Instruction) bool {
	if instr.Op != rtl.OpCopy || instr.Val.IsImmediate() {
		return false
	}
	to, from := instr.To, instr.Val.Register()
	if !to.IsPhysical() || !from.IsPhysical() {
		return false
	}
	return to.AsPhysical().SameView(from.AsPhysical())
}

func rewriteRegister(r rtl.Register, colors Colors) (rtl.Register, error) {
	if r.IsPhysical() {
		return r, nil
	}
	v := r.AsVirtual()
	color, ok := colors[v.ID()]
	if !ok {
		return r, errors.Errorf("unresolved virtual register %s", v)
	}
	return rtl.Physical(color), nil
}

func rewriteRValue(v rtl.RValue, colors Colors) (rtl.RValue, error) {
	if v.IsImmediate() {
		return v, nil
	}
	r, err := rewriteRegister(v.Register(), colors)
	if err != nil {
		return v, err
	}
	return rtl.FromRegister(r), nil
}
