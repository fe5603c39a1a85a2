// Package lower implements spec.md §4.G: SSA→RTL lowering. Each SSA
// instruction becomes one or more RTL ops operating on fresh virtual
// registers, one per SSA variable (the SSA single-def property makes this
// a direct 1:1 mapping, unlike a mutable-variable source language).
//
// Grounded on the general one-opcode-to-one-or-more-RTL-ops shape of
// wazero's frontend lowering (ssa.Builder's instruction-selection loop),
// generalized from WebAssembly opcodes to this module's Assign/BinOp/
// Return SSA instructions.
package lower

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ssacore/rtlc/cfg"
	"github.com/ssacore/rtlc/isa/amd64"
	"github.com/ssacore/rtlc/regalloc"
	"github.com/ssacore/rtlc/rtl"
	"github.com/ssacore/rtlc/ssa"
)

// Result is the RTL produced by Lower: a CFG block-for-block isomorphic to
// the input ssa.Function, plus the table mapping each SSA variable to the
// virtual register lowering assigned it (package ifg and package rewrite
// both need this to connect a coloring back to a source variable).
type Result struct {
	Graph *cfg.Graph
	VRegs map[uint32]regalloc.VReg
}

// Lower translates fn into RTL. Returns a diagnostic (via github.com/pkg/
// errors, spec.md §7's invariant-violation fatal path) if fn violates a
// type invariant lowering assumes: a BinOp's operand types disagree, or a
// Return references a variable fn never assigns.
func Lower(fn ssa.Function) (*Result, error) {
	vregs := map[uint32]regalloc.VReg{}
	vreg := func(v ssa.Variable) regalloc.VReg {
		if existing, ok := vregs[v.ID()]; ok {
			return existing
		}
		nv := regalloc.NewVReg(regalloc.VRegID(v.ID()), v.Type().SizeBytes(), regalloc.RegTypeInt)
		vregs[v.ID()] = nv
		return nv
	}

	assigned := map[uint32]bool{}
	for _, blk := range fn.Blocks {
		for _, ins := range blk.Instructions {
			if ins.Op == ssa.OpAssign {
				assigned[ins.Dest.ID()] = true
			}
		}
	}

	g := cfg.New()
	for _, blk := range fn.Blocks {
		var instrs []rtl.Instruction
		for _, ins := range blk.Instructions {
			if ins.Op == ssa.OpReturn && ins.HasReturnValue && !assigned[ins.ReturnValue.ID()] {
				return nil, errors.Errorf("rtlc/lower: return of unassigned variable %s", ins.ReturnValue)
			}
			lowered, err := lowerInstruction(ins, vreg)
			if err != nil {
				return nil, err
			}
			instrs = append(instrs, lowered...)
		}
		h := g.AddBlock(instrs)
		logrus.WithFields(logrus.Fields{"block": h, "instrs": len(instrs)}).Trace("lower: lowered block")
	}
	for from, blk := range fn.Blocks {
		for _, to := range blk.Successors {
			g.AddEdge(cfg.BlockHandle(from), cfg.BlockHandle(to))
		}
	}

	return &Result{Graph: g, VRegs: vregs}, nil
}

func lowerInstruction(ins ssa.Instruction, vreg func(ssa.Variable) regalloc.VReg) ([]rtl.Instruction, error) {
	switch ins.Op {
	case ssa.OpAssign:
		return lowerAssign(ins, vreg)
	case ssa.OpReturn:
		return lowerReturn(ins, vreg), nil
	default:
		return nil, errors.Errorf("rtlc/lower: unknown ssa opcode %v", ins.Op)
	}
}

func lowerAssign(ins ssa.Instruction, vreg func(ssa.Variable) regalloc.VReg) ([]rtl.Instruction, error) {
	dest := rtl.Virtual(vreg(ins.Dest))
	value := ins.Value

	if !value.IsBinOp() {
		// Assign(dest, Lit(k)) / Assign(dest, Var(v)): a single Copy.
		return []rtl.Instruction{rtl.Copy(dest, flatToRValue(value.Flat(), vreg))}, nil
	}

	op, a, b := value.BinOp()
	if a.Type() != b.Type() {
		return nil, errors.Errorf("rtlc/lower: binop operand type mismatch: %s vs %s", a.Type(), b.Type())
	}

	// §4.G: "if vreg(dest) != reg(a) emit Copy(vreg(dest), a); then
	// Sub(vreg(dest), b)". Under SSA, dest is always a fresh id distinct
	// from any operand's, so the initial copy is unconditional here.
	out := []rtl.Instruction{rtl.Copy(dest, flatToRValue(a, vreg))}
	rb := flatToRValue(b, vreg)
	switch op {
	case ssa.Add:
		out = append(out, rtl.Add(dest, rb))
	case ssa.Sub:
		out = append(out, rtl.Sub(dest, rb))
	case ssa.Mul:
		out = append(out, rtl.Mul(dest, rb))
	case ssa.Div:
		out = append(out, rtl.Div(dest, rb))
	default:
		return nil, errors.Errorf("rtlc/lower: unknown binop kind %v", op)
	}
	return out, nil
}

func lowerReturn(ins ssa.Instruction, vreg func(ssa.Variable) regalloc.VReg) []rtl.Instruction {
	if !ins.HasReturnValue {
		return []rtl.Instruction{rtl.Return(rtl.RValue{}, false)}
	}

	// Materialize the returned value into the architectural return
	// register directly at lowering time, rather than threading a
	// PinnedTo fixation through coloring: the copy's live range is a
	// single instruction at the very end of a block, the one place a
	// hard-pinned physical destination can't collide with an
	// as-yet-uncolored virtual register's live range.
	src := vreg(ins.ReturnValue)
	returnReg := rtl.Physical(amd64.ViewAt(amd64.RAX, src.WidthBytes()))
	return []rtl.Instruction{
		rtl.Copy(returnReg, rtl.FromRegister(rtl.Virtual(src))),
		rtl.Return(rtl.FromRegister(returnReg), true),
	}
}

func flatToRValue(f ssa.FlatRValue, vreg func(ssa.Variable) regalloc.VReg) rtl.RValue {
	if f.IsLiteral() {
		lit := f.Literal()
		return rtl.Immediate(lit.Value(), lit.Type().SizeBytes())
	}
	return rtl.FromRegister(rtl.Virtual(vreg(f.Variable())))
}
