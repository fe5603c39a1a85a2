package rtl

import (
	"fmt"

	"github.com/ssacore/rtlc/regalloc"
)

// Access is whether an operand is read (Use) or written (Def).
type Access byte

const (
	Use Access = iota
	Def
)

// Position places a liveness query relative to an instruction: immediately
// before it, or immediately after (spec.md §3 glossary, "Location").
type Position byte

const (
	Pre Position = iota
	Post
)

// Fixation records an operand constraint the register allocator must honor.
// None is unconstrained; TiedTo forces an operand to share the allocation of
// another operand of the same instruction (used for x86's dest==src1 ALU
// shape); PinnedTo forces an operand into one specific physical register
// (e.g. the architectural return register, or %rax/%rdx for Div).
type Fixation struct {
	Kind      FixationKind
	TiedIndex int // valid when Kind == FixationTiedTo
	Pin       regalloc.RealReg
}

// FixationKind discriminates Fixation's cases.
type FixationKind byte

const (
	FixationNone FixationKind = iota
	FixationTiedTo
	FixationPinnedTo
)

// Opcode names an Instruction's tagged-variant case.
type Opcode byte

const (
	OpCopy Opcode = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpReturn
	OpDummyUse
)

func (op Opcode) String() string {
	switch op {
	case OpCopy:
		return "copy"
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpMul:
		return "mul"
	case OpDiv:
		return "div"
	case OpReturn:
		return "return"
	case OpDummyUse:
		return "dummy_use"
	default:
		return "invalid"
	}
}

// Instruction is spec.md §3's tagged Instruction variant. Rather than a Go
// sum type (which the language doesn't have), this follows the teacher's
// backend/isa/amd64/instr.go convention: one struct, one Opcode discriminant,
// and the operand slots the opcode's case actually uses.
type Instruction struct {
	Op Opcode

	// Copy{to,from}, Add{to,val}, Sub{from,val}, Mul{val,with}, Div{val,with}
	// all fit in (To, Val): the in-place accumulator operand and the other
	// operand.
	To  Register
	Val RValue

	// Return{value?}: Value set iff HasValue.
	Value    RValue
	HasValue bool

	// DummyUse{reg}: Reg is the register kept artificially alive. Exists so
	// liveness tests can pin a variable's live range without depending on a
	// real use in an arithmetic op — grounded on spec.md §3's DummyUse case.
	Reg Register
}

// Copy builds Instruction{Copy, to, from}.
func Copy(to Register, from RValue) Instruction {
	return Instruction{Op: OpCopy, To: to, Val: from}
}

// Add builds Instruction{Add, to, val} meaning to += val.
func Add(to Register, val RValue) Instruction { return Instruction{Op: OpAdd, To: to, Val: val} }

// Sub builds Instruction{Sub, from, val} meaning from -= val.
func Sub(from Register, val RValue) Instruction { return Instruction{Op: OpSub, To: from, Val: val} }

// Mul builds Instruction{Mul, val, with} meaning val *= with.
func Mul(val Register, with RValue) Instruction { return Instruction{Op: OpMul, To: val, Val: with} }

// Div builds Instruction{Div, val, with} meaning val /= with.
func Div(val Register, with RValue) Instruction { return Instruction{Op: OpDiv, To: val, Val: with} }

// Return builds a Return instruction, with or without a value.
func Return(value RValue, hasValue bool) Instruction {
	return Instruction{Op: OpReturn, Value: value, HasValue: hasValue}
}

// DummyUse builds a DummyUse instruction.
func DummyUse(reg Register) Instruction { return Instruction{Op: OpDummyUse, Reg: reg} }

// UsedRegisters returns the registers this instruction reads (spec.md
// §4.C's loaded_variables), in a stable order. Add/Sub/Mul/Div read both
// operands (their destination is also a source, since they're in-place);
// Copy reads only its source; Return reads its value if present;
// DummyUse reads its register.
func (i Instruction) UsedRegisters() []Register {
	var out []Register
	switch i.Op {
	case OpCopy:
		if !i.Val.IsImmediate() {
			out = append(out, i.Val.Register())
		}
	case OpAdd, OpSub, OpMul, OpDiv:
		out = append(out, i.To)
		if !i.Val.IsImmediate() {
			out = append(out, i.Val.Register())
		}
	case OpReturn:
		if i.HasValue && !i.Value.IsImmediate() {
			out = append(out, i.Value.Register())
		}
	case OpDummyUse:
		out = append(out, i.Reg)
	}
	return out
}

// DefinedRegisters returns the registers this instruction writes (spec.md
// §4.C's defined_variables).
func (i Instruction) DefinedRegisters() []Register {
	switch i.Op {
	case OpCopy, OpAdd, OpSub, OpMul, OpDiv:
		return []Register{i.To}
	default:
		return nil
	}
}

func (i Instruction) String() string {
	switch i.Op {
	case OpCopy:
		return fmt.Sprintf("copy %s, %s", i.To, i.Val)
	case OpAdd:
		return fmt.Sprintf("add %s, %s", i.To, i.Val)
	case OpSub:
		return fmt.Sprintf("sub %s, %s", i.To, i.Val)
	case OpMul:
		return fmt.Sprintf("mul %s, %s", i.To, i.Val)
	case OpDiv:
		return fmt.Sprintf("div %s, %s", i.To, i.Val)
	case OpReturn:
		if i.HasValue {
			return fmt.Sprintf("return %s", i.Value)
		}
		return "return"
	case OpDummyUse:
		return fmt.Sprintf("dummy_use %s", i.Reg)
	default:
		return "invalid"
	}
}
