package regalloc

import "github.com/ssacore/rtlc/types"

// Unit is an atomic sub-register tag: the smallest piece of machine state a
// physical register can claim. Two physical registers overlap iff their unit
// sets intersect. Grounded on spec.md §3/§4.B ("rax → {AL, AH}") and the
// Design Notes' instruction to represent this via a unit-tag set rather than
// hand-coded per-pair aliasing rules.
type Unit uint8

// PhysicalRegister is a statically-declared entry in an immutable,
// machine-specific table (spec.md §4.B). StackSlot is the pseudo-color used
// by the DSATUR spill fallback; it carries its own width and offset and, by
// construction (it has no units, and Overlaps returns false whenever either
// side is a stack slot), never overlaps any machine register.
type PhysicalRegister struct {
	// Machine is set when this entry names a real machine register.
	Machine    RealReg
	isMachine  bool
	widthBytes int
	units      []Unit

	// StackSlot fields, set when isMachine is false.
	stackOffset int
}

// MachineReg constructs a PhysicalRegister naming a real register.
func MachineReg(r RealReg, widthBytes int, units ...Unit) PhysicalRegister {
	return PhysicalRegister{Machine: r, isMachine: true, widthBytes: widthBytes, units: units}
}

// StackSlot constructs a PhysicalRegister naming a spill slot at the given
// byte offset from the frame's spill area base.
func StackSlot(offset, widthBytes int) PhysicalRegister {
	return PhysicalRegister{Machine: RealRegInvalid, isMachine: false, widthBytes: widthBytes, stackOffset: offset}
}

func (p PhysicalRegister) IsStackSlot() bool  { return !p.isMachine }
func (p PhysicalRegister) WidthBytes() int    { return p.widthBytes }
func (p PhysicalRegister) StackOffset() int   { return p.stackOffset }
func (p PhysicalRegister) Units() []Unit      { return p.units }

// RealReg returns the machine register this PhysicalRegister names, or
// RealRegInvalid for a stack slot.
func (p PhysicalRegister) RealReg() RealReg { return p.Machine }

// SameView reports whether p and other name the exact same storage at the
// exact same width: the same machine register, or the same stack slot
// offset. Unlike Overlaps, this is identity, not aliasing — used by package
// rewrite to detect a Copy that both reads and writes the same place after
// coloring.
func (p PhysicalRegister) SameView(other PhysicalRegister) bool {
	if p.widthBytes != other.widthBytes || p.isMachine != other.isMachine {
		return false
	}
	if p.isMachine {
		return p.Machine == other.Machine
	}
	return p.stackOffset == other.stackOffset
}

// Overlaps implements spec.md §4.B's overlaps(other) := units ∩ other.units ≠ ∅.
// A stack slot's unit set is empty, so it never overlaps anything: spilling
// never conflicts with a machine-register choice.
func (p PhysicalRegister) Overlaps(other PhysicalRegister) bool {
	if !p.isMachine || !other.isMachine {
		return false
	}
	for _, u := range p.units {
		for _, v := range other.units {
			if u == v {
				return true
			}
		}
	}
	return false
}

func (p PhysicalRegister) String() string {
	if p.IsStackSlot() {
		return "slot"
	}
	return "reg"
}

// WidthClass returns the WordClass implied by this register's byte width.
func (p PhysicalRegister) WidthClass() types.WordClass {
	wc, err := types.SizeClassOf(p.widthBytes)
	if err != nil {
		panic(err)
	}
	return wc
}
