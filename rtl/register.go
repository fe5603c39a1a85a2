// Package rtl implements the machine-agnostic Register Transfer Language:
// the Register/RValue/Instruction model of spec.md §3-§4.C, parameterized
// over regalloc.VReg until coloring, and over regalloc.PhysicalRegister
// after package rewrite runs.
//
// Grounded on backend/isa/amd64/instr.go's tagged-instruction-with-operands
// shape and original_source/src/rtl.rs's Op/Value/Place enums.
package rtl

import (
	"github.com/ssacore/rtlc/regalloc"
)

// Register is spec.md §3's Register = Virtual(VirtualRegister) ∪
// Physical(PhysicalRegister).
type Register struct {
	virtual  regalloc.VReg
	physical regalloc.PhysicalRegister
	isPhys   bool
}

// Virtual wraps a virtual register as a Register.
func Virtual(v regalloc.VReg) Register { return Register{virtual: v} }

// Physical wraps a physical register as a Register.
func Physical(p regalloc.PhysicalRegister) Register { return Register{physical: p, isPhys: true} }

func (r Register) IsPhysical() bool { return r.isPhys }

// AsVirtual returns the underlying VReg; it panics if r is already physical,
// since post-rewrite code should never observe a virtual register again
// (spec.md §8 property 6, spill totality).
func (r Register) AsVirtual() regalloc.VReg {
	if r.isPhys {
		panic("rtlc/rtl: AsVirtual called on a physical Register")
	}
	return r.virtual
}

func (r Register) AsPhysical() regalloc.PhysicalRegister {
	if !r.isPhys {
		panic("rtlc/rtl: AsPhysical called on a virtual Register")
	}
	return r.physical
}

// WidthBytes returns the register's declared width regardless of which
// variant it currently is.
func (r Register) WidthBytes() int {
	if r.isPhys {
		return r.physical.WidthBytes()
	}
	return r.virtual.WidthBytes()
}

func (r Register) String() string {
	if r.isPhys {
		return r.physical.String()
	}
	return r.virtual.String()
}
