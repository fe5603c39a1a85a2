// Package amd64 supplies the static x86-64 physical register table that
// package ifg colors against, and the external instruction-encoder boundary
// interface from spec.md §6.
//
// The register naming (raxVReg, r15VReg, ...) is reconstructed from the
// teacher's backend/isa/amd64/reg_test.go expectations and the register
// lists in backend/isa/amd64/abi.go; the teacher's own file declaring these
// constants was filtered out of the retrieval pack. The sub-register Unit
// sets (rax ⊃ eax ⊃ ax ⊃ al/ah) are new: the teacher never models partial
// aliasing because it always operates on a register's full width.
package amd64

import "github.com/ssacore/rtlc/regalloc"

// Unit tags for the general-purpose register file. Each GPR's low byte,
// low-word, low-dword and full register share progressively larger unit
// sets; AH is the one exception that aliases only the second byte of the
// register, matching real x86-64 encoding constraints.
const (
	unitRAXLow8 regalloc.Unit = iota
	unitRAXHigh8
	unitRAXLow16
	unitRAXLow32
	unitRAXFull

	unitRCXLow8
	unitRCXHigh8
	unitRCXLow16
	unitRCXLow32
	unitRCXFull

	unitRDXLow8
	unitRDXHigh8
	unitRDXLow16
	unitRDXLow32
	unitRDXFull

	unitRBXLow8
	unitRBXHigh8
	unitRBXLow16
	unitRBXLow32
	unitRBXFull

	unitRSILow8
	unitRSILow16
	unitRSILow32
	unitRSIFull

	unitRDILow8
	unitRDILow16
	unitRDILow32
	unitRDIFull

	unitR8Low8
	unitR8Low16
	unitR8Low32
	unitR8Full

	unitR9Low8
	unitR9Low16
	unitR9Low32
	unitR9Full

	unitR10Low8
	unitR10Low16
	unitR10Low32
	unitR10Full

	unitR11Low8
	unitR11Low16
	unitR11Low32
	unitR11Full
)

// RealReg handles for the allocatable general-purpose registers. rsp/rbp are
// reserved for the frame and excluded from the allocatable set, mirroring
// backend/isa/amd64/abi.go's split between argument/result registers and the
// frame pointers.
const (
	RAX regalloc.RealReg = iota
	RCX
	RDX
	RBX
	RSI
	RDI
	R8
	R9
	R10
	R11
)

// table holds, for each RealReg and each WordClass-sized view of it, the
// PhysicalRegister describing that view's width and unit set. Indexing is
// [RealReg][width-class index] with width classes ordered byte,word,dword,qword.
// RAX/RCX/RDX/RBX's word/dword/qword views all carry unit*High8 alongside
// unit*Low8: AH is the second byte of AX, so any view wide enough to contain
// AX must overlap AH, exactly as it overlaps AL.
var table = map[regalloc.RealReg][4]regalloc.PhysicalRegister{
	RAX: {
		regalloc.MachineReg(RAX, 1, unitRAXLow8),
		regalloc.MachineReg(RAX, 2, unitRAXLow8, unitRAXHigh8, unitRAXLow16),
		regalloc.MachineReg(RAX, 4, unitRAXLow8, unitRAXHigh8, unitRAXLow16, unitRAXLow32),
		regalloc.MachineReg(RAX, 8, unitRAXLow8, unitRAXHigh8, unitRAXLow16, unitRAXLow32, unitRAXFull),
	},
	RCX: {
		regalloc.MachineReg(RCX, 1, unitRCXLow8),
		regalloc.MachineReg(RCX, 2, unitRCXLow8, unitRCXHigh8, unitRCXLow16),
		regalloc.MachineReg(RCX, 4, unitRCXLow8, unitRCXHigh8, unitRCXLow16, unitRCXLow32),
		regalloc.MachineReg(RCX, 8, unitRCXLow8, unitRCXHigh8, unitRCXLow16, unitRCXLow32, unitRCXFull),
	},
	RDX: {
		regalloc.MachineReg(RDX, 1, unitRDXLow8),
		regalloc.MachineReg(RDX, 2, unitRDXLow8, unitRDXHigh8, unitRDXLow16),
		regalloc.MachineReg(RDX, 4, unitRDXLow8, unitRDXHigh8, unitRDXLow16, unitRDXLow32),
		regalloc.MachineReg(RDX, 8, unitRDXLow8, unitRDXHigh8, unitRDXLow16, unitRDXLow32, unitRDXFull),
	},
	RBX: {
		regalloc.MachineReg(RBX, 1, unitRBXLow8),
		regalloc.MachineReg(RBX, 2, unitRBXLow8, unitRBXHigh8, unitRBXLow16),
		regalloc.MachineReg(RBX, 4, unitRBXLow8, unitRBXHigh8, unitRBXLow16, unitRBXLow32),
		regalloc.MachineReg(RBX, 8, unitRBXLow8, unitRBXHigh8, unitRBXLow16, unitRBXLow32, unitRBXFull),
	},
	RSI: {
		regalloc.MachineReg(RSI, 1, unitRSILow8),
		regalloc.MachineReg(RSI, 2, unitRSILow8, unitRSILow16),
		regalloc.MachineReg(RSI, 4, unitRSILow8, unitRSILow16, unitRSILow32),
		regalloc.MachineReg(RSI, 8, unitRSILow8, unitRSILow16, unitRSILow32, unitRSIFull),
	},
	RDI: {
		regalloc.MachineReg(RDI, 1, unitRDILow8),
		regalloc.MachineReg(RDI, 2, unitRDILow8, unitRDILow16),
		regalloc.MachineReg(RDI, 4, unitRDILow8, unitRDILow16, unitRDILow32),
		regalloc.MachineReg(RDI, 8, unitRDILow8, unitRDILow16, unitRDILow32, unitRDIFull),
	},
	R8: {
		regalloc.MachineReg(R8, 1, unitR8Low8),
		regalloc.MachineReg(R8, 2, unitR8Low8, unitR8Low16),
		regalloc.MachineReg(R8, 4, unitR8Low8, unitR8Low16, unitR8Low32),
		regalloc.MachineReg(R8, 8, unitR8Low8, unitR8Low16, unitR8Low32, unitR8Full),
	},
	R9: {
		regalloc.MachineReg(R9, 1, unitR9Low8),
		regalloc.MachineReg(R9, 2, unitR9Low8, unitR9Low16),
		regalloc.MachineReg(R9, 4, unitR9Low8, unitR9Low16, unitR9Low32),
		regalloc.MachineReg(R9, 8, unitR9Low8, unitR9Low16, unitR9Low32, unitR9Full),
	},
	R10: {
		regalloc.MachineReg(R10, 1, unitR10Low8),
		regalloc.MachineReg(R10, 2, unitR10Low8, unitR10Low16),
		regalloc.MachineReg(R10, 4, unitR10Low8, unitR10Low16, unitR10Low32),
		regalloc.MachineReg(R10, 8, unitR10Low8, unitR10Low16, unitR10Low32, unitR10Full),
	},
	R11: {
		regalloc.MachineReg(R11, 1, unitR11Low8),
		regalloc.MachineReg(R11, 2, unitR11Low8, unitR11Low16),
		regalloc.MachineReg(R11, 4, unitR11Low8, unitR11Low16, unitR11Low32),
		regalloc.MachineReg(R11, 8, unitR11Low8, unitR11Low16, unitR11Low32, unitR11Full),
	},
}

// high8Table holds the AH-equivalent byte view for the four GPRs the x86-64
// encoding still lets address a high byte without a REX prefix. The other
// six allocatable GPRs have no such view: their byte view is always the low
// byte (RSI/RDI/R8-R11's *Low8 units only).
var high8Table = map[regalloc.RealReg]regalloc.PhysicalRegister{
	RAX: regalloc.MachineReg(RAX, 1, unitRAXHigh8),
	RCX: regalloc.MachineReg(RCX, 1, unitRCXHigh8),
	RDX: regalloc.MachineReg(RDX, 1, unitRDXHigh8),
	RBX: regalloc.MachineReg(RBX, 1, unitRBXHigh8),
}

// ViewHigh8 returns r's high-byte (AH-style) view, if it has one. ok is
// false for RSI/RDI/R8-R11, which have no high-byte encoding.
func ViewHigh8(r regalloc.RealReg) (view regalloc.PhysicalRegister, ok bool) {
	view, ok = high8Table[r]
	return view, ok
}

var names = map[regalloc.RealReg]string{
	RAX: "rax", RCX: "rcx", RDX: "rdx", RBX: "rbx",
	RSI: "rsi", RDI: "rdi", R8: "r8", R9: "r9", R10: "r10", R11: "r11",
}

// Name returns the debug name of r at its 64-bit width, e.g. "rax".
func Name(r regalloc.RealReg) string {
	if n, ok := names[r]; ok {
		return n
	}
	return "?"
}

func widthIndex(bytes int) int {
	switch bytes {
	case 1:
		return 0
	case 2:
		return 1
	case 4:
		return 2
	case 8:
		return 3
	default:
		panic("rtlc/isa/amd64: unsupported register width")
	}
}

// ViewAt returns the PhysicalRegister describing r at the given byte width.
func ViewAt(r regalloc.RealReg, widthBytes int) regalloc.PhysicalRegister {
	views, ok := table[r]
	if !ok {
		panic("rtlc/isa/amd64: unknown RealReg")
	}
	return views[widthIndex(widthBytes)]
}

// GPROrder is the deterministic order general-purpose registers are
// considered in by the allocator: the tie-break spec.md §4.F.3 and §9
// require for determinism (property 7). Lowest insertion-order wins.
var GPROrder = []regalloc.RealReg{RAX, RCX, RDX, RBX, RSI, RDI, R8, R9, R10, R11}

// GPRsOfWidth returns the width-appropriate machine GPR iterator, in the
// stable GPROrder, as spec.md §4.B requires.
func GPRsOfWidth(widthBytes int) []regalloc.PhysicalRegister {
	out := make([]regalloc.PhysicalRegister, len(GPROrder))
	for i, r := range GPROrder {
		out[i] = ViewAt(r, widthBytes)
	}
	return out
}
