// Package regalloc defines the register model shared by every later pass:
// virtual registers, physical registers, and the overlap relation that lets
// the DSATUR coloring pass in package ifg respect partial-register aliasing
// (rax ⊃ eax ⊃ ax ⊃ al/ah).
//
// The VReg bit-packing is grounded on the teacher's
// backend/regalloc/reg.go: the lower bits carry the identifier, high bits
// carry a type tag, so a VReg stays a cheap-to-compare, cheap-to-hash
// uint64 even though it also remembers its width and kind.
package regalloc

import "fmt"

// VReg is a virtual register: a pair (id, width) per spec.md §3, packed into
// a uint64 whose low 32 bits hold the id while width/kind ride along in the
// high bits. == on two VRegs compares width and kind as well; id-only
// equality and hashing go through ID() (a VRegID), as the passes do.
type VReg uint64

// VRegID is the pure identifier of a VReg, ignoring width/kind.
type VRegID uint32

const vRegIDInvalid VRegID = 1<<32 - 1

// VRegInvalid is the zero-value-safe invalid sentinel.
var VRegInvalid = VReg(vRegIDInvalid)

// NewVReg creates a virtual register with the given id, byte width and kind.
func NewVReg(id VRegID, widthBytes int, kind RegType) VReg {
	if widthBytes <= 0 || widthBytes > 0xff {
		panic(fmt.Sprintf("rtlc/regalloc: invalid VReg width %d", widthBytes))
	}
	return VReg(id) | VReg(widthBytes)<<32 | VReg(kind)<<40
}

// ID returns the identifier that equality/hashing is defined over.
func (v VReg) ID() VRegID { return VRegID(v & 0xffffffff) }

// WidthBytes returns the byte width the register was created with. A
// virtual register's width never changes after creation (spec.md §3).
func (v VReg) WidthBytes() int { return int((v >> 32) & 0xff) }

// RegType returns the register class the VReg was created with; RegTypeInt
// is the only allocatable class defined. (Floating point is out of this spec's scope; the type exists so the
// model generalizes the way the teacher's does.)
func (v VReg) RegType() RegType { return RegType(v >> 40) }

func (v VReg) Valid() bool { return v.ID() != vRegIDInvalid }

func (v VReg) String() string {
	if !v.Valid() {
		return "vreg(invalid)"
	}
	return fmt.Sprintf("v%d:%db", v.ID(), v.WidthBytes())
}

// RegType distinguishes register classes. This spec only allocates integer
// registers, but the type is kept (rather than elided) so the model matches
// the teacher's RegType-indexed structures and can grow a float class later
// without renaming anything.
type RegType byte

const (
	RegTypeInvalid RegType = iota
	RegTypeInt
)

// RealReg is an opaque handle into a machine's static physical-register
// table (spec.md §3's "opaque handle identifying one of a static table of
// registers"). The concrete table lives in package isa/amd64.
type RealReg uint16

const RealRegInvalid RealReg = 0xffff

func (r RealReg) Valid() bool { return r != RealRegInvalid }
