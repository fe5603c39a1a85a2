package rtl

import (
	"strconv"

	"github.com/ssacore/rtlc/types"
)

// RValue is spec.md §3's RValue = Immediate(Literal) ∪ Register. Every
// RValue carries a width; width equality is an invariant on every move/binop
// (spec.md §3, §4.G).
type RValue struct {
	reg      Register
	imm      int64
	isImm    bool
	widthIfImm int
}

// Immediate constructs a literal RValue of the given byte width.
func Immediate(value int64, widthBytes int) RValue {
	return RValue{imm: value, isImm: true, widthIfImm: widthBytes}
}

// FromRegister wraps a Register as an RValue.
func FromRegister(r Register) RValue { return RValue{reg: r} }

func (v RValue) IsImmediate() bool { return v.isImm }

func (v RValue) ImmediateValue() int64 {
	if !v.isImm {
		panic("rtlc/rtl: ImmediateValue called on a register RValue")
	}
	return v.imm
}

func (v RValue) Register() Register {
	if v.isImm {
		panic("rtlc/rtl: Register called on an immediate RValue")
	}
	return v.reg
}

// WidthBytes returns the declared width of this value.
func (v RValue) WidthBytes() int {
	if v.isImm {
		return v.widthIfImm
	}
	return v.reg.WidthBytes()
}

// WordClass returns the types.WordClass implied by WidthBytes.
func (v RValue) WordClass() types.WordClass {
	wc, err := types.SizeClassOf(v.WidthBytes())
	if err != nil {
		panic(err)
	}
	return wc
}

func (v RValue) String() string {
	if v.isImm {
		return strconv.FormatInt(v.imm, 10)
	}
	return v.reg.String()
}
