package amd64

import (
	"bytes"

	"github.com/ssacore/rtlc/rtl"
)

// Encoder is the §6 external collaborator boundary: "given an RTL op
// already rewritten to physical registers, append bytes. The encoder owns
// all machine-specific bit packing (REX/ModRM/SIB/immediate little-endian).
// The core never writes bytes."
//
// spec.md places ModRM/REX/SIB packing explicitly out of scope (§1 Non-goals,
// §6), so this module never implements a production Encoder — only this
// interface, plus a StubEncoder good enough to drive the rewrite/compile
// pipeline's tests without a real assembler.
type Encoder interface {
	Encode(instr rtl.Instruction, out *bytes.Buffer) error
}

// EncodeError is returned by an Encoder when it rejects an instruction/operand
// combination it cannot represent (spec.md §7.3, "encoder errors").
type EncodeError struct {
	Instr  rtl.Instruction
	Reason string
}

func (e *EncodeError) Error() string {
	return "rtlc/isa/amd64: encoder rejected instruction: " + e.Reason
}
