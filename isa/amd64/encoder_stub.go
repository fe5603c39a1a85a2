package amd64

import (
	"bytes"

	"github.com/ssacore/rtlc/rtl"
)

// StubEncoder is a placeholder Encoder good enough to drive the rewrite and
// compiler pipeline's tests without a real x86-64 assembler: it emits one
// 0x90 (nop) byte per instruction rather than a real encoding. Production
// instruction encoding is explicitly out of scope (spec.md §1 Non-goals).
type StubEncoder struct{}

// Encode always succeeds, appending a single nop byte regardless of instr.
func (StubEncoder) Encode(instr rtl.Instruction, out *bytes.Buffer) error {
	out.WriteByte(0x90)
	return nil
}
