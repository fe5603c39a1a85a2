package amd64

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/ssacore/rtlc/cfg"
)

// EncodeProgram walks every valid block of a fully rewritten CFG in order
// and feeds each instruction to enc, concatenating the resulting bytes.
// This is the §6 boundary crossing: everything before this call operates on
// RTL; this is the one place the core hands instructions to an external
// encoder. Returns the encoder's error, wrapped with the offending block
// and instruction offset, on the first rejection (spec.md §7.3 — encoder
// errors propagate, no retries).
func EncodeProgram(enc Encoder, g *cfg.Graph) ([]byte, error) {
	var out bytes.Buffer
	for i := 0; i < g.NumBlocks(); i++ {
		h := cfg.BlockHandle(i)
		blk := g.Block(h)
		if !blk.Valid() {
			continue
		}
		for idx, instr := range blk.Instructions {
			if err := enc.Encode(instr, &out); err != nil {
				return nil, errors.Wrapf(err, "isa/amd64: encode block %d instruction %d", i, idx)
			}
		}
	}
	return out.Bytes(), nil
}
