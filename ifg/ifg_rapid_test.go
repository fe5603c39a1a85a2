package ifg

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/ssacore/rtlc/cfg"
	"github.com/ssacore/rtlc/isa/amd64"
	"github.com/ssacore/rtlc/liveness"
	"github.com/ssacore/rtlc/regalloc"
)

var widths = []int{1, 2, 4, 8}

// TestColoringLegality is spec.md §8 property 5: after DSATUR, for every
// edge (u, v) with both colored to physical registers, the two registers
// never overlap — regardless of how many nodes interfere or at what width.
func TestColoringLegality(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(2, 12).Draw(rt, "numNodes")

		var pairs []VRegRange
		for i := 0; i < n; i++ {
			width := widths[rapid.IntRange(0, len(widths)-1).Draw(rt, "width")]
			start := rapid.IntRange(0, 10).Draw(rt, "start")
			length := rapid.IntRange(0, 5).Draw(rt, "length")
			v := regalloc.NewVReg(regalloc.VRegID(i), width, regalloc.RegTypeInt)
			rng := liveness.LiveRange{Segments: []liveness.LiveSegment{
				{Block: cfg.BlockHandle(0), StartOffset: start, EndOffset: start + length},
			}}
			pairs = append(pairs, VRegRange{VReg: v, Range: rng})
		}

		g := Build(pairs)
		Color(g)

		for _, node := range g.Nodes() {
			if !node.Colored() || node.Color().IsStack() {
				continue
			}
			uView := node.Color().PhysicalView(node.VReg.WidthBytes())
			for _, nbID := range g.Neighbors(node.ID) {
				nb := g.Node(nbID)
				if !nb.Colored() || nb.Color().IsStack() {
					continue
				}
				vView := nb.Color().PhysicalView(nb.VReg.WidthBytes())
				if uView.Overlaps(vView) {
					rt.Fatalf("neighbors %d (%s) and %d (%s) both colored to overlapping registers",
						node.ID, amd64.Name(node.Color().Register()), nb.ID, amd64.Name(nb.Color().Register()))
				}
			}
		}
	})
}
