package cfg

import (
	"testing"

	"pgregory.net/rapid"
)

// TestCFGIntegrityUnderRandomMutation is spec.md §8 property 8: after any
// sequence of add_edge/remove_edge/remove_block operations, predecessors(b)
// and descendants(b) match a plain multiset model built alongside the
// graph, for every surviving block.
func TestCFGIntegrityUnderRandomMutation(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		const numBlocks = 5
		g := New()
		handles := make([]BlockHandle, numBlocks)
		removed := make([]bool, numBlocks)
		for i := range handles {
			handles[i] = emptyBlock(g)
		}

		// model[a][b] counts how many live edges a->b the test believes exist.
		model := map[[2]BlockHandle]int{}
		edgeOwner := map[EdgeHandle][2]BlockHandle{}

		steps := rapid.IntRange(1, 40).Draw(rt, "steps")
		for s := 0; s < steps; s++ {
			op := rapid.IntRange(0, 2).Draw(rt, "op")
			switch op {
			case 0: // add_edge
				a := rapid.IntRange(0, numBlocks-1).Draw(rt, "a")
				b := rapid.IntRange(0, numBlocks-1).Draw(rt, "b")
				if removed[a] || removed[b] {
					continue
				}
				e := g.AddEdge(handles[a], handles[b])
				edgeOwner[e] = [2]BlockHandle{handles[a], handles[b]}
				model[[2]BlockHandle{handles[a], handles[b]}]++

			case 1: // remove_edge: pick one of the edges the model still knows about
				if len(edgeOwner) == 0 {
					continue
				}
				var victim EdgeHandle
				for e := range edgeOwner {
					victim = e
					break
				}
				from, to, ok := g.RemoveEdge(victim)
				if !ok {
					continue
				}
				pair := [2]BlockHandle{from, to}
				model[pair]--
				if model[pair] <= 0 {
					delete(model, pair)
				}
				delete(edgeOwner, victim)

			case 2: // remove_block
				idx := rapid.IntRange(0, numBlocks-1).Draw(rt, "idx")
				if removed[idx] {
					continue
				}
				h := handles[idx]
				g.RemoveBlock(h)
				removed[idx] = true
				for pair := range model {
					if pair[0] == h || pair[1] == h {
						delete(model, pair)
					}
				}
				for e, pair := range edgeOwner {
					if pair[0] == h || pair[1] == h {
						delete(edgeOwner, e)
					}
				}
			}
		}

		for i, h := range handles {
			if removed[i] {
				continue
			}
			wantPreds := map[BlockHandle]int{}
			wantDescs := map[BlockHandle]int{}
			for pair, n := range model {
				if pair[1] == h {
					wantPreds[pair[0]] += n
				}
				if pair[0] == h {
					wantDescs[pair[1]] += n
				}
			}
			gotPreds := map[BlockHandle]int{}
			for _, p := range g.Predecessors(h) {
				gotPreds[p]++
			}
			gotDescs := map[BlockHandle]int{}
			for _, d := range g.Descendants(h) {
				gotDescs[d]++
			}
			if len(wantPreds) != len(gotPreds) {
				rt.Fatalf("block %d: predecessor set mismatch: want %v got %v", h, wantPreds, gotPreds)
			}
			for k, v := range wantPreds {
				if gotPreds[k] != v {
					rt.Fatalf("block %d: predecessor %d count want %d got %d", h, k, v, gotPreds[k])
				}
			}
			if len(wantDescs) != len(gotDescs) {
				rt.Fatalf("block %d: descendant set mismatch: want %v got %v", h, wantDescs, gotDescs)
			}
			for k, v := range wantDescs {
				if gotDescs[k] != v {
					rt.Fatalf("block %d: descendant %d count want %d got %d", h, k, v, gotDescs[k])
				}
			}
		}
	})
}
