package rngstream

import "testing"

func TestForTreeIsDeterministic(t *testing.T) {
	a := ForTree(42, 3)
	b := ForTree(42, 3)
	for i := 0; i < 10; i++ {
		va, vb := a.Int63(), b.Int63()
		if va != vb {
			t.Fatalf("draw %d diverged: %d vs %d", i, va, vb)
		}
	}
}

func TestForTreeDiffersAcrossTrees(t *testing.T) {
	a := ForTree(42, 0)
	b := ForTree(42, 1)
	if a.Int63() == b.Int63() {
		t.Error("expected different tree indices to produce different streams")
	}
}

func TestForThreadDiffersFromForTree(t *testing.T) {
	tree := ForTree(42, 0)
	thread := ForThread(42, 0, 0)
	if tree.Int63() == thread.Int63() {
		t.Error("expected ForThread to diverge from the bare per-tree stream")
	}
}

func TestForThreadDiffersAcrossThreads(t *testing.T) {
	a := ForThread(7, 0, 1)
	b := ForThread(7, 0, 2)
	if a.Int63() == b.Int63() {
		t.Error("expected different thread indices to diverge")
	}
}
