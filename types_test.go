package protoclust

import "testing"

func TestParamDescRanges(t *testing.T) {
	p := ParamDesc{Min: 10, Max: 30}
	if p.Range() != 20 {
		t.Errorf("Range() = %v, want 20", p.Range())
	}
	if p.HalfRange() != 10 {
		t.Errorf("HalfRange() = %v, want 10", p.HalfRange())
	}
	if p.MidRange() != 20 {
		t.Errorf("MidRange() = %v, want 20", p.MidRange())
	}
}

func TestSampleSearchVisitsAllLeavesOnce(t *testing.T) {
	param := ParamDesc{Min: 0, Max: 1}
	root := makeLeafChain(t, param, []float32{0.1, 0.2, 0.3, 0.4})

	seen := map[*Cluster]int{}
	search := initSampleSearch(root)
	for s := search.next(); s != nil; s = search.next() {
		seen[s]++
	}
	if len(seen) != 4 {
		t.Fatalf("visited %d distinct leaves, want 4", len(seen))
	}
	for c, n := range seen {
		if n != 1 {
			t.Errorf("leaf %v visited %d times, want 1", c.Mean, n)
		}
	}
}

func TestSampleSearchSingleLeaf(t *testing.T) {
	leaf := &Cluster{Mean: []float32{1}, Count: 1, CharID: 0}
	search := initSampleSearch(leaf)
	if s := search.next(); s != leaf {
		t.Fatalf("expected the single leaf back, got %v", s)
	}
	if s := search.next(); s != nil {
		t.Errorf("expected nil after exhausting a single-leaf tree, got %v", s)
	}
}

func TestPublicSampleSearchWrapper(t *testing.T) {
	param := ParamDesc{Min: 0, Max: 1}
	root := makeLeafChain(t, param, []float32{0.1, 0.2})

	search := InitSampleSearch(root)
	count := 0
	for s := search.Next(); s != nil; s = search.Next() {
		count++
	}
	if count != 2 {
		t.Errorf("Next() returned %d samples, want 2", count)
	}
}
