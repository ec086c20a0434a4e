package protoclust

import "testing"

func TestMergeClustersWeightedMean(t *testing.T) {
	params := []ParamDesc{{Min: -100, Max: 100}}
	mean := make([]float32, 1)
	n := mergeClusters(params, 1, 3, mean, []float32{0}, []float32{8})

	if n != 4 {
		t.Fatalf("count = %d, want 4", n)
	}
	// (1*0 + 3*8)/4 = 6
	if mean[0] != 6 {
		t.Errorf("mean = %v, want 6", mean[0])
	}
}

func TestMergeClustersCircularShortPath(t *testing.T) {
	params := []ParamDesc{{Circular: true, Min: 0, Max: 360}}
	mean := make([]float32, 1)
	mergeClusters(params, 1, 1, mean, []float32{10}, []float32{350})

	// The short way around from 10 to 350 passes through 0, so the merged
	// mean should land near 0/360, not at the raw midpoint 180.
	if mean[0] > 10 && mean[0] < 350 {
		t.Errorf("mean = %v, want a value near the wrap point, not the raw midpoint", mean[0])
	}
}

func TestMergeClustersNonCircularMidpoint(t *testing.T) {
	params := []ParamDesc{{Min: 0, Max: 100}}
	mean := make([]float32, 1)
	mergeClusters(params, 1, 1, mean, []float32{10}, []float32{90})

	if mean[0] != 50 {
		t.Errorf("mean = %v, want 50", mean[0])
	}
}
