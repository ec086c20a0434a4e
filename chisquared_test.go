package protoclust

import "testing"

func TestDegreesOfFreedom(t *testing.T) {
	tests := []struct {
		name    string
		dist    Distribution
		buckets int
		want    int
	}{
		{"normal rounds up to even", Normal, 10, 8},
		{"normal already even", Normal, 11, 8},
		{"uniform offset 3", Uniform, 10, 8},
		{"random offset 1", Random, 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DegreesOfFreedom(tt.dist, tt.buckets)
			if got != tt.want {
				t.Errorf("DegreesOfFreedom(%v, %d) = %d, want %d", tt.dist, tt.buckets, got, tt.want)
			}
		})
	}
}

func TestComputeChiSquared(t *testing.T) {
	ctx := NewContext()
	got := ctx.ComputeChiSquared(10, 0.05)
	want := 18.307
	if diff := got - want; diff < -0.05 || diff > 0.05 {
		t.Errorf("ComputeChiSquared(10, 0.05) = %v, want %v +/- 0.05", got, want)
	}
}

func TestComputeChiSquaredMemoizes(t *testing.T) {
	ctx := NewContext()
	first := ctx.ComputeChiSquared(8, 0.01)
	if _, ok := ctx.chiSquared(8, 0.01); !ok {
		t.Fatal("expected value to be cached after first call")
	}
	second := ctx.ComputeChiSquared(8, 0.01)
	if first != second {
		t.Errorf("cached value changed: first=%v second=%v", first, second)
	}
}

func TestComputeChiSquaredOddDofRoundsUp(t *testing.T) {
	ctx := NewContext()
	odd := ctx.ComputeChiSquared(9, 0.05)
	even := ctx.ComputeChiSquared(10, 0.05)
	if odd != even {
		t.Errorf("dof=9 should round up to dof=10: got %v, want %v", odd, even)
	}
}

func TestComputeChiSquaredClampsAlpha(t *testing.T) {
	ctx := NewContext()
	// Alpha below minAlpha and alpha above 1.0 should both be clamped, not
	// cause solve() to run away.
	tooSmall := ctx.ComputeChiSquared(10, 0)
	floor := ctx.ComputeChiSquared(10, minAlpha)
	if tooSmall != floor {
		t.Errorf("alpha=0 should clamp to minAlpha: got %v, want %v", tooSmall, floor)
	}

	tooBig := ctx.ComputeChiSquared(10, 2.0)
	ceil := ctx.ComputeChiSquared(10, 1.0)
	if tooBig != ceil {
		t.Errorf("alpha=2.0 should clamp to 1.0: got %v, want %v", tooBig, ceil)
	}
}
