package protoclust

import (
	"math"
	"testing"
)

func TestComputeStatisticsVariance(t *testing.T) {
	param := ParamDesc{Min: -100, Max: 100}
	params := []ParamDesc{param}
	root := makeLeafChain(t, param, []float32{-1, 1})

	stats := computeStatistics(1, params, root)

	// mean of {-1, 1} is 0; Bessel-corrected variance over 2 samples is
	// ((-1)^2 + 1^2) / (2-1) = 2.
	if v := stats.variance(0); math.Abs(v-2) > 1e-9 {
		t.Errorf("variance(0) = %v, want 2", v)
	}
	if stats.Min[0] != -1 || stats.Max[0] != 1 {
		t.Errorf("Min/Max = %v/%v, want -1/1", stats.Min[0], stats.Max[0])
	}
}

func TestComputeStatisticsSingletonFloorsVariance(t *testing.T) {
	param := ParamDesc{Min: -100, Max: 100}
	params := []ParamDesc{param}
	root := &Cluster{Mean: []float32{3}, Count: 1, CharID: 0}

	stats := computeStatistics(1, params, root)
	if v := stats.variance(0); v != minVariance {
		t.Errorf("variance(0) = %v, want floor %v", v, minVariance)
	}
	// covariance() must stay raw (unfloored): callers doing a goodness-of-fit
	// test against the true spread, not the stored/used variance, need the
	// real value, including zero.
	if v := stats.covariance(0, 0); v != 0 {
		t.Errorf("covariance(0,0) = %v, want raw 0, not the floored variance()", v)
	}
}

func TestComputeStatisticsCircularWrap(t *testing.T) {
	// Circular dimension over [0, 360): samples at 1 and 359 are 2 apart,
	// not 358, once wrapped.
	param := ParamDesc{Circular: true, Min: 0, Max: 360}
	params := []ParamDesc{param}

	c1 := &Cluster{Mean: []float32{1}, Count: 1, CharID: 0}
	c2 := &Cluster{Mean: []float32{359}, Count: 1, CharID: 1}
	mean := make([]float32, 1)
	n := mergeClusters(params, 1, 1, mean, c1.Mean, c2.Mean)
	root := &Cluster{Mean: mean, Count: n, Left: c1, Right: c2, CharID: -1}

	stats := computeStatistics(1, params, root)
	// Each sample's wrapped delta from the merged mean should have magnitude 1,
	// giving a Bessel-corrected variance of (1+1)/1 = 2, not ~178^2.
	if v := stats.variance(0); v > 10 {
		t.Errorf("variance(0) = %v, want a small wrapped value (~2), not a raw-delta blowup", v)
	}
}

func TestSampleCountAdjustedForBias(t *testing.T) {
	tests := []struct {
		count int32
		want  int32
	}{
		{1, 1},
		{0, 1},
		{5, 4},
	}
	for _, tt := range tests {
		if got := sampleCountAdjustedForBias(tt.count); got != tt.want {
			t.Errorf("sampleCountAdjustedForBias(%d) = %d, want %d", tt.count, got, tt.want)
		}
	}
}
