package protoclust

import (
	"math"
	"testing"
)

func TestDensitySphericalPeaksAtMean(t *testing.T) {
	params := []ParamDesc{{Min: -10, Max: 10}, {Min: -10, Max: 10}}
	p := &Prototype{
		Style:           Spherical,
		Mean:            []float32{0, 0},
		weightSpherical: 1.0 / 2.0,
		TotalMagnitude:  1.0,
	}
	atMean := Density(p, params, []float32{0, 0})
	offMean := Density(p, params, []float32{3, 3})
	if atMean <= offMean {
		t.Errorf("density at the mean (%v) should exceed density away from it (%v)", atMean, offMean)
	}
}

func TestDensityEllipticalWeightedByVariance(t *testing.T) {
	params := []ParamDesc{{Min: -10, Max: 10}}
	p := &Prototype{
		Style:            Elliptical,
		Mean:             []float32{0},
		weightElliptical: []float64{1.0},
		TotalMagnitude:   1.0,
	}
	atMean := Density(p, params, []float32{0})
	off := Density(p, params, []float32{1})
	if atMean <= off {
		t.Error("elliptical density should fall off away from the mean")
	}
}

func TestDensityMixedUniformFlatWithinRange(t *testing.T) {
	p := &Prototype{
		Style:               Mixed,
		Mean:                []float32{0},
		Distrib:             []Distribution{Uniform},
		varianceElliptical:  []float64{5},
		magnitudeElliptical: []float64{0.1},
	}
	params := []ParamDesc{{Min: -10, Max: 10}}

	inside := Density(p, params, []float32{4})
	outside := Density(p, params, []float32{6})
	if inside != 0.1 {
		t.Errorf("inside-range density = %v, want flat magnitude 0.1", inside)
	}
	if outside != 0 {
		t.Errorf("outside-range density = %v, want 0", outside)
	}
}

func TestWrappedDeltaCircular(t *testing.T) {
	p := ParamDesc{Circular: true, Min: 0, Max: 360}
	d := wrappedDelta(359, 1, p)
	if math.Abs(d-(-2)) > 1e-6 {
		t.Errorf("wrappedDelta(359, 1) = %v, want -2", d)
	}
}

func TestClassifyPicksHighestDensity(t *testing.T) {
	params := []ParamDesc{{Min: -10, Max: 10}}
	near := &Prototype{Style: Elliptical, Mean: []float32{0}, weightElliptical: []float64{1}, TotalMagnitude: 1}
	far := &Prototype{Style: Elliptical, Mean: []float32{8}, weightElliptical: []float64{1}, TotalMagnitude: 1}

	best, density := Classify([]*Prototype{far, near}, params, []float32{0})
	if best != near {
		t.Errorf("Classify picked %v, want the prototype centered at the query point", best.Mean)
	}
	if density <= 0 {
		t.Errorf("density = %v, want > 0", density)
	}
}

func TestClassifyEmptyProtoList(t *testing.T) {
	best, density := Classify(nil, nil, []float32{0})
	if best != nil || density != 0 {
		t.Errorf("Classify(nil) = (%v, %v), want (nil, 0)", best, density)
	}
}
