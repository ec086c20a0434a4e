package protoclust

import "math"

// circularSquaredDistance computes the squared Euclidean distance between
// two points, with per-dimension wraparound correction: for a circular
// dimension, if the raw difference exceeds half the dimension's range, the
// shorter "other way around" distance is used instead. Nonessential
// dimensions still contribute — the nonessential filter applies only in
// independent and the per-dimension goodness-of-fit tests, not here.
//
// Grounded on the teacher's EuclideanMetric.ReducedDistance (distance.go),
// generalized with the wraparound branch the spec's spatial index requires.
func circularSquaredDistance(a, b []float32, params []ParamDesc) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i] - b[i])
		if params[i].Circular {
			if ad := math.Abs(d); ad > float64(params[i].HalfRange()) {
				d = float64(params[i].Range()) - ad
			}
		}
		sum += d * d
	}
	return sum
}
