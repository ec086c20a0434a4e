package protoclust

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Statistics holds the covariance, per-dimension deviation range, and
// geometric-mean variance of every sample under a cluster, computed relative
// to the cluster's own mean. Grounded on cluster.cpp's ComputeStatistics,
// with the covariance accumulator replaced by a gonum *mat.SymDense — the
// original accumulates a full N×N matrix (including the redundant lower
// triangle); a SymDense only ever needs the upper triangle, which this
// computes directly instead of wasting the mirrored half.
type Statistics struct {
	Mean        []float32
	CoVariance  *mat.SymDense
	Min         []float32
	Max         []float32
	AvgVariance float64
}

// computeStatistics walks every sample under cluster and accumulates
// covariance and deviation range relative to cluster.Mean.
//
// Min and Max start at 0, not ±infinity: they track how far below/above the
// mean any sample's (circular-corrected) delta falls, not the samples'
// absolute range, so a cluster whose single sample equals its own mean
// leaves Min and Max at exactly zero.
func computeStatistics(dim int, params []ParamDesc, cluster *Cluster) *Statistics {
	mean := cluster.Mean
	cov := mat.NewSymDense(dim, nil)
	min := make([]float32, dim)
	max := make([]float32, dim)

	search := initSampleSearch(cluster)
	delta := make([]float64, dim)
	for s := search.next(); s != nil; s = search.next() {
		for i := 0; i < dim; i++ {
			d := float64(s.Mean[i] - mean[i])
			p := params[i]
			if p.Circular {
				if d > float64(p.HalfRange()) {
					d -= float64(p.Range())
				}
				if d < -float64(p.HalfRange()) {
					d += float64(p.Range())
				}
			}
			delta[i] = d
			if f32 := float32(d); f32 < min[i] {
				min[i] = f32
			} else if f32 > max[i] {
				max[i] = f32
			}
		}
		for i := 0; i < dim; i++ {
			for j := i; j < dim; j++ {
				cov.SetSym(i, j, cov.At(i, j)+delta[i]*delta[j])
			}
		}
	}

	divisor := float64(sampleCountAdjustedForBias(cluster.Count))
	diag := make([]float64, dim)
	for i := 0; i < dim; i++ {
		for j := i; j < dim; j++ {
			cov.SetSym(i, j, cov.At(i, j)/divisor)
		}
		diag[i] = cov.At(i, i)
	}
	// the geometric mean of the per-dimension variances: the original computes
	// this as a running product plus a final pow(1/N), which is exactly what
	// stat.GeometricMean does with uniform weights.
	avgVariance := stat.GeometricMean(diag, nil)

	return &Statistics{
		Mean:        mean,
		CoVariance:  cov,
		Min:         min,
		Max:         max,
		AvgVariance: avgVariance,
	}
}

// sampleCountAdjustedForBias applies Bessel's correction, floored at 1 so a
// singleton cluster never divides by zero.
func sampleCountAdjustedForBias(count int32) int32 {
	if count > 1 {
		return count - 1
	}
	return 1
}

// variance returns CoVariance[dim][dim], floored at minVariance so downstream
// density and chi-squared computations never divide by (near) zero.
func (s *Statistics) variance(dim int) float64 {
	v := s.CoVariance.At(dim, dim)
	if v < minVariance {
		return minVariance
	}
	return v
}

// covariance returns CoVariance[i][j].
func (s *Statistics) covariance(i, j int) float64 {
	return s.CoVariance.At(i, j)
}
