package protoclust

import "math"

const (
	chiAccuracy  = 0.01
	minAlpha     = 1e-200
	initialDelta = 0.1
	deltaRatio   = 0.1
)

// DegreesOfFreedom computes the degrees of freedom for a chi-squared test
// with the given number of histogram buckets, rounded up to the next even
// number so chiArea's even-dof series applies. Rounding up makes the test
// slightly more lenient than the theoretical optimum — that's the original
// behavior, preserved here.
func DegreesOfFreedom(dist Distribution, buckets int) int {
	adjusted := buckets - degreeOffsets[dist]
	if adjusted%2 != 0 {
		adjusted++
	}
	return adjusted
}

// ComputeChiSquared returns the x for which the upper-tail area of the
// chi-squared distribution with dof degrees of freedom equals alpha,
// memoized per (dof, alpha) in ctx.
func (ctx *Context) ComputeChiSquared(dof int, alpha float64) float64 {
	if alpha < minAlpha {
		alpha = minAlpha
	}
	if alpha > 1.0 {
		alpha = 1.0
	}
	if dof%2 != 0 {
		dof++
	}
	if v, ok := ctx.chiSquared(dof, alpha); ok {
		return v
	}
	v := solve(func(x float64) float64 { return chiArea(x, dof, alpha) }, float64(dof), chiAccuracy)
	ctx.storeChiSquared(dof, alpha, v)
	return v
}

// chiArea computes the area under a chi density curve from 0 to x, minus
// alpha, for even dof. The series comes from repeated integration by parts
// of the chi-squared density; solve uses it to find chi-squared's inverse.
func chiArea(x float64, dof int, alpha float64) float64 {
	n := dof/2 - 1
	seriesTotal := 1.0
	denominator := 1.0
	powerOfX := 1.0
	for i := 1; i <= n; i++ {
		denominator *= 2 * float64(i)
		powerOfX *= x
		seriesTotal += powerOfX / denominator
	}
	return seriesTotal*math.Exp(-0.5*x) - alpha
}

// solve is a primitive secant-like root finder. It only works correctly when
// a root actually exists and there are no extrema between it and
// initialGuess — deliberately unguarded against non-convergence, matching
// the original: callers must supply a reasonable (dof, alpha).
func solve(f func(float64) float64, initialGuess, accuracy float64) float64 {
	x := initialGuess
	delta := initialDelta
	lastPosX := math.MaxFloat32
	lastNegX := -math.MaxFloat32

	fx := f(x)
	for math.Abs(lastPosX-lastNegX) > accuracy {
		if fx < 0 {
			lastNegX = x
		} else {
			lastPosX = x
		}

		slope := (f(x+delta) - fx) / delta
		xDelta := fx / slope
		x -= xDelta

		if newDelta := math.Abs(xDelta) * deltaRatio; newDelta < delta {
			delta = newDelta
		}

		fx = f(x)
	}
	return x
}
