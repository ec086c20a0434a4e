package protoclust

import "math"

const (
	bucketTableSize = 1024
	normalExtent    = 3.0
	minBuckets      = 5
	maxBuckets      = 39
	minSamples      = 25
	lookupTableSize = 8

	sqrtOf2Pi = 2.506628275
)

var (
	normalStdDev    = float64(bucketTableSize) / (2.0 * normalExtent)
	normalVariance  = (float64(bucketTableSize) * float64(bucketTableSize)) / (4.0 * normalExtent * normalExtent)
	normalMagnitude = (2.0 * normalExtent) / (sqrtOf2Pi * float64(bucketTableSize))
	normalMean      = float64(bucketTableSize) / 2

	countTable   = [lookupTableSize]int32{minSamples, 200, 400, 600, 800, 1000, 1500, 2000}
	bucketsTable = [lookupTableSize]int{minBuckets, 16, 20, 24, 27, 30, 35, maxBuckets}
)

// Buckets is a histogram used to goodness-of-fit test a cluster's samples
// along one dimension against Normal, Uniform, or Random. Grounded on
// cluster.cpp's BUCKETS struct and the GetBuckets/MakeBuckets/FillBuckets/
// DistributionOK family of routines.
type Buckets struct {
	Distribution    Distribution
	SampleCount     int32
	Confidence      float64
	ChiSquared      float64
	NumberOfBuckets int
	bucket          [bucketTableSize]int // maps a normalized sample position to a bucket index
	Count           []int32
	ExpectedCount   []float64
}

func densityFunc(dist Distribution, x int) float64 {
	if dist == Normal {
		return normalDensity(x)
	}
	return uniformDensity(x)
}

func normalDensity(x int) float64 {
	d := float64(x) - normalMean
	return normalMagnitude * math.Exp(-0.5*d*d/normalVariance)
}

func uniformDensity(x int) float64 {
	if x >= 0 && x <= bucketTableSize {
		return 1.0 / float64(bucketTableSize)
	}
	return 0.0
}

// integral is the trapezoidal approximation to the integral of a function
// over a small delta in x, given the function's value at both ends.
func integral(f1, f2, dx float64) float64 {
	return (f1 + f2) * dx / 2.0
}

// OptimumNumberOfBuckets computes the number of histogram buckets a
// chi-squared goodness-of-fit test should use for the given sample count,
// linearly interpolating the table from Bendat & Piersol's "Measurement and
// Analysis of Random Data", table 4.1 (pg. 147), which was built for
// alpha=0.05 and is assumed (not proven) to generalize to other alphas.
func OptimumNumberOfBuckets(sampleCount int32) int {
	if sampleCount < countTable[0] {
		return bucketsTable[0]
	}
	var last int
	for next := 1; next < lookupTableSize; last, next = next, next+1 {
		if sampleCount <= countTable[next] {
			slope := float64(bucketsTable[next]-bucketsTable[last]) / float64(countTable[next]-countTable[last])
			return bucketsTable[last] + int(slope*float64(sampleCount-countTable[last]))
		}
	}
	return bucketsTable[last]
}

// MakeBuckets allocates a fresh Buckets for the given distribution, sample
// count, and confidence level, with buckets sized so that the expected
// frequency of samples is approximately equal in each: it fills the upper
// half of bucket assignments from the density function, then mirrors that
// half onto the lower half since every distribution handled here is
// symmetric.
func MakeBuckets(ctx *Context, dist Distribution, sampleCount int32, confidence float64) *Buckets {
	b := &Buckets{
		Distribution:    dist,
		SampleCount:     sampleCount,
		Confidence:      confidence,
		NumberOfBuckets: OptimumNumberOfBuckets(sampleCount),
	}
	b.Count = make([]int32, b.NumberOfBuckets)
	b.ExpectedCount = make([]float64, b.NumberOfBuckets)
	b.ChiSquared = ctx.ComputeChiSquared(DegreesOfFreedom(dist, b.NumberOfBuckets), confidence)

	bucketProbability := 1.0 / float64(b.NumberOfBuckets)
	currentBucket := b.NumberOfBuckets / 2
	var nextBucketBoundary float64
	if b.NumberOfBuckets%2 != 0 {
		nextBucketBoundary = bucketProbability / 2
	} else {
		nextBucketBoundary = bucketProbability
	}

	probability := 0.0
	lastDensity := densityFunc(dist, bucketTableSize/2)
	for i := bucketTableSize / 2; i < bucketTableSize; i++ {
		density := densityFunc(dist, i+1)
		delta := integral(lastDensity, density, 1.0)
		probability += delta
		if probability > nextBucketBoundary {
			if currentBucket < b.NumberOfBuckets-1 {
				currentBucket++
			}
			nextBucketBoundary += bucketProbability
		}
		b.bucket[i] = currentBucket
		b.ExpectedCount[currentBucket] += delta * float64(sampleCount)
		lastDensity = density
	}
	// leftover probability from rounding goes into the last bucket touched
	b.ExpectedCount[currentBucket] += (0.5 - probability) * float64(sampleCount)

	for i, j := 0, bucketTableSize-1; i < j; i, j = i+1, j-1 {
		b.bucket[i] = mirrorBucket(b.bucket[j], b.NumberOfBuckets)
	}
	for i, j := 0, b.NumberOfBuckets-1; i <= j; i, j = i+1, j-1 {
		b.ExpectedCount[i] += b.ExpectedCount[j]
	}
	return b
}

func mirrorBucket(n, numBuckets int) int { return numBuckets - n - 1 }

// GetBuckets returns a Buckets for dist, reusing a pooled one of the same
// bucket count when available instead of paying MakeBuckets' construction
// cost again.
func GetBuckets(ctx *Context, dist Distribution, sampleCount int32, confidence float64) *Buckets {
	numberOfBuckets := OptimumNumberOfBuckets(sampleCount)
	pool := ctx.bucketPools[dist]
	for i, b := range pool {
		if b.NumberOfBuckets == numberOfBuckets {
			ctx.bucketPools[dist] = append(pool[:i], pool[i+1:]...)
			if sampleCount != b.SampleCount {
				adjustBuckets(b, sampleCount)
			}
			if confidence != b.Confidence {
				b.Confidence = confidence
				b.ChiSquared = ctx.ComputeChiSquared(DegreesOfFreedom(dist, b.NumberOfBuckets), confidence)
			}
			initBuckets(b)
			return b
		}
	}
	return MakeBuckets(ctx, dist, sampleCount, confidence)
}

// FreeBuckets returns b to ctx's pool for its distribution so a later
// GetBuckets call with a matching bucket count can reuse it.
func FreeBuckets(ctx *Context, b *Buckets) {
	if b == nil {
		return
	}
	ctx.bucketPools[b.Distribution] = append(ctx.bucketPools[b.Distribution], b)
}

func adjustBuckets(b *Buckets, newSampleCount int32) {
	factor := float64(newSampleCount) / float64(b.SampleCount)
	for i := range b.ExpectedCount {
		b.ExpectedCount[i] *= factor
	}
	b.SampleCount = newSampleCount
}

func initBuckets(b *Buckets) {
	for i := range b.Count {
		b.Count[i] = 0
	}
}

// FillBuckets counts how many of cluster's samples, along dimension dim,
// fall into each of b's histogram buckets, given the distribution's
// (Mean, StdDev) in that dimension. Mean and StdDev are the center and half
// the range for Uniform/Random. A zero StdDev can't be statistically
// analyzed, so it falls back to a pseudo-analysis: samples above the mean go
// in the last bucket, below go in the first, and samples exactly on the mean
// round-robin across every bucket in sample order.
func FillBuckets(b *Buckets, cluster *Cluster, dim int, param ParamDesc, mean, stdDev float32) {
	for i := range b.Count {
		b.Count[i] = 0
	}

	search := initSampleSearch(cluster)
	if stdDev == 0.0 {
		i := 0
		for s := search.next(); s != nil; s = search.next() {
			var bucketID int
			switch {
			case s.Mean[dim] > mean:
				bucketID = b.NumberOfBuckets - 1
			case s.Mean[dim] < mean:
				bucketID = 0
			default:
				bucketID = i
			}
			b.Count[bucketID]++
			i++
			if i >= b.NumberOfBuckets {
				i = 0
			}
		}
		return
	}

	for s := search.next(); s != nil; s = search.next() {
		var idx int
		switch b.Distribution {
		case Normal:
			idx = normalBucket(param, s.Mean[dim], mean, stdDev)
		default:
			idx = uniformBucket(param, s.Mean[dim], mean, stdDev)
		}
		b.Count[b.bucket[idx]]++
	}
}

func normalBucket(param ParamDesc, x, mean, stdDev float32) int {
	if param.Circular {
		if x-mean > param.HalfRange() {
			x -= param.Range()
		} else if x-mean < -param.HalfRange() {
			x += param.Range()
		}
	}
	xn := float64(x-mean)/float64(stdDev)*normalStdDev + normalMean
	return clampBucketIndex(xn)
}

func uniformBucket(param ParamDesc, x, mean, stdDev float32) int {
	if param.Circular {
		if x-mean > param.HalfRange() {
			x -= param.Range()
		} else if x-mean < -param.HalfRange() {
			x += param.Range()
		}
	}
	xn := float64(x-mean)/(2*float64(stdDev))*bucketTableSize + bucketTableSize/2.0
	return clampBucketIndex(xn)
}

func clampBucketIndex(x float64) int {
	if x < 0 {
		return 0
	}
	if x > bucketTableSize-1 {
		return bucketTableSize - 1
	}
	return int(math.Floor(x))
}

// DistributionOK runs the chi-squared goodness-of-fit test over b's observed
// vs. expected histogram and reports whether the samples are consistent with
// b's distribution at its configured confidence level.
func DistributionOK(b *Buckets) bool {
	total := 0.0
	for i := range b.Count {
		d := float64(b.Count[i]) - b.ExpectedCount[i]
		total += (d * d) / b.ExpectedCount[i]
	}
	return total <= b.ChiSquared
}
