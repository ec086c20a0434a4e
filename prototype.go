package protoclust

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Prototype is a parametric summary of a cluster: a mean plus enough shape
// information (a single variance, a per-dimension variance, or a per-
// dimension variance-and-distribution) to describe how its samples spread
// out. Grounded on cluster.cpp's PROTOTYPE struct and the New*Proto/Make*Proto
// family.
type Prototype struct {
	Style ProtoStyle
	Mean  []float32

	varianceSpherical  float64
	magnitudeSpherical float64
	weightSpherical    float64

	varianceElliptical  []float64
	magnitudeElliptical []float64
	weightElliptical    []float64
	Distrib             []Distribution // only populated for Mixed

	TotalMagnitude float64
	LogMagnitude   float64

	Significant bool
	NumSamples  int32
	Cluster     *Cluster
}

// Mean returns the prototype's mean along dim.
func Mean(p *Prototype, dim int) float32 { return p.Mean[dim] }

// StandardDeviation returns the prototype's spread along dim. For Spherical
// it's the same value at every dim; for Elliptical and Mixed-Normal it's
// sqrt(variance); for Mixed-Uniform and Mixed-Random it's the raw variance,
// unsquare-rooted — that asymmetry comes straight from the original and is
// preserved rather than "fixed".
func (p *Prototype) StandardDeviation(dim int) float32 {
	switch p.Style {
	case Spherical:
		return float32(math.Sqrt(p.varianceSpherical))
	case Elliptical:
		return float32(math.Sqrt(p.varianceElliptical[dim]))
	case Mixed:
		switch p.Distrib[dim] {
		case Normal:
			return float32(math.Sqrt(p.varianceElliptical[dim]))
		default: // Uniform, Random
			return float32(p.varianceElliptical[dim])
		}
	}
	return 0
}

func newSimpleProto(cluster *Cluster) *Prototype {
	mean := make([]float32, len(cluster.Mean))
	copy(mean, cluster.Mean)
	cluster.Prototype = true
	return &Prototype{
		Mean:        mean,
		Significant: true,
		Style:       Spherical,
		NumSamples:  cluster.Count,
		Cluster:     cluster,
	}
}

func newSphericalProto(stats *Statistics, cluster *Cluster) *Prototype {
	p := newSimpleProto(cluster)
	variance := stats.AvgVariance
	if variance < minVariance {
		variance = minVariance
	}
	p.varianceSpherical = variance
	p.magnitudeSpherical = 1.0 / math.Sqrt(2.0*math.Pi*variance)
	p.TotalMagnitude = math.Pow(p.magnitudeSpherical, float64(len(cluster.Mean)))
	p.weightSpherical = 1.0 / variance
	p.LogMagnitude = math.Log(p.TotalMagnitude)
	return p
}

func newEllipticalProto(stats *Statistics, cluster *Cluster) *Prototype {
	p := newSimpleProto(cluster)
	dim := len(cluster.Mean)
	p.varianceElliptical = make([]float64, dim)
	p.magnitudeElliptical = make([]float64, dim)
	p.weightElliptical = make([]float64, dim)
	for i := 0; i < dim; i++ {
		v := stats.variance(i)
		p.varianceElliptical[i] = v
		p.magnitudeElliptical[i] = 1.0 / math.Sqrt(2.0*math.Pi*v)
		p.weightElliptical[i] = 1.0 / v
	}
	// TotalMagnitude is the product of every dimension's normalizing constant.
	p.TotalMagnitude = floats.Prod(p.magnitudeElliptical)
	p.LogMagnitude = math.Log(p.TotalMagnitude)
	p.Style = Elliptical
	return p
}

func newMixedProto(stats *Statistics, cluster *Cluster) *Prototype {
	p := newEllipticalProto(stats, cluster)
	p.Distrib = make([]Distribution, len(cluster.Mean))
	for i := range p.Distrib {
		p.Distrib[i] = Normal
	}
	p.Style = Mixed
	return p
}

// freePrototype releases the prototype's claim on its cluster (used when a
// candidate prototype is discarded mid-fit, e.g. makeMixedProto failing
// partway through its per-dimension pass).
func freePrototype(p *Prototype) {
	if p != nil && p.Cluster != nil {
		p.Cluster.Prototype = false
	}
}

// makeDegenerateProto returns a prototype marked insignificant when cluster
// doesn't have enough samples to support a statistically valid fit, or nil
// if cluster has enough samples to be analyzed normally.
func makeDegenerateProto(style ProtoStyle, cluster *Cluster, stats *Statistics, minSamples int32) *Prototype {
	if minSamples < minSamplesNeeded {
		minSamples = minSamplesNeeded
	}
	if cluster.Count >= minSamples {
		return nil
	}
	var p *Prototype
	switch style {
	case Spherical:
		p = newSphericalProto(stats, cluster)
	case Elliptical, Automatic:
		p = newEllipticalProto(stats, cluster)
	case Mixed:
		p = newMixedProto(stats, cluster)
	}
	p.Significant = false
	return p
}

// independent reports whether every pair of essential dimensions in stats'
// covariance matrix has a correlation coefficient at or below independence.
// The coefficient is computed as sqrt(sqrt(cov[i][j]^2 / (var[i]*var[j]))) —
// Duda & Hart's formula, square-rooted twice; that's deliberate, not a typo.
func independent(params []ParamDesc, stats *Statistics, independence float64) bool {
	dim := len(params)
	for i := 0; i < dim; i++ {
		if params[i].NonEssential {
			continue
		}
		varII := stats.covariance(i, i)
		for j := i + 1; j < dim; j++ {
			if params[j].NonEssential {
				continue
			}
			varJJ := stats.covariance(j, j)
			var corr float64
			if varII == 0 || varJJ == 0 {
				corr = 0
			} else {
				covIJ := stats.covariance(i, j)
				corr = math.Sqrt(math.Sqrt(covIJ * covIJ / (varII * varJJ)))
			}
			if corr > independence {
				return false
			}
		}
	}
	return true
}

// multipleCharSamples reports whether too many characters in cluster are
// represented by more than one sample, as a running estimate checked after
// every repeat occurrence (not just the first): once a character's second
// occurrence is seen the char is flagged illegal, and from then on every
// further occurrence of it keeps shrinking the "legal" denominator until the
// illegal fraction crosses maxIllegal.
func multipleCharSamples(cluster *Cluster, numChar int32, maxIllegal float64) bool {
	numCharInCluster := cluster.Count
	numIllegalInCluster := int32(0)
	const (
		unseen = iota
		seen
		illegal
	)
	flags := make([]int8, numChar)

	search := initSampleSearch(cluster)
	for s := search.next(); s != nil; s = search.next() {
		id := s.CharID
		if flags[id] == unseen {
			flags[id] = seen
			continue
		}
		if flags[id] == seen {
			numIllegalInCluster++
			flags[id] = illegal
		}
		numCharInCluster--
		percentIllegal := float64(numIllegalInCluster) / float64(numCharInCluster)
		if percentIllegal > maxIllegal {
			return true
		}
	}
	return false
}

func makeSphericalProto(cluster *Cluster, stats *Statistics, params []ParamDesc, buckets *Buckets) *Prototype {
	for i, p := range params {
		if p.NonEssential {
			continue
		}
		FillBuckets(buckets, cluster, i, p, cluster.Mean[i], float32(math.Sqrt(stats.AvgVariance)))
		if !DistributionOK(buckets) {
			return nil
		}
	}
	return newSphericalProto(stats, cluster)
}

func makeEllipticalProto(cluster *Cluster, stats *Statistics, params []ParamDesc, buckets *Buckets) *Prototype {
	for i, p := range params {
		if p.NonEssential {
			continue
		}
		FillBuckets(buckets, cluster, i, p, cluster.Mean[i], float32(math.Sqrt(stats.covariance(i, i))))
		if !DistributionOK(buckets) {
			return nil
		}
	}
	return newEllipticalProto(stats, cluster)
}

// makeMixedProto tries, for each essential dimension in turn, Normal then
// Random then Uniform, keeping the first that passes; it gives up on the
// whole prototype the moment one dimension fails all three.
func makeMixedProto(ctx *Context, cluster *Cluster, stats *Statistics, params []ParamDesc, normalBuckets *Buckets, confidence float64) *Prototype {
	p := newMixedProto(stats, cluster)
	var uniformBuckets, randomBuckets *Buckets
	ok := true

	for i, param := range params {
		if param.NonEssential {
			continue
		}

		FillBuckets(normalBuckets, cluster, i, param, p.Mean[i], float32(math.Sqrt(p.varianceElliptical[i])))
		if DistributionOK(normalBuckets) {
			continue
		}

		if randomBuckets == nil {
			randomBuckets = GetBuckets(ctx, Random, cluster.Count, confidence)
		}
		makeDimRandom(i, p, param)
		FillBuckets(randomBuckets, cluster, i, param, p.Mean[i], float32(p.varianceElliptical[i]))
		if DistributionOK(randomBuckets) {
			continue
		}

		if uniformBuckets == nil {
			uniformBuckets = GetBuckets(ctx, Uniform, cluster.Count, confidence)
		}
		makeDimUniform(i, p, stats, cluster)
		FillBuckets(uniformBuckets, cluster, i, param, p.Mean[i], float32(p.varianceElliptical[i]))
		if DistributionOK(uniformBuckets) {
			continue
		}

		ok = false
		break
	}

	if !ok {
		freePrototype(p)
		p = nil
	}
	if uniformBuckets != nil {
		FreeBuckets(ctx, uniformBuckets)
	}
	if randomBuckets != nil {
		FreeBuckets(ctx, randomBuckets)
	}
	return p
}

func makeDimRandom(i int, p *Prototype, param ParamDesc) {
	p.Distrib[i] = Random
	p.Mean[i] = param.MidRange()
	p.varianceElliptical[i] = float64(param.HalfRange())

	p.TotalMagnitude /= p.magnitudeElliptical[i]
	p.magnitudeElliptical[i] = 1.0 / float64(param.Range())
	p.TotalMagnitude *= p.magnitudeElliptical[i]
	p.LogMagnitude = math.Log(p.TotalMagnitude)
}

func makeDimUniform(i int, p *Prototype, stats *Statistics, cluster *Cluster) {
	p.Distrib[i] = Uniform
	p.Mean[i] = cluster.Mean[i] + float32((float64(stats.Min[i])+float64(stats.Max[i]))/2)
	v := float64(stats.Max[i]-stats.Min[i]) / 2
	if v < minVariance {
		v = minVariance
	}
	p.varianceElliptical[i] = v

	p.TotalMagnitude /= p.magnitudeElliptical[i]
	p.magnitudeElliptical[i] = 1.0 / (2.0 * v)
	p.TotalMagnitude *= p.magnitudeElliptical[i]
	p.LogMagnitude = math.Log(p.TotalMagnitude)
}

// makePrototype attempts to summarize cluster as a single prototype under
// cfg. It returns nil when the cluster must be split further: when it mixes
// samples from too many repeated characters, when its dimensions aren't
// independent, or when no distribution in cfg.ProtoStyle's repertoire fits.
func makePrototype(c *Clusterer, cfg Config, cluster *Cluster) *Prototype {
	if multipleCharSamples(cluster, c.numChar, cfg.MaxIllegal) {
		return nil
	}

	stats := computeStatistics(c.dim, c.params, cluster)

	minSamples := int32(cfg.MinSamples * float64(c.numChar))
	if proto := makeDegenerateProto(cfg.ProtoStyle, cluster, stats, minSamples); proto != nil {
		return proto
	}

	if !independent(c.params, stats, cfg.Independence) {
		return nil
	}

	buckets := GetBuckets(c.ctx, Normal, cluster.Count, cfg.Confidence)
	defer FreeBuckets(c.ctx, buckets)

	switch cfg.ProtoStyle {
	case Spherical:
		return makeSphericalProto(cluster, stats, c.params, buckets)
	case Elliptical:
		return makeEllipticalProto(cluster, stats, c.params, buckets)
	case Mixed:
		return makeMixedProto(c.ctx, cluster, stats, c.params, buckets, cfg.Confidence)
	case Automatic:
		if proto := makeSphericalProto(cluster, stats, c.params, buckets); proto != nil {
			return proto
		}
		if proto := makeEllipticalProto(cluster, stats, c.params, buckets); proto != nil {
			return proto
		}
		return makeMixedProto(c.ctx, cluster, stats, c.params, buckets, cfg.Confidence)
	}
	return nil
}

// computePrototypes walks the cluster tree depth-first with an explicit
// stack (§6's Design Note rules out direct recursion here: the tree can be
// as deep as the sample count). Every cluster that can be summarized by a
// single prototype becomes a leaf of the result; every cluster that can't
// is split into its two children, which are tried independently.
func computePrototypes(c *Clusterer, cfg Config) []*Prototype {
	var protos []*Prototype
	if c.root == nil {
		return protos
	}
	stack := []*Cluster{c.root}
	for len(stack) > 0 {
		cluster := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if proto := makePrototype(c, cfg, cluster); proto != nil {
			protos = append(protos, proto)
			continue
		}
		if cluster.Right != nil {
			stack = append(stack, cluster.Right)
		}
		if cluster.Left != nil {
			stack = append(stack, cluster.Left)
		}
	}
	return protos
}
