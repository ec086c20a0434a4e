package protoclust

import "math"

// Density evaluates the kernel density of proto at feature, using exactly
// the fields cluster.cpp's prototype construction already precomputes for
// this purpose: TotalMagnitude (the combined normalizing constant) and a
// per-dimension weight (1/variance, the exponent coefficient). Circular
// dimensions wrap the same way distance and statistics do.
func Density(proto *Prototype, params []ParamDesc, feature []float32) float64 {
	switch proto.Style {
	case Spherical:
		sum := 0.0
		for i, f := range feature {
			d := wrappedDelta(f, proto.Mean[i], params[i])
			sum += d * d
		}
		return proto.TotalMagnitude * math.Exp(-0.5*proto.weightSpherical*sum)
	case Elliptical:
		sum := 0.0
		for i, f := range feature {
			d := wrappedDelta(f, proto.Mean[i], params[i])
			sum += proto.weightElliptical[i] * d * d
		}
		return proto.TotalMagnitude * math.Exp(-0.5*sum)
	case Mixed:
		density := 1.0
		for i, f := range feature {
			d := wrappedDelta(f, proto.Mean[i], params[i])
			switch proto.Distrib[i] {
			case Normal:
				density *= proto.magnitudeElliptical[i] * math.Exp(-0.5*proto.weightElliptical[i]*d*d)
			default: // Uniform, Random: flat density over the fitted half-width
				if math.Abs(d) <= proto.varianceElliptical[i] {
					density *= proto.magnitudeElliptical[i]
				} else {
					density = 0
				}
			}
		}
		return density
	}
	return 0
}

func wrappedDelta(x, mean float32, p ParamDesc) float64 {
	d := float64(x - mean)
	if p.Circular {
		hr := float64(p.HalfRange())
		if d > hr {
			d -= float64(p.Range())
		} else if d < -hr {
			d += float64(p.Range())
		}
	}
	return d
}

// Classify returns the prototype whose density at feature is highest, along
// with that density. It returns (nil, 0) if protos is empty.
func Classify(protos []*Prototype, params []ParamDesc, feature []float32) (*Prototype, float64) {
	var best *Prototype
	bestDensity := -1.0
	for _, p := range protos {
		d := Density(p, params, feature)
		if d > bestDensity {
			bestDensity = d
			best = p
		}
	}
	if best == nil {
		return nil, 0
	}
	return best, bestDensity
}
