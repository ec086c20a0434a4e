// Package protoclust implements a feature-vector clustering and
// prototype-fitting engine for an OCR training pipeline.
//
// Given a set of multidimensional feature samples, each tagged with the
// identity of the training character it came from, the engine (a)
// agglomeratively merges samples into a binary cluster tree by nearest
// neighbor distance, and (b) walks that tree to emit a set of statistical
// prototypes: parametric descriptions (spherical, elliptical, or mixed) that
// summarize a subtree while passing a per-dimension chi-squared
// goodness-of-fit test.
//
// Basic usage:
//
//	params := []protoclust.ParamDesc{
//		{Min: 0, Max: 1},
//		{Min: 0, Max: 1},
//	}
//	c := protoclust.NewClusterer(params)
//	for _, f := range features {
//		c.AddSample(f.Vector, f.CharID)
//	}
//	cfg := protoclust.DefaultConfig()
//	protos, err := c.ClusterSamples(cfg)
//	// protoclust.Mean(protos[i], dim), protos[i].StandardDeviation(dim)
//
// Calling ClusterSamples a second time, with a different Config, re-derives
// prototypes from the same tree without rebuilding it — only the first call
// pays for tree construction.
//
// # Circular dimensions
//
// A ParamDesc with Circular set to true treats its value space as wrapping
// modulo Range (e.g. angles in [0, 360)). Merge arithmetic, statistics, and
// histogram bucketing all account for the wraparound.
package protoclust
