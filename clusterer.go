package protoclust

import "math"

// Clusterer owns a parameter descriptor array, the samples inserted into it,
// the spatial index used to build the cluster tree (freed once that tree is
// built), the resulting cluster tree, and the current prototype list.
//
// A Clusterer is not safe for concurrent use; the engine is single-threaded
// end to end (§5).
type Clusterer struct {
	params     []ParamDesc
	dim        int
	tree       *KDTree
	root       *Cluster
	numSamples int32
	numChar    int32
	ctx        *Context
	protos     []*Prototype
}

// NewClusterer creates a Clusterer over the given per-dimension descriptors.
func NewClusterer(params []ParamDesc) *Clusterer {
	return &Clusterer{
		params: params,
		dim:    len(params),
		tree:   NewKDTree(params),
		ctx:    NewContext(),
	}
}

// NumSamples returns the number of samples inserted so far.
func (c *Clusterer) NumSamples() int32 { return c.numSamples }

// NumChar returns one greater than the largest char ID observed.
func (c *Clusterer) NumChar() int32 { return c.numChar }

// Classify returns whichever prototype from the most recent ClusterSamples
// call has the highest density at feature, and that density.
func (c *Clusterer) Classify(feature []float32) (*Prototype, float64) {
	return Classify(c.protos, c.params, feature)
}

// AddSample inserts a feature vector tagged with charID. It returns
// ErrAlreadyClustered if ClusterSamples has already built the cluster tree —
// no further samples may be added to a session past that point.
func (c *Clusterer) AddSample(feature []float32, charID int32) (*Cluster, error) {
	if c.root != nil {
		return nil, ErrAlreadyClustered
	}
	mean := make([]float32, len(feature))
	copy(mean, feature)
	s := &Cluster{Mean: mean, Count: 1, CharID: charID}
	c.tree.Insert(s.Mean, s)
	c.numSamples++
	if charID+1 > c.numChar {
		c.numChar = charID + 1
	}
	return s, nil
}

// ClusterSamples builds the cluster tree on its first call (subsequent calls
// reuse it) and then produces a fresh prototype list under cfg. The returned
// slice replaces any list from a prior call.
func (c *Clusterer) ClusterSamples(cfg Config) ([]*Prototype, error) {
	cfgCopy := cfg
	applyDefaults(&cfgCopy)
	if err := validateConfig(&cfgCopy); err != nil {
		return nil, err
	}
	if c.root == nil {
		c.createClusterTree()
	}
	c.protos = computePrototypes(c, cfgCopy)
	return c.protos, nil
}

// createClusterTree runs the bottom-up agglomerative merge described in
// §4.3: seed every leaf with its nearest neighbor, repeatedly pop the
// smallest-distance candidate pair off a min-heap, and merge unless one side
// has already been absorbed by an earlier, shorter merge. Stale heap entries
// are never removed — they're detected and skipped at pop time (see
// mergeHeap).
func (c *Clusterer) createClusterTree() {
	if c.tree.Size() == 0 {
		return
	}
	h := newMergeHeap()
	c.tree.Walk(func(payload *Cluster, kind VisitKind) {
		if kind == Preorder || kind == LeafVisit {
			if n, d, ok := c.nearestNeighbor(payload); ok {
				h.push(d, mergePair{Main: payload, Neighbor: n})
			}
		}
	})

	for {
		entry, ok := h.popMin()
		if !ok {
			break
		}
		main, neighbor := entry.pair.Main, entry.pair.Neighbor

		// The "stale pair" check must precede the "stale neighbor" check:
		// main may have been absorbed by a merge that also consumed what
		// used to be its neighbor's slot in the heap.
		if main.Clustered {
			continue
		}
		if neighbor.Clustered {
			if n, d, ok := c.nearestNeighbor(main); ok {
				h.push(d, mergePair{Main: main, Neighbor: n})
			}
			continue
		}

		merged := c.mergeInto(main, neighbor)
		if n, d, ok := c.nearestNeighbor(merged); ok {
			h.push(d, mergePair{Main: merged, Neighbor: n})
		}
	}

	c.root = c.tree.SoleRemaining()
	c.tree = nil
}

// nearestNeighbor finds the nearest other cluster to main by asking the
// spatial index for the 2 nearest points and discarding the self-match, per
// §4.3 step 1.
func (c *Clusterer) nearestNeighbor(main *Cluster) (*Cluster, float64, bool) {
	results := c.tree.KNearest(main.Mean, 2, math.Inf(1))
	for _, r := range results {
		if r.Payload != main {
			return r.Payload, r.Dist, true
		}
	}
	return nil, 0, false
}

// mergeInto creates a new internal cluster from l and r, marks them
// clustered, swaps them out of the spatial index for the merged cluster.
func (c *Clusterer) mergeInto(l, r *Cluster) *Cluster {
	l.Clustered = true
	r.Clustered = true
	c.tree.Delete(l.Mean, l)
	c.tree.Delete(r.Mean, r)

	mean := make([]float32, c.dim)
	count := mergeClusters(c.params, l.Count, r.Count, mean, l.Mean, r.Mean)
	merged := &Cluster{Mean: mean, Count: count, Left: l, Right: r, CharID: -1}
	c.tree.Insert(mean, merged)
	return merged
}
