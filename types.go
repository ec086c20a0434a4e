package protoclust

// ParamDesc describes one dimension of the feature space: whether it wraps
// around (Circular), whether statistical tests should ignore it
// (NonEssential), and its value range.
type ParamDesc struct {
	Circular     bool
	NonEssential bool
	Min, Max     float32
}

// Range returns Max-Min.
func (p ParamDesc) Range() float32 { return p.Max - p.Min }

// HalfRange returns Range()/2.
func (p ParamDesc) HalfRange() float32 { return p.Range() / 2 }

// MidRange returns the midpoint of [Min, Max].
func (p ParamDesc) MidRange() float32 { return (p.Max + p.Min) / 2 }

// Cluster is a node in the binary cluster tree. A leaf (Left == Right == nil)
// represents a single inserted sample; an internal node represents the
// merger of its two children. The zero value is not meaningful — construct
// via (*Clusterer).AddSample or internally via (*Clusterer).mergeInto.
type Cluster struct {
	Mean      []float32
	Count     int32
	Left      *Cluster
	Right     *Cluster
	Clustered bool
	Prototype bool
	CharID    int32 // -1 for internal (merged) clusters
}

func (c *Cluster) isLeaf() bool { return c.Left == nil && c.Right == nil }

// sampleSearch performs a left-first depth-first walk over the leaves
// (samples) of a Cluster subtree using an explicit stack, never direct
// recursion — cluster trees can be as deep as the sample count.
type sampleSearch struct {
	stack []*Cluster
	cur   *Cluster
}

// initSampleSearch begins a leaf traversal rooted at c.
func initSampleSearch(c *Cluster) *sampleSearch {
	return &sampleSearch{cur: c}
}

// next returns the next leaf sample in the traversal, or nil when exhausted.
func (s *sampleSearch) next() *Cluster {
	for {
		if s.cur == nil {
			if len(s.stack) == 0 {
				return nil
			}
			s.cur = s.stack[len(s.stack)-1]
			s.stack = s.stack[:len(s.stack)-1]
			continue
		}
		if s.cur.isLeaf() {
			leaf := s.cur
			s.cur = nil
			return leaf
		}
		if s.cur.Right != nil {
			s.stack = append(s.stack, s.cur.Right)
		}
		s.cur = s.cur.Left
	}
}

// InitSampleSearch begins a leaf-sample traversal rooted at c, per §6's
// init_sample_search/next_sample iteration pair.
func InitSampleSearch(c *Cluster) *SampleSearch {
	return &SampleSearch{s: initSampleSearch(c)}
}

// SampleSearch is the caller-facing iterator state for walking the leaf
// samples under a Cluster.
type SampleSearch struct {
	s *sampleSearch
}

// Next returns the next leaf sample, or nil when the traversal is exhausted.
func (s *SampleSearch) Next() *Cluster { return s.s.next() }
