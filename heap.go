package protoclust

import "container/heap"

// mergePair is a candidate merge: main's nearest neighbor is neighbor.
type mergePair struct {
	Main     *Cluster
	Neighbor *Cluster
}

type heapEntry struct {
	key  float64
	pair mergePair
}

// mergeHeap is a min-heap over heapEntry.key, used only during cluster tree
// construction (§4.3). Stale entries (whose Main or Neighbor has since been
// absorbed into another merge) are deliberately never removed from the
// heap — they are detected and discarded at pop time instead, since
// building a removable-entry heap would perturb tie-break ordering for no
// performance benefit here.
type mergeHeap []heapEntry

func (h mergeHeap) Len() int            { return len(h) }
func (h mergeHeap) Less(i, j int) bool  { return h[i].key < h[j].key }
func (h mergeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *mergeHeap) Push(x interface{}) { *h = append(*h, x.(heapEntry)) }
func (h *mergeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func newMergeHeap() *mergeHeap {
	h := &mergeHeap{}
	heap.Init(h)
	return h
}

func (h *mergeHeap) push(key float64, pair mergePair) {
	heap.Push(h, heapEntry{key: key, pair: pair})
}

// popMin returns the lowest-key entry and true, or the zero value and false
// when the heap is empty.
func (h *mergeHeap) popMin() (heapEntry, bool) {
	if h.Len() == 0 {
		return heapEntry{}, false
	}
	return heap.Pop(h).(heapEntry), true
}
