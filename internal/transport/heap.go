package transport

import (
	"sort"

	approxheap "github.com/domainrank/urlcounter/pkg/approxtop/heap"
	"github.com/domainrank/urlcounter/pkg/hitcounter"
)

// boundedTopHeap keeps the n highest-count entries seen so far in a
// min-heap, so that the entry at its root, evicted on overflow, is always
// the weakest candidate for the final top-n. It is the cluster-merge analogue of pkg/approxtop's trackedHeap:
// both bound a candidate set on the same generic heap.Heap algorithm,
// trading a full sort (O(total log total)) for O(total log n).
type boundedTopHeap struct {
	entries domainCounts
	n       int
}

func newBoundedTopHeap(n int) *boundedTopHeap {
	entries := domainCounts{}
	approxheap.Init(&entries)
	return &boundedTopHeap{entries: entries, n: n}
}

// offer considers dc for membership in the top n, evicting the current
// weakest entry if dc is stronger and the heap is already full.
func (h *boundedTopHeap) offer(dc hitcounter.DomainCount) {
	if h.n <= 0 {
		return
	}
	if h.entries.Len() < h.n {
		approxheap.Push(&h.entries, dc)
		return
	}
	if h.entries.Len() > 0 && less(h.entries[0], dc) {
		approxheap.Pop(&h.entries)
		approxheap.Push(&h.entries, dc)
	}
}

// sorted copies the heap into a descending-by-count slice, breaking ties by
// domain name ascending for a stable, reproducible ordering.
func (h *boundedTopHeap) sorted() []hitcounter.DomainCount {
	out := append(domainCounts(nil), h.entries...)
	sort.Sort(sort.Reverse(out))
	return out
}

type domainCounts []hitcounter.DomainCount

// less reports whether a ranks below b: lower count first, and among equal
// counts, the lexicographically later domain first, so that offer's
// eviction choice and sorted's final order agree on ties.
func less(a, b hitcounter.DomainCount) bool {
	if a.Count != b.Count {
		return a.Count < b.Count
	}
	return a.Domain > b.Domain
}

func (d domainCounts) Len() int            { return len(d) }
func (d domainCounts) Less(i, j int) bool  { return less(d[i], d[j]) }
func (d domainCounts) Swap(i, j int)       { d[i], d[j] = d[j], d[i] }
func (d *domainCounts) Push(x interface{}) { *d = append(*d, x.(hitcounter.DomainCount)) }
func (d *domainCounts) Pop() interface{} {
	old := *d
	n := len(old)
	x := old[n-1]
	*d = old[:n-1]
	return x
}
