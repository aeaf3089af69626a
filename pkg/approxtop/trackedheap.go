package approxtop

import "sort"

import "github.com/domainrank/urlcounter/pkg/approxtop/heap"

// trackedHeap is HeavyKeeper's bounded top-k bookkeeping: the k heaviest
// domains seen so far, built on the same generic heap.Heap algorithm
// internal/transport's cluster merge uses, rather than a second
// hand-rolled container — a HeavyHitter-shaped min-heap is the one
// concrete instantiation this sketch actually needs.
type trackedHeap struct {
	entries heavyHitters
	k       uint32
}

type heavyHitters []HeavyHitter

func (h heavyHitters) Len() int { return len(h) }
func (h heavyHitters) Less(i, j int) bool {
	return h[i].Count < h[j].Count || (h[i].Count == h[j].Count && h[i].Domain > h[j].Domain)
}
func (h heavyHitters) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *heavyHitters) Push(x interface{}) { *h = append(*h, x.(HeavyHitter)) }
func (h *heavyHitters) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

func newTrackedHeap(k uint32) *trackedHeap {
	entries := heavyHitters{}
	heap.Init(&entries)
	return &trackedHeap{entries: entries, k: k}
}

func (t *trackedHeap) isFull() bool  { return uint32(len(t.entries)) >= t.k }
func (t *trackedHeap) isEmpty() bool { return len(t.entries) == 0 }

func (t *trackedHeap) min() uint32 {
	if t.isEmpty() {
		return 0
	}
	return t.entries[0].Count
}

func (t *trackedHeap) find(domain string) (int, bool) {
	for i := range t.entries {
		if t.entries[i].Domain == domain {
			return i, true
		}
	}
	return 0, false
}

func (t *trackedHeap) fix(idx int, count uint32) {
	t.entries[idx].Count = count
	heap.Fix(&t.entries, idx)
}

// add inserts hit, evicting and returning the current weakest entry if the
// heap is already full and hit outweighs it.
func (t *trackedHeap) add(hit HeavyHitter) (expelled HeavyHitter, ok bool) {
	if !t.isFull() {
		heap.Push(&t.entries, hit)
		return HeavyHitter{}, false
	}
	if hit.Count <= t.min() {
		return HeavyHitter{}, false
	}
	expelled = heap.Pop(&t.entries).(HeavyHitter)
	heap.Push(&t.entries, hit)
	return expelled, true
}

// sorted returns the tracked domains, heaviest first.
func (t *trackedHeap) sorted() []HeavyHitter {
	out := append(heavyHitters(nil), t.entries...)
	sort.Sort(sort.Reverse(out))
	return out
}

// fade halves every tracked count, the Decay counterpart to the sketch's
// own row decay.
func (t *trackedHeap) fade(factor uint32) {
	for i := range t.entries {
		t.entries[i].Count /= factor
	}
}
