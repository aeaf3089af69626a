// Package hitcounter implements the frequency-ordered hit counter: a data
// structure that supports unbounded-value increments of string keys and
// O(K) retrieval of the K most frequent keys with their counts, with O(1)
// amortized increments.
//
// The structure is a variant of the bucket list used in O(1)-LFU caches
// (see e.g. the classic "An O(1) algorithm for implementing the LFU cache
// eviction scheme" design), adapted to an unbounded count range and used
// for ranking rather than eviction: non-floor buckets are never evicted,
// they are destroyed only once empty, and there is no capacity limit on the
// number of distinct domains tracked.
package hitcounter

import "sync"

// DomainCount pairs a domain with its observed count. TopCount returns a
// slice of these, not a map, because the ordering produced by the
// traversal must be preserved exactly — Go maps do not preserve iteration
// order.
type DomainCount struct {
	Domain string
	Count  int
}

// Counter is the public façade: a bucket list and an entry index behind a
// single reader/writer lock. The zero value is not usable; construct one
// with New.
type Counter struct {
	mu    sync.RWMutex
	list  *bucketList
	index *entryIndex
}

// New returns an empty Counter, ready to accept Add calls.
func New() *Counter {
	return &Counter{
		list:  newBucketList(),
		index: newEntryIndex(),
	}
}

// Add records one observation of domain. Not idempotent: each call
// increments the domain's count exactly once.
func (c *Counter) Add(domain string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.index.get(domain); ok {
		c.list.promote(entry)
		return
	}
	entry := c.list.insertNew(domain)
	c.index.put(domain, entry)
}

// Top returns the n most frequently observed domains, most frequent first.
// It returns ErrInvalidArgument if n < 0. If fewer than n domains have been
// observed, it returns all of them.
func (c *Counter) Top(n int) ([]string, error) {
	counts, err := c.TopCount(n)
	if err != nil {
		return nil, err
	}
	domains := make([]string, len(counts))
	for i, dc := range counts {
		domains[i] = dc.Domain
	}
	return domains, nil
}

// TopCount returns the n most frequently observed domains paired with their
// counts, in non-increasing order of count. It returns ErrInvalidArgument if
// n < 0. Order among domains sharing a count is most-recently-touched
// first within this call; it is not a stability guarantee across calls.
func (c *Counter) TopCount(n int) ([]DomainCount, error) {
	if n < 0 {
		return nil, ErrInvalidArgument
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]DomainCount, 0, n)
	if n == 0 {
		return result, nil
	}

	c.list.walk(func(entry *domainEntry) bool {
		result = append(result, DomainCount{Domain: entry.domain, Count: entry.bucket.count})
		return len(result) < n
	})
	return result, nil
}

// Len returns the number of distinct domains observed so far. It is not
// part of the distilled spec's three-operation contract, but it is useful
// to callers (and to this package's own tests) who want "all of them"
// without guessing an upper bound for n.
func (c *Counter) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.index.len()
}
