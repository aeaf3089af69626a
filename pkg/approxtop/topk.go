// Package approxtop is the optional heavy-hitter diagnostic named in
// SPEC_FULL.md §10: a fixed-memory, probabilistic alternative to the exact
// bucket list in pkg/hitcounter, exposed only at GET /debug/heavyhitters.
// It must never back /top or /counts — it can evict or misattribute a
// domain's count, which the exact core's invariants forbid.
package approxtop

// HeavyHitter pairs a domain with its approximate observation count, as
// tracked by a Sketch.
type HeavyHitter struct {
	Domain string
	Count  uint32
}

// Sketch is a fixed-capacity approximate heavy-hitter tracker.
type Sketch interface {
	// Observe records n occurrences of domain. It returns the domain
	// evicted to make room, if any, and whether domain is now tracked.
	Observe(domain string, n uint32) (evicted string, tracked bool)

	// List returns the currently tracked heavy hitters, most frequent
	// first.
	List() []HeavyHitter

	// Total returns the total number of observations folded into the
	// sketch, including ones attributed to untracked or decayed domains.
	Total() uint64

	// Evicted streams domains dropped from the tracked set to make room
	// for a heavier one.
	Evicted() <-chan HeavyHitter

	// Decay halves every tracked count and the running total, bounding
	// memory growth and letting stale heavy hitters fall out of
	// contention over time. Operators call this on a timer; the sketch
	// never calls it itself.
	Decay()
}
