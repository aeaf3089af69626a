package approxtop

import (
	"math"
	"sync"

	"github.com/twmb/murmur3"
	"golang.org/x/exp/rand"
)

// decayTableLen bounds the precomputed decay-probability lookup table; a
// conflicting bucket's count above this is clamped to the table's tail
// probability rather than growing the table unboundedly.
const decayTableLen = 1 << 8

// HeavyKeeper is a count-min sketch variant that keeps only the k heaviest
// keys, decaying colliding counters probabilistically so that a genuinely
// hot domain survives hash collisions with cold ones.
//
// Observe runs on the goroutine handling each /add request while Decay
// runs off a separate periodic ticker, so mu guards every field below it.
//
// See: https://www.usenix.org/system/files/conference/atc18/atc18-gong.pdf
type HeavyKeeper struct {
	k           uint32
	width       uint32
	depth       uint32
	decay       float64
	lookupTable []float64
	minCount    uint32

	mu      sync.Mutex
	r       *rand.Rand
	rows    [][]fingerprintBucket
	tracked *trackedHeap
	evicted chan HeavyHitter
	total   uint64
}

// fingerprintBucket holds one row/column cell: the fingerprint of whichever
// domain currently owns the cell, and its decayed count.
type fingerprintBucket struct {
	fingerprint uint32
	count       uint32
}

// NewHeavyKeeper builds a HeavyKeeper tracking up to k domains over a
// width x depth sketch, decaying colliding counters by decay per collision
// and ignoring domains whose estimated count never reaches minCount.
func NewHeavyKeeper(k, width, depth uint32, decay float64, minCount uint32) *HeavyKeeper {
	lookupTable := make([]float64, decayTableLen)
	for i := 0; i < decayTableLen; i++ {
		lookupTable[i] = math.Pow(decay, float64(i))
	}

	rows := make([][]fingerprintBucket, depth)
	for i := range rows {
		rows[i] = make([]fingerprintBucket, width)
	}

	return &HeavyKeeper{
		k:           k,
		width:       width,
		depth:       depth,
		decay:       decay,
		lookupTable: lookupTable,
		minCount:    minCount,

		r:       rand.New(rand.NewSource(0)),
		rows:    rows,
		tracked: newTrackedHeap(k),
		evicted: make(chan HeavyHitter, 32),
	}
}

// Observe implements Sketch.
func (hk *HeavyKeeper) Observe(domain string, n uint32) (string, bool) {
	hk.mu.Lock()
	defer hk.mu.Unlock()

	domainBytes := []byte(domain)
	fingerprint := murmur3.Sum32(domainBytes)

	var estimate uint32

	for i, row := range hk.rows {
		col := murmur3.SeedSum32(uint32(i), domainBytes) % hk.width
		cellFingerprint := row[col].fingerprint
		cellCount := row[col].count

		switch {
		case cellCount == 0:
			row[col].fingerprint = fingerprint
			row[col].count = n
			estimate = max32(estimate, n)

		case cellFingerprint == fingerprint:
			row[col].count += n
			estimate = max32(estimate, row[col].count)

		default:
			for remaining := n; remaining > 0; remaining-- {
				idx := row[col].count
				decayProb := hk.lookupTable[decayTableLen-1]
				if idx < decayTableLen {
					decayProb = hk.lookupTable[idx]
				}

				if hk.r.Float64() < decayProb {
					row[col].count--
					if row[col].count == 0 {
						row[col].fingerprint = fingerprint
						row[col].count = remaining
						estimate = max32(estimate, remaining)
						break
					}
				}
			}
		}
	}

	hk.total += uint64(n)

	if estimate < hk.minCount {
		return "", false
	}
	if hk.tracked.isFull() && estimate < hk.tracked.min() {
		return "", false
	}

	if idx, ok := hk.tracked.find(domain); ok {
		hk.tracked.fix(idx, estimate)
		return "", true
	}

	wasFull := hk.tracked.isFull()
	expelled, ok := hk.tracked.add(HeavyHitter{Domain: domain, Count: estimate})
	if ok {
		hk.expel(expelled)
		return expelled.Domain, true
	}
	// On a full heap add declines a domain that only ties the weakest entry.
	return "", !wasFull
}

// List implements Sketch.
func (hk *HeavyKeeper) List() []HeavyHitter {
	hk.mu.Lock()
	defer hk.mu.Unlock()
	return hk.tracked.sorted()
}

// Total implements Sketch.
func (hk *HeavyKeeper) Total() uint64 {
	hk.mu.Lock()
	defer hk.mu.Unlock()
	return hk.total
}

// Evicted implements Sketch. The channel itself is safe for concurrent
// receive without mu; sends happen under mu via expel.
func (hk *HeavyKeeper) Evicted() <-chan HeavyHitter { return hk.evicted }

// Decay implements Sketch.
func (hk *HeavyKeeper) Decay() {
	hk.mu.Lock()
	defer hk.mu.Unlock()
	for _, row := range hk.rows {
		for i := range row {
			row[i].count >>= 1
		}
	}
	hk.total >>= 1
	hk.tracked.fade(2)
}

// expel is always called with mu held; the send is non-blocking so it
// cannot stall Observe or Decay on a full channel.
func (hk *HeavyKeeper) expel(hit HeavyHitter) {
	select {
	case hk.evicted <- hit:
	default:
	}
}

func max32(a, b uint32) uint32 {
	if a < b {
		return b
	}
	return a
}
