package hitcounter

import (
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter_Empty(t *testing.T) {
	c := New()

	top, err := c.Top(5)
	require.NoError(t, err)
	assert.Empty(t, top)

	counts, err := c.TopCount(5)
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestCounter_SingleDomainRepeated(t *testing.T) {
	c := New()
	c.Add("a.com")
	c.Add("a.com")
	c.Add("a.com")

	counts, err := c.TopCount(3)
	require.NoError(t, err)
	assert.Equal(t, []DomainCount{{"a.com", 3}}, counts)
}

func TestCounter_ThreeDomainsSameCount(t *testing.T) {
	c := New()
	c.Add("a")
	c.Add("b")
	c.Add("c")

	top, err := c.Top(3)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, top)

	counts, err := c.TopCount(3)
	require.NoError(t, err)
	for _, dc := range counts {
		assert.Equal(t, 1, dc.Count)
	}
}

func TestCounter_MixedFrequencies(t *testing.T) {
	c := New()
	for _, d := range []string{"a", "b", "a", "c", "a", "b"} {
		c.Add(d)
	}

	top, err := c.Top(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, top)

	counts, err := c.TopCount(3)
	require.NoError(t, err)
	assert.Equal(t, []DomainCount{{"a", 3}, {"b", 2}, {"c", 1}}, counts)
}

func TestCounter_PromotionAcrossGap(t *testing.T) {
	c := New()
	for i := 0; i < 5; i++ {
		c.Add("x")
	}
	c.Add("y")

	counts, err := c.TopCount(2)
	require.NoError(t, err)
	assert.Equal(t, []DomainCount{{"x", 5}, {"y", 1}}, counts)
}

func TestCounter_BucketMerge(t *testing.T) {
	c := New()
	c.Add("x")
	c.Add("x")
	c.Add("y")
	c.Add("y")

	counts, err := c.TopCount(2)
	require.NoError(t, err)
	assert.Len(t, counts, 2)
	for _, dc := range counts {
		assert.Equal(t, 2, dc.Count)
	}
}

func TestCounter_NegativeNIsInvalidArgument(t *testing.T) {
	c := New()
	c.Add("a")

	_, err := c.Top(-1)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = c.TopCount(-1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCounter_TopCountTruncatesToAvailableDomains(t *testing.T) {
	c := New()
	c.Add("a")
	c.Add("b")

	counts, err := c.TopCount(10)
	require.NoError(t, err)
	assert.Len(t, counts, 2)
}

func TestCounter_TopMatchesTopCountKeys(t *testing.T) {
	c := New()
	for _, d := range []string{"a", "b", "a", "c", "a", "b", "d"} {
		c.Add(d)
	}

	top, err := c.Top(4)
	require.NoError(t, err)
	counts, err := c.TopCount(4)
	require.NoError(t, err)

	keys := make([]string, len(counts))
	for i, dc := range counts {
		keys[i] = dc.Domain
	}
	assert.Equal(t, keys, top)
}

// TestCounter_RoundTrip is P7: replaying the same Add sequence into a fresh
// counter yields the same set of (domain, count) pairs, order among equal
// counts aside.
func TestCounter_RoundTrip(t *testing.T) {
	sequence := []string{"a", "b", "a", "c", "a", "b", "d", "d", "d", "d"}

	first := New()
	second := New()
	for _, d := range sequence {
		first.Add(d)
		second.Add(d)
	}

	firstCounts, err := first.TopCount(first.Len())
	require.NoError(t, err)
	secondCounts, err := second.TopCount(second.Len())
	require.NoError(t, err)

	assert.ElementsMatch(t, firstCounts, secondCounts)
}

// TestCounter_InvariantsHoldAfterEveryAdd is P6, exercising a pseudo-random
// but deterministic workload over a handful of domains.
func TestCounter_InvariantsHoldAfterEveryAdd(t *testing.T) {
	c := New()
	domains := []string{"a", "b", "c", "d", "e"}
	added := 0

	for i := 0; i < 200; i++ {
		d := domains[(i*7+3)%len(domains)]
		c.Add(d)
		added++
		total := checkInvariants(t, c)
		assert.Equal(t, added, total, "I6 violated after %d adds", added)
	}
}

// TestCounter_ConcurrentWriters is P8: concurrent writers issuing distinct
// streams must not lose updates.
func TestCounter_ConcurrentWriters(t *testing.T) {
	c := New()
	const writers = 8
	const perWriter = 500

	var wg sync.WaitGroup
	wg.Add(writers)
	for w := 0; w < writers; w++ {
		domain := "writer-" + strconv.Itoa(w) + ".example"
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				c.Add(domain)
			}
		}()
	}
	wg.Wait()

	counts, err := c.TopCount(writers)
	require.NoError(t, err)
	require.Len(t, counts, writers)
	for _, dc := range counts {
		assert.Equal(t, perWriter, dc.Count)
	}
}

// TestCounter_ConcurrentReadersDuringWrites exercises concurrent Top/TopCount
// calls racing Add; the race detector (go test -race) is the real assertion
// here, the sort check below only confirms each snapshot was self-consistent.
func TestCounter_ConcurrentReadersDuringWrites(t *testing.T) {
	c := New()
	const domains = 50
	for i := 0; i < domains; i++ {
		c.Add("seed-" + strconv.Itoa(i))
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 2000; i++ {
			c.Add("seed-" + strconv.Itoa(i%domains))
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				counts, err := c.TopCount(domains)
				require.NoError(t, err)
				assert.True(t, sort.SliceIsSorted(counts, func(i, j int) bool {
					return counts[i].Count > counts[j].Count
				}))
			}
		}()
	}

	wg.Wait()
}
