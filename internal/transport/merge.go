package transport

import (
	"context"
	"sync"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/domainrank/urlcounter/internal/metrics"
	"github.com/domainrank/urlcounter/pkg/hitcounter"
)

// fanOutTopCounts queries every node in nodes (local via localQuery, the
// rest via h.client) concurrently and returns one []DomainCount per node
// that answered successfully. A node that errors contributes nothing and
// its error is logged and aggregated, never returned to the HTTP caller,
// per SPEC_FULL.md §4.9: a partial cluster answer still has value.
func (h *Handler) fanOutTopCounts(ctx context.Context, nodes []string, n int, localQuery func(int) ([]hitcounter.DomainCount, error)) [][]hitcounter.DomainCount {
	results := make([][]hitcounter.DomainCount, len(nodes))

	g, gctx := errgroup.WithContext(ctx)
	var errsMu sync.Mutex
	var errs error

	for i, node := range nodes {
		i, node := i, node
		g.Go(func() error {
			var (
				counts []hitcounter.DomainCount
				err    error
			)
			if node == h.router.Me() {
				counts, err = localQuery(n)
			} else {
				counts, err = h.client.CountsRemote(gctx, node, n)
			}
			if err != nil {
				metrics.ClusterMergeNodeErrors.WithLabelValues(node).Inc()
				errsMu.Lock()
				errs = multierror.Append(errs, err)
				errsMu.Unlock()
				return nil
			}
			results[i] = counts
			return nil
		})
	}
	// Fan-out errors never fail the group: each goroutine above always
	// returns nil so the other nodes' queries are not cancelled early.
	_ = g.Wait()

	if errs != nil {
		h.log.Warn("cluster merge: some nodes did not answer", zap.Error(errs))
	}
	return results
}

// mergeTopCounts reduces per-node top-n results into a single cluster-wide
// ranking: counts for a domain reported by more than one node are summed
// (only possible transiently around a topology change under a stable
// hash ring each domain has exactly one primary), then the top n are
// selected by descending count via a bounded min-heap, per the redesign
// flag correcting the original's ascending sort.
func mergeTopCounts(results [][]hitcounter.DomainCount, n int) []hitcounter.DomainCount {
	totals := make(map[string]int)
	for _, perNode := range results {
		for _, dc := range perNode {
			totals[dc.Domain] += dc.Count
		}
	}

	h := newBoundedTopHeap(n)
	for domain, count := range totals {
		h.offer(hitcounter.DomainCount{Domain: domain, Count: count})
	}
	return h.sorted()
}
