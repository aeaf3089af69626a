package transport

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	urldomain "github.com/domainrank/urlcounter/internal/domain"
	"github.com/domainrank/urlcounter/internal/metrics"
	"github.com/domainrank/urlcounter/internal/wire"
	"github.com/domainrank/urlcounter/pkg/hitcounter"
)

// handleAdd implements GET /add/*url: parse the domain, resolve its owner
// via the topology router, and either submit locally or proxy to the
// owning node. The url param carries gin's wildcard leading slash, which
// is stripped before parsing.
func (h *Handler) handleAdd(c *gin.Context) {
	raw := strings.TrimPrefix(c.Param("url"), "/")
	d, err := urldomain.Parse(raw)
	if err != nil {
		c.Error(errors.Wrapf(err, "add: parsing %q", raw))
		c.Status(http.StatusBadRequest)
		return
	}

	owner := h.router.PrimaryFor(d)
	ctx, cancel := h.timeoutContext(c)
	defer cancel()

	if owner == h.router.Me() {
		handle, err := h.adapter.AddAsync(ctx, d)
		if err != nil {
			c.Error(errors.Wrap(err, "add: submitting to local adapter"))
			c.Status(http.StatusServiceUnavailable)
			return
		}
		if _, err := handle.Wait(ctx); err != nil {
			c.Error(errors.Wrap(err, "add: waiting on local adapter"))
			c.Status(http.StatusInternalServerError)
			return
		}
		if h.sketch != nil {
			h.sketch.Observe(d, 1)
		}
		metrics.AddTotal.WithLabelValues("local").Inc()
		c.Status(http.StatusOK)
		return
	}

	if err := h.client.AddRemote(ctx, owner, d); err != nil {
		c.Error(errors.Wrapf(err, "add: proxying %q to node %q", d, owner))
		c.Status(http.StatusBadGateway)
		return
	}
	metrics.AddTotal.WithLabelValues("remote").Inc()
	c.Status(http.StatusOK)
}

// handleCounts implements GET /counts/:n: the local node's own view only,
// no cluster fan-out.
func (h *Handler) handleCounts(c *gin.Context) {
	n, err := parseN(c)
	if err != nil {
		c.Error(err)
		c.Status(http.StatusBadRequest)
		return
	}

	start := time.Now()
	ctx, cancel := h.timeoutContext(c)
	defer cancel()

	handle, err := h.adapter.TopCountAsync(ctx, n)
	if err != nil {
		c.Error(errors.Wrap(err, "counts: submitting to local adapter"))
		c.Status(http.StatusServiceUnavailable)
		return
	}
	counts, err := handle.Wait(ctx)
	metrics.CountsQueryDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.Error(errors.Wrap(err, "counts: local query"))
		c.Status(http.StatusBadRequest)
		return
	}
	metrics.TrackedDomains.Set(float64(h.adapter.Len()))

	c.Render(http.StatusOK, wire.JSON{Data: toWireResponse(counts)})
}

// handleTop implements GET /top/:n: fans the same query out to every node
// and returns the merged, descending ranking.
func (h *Handler) handleTop(c *gin.Context) {
	n, err := parseN(c)
	if err != nil {
		c.Error(err)
		c.Status(http.StatusBadRequest)
		return
	}

	start := time.Now()
	ctx, cancel := h.timeoutContext(c)
	defer cancel()

	localQuery := func(n int) ([]hitcounter.DomainCount, error) {
		handle, err := h.adapter.TopCountAsync(ctx, n)
		if err != nil {
			return nil, err
		}
		return handle.Wait(ctx)
	}

	results := h.fanOutTopCounts(ctx, h.router.All(), n, localQuery)
	merged := mergeTopCounts(results, n)
	metrics.TopQueryDuration.Observe(time.Since(start).Seconds())

	c.Render(http.StatusOK, wire.JSON{Data: toWireResponse(merged)})
}

// handleHeavyHitters implements GET /debug/heavyhitters: the local node's
// approximate sketch, never the exact core. An operator comparing this
// against /counts should expect drift, not agreement — that drift is the
// point, it shows the sketch's error bound in practice.
func (h *Handler) handleHeavyHitters(c *gin.Context) {
	if h.sketch == nil {
		c.Render(http.StatusOK, wire.JSON{Data: heavyHittersResponse{HeavyHitters: nil, Total: 0}})
		return
	}

	list := h.sketch.List()
	out := make([]heavyHitterEntry, len(list))
	for i, hit := range list {
		out[i] = heavyHitterEntry{Domain: hit.Domain, Count: hit.Count}
	}
	c.Render(http.StatusOK, wire.JSON{Data: heavyHittersResponse{HeavyHitters: out, Total: h.sketch.Total()}})
}

type heavyHitterEntry struct {
	Domain string `json:"domain"`
	Count  uint32 `json:"count"`
}

type heavyHittersResponse struct {
	HeavyHitters []heavyHitterEntry `json:"heavy_hitters"`
	Total        uint64             `json:"total"`
}

func parseN(c *gin.Context) (int, error) {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil {
		return 0, errors.Wrapf(err, "parsing n %q", c.Param("n"))
	}
	return n, nil
}

// timeoutContext bounds a request's downstream work (local adapter call or
// remote RPC) to h.rpcTimeout, falling back to the request's own context
// when no timeout is configured.
func (h *Handler) timeoutContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.rpcTimeout <= 0 {
		return c.Request.Context(), func() {}
	}
	return context.WithTimeout(c.Request.Context(), h.rpcTimeout)
}

func toWireResponse(counts []hitcounter.DomainCount) []wire.CountsResponse {
	out := make([]wire.CountsResponse, len(counts))
	for i, dc := range counts {
		out[i] = wire.CountsResponse{Domain: dc.Domain, Count: dc.Count}
	}
	return out
}
