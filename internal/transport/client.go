package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/domainrank/urlcounter/internal/wire"
	"github.com/domainrank/urlcounter/pkg/hitcounter"
)

// RemoteClient calls another node's façade over HTTP, mirroring the
// teacher corpus's client-side RPC wrappers (e.g. the scheduler clients in
// dragonflyoss-Dragonfly2) but over plain REST rather than gRPC, since the
// façade itself is REST.
type RemoteClient struct {
	http      *http.Client
	addresses map[string]string // node id -> base URL, e.g. "http://node-2:8080"
}

// NewRemoteClient builds a client over the given node-id-to-address map.
func NewRemoteClient(httpClient *http.Client, addresses map[string]string) *RemoteClient {
	return &RemoteClient{http: httpClient, addresses: addresses}
}

// AddRemote proxies an Add to the node owning domain.
func (c *RemoteClient) AddRemote(ctx context.Context, node, domain string) error {
	base, ok := c.addresses[node]
	if !ok {
		return errors.Errorf("transport: no address configured for node %q", node)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/add/"+url.PathEscape(domain), nil)
	if err != nil {
		return errors.Wrapf(err, "transport: building add-proxy request to %q", node)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "transport: proxying add to %q", node)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("transport: node %q returned status %d for add", node, resp.StatusCode)
	}
	return nil
}

// CountsRemote fetches the top-n domain counts known to node.
func (c *RemoteClient) CountsRemote(ctx context.Context, node string, n int) ([]hitcounter.DomainCount, error) {
	base, ok := c.addresses[node]
	if !ok {
		return nil, errors.Errorf("transport: no address configured for node %q", node)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/counts/%d", base, n), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "transport: building counts request to %q", node)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "transport: querying counts from %q", node)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("transport: node %q returned status %d for counts", node, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "transport: reading counts response from %q", node)
	}

	var decoded []wire.CountsResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, errors.Wrapf(err, "transport: decoding counts response from %q", node)
	}

	out := make([]hitcounter.DomainCount, len(decoded))
	for i, d := range decoded {
		out[i] = hitcounter.DomainCount{Domain: d.Domain, Count: d.Count}
	}
	return out, nil
}
