// Package topology is the sharding collaborator named in SPEC_FULL.md §4.6:
// it hashes a domain to the node responsible for it. The hit-counter core
// is unaware this package exists; only internal/transport wires the two
// together.
package topology

import (
	"fmt"

	"github.com/serialx/hashring"
)

// Router answers "which node owns this domain" and enumerates the cluster.
type Router interface {
	// Me returns this process's own node identity.
	Me() string
	// All returns every known node identity, including Me().
	All() []string
	// PrimaryFor returns the node identity responsible for domain.
	PrimaryFor(domain string) string
}

// hashRingRouter implements Router with a consistent-hash ring over a
// static node list. Ring membership does not change at runtime: adding or
// removing a node requires a new Router (and, operationally, a rebalance
// of existing counts, which is out of scope per SPEC_FULL.md's Non-goals).
type hashRingRouter struct {
	me    string
	nodes []string
	ring  *hashring.HashRing
}

// New returns a Router for the given node identities, rooted at self. self
// must appear in nodes.
func New(self string, nodes []string) (Router, error) {
	found := false
	for _, n := range nodes {
		if n == self {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("topology: self %q is not a member of the configured node list %v", self, nodes)
	}

	return &hashRingRouter{
		me:    self,
		nodes: append([]string(nil), nodes...),
		ring:  hashring.New(nodes),
	}, nil
}

func (r *hashRingRouter) Me() string { return r.me }

func (r *hashRingRouter) All() []string {
	return append([]string(nil), r.nodes...)
}

func (r *hashRingRouter) PrimaryFor(domain string) string {
	node, ok := r.ring.GetNode(domain)
	if !ok {
		// Only reachable with an empty ring, which New rejects (self must
		// be a member), so this is a defensive fallback, not a real path.
		return r.me
	}
	return node
}
