package networks

import (
	"fmt"
	"strings"
)

// Registry is the fixed set of configured networks, in configuration order.
type Registry struct {
	order  []string
	byName map[string]Network
}

func NewRegistry(nets []Network) (*Registry, error) {
	r := &Registry{byName: make(map[string]Network, len(nets))}

	for _, n := range nets {
		n.Name = strings.TrimSpace(n.Name)
		n.RPCAddress = strings.TrimSpace(n.RPCAddress)
		n.HostMarker = strings.TrimSpace(n.HostMarker)

		if n.Name == "" {
			return nil, fmt.Errorf("network.name is required")
		}
		if n.RPCAddress == "" {
			return nil, fmt.Errorf("network %s: rpc_address is required", n.Name)
		}

		key := normalizeNetworkKey(n.Name)
		if _, exists := r.byName[key]; exists {
			return nil, fmt.Errorf("network name already exists: %s", n.Name)
		}
		r.byName[key] = n
		r.order = append(r.order, key)
	}

	if len(r.order) == 0 {
		return nil, fmt.Errorf("no networks configured")
	}
	return r, nil
}

// Lookup finds a network by name, ignoring case and surrounding space.
func (r *Registry) Lookup(name string) (Network, bool) {
	n, ok := r.byName[normalizeNetworkKey(name)]
	return n, ok
}

func (r *Registry) List() []Network {
	out := make([]Network, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.byName[k])
	}
	return out
}

// FindByAddress returns the network whose RPC address equals addr.
func (r *Registry) FindByAddress(addr string) (Network, bool) {
	addr = strings.TrimRight(strings.TrimSpace(addr), "/")
	for _, k := range r.order {
		n := r.byName[k]
		if strings.TrimRight(n.RPCAddress, "/") == addr {
			return n, true
		}
	}
	return Network{}, false
}

func normalizeNetworkKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
