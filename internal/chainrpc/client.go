// Package chainrpc holds the switchable JSON-RPC connection to a node.
package chainrpc

import (
	"context"
	"encoding/json"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/quantumauth-io/caviar-manager/internal/networks"
	"github.com/quantumauth-io/quantum-go-utils/log"
)

const (
	methodGetVersion = "getversion"

	defaultTimeout = 10 * time.Second
)

var (
	// ErrConnection means the node could not be reached at all.
	ErrConnection = errors.New("connection error")

	ErrUnsupportedNetwork = errors.New("unsupported network")
)

// Client keeps one active RPC address and the connection dialed for it.
type Client struct {
	mu       sync.RWMutex
	networks *networks.Registry
	address  string
	rpc      *rpc.Client
	timeout  time.Duration
}

// New dials the named initial network.
func New(reg *networks.Registry, initial string, timeout time.Duration) (*Client, error) {
	if reg == nil {
		return nil, errors.New("chainrpc: nil network registry")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{networks: reg, timeout: timeout}
	if _, err := c.Connect(initial); err != nil {
		return nil, err
	}
	return c, nil
}

// Connect switches to a configured network by name. The three built-in
// networks go through their dedicated helpers.
func (c *Client) Connect(name string) (networks.Network, error) {
	switch name = strings.TrimSpace(name); {
	case strings.EqualFold(name, networks.MainNet):
		return c.ConnectToMainNet()
	case strings.EqualFold(name, networks.TestNet):
		return c.ConnectToTestNet()
	case strings.EqualFold(name, networks.Localhost):
		return c.ConnectToLocalhost()
	}
	return c.connect(name)
}

func (c *Client) ConnectToMainNet() (networks.Network, error) {
	return c.connect(networks.MainNet)
}

func (c *Client) ConnectToTestNet() (networks.Network, error) {
	return c.connect(networks.TestNet)
}

func (c *Client) ConnectToLocalhost() (networks.Network, error) {
	return c.connect(networks.Localhost)
}

func (c *Client) connect(name string) (networks.Network, error) {
	n, ok := c.networks.Lookup(name)
	if !ok {
		return networks.Network{}, errors.Wrapf(ErrUnsupportedNetwork, "%q", name)
	}
	if err := c.SetAddress(n.RPCAddress); err != nil {
		return networks.Network{}, err
	}
	return n, nil
}

// SetAddress replaces the active connection. HTTP dials are lazy, so this
// never talks to the node.
func (c *Client) SetAddress(addr string) error {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return errors.New("chainrpc: empty rpc address")
	}

	next, err := rpc.DialOptions(context.Background(), addr)
	if err != nil {
		return errors.Wrapf(err, "dial %s", addr)
	}

	c.mu.Lock()
	prev := c.rpc
	c.rpc = next
	c.address = addr
	c.mu.Unlock()

	if prev != nil {
		prev.Close()
	}
	log.Info("rpc address set", "address", addr)
	return nil
}

func (c *Client) Address() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.address
}

// Network reports which configured network the active address belongs to.
func (c *Client) Network() (networks.Network, bool) {
	return c.networks.FindByAddress(c.Address())
}

func (c *Client) Networks() []networks.Network {
	return c.networks.List()
}

// GetVersion asks the active node for its version string.
func (c *Client) GetVersion(ctx context.Context) (string, error) {
	c.mu.RLock()
	cl, addr := c.rpc, c.address
	c.mu.RUnlock()

	if cl == nil {
		return "", errors.New("chainrpc: not connected")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var raw json.RawMessage
	if err := cl.CallContext(ctx, &raw, methodGetVersion); err != nil {
		return "", classify(err, addr)
	}

	var version string
	if err := json.Unmarshal(raw, &version); err != nil {
		return string(raw), nil
	}
	return version, nil
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rpc != nil {
		c.rpc.Close()
		c.rpc = nil
	}
}

func classify(err error, addr string) error {
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return errors.Wrapf(ErrConnection, "%s: %v", addr, err)
	}
	return errors.Wrapf(err, "rpc %s", addr)
}
