package chainrpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quantumauth-io/caviar-manager/internal/networks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
}

// fakeNode answers getversion with result, or with a JSON-RPC error when
// errMsg is set.
func fakeNode(t *testing.T, result, errMsg string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		switch {
		case req.Method != methodGetVersion:
			resp["error"] = map[string]any{"code": -32601, "message": "method not found"}
		case errMsg != "":
			resp["error"] = map[string]any{"code": -1, "message": errMsg}
		default:
			resp["result"] = result
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func registryWithLocal(t *testing.T, local string) *networks.Registry {
	t.Helper()
	reg, err := networks.NewRegistry([]networks.Network{
		{Name: networks.MainNet, RPCAddress: "http://dappnode1.ont.io:20336", HostMarker: "dappnode"},
		{Name: networks.TestNet, RPCAddress: "http://polaris1.ont.io:20336", HostMarker: "polaris"},
		{Name: networks.Localhost, RPCAddress: local, HostMarker: "127.0.0.1"},
	})
	require.NoError(t, err)
	return reg
}

func TestConnectSwitchesAddress(t *testing.T) {
	c, err := New(registryWithLocal(t, "http://127.0.0.1:1"), networks.TestNet, time.Second)
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, "http://polaris1.ont.io:20336", c.Address())

	n, err := c.Connect(networks.MainNet)
	require.NoError(t, err)
	assert.Equal(t, networks.MainNet, n.Name)
	assert.Equal(t, "http://dappnode1.ont.io:20336", c.Address())

	n, ok := c.Network()
	require.True(t, ok)
	assert.Equal(t, networks.MainNet, n.Name)

	n, err = c.ConnectToLocalhost()
	require.NoError(t, err)
	assert.Equal(t, networks.Localhost, n.Name)
	assert.Equal(t, "http://127.0.0.1:1", c.Address())

	n, err = c.Connect(" testnet ")
	require.NoError(t, err)
	assert.Equal(t, networks.TestNet, n.Name)
	assert.Equal(t, "http://polaris1.ont.io:20336", c.Address())

	_, err = c.ConnectToMainNet()
	require.NoError(t, err)

	_, err = c.Connect("DevNet")
	assert.ErrorIs(t, err, ErrUnsupportedNetwork)
	assert.Equal(t, "http://dappnode1.ont.io:20336", c.Address())
}

func TestGetVersion(t *testing.T) {
	node := fakeNode(t, "v1.15.0", "")

	c, err := New(registryWithLocal(t, node.URL), networks.Localhost, time.Second)
	require.NoError(t, err)
	defer c.Close()

	v, err := c.GetVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v1.15.0", v)
}

func TestGetVersionNodeError(t *testing.T) {
	node := fakeNode(t, "", "node is syncing")

	c, err := New(registryWithLocal(t, node.URL), networks.Localhost, time.Second)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.GetVersion(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrConnection)
	assert.Contains(t, err.Error(), "node is syncing")
}

func TestGetVersionConnectionRefused(t *testing.T) {
	node := fakeNode(t, "v1", "")
	url := node.URL
	node.Close()

	c, err := New(registryWithLocal(t, url), networks.Localhost, time.Second)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.GetVersion(context.Background())
	assert.ErrorIs(t, err, ErrConnection)
}

func TestSetAddressRejectsEmpty(t *testing.T) {
	c, err := New(registryWithLocal(t, "http://127.0.0.1:1"), networks.MainNet, 0)
	require.NoError(t, err)
	defer c.Close()

	assert.Error(t, c.SetAddress("  "))
	assert.Equal(t, "http://dappnode1.ont.io:20336", c.Address())
}
