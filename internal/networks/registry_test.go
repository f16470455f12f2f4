package networks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookup(t *testing.T) {
	r, err := NewRegistry(Defaults())
	require.NoError(t, err)

	n, ok := r.Lookup(" mainnet ")
	require.True(t, ok)
	assert.Equal(t, MainNet, n.Name)
	assert.Equal(t, "dappnode", n.HostMarker)

	_, ok = r.Lookup("DevNet")
	assert.False(t, ok)

	names := make([]string, 0, 3)
	for _, n := range r.List() {
		names = append(names, n.Name)
	}
	assert.Equal(t, []string{MainNet, TestNet, Localhost}, names)

	found, ok := r.FindByAddress("http://localhost:20336/")
	require.True(t, ok)
	assert.Equal(t, Localhost, found.Name)
}

func TestRegistryValidation(t *testing.T) {
	_, err := NewRegistry(nil)
	assert.Error(t, err)

	_, err = NewRegistry([]Network{{Name: "x"}})
	assert.Error(t, err)

	_, err = NewRegistry([]Network{{Name: "", RPCAddress: "http://a"}})
	assert.Error(t, err)

	_, err = NewRegistry([]Network{
		{Name: "MainNet", RPCAddress: "http://a"},
		{Name: "mainnet", RPCAddress: "http://b"},
	})
	assert.Error(t, err)
}
