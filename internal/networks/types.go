package networks

const (
	MainNet   = "MainNet"
	TestNet   = "TestNet"
	Localhost = "Localhost"
)

// Network is a node endpoint the client can switch to.
type Network struct {
	Name       string `json:"name" mapstructure:"name"`
	RPCAddress string `json:"rpc_address" mapstructure:"rpc_address"`

	// HostMarker must appear in the active RPC address after switching.
	HostMarker string `json:"host_marker,omitempty" mapstructure:"host_marker"`
}

// Defaults are the public Ontology endpoints.
func Defaults() []Network {
	return []Network{
		{Name: MainNet, RPCAddress: "http://dappnode1.ont.io:20336", HostMarker: "dappnode"},
		{Name: TestNet, RPCAddress: "http://polaris1.ont.io:20336", HostMarker: "polaris"},
		{Name: Localhost, RPCAddress: "http://localhost:20336", HostMarker: "localhost"},
	}
}
