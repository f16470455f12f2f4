package http

import "strings"

type setContractAddressRequest struct {
	ContractAddress string `json:"contract_address"`

	// older clients send the same value under this name
	ContractAddressHex string `json:"contract_address_hex"`
}

func (r setContractAddressRequest) address() string {
	if v := strings.TrimSpace(r.ContractAddress); v != "" {
		return v
	}
	return strings.TrimSpace(r.ContractAddressHex)
}

type createRequest struct {
	Label    string `json:"label"`
	Password string `json:"password"`
}

type importAccountRequest struct {
	Label         string `json:"label"`
	Password      string `json:"password"`
	HexPrivateKey string `json:"hex_private_key"`
	Mnemonic      string `json:"mnemonic"`
}

type importIdentityRequest struct {
	Label         string `json:"label"`
	Password      string `json:"password"`
	HexPrivateKey string `json:"hex_private_key"`
}

type removeAccountRequest struct {
	B58Address string `json:"b58_address_remove"`
	Password   string `json:"password"`
}

type accountChangeRequest struct {
	B58Address string `json:"b58_address_selected"`
	Password   string `json:"password"`
}

type removeIdentityRequest struct {
	OntID    string `json:"ont_id_remove"`
	Password string `json:"password"`
}

type identityChangeRequest struct {
	OntID    string `json:"ont_id_selected"`
	Password string `json:"password"`
}

type changeNetRequest struct {
	Network string `json:"network_selected"`
}

type unlockAccountRequest struct {
	B58Address string `json:"b58_address_selected"`
	Password   string `json:"acct_password"`
}

type unlockIdentityRequest struct {
	OntID    string `json:"ont_id"`
	Password string `json:"pwd"`
}

type accountItem struct {
	B58Address string `json:"b58_address"`
	Label      string `json:"label"`
}

type identityItem struct {
	OntID string `json:"ont_id"`
	Label string `json:"label"`
}

type createAccountResponse struct {
	HexPrivateKey string `json:"hex_private_key"`
	B58Address    string `json:"b58_address"`
	Mnemonic      string `json:"mnemonic"`
}

type identityResponse struct {
	HexPrivateKey string `json:"hex_private_key"`
	OntID         string `json:"ont_id"`
}

type networkItem struct {
	Name       string `json:"name"`
	RPCAddress string `json:"rpc_address"`
}

type networksResponse struct {
	Result     []networkItem `json:"result"`
	Current    string        `json:"current"`
	RPCAddress string        `json:"rpc_address"`
}
