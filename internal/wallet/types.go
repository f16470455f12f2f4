package wallet

import (
	"time"

	"github.com/quantumauth-io/caviar-manager/internal/constants"
	"github.com/quantumauth-io/caviar-manager/internal/securefile"
)

// Wallet is the on-disk representation of wallet.json.
type Wallet struct {
	Name                  string        `json:"name"`
	Version               string        `json:"version"`
	CreateTime            string        `json:"createTime"`
	DefaultOntID          string        `json:"defaultOntid"`
	DefaultAccountAddress string        `json:"defaultAccountAddress"`
	Identities            []Identity    `json:"identities"`
	Accounts              []AccountData `json:"accounts"`
}

// AccountData is a stored account; the private key only exists sealed.
type AccountData struct {
	Address   string              `json:"address"`
	Label     string              `json:"label"`
	PublicKey string              `json:"publicKey"`
	Algorithm string              `json:"algorithm"`
	IsDefault bool                `json:"isDefault"`
	Key       securefile.Envelope `json:"key"`
}

// Identity is a decentralized identifier together with its control keys.
type Identity struct {
	OntID     string    `json:"ontid"`
	Label     string    `json:"label"`
	IsDefault bool      `json:"isDefault"`
	Controls  []Control `json:"controls"`
}

// Control is one key pair able to act for an identity.
type Control struct {
	ID        string              `json:"id"`
	Address   string              `json:"address"`
	PublicKey string              `json:"publicKey"`
	Algorithm string              `json:"algorithm"`
	Key       securefile.Envelope `json:"key"`
}

func newWallet() Wallet {
	return Wallet{
		Name:       constants.WalletName,
		Version:    constants.WalletVersion,
		CreateTime: time.Now().UTC().Format(time.RFC3339),
		Identities: []Identity{},
		Accounts:   []AccountData{},
	}
}

func (id Identity) clone() Identity {
	out := id
	out.Controls = append([]Control(nil), id.Controls...)
	return out
}
