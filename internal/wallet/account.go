package wallet

import (
	"crypto/ecdsa"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/quantumauth-io/caviar-manager/internal/address"
	"github.com/tyler-smith/go-bip39"
)

// Account is an unlocked key pair.
type Account struct {
	label   string
	address address.Address
	key     *ecdsa.PrivateKey
}

func newAccount(label string, key *ecdsa.PrivateKey) *Account {
	return &Account{
		label:   label,
		address: address.FromPublicKey(key.PublicKey),
		key:     key,
	}
}

func (a *Account) Label() string { return a.label }
func (a *Account) Address() address.Address { return a.address }
func (a *Account) B58Address() string { return a.address.Base58() }

// PrivateKeyHex returns the raw 32-byte scalar as lowercase hex without prefix.
func (a *Account) PrivateKeyHex() string {
	return common.Bytes2Hex(crypto.FromECDSA(a.key))
}

// PublicKeyHex returns the compressed public key as hex.
func (a *Account) PublicKeyHex() string {
	return common.Bytes2Hex(crypto.CompressPubkey(&a.key.PublicKey))
}

// Mnemonic encodes the private key as a 24 word BIP-39 phrase.
func (a *Account) Mnemonic() (string, error) {
	m, err := bip39.NewMnemonic(crypto.FromECDSA(a.key))
	if err != nil {
		return "", errors.Wrap(err, "encode mnemonic")
	}
	return m, nil
}

func generateKey() (*ecdsa.PrivateKey, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, errors.Wrap(err, "generate key")
	}
	return key, nil
}

func keyFromHex(hexKey string) (*ecdsa.PrivateKey, error) {
	hexKey = strings.TrimSpace(hexKey)
	if len(hexKey) >= 2 && (hexKey[:2] == "0x" || hexKey[:2] == "0X") {
		hexKey = hexKey[2:]
	}
	if hexKey == "" {
		return nil, ErrInvalidPrivateKey
	}
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidPrivateKey, "parse private key: %v", err)
	}
	return key, nil
}

func keyFromMnemonic(words string) (*ecdsa.PrivateKey, error) {
	words = strings.Join(strings.Fields(words), " ")
	entropy, err := bip39.EntropyFromMnemonic(words)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidMnemonic, "decode mnemonic: %v", err)
	}
	if len(entropy) != 32 {
		return nil, errors.Wrapf(ErrInvalidMnemonic, "mnemonic carries %d bytes, want 32", len(entropy))
	}
	key, err := crypto.ToECDSA(entropy)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidPrivateKey, "mnemonic key: %v", err)
	}
	return key, nil
}
