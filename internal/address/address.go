// Package address renders 20-byte key hashes as base58check strings and
// decentralized identifiers.
package address

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/quantumauth-io/caviar-manager/internal/constants"
)

// Version is the leading byte of every encoded address.
const Version byte = 0x17

const hashLen = 20

var (
	ErrInvalidAddress = errors.New("invalid base58 address")
	ErrInvalidOntID   = errors.New("invalid ont id")
)

type Address [hashLen]byte

// FromPublicKey derives the address of a secp256k1 public key.
func FromPublicKey(pub ecdsa.PublicKey) Address {
	return Address(crypto.PubkeyToAddress(pub))
}

// Base58 returns the base58check text form.
func (a Address) Base58() string {
	return base58.CheckEncode(a[:], Version)
}

func (a Address) String() string { return a.Base58() }

// OntID returns the identifier bound to this address.
func (a Address) OntID() string {
	return constants.DIDPrefix + a.Base58()
}

// Parse decodes and verifies a base58check address.
func Parse(s string) (Address, error) {
	var a Address

	payload, version, err := base58.CheckDecode(strings.TrimSpace(s))
	if err != nil {
		return a, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if version != Version {
		return a, fmt.Errorf("%w: version 0x%02x", ErrInvalidAddress, version)
	}
	if len(payload) != hashLen {
		return a, fmt.Errorf("%w: length %d", ErrInvalidAddress, len(payload))
	}

	copy(a[:], payload)
	return a, nil
}

// IsOntID reports whether s carries the identifier prefix.
func IsOntID(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), constants.DIDPrefix)
}

// ParseOntID returns the address embedded in an identifier.
func ParseOntID(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if !IsOntID(s) {
		return Address{}, ErrInvalidOntID
	}
	a, err := Parse(strings.TrimPrefix(s, constants.DIDPrefix))
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrInvalidOntID, err)
	}
	return a, nil
}
