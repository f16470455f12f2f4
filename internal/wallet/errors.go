package wallet

import "github.com/cockroachdb/errors"

var (
	ErrAccountExists     = errors.New("account exists")
	ErrIdentityExists    = errors.New("identity exists")
	ErrNotFound          = errors.New("not found")
	ErrInvalidPassword   = errors.New("invalid password")
	ErrEmptyPassword     = errors.New("password is required")
	ErrInvalidPrivateKey = errors.New("invalid private key")
	ErrInvalidMnemonic   = errors.New("invalid mnemonic")
	ErrNoControl         = errors.New("control index out of range")
)
