package wallet

import (
	"crypto/ecdsa"
	"encoding/json"
	"os"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/quantumauth-io/caviar-manager/internal/address"
	"github.com/quantumauth-io/caviar-manager/internal/constants"
	"github.com/quantumauth-io/caviar-manager/internal/securefile"
	"github.com/quantumauth-io/quantum-go-utils/log"
)

const firstControlID = "keys-1"

// Options controls how keys are sealed.
type Options struct {
	KDF securefile.KDFParams
}

// Manager owns one wallet file. Mutations stay in memory until Save.
type Manager struct {
	mu     sync.RWMutex
	path   string
	opt    Options
	wallet Wallet
}

// Open loads the wallet at path, or starts an empty one if the file is missing.
func Open(path string, opt Options) (*Manager, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("wallet path must not be empty")
	}
	if opt.KDF.ArgonKeyLen == 0 {
		opt.KDF = securefile.DefaultKDF
	}

	w, err := load(path)
	if err != nil {
		return nil, err
	}
	return &Manager{path: path, opt: opt, wallet: w}, nil
}

func load(path string) (Wallet, error) {
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Info("no wallet file found, starting a new one", "path", path)
		return newWallet(), nil
	case err != nil:
		return Wallet{}, errors.Wrapf(err, "read wallet %s", path)
	}

	var w Wallet
	if err := json.Unmarshal(b, &w); err != nil {
		return Wallet{}, errors.Wrapf(err, "parse wallet %s", path)
	}
	if w.Accounts == nil {
		w.Accounts = []AccountData{}
	}
	if w.Identities == nil {
		w.Identities = []Identity{}
	}
	return w, nil
}

func (m *Manager) Path() string { return m.path }

// Save writes the wallet file atomically.
func (m *Manager) Save() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := securefile.WriteJSON(m.path, m.wallet, constants.FilePerm, constants.DirectoryPerm); err != nil {
		return errors.Wrapf(err, "save wallet %s", m.path)
	}
	return nil
}

// Revert drops unsaved changes by reloading the last saved file.
func (m *Manager) Revert() error {
	w, err := load(m.path)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.wallet = w
	m.mu.Unlock()
	return nil
}

// CreateAccount generates a new key pair and stores it sealed under password.
func (m *Manager) CreateAccount(label, password string) (AccountData, error) {
	key, err := generateKey()
	if err != nil {
		return AccountData{}, err
	}
	return m.addAccount(label, password, key)
}

func (m *Manager) CreateAccountFromPrivateKey(label, password, hexKey string) (AccountData, error) {
	key, err := keyFromHex(hexKey)
	if err != nil {
		return AccountData{}, err
	}
	return m.addAccount(label, password, key)
}

func (m *Manager) CreateAccountFromMnemonic(label, password, words string) (AccountData, error) {
	key, err := keyFromMnemonic(words)
	if err != nil {
		return AccountData{}, err
	}
	return m.addAccount(label, password, key)
}

func (m *Manager) addAccount(label, password string, key *ecdsa.PrivateKey) (AccountData, error) {
	if password == "" {
		return AccountData{}, ErrEmptyPassword
	}

	addr := address.FromPublicKey(key.PublicKey).Base58()
	if m.hasAccount(addr) {
		return AccountData{}, errors.Wrapf(ErrAccountExists, "account %s", addr)
	}

	env, err := securefile.Seal(crypto.FromECDSA(key), []byte(password), accountAAD(addr), m.opt.KDF)
	if err != nil {
		return AccountData{}, errors.Wrap(err, "seal account key")
	}

	data := AccountData{
		Address:   addr,
		Label:     defaultLabel(label),
		PublicKey: common.Bytes2Hex(crypto.CompressPubkey(&key.PublicKey)),
		Algorithm: constants.KeyAlgorithm,
		Key:       env,
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// re-check: sealing ran without the lock
	if m.findAccount(addr) >= 0 {
		return AccountData{}, errors.Wrapf(ErrAccountExists, "account %s", addr)
	}
	if len(m.wallet.Accounts) == 0 {
		data.IsDefault = true
		m.wallet.DefaultAccountAddress = addr
	}
	m.wallet.Accounts = append(m.wallet.Accounts, data)
	return data, nil
}

// GetAccount unlocks an account by address, or the first control key of an
// identity when id is an ont id.
func (m *Manager) GetAccount(id, password string) (*Account, error) {
	if address.IsOntID(id) {
		return m.GetControlAccountByIndex(id, 0, password)
	}
	return m.GetAccountByAddress(id, password)
}

// GetAccountByAddress decrypts the account stored under b58Address.
func (m *Manager) GetAccountByAddress(b58Address, password string) (*Account, error) {
	b58Address = strings.TrimSpace(b58Address)

	m.mu.RLock()
	i := m.findAccount(b58Address)
	var data AccountData
	if i >= 0 {
		data = m.wallet.Accounts[i]
	}
	m.mu.RUnlock()

	if i < 0 {
		return nil, errors.Wrapf(ErrNotFound, "account %s", b58Address)
	}

	key, err := openKey(data.Key, password, accountAAD(data.Address))
	if err != nil {
		return nil, errors.Wrapf(err, "account %s", b58Address)
	}
	return newAccount(data.Label, key), nil
}

// GetControlAccountByIndex decrypts control key index of identity ontID.
func (m *Manager) GetControlAccountByIndex(ontID string, index int, password string) (*Account, error) {
	ontID = strings.TrimSpace(ontID)

	m.mu.RLock()
	i := m.findIdentity(ontID)
	var id Identity
	if i >= 0 {
		id = m.wallet.Identities[i].clone()
	}
	m.mu.RUnlock()

	if i < 0 {
		return nil, errors.Wrapf(ErrNotFound, "identity %s", ontID)
	}
	if index < 0 || index >= len(id.Controls) {
		return nil, errors.Wrapf(ErrNoControl, "identity %s index %d", ontID, index)
	}

	ctrl := id.Controls[index]
	key, err := openKey(ctrl.Key, password, controlAAD(ctrl.Address))
	if err != nil {
		return nil, errors.Wrapf(err, "identity %s", ontID)
	}
	return newAccount(id.Label, key), nil
}

// CreateIdentity generates a control key and derives the identity from it.
func (m *Manager) CreateIdentity(label, password string) (Identity, error) {
	key, err := generateKey()
	if err != nil {
		return Identity{}, err
	}
	return m.addIdentity(label, password, key)
}

func (m *Manager) CreateIdentityFromPrivateKey(label, password, hexKey string) (Identity, error) {
	key, err := keyFromHex(hexKey)
	if err != nil {
		return Identity{}, err
	}
	return m.addIdentity(label, password, key)
}

func (m *Manager) addIdentity(label, password string, key *ecdsa.PrivateKey) (Identity, error) {
	if password == "" {
		return Identity{}, ErrEmptyPassword
	}

	addr := address.FromPublicKey(key.PublicKey)
	ontID := addr.OntID()

	m.mu.RLock()
	exists := m.findIdentity(ontID) >= 0
	m.mu.RUnlock()
	if exists {
		return Identity{}, errors.Wrapf(ErrIdentityExists, "identity %s", ontID)
	}

	env, err := securefile.Seal(crypto.FromECDSA(key), []byte(password), controlAAD(addr.Base58()), m.opt.KDF)
	if err != nil {
		return Identity{}, errors.Wrap(err, "seal control key")
	}

	id := Identity{
		OntID: ontID,
		Label: defaultLabel(label),
		Controls: []Control{{
			ID:        firstControlID,
			Address:   addr.Base58(),
			PublicKey: common.Bytes2Hex(crypto.CompressPubkey(&key.PublicKey)),
			Algorithm: constants.KeyAlgorithm,
			Key:       env,
		}},
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.findIdentity(ontID) >= 0 {
		return Identity{}, errors.Wrapf(ErrIdentityExists, "identity %s", ontID)
	}
	if len(m.wallet.Identities) == 0 {
		id.IsDefault = true
		m.wallet.DefaultOntID = ontID
	}
	m.wallet.Identities = append(m.wallet.Identities, id)
	return id.clone(), nil
}

// RemoveAccount drops the account; a removed default leaves no default.
func (m *Manager) RemoveAccount(b58Address string) error {
	b58Address = strings.TrimSpace(b58Address)

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.findAccount(b58Address)
	if i < 0 {
		return errors.Wrapf(ErrNotFound, "account %s", b58Address)
	}
	m.wallet.Accounts = append(m.wallet.Accounts[:i], m.wallet.Accounts[i+1:]...)
	if m.wallet.DefaultAccountAddress == b58Address {
		m.wallet.DefaultAccountAddress = ""
	}
	return nil
}

func (m *Manager) RemoveIdentity(ontID string) error {
	ontID = strings.TrimSpace(ontID)

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.findIdentity(ontID)
	if i < 0 {
		return errors.Wrapf(ErrNotFound, "identity %s", ontID)
	}
	m.wallet.Identities = append(m.wallet.Identities[:i], m.wallet.Identities[i+1:]...)
	if m.wallet.DefaultOntID == ontID {
		m.wallet.DefaultOntID = ""
	}
	return nil
}

func (m *Manager) SetDefaultAccountByAddress(b58Address string) error {
	b58Address = strings.TrimSpace(b58Address)
	if _, err := address.Parse(b58Address); err != nil {
		return errors.Wrap(err, "set default account")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.findAccount(b58Address)
	if i < 0 {
		return errors.Wrapf(ErrNotFound, "account %s", b58Address)
	}
	for j := range m.wallet.Accounts {
		m.wallet.Accounts[j].IsDefault = j == i
	}
	m.wallet.DefaultAccountAddress = b58Address
	return nil
}

func (m *Manager) SetDefaultIdentityByOntID(ontID string) error {
	ontID = strings.TrimSpace(ontID)
	if _, err := address.ParseOntID(ontID); err != nil {
		return errors.Wrap(err, "set default identity")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.findIdentity(ontID)
	if i < 0 {
		return errors.Wrapf(ErrNotFound, "identity %s", ontID)
	}
	for j := range m.wallet.Identities {
		m.wallet.Identities[j].IsDefault = j == i
	}
	m.wallet.DefaultOntID = ontID
	return nil
}

// Accounts returns a copy of the stored accounts in insertion order.
func (m *Manager) Accounts() []AccountData {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]AccountData(nil), m.wallet.Accounts...)
}

// Identities returns a copy of the stored identities in insertion order.
func (m *Manager) Identities() []Identity {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Identity, 0, len(m.wallet.Identities))
	for _, id := range m.wallet.Identities {
		out = append(out, id.clone())
	}
	return out
}

// DefaultAccount returns the default account, if one is set.
func (m *Manager) DefaultAccount() (AccountData, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.findAccount(m.wallet.DefaultAccountAddress)
	if i < 0 {
		return AccountData{}, false
	}
	return m.wallet.Accounts[i], true
}

func (m *Manager) hasAccount(addr string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findAccount(addr) >= 0
}

// caller holds m.mu
func (m *Manager) findAccount(addr string) int {
	if addr == "" {
		return -1
	}
	for i, a := range m.wallet.Accounts {
		if a.Address == addr {
			return i
		}
	}
	return -1
}

// caller holds m.mu
func (m *Manager) findIdentity(ontID string) int {
	if ontID == "" {
		return -1
	}
	for i, id := range m.wallet.Identities {
		if id.OntID == ontID {
			return i
		}
	}
	return -1
}

func openKey(env securefile.Envelope, password string, aad []byte) (*ecdsa.PrivateKey, error) {
	plain, err := securefile.Open(env, []byte(password), aad)
	switch {
	case errors.Is(err, securefile.ErrEmptyPassword):
		return nil, ErrEmptyPassword
	case errors.Is(err, securefile.ErrInvalidPasswordOrCorrupt):
		return nil, ErrInvalidPassword
	case err != nil:
		return nil, errors.Wrap(err, "open key")
	}

	key, err := crypto.ToECDSA(plain)
	if err != nil {
		return nil, errors.Wrap(err, "decode key")
	}
	return key, nil
}

func accountAAD(addr string) []byte { return []byte(constants.AccountKeyAAD + addr) }

func controlAAD(addr string) []byte { return []byte(constants.ControlKeyAAD + addr) }

func defaultLabel(label string) string {
	label = strings.TrimSpace(label)
	if label != "" {
		return label
	}
	return uuid.NewString()[:8]
}
