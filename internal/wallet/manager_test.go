package wallet

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quantumauth-io/caviar-manager/internal/address"
	"github.com/quantumauth-io/caviar-manager/internal/securefile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const knownKeyHex = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

func testOptions() Options {
	return Options{KDF: securefile.KDFParams{ArgonTime: 1, ArgonMemory: 1024, ArgonThreads: 1, ArgonKeyLen: 32}}
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := Open(filepath.Join(t.TempDir(), "wallet", "wallet.json"), testOptions())
	require.NoError(t, err)
	return m
}

func TestCreateAccountAndUnlock(t *testing.T) {
	m := newTestManager(t)

	data, err := m.CreateAccount("main", "password")
	require.NoError(t, err)
	assert.True(t, data.IsDefault)
	assert.Equal(t, "main", data.Label)

	_, err = address.Parse(data.Address)
	require.NoError(t, err)

	acct, err := m.GetAccountByAddress(data.Address, "password")
	require.NoError(t, err)
	assert.Equal(t, data.Address, acct.B58Address())
	assert.Equal(t, "main", acct.Label())
	assert.Len(t, acct.PrivateKeyHex(), 64)
	assert.Equal(t, data.PublicKey, acct.PublicKeyHex())

	_, err = m.GetAccountByAddress(data.Address, "wrong")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	_, err = m.GetAccountByAddress("AMissing", "password")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateAccountRequiresPassword(t *testing.T) {
	m := newTestManager(t)

	_, err := m.CreateAccount("x", "")
	assert.ErrorIs(t, err, ErrEmptyPassword)
	assert.Empty(t, m.Accounts())
}

func TestImportAccountRejectsDuplicatesAndBadKeys(t *testing.T) {
	m := newTestManager(t)

	data, err := m.CreateAccountFromPrivateKey("imported", "pw", "0x"+knownKeyHex)
	require.NoError(t, err)

	_, err = m.CreateAccountFromPrivateKey("again", "pw", knownKeyHex)
	assert.ErrorIs(t, err, ErrAccountExists)

	_, err = m.CreateAccountFromPrivateKey("bad", "pw", "zz")
	assert.ErrorIs(t, err, ErrInvalidPrivateKey)

	_, err = m.CreateAccountFromPrivateKey("blank", "pw", "")
	assert.ErrorIs(t, err, ErrInvalidPrivateKey)

	acct, err := m.GetAccount(data.Address, "pw")
	require.NoError(t, err)
	assert.Equal(t, knownKeyHex, acct.PrivateKeyHex())
}

func TestMnemonicImportMatchesExport(t *testing.T) {
	m := newTestManager(t)

	data, err := m.CreateAccount("a", "pw")
	require.NoError(t, err)
	acct, err := m.GetAccountByAddress(data.Address, "pw")
	require.NoError(t, err)

	words, err := acct.Mnemonic()
	require.NoError(t, err)
	assert.Len(t, strings.Fields(words), 24)

	other := newTestManager(t)
	imported, err := other.CreateAccountFromMnemonic("b", "pw2", "  "+words+"\n")
	require.NoError(t, err)
	assert.Equal(t, data.Address, imported.Address)

	_, err = other.CreateAccountFromMnemonic("c", "pw", "not a real phrase")
	assert.ErrorIs(t, err, ErrInvalidMnemonic)
}

func TestIdentityLifecycle(t *testing.T) {
	m := newTestManager(t)

	id, err := m.CreateIdentity("me", "pw")
	require.NoError(t, err)
	assert.True(t, address.IsOntID(id.OntID))
	assert.True(t, id.IsDefault)
	require.Len(t, id.Controls, 1)
	assert.Equal(t, "keys-1", id.Controls[0].ID)

	ctrl, err := m.GetControlAccountByIndex(id.OntID, 0, "pw")
	require.NoError(t, err)
	assert.Equal(t, id.OntID, ctrl.Address().OntID())

	viaGet, err := m.GetAccount(id.OntID, "pw")
	require.NoError(t, err)
	assert.Equal(t, ctrl.PrivateKeyHex(), viaGet.PrivateKeyHex())

	_, err = m.GetControlAccountByIndex(id.OntID, 1, "pw")
	assert.ErrorIs(t, err, ErrNoControl)

	_, err = m.GetControlAccountByIndex(id.OntID, 0, "bad")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	imported, err := m.CreateIdentityFromPrivateKey("imp", "pw", knownKeyHex)
	require.NoError(t, err)
	assert.False(t, imported.IsDefault)

	_, err = m.CreateIdentityFromPrivateKey("dup", "pw", knownKeyHex)
	assert.ErrorIs(t, err, ErrIdentityExists)

	require.NoError(t, m.SetDefaultIdentityByOntID(imported.OntID))
	ids := m.Identities()
	require.Len(t, ids, 2)
	assert.False(t, ids[0].IsDefault)
	assert.True(t, ids[1].IsDefault)

	require.NoError(t, m.RemoveIdentity(imported.OntID))
	for _, id := range m.Identities() {
		assert.False(t, id.IsDefault)
	}
	assert.ErrorIs(t, m.RemoveIdentity(imported.OntID), ErrNotFound)
	assert.Len(t, m.Identities(), 1)
}

func TestSetDefaultAccount(t *testing.T) {
	m := newTestManager(t)

	first, err := m.CreateAccount("first", "pw")
	require.NoError(t, err)
	second, err := m.CreateAccount("second", "pw")
	require.NoError(t, err)
	assert.False(t, second.IsDefault)

	require.NoError(t, m.SetDefaultAccountByAddress(second.Address))
	def, ok := m.DefaultAccount()
	require.True(t, ok)
	assert.Equal(t, second.Address, def.Address)

	for _, a := range m.Accounts() {
		assert.Equal(t, a.Address == second.Address, a.IsDefault, a.Label)
	}

	err = m.SetDefaultAccountByAddress("not-base58-0OIl")
	assert.ErrorIs(t, err, address.ErrInvalidAddress)

	require.NoError(t, m.RemoveAccount(first.Address))
	assert.ErrorIs(t, m.SetDefaultAccountByAddress(first.Address), ErrNotFound)
}

func TestSaveAndReopen(t *testing.T) {
	m := newTestManager(t)

	acct, err := m.CreateAccount("a", "pw")
	require.NoError(t, err)
	id, err := m.CreateIdentity("i", "pw")
	require.NoError(t, err)
	require.NoError(t, m.Save())

	info, err := os.Stat(m.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	raw, err := os.ReadFile(m.Path())
	require.NoError(t, err)
	var onDisk map[string]any
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	assert.Equal(t, acct.Address, onDisk["defaultAccountAddress"])
	assert.Equal(t, id.OntID, onDisk["defaultOntid"])

	reopened, err := Open(m.Path(), testOptions())
	require.NoError(t, err)
	require.Len(t, reopened.Accounts(), 1)
	require.Len(t, reopened.Identities(), 1)

	_, err = reopened.GetAccountByAddress(acct.Address, "pw")
	require.NoError(t, err)
	_, err = reopened.GetControlAccountByIndex(id.OntID, 0, "pw")
	require.NoError(t, err)
}

func TestSwappedEnvelopeDoesNotOpen(t *testing.T) {
	m := newTestManager(t)

	a, err := m.CreateAccount("a", "pw")
	require.NoError(t, err)
	b, err := m.CreateAccount("b", "pw")
	require.NoError(t, err)

	m.mu.Lock()
	m.wallet.Accounts[0].Key, m.wallet.Accounts[1].Key = m.wallet.Accounts[1].Key, m.wallet.Accounts[0].Key
	m.mu.Unlock()

	_, err = m.GetAccountByAddress(a.Address, "pw")
	assert.ErrorIs(t, err, ErrInvalidPassword)
	_, err = m.GetAccountByAddress(b.Address, "pw")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestOpenRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := Open(path, testOptions())
	assert.Error(t, err)

	_, err = Open("", testOptions())
	assert.Error(t, err)
}

func TestRevertDropsUnsavedChanges(t *testing.T) {
	m := newTestManager(t)

	saved, err := m.CreateAccount("saved", "pw")
	require.NoError(t, err)
	require.NoError(t, m.Save())

	_, err = m.CreateAccount("unsaved", "pw")
	require.NoError(t, err)
	_, err = m.CreateIdentity("unsaved", "pw")
	require.NoError(t, err)

	require.NoError(t, m.Revert())
	require.Len(t, m.Accounts(), 1)
	assert.Equal(t, saved.Address, m.Accounts()[0].Address)
	assert.Empty(t, m.Identities())

	fresh := newTestManager(t)
	_, err = fresh.CreateAccount("never saved", "pw")
	require.NoError(t, err)
	require.NoError(t, fresh.Revert())
	assert.Empty(t, fresh.Accounts())
}
