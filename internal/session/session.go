// Package session holds the account and identity unlocked in this process.
package session

import (
	"sync"

	"github.com/quantumauth-io/caviar-manager/internal/wallet"
)

type State struct {
	mu       sync.RWMutex
	account  *wallet.Account
	identity *wallet.Account
}

func New() *State { return &State{} }

// UnlockAccount makes acct the current wallet account. nil is ignored so a
// failed unlock keeps the previous account.
func (s *State) UnlockAccount(acct *wallet.Account) {
	if acct == nil {
		return
	}
	s.mu.Lock()
	s.account = acct
	s.mu.Unlock()
}

// UnlockIdentity stores the control account of the current identity.
func (s *State) UnlockIdentity(ctrl *wallet.Account) {
	if ctrl == nil {
		return
	}
	s.mu.Lock()
	s.identity = ctrl
	s.mu.Unlock()
}

func (s *State) Account() (*wallet.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account, s.account != nil
}

func (s *State) Identity() (*wallet.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity, s.identity != nil
}

func (s *State) IsAccountUnlocked() bool {
	_, ok := s.Account()
	return ok
}

func (s *State) IsIdentityUnlocked() bool {
	_, ok := s.Identity()
	return ok
}

// ForgetAccount drops the unlocked account if it is addr.
func (s *State) ForgetAccount(b58Address string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.account != nil && s.account.B58Address() == b58Address {
		s.account = nil
	}
}

// ForgetIdentity drops the unlocked identity if it controls ontID.
func (s *State) ForgetIdentity(ontID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity != nil && s.identity.Address().OntID() == ontID {
		s.identity = nil
	}
}

// Lock forgets both unlocked keys.
func (s *State) Lock() {
	s.mu.Lock()
	s.account = nil
	s.identity = nil
	s.mu.Unlock()
}
