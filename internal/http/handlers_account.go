package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/quantumauth-io/caviar-manager/internal/wallet"
	"github.com/quantumauth-io/quantum-go-utils/log"
)

func (s *Server) GetAccounts(c *gin.Context) {
	accounts := s.wallet.Accounts()
	out := make([]accountItem, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, accountItem{B58Address: a.Address, Label: a.Label})
	}
	c.JSON(http.StatusOK, gin.H{keyResult: out})
}

func (s *Server) GetDefaultWalletAccountData(c *gin.Context) {
	a, ok := s.wallet.DefaultAccount()
	if !ok {
		respond(c, http.StatusNotFound, msgNoDefaultAccount)
		return
	}
	c.JSON(http.StatusOK, accountItem{B58Address: a.Address, Label: a.Label})
}

func (s *Server) IsDefaultWalletAccountUnlock(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{keyResult: s.session.IsAccountUnlocked()})
}

// CreateAccount makes a new key and hands its secrets back once.
func (s *Server) CreateAccount(c *gin.Context) {
	var req createRequest
	if !bindJSON(c, &req) {
		return
	}

	data, err := s.wallet.CreateAccount(req.Label, req.Password)
	if err != nil {
		if errors.Is(err, wallet.ErrEmptyPassword) {
			respond(c, http.StatusBadRequest, msgPasswordRequired)
			return
		}
		respond(c, http.StatusInternalServerError, err.Error())
		return
	}

	acct, err := s.wallet.GetAccountByAddress(data.Address, req.Password)
	if err != nil {
		respond(c, http.StatusInternalServerError, err.Error())
		return
	}
	mnemonic, err := acct.Mnemonic()
	if err != nil {
		respond(c, http.StatusInternalServerError, err.Error())
		return
	}

	if !s.persist(c) {
		return
	}
	log.Info("account created", "address", data.Address)

	c.JSON(http.StatusOK, createAccountResponse{
		HexPrivateKey: acct.PrivateKeyHex(),
		B58Address:    data.Address,
		Mnemonic:      mnemonic,
	})
}

func (s *Server) ImportAccount(c *gin.Context) {
	var req importAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	var (
		data wallet.AccountData
		err  error
	)
	switch {
	case strings.TrimSpace(req.HexPrivateKey) != "":
		data, err = s.wallet.CreateAccountFromPrivateKey(req.Label, req.Password, req.HexPrivateKey)
	case strings.TrimSpace(req.Mnemonic) != "":
		data, err = s.wallet.CreateAccountFromMnemonic(req.Label, req.Password, req.Mnemonic)
	default:
		respond(c, http.StatusBadRequest, msgKeyOrMnemonic)
		return
	}

	switch {
	case err == nil:
	case errors.Is(err, wallet.ErrAccountExists):
		respond(c, http.StatusConflict, msgAccountExists)
		return
	case errors.Is(err, wallet.ErrEmptyPassword):
		respond(c, http.StatusBadRequest, msgPasswordRequired)
		return
	case errors.Is(err, wallet.ErrInvalidPrivateKey), errors.Is(err, wallet.ErrInvalidMnemonic):
		respond(c, http.StatusBadRequest, err.Error())
		return
	default:
		respond(c, http.StatusInternalServerError, err.Error())
		return
	}

	if !s.persist(c) {
		return
	}
	log.Info("account imported", "address", data.Address)
	respond(c, http.StatusOK, data.Address)
}

func (s *Server) RemoveAccount(c *gin.Context) {
	var req removeAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := s.wallet.GetAccountByAddress(req.B58Address, req.Password); err != nil {
		log.Warn("remove account rejected", "address", req.B58Address, "error", err)
		respond(c, http.StatusInternalServerError, fmt.Sprintf(msgRemoveFailed, req.B58Address))
		return
	}
	if err := s.wallet.RemoveAccount(req.B58Address); err != nil {
		log.Warn("remove account", "address", req.B58Address, "error", err)
		respond(c, http.StatusInternalServerError, fmt.Sprintf(msgRemoveFailed, req.B58Address))
		return
	}
	if !s.persist(c) {
		return
	}
	s.session.ForgetAccount(req.B58Address)
	respond(c, http.StatusOK, fmt.Sprintf(msgRemoveSuccessful, req.B58Address))
}

// AccountChange unlocks an account and makes it the wallet default.
func (s *Server) AccountChange(c *gin.Context) {
	var req accountChangeRequest
	if !bindJSON(c, &req) {
		return
	}

	acct, err := s.wallet.GetAccountByAddress(req.B58Address, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, wallet.ErrNotFound):
		respond(c, http.StatusBadRequest, msgInvalidB58Address)
		return
	default:
		s.metrics.ObserveUnlock(unlockKindAccount, false)
		respond(c, http.StatusBadRequest, msgInvalidPassword)
		return
	}

	if err := s.wallet.SetDefaultAccountByAddress(req.B58Address); err != nil {
		respond(c, http.StatusBadRequest, msgInvalidB58Address)
		return
	}
	if !s.persist(c) {
		return
	}
	s.session.UnlockAccount(acct)
	s.metrics.ObserveUnlock(unlockKindAccount, true)
	log.Info("default account changed", "address", acct.B58Address(), "label", acct.Label())
	respond(c, http.StatusOK, msgChangeSuccessful)
}
