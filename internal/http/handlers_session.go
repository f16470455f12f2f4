package http

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/quantumauth-io/caviar-manager/internal/wallet"
	"github.com/quantumauth-io/quantum-go-utils/log"
)

// unlockReply answers an unlock route; the browser follows redirect_url.
func unlockReply(c *gin.Context, status int, msg, path string) {
	c.JSON(status, gin.H{keyResult: msg, keyRedirectURL: redirectURL(c, path)})
}

// unlockFailure maps a wallet error onto the unlock status codes.
func (s *Server) unlockFailure(c *gin.Context, kind, id string, err error) {
	s.metrics.ObserveUnlock(kind, false)
	log.Warn("unlock failed", "kind", kind, "id", id, "error", err)

	if errors.Is(err, wallet.ErrNotFound) {
		unlockReply(c, http.StatusBadGateway, msgUnlockFailed, "login")
		return
	}
	unlockReply(c, http.StatusNotImplemented, err.Error(), "login")
}

func (s *Server) UnlockAccount(c *gin.Context) {
	var req unlockAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		unlockReply(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	acct, err := s.wallet.GetAccountByAddress(req.B58Address, req.Password)
	if err != nil {
		s.unlockFailure(c, unlockKindAccount, req.B58Address, err)
		return
	}

	s.session.UnlockAccount(acct)
	s.metrics.ObserveUnlock(unlockKindAccount, true)
	log.Info("account unlocked", "address", acct.B58Address(), "label", acct.Label())
	unlockReply(c, http.StatusOK, fmt.Sprintf(msgUnlockSuccessful, req.B58Address), "")
}

func (s *Server) UnlockIdentity(c *gin.Context) {
	var req unlockIdentityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		unlockReply(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	ctrl, err := s.wallet.GetControlAccountByIndex(req.OntID, 0, req.Password)
	if err != nil {
		s.unlockFailure(c, unlockKindIdentity, req.OntID, err)
		return
	}

	s.session.UnlockIdentity(ctrl)
	s.metrics.ObserveUnlock(unlockKindIdentity, true)
	unlockReply(c, http.StatusOK, fmt.Sprintf(msgUnlockSuccessful, req.OntID), "")
}

// Lock forgets every unlocked key.
func (s *Server) Lock(c *gin.Context) {
	s.session.Lock()
	respond(c, http.StatusOK, msgLocked)
}
