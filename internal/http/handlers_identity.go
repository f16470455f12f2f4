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

func (s *Server) GetIdentities(c *gin.Context) {
	ids := s.wallet.Identities()
	out := make([]identityItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, identityItem{OntID: id.OntID, Label: id.Label})
	}
	c.JSON(http.StatusOK, gin.H{keyResult: out})
}

func (s *Server) CreateIdentity(c *gin.Context) {
	var req createRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := s.wallet.CreateIdentity(req.Label, req.Password)
	if err != nil {
		if errors.Is(err, wallet.ErrEmptyPassword) {
			respond(c, http.StatusBadRequest, msgPasswordRequired)
			return
		}
		respond(c, http.StatusInternalServerError, err.Error())
		return
	}

	s.identityCreated(c, id, req.Password)
}

func (s *Server) ImportIdentity(c *gin.Context) {
	var req importIdentityRequest
	if !bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.HexPrivateKey) == "" {
		respond(c, http.StatusBadRequest, msgKeyOrMnemonic)
		return
	}

	id, err := s.wallet.CreateIdentityFromPrivateKey(req.Label, req.Password, req.HexPrivateKey)
	switch {
	case err == nil:
	case errors.Is(err, wallet.ErrEmptyPassword):
		respond(c, http.StatusBadRequest, msgPasswordRequired)
		return
	case errors.Is(err, wallet.ErrIdentityExists):
		respond(c, http.StatusInternalServerError, msgIdentityExists)
		return
	default:
		respond(c, http.StatusInternalServerError, err.Error())
		return
	}

	s.identityCreated(c, id, req.Password)
}

// identityCreated answers with the fresh identity's control key.
func (s *Server) identityCreated(c *gin.Context, id wallet.Identity, password string) {
	ctrl, err := s.wallet.GetControlAccountByIndex(id.OntID, 0, password)
	if err != nil {
		respond(c, http.StatusNotImplemented, err.Error())
		return
	}

	if !s.persist(c) {
		return
	}
	log.Info("identity added", "ont_id", id.OntID)

	c.JSON(http.StatusOK, identityResponse{
		HexPrivateKey: ctrl.PrivateKeyHex(),
		OntID:         id.OntID,
	})
}

func (s *Server) RemoveIdentity(c *gin.Context) {
	var req removeIdentityRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := s.wallet.GetControlAccountByIndex(req.OntID, 0, req.Password); err != nil {
		log.Warn("remove identity rejected", "ont_id", req.OntID, "error", err)
		respond(c, http.StatusInternalServerError, fmt.Sprintf(msgRemoveFailed, req.OntID))
		return
	}
	if err := s.wallet.RemoveIdentity(req.OntID); err != nil {
		log.Warn("remove identity", "ont_id", req.OntID, "error", err)
		respond(c, http.StatusInternalServerError, fmt.Sprintf(msgRemoveFailed, req.OntID))
		return
	}
	if !s.persist(c) {
		return
	}
	s.session.ForgetIdentity(req.OntID)
	respond(c, http.StatusOK, fmt.Sprintf(msgRemoveSuccessful, req.OntID))
}

// IdentityChange unlocks an identity and makes it the wallet default.
func (s *Server) IdentityChange(c *gin.Context) {
	var req identityChangeRequest
	if !bindJSON(c, &req) {
		return
	}

	ctrl, err := s.wallet.GetAccount(req.OntID, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, wallet.ErrNotFound):
		respond(c, http.StatusInternalServerError, msgInvalidOntID)
		return
	default:
		s.metrics.ObserveUnlock(unlockKindIdentity, false)
		respond(c, http.StatusNotImplemented, msgIdentityBadPass)
		return
	}

	if err := s.wallet.SetDefaultIdentityByOntID(req.OntID); err != nil {
		respond(c, http.StatusInternalServerError, msgInvalidOntID)
		return
	}
	if !s.persist(c) {
		return
	}
	s.session.UnlockIdentity(ctrl)
	s.metrics.ObserveUnlock(unlockKindIdentity, true)
	respond(c, http.StatusOK, msgIdentityChanged)
}
