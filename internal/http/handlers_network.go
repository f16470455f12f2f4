package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/quantumauth-io/caviar-manager/internal/chainrpc"
	"github.com/quantumauth-io/caviar-manager/internal/networks"
	"github.com/quantumauth-io/quantum-go-utils/log"
)

func (s *Server) GetContractAddress(c *gin.Context) {
	respond(c, http.StatusOK, s.contractAddress())
}

func (s *Server) SetContractAddress(c *gin.Context) {
	var req setContractAddressRequest
	if !bindJSON(c, &req) {
		return
	}

	hex := req.address()
	if !common.IsHexAddress(hex) {
		respond(c, http.StatusBadRequest, msgInvalidContract)
		return
	}
	s.setContractAddress(hex)
	respond(c, http.StatusOK, hex)
}

func (s *Server) GetNetworks(c *gin.Context) {
	nets := s.chain.Networks()
	out := make([]networkItem, 0, len(nets))
	for _, n := range nets {
		out = append(out, networkItem{Name: n.Name, RPCAddress: n.RPCAddress})
	}

	resp := networksResponse{Result: out, RPCAddress: s.chain.Address()}
	if cur, ok := s.chain.Network(); ok {
		resp.Current = cur.Name
	}
	c.JSON(http.StatusOK, resp)
}

// ChangeNet switches the node connection. Switching to Localhost probes the
// node and falls back to the previous address when it does not answer.
func (s *Server) ChangeNet(c *gin.Context) {
	var req changeNetRequest
	if !bindJSON(c, &req) {
		return
	}
	name := strings.TrimSpace(req.Network)
	previous := s.chain.Address()

	n, err := s.chain.Connect(name)
	if err != nil {
		if errors.Is(err, chainrpc.ErrUnsupportedNetwork) {
			s.metrics.ObserveNetworkSwitch("unsupported", false)
			respond(c, http.StatusNotImplemented, msgUnsupportedNetwork)
			return
		}
		s.metrics.ObserveNetworkSwitch(name, false)
		respond(c, http.StatusInternalServerError, err.Error())
		return
	}

	now := s.chain.Address()
	if n.HostMarker != "" && !strings.Contains(now, n.HostMarker) {
		s.metrics.ObserveNetworkSwitch(n.Name, false)
		respond(c, http.StatusConflict, fmt.Sprintf(msgAddressMismatch, now))
		return
	}

	if strings.EqualFold(n.Name, networks.Localhost) {
		if _, err := s.chain.GetVersion(c.Request.Context()); err != nil {
			s.metrics.ObserveNetworkSwitch(n.Name, false)
			s.restoreAddress(previous)

			if errors.Is(err, chainrpc.ErrConnection) {
				respond(c, http.StatusBadRequest, msgLocalhostFailed)
				return
			}
			respond(c, http.StatusInternalServerError, err.Error())
			return
		}
	}

	s.metrics.ObserveNetworkSwitch(n.Name, true)
	log.Info("network changed", "network", n.Name, "rpc_address", now)
	respond(c, http.StatusOK, msgNetSucceed)
}

func (s *Server) restoreAddress(addr string) {
	if addr == "" {
		return
	}
	if err := s.chain.SetAddress(addr); err != nil {
		log.Error("restore rpc address", "address", addr, "error", err)
	}
}
