package http

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/quantumauth-io/quantum-go-utils/log"
)

func isLoopbackRequest(r *http.Request) bool {
	ra := r.RemoteAddr

	h, _, err := net.SplitHostPort(ra)
	if err != nil {
		ip := net.ParseIP(ra)
		return ip != nil && ip.IsLoopback()
	}
	ip := net.ParseIP(h)
	return ip != nil && ip.IsLoopback()
}

func isSafeLocalHost(hostport string) bool {
	host := hostport
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		host = h
	}
	host = strings.Trim(strings.ToLower(host), "[]")
	return host == "127.0.0.1" || host == "localhost" || host == "::1"
}

func normalizeOrigin(in string) string {
	in = strings.TrimSpace(in)
	if in == "" {
		return ""
	}
	u, err := url.Parse(in)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s://%s", strings.ToLower(u.Scheme), strings.ToLower(u.Host))
}

func isLoopbackOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return isSafeLocalHost(u.Host)
}

func respond(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{keyResult: msg})
}

// bindJSON decodes the body; on failure it has already answered 400.
func bindJSON(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		respond(c, http.StatusBadRequest, msgInvalidJSON)
		return false
	}
	return true
}

// redirectURL points at path on the host the request came in on.
func redirectURL(c *gin.Context, path string) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, c.Request.Host, strings.TrimPrefix(path, "/"))
}

// persist saves the wallet after a mutation. On failure the unsaved change
// is dropped again and 500 has been answered.
func (s *Server) persist(c *gin.Context) bool {
	defer s.refreshWalletGauges()

	err := s.wallet.Save()
	if err == nil {
		return true
	}
	log.Error("save wallet", "request_id", c.GetString(ctxRequestID), "error", err)

	if rerr := s.wallet.Revert(); rerr != nil {
		log.Error("revert unsaved wallet change", "request_id", c.GetString(ctxRequestID), "error", rerr)
	}
	respond(c, http.StatusInternalServerError, msgSaveFailed)
	return false
}
