package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/quantumauth-io/quantum-go-utils/log"
)

// requestContext tags the request with an id, then logs and counts it.
func (s *Server) requestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(requestIDHeader, id)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)

		s.metrics.ObserveRequest(route, strconv.Itoa(status), elapsed)

		fields := []any{
			"request_id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", elapsed.String(),
		}
		if status >= http.StatusInternalServerError {
			log.Warn("request failed", fields...)
			return
		}
		log.Info("request", fields...)
	}
}

// loopbackOnly rejects anything not coming from and addressed to this machine.
func (s *Server) loopbackOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isLoopbackRequest(c.Request) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{keyResult: msgForbidden})
			return
		}
		if !isSafeLocalHost(c.Request.Host) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{keyResult: msgForbiddenHost})
			return
		}
		c.Next()
	}
}

// originGuard refuses browser requests from pages that are not allowed to
// drive the wallet. Without a configured list only loopback origins pass.
func (s *Server) originGuard() gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(s.allowedOrigins))
	for _, o := range s.allowedOrigins {
		if n := normalizeOrigin(o); n != "" {
			allowed[n] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		raw := c.GetHeader("Origin")
		if raw == "" {
			c.Next()
			return
		}

		origin := normalizeOrigin(raw)
		ok := origin != ""
		if ok && len(allowed) > 0 {
			_, ok = allowed[origin]
		} else if ok {
			ok = isLoopbackOrigin(origin)
		}
		if !ok {
			log.Warn("origin rejected", "request_id", c.GetString(ctxRequestID), "origin", raw)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{keyResult: msgForbiddenOrigin})
			return
		}
		c.Next()
	}
}

func (s *Server) rateLimit() gin.HandlerFunc {
	return s.limiter.Middleware(
		func(c *gin.Context) string { return c.ClientIP() },
		func(c *gin.Context) {
			s.metrics.ObserveRateLimited()
			log.Warn("rate limited", "request_id", c.GetString(ctxRequestID), "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{keyResult: msgTooManyAttempts})
		},
	)
}
