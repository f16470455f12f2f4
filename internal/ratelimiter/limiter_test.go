package ratelimiter

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestLimiter(cfg Config) (*Limiter, *clock) {
	l := New(cfg)
	clk := &clock{t: time.Unix(1_700_000_000, 0)}
	l.now = clk.now
	return l, clk
}

func TestTakeBurstThenRefill(t *testing.T) {
	l, clk := newTestLimiter(Config{RPS: 1, Burst: 2})

	ok, _ := l.Take("127.0.0.1")
	assert.True(t, ok)
	ok, _ = l.Take("127.0.0.1")
	assert.True(t, ok)

	ok, wait := l.Take("127.0.0.1")
	assert.False(t, ok)
	assert.Equal(t, time.Second, wait)

	// other clients have their own bucket
	ok, _ = l.Take("::1")
	assert.True(t, ok)

	clk.t = clk.t.Add(time.Second)
	ok, _ = l.Take("127.0.0.1")
	assert.True(t, ok)
}

func TestRejectedTakeDoesNotBorrow(t *testing.T) {
	l, clk := newTestLimiter(Config{RPS: 1, Burst: 1})

	ok, _ := l.Take("k")
	require.True(t, ok)
	for i := 0; i < 5; i++ {
		ok, _ = l.Take("k")
		assert.False(t, ok)
	}

	clk.t = clk.t.Add(time.Second)
	ok, _ = l.Take("k")
	assert.True(t, ok)
}

func TestNilAndBlankKeysAllow(t *testing.T) {
	var l *Limiter
	ok, _ := l.Take("k")
	assert.True(t, ok)
	assert.Zero(t, l.Clients())
	assert.Nil(t, New(Config{Burst: 1}))
	assert.Nil(t, New(Config{RPS: 1}))

	l, _ = newTestLimiter(Config{RPS: 1, Burst: 1})
	for i := 0; i < 3; i++ {
		ok, _ = l.Take("  ")
		assert.True(t, ok)
	}
	assert.Zero(t, l.Clients())
}

func TestIdleClientsSwept(t *testing.T) {
	l, clk := newTestLimiter(Config{RPS: 100, Burst: 10, Idle: time.Minute})

	for i := 0; i < 20; i++ {
		l.Take(fmt.Sprintf("old-%d", i))
	}
	assert.Equal(t, 20, l.Clients())

	clk.t = clk.t.Add(30 * time.Second)
	l.Take("recent")
	assert.Equal(t, 21, l.Clients())

	clk.t = clk.t.Add(45 * time.Second)
	l.Take("fresh")
	assert.Equal(t, 2, l.Clients())
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l, _ := newTestLimiter(Config{RPS: 0.5, Burst: 1})

	rejected := 0
	r := gin.New()
	r.Use(l.Middleware(
		func(c *gin.Context) string { return c.GetHeader("X-Client") },
		func(c *gin.Context) {
			rejected++
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"result": "slow down"})
		},
	))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	get := func(client string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Client", client)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, get("a").Code)

	rec := get("a")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"result":"slow down"}`, rec.Body.String())
	assert.Equal(t, 1, rejected)

	assert.Equal(t, http.StatusNoContent, get("b").Code)
}

func TestMiddlewareAbortsWithoutReject(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l, _ := newTestLimiter(Config{RPS: 1, Burst: 1})

	r := gin.New()
	r.Use(l.Middleware(func(*gin.Context) string { return "k" }, nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, want := range []int{http.StatusNoContent, http.StatusTooManyRequests} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, want, rec.Code)
	}
}
