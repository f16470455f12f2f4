package http

import (
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) newRouter() (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(nil); err != nil {
		return nil, errors.Wrap(err, "trusted proxies")
	}
	r.Use(gin.Recovery(), s.requestContext(), s.loopbackOnly(), s.originGuard())

	if len(s.allowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: s.allowedOrigins,
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", requestIDHeader},
			MaxAge:       10 * time.Minute,
		}))
	}

	static, err := s.pages.StaticFS()
	if err != nil {
		return nil, errors.Wrap(err, "static fs")
	}
	r.StaticFS("/static", static)

	r.GET("/", s.Index)
	r.GET("/login", s.Login)
	r.GET("/favicon.ico", s.Favicon)
	r.GET("/healthz", s.Health)

	if s.gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	r.GET("/get_contract_address", s.GetContractAddress)
	r.POST("/set_contract_address", s.SetContractAddress)

	r.GET("/get_accounts", s.GetAccounts)
	r.GET("/get_default_wallet_account_data", s.GetDefaultWalletAccountData)
	r.GET("/is_default_wallet_account_unlock", s.IsDefaultWalletAccountUnlock)
	r.GET("/get_identities", s.GetIdentities)
	r.GET("/get_networks", s.GetNetworks)

	r.POST("/change_net", s.ChangeNet)
	r.POST("/lock", s.Lock)

	// Everything below checks a password.
	guarded := r.Group("/", s.rateLimit())
	{
		guarded.POST("/create_account", s.CreateAccount)
		guarded.POST("/import_account", s.ImportAccount)
		guarded.POST("/remove_account", s.RemoveAccount)
		guarded.POST("/account_change", s.AccountChange)

		guarded.POST("/create_identity", s.CreateIdentity)
		guarded.POST("/import_identity", s.ImportIdentity)
		guarded.POST("/remove_identity", s.RemoveIdentity)
		guarded.POST("/identity_change", s.IdentityChange)

		guarded.POST("/unlock_account", s.UnlockAccount)
		guarded.POST("/unlock_identity", s.UnlockIdentity)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{keyResult: "not found"})
	})

	return r, nil
}
