package http

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/quantumauth-io/caviar-manager/internal/httpui"
	"github.com/quantumauth-io/caviar-manager/internal/metrics"
	"github.com/quantumauth-io/caviar-manager/internal/networks"
	"github.com/quantumauth-io/caviar-manager/internal/ratelimiter"
	"github.com/quantumauth-io/caviar-manager/internal/session"
	"github.com/quantumauth-io/caviar-manager/internal/wallet"
)

// WalletManager is the wallet facade the handlers forward to.
type WalletManager interface {
	Save() error
	Revert() error

	CreateAccount(label, password string) (wallet.AccountData, error)
	CreateAccountFromPrivateKey(label, password, hexKey string) (wallet.AccountData, error)
	CreateAccountFromMnemonic(label, password, words string) (wallet.AccountData, error)
	GetAccount(id, password string) (*wallet.Account, error)
	GetAccountByAddress(b58Address, password string) (*wallet.Account, error)
	GetControlAccountByIndex(ontID string, index int, password string) (*wallet.Account, error)
	RemoveAccount(b58Address string) error
	SetDefaultAccountByAddress(b58Address string) error
	Accounts() []wallet.AccountData
	DefaultAccount() (wallet.AccountData, bool)

	CreateIdentity(label, password string) (wallet.Identity, error)
	CreateIdentityFromPrivateKey(label, password, hexKey string) (wallet.Identity, error)
	RemoveIdentity(ontID string) error
	SetDefaultIdentityByOntID(ontID string) error
	Identities() []wallet.Identity
}

// ChainClient is the switchable node connection.
type ChainClient interface {
	Connect(name string) (networks.Network, error)
	SetAddress(addr string) error
	Address() string
	Network() (networks.Network, bool)
	Networks() []networks.Network
	GetVersion(ctx context.Context) (string, error)
}

type Config struct {
	AllowedOrigins     []string
	ContractAddressHex string

	// Per client IP limit on password-bearing routes. Zero disables it.
	RateLimitRPS   float64
	RateLimitBurst int
}

type Server struct {
	wallet  WalletManager
	chain   ChainClient
	session *session.State
	pages   *httpui.Pages
	metrics *metrics.Metrics
	limiter *ratelimiter.Limiter

	gatherer       prometheus.Gatherer
	allowedOrigins []string

	contractMu         sync.RWMutex
	contractAddressHex string

	engine *gin.Engine
}

// NewServer builds the router. m and gatherer may be nil; /metrics is then
// not mounted.
func NewServer(
	cfg Config,
	w WalletManager,
	chain ChainClient,
	sess *session.State,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
) (*Server, error) {
	if w == nil || chain == nil || sess == nil {
		return nil, errors.New("http: wallet, chain and session are required")
	}

	pages, err := httpui.New()
	if err != nil {
		return nil, errors.Wrap(err, "load ui")
	}

	contract := strings.TrimSpace(cfg.ContractAddressHex)
	if contract != "" && !common.IsHexAddress(contract) {
		return nil, errors.Newf("invalid contract address %q", contract)
	}

	s := &Server{
		wallet:             w,
		chain:              chain,
		session:            sess,
		pages:              pages,
		metrics:            m,
		limiter:            ratelimiter.New(ratelimiter.Config{RPS: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst}),
		gatherer:           gatherer,
		allowedOrigins:     cfg.AllowedOrigins,
		contractAddressHex: contract,
	}

	engine, err := s.newRouter()
	if err != nil {
		return nil, err
	}
	s.engine = engine

	s.refreshWalletGauges()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

func (s *Server) contractAddress() string {
	s.contractMu.RLock()
	defer s.contractMu.RUnlock()
	return s.contractAddressHex
}

func (s *Server) setContractAddress(hex string) {
	s.contractMu.Lock()
	s.contractAddressHex = hex
	s.contractMu.Unlock()
}

func (s *Server) refreshWalletGauges() {
	s.metrics.SetWalletSize(len(s.wallet.Accounts()), len(s.wallet.Identities()))
}
