package config

import (
	"bytes"
	_ "embed"
	"net"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/quantumauth-io/caviar-manager/internal/constants"
	"github.com/quantumauth-io/caviar-manager/internal/networks"
	"github.com/quantumauth-io/caviar-manager/internal/securefile"
	"github.com/spf13/viper"
)

//go:embed config.yaml
var EmbeddedConfigYAML []byte

const envPrefix = "CAVIAR"

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type WalletConfig struct {
	Path string               `mapstructure:"path"`
	KDF  securefile.KDFParams `mapstructure:"kdf"`
}

type ContractConfig struct {
	AddressHex string `mapstructure:"address_hex"`
}

type RPCConfig struct {
	// Network the client connects to on start.
	Network string        `mapstructure:"network"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type Config struct {
	Server    ServerConfig                `mapstructure:"server"`
	Wallet    WalletConfig                `mapstructure:"wallet"`
	Contract  ContractConfig              `mapstructure:"contract"`
	RPC       RPCConfig                   `mapstructure:"rpc"`
	RateLimit RateLimitConfig             `mapstructure:"ratelimit"`
	Networks  map[string]networks.Network `mapstructure:"networks"`
}

// Load reads the embedded defaults, then the user config file, then
// CAVIAR_* environment variables. An explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(EmbeddedConfigYAML)); err != nil {
		return nil, errors.Wrap(err, "read embedded config")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	file := strings.TrimSpace(path)
	if file == "" {
		file = userConfigFile()
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.MergeInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", file)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func userConfigFile() string {
	cands, err := securefile.ConfigPathCandidates(constants.AppName, constants.ConfigFile)
	if err != nil {
		return ""
	}
	for _, p := range cands {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (c *Config) normalize() error {
	c.Server.Host = strings.TrimSpace(c.Server.Host)
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.Newf("server.port out of range: %d", c.Server.Port)
	}

	if strings.TrimSpace(c.Wallet.Path) == "" {
		p, err := securefile.ResolvePath(constants.AppName, constants.WalletFile)
		if err != nil {
			return errors.Wrap(err, "resolve wallet path")
		}
		c.Wallet.Path = p
	}
	if c.Wallet.KDF.ArgonKeyLen == 0 {
		c.Wallet.KDF = securefile.DefaultKDF
	}

	if len(c.Networks) == 0 {
		return errors.New("no networks configured")
	}
	for key, n := range c.Networks {
		if strings.TrimSpace(n.Name) == "" {
			n.Name = key
			c.Networks[key] = n
		}
	}
	if strings.TrimSpace(c.RPC.Network) == "" {
		c.RPC.Network = networks.TestNet
	}
	return nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// NetworkList returns the configured networks with MainNet, TestNet and
// Localhost first and any extra ones after them by name.
func (c *Config) NetworkList() []networks.Network {
	rank := map[string]int{
		strings.ToLower(networks.MainNet):   0,
		strings.ToLower(networks.TestNet):   1,
		strings.ToLower(networks.Localhost): 2,
	}

	out := make([]networks.Network, 0, len(c.Networks))
	for _, n := range c.Networks {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, iok := rank[strings.ToLower(out[i].Name)]
		rj, jok := rank[strings.ToLower(out[j].Name)]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return out[i].Name < out[j].Name
		}
	})
	return out
}
