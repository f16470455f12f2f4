package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	managerconfig "github.com/quantumauth-io/caviar-manager/cmd/caviar-manager/config"
	"github.com/quantumauth-io/caviar-manager/internal/chainrpc"
	managerhttp "github.com/quantumauth-io/caviar-manager/internal/http"
	"github.com/quantumauth-io/caviar-manager/internal/metrics"
	"github.com/quantumauth-io/caviar-manager/internal/networks"
	"github.com/quantumauth-io/caviar-manager/internal/session"
	"github.com/quantumauth-io/caviar-manager/internal/wallet"
	"github.com/quantumauth-io/quantum-go-utils/log"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP front-end (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	log.Info("caviar-manager",
		"version", Version,
		"commit", Commit,
		"build_date", BuildDate,
	)

	cfg, err := managerconfig.Load(opts.configPath)
	if err != nil {
		return err
	}

	w, err := wallet.Open(cfg.Wallet.Path, wallet.Options{KDF: cfg.Wallet.KDF})
	if err != nil {
		return err
	}

	reg, err := networks.NewRegistry(cfg.NetworkList())
	if err != nil {
		return err
	}
	chain, err := chainrpc.New(reg, cfg.RPC.Network, cfg.RPC.Timeout)
	if err != nil {
		return err
	}
	defer chain.Close()

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	gin.SetMode(gin.ReleaseMode)
	handler, err := managerhttp.NewServer(managerhttp.Config{
		AllowedOrigins:     cfg.Server.AllowedOrigins,
		ContractAddressHex: cfg.Contract.AddressHex,
		RateLimitRPS:       cfg.RateLimit.RPS,
		RateLimitBurst:     cfg.RateLimit.Burst,
	}, w, chain, session.New(), metrics.New(promReg), promReg)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "addr", server.Addr, "wallet", w.Path(), "rpc_address", chain.Address())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err = server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", "error", err)
	} else {
		log.Info("HTTP server gracefully stopped")
	}

	if err = w.Save(); err != nil {
		log.Error("final wallet save failed", "error", err)
	}
	return nil
}
