// Command boost-guardd runs the boost claim-signing service: it validates a voter's
// eligibility for one or more boosts on a finalized proposal, computes the reward owed under
// the boost's distribution rule, and signs an EIP-712 voucher redeemable on-chain.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/snapshot-labs/boost-guard/internal/api"
	"github.com/snapshot-labs/boost-guard/internal/beacon"
	"github.com/snapshot-labs/boost-guard/internal/cache"
	"github.com/snapshot-labs/boost-guard/internal/config"
	"github.com/snapshot-labs/boost-guard/internal/logging"
	"github.com/snapshot-labs/boost-guard/internal/metrics"
	"github.com/snapshot-labs/boost-guard/internal/signer"
	"github.com/snapshot-labs/boost-guard/internal/store"
	"github.com/snapshot-labs/boost-guard/internal/subgraph"
	"github.com/snapshot-labs/boost-guard/internal/telemetry"
	"github.com/snapshot-labs/boost-guard/internal/tokenpolicy"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("boost-guardd: %v", err)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.Setup("boost-guardd", cfg.Env)

	shutdownTelemetry, err := telemetry.Init(context.Background(), telemetry.Config{
		ServiceName: "boost-guardd",
		Environment: cfg.Env,
		Endpoint:    strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		Insecure:    parseInsecure(),
		Headers:     telemetry.ParseHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS")),
		Metrics:     true,
		Traces:      true,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		if shutdownTelemetry != nil {
			_ = shutdownTelemetry(context.Background())
		}
	}()

	db, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open hub database: %w", err)
	}

	overrides, err := tokenpolicy.LoadOverrides(cfg.DisabledTokensFile)
	if err != nil {
		return fmt.Errorf("load disabled tokens override: %w", err)
	}
	policy := tokenpolicy.New(overrides)

	subgraphClient := subgraph.New(cfg.MainnetSubgraphURL, cfg.SepoliaSubgraphURL)
	beaconClient := beacon.New(cfg.SlotURL, cfg.EpochURL, cfg.BeaconchainAPIKey)

	verifyingContract := common.HexToAddress(cfg.VerifyingContract)
	claimSigner, err := signer.New(cfg.PrivateKey, cfg.BoostName, cfg.BoostVersion, verifyingContract)
	if err != nil {
		return fmt.Errorf("init signer: %w", err)
	}

	m := metrics.New(nil)
	caches := cache.NewCaches()

	server := api.New(api.Config{
		Store:     db,
		Subgraph:  subgraphClient,
		Beacon:    beaconClient,
		Policy:    policy,
		Signer:    claimSigner,
		Caches:    caches,
		Metrics:   m,
		Logger:    logger,
		BoostName: cfg.BoostName,
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      server.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)
	go func() {
		logger.Info("boost-guardd listening", slog.String("addr", httpServer.Addr))
		errs <- httpServer.ListenAndServe()
	}()

	select {
	case <-stopCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			_ = httpServer.Close()
			return err
		}
		return nil
	case err := <-errs:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}

func parseInsecure() bool {
	value := strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_INSECURE"))
	if value == "" {
		return true
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return true
	}
	return parsed
}
