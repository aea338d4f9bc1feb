// Package api wires boost-guardd's HTTP surface: create-vouchers, get-rewards,
// get-lottery-winners, health, and the root introspection endpoint (spec §6).
package api

import (
	"log/slog"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/snapshot-labs/boost-guard/internal/beacon"
	"github.com/snapshot-labs/boost-guard/internal/cache"
	"github.com/snapshot-labs/boost-guard/internal/metrics"
	"github.com/snapshot-labs/boost-guard/internal/signer"
	"github.com/snapshot-labs/boost-guard/internal/store"
	"github.com/snapshot-labs/boost-guard/internal/subgraph"
	"github.com/snapshot-labs/boost-guard/internal/tokenpolicy"
)

// Version is the boost-guardd build version reported by the root endpoint.
const Version = "1.0.0"

// Config bundles the dependencies a Server needs.
type Config struct {
	Store     *store.Store
	Subgraph  *subgraph.Client
	Beacon    *beacon.Client
	Policy    *tokenpolicy.Policy
	Signer    *signer.Signer
	Caches    *cache.Caches
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
	BoostName string
}

// Server holds the adapters and caches the HTTP handlers depend on.
type Server struct {
	store    *store.Store
	subgraph *subgraph.Client
	beacon   *beacon.Client
	policy   *tokenpolicy.Policy
	signer   *signer.Signer
	caches   *cache.Caches
	metrics  *metrics.Metrics
	logger   *slog.Logger

	boostName string
	router    http.Handler
}

// New constructs a Server with its router already built.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.Default()
	}
	s := &Server{
		store:     cfg.Store,
		subgraph:  cfg.Subgraph,
		beacon:    cfg.Beacon,
		policy:    cfg.Policy,
		signer:    cfg.Signer,
		caches:    cfg.Caches,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		boostName: cfg.BoostName,
	}
	s.router = s.buildRouter()
	return s
}

// Handler exposes the configured HTTP router.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(otelhttp.NewMiddleware("boost-guardd"))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Post("/create-vouchers", s.handleCreateVouchers)
	r.Post("/get-rewards", s.handleGetRewards)
	r.Post("/get-lottery-winners", s.handleGetLotteryWinners)

	return r
}

// guardAddress exposes the signer's public address for the root endpoint.
func (s *Server) guardAddress() common.Address {
	return s.signer.Address()
}
