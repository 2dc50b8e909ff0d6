// Command server runs the parlor API server.
//
// Configuration is layered: built-in defaults, then a YAML config file
// (-config flag, PARLOR_CONFIG, ./config.yaml, /etc/parlor/config.yaml),
// then PARLOR_* environment overrides. See pkg/config for the full set.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/parlor-dev/parlor/pkg/audit"
	"github.com/parlor-dev/parlor/pkg/auth"
	"github.com/parlor-dev/parlor/pkg/config"
	"github.com/parlor-dev/parlor/pkg/session"
	"github.com/parlor-dev/parlor/pkg/storage"
	"github.com/parlor-dev/parlor/pkg/storage/memory"
	"github.com/parlor-dev/parlor/pkg/storage/postgres"
	"github.com/parlor-dev/parlor/pkg/token"
	tokenjwt "github.com/parlor-dev/parlor/pkg/token/jwt"
	transporthttp "github.com/parlor-dev/parlor/pkg/transport/http"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	store, err := newStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	tokens, err := newTokenStore(cfg)
	if err != nil {
		return err
	}

	limiter := auth.NewTokenBucket(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	auditLog := audit.New(store, logger)

	adapterCfg := transporthttp.DefaultConfig()
	adapterCfg.TokenTTL = cfg.Token.TTL
	adapter := transporthttp.NewAdapter(store, tokens, auditLog, limiter, adapterCfg, logger)

	// Health and metrics sit outside the API pipeline: no rate limiting,
	// no security headers, no auditing.
	mux := http.NewServeMux()
	mux.Handle("/", adapter.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := store.HealthCheck(r.Context()); err != nil {
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	if cfg.Observability.Metrics.Enabled {
		mux.Handle("GET "+cfg.Observability.Metrics.Path, promhttp.Handler())
	}

	srv := transporthttp.NewServer(mux,
		transporthttp.WithAddr(fmt.Sprintf(":%d", cfg.Server.Port)),
		transporthttp.WithReadTimeout(cfg.Server.ReadTimeout),
		transporthttp.WithWriteTimeout(cfg.Server.WriteTimeout),
		transporthttp.WithLogger(logger),
	)

	logger.Info("parlor starting",
		"port", cfg.Server.Port,
		"storage", cfg.Storage.Type,
		"token_store", cfg.Token.Type,
		"rate_limit", cfg.RateLimit.RequestsPerSecond,
	)
	return srv.ListenAndServe()
}

func newStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Type {
	case "postgres":
		pgCfg := postgres.Config{
			DSN:            cfg.Storage.Postgres.DSN,
			MaxConns:       cfg.Storage.Postgres.MaxConns,
			MigrateOnStart: cfg.Storage.Postgres.MigrateOnStart,
		}
		store, err := postgres.New(context.Background(), pgCfg)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		return store, nil
	default:
		return memory.New(cfg.Storage.MaxAudit), nil
	}
}

func newTokenStore(cfg *config.Config) (token.Store, error) {
	switch cfg.Token.Type {
	case "jwt":
		store, err := tokenjwt.NewStore([]byte(cfg.Token.JWT.Secret))
		if err != nil {
			return nil, fmt.Errorf("creating jwt token store: %w", err)
		}
		return store, nil
	default:
		sessions := session.NewMemoryManager(cfg.Session.CookieName, cfg.Session.SecureCookie)
		return token.NewSessionStore(sessions), nil
	}
}
