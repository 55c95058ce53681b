package api

import (
	"context"
	"database/sql"

	"github.com/dlmiddlecote/sqlstats"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github/chapool/go-keyring/internal/config"
	"github/chapool/go-keyring/internal/metrics"
	"github/chapool/go-keyring/internal/wallet"
	"github/chapool/go-keyring/internal/wallet/network"
	"github/chapool/go-keyring/internal/wallet/vault"
)

// PROVIDERS - define here only providers that for various reasons (e.g. cyclic dependency) can't live in their corresponding packages
// or for wrapping providers that only accept sub-configs to prevent the requirement for defining providers for sub-configs.
// https://github.com/google/wire/blob/main/docs/guide.md#defining-providers

// NewDB opens the database backing the postgres vault store. Other stores need no
// database and get nil.
func NewDB(cfg config.Server) (*sql.DB, error) {
	if cfg.Vault.Store != config.VaultStorePostgres {
		return nil, nil //nolint:nilnil
	}

	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	if cfg.Database.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}
	if cfg.Database.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}

	return db, nil
}

//nolint:ireturn
func NewVaultStore(cfg config.Server, db *sql.DB) (vault.Store, error) {
	switch cfg.Vault.Store {
	case config.VaultStoreMemory:
		return vault.NewMemoryStore(""), nil
	case config.VaultStoreFile:
		return vault.NewFileStore(cfg.Vault.File), nil
	case config.VaultStorePostgres:
		if db == nil {
			return nil, errors.New("postgres vault store requires a database")
		}
		return vault.NewPostgresStore(db), nil
	default:
		return nil, errors.Errorf("unknown vault store %q", cfg.Vault.Store)
	}
}

//nolint:ireturn
func NewVaultCodec(cfg config.Server) vault.Codec {
	return vault.NewCodec(cfg.Vault.ScryptParams())
}

// NewNetwork connects to the configured RPC nodes. Without RPC URLs the server runs
// offline and the returned client is nil.
//
//nolint:ireturn
func NewNetwork(cfg config.Server) (network.Client, error) {
	if len(cfg.Network.RPCURLs) == 0 {
		log.Info().Msg("No RPC URLs configured, running without network")
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Network.RequestTimeout)
	defer cancel()

	client, err := network.NewRPCClient(ctx, cfg.Network.RPCURLs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create RPC client")
	}

	return client, nil
}

// NewMetricsRegistry returns the registry served on /metrics. Connection pool stats
// are added when the postgres vault store is in use.
func NewMetricsRegistry(db *sql.DB) *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if db != nil {
		registry.MustRegister(sqlstats.NewStatsCollector("keyring", db))
	}

	return registry
}

func NewMetrics(registry *prometheus.Registry) *metrics.Service {
	return metrics.New(registry)
}

func NewKeyring(codec vault.Codec, store vault.Store, net network.Client, m *metrics.Service) (*wallet.Controller, error) {
	cfg := wallet.Config{
		Codec:   codec,
		Store:   store,
		Metrics: m,
	}
	if net != nil {
		cfg.Network = net
	}

	return wallet.NewController(cfg)
}
