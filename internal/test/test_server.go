package test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github/chapool/go-keyring/internal/api"
	"github/chapool/go-keyring/internal/api/router"
	"github/chapool/go-keyring/internal/config"
)

// WithTestServer returns a fully configured server backed by an in memory vault and no
// network, using the default server config from the environment.
func WithTestServer(t *testing.T, closure func(s *api.Server)) {
	t.Helper()

	WithTestServerConfigurable(t, config.DefaultServiceConfigFromEnv(), closure)
}

// WithTestServerConfigurable overrides the vault settings of cfg so no test touches
// disk or a database, then runs closure with the initialized server.
func WithTestServerConfigurable(t *testing.T, cfg config.Server, closure func(s *api.Server)) {
	t.Helper()

	cfg.Vault.Store = config.VaultStoreMemory
	fast := FastScryptParams()
	cfg.Vault.ScryptN = fast.N
	cfg.Vault.ScryptP = fast.P

	s, err := api.InitNewServerWithDB(cfg, nil)
	require.NoError(t, err, "failed to init server")

	closure(NewTestServerWithComponents(t, s))
}

// NewTestServerWithComponents attaches the router to an initialized server and shuts it
// down when the test ends.
func NewTestServerWithComponents(t *testing.T, s *api.Server) *api.Server {
	t.Helper()

	err := router.Init(s)
	require.NoError(t, err, "failed to init router")

	t.Cleanup(func() {
		// echo was never started, shutting it down is still safe
		errs := s.Shutdown(context.Background())
		require.Empty(t, errs)
	})

	return s
}
