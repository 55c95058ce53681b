// Package test holds helpers shared by package tests.
package test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github/chapool/go-keyring/internal/wallet"
	"github/chapool/go-keyring/internal/wallet/vault"
)

const (
	// Mnemonic is the seed phrase used by the fixtures. Its first account is FirstAccount.
	Mnemonic     = "test test test test test test test test test test test junk"
	FirstAccount = "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"

	// PrivateKey is an externally created key controlling PrivateKeyAccount.
	PrivateKey        = "0xbcb7a8680126610ca94440b020280f9ef82194a4dc2760653073b5f5b150c9c3"
	PrivateKeyAccount = "0x9e1447ea3f6aba7a5d344b360b95fd9bae049448"

	Password = "correct horse battery staple"
)

// FastScryptParams keeps vault encryption cheap in tests.
func FastScryptParams() vault.ScryptParams {
	return vault.ScryptParams{N: 1 << 4, P: 1}
}

// WithTestController runs closure with a fresh controller backed by an in memory store.
func WithTestController(t *testing.T, closure func(c *wallet.Controller, store *vault.MemoryStore)) {
	t.Helper()

	store := vault.NewMemoryStore("")
	closure(NewTestController(t, wallet.Config{Store: store}), store)
}

// NewTestController fills in a fast codec and an in memory store where cfg has none.
func NewTestController(t *testing.T, cfg wallet.Config) *wallet.Controller {
	t.Helper()

	if cfg.Codec == nil {
		cfg.Codec = vault.NewCodec(FastScryptParams())
	}
	if cfg.Store == nil {
		cfg.Store = vault.NewMemoryStore("")
	}

	c, err := wallet.NewController(cfg)
	require.NoError(t, err)
	t.Cleanup(c.Close)

	return c
}
