package keyring_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-keyring/internal/wallet/keyring"
	"github/chapool/go-keyring/internal/wallet/keyring/simple"
)

func TestRegistry(t *testing.T) {
	r := keyring.NewRegistry()
	require.NoError(t, r.Register(simple.Type, simple.New))
	require.NoError(t, r.Register("Custom", func(ctx context.Context, opts json.RawMessage) (keyring.Keyring, error) {
		return simple.New(ctx, opts)
	}))

	err := r.Register(simple.Type, simple.New)
	require.ErrorIs(t, err, keyring.ErrDuplicateType)

	constructor, err := r.Resolve(simple.Type)
	require.NoError(t, err)
	kr, err := constructor(t.Context(), nil)
	require.NoError(t, err)
	assert.Equal(t, simple.Type, kr.Type())

	_, err = r.Resolve("Ledger Hardware")
	require.ErrorIs(t, err, keyring.ErrUnknownKeyringType)

	assert.Equal(t, []string{simple.Type, "Custom"}, r.Types())

	require.Error(t, r.Register("", simple.New))
	require.Error(t, r.Register("nil", nil))
}

func TestParsePrivateKey(t *testing.T) {
	key, err := keyring.ParsePrivateKey("bcb7a8680126610ca94440b020280f9ef82194a4dc2760653073b5f5b150c9c3")
	require.NoError(t, err)

	keyring.ZeroKey(key)
	assert.Equal(t, 0, key.D.Sign())

	_, err = keyring.ParsePrivateKey("0x")
	require.ErrorIs(t, err, keyring.ErrInvalidPrivateKey)
}
