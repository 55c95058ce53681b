package hd_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-keyring/internal/wallet/keyring"
	"github/chapool/go-keyring/internal/wallet/keyring/hd"
)

const testMnemonic = "affair entry detect broom axis crawl found valve bamboo taste broken hundred"

func TestNewFromMnemonicIsDeterministic(t *testing.T) {
	ctx := t.Context()

	first, err := hd.NewFromOptions(ctx, hd.Options{Mnemonic: testMnemonic, NumberOfAccounts: 1})
	require.NoError(t, err)
	second, err := hd.NewFromOptions(ctx, hd.Options{Mnemonic: testMnemonic, NumberOfAccounts: 1})
	require.NoError(t, err)

	a, err := first.Addresses(ctx)
	require.NoError(t, err)
	b, err := second.Addresses(ctx)
	require.NoError(t, err)

	require.Len(t, a, 1)
	assert.Equal(t, a, b)
	assert.Equal(t, testMnemonic, first.Mnemonic())
	assert.Equal(t, hd.Type, first.Type())
}

func TestAddAddressesContinuesDerivation(t *testing.T) {
	ctx := t.Context()

	kr, err := hd.NewFromOptions(ctx, hd.Options{Mnemonic: testMnemonic, NumberOfAccounts: 1})
	require.NoError(t, err)
	added, err := kr.AddAddresses(ctx, 2)
	require.NoError(t, err)
	require.Len(t, added, 2)

	three, err := hd.NewFromOptions(ctx, hd.Options{Mnemonic: testMnemonic, NumberOfAccounts: 3})
	require.NoError(t, err)

	a, err := kr.Addresses(ctx)
	require.NoError(t, err)
	b, err := three.Addresses(ctx)
	require.NoError(t, err)
	assert.Equal(t, b, a)
	assert.Equal(t, b[1:], added)
}

func TestRandomMnemonicAndRoundTrip(t *testing.T) {
	ctx := t.Context()

	kr, err := hd.New(ctx, json.RawMessage(`{"numberOfAccounts":2}`))
	require.NoError(t, err)

	typed, ok := kr.(*hd.Keyring)
	require.True(t, ok)
	assert.Len(t, strings.Fields(typed.Mnemonic()), 12)

	payload, err := kr.Serialize(ctx)
	require.NoError(t, err)

	var opts hd.Options
	require.NoError(t, json.Unmarshal(payload, &opts))
	assert.Equal(t, 2, opts.NumberOfAccounts)
	assert.Equal(t, typed.Mnemonic(), opts.Mnemonic)

	restored, err := hd.New(ctx, payload)
	require.NoError(t, err)

	before, err := kr.Addresses(ctx)
	require.NoError(t, err)
	after, err := restored.Addresses(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestInvalidOptions(t *testing.T) {
	ctx := t.Context()

	_, err := hd.NewFromOptions(ctx, hd.Options{Mnemonic: "not a real seed phrase", NumberOfAccounts: 1})
	require.ErrorIs(t, err, keyring.ErrInvalidSeedPhrase)

	_, err = hd.NewFromOptions(ctx, hd.Options{Mnemonic: testMnemonic, HDPath: "44'/60'"})
	require.Error(t, err)

	_, err = hd.New(ctx, json.RawMessage(`{"numberOfAccounts":"one"}`))
	require.Error(t, err)
}

func TestWipe(t *testing.T) {
	ctx := t.Context()

	kr, err := hd.NewFromOptions(ctx, hd.Options{Mnemonic: testMnemonic, NumberOfAccounts: 1})
	require.NoError(t, err)

	addrs, err := kr.Addresses(ctx)
	require.NoError(t, err)

	kr.Wipe()
	assert.Empty(t, kr.Mnemonic())

	_, err = kr.ExportAccount(ctx, addrs[0])
	require.ErrorIs(t, err, keyring.ErrWiped)
	_, err = kr.Serialize(ctx)
	require.ErrorIs(t, err, keyring.ErrWiped)
	_, err = kr.AddAddresses(ctx, 1)
	require.ErrorIs(t, err, keyring.ErrWiped)
}

func TestAddAddressesRejectsNegativeCount(t *testing.T) {
	ctx := t.Context()

	kr, err := hd.NewFromOptions(ctx, hd.Options{Mnemonic: testMnemonic, NumberOfAccounts: 1})
	require.NoError(t, err)

	_, err = kr.AddAddresses(ctx, -1)
	require.ErrorIs(t, err, keyring.ErrInvalidAccountCount)

	addrs, err := kr.Addresses(ctx)
	require.NoError(t, err)
	assert.Len(t, addrs, 1)

	_, err = hd.NewFromOptions(ctx, hd.Options{Mnemonic: testMnemonic, NumberOfAccounts: -2})
	require.ErrorIs(t, err, keyring.ErrInvalidAccountCount)
}
