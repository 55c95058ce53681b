package simple_test

import (
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-keyring/internal/wallet/keyring"
	"github/chapool/go-keyring/internal/wallet/keyring/simple"
	"github/chapool/go-keyring/internal/wallet/signer"
)

const (
	externalPrivateKey = "0xbcb7a8680126610ca94440b020280f9ef82194a4dc2760653073b5f5b150c9c3"
	externalAddress    = "0x9E1447ea3F6abA7a5D344B360B95Fd9BAE049448"
)

func TestNewFromPrivateKeys(t *testing.T) {
	ctx := t.Context()

	opts, err := json.Marshal(simple.Options{externalPrivateKey})
	require.NoError(t, err)

	kr, err := simple.New(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, simple.Type, kr.Type())

	addrs, err := kr.Addresses(ctx)
	require.NoError(t, err)
	assert.Equal(t, []common.Address{common.HexToAddress(externalAddress)}, addrs)

	exported, err := kr.ExportAccount(ctx, addrs[0])
	require.NoError(t, err)
	assert.Equal(t, externalPrivateKey[2:], exported)
}

func TestNewRejectsInvalidKeys(t *testing.T) {
	ctx := t.Context()

	for _, bad := range []string{
		"random_private_key",
		"0xbcb7a8680126610ca94440b020280f9ef829ad26637bfb5cc",
		"QUWL7cmUp9Cj9DF3gLFqqSipopXyzuF4QXmDNV3ZTZ28GB6Ug98Z",
		"0x0000000000000000000000000000000000000000000000000000000000000000",
	} {
		opts, err := json.Marshal(simple.Options{bad})
		require.NoError(t, err)

		_, err = simple.New(ctx, opts)
		require.ErrorIs(t, err, keyring.ErrInvalidPrivateKey, bad)
	}
}

func TestAddAddressesAndRoundTrip(t *testing.T) {
	ctx := t.Context()

	kr, err := simple.New(ctx, nil)
	require.NoError(t, err)

	added, err := kr.AddAddresses(ctx, 2)
	require.NoError(t, err)
	require.Len(t, added, 2)

	payload, err := kr.Serialize(ctx)
	require.NoError(t, err)

	restored, err := simple.New(ctx, payload)
	require.NoError(t, err)

	addrs, err := restored.Addresses(ctx)
	require.NoError(t, err)
	assert.Equal(t, added, addrs)
}

func TestSignAndWipe(t *testing.T) {
	ctx := t.Context()

	opts, err := json.Marshal(simple.Options{externalPrivateKey})
	require.NoError(t, err)
	kr, err := simple.New(ctx, opts)
	require.NoError(t, err)

	from := common.HexToAddress(externalAddress)
	sig, err := kr.SignMessage(ctx, from, []byte("ThisMessageOneIsForTesting"), nil)
	require.NoError(t, err)

	recovered, err := signer.RecoverPersonal([]byte("ThisMessageOneIsForTesting"), sig)
	require.NoError(t, err)
	assert.Equal(t, from, recovered)

	other, err := crypto.GenerateKey()
	require.NoError(t, err)
	_, err = kr.SignMessage(ctx, crypto.PubkeyToAddress(other.PublicKey), []byte("x"), nil)
	require.ErrorIs(t, err, keyring.ErrUnknownAddress)

	kr.Wipe()
	_, err = kr.Addresses(ctx)
	require.ErrorIs(t, err, keyring.ErrWiped)
	_, err = kr.ExportAccount(ctx, from)
	require.ErrorIs(t, err, keyring.ErrWiped)
}

func TestAddAddressesRejectsNegativeCount(t *testing.T) {
	ctx := t.Context()

	kr, err := simple.New(ctx, nil)
	require.NoError(t, err)

	_, err = kr.AddAddresses(ctx, -1)
	require.ErrorIs(t, err, keyring.ErrInvalidAccountCount)

	addrs, err := kr.Addresses(ctx)
	require.NoError(t, err)
	assert.Empty(t, addrs)
}
