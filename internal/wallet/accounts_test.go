package wallet_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-keyring/internal/test"
	"github/chapool/go-keyring/internal/wallet"
	"github/chapool/go-keyring/internal/wallet/keyring"
	"github/chapool/go-keyring/internal/wallet/keyring/hd"
	"github/chapool/go-keyring/internal/wallet/keyring/simple"
	"github/chapool/go-keyring/internal/wallet/vault"
)

func restored(t *testing.T, cfg wallet.Config) *wallet.Controller {
	t.Helper()

	c := test.NewTestController(t, cfg)
	_, err := c.CreateNewVaultAndRestore(t.Context(), test.Password, test.Mnemonic)
	require.NoError(t, err)

	return c
}

func TestAddNewKeyringSimple(t *testing.T) {
	ctx := t.Context()
	c := restored(t, wallet.Config{})

	kr, err := c.AddNewKeyring(ctx, simple.Type, simple.Options{test.PrivateKey})
	require.NoError(t, err)
	assert.Equal(t, simple.Type, kr.Type())

	accounts, err := c.GetAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{test.FirstAccount, test.PrivateKeyAccount}, accounts)

	state := c.State()
	require.Len(t, state.Keyrings, 2)
	assert.Equal(t, simple.Type, state.Keyrings[1].Type)
	assert.Equal(t, []string{test.PrivateKeyAccount}, state.Keyrings[1].Accounts)

	// the raw key never shows up in the display state
	raw, err := json.Marshal(state)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), strings.TrimPrefix(test.PrivateKey, "0x"))
}

func TestAddNewKeyringRejectsDuplicate(t *testing.T) {
	ctx := t.Context()
	c := restored(t, wallet.Config{})

	_, err := c.AddNewKeyring(ctx, simple.Type, simple.Options{test.PrivateKey})
	require.NoError(t, err)

	// same key without the 0x prefix
	_, err = c.AddNewKeyring(ctx, simple.Type, simple.Options{strings.TrimPrefix(test.PrivateKey, "0x")})
	require.ErrorIs(t, err, wallet.ErrDuplicateAccount)

	assert.Len(t, c.GetKeyringsByType(simple.Type), 1)
	assert.Len(t, c.State().Keyrings, 2)
}

func TestAddNewKeyringUnknownType(t *testing.T) {
	c := restored(t, wallet.Config{})

	_, err := c.AddNewKeyring(t.Context(), "Trezor Hardware", nil)
	require.ErrorIs(t, err, keyring.ErrUnknownKeyringType)
}

func TestAddNewKeyringInvalidPrivateKey(t *testing.T) {
	c := restored(t, wallet.Config{})

	_, err := c.AddNewKeyring(t.Context(), simple.Type, simple.Options{"0x1234"})
	require.ErrorIs(t, err, keyring.ErrInvalidPrivateKey)
	assert.Len(t, c.State().Keyrings, 1)
}

func TestAddNewKeyringRollsBackOnPersistFailure(t *testing.T) {
	ctx := t.Context()
	store := &failingStore{Store: vault.NewMemoryStore("")}
	c := restored(t, wallet.Config{Store: store})

	store.setFail(true)
	_, err := c.AddNewKeyring(ctx, simple.Type, simple.Options{test.PrivateKey})
	require.Error(t, err)

	accounts, err := c.GetAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{test.FirstAccount}, accounts)
	assert.Empty(t, c.GetKeyringsByType(simple.Type))
}

func TestAddNewKeyringRawOptions(t *testing.T) {
	ctx := t.Context()
	c := restored(t, wallet.Config{})

	kr, err := c.AddNewKeyring(ctx, hd.Type, json.RawMessage(`{"numberOfAccounts":2}`))
	require.NoError(t, err)

	addrs, err := kr.Addresses(ctx)
	require.NoError(t, err)
	assert.Len(t, addrs, 2)
	assert.Len(t, c.GetKeyringsByType(hd.Type), 2)
}

func TestAddNewKeyringCustomType(t *testing.T) {
	ctx := t.Context()

	custom := func(ctx context.Context, opts json.RawMessage) (keyring.Keyring, error) {
		return simple.New(ctx, opts)
	}

	c := restored(t, wallet.Config{
		KeyringTypes: []wallet.KeyringType{{Name: "Custom Keys", Constructor: custom}},
	})
	assert.Equal(t, []string{simple.Type, hd.Type, "Custom Keys"}, c.State().KeyringTypes)

	// duplicate checking only applies to the simple type
	_, err := c.AddNewKeyring(ctx, simple.Type, simple.Options{test.PrivateKey})
	require.NoError(t, err)
	_, err = c.AddNewKeyring(ctx, "Custom Keys", simple.Options{test.PrivateKey})
	require.NoError(t, err)
}

func TestCheckForDuplicate(t *testing.T) {
	ctx := t.Context()
	c := restored(t, wallet.Config{})

	require.ErrorIs(t, c.CheckForDuplicate(ctx, simple.Type, []string{test.FirstAccount}), wallet.ErrDuplicateAccount)
	require.ErrorIs(t, c.CheckForDuplicate(ctx, simple.Type, []string{strings.ToUpper(test.FirstAccount[2:])}), wallet.ErrDuplicateAccount)
	require.NoError(t, c.CheckForDuplicate(ctx, simple.Type, []string{test.PrivateKeyAccount}))
	require.NoError(t, c.CheckForDuplicate(ctx, simple.Type, nil))
	require.NoError(t, c.CheckForDuplicate(ctx, hd.Type, []string{test.FirstAccount}))
}

func TestAddNewAccount(t *testing.T) {
	ctx := t.Context()
	c := restored(t, wallet.Config{})

	accounts := make(chan wallet.Event, 1)
	_, err := c.Subscribe(wallet.EventNewAccount, accounts)
	require.NoError(t, err)

	kr := c.GetKeyringsByType(hd.Type)[0]
	state, err := c.AddNewAccount(ctx, kr)
	require.NoError(t, err)
	require.Len(t, state.Keyrings[0].Accounts, 2)

	ev := receive(t, accounts)
	assert.Equal(t, state.Keyrings[0].Accounts[1], ev.Address)
	assert.Equal(t, "0x70997970c51812dc3a010c7d01b50e0d17dc79c8", ev.Address)
}

func TestAddNewAccountForeignKeyring(t *testing.T) {
	ctx := t.Context()
	c := restored(t, wallet.Config{})

	foreign, err := hd.New(ctx, nil)
	require.NoError(t, err)

	_, err = c.AddNewAccount(ctx, foreign)
	require.ErrorIs(t, err, wallet.ErrKeyringNotFound)
}

func TestImportWallet(t *testing.T) {
	ctx := t.Context()
	c := restored(t, wallet.Config{})

	addr, err := c.ImportWallet(ctx, test.PrivateKey)
	require.NoError(t, err)
	assert.True(t, strings.EqualFold("0x9E1447ea3F6abA7a5D344B360B95Fd9BAE049448", addr))
	assert.Equal(t, []string{test.PrivateKeyAccount}, c.ImportedWallets())

	_, err = c.ImportWallet(ctx, test.PrivateKey)
	require.ErrorIs(t, err, wallet.ErrDuplicateAccount)

	// imported wallets are not written to the vault
	accounts, err := c.GetAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{test.FirstAccount}, accounts)
}

func TestImportWalletRejectsManagedAccount(t *testing.T) {
	c := restored(t, wallet.Config{})

	// first account of the fixture mnemonic
	_, err := c.ImportWallet(t.Context(), "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80")
	require.ErrorIs(t, err, wallet.ErrDuplicateAccount)
}

func TestImportWalletInvalidKey(t *testing.T) {
	c := restored(t, wallet.Config{})

	for _, key := range []string{"", "0xzz", "0x00", strings.Repeat("0", 64)} {
		_, err := c.ImportWallet(t.Context(), key)
		require.ErrorIs(t, err, keyring.ErrInvalidPrivateKey, key)
	}
	assert.Empty(t, c.ImportedWallets())
}

func TestGetKeyringForAccount(t *testing.T) {
	ctx := t.Context()
	c := restored(t, wallet.Config{})

	kr, err := c.GetKeyringForAccount(ctx, strings.ToUpper(test.FirstAccount[2:]))
	require.NoError(t, err)
	assert.Equal(t, hd.Type, kr.Type())

	_, err = c.GetKeyringForAccount(ctx, test.PrivateKeyAccount)
	require.ErrorIs(t, err, wallet.ErrNoOwningKeyring)
}

func TestAccountOperationsRequireUnlock(t *testing.T) {
	ctx := t.Context()
	c := restored(t, wallet.Config{})
	kr := c.GetKeyringsByType(hd.Type)[0]
	c.SetLocked(ctx)

	_, err := c.AddNewKeyring(ctx, simple.Type, simple.Options{test.PrivateKey})
	require.ErrorIs(t, err, wallet.ErrLocked)

	_, err = c.AddNewAccount(ctx, kr)
	require.ErrorIs(t, err, wallet.ErrLocked)

	_, err = c.ImportWallet(ctx, test.PrivateKey)
	require.ErrorIs(t, err, wallet.ErrLocked)
}
