package wallet_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-keyring/internal/test"
	"github/chapool/go-keyring/internal/util"
	"github/chapool/go-keyring/internal/wallet"
	"github/chapool/go-keyring/internal/wallet/keyring"
	"github/chapool/go-keyring/internal/wallet/keyring/hd"
	"github/chapool/go-keyring/internal/wallet/keyring/simple"
	"github/chapool/go-keyring/internal/wallet/vault"
)

type failingStore struct {
	vault.Store

	mu   sync.Mutex
	fail bool
}

func (s *failingStore) setFail(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = fail
}

func (s *failingStore) Save(ctx context.Context, v string) error {
	s.mu.Lock()
	fail := s.fail
	s.mu.Unlock()

	if fail {
		return errors.New("disk full")
	}

	return s.Store.Save(ctx, v)
}

func receive(t *testing.T, ch <-chan wallet.Event) wallet.Event {
	t.Helper()

	select {
	case ev := <-ch:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}

	return wallet.Event{}
}

func TestNewControllerState(t *testing.T) {
	c := test.NewTestController(t, wallet.Config{})

	state := c.State()
	assert.False(t, state.IsUnlocked)
	assert.Equal(t, []string{simple.Type, hd.Type}, state.KeyringTypes)
	assert.Empty(t, state.Keyrings)
}

func TestNewControllerRejectsDuplicateType(t *testing.T) {
	_, err := wallet.NewController(wallet.Config{
		KeyringTypes: []wallet.KeyringType{{Name: hd.Type, Constructor: hd.New}},
	})
	require.ErrorIs(t, err, keyring.ErrDuplicateType)
}

func TestCreateNewVaultAndKeychain(t *testing.T) {
	test.WithTestController(t, func(c *wallet.Controller, store *vault.MemoryStore) {
		ctx := t.Context()

		created := make(chan wallet.Event, 1)
		unlocked := make(chan wallet.Event, 1)
		_, err := c.Subscribe(wallet.EventVaultCreated, created)
		require.NoError(t, err)
		_, err = c.Subscribe(wallet.EventUnlocked, unlocked)
		require.NoError(t, err)

		state, err := c.CreateNewVaultAndKeychain(ctx, test.Password)
		require.NoError(t, err)

		assert.True(t, state.IsUnlocked)
		require.Len(t, state.Keyrings, 1)
		assert.Equal(t, hd.Type, state.Keyrings[0].Type)
		require.Len(t, state.Keyrings[0].Accounts, 1)

		ev := receive(t, created)
		assert.Equal(t, state.Keyrings[0].Accounts[0], ev.Address)
		receive(t, unlocked)

		stored, err := store.Load(ctx)
		require.NoError(t, err)
		assert.NotContains(t, stored, "mnemonic")
		assert.True(t, c.IsUnlocked())
	})
}

func TestCreateNewVaultRequiresPassword(t *testing.T) {
	test.WithTestController(t, func(c *wallet.Controller, store *vault.MemoryStore) {
		_, err := c.CreateNewVaultAndKeychain(t.Context(), "")
		require.ErrorIs(t, err, wallet.ErrInvalidPassword)

		_, err = c.CreateNewVaultAndRestore(t.Context(), "", test.Mnemonic)
		require.ErrorIs(t, err, wallet.ErrInvalidPassword)

		_, err = store.Load(t.Context())
		require.ErrorIs(t, err, vault.ErrNoVault)
	})
}

func TestCreateNewVaultAndRestore(t *testing.T) {
	test.WithTestController(t, func(c *wallet.Controller, _ *vault.MemoryStore) {
		ctx := t.Context()

		state, err := c.CreateNewVaultAndRestore(ctx, test.Password, test.Mnemonic)
		require.NoError(t, err)
		require.Len(t, state.Keyrings, 1)
		assert.Equal(t, []string{test.FirstAccount}, state.Keyrings[0].Accounts)

		// restoring the same phrase again yields the same account
		state, err = c.CreateNewVaultAndRestore(ctx, "another password", test.Mnemonic)
		require.NoError(t, err)
		require.Len(t, state.Keyrings, 1)
		assert.Equal(t, []string{test.FirstAccount}, state.Keyrings[0].Accounts)
	})
}

func TestCreateNewVaultAndRestoreInvalidSeedKeepsState(t *testing.T) {
	test.WithTestController(t, func(c *wallet.Controller, store *vault.MemoryStore) {
		ctx := t.Context()

		_, err := c.CreateNewVaultAndRestore(ctx, test.Password, test.Mnemonic)
		require.NoError(t, err)

		before, err := store.Load(ctx)
		require.NoError(t, err)
		stateBefore := c.State()

		_, err = c.CreateNewVaultAndRestore(ctx, test.Password, "test test test")
		require.ErrorIs(t, err, keyring.ErrInvalidSeedPhrase)

		after, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after)
		assert.Equal(t, stateBefore, c.State())

		accounts, err := c.GetAccounts(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{test.FirstAccount}, accounts)
	})
}

func TestCreateNewVaultFailedPersistKeepsState(t *testing.T) {
	store := &failingStore{Store: vault.NewMemoryStore("")}
	c := test.NewTestController(t, wallet.Config{Store: store})
	ctx := t.Context()

	_, err := c.CreateNewVaultAndRestore(ctx, test.Password, test.Mnemonic)
	require.NoError(t, err)

	store.setFail(true)
	_, err = c.CreateNewVaultAndKeychain(ctx, test.Password)
	require.Error(t, err)

	accounts, err := c.GetAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{test.FirstAccount}, accounts)
}

func TestLockAndSubmitPassword(t *testing.T) {
	test.WithTestController(t, func(c *wallet.Controller, _ *vault.MemoryStore) {
		ctx := t.Context()

		_, err := c.CreateNewVaultAndRestore(ctx, test.Password, test.Mnemonic)
		require.NoError(t, err)
		_, err = c.AddNewKeyring(ctx, simple.Type, simple.Options{test.PrivateKey})
		require.NoError(t, err)
		_, err = c.ImportWallet(ctx, "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318")
		require.NoError(t, err)

		locks := make(chan wallet.Event, 1)
		_, err = c.Subscribe(wallet.EventLock, locks)
		require.NoError(t, err)

		state := c.SetLocked(ctx)
		receive(t, locks)
		assert.False(t, state.IsUnlocked)
		assert.Empty(t, state.Keyrings)
		assert.Empty(t, c.ImportedWallets())

		// nothing to persist with once the password is forgotten
		require.ErrorIs(t, c.PersistAllKeyrings(ctx, ""), wallet.ErrMissingPassword)

		_, err = c.SubmitPassword(ctx, "wrong password")
		require.ErrorIs(t, err, vault.ErrIncorrectPassword)
		require.ErrorIs(t, err, vault.ErrDecryption)
		assert.False(t, c.IsUnlocked())

		state, err = c.SubmitPassword(ctx, test.Password)
		require.NoError(t, err)
		assert.True(t, state.IsUnlocked)

		accounts, err := c.GetAccounts(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{test.FirstAccount, test.PrivateKeyAccount}, accounts)
	})
}

func TestSubmitPasswordWithoutVault(t *testing.T) {
	test.WithTestController(t, func(c *wallet.Controller, _ *vault.MemoryStore) {
		_, err := c.SubmitPassword(t.Context(), test.Password)
		require.ErrorIs(t, err, vault.ErrNoVault)

		_, err = c.SubmitPassword(t.Context(), "")
		require.ErrorIs(t, err, wallet.ErrInvalidPassword)
	})
}

func TestHasVault(t *testing.T) {
	test.WithTestController(t, func(c *wallet.Controller, _ *vault.MemoryStore) {
		ok, err := c.HasVault(t.Context())
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = c.CreateNewVaultAndRestore(t.Context(), test.Password, test.Mnemonic)
		require.NoError(t, err)

		ok, err = c.HasVault(t.Context())
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestSubmitPasswordCorruptVault(t *testing.T) {
	store := vault.NewMemoryStore("{not a vault")
	c := test.NewTestController(t, wallet.Config{Store: store})

	_, err := c.SubmitPassword(t.Context(), test.Password)
	require.ErrorIs(t, err, vault.ErrCorruptVault)
}

func TestSubmitPasswordUnknownKeyringType(t *testing.T) {
	ctx := t.Context()
	codec := vault.NewCodec(test.FastScryptParams())

	ciphertext, err := codec.Encrypt(test.Password, []keyring.Serialized{
		{Type: "Ledger Hardware", Data: json.RawMessage(`{}`)},
	})
	require.NoError(t, err)

	c := test.NewTestController(t, wallet.Config{Codec: codec, Store: vault.NewMemoryStore(ciphertext)})

	_, err = c.SubmitPassword(ctx, test.Password)
	require.ErrorIs(t, err, keyring.ErrUnknownKeyringType)
	assert.False(t, c.IsUnlocked())
}

func TestVaultRoundTripAcrossControllers(t *testing.T) {
	ctx := t.Context()
	store := vault.NewMemoryStore("")
	codec := vault.NewCodec(test.FastScryptParams())

	first := test.NewTestController(t, wallet.Config{Store: store, Codec: codec})
	_, err := first.CreateNewVaultAndRestore(ctx, test.Password, test.Mnemonic)
	require.NoError(t, err)

	hdKeyring := first.GetKeyringsByType(hd.Type)[0]
	_, err = first.AddNewAccount(ctx, hdKeyring)
	require.NoError(t, err)
	_, err = first.AddNewKeyring(ctx, simple.Type, simple.Options{test.PrivateKey})
	require.NoError(t, err)

	want, err := first.GetAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, want, 3)

	second := test.NewTestController(t, wallet.Config{Store: store, Codec: codec})
	_, err = second.SubmitPassword(ctx, test.Password)
	require.NoError(t, err)

	got, err := second.GetAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, first.State(), second.State())
}

func TestPersistAllKeyringsWithNewPassword(t *testing.T) {
	test.WithTestController(t, func(c *wallet.Controller, _ *vault.MemoryStore) {
		ctx := t.Context()

		_, err := c.CreateNewVaultAndRestore(ctx, test.Password, test.Mnemonic)
		require.NoError(t, err)
		require.NoError(t, c.PersistAllKeyrings(ctx, "new password"))

		c.SetLocked(ctx)

		_, err = c.SubmitPassword(ctx, test.Password)
		require.ErrorIs(t, err, vault.ErrIncorrectPassword)

		_, err = c.SubmitPassword(ctx, "new password")
		require.NoError(t, err)
	})
}

func TestClearKeyrings(t *testing.T) {
	test.WithTestController(t, func(c *wallet.Controller, store *vault.MemoryStore) {
		ctx := t.Context()

		_, err := c.CreateNewVaultAndRestore(ctx, test.Password, test.Mnemonic)
		require.NoError(t, err)
		before, err := store.Load(ctx)
		require.NoError(t, err)

		state := c.ClearKeyrings(ctx)
		assert.Empty(t, state.Keyrings)

		accounts, err := c.GetAccounts(ctx)
		require.NoError(t, err)
		assert.Empty(t, accounts)

		after, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

func TestSubscribeUnknownKind(t *testing.T) {
	c := test.NewTestController(t, wallet.Config{})

	_, err := c.Subscribe("bogus", make(chan wallet.Event))
	require.Error(t, err)
}

func TestUpdateEventAfterPersist(t *testing.T) {
	test.WithTestController(t, func(c *wallet.Controller, store *vault.MemoryStore) {
		ctx := t.Context()

		updates := make(chan wallet.Event)
		done := make(chan []string, 1)
		vaults := make(chan string, 1)

		_, err := c.Subscribe(wallet.EventUpdate, updates)
		require.NoError(t, err)

		go func() {
			<-updates
			stored, _ := store.Load(ctx)
			vaults <- stored

			// calling back into the controller from a subscriber must not block
			accounts, _ := c.GetAccounts(ctx)
			done <- accounts
		}()

		state, err := c.CreateNewVaultAndRestore(ctx, test.Password, test.Mnemonic)
		require.NoError(t, err)

		select {
		case accounts := <-done:
			assert.Equal(t, []string{test.FirstAccount}, accounts)
		case <-time.After(5 * time.Second):
			t.Fatal("subscriber did not finish")
		}

		assert.NotEmpty(t, <-vaults)
		assert.True(t, state.IsUnlocked)
	})
}

func TestVerifyPassword(t *testing.T) {
	test.WithTestController(t, func(c *wallet.Controller, _ *vault.MemoryStore) {
		ctx := t.Context()

		require.ErrorIs(t, c.VerifyPassword(ctx, test.Password), vault.ErrNoVault)

		_, err := c.CreateNewVaultAndRestore(ctx, test.Password, test.Mnemonic)
		require.NoError(t, err)

		require.NoError(t, c.VerifyPassword(ctx, test.Password))
		require.ErrorIs(t, c.VerifyPassword(ctx, "nope"), vault.ErrIncorrectPassword)
		require.ErrorIs(t, c.VerifyPassword(ctx, ""), wallet.ErrInvalidPassword)
		assert.True(t, c.IsUnlocked())
	})
}

func TestSetUnlocked(t *testing.T) {
	test.WithTestController(t, func(c *wallet.Controller, _ *vault.MemoryStore) {
		ctx := t.Context()

		_, err := c.CreateNewVaultAndRestore(ctx, test.Password, test.Mnemonic)
		require.NoError(t, err)
		c.SetLocked(ctx)
		require.False(t, c.State().IsUnlocked)

		unlocked := make(chan wallet.Event, 1)
		updates := make(chan wallet.Event, 1)
		_, err = c.Subscribe(wallet.EventUnlocked, unlocked)
		require.NoError(t, err)
		_, err = c.Subscribe(wallet.EventUpdate, updates)
		require.NoError(t, err)

		state := c.SetUnlocked(ctx)
		assert.True(t, state.IsUnlocked)
		assert.True(t, c.IsUnlocked())
		assert.True(t, c.State().IsUnlocked)

		receive(t, unlocked)
		ev := receive(t, updates)
		require.NotNil(t, ev.State)
		assert.True(t, ev.State.IsUnlocked)
	})
}

// brokenKeyring is a simple keyring whose address listing can be made to fail.
type brokenKeyring struct {
	keyring.Keyring

	fail *atomic.Bool
}

func (k *brokenKeyring) Type() string { return "Broken Key Pair" }

func (k *brokenKeyring) Addresses(ctx context.Context) ([]common.Address, error) {
	if k.fail.Load() {
		return nil, errors.New("device unplugged")
	}

	return k.Keyring.Addresses(ctx)
}

func TestStateShowsFailingKeyringWithoutAccounts(t *testing.T) {
	fail := &atomic.Bool{}
	c := test.NewTestController(t, wallet.Config{
		KeyringTypes: []wallet.KeyringType{{
			Name: "Broken Key Pair",
			Constructor: func(ctx context.Context, opts json.RawMessage) (keyring.Keyring, error) {
				inner, err := simple.New(ctx, opts)
				if err != nil {
					return nil, err
				}

				return &brokenKeyring{Keyring: inner, fail: fail}, nil
			},
		}},
	})

	var logs bytes.Buffer
	ctx := util.WithLogger(t.Context(), zerolog.New(&logs))

	_, err := c.CreateNewVaultAndRestore(ctx, test.Password, test.Mnemonic)
	require.NoError(t, err)
	_, err = c.AddNewKeyring(ctx, "Broken Key Pair", simple.Options{test.PrivateKey})
	require.NoError(t, err)

	fail.Store(true)

	state := c.SetUnlocked(ctx)
	require.Len(t, state.Keyrings, 2)
	assert.Equal(t, []string{test.FirstAccount}, state.Keyrings[0].Accounts)
	assert.Equal(t, "Broken Key Pair", state.Keyrings[1].Type)
	assert.Empty(t, state.Keyrings[1].Accounts)
	assert.Contains(t, logs.String(), "device unplugged")
}

func TestCreateNewVaultAndRestoreIsStable(t *testing.T) {
	const mnemonic = "affair entry detect broom axis crawl found valve bamboo taste broken hundred"
	const password = "random_password"

	test.WithTestController(t, func(c *wallet.Controller, _ *vault.MemoryStore) {
		ctx := t.Context()

		state, err := c.CreateNewVaultAndRestore(ctx, password, mnemonic)
		require.NoError(t, err)
		require.Len(t, state.Keyrings, 1)
		require.Len(t, state.Keyrings[0].Accounts, 1)

		first := state.Keyrings[0].Accounts[0]
		assert.True(t, strings.HasPrefix(first, "0xa22a"), first)
		assert.True(t, strings.HasSuffix(first, "4647"), first)

		state, err = c.CreateNewVaultAndRestore(ctx, password, mnemonic)
		require.NoError(t, err)
		require.Len(t, state.Keyrings, 1)
		assert.Equal(t, []string{first}, state.Keyrings[0].Accounts)

		// hd keyrings may re-derive known addresses
		_, err = c.AddNewKeyring(ctx, hd.Type, hd.Options{Mnemonic: mnemonic, NumberOfAccounts: 1})
		require.NoError(t, err)

		accounts, err := c.GetAccounts(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{first, first}, accounts)
	})
}
