package wallet

import (
	"context"
	"slices"

	"github.com/pkg/errors"
	"github/chapool/go-keyring/internal/util"
	"github/chapool/go-keyring/internal/wallet/address"
	"github/chapool/go-keyring/internal/wallet/keyring"
	"github/chapool/go-keyring/internal/wallet/keyring/simple"
)

// AddNewKeyring constructs a keyring of the registered type, appends it and persists the
// vault. opts is passed to the constructor as JSON; json.RawMessage is forwarded as is.
// If persisting fails the keyring is removed again and the error returned.
//
//nolint:ireturn // the concrete type depends on the registered provider
func (c *Controller) AddNewKeyring(ctx context.Context, typeName string, opts any) (kr keyring.Keyring, err error) {
	var events []Event
	defer func() {
		if err == nil {
			c.notify(events)
		}
	}()

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.unlocked {
		return nil, ErrLocked
	}

	kr, err = c.construct(ctx, typeName, opts)
	if err != nil {
		return nil, err
	}

	addrs, err := normalizedAddresses(ctx, kr)
	if err != nil {
		kr.Wipe()
		return nil, err
	}

	if err := c.checkForDuplicate(ctx, typeName, addrs); err != nil {
		kr.Wipe()
		return nil, err
	}

	c.keyrings = append(c.keyrings, kr)

	if err := c.persistAll(ctx, ""); err != nil {
		c.keyrings = c.keyrings[:len(c.keyrings)-1]
		kr.Wipe()
		return nil, err
	}

	util.LogFromContext(ctx).Debug().Str("type", typeName).Int("accounts", len(addrs)).Msg("Added keyring")

	c.fullUpdate(ctx, &events)

	return kr, nil
}

// CheckForDuplicate fails with ErrDuplicateAccount if typeName is the simple keyring type
// and the first candidate address is already managed. Other types are never checked.
func (c *Controller) CheckForDuplicate(ctx context.Context, typeName string, candidates []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.checkForDuplicate(ctx, typeName, candidates)
}

func (c *Controller) checkForDuplicate(ctx context.Context, typeName string, candidates []string) error {
	if typeName != simple.Type || len(candidates) == 0 {
		return nil
	}

	accounts, err := c.accounts(ctx)
	if err != nil {
		return err
	}

	candidate := address.Normalize(candidates[0])
	if slices.Contains(accounts, candidate) {
		return errors.Wrap(ErrDuplicateAccount, candidate)
	}

	return nil
}

// AddNewAccount adds one account to kr, which must be a keyring held by this controller,
// and persists the vault. A failed persist leaves the new account in memory.
func (c *Controller) AddNewAccount(ctx context.Context, kr keyring.Keyring) (state State, err error) {
	var events []Event
	defer func() {
		if err == nil {
			c.notify(events)
		}
	}()

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.unlocked {
		return State{}, ErrLocked
	}

	if !slices.Contains(c.keyrings, kr) {
		return State{}, ErrKeyringNotFound
	}

	added, err := kr.AddAddresses(ctx, 1)
	if err != nil {
		return State{}, err
	}

	for _, addr := range added {
		events = append(events, Event{Kind: EventNewAccount, Address: address.Hex(addr)})
	}

	if err := c.persistAll(ctx, ""); err != nil {
		return State{}, err
	}

	return c.fullUpdate(ctx, &events), nil
}

// ImportWallet derives the address of a raw private key and records it as imported.
// Imported wallets live in memory only and are forgotten on lock.
func (c *Controller) ImportWallet(ctx context.Context, privateKeyHex string) (string, error) {
	key, err := keyring.ParsePrivateKey(privateKeyHex)
	if err != nil {
		return "", err
	}
	defer keyring.ZeroKey(key)

	addr, err := address.FromPrivateKey(key)
	if err != nil {
		return "", err
	}
	normalized := address.Hex(addr)

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.unlocked {
		return "", ErrLocked
	}

	accounts, err := c.accounts(ctx)
	if err != nil {
		return "", err
	}

	if slices.Contains(accounts, normalized) || slices.Contains(c.imported, normalized) {
		return "", errors.Wrap(ErrDuplicateAccount, normalized)
	}

	c.imported = append(c.imported, normalized)

	util.LogFromContext(ctx).Debug().Str("address", normalized).Msg("Imported wallet")

	return normalized, nil
}

// ImportedWallets returns the addresses recorded by ImportWallet.
func (c *Controller) ImportedWallets() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]string{}, c.imported...)
}

// GetAccounts returns the normalized addresses of all keyrings in keyring order.
func (c *Controller) GetAccounts(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.accounts(ctx)
}

// GetKeyringForAccount returns the first keyring managing addr.
//
//nolint:ireturn // the concrete type depends on the registered provider
func (c *Controller) GetKeyringForAccount(ctx context.Context, addr string) (keyring.Keyring, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.keyringForAccount(ctx, addr)
}

//nolint:ireturn
func (c *Controller) keyringForAccount(ctx context.Context, addr string) (keyring.Keyring, error) {
	target := address.Normalize(addr)

	for _, kr := range c.keyrings {
		accounts, err := normalizedAddresses(ctx, kr)
		if err != nil {
			return nil, err
		}

		if slices.Contains(accounts, target) {
			return kr, nil
		}
	}

	return nil, errors.Wrap(ErrNoOwningKeyring, target)
}

// GetKeyringsByType returns all live keyrings of the given type in keyring order.
func (c *Controller) GetKeyringsByType(typeName string) []keyring.Keyring {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := make([]keyring.Keyring, 0, len(c.keyrings))
	for _, kr := range c.keyrings {
		if kr.Type() == typeName {
			res = append(res, kr)
		}
	}

	return res
}

func (c *Controller) accounts(ctx context.Context) ([]string, error) {
	res := []string{}
	for _, kr := range c.keyrings {
		accounts, err := normalizedAddresses(ctx, kr)
		if err != nil {
			return nil, err
		}
		res = append(res, accounts...)
	}

	return res, nil
}

func normalizedAddresses(ctx context.Context, kr keyring.Keyring) ([]string, error) {
	addrs, err := kr.Addresses(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list addresses of keyring %q", kr.Type())
	}

	return address.NormalizeAll(addrs), nil
}
