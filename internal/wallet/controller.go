// Package wallet implements the keyring controller: it owns the live keyrings, persists
// them as one encrypted vault, routes signing to the keyring owning an address and
// publishes a redacted display state to observers.
package wallet

import (
	"context"
	"encoding/json"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"
	"github/chapool/go-keyring/internal/util"
	"github/chapool/go-keyring/internal/wallet/keyring"
	"github/chapool/go-keyring/internal/wallet/keyring/hd"
	"github/chapool/go-keyring/internal/wallet/keyring/simple"
	"github/chapool/go-keyring/internal/wallet/vault"
)

// ChainIDReader supplies the chain id when a transaction signing request carries none.
type ChainIDReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

// KeyringType registers an additional keyring provider with the controller.
type KeyringType struct {
	Name        string
	Constructor keyring.Constructor
}

type Config struct {
	// Registry overrides the default registry holding the simple and hd providers.
	Registry *keyring.Registry
	// KeyringTypes are registered after the defaults. Reusing a name fails.
	KeyringTypes []KeyringType
	// Codec defaults to the scrypt keystore codec with standard parameters.
	Codec vault.Codec
	// Store defaults to an empty in memory store.
	Store vault.Store
	// Network is optional. Without it transactions must carry their chain id.
	Network ChainIDReader
	// Metrics is optional.
	Metrics Recorder
}

// Controller is the single owner of all live keyrings. Every operation runs under one
// mutex so that operations on the same controller are serialized. Events are delivered
// after the mutex has been released, so subscribers may call back into the controller.
type Controller struct {
	mu sync.Mutex

	registry *keyring.Registry
	codec    vault.Codec
	store    vault.Store
	network  ChainIDReader
	metrics  Recorder

	password string
	unlocked bool
	keyrings []keyring.Keyring
	imported []string

	stateMu sync.RWMutex
	state   State

	feeds map[EventKind]*event.Feed
	scope event.SubscriptionScope
}

// DefaultRegistry returns a registry holding the simple and hd keyring providers.
func DefaultRegistry() *keyring.Registry {
	registry := keyring.NewRegistry()
	// The default types are distinct constants, registration cannot fail.
	_ = registry.Register(simple.Type, simple.New)
	_ = registry.Register(hd.Type, hd.New)

	return registry
}

func NewController(cfg Config) (*Controller, error) {
	registry := cfg.Registry
	if registry == nil {
		registry = DefaultRegistry()
	}

	for _, kt := range cfg.KeyringTypes {
		if err := registry.Register(kt.Name, kt.Constructor); err != nil {
			return nil, err
		}
	}

	c := &Controller{
		registry: registry,
		codec:    cfg.Codec,
		store:    cfg.Store,
		network:  cfg.Network,
		metrics:  cfg.Metrics,
		feeds:    make(map[EventKind]*event.Feed, len(EventKinds)),
	}

	if c.codec == nil {
		c.codec = vault.NewCodec(vault.DefaultScryptParams())
	}
	if c.store == nil {
		c.store = vault.NewMemoryStore("")
	}
	if c.metrics == nil {
		c.metrics = noopRecorder{}
	}

	for _, kind := range EventKinds {
		c.feeds[kind] = new(event.Feed)
	}

	c.state = State{
		KeyringTypes: registry.Types(),
		Keyrings:     []DisplayRecord{},
	}

	return c, nil
}

// Subscribe registers ch for events of the given kind. Delivery blocks until every
// subscriber of that kind received the event, so ch should be buffered or drained.
func (c *Controller) Subscribe(kind EventKind, ch chan<- Event) (event.Subscription, error) {
	feed, ok := c.feeds[kind]
	if !ok {
		return nil, errors.Errorf("unknown event kind %q", kind)
	}

	return c.scope.Track(feed.Subscribe(ch)), nil
}

// Close ends all subscriptions.
func (c *Controller) Close() {
	c.scope.Close()
}

// State returns a copy of the current display state.
func (c *Controller) State() State {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()

	return c.state.clone()
}

// IsUnlocked reports whether the keyrings are currently loaded.
func (c *Controller) IsUnlocked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.unlocked
}

// CreateNewVaultAndKeychain replaces any existing vault with a new one holding a freshly
// generated hd keyring with a single account.
func (c *Controller) CreateNewVaultAndKeychain(ctx context.Context, password string) (state State, err error) {
	var events []Event
	defer func() {
		if err == nil {
			c.notify(events)
		}
	}()

	c.mu.Lock()
	defer c.mu.Unlock()

	if password == "" {
		return State{}, ErrInvalidPassword
	}

	kr, err := c.construct(ctx, hd.Type, hd.Options{NumberOfAccounts: 1})
	if err != nil {
		return State{}, err
	}

	first, err := firstAddress(ctx, kr)
	if err != nil {
		kr.Wipe()
		return State{}, err
	}

	if err := c.replaceKeyrings(ctx, password, []keyring.Keyring{kr}); err != nil {
		return State{}, err
	}

	util.LogFromContext(ctx).Info().Str("address", first).Msg("Created new vault")

	events = append(events, Event{Kind: EventVaultCreated, Address: first})
	c.setUnlocked(&events)

	return c.fullUpdate(ctx, &events), nil
}

// CreateNewVaultAndRestore replaces any existing vault with one holding an hd keyring
// restored from the given mnemonic with a single account.
func (c *Controller) CreateNewVaultAndRestore(ctx context.Context, password string, mnemonic string) (state State, err error) {
	var events []Event
	defer func() {
		if err == nil {
			c.notify(events)
		}
	}()

	c.mu.Lock()
	defer c.mu.Unlock()

	if password == "" {
		return State{}, ErrInvalidPassword
	}

	kr, err := c.construct(ctx, hd.Type, hd.Options{Mnemonic: mnemonic, NumberOfAccounts: 1})
	if err != nil {
		return State{}, err
	}

	first, err := firstAddress(ctx, kr)
	if err != nil {
		kr.Wipe()
		return State{}, err
	}

	if err := c.replaceKeyrings(ctx, password, []keyring.Keyring{kr}); err != nil {
		return State{}, err
	}

	util.LogFromContext(ctx).Info().Str("address", first).Msg("Restored vault from seed phrase")

	c.setUnlocked(&events)

	return c.fullUpdate(ctx, &events), nil
}

// SubmitPassword decrypts the stored vault and restores every keyring it holds.
// On failure the controller is left untouched.
func (c *Controller) SubmitPassword(ctx context.Context, password string) (state State, err error) {
	var events []Event
	defer func() {
		if err == nil {
			c.notify(events)
		}
	}()

	c.mu.Lock()
	defer c.mu.Unlock()

	if password == "" {
		return State{}, ErrInvalidPassword
	}

	ciphertext, err := c.store.Load(ctx)
	if err != nil {
		return State{}, err
	}

	var serialized []keyring.Serialized
	if err := c.codec.Decrypt(password, ciphertext, &serialized); err != nil {
		return State{}, err
	}

	restored := make([]keyring.Keyring, 0, len(serialized))
	for _, entry := range serialized {
		kr, err := c.restore(ctx, entry)
		if err != nil {
			wipeAll(restored)
			return State{}, err
		}
		restored = append(restored, kr)
	}

	c.clearKeyrings()
	c.keyrings = restored
	c.password = password

	util.LogFromContext(ctx).Debug().Int("keyrings", len(restored)).Msg("Unlocked vault")

	c.setUnlocked(&events)

	return c.fullUpdate(ctx, &events), nil
}

// HasVault reports whether the store holds a vault.
func (c *Controller) HasVault(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.store.Load(ctx)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, vault.ErrNoVault):
		return false, nil
	default:
		return false, err
	}
}

// VerifyPassword checks password against the stored vault without touching any state.
func (c *Controller) VerifyPassword(ctx context.Context, password string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if password == "" {
		return ErrInvalidPassword
	}

	ciphertext, err := c.store.Load(ctx)
	if err != nil {
		return err
	}

	var serialized []keyring.Serialized

	return c.codec.Decrypt(password, ciphertext, &serialized)
}

// SetLocked drops all keyrings and the cached password.
func (c *Controller) SetLocked(ctx context.Context) State {
	var events []Event
	defer func() { c.notify(events) }()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.clearKeyrings()
	c.password = ""
	c.unlocked = false
	c.metrics.SetUnlocked(false)

	util.LogFromContext(ctx).Debug().Msg("Locked vault")

	events = append(events, Event{Kind: EventLock})

	return c.fullUpdate(ctx, &events)
}

// SetUnlocked marks the controller unlocked, refreshes the display state and emits the
// unlocked and update events.
func (c *Controller) SetUnlocked(ctx context.Context) State {
	var events []Event
	defer func() { c.notify(events) }()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.setUnlocked(&events)

	return c.fullUpdate(ctx, &events)
}

// ClearKeyrings wipes and drops all live keyrings and imported wallets. The stored vault
// and the cached password are kept.
func (c *Controller) ClearKeyrings(ctx context.Context) State {
	var events []Event
	defer func() { c.notify(events) }()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.clearKeyrings()

	return c.fullUpdate(ctx, &events)
}

// PersistAllKeyrings serializes every live keyring and writes the encrypted vault.
// An empty password falls back to the password of the current session.
func (c *Controller) PersistAllKeyrings(ctx context.Context, password string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.persistAll(ctx, password)
}

func (c *Controller) persistAll(ctx context.Context, password string) error {
	if password == "" {
		password = c.password
	}

	if err := c.seal(ctx, password, c.keyrings); err != nil {
		return err
	}

	c.password = password

	return nil
}

// seal encrypts the given keyrings with password and saves the result.
func (c *Controller) seal(ctx context.Context, password string, keyrings []keyring.Keyring) (err error) {
	defer func() { c.metrics.ObservePersist(err) }()

	if password == "" {
		return ErrMissingPassword
	}

	serialized := make([]keyring.Serialized, 0, len(keyrings))
	for _, kr := range keyrings {
		data, err := kr.Serialize(ctx)
		if err != nil {
			return errors.Wrapf(err, "failed to serialize keyring of type %q", kr.Type())
		}
		serialized = append(serialized, keyring.Serialized{Type: kr.Type(), Data: data})
	}

	ciphertext, err := c.codec.Encrypt(password, serialized)
	if err != nil {
		return err
	}

	if err := c.store.Save(ctx, ciphertext); err != nil {
		return errors.Wrap(err, "failed to save vault")
	}

	util.LogFromContext(ctx).Debug().Int("keyrings", len(serialized)).Msg("Persisted vault")

	return nil
}

// replaceKeyrings persists keyrings as the complete new vault and only then swaps them in.
// If persisting fails the new keyrings are wiped and the current ones are kept.
func (c *Controller) replaceKeyrings(ctx context.Context, password string, keyrings []keyring.Keyring) error {
	if err := c.seal(ctx, password, keyrings); err != nil {
		wipeAll(keyrings)
		return err
	}

	c.clearKeyrings()
	c.keyrings = keyrings
	c.password = password

	return nil
}

func (c *Controller) construct(ctx context.Context, typeName string, opts any) (keyring.Keyring, error) {
	constructor, err := c.registry.Resolve(typeName)
	if err != nil {
		return nil, err
	}

	raw, err := encodeOptions(opts)
	if err != nil {
		return nil, err
	}

	return constructor(ctx, raw)
}

func (c *Controller) restore(ctx context.Context, entry keyring.Serialized) (keyring.Keyring, error) {
	constructor, err := c.registry.Resolve(entry.Type)
	if err != nil {
		return nil, err
	}

	kr, err := constructor(ctx, entry.Data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to restore keyring of type %q", entry.Type)
	}

	return kr, nil
}

func (c *Controller) clearKeyrings() {
	wipeAll(c.keyrings)
	c.keyrings = nil

	c.imported = nil
}

func (c *Controller) setUnlocked(events *[]Event) {
	c.unlocked = true
	c.metrics.SetUnlocked(true)
	*events = append(*events, Event{Kind: EventUnlocked})
}

// fullUpdate recomputes the display state and queues an update event carrying it.
func (c *Controller) fullUpdate(ctx context.Context, events *[]Event) State {
	records := make([]DisplayRecord, 0, len(c.keyrings))
	total := 0

	for _, kr := range c.keyrings {
		accounts, err := normalizedAddresses(ctx, kr)
		if err != nil {
			util.LogFromContext(ctx).Warn().Err(err).Str("type", kr.Type()).Msg("Failed to list keyring accounts, showing none")
			accounts = []string{}
		}
		total += len(accounts)
		records = append(records, DisplayRecord{Type: kr.Type(), Accounts: accounts})
	}

	c.metrics.SetAccounts(total)

	c.stateMu.Lock()
	c.state = State{
		IsUnlocked:   c.unlocked,
		KeyringTypes: c.registry.Types(),
		Keyrings:     records,
	}
	snapshot := c.state.clone()
	c.stateMu.Unlock()

	published := snapshot.clone()
	*events = append(*events, Event{Kind: EventUpdate, State: &published})

	return snapshot
}

func (c *Controller) notify(events []Event) {
	for _, ev := range events {
		c.feeds[ev.Kind].Send(ev)
	}
}

func encodeOptions(opts any) (json.RawMessage, error) {
	switch v := opts.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return v, nil
	case []byte:
		return json.RawMessage(v), nil
	}

	raw, err := json.Marshal(opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode keyring options")
	}

	return raw, nil
}

func firstAddress(ctx context.Context, kr keyring.Keyring) (string, error) {
	accounts, err := normalizedAddresses(ctx, kr)
	if err != nil {
		return "", err
	}

	if len(accounts) == 0 {
		return "", ErrNoAccount
	}

	return accounts[0], nil
}

func wipeAll(keyrings []keyring.Keyring) {
	for _, kr := range keyrings {
		kr.Wipe()
	}
}
