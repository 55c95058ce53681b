// Package hd implements the "HD Key Tree" keyring: accounts derived from one BIP39 mnemonic
// along a BIP44 path.
package hd

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github/chapool/go-keyring/internal/wallet/address"
	"github/chapool/go-keyring/internal/wallet/keyring"
	"github/chapool/go-keyring/internal/wallet/seed"
)

const Type = "HD Key Tree"

// Options configures a new HD keyring and is also its serialized form.
// An empty Mnemonic makes the keyring generate a fresh random one.
type Options struct {
	Mnemonic         string `json:"mnemonic,omitempty"`
	NumberOfAccounts int    `json:"numberOfAccounts"`
	HDPath           string `json:"hdPath,omitempty"`
}

type Keyring struct {
	keyring.Keys

	mu     sync.Mutex
	seed   seed.Manager
	hdPath string
}

var _ keyring.Keyring = (*Keyring)(nil)

// New is the keyring.Constructor of the HD keyring.
//
//nolint:ireturn // Constructors are stored in the keyring registry
func New(ctx context.Context, opts json.RawMessage) (keyring.Keyring, error) {
	var options Options
	if len(opts) > 0 && string(opts) != "null" {
		if err := json.Unmarshal(opts, &options); err != nil {
			return nil, errors.Wrap(err, "failed to decode hd keyring options")
		}
	}

	return NewFromOptions(ctx, options)
}

func NewFromOptions(ctx context.Context, options Options) (*Keyring, error) {
	if options.NumberOfAccounts < 0 {
		return nil, errors.Wrapf(keyring.ErrInvalidAccountCount, "%d", options.NumberOfAccounts)
	}

	mnemonic := options.Mnemonic
	if mnemonic == "" {
		generated, err := seed.NewMnemonic(seed.DefaultEntropyBits)
		if err != nil {
			return nil, err
		}
		mnemonic = generated
	}

	hdPath := options.HDPath
	if hdPath == "" {
		hdPath = address.DefaultHDPath
	}
	if _, err := address.ParseBIP44Path(hdPath); err != nil {
		return nil, errors.Wrap(err, "invalid hd path")
	}

	seedManager := seed.NewManager()
	if err := seedManager.Initialize(mnemonic, ""); err != nil {
		return nil, err
	}

	kr := &Keyring{
		seed:   seedManager,
		hdPath: hdPath,
	}

	if _, err := kr.AddAddresses(ctx, options.NumberOfAccounts); err != nil {
		kr.Wipe()
		return nil, err
	}

	return kr, nil
}

func (kr *Keyring) Type() string {
	return Type
}

// Mnemonic returns the seed phrase this keyring derives from.
func (kr *Keyring) Mnemonic() string {
	return kr.seed.Mnemonic()
}

// AddAddresses derives the next n accounts along the HD path.
func (kr *Keyring) AddAddresses(_ context.Context, n int) ([]common.Address, error) {
	kr.mu.Lock()
	defer kr.mu.Unlock()

	s := kr.seed.GetSeed()
	if s == nil {
		return nil, keyring.ErrWiped
	}

	defer func() {
		for i := range s {
			s[i] = 0
		}
	}()

	if n < 0 {
		return nil, errors.Wrapf(keyring.ErrInvalidAccountCount, "%d", n)
	}

	start := kr.Len()
	added := make([]common.Address, 0, n)
	for i := start; i < start+n; i++ {
		key, err := address.DeriveECDSA(s, address.Path(kr.hdPath, i))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to derive account %d", i)
		}

		addr, err := kr.Add(key)
		if err != nil {
			return nil, err
		}
		added = append(added, addr)
	}

	return added, nil
}

func (kr *Keyring) Serialize(_ context.Context) (json.RawMessage, error) {
	if !kr.seed.IsInitialized() {
		return nil, keyring.ErrWiped
	}

	raw, err := json.Marshal(Options{
		Mnemonic:         kr.seed.Mnemonic(),
		NumberOfAccounts: kr.Len(),
		HDPath:           kr.hdPath,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode hd keyring")
	}

	return raw, nil
}

// Wipe clears the seed and every derived key.
func (kr *Keyring) Wipe() {
	kr.mu.Lock()
	defer kr.mu.Unlock()

	kr.seed.Clear()
	kr.Keys.Wipe()
}
