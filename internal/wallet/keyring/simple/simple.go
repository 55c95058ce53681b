// Package simple implements the "Simple Key Pair" keyring: an unordered bag of
// independently generated or imported private keys.
package simple

import (
	"context"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github/chapool/go-keyring/internal/wallet/keyring"
)

const Type = "Simple Key Pair"

// Options lists hex encoded private keys. It is also the serialized form.
type Options []string

type Keyring struct {
	keyring.Keys
}

var _ keyring.Keyring = (*Keyring)(nil)

// New is the keyring.Constructor of the simple keyring.
//
//nolint:ireturn // Constructors are stored in the keyring registry
func New(_ context.Context, opts json.RawMessage) (keyring.Keyring, error) {
	var privateKeys Options
	if len(opts) > 0 && string(opts) != "null" {
		if err := json.Unmarshal(opts, &privateKeys); err != nil {
			return nil, errors.Wrap(err, "failed to decode simple keyring options")
		}
	}

	kr := &Keyring{}
	for _, privateKeyHex := range privateKeys {
		key, err := keyring.ParsePrivateKey(privateKeyHex)
		if err != nil {
			kr.Wipe()
			return nil, err
		}

		if _, err := kr.Add(key); err != nil {
			return nil, err
		}
	}

	return kr, nil
}

func (kr *Keyring) Type() string {
	return Type
}

// AddAddresses generates n fresh random keys.
func (kr *Keyring) AddAddresses(_ context.Context, n int) ([]common.Address, error) {
	if n < 0 {
		return nil, errors.Wrapf(keyring.ErrInvalidAccountCount, "%d", n)
	}

	added := make([]common.Address, 0, n)
	for range n {
		key, err := crypto.GenerateKey()
		if err != nil {
			return nil, errors.Wrap(err, "failed to generate key")
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
	keys, err := kr.HexKeys()
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(Options(keys))
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode simple keyring")
	}

	return raw, nil
}
