// Package keyring defines the capability contract every keyring provider implements and the
// registry the wallet controller uses to construct providers by type name.
package keyring

import (
	"context"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github/chapool/go-keyring/internal/wallet/signer"
)

// Keyring is a unit of key custody exposing derived addresses and signing over them.
// Implementations own their secret material exclusively.
type Keyring interface {
	// Type returns the registry key of this provider.
	Type() string

	// Addresses returns the addresses managed by this keyring in derivation order.
	Addresses(ctx context.Context) ([]common.Address, error)

	// AddAddresses derives or generates n new addresses and returns only the new ones.
	AddAddresses(ctx context.Context, n int) ([]common.Address, error)

	// ExportAccount returns the hex encoded private key (without 0x) backing addr.
	ExportAccount(ctx context.Context, addr common.Address) (string, error)

	SignTransaction(ctx context.Context, addr common.Address, tx *types.Transaction, opts *signer.Options) (*types.Transaction, error)
	SignMessage(ctx context.Context, addr common.Address, data []byte, opts *signer.Options) ([]byte, error)
	SignTypedData(ctx context.Context, addr common.Address, msg signer.TypedMessage, opts *signer.Options) ([]byte, error)

	// Serialize returns the provider specific payload the keyring can be restored from.
	Serialize(ctx context.Context) (json.RawMessage, error)

	// Wipe zeroes and drops all secret material. The keyring is unusable afterwards.
	Wipe()
}

// Constructor builds a keyring from provider specific options. Options and the payload
// produced by Serialize share one format, so the same constructor restores vault entries.
type Constructor func(ctx context.Context, opts json.RawMessage) (Keyring, error)

// Serialized is the only form of a keyring ever written to durable storage.
type Serialized struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}
