package keyring

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github/chapool/go-keyring/internal/wallet/signer"
)

// Keys is an ordered, address indexed set of secp256k1 keys. Providers embed it to get
// the address listing, export and signing half of the Keyring contract.
type Keys struct {
	mu    sync.RWMutex
	keys  []*ecdsa.PrivateKey
	addrs []common.Address
	wiped bool
}

// Add appends key and returns its address. Adding a key twice is a no-op.
func (k *Keys) Add(key *ecdsa.PrivateKey) (common.Address, error) {
	addr := crypto.PubkeyToAddress(key.PublicKey)

	k.mu.Lock()
	defer k.mu.Unlock()

	if k.wiped {
		return common.Address{}, ErrWiped
	}

	for _, existing := range k.addrs {
		if existing == addr {
			return addr, nil
		}
	}

	k.keys = append(k.keys, key)
	k.addrs = append(k.addrs, addr)

	return addr, nil
}

func (k *Keys) Addresses(_ context.Context) ([]common.Address, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if k.wiped {
		return nil, ErrWiped
	}

	addrs := make([]common.Address, len(k.addrs))
	copy(addrs, k.addrs)

	return addrs, nil
}

func (k *Keys) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()

	return len(k.keys)
}

// HexKeys returns every private key hex encoded, in insertion order.
func (k *Keys) HexKeys() ([]string, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if k.wiped {
		return nil, ErrWiped
	}

	res := make([]string, 0, len(k.keys))
	for _, key := range k.keys {
		res = append(res, hex.EncodeToString(crypto.FromECDSA(key)))
	}

	return res, nil
}

func (k *Keys) key(addr common.Address) (*ecdsa.PrivateKey, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if k.wiped {
		return nil, ErrWiped
	}

	for i, existing := range k.addrs {
		if existing == addr {
			return k.keys[i], nil
		}
	}

	return nil, errors.Wrapf(ErrUnknownAddress, "%s", addr.Hex())
}

func (k *Keys) ExportAccount(_ context.Context, addr common.Address) (string, error) {
	key, err := k.key(addr)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(crypto.FromECDSA(key)), nil
}

func (k *Keys) SignTransaction(_ context.Context, addr common.Address, tx *types.Transaction, opts *signer.Options) (*types.Transaction, error) {
	key, err := k.key(addr)
	if err != nil {
		return nil, err
	}

	return signer.SignTransaction(tx, addr, key, opts)
}

func (k *Keys) SignMessage(_ context.Context, addr common.Address, data []byte, _ *signer.Options) ([]byte, error) {
	key, err := k.key(addr)
	if err != nil {
		return nil, err
	}

	return signer.SignPersonalMessage(data, addr, key)
}

func (k *Keys) SignTypedData(_ context.Context, addr common.Address, msg signer.TypedMessage, opts *signer.Options) ([]byte, error) {
	key, err := k.key(addr)
	if err != nil {
		return nil, err
	}

	return signer.SignTypedData(msg, addr, key, opts)
}

// Wipe zeroes every private scalar and drops the keys.
func (k *Keys) Wipe() {
	k.mu.Lock()
	defer k.mu.Unlock()

	for _, key := range k.keys {
		ZeroKey(key)
	}
	k.keys = nil
	k.addrs = nil
	k.wiped = true
}

// ZeroKey overwrites the private scalar of key in place.
func ZeroKey(key *ecdsa.PrivateKey) {
	if key == nil || key.D == nil {
		return
	}

	words := key.D.Bits()
	for i := range words {
		words[i] = 0
	}
	key.D.SetInt64(0)
}

// ParsePrivateKey decodes a hex private key (with or without 0x) and checks that it is a
// valid secp256k1 scalar.
func ParsePrivateKey(privateKeyHex string) (*ecdsa.PrivateKey, error) {
	raw, err := hex.DecodeString(trimHexPrefix(privateKeyHex))
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPrivateKey, "not hex encoded")
	}

	defer func() {
		for i := range raw {
			raw[i] = 0
		}
	}()

	key, err := crypto.ToECDSA(raw)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPrivateKey, err.Error())
	}

	return key, nil
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}

	return s
}
