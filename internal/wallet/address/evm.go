package address

import (
	"crypto/ecdsa"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip32"
)

// FromPrivateKey derives the EVM address controlled by the given key.
func FromPrivateKey(key *ecdsa.PrivateKey) (common.Address, error) {
	publicKeyECDSA, ok := key.Public().(*ecdsa.PublicKey)
	if !ok {
		return common.Address{}, errors.New("failed to cast public key to ECDSA")
	}

	return crypto.PubkeyToAddress(*publicKeyECDSA), nil
}

// DerivePrivateKey derives a secp256k1 private key from seed and BIP44 path.
// WARNING: Caller must clear the private key after use
func DerivePrivateKey(seed []byte, path string) ([]byte, error) {
	masterKey, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create master key")
	}

	derivedKey, err := deriveKeyFromPath(masterKey, path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive key from path")
	}

	return derivedKey.Key, nil
}

// DeriveECDSA derives the key at path and converts it to an ECDSA key.
// The intermediate raw key bytes are cleared before returning.
func DeriveECDSA(seed []byte, path string) (*ecdsa.PrivateKey, error) {
	privateKey, err := DerivePrivateKey(seed, path)
	if err != nil {
		return nil, err
	}

	defer func() {
		for i := range privateKey {
			privateKey[i] = 0
		}
	}()

	key, err := crypto.ToECDSA(privateKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert to ECDSA private key")
	}

	return key, nil
}

func deriveKeyFromPath(masterKey *bip32.Key, path string) (*bip32.Key, error) {
	indices, err := ParseBIP44Path(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse BIP44 path")
	}

	key := masterKey
	for _, index := range indices {
		key, err = key.NewChildKey(index)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to derive child key at index %d", index)
		}
	}

	return key, nil
}

// ParseBIP44Path parses a BIP44 path string into child indices.
// Example: "m/44'/60'/0'/0/0" -> [2147483692, 2147483708, 2147483648, 0, 0]
func ParseBIP44Path(path string) ([]uint32, error) {
	if path == "m" {
		return []uint32{}, nil
	}

	if !strings.HasPrefix(path, "m/") {
		return nil, fmt.Errorf("invalid BIP44 path: %s", path)
	}

	parts := strings.Split(path[2:], "/")
	indices := make([]uint32, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}

		hardened := strings.HasSuffix(part, "'")
		part = strings.TrimSuffix(part, "'")

		index, err := strconv.ParseUint(part, 10, 31)
		if err != nil {
			return nil, fmt.Errorf("invalid path segment: %s", part)
		}

		child := uint32(index)
		if hardened {
			child += bip32.FirstHardenedChild
		}

		indices = append(indices, child)
	}

	return indices, nil
}
