package vault

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/pkg/errors"
)

const (
	// EnvelopeVersion mirrors the Ethereum keystore v3 version number.
	EnvelopeVersion = 3
)

var (
	ErrDecryption        = errors.New("failed to decrypt vault")
	ErrIncorrectPassword = errors.Wrap(ErrDecryption, "incorrect password")
	ErrCorruptVault      = errors.Wrap(ErrDecryption, "vault is corrupted")
	ErrNoVault           = errors.New("no vault stored")
)

// Codec seals any JSON serializable value under a password.
type Codec interface {
	Encrypt(password string, value any) (string, error)
	// Decrypt opens ciphertext into out. Failures wrap ErrIncorrectPassword or ErrCorruptVault.
	Decrypt(password string, ciphertext string, out any) error
}

// Store holds the single encrypted vault blob. Save must replace the previous vault
// atomically: a failed Save leaves the old vault readable.
type Store interface {
	// Load returns the stored vault or ErrNoVault.
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, vault string) error
}

// Envelope is the JSON structure of a sealed vault, modelled on the Ethereum keystore v3 file.
type Envelope struct {
	Version int                 `json:"version"`
	ID      string              `json:"id"`
	Crypto  keystore.CryptoJSON `json:"crypto"`
}

// ScryptParams defines scrypt KDF parameters
type ScryptParams struct {
	N int // CPU/memory cost parameter
	P int // Parallelization parameter
}

// DefaultScryptParams returns the standard scrypt parameters of the Ethereum keystore.
func DefaultScryptParams() ScryptParams {
	return ScryptParams{
		N: keystore.StandardScryptN,
		P: keystore.StandardScryptP,
	}
}

// LightScryptParams trades brute force resistance for speed (tests, low memory hosts).
func LightScryptParams() ScryptParams {
	return ScryptParams{
		N: keystore.LightScryptN,
		P: keystore.LightScryptP,
	}
}
