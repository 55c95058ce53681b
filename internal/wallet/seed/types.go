package seed

import "github.com/pkg/errors"

// ErrInvalidSeedPhrase is returned for mnemonics failing the BIP39 word list or checksum check.
var ErrInvalidSeedPhrase = errors.New("seed phrase is invalid")

// Manager provides seed management functionality
type Manager interface {
	// Initialize validates the mnemonic and derives the BIP39 seed from it
	Initialize(mnemonic string, passphrase string) error

	// GetSeed gets the seed (from memory)
	GetSeed() []byte

	// Mnemonic returns the mnemonic the seed was derived from
	Mnemonic() string

	// IsInitialized checks if seed is initialized
	IsInitialized() bool

	// Clear clears the seed from memory
	Clear()
}
