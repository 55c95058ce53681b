package seed

import (
	"crypto/sha512"
	"strings"

	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/pbkdf2"
)

// DefaultEntropyBits yields a 12 word mnemonic.
const DefaultEntropyBits = 128

// NewMnemonic generates a fresh random english mnemonic.
func NewMnemonic(entropyBits int) (string, error) {
	entropy, err := bip39.NewEntropy(entropyBits)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate entropy")
	}

	defer func() {
		for i := range entropy {
			entropy[i] = 0
		}
	}()

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode mnemonic")
	}

	return mnemonic, nil
}

// NormalizeMnemonic collapses whitespace so equivalent phrases compare equal.
func NormalizeMnemonic(mnemonic string) string {
	return strings.Join(strings.Fields(mnemonic), " ")
}

// ValidateMnemonic checks the word list membership and checksum of a mnemonic.
func ValidateMnemonic(mnemonic string) error {
	if !bip39.IsMnemonicValid(NormalizeMnemonic(mnemonic)) {
		return ErrInvalidSeedPhrase
	}

	return nil
}

// ToSeed converts a mnemonic to a seed using PBKDF2 (BIP39 standard).
// BIP39: seed = PBKDF2(mnemonic, "mnemonic" + passphrase, 2048, 64, SHA512)
func ToSeed(mnemonic string, passphrase string) []byte {
	const (
		pbkdf2Iterations = 2048 // BIP39 standard iterations
		pbkdf2KeyLength  = 64   // BIP39 standard key length (512 bits)
	)

	return pbkdf2.Key(
		[]byte(NormalizeMnemonic(mnemonic)),
		[]byte("mnemonic"+passphrase),
		pbkdf2Iterations,
		pbkdf2KeyLength,
		sha512.New,
	)
}
