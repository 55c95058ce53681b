package vault

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type codec struct {
	params ScryptParams
}

// NewCodec creates a Codec sealing vaults with scrypt and AES-128-CTR (keystore v3 crypto).
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewCodec(params ScryptParams) Codec {
	return &codec{params: params}
}

func (c *codec) Encrypt(password string, value any) (string, error) {
	plaintext, err := json.Marshal(value)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal vault contents")
	}

	defer func() {
		for i := range plaintext {
			plaintext[i] = 0
		}
	}()

	cryptoJSON, err := keystore.EncryptDataV3(plaintext, []byte(password), c.params.N, c.params.P)
	if err != nil {
		return "", errors.Wrap(err, "failed to encrypt vault")
	}

	envelope := Envelope{
		Version: EnvelopeVersion,
		ID:      uuid.New().String(),
		Crypto:  cryptoJSON,
	}

	raw, err := json.Marshal(envelope)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal vault envelope")
	}

	return string(raw), nil
}

func (c *codec) Decrypt(password string, ciphertext string, out any) error {
	var envelope Envelope
	if err := json.Unmarshal([]byte(ciphertext), &envelope); err != nil {
		return errors.Wrap(ErrCorruptVault, err.Error())
	}

	if envelope.Version != EnvelopeVersion {
		return errors.Wrapf(ErrCorruptVault, "unsupported vault version %d", envelope.Version)
	}

	plaintext, err := keystore.DecryptDataV3(envelope.Crypto, password)
	if err != nil {
		if errors.Is(err, keystore.ErrDecrypt) {
			return ErrIncorrectPassword
		}
		return errors.Wrap(ErrCorruptVault, err.Error())
	}

	defer func() {
		for i := range plaintext {
			plaintext[i] = 0
		}
	}()

	if err := json.Unmarshal(plaintext, out); err != nil {
		return errors.Wrap(ErrCorruptVault, err.Error())
	}

	return nil
}
