package keyring

import (
	"github.com/pkg/errors"
	"github/chapool/go-keyring/internal/wallet/seed"
)

var (
	ErrDuplicateType       = errors.New("keyring type already registered")
	ErrUnknownKeyringType  = errors.New("unknown keyring type")
	ErrInvalidPrivateKey   = errors.New("enter a valid private key")
	ErrInvalidSeedPhrase   = seed.ErrInvalidSeedPhrase
	ErrUnknownAddress      = errors.New("address not managed by this keyring")
	ErrWiped               = errors.New("keyring has been wiped")
	ErrInvalidAccountCount = errors.New("number of accounts must not be negative")
)
