package wallet

import "github.com/pkg/errors"

var (
	ErrInvalidPassword  = errors.New("password must be a non-empty text value")
	ErrMissingPassword  = errors.New("no password available to persist the vault")
	ErrNoAccount        = errors.New("keyring derived no account")
	ErrDuplicateAccount = errors.New("the account you are trying to import is a duplicate")
	ErrNoOwningKeyring  = errors.New("no keyring found for the requested account")
	ErrKeyringNotFound  = errors.New("keyring is not managed by this controller")
	ErrLocked           = errors.New("keyring controller is locked")
)
