package httperrors

import (
	"net/http"

	"github/chapool/go-keyring/internal/types"
)

var (
	ErrUnauthorizedIncorrectPassword = NewHTTPError(http.StatusUnauthorized, types.PublicHTTPErrorTypeInvalidPassword, "The password is incorrect.")
	ErrBadRequestInvalidPassword     = NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeInvalidPassword, "A non-empty password is required.")
	ErrLockedVault                   = NewHTTPError(http.StatusLocked, types.PublicHTTPErrorTypeVaultLocked, "The vault is locked.")
	ErrNotFoundVault                 = NewHTTPError(http.StatusNotFound, types.PublicHTTPErrorTypeVaultNotFound, "No vault has been created yet.")
	ErrUnprocessableCorruptVault     = NewHTTPError(http.StatusUnprocessableEntity, types.PublicHTTPErrorTypeVaultCorrupted, "The stored vault cannot be read.")
	ErrBadRequestInvalidSeedPhrase   = NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeInvalidSeed, "Invalid seed phrase.")
	ErrBadRequestInvalidPrivateKey   = NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeInvalidKey, "Enter a valid private key.")
	ErrConflictDuplicateAccount      = NewHTTPError(http.StatusConflict, types.PublicHTTPErrorTypeDuplicateAccount, "The account you are trying to import is a duplicate.")
	ErrNotFoundAccount               = NewHTTPError(http.StatusNotFound, types.PublicHTTPErrorTypeUnknownAccount, "No keyring found for the requested account.")
	ErrBadRequestUnknownKeyringType  = NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeUnknownKeyring, "Unknown keyring type.")
	ErrBadRequestInvalidRequest      = NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeInvalidRequest, "The request cannot be signed.")
	ErrServiceUnavailableNoNetwork   = NewHTTPError(http.StatusServiceUnavailable, types.PublicHTTPErrorTypeNetworkRequired, "No network is configured.")
)

// WithCause returns a copy of e carrying err as its detail and internal error.
func (e *HTTPError) WithCause(err error) *HTTPError {
	res := NewHTTPErrorWithDetail(int(*e.Code), *e.Type, *e.Title, err.Error())
	res.Internal = err

	return res
}
