package router

import (
	"net/http"
	"testing"

	"github.com/go-openapi/swag"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-keyring/internal/types"
	"github/chapool/go-keyring/internal/wallet"
	"github/chapool/go-keyring/internal/wallet/keyring"
	"github/chapool/go-keyring/internal/wallet/vault"
)

func TestTranslateKeyringError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     int64
		errorTyp string
	}{
		{"incorrect password", errors.Wrap(vault.ErrIncorrectPassword, "unlock"), http.StatusUnauthorized, types.PublicHTTPErrorTypeInvalidPassword},
		{"corrupt vault", vault.ErrCorruptVault, http.StatusUnprocessableEntity, types.PublicHTTPErrorTypeVaultCorrupted},
		{"no vault", vault.ErrNoVault, http.StatusNotFound, types.PublicHTTPErrorTypeVaultNotFound},
		{"empty password", wallet.ErrInvalidPassword, http.StatusBadRequest, types.PublicHTTPErrorTypeInvalidPassword},
		{"locked", wallet.ErrLocked, http.StatusLocked, types.PublicHTTPErrorTypeVaultLocked},
		{"duplicate", errors.Wrap(wallet.ErrDuplicateAccount, "0xabc"), http.StatusConflict, types.PublicHTTPErrorTypeDuplicateAccount},
		{"no owner", wallet.ErrNoOwningKeyring, http.StatusNotFound, types.PublicHTTPErrorTypeUnknownAccount},
		{"unknown type", keyring.ErrUnknownKeyringType, http.StatusBadRequest, types.PublicHTTPErrorTypeUnknownKeyring},
		{"invalid key", keyring.ErrInvalidPrivateKey, http.StatusBadRequest, types.PublicHTTPErrorTypeInvalidKey},
		{"negative count", errors.Wrapf(keyring.ErrInvalidAccountCount, "%d", -1), http.StatusBadRequest, types.PublicHTTPErrorTypeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := translateKeyringError(tt.err)
			require.NotNil(t, res)

			assert.Equal(t, tt.code, swag.Int64Value(res.Code))
			assert.Equal(t, tt.errorTyp, swag.StringValue(res.Type))
			assert.Equal(t, tt.err.Error(), res.Detail)
			assert.ErrorIs(t, res.Internal, tt.err)
		})
	}
}

func TestTranslateKeyringErrorUnknown(t *testing.T) {
	assert.Nil(t, translateKeyringError(errors.New("boom")))
}
