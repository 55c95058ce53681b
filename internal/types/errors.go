package types

import (
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

const (
	PublicHTTPErrorTypeGeneric          = "generic"
	PublicHTTPErrorTypeInvalidPassword  = "INVALID_PASSWORD"
	PublicHTTPErrorTypeVaultLocked      = "VAULT_LOCKED"
	PublicHTTPErrorTypeVaultNotFound    = "VAULT_NOT_FOUND"
	PublicHTTPErrorTypeVaultCorrupted   = "VAULT_CORRUPTED"
	PublicHTTPErrorTypeInvalidSeed      = "INVALID_SEED_PHRASE"
	PublicHTTPErrorTypeInvalidKey       = "INVALID_PRIVATE_KEY"
	PublicHTTPErrorTypeDuplicateAccount = "DUPLICATE_ACCOUNT"
	PublicHTTPErrorTypeUnknownAccount   = "UNKNOWN_ACCOUNT"
	PublicHTTPErrorTypeUnknownKeyring   = "UNKNOWN_KEYRING_TYPE"
	PublicHTTPErrorTypeInvalidRequest   = "INVALID_REQUEST"
	PublicHTTPErrorTypeNetworkRequired  = "NETWORK_NOT_CONFIGURED"
)

// PublicHTTPError is the body of every error response.
type PublicHTTPError struct {
	Code   *int64  `json:"status"`
	Detail string  `json:"detail,omitempty"`
	Title  *string `json:"title"`
	Type   *string `json:"type"`
}

func (m *PublicHTTPError) Validate(_ strfmt.Registry) error {
	if err := validate.Required("status", "body", m.Code); err != nil {
		return err
	}

	if err := validate.Required("title", "body", m.Title); err != nil {
		return err
	}

	if err := validate.Required("type", "body", m.Type); err != nil {
		return err
	}

	return nil
}

type HTTPValidationErrorDetail struct {
	Error *string `json:"error"`
	In    *string `json:"in"`
	Key   *string `json:"key"`
}

type HTTPValidationError struct {
	PublicHTTPError

	ValidationErrors []*HTTPValidationErrorDetail `json:"validationErrors"`
}
