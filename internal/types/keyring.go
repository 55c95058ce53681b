// Package types holds the request and response payloads of the HTTP API.
package types

import (
	"encoding/json"

	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// KeyringItem is the public view of one keyring.
type KeyringItem struct {
	Type     string   `json:"type"`
	Accounts []string `json:"accounts"`
}

type KeyringState struct {
	IsUnlocked   bool           `json:"isUnlocked"`
	KeyringTypes []string       `json:"keyringTypes"`
	Keyrings     []*KeyringItem `json:"keyrings"`
}

func (m *KeyringState) Validate(_ strfmt.Registry) error {
	if err := validate.Required("keyringTypes", "body", m.KeyringTypes); err != nil {
		return err
	}

	return nil
}

type PostCreateVaultPayload struct {
	Password *string `json:"password"`
}

func (p *PostCreateVaultPayload) Validate(_ strfmt.Registry) error {
	return required(requiredField{"password", p.Password})
}

type PostRestoreVaultPayload struct {
	Password *string `json:"password"`
	Mnemonic *string `json:"mnemonic"`
}

func (p *PostRestoreVaultPayload) Validate(_ strfmt.Registry) error {
	return required(requiredField{"password", p.Password}, requiredField{"mnemonic", p.Mnemonic})
}

type PostUnlockPayload struct {
	Password *string `json:"password"`
}

func (p *PostUnlockPayload) Validate(_ strfmt.Registry) error {
	return required(requiredField{"password", p.Password})
}

type GetAccountsResponse struct {
	Accounts []string `json:"accounts"`
	Imported []string `json:"imported"`
}

func (m *GetAccountsResponse) Validate(_ strfmt.Registry) error {
	return nil
}

// PostAddAccountPayload adds an account to the first keyring of KeyringType,
// the HD keyring when empty.
type PostAddAccountPayload struct {
	KeyringType *string `json:"keyringType,omitempty"`
}

func (p *PostAddAccountPayload) Validate(_ strfmt.Registry) error {
	return nil
}

// PostImportPayload imports a raw private key. With Persist set the key becomes a
// simple keyring stored in the vault, otherwise it is only remembered until lock.
type PostImportPayload struct {
	PrivateKey *string `json:"privateKey"`
	Persist    bool    `json:"persist,omitempty"`
}

func (p *PostImportPayload) Validate(_ strfmt.Registry) error {
	return required(requiredField{"privateKey", p.PrivateKey})
}

type PostImportResponse struct {
	Address   string `json:"address"`
	Persisted bool   `json:"persisted"`
}

func (m *PostImportResponse) Validate(_ strfmt.Registry) error {
	if err := validate.RequiredString("address", "body", m.Address); err != nil {
		return err
	}

	return nil
}

type PostExportPayload struct {
	Address  *string `json:"address"`
	Password *string `json:"password"`
}

func (p *PostExportPayload) Validate(_ strfmt.Registry) error {
	return required(requiredField{"address", p.Address}, requiredField{"password", p.Password})
}

type PostExportResponse struct {
	PrivateKey string `json:"privateKey"`
}

func (m *PostExportResponse) Validate(_ strfmt.Registry) error {
	if err := validate.RequiredString("privateKey", "body", m.PrivateKey); err != nil {
		return err
	}

	return nil
}

// PostSignMessagePayload carries a personal_sign request. A 0x prefixed hex message is
// signed as bytes, anything else as its UTF-8 encoding.
type PostSignMessagePayload struct {
	From    *string `json:"from"`
	Message *string `json:"message"`
}

func (p *PostSignMessagePayload) Validate(_ strfmt.Registry) error {
	return required(requiredField{"from", p.From}, requiredField{"message", p.Message})
}

type PostSignTypedDataPayload struct {
	From      *string         `json:"from"`
	Version   string          `json:"version,omitempty"`
	TypedData json.RawMessage `json:"typedData"`
}

func (p *PostSignTypedDataPayload) Validate(_ strfmt.Registry) error {
	var res []error

	if err := validate.Required("from", "body", p.From); err != nil {
		res = append(res, err)
	}

	if len(p.TypedData) == 0 {
		res = append(res, errors.Required("typedData", "body", nil))
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}

	return nil
}

type SignatureResponse struct {
	Signature string `json:"signature"`
}

func (m *SignatureResponse) Validate(_ strfmt.Registry) error {
	if err := validate.RequiredString("signature", "body", m.Signature); err != nil {
		return err
	}

	return nil
}

// PostSignTransactionPayload describes an EIP-1559 transaction. Amounts are decimal wei
// strings. Missing nonce, gas and fee values are filled from the network when one is
// configured.
type PostSignTransactionPayload struct {
	From                 *string `json:"from"`
	To                   *string `json:"to"`
	Value                *string `json:"value,omitempty"`
	ChainID              *int64  `json:"chainId,omitempty"`
	Nonce                *uint64 `json:"nonce,omitempty"`
	GasLimit             *uint64 `json:"gasLimit,omitempty"`
	MaxFeePerGas         *string `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas *string `json:"maxPriorityFeePerGas,omitempty"`
	Data                 *string `json:"data,omitempty"`
	Broadcast            bool    `json:"broadcast,omitempty"`
}

func (p *PostSignTransactionPayload) Validate(_ strfmt.Registry) error {
	return required(requiredField{"from", p.From}, requiredField{"to", p.To})
}

type SignTransactionResponse struct {
	RawTransaction string `json:"rawTransaction"`
	TxHash         string `json:"txHash"`
	Broadcasted    bool   `json:"broadcasted"`
}

func (m *SignTransactionResponse) Validate(_ strfmt.Registry) error {
	if err := validate.RequiredString("rawTransaction", "body", m.RawTransaction); err != nil {
		return err
	}

	if err := validate.RequiredString("txHash", "body", m.TxHash); err != nil {
		return err
	}

	return nil
}

type PostEstimateFeePayload struct {
	From     *string `json:"from"`
	To       *string `json:"to"`
	Value    *string `json:"value,omitempty"`
	GasLimit *uint64 `json:"gasLimit,omitempty"`
	Data     *string `json:"data,omitempty"`
}

func (p *PostEstimateFeePayload) Validate(_ strfmt.Registry) error {
	return required(requiredField{"from", p.From}, requiredField{"to", p.To})
}

type EstimateFeeResponse struct {
	GasLimit             uint64 `json:"gasLimit"`
	BaseFee              string `json:"baseFee"`
	MaxFeePerGas         string `json:"maxFeePerGas"`
	MaxPriorityFeePerGas string `json:"maxPriorityFeePerGas"`
	Total                string `json:"total"`
	TotalEther           string `json:"totalEther"`
}

func (m *EstimateFeeResponse) Validate(_ strfmt.Registry) error {
	return nil
}

type BalanceResponse struct {
	Address string `json:"address"`
	Wei     string `json:"wei"`
	Ether   string `json:"ether"`
}

func (m *BalanceResponse) Validate(_ strfmt.Registry) error {
	if err := validate.RequiredString("address", "body", m.Address); err != nil {
		return err
	}

	return nil
}

type requiredField struct {
	name  string
	value *string
}

// required collects every missing or empty field into one composite validation error.
func required(fields ...requiredField) error {
	var res []error

	for _, f := range fields {
		if err := validate.Required(f.name, "body", f.value); err != nil {
			res = append(res, err)
			continue
		}

		if err := validate.RequiredString(f.name, "body", *f.value); err != nil {
			res = append(res, err)
		}
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}

	return nil
}
