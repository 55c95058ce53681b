package signer

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/json"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/pkg/errors"
)

// TypedMessage is typed data in one of the supported encodings. Legacy holds the V1
// array form, Data holds EIP-712 typed data for V3 and V4.
type TypedMessage struct {
	Legacy []LegacyTypedValue
	Data   apitypes.TypedData
}

// LegacyTypedValue is one entry of V1 typed data.
type LegacyTypedValue struct {
	Type  string          `json:"type"`
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

func (m TypedMessage) defaultVersion() string {
	if len(m.Legacy) > 0 {
		return TypedDataV1
	}

	return TypedDataV4
}

// ParseTypedMessage decodes the JSON form of typed data. A JSON array is V1 typed data,
// an object is EIP-712 typed data.
func ParseTypedMessage(raw []byte) (TypedMessage, error) {
	trimmed := bytes.TrimSpace(raw)

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var legacy []LegacyTypedValue
		if err := json.Unmarshal(trimmed, &legacy); err != nil {
			return TypedMessage{}, errors.Wrapf(ErrInvalidTypedData, "failed to decode typed data: %v", err)
		}
		if len(legacy) == 0 {
			return TypedMessage{}, errors.Wrap(ErrInvalidTypedData, "expected at least one value")
		}

		return TypedMessage{Legacy: legacy}, nil
	}

	var data apitypes.TypedData
	if err := json.Unmarshal(trimmed, &data); err != nil {
		return TypedMessage{}, errors.Wrapf(ErrInvalidTypedData, "failed to decode typed data: %v", err)
	}

	return TypedMessage{Data: data}, nil
}

// TypedDataHash returns the digest signed for msg under the given version.
func TypedDataHash(msg TypedMessage, version string) ([]byte, error) {
	if version == "" {
		version = msg.defaultVersion()
	}

	switch version {
	case TypedDataV1:
		return legacyTypedDataHash(msg.Legacy)
	case TypedDataV3, TypedDataV4:
		if len(msg.Legacy) > 0 {
			return nil, errors.Wrapf(ErrInvalidTypedData, "%s requires EIP-712 typed data", version)
		}

		if version == TypedDataV3 {
			if err := checkV3Types(msg.Data.Types); err != nil {
				return nil, err
			}
		}

		hash, _, err := apitypes.TypedDataAndHash(msg.Data)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidTypedData, "failed to hash typed data: %v", err)
		}

		return hash, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedTypedDataVersion, "%s", version)
	}
}

// SignTypedData signs typed data with the version selected by opts.
func SignTypedData(msg TypedMessage, from common.Address, key *ecdsa.PrivateKey, opts *Options) ([]byte, error) {
	var version string
	if opts != nil {
		version = opts.Version
	}

	hash, err := TypedDataHash(msg, version)
	if err != nil {
		return nil, err
	}

	if err := checkFrom(from, key); err != nil {
		return nil, err
	}

	return signHash(hash, key)
}

// V3 encodes structs like V4 but has no array support.
func checkV3Types(types apitypes.Types) error {
	for name, fields := range types {
		for _, field := range fields {
			if strings.HasSuffix(field.Type, "]") {
				return errors.Wrapf(ErrInvalidTypedData, "%s.%s: arrays are not supported by V3, use V4", name, field.Name)
			}
		}
	}

	return nil
}

// legacyTypedDataHash is keccak256(keccak256(schema) || keccak256(values)), where schema is
// the concatenation of "type name" strings and values are tightly packed.
func legacyTypedDataHash(values []LegacyTypedValue) ([]byte, error) {
	if len(values) == 0 {
		return nil, errors.Wrap(ErrInvalidTypedData, "V1 requires a non-empty array of typed values")
	}

	var schema, packed []byte
	for _, v := range values {
		enc, err := packLegacyValue(v.Type, v.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "value %q", v.Name)
		}

		schema = append(schema, v.Type+" "+v.Name...)
		packed = append(packed, enc...)
	}

	return crypto.Keccak256(crypto.Keccak256(schema), crypto.Keccak256(packed)), nil
}

func packLegacyValue(typ string, raw json.RawMessage) ([]byte, error) {
	switch {
	case typ == "string":
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, errors.Wrap(ErrInvalidTypedData, "expected a string")
		}
		return []byte(s), nil
	case typ == "bytes":
		return decodeLegacyHex(raw)
	case typ == "bool":
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, errors.Wrap(ErrInvalidTypedData, "expected a bool")
		}
		if b {
			return []byte{1}, nil
		}
		return []byte{0}, nil
	case typ == "address":
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || !common.IsHexAddress(s) {
			return nil, errors.Wrap(ErrInvalidTypedData, "expected a hex address")
		}
		return common.HexToAddress(s).Bytes(), nil
	case strings.HasPrefix(typ, "bytes"):
		size, err := strconv.Atoi(strings.TrimPrefix(typ, "bytes"))
		if err != nil || size < 1 || size > 32 {
			return nil, errors.Wrapf(ErrInvalidTypedData, "unsupported type %s", typ)
		}
		b, err := decodeLegacyHex(raw)
		if err != nil {
			return nil, err
		}
		if len(b) > size {
			return nil, errors.Wrapf(ErrInvalidTypedData, "value too long for %s", typ)
		}
		return common.RightPadBytes(b, size), nil
	case strings.HasPrefix(typ, "uint"):
		bits, err := legacyIntBits(typ, "uint")
		if err != nil {
			return nil, err
		}
		n, err := parseLegacyInt(raw)
		if err != nil {
			return nil, err
		}
		if n.Sign() < 0 || n.BitLen() > bits {
			return nil, errors.Wrapf(ErrInvalidTypedData, "value out of range for %s", typ)
		}
		return math.PaddedBigBytes(n, bits/8), nil
	case strings.HasPrefix(typ, "int"):
		bits, err := legacyIntBits(typ, "int")
		if err != nil {
			return nil, err
		}
		n, err := parseLegacyInt(raw)
		if err != nil {
			return nil, err
		}
		limit := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
		if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
			return nil, errors.Wrapf(ErrInvalidTypedData, "value out of range for %s", typ)
		}
		if n.Sign() < 0 {
			n.Add(n, new(big.Int).Lsh(big.NewInt(1), uint(bits)))
		}
		return math.PaddedBigBytes(n, bits/8), nil
	default:
		return nil, errors.Wrapf(ErrInvalidTypedData, "unsupported type %s", typ)
	}
}

func decodeLegacyHex(raw json.RawMessage) ([]byte, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, errors.Wrap(ErrInvalidTypedData, "expected a hex string")
	}

	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidTypedData, "invalid hex value: %v", err)
	}

	return b, nil
}

// legacyIntBits returns the width of uintN/intN; a bare uint or int is 256 bits.
func legacyIntBits(typ string, prefix string) (int, error) {
	suffix := strings.TrimPrefix(typ, prefix)
	if suffix == "" {
		return 256, nil
	}

	bits, err := strconv.Atoi(suffix)
	if err != nil || bits < 8 || bits > 256 || bits%8 != 0 {
		return 0, errors.Wrapf(ErrInvalidTypedData, "unsupported type %s", typ)
	}

	return bits, nil
}

// parseLegacyInt accepts a JSON number or a decimal or 0x-prefixed hex string.
func parseLegacyInt(raw json.RawMessage) (*big.Int, error) {
	s := strings.TrimSpace(string(raw))
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, errors.Wrap(ErrInvalidTypedData, "expected an integer")
		}
	}

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		s = s[2:]
	}

	n, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, errors.Wrap(ErrInvalidTypedData, "expected an integer")
	}
	if neg {
		n.Neg(n)
	}

	return n, nil
}
