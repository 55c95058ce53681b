package signer

import (
	"math/big"

	"github.com/pkg/errors"
)

// Typed data encoding versions. V1 is the legacy array form, V3 and V4 are EIP-712.
const (
	TypedDataV1 = "V1"
	TypedDataV3 = "V3"
	TypedDataV4 = "V4"
)

var (
	ErrUnsupportedTypedDataVersion = errors.New("unsupported typed data version")
	ErrInvalidTypedData            = errors.New("invalid typed data")
	ErrFromAddressMismatch         = errors.New("from address does not match private key")
	ErrMissingChainID              = errors.New("chain id is required to sign a transaction")
	ErrInvalidTransaction          = errors.New("invalid transaction request")
)

// Options carries per-call signing options.
type Options struct {
	// ChainID overrides the chain id embedded in the transaction.
	ChainID *big.Int
	// Version selects the typed data encoding. Empty picks V1 for legacy data and V4 otherwise.
	Version string
}

// TxRequest describes an EIP-1559 transaction in wire-friendly form.
type TxRequest struct {
	ChainID              int64  // Chain ID (1 for Ethereum mainnet, 137 for Polygon, etc.)
	To                   string // Recipient address (hex string with 0x prefix)
	Value                string // Amount in wei (as string to avoid precision loss)
	GasLimit             uint64 // Gas limit
	MaxFeePerGas         string // Max fee per gas (EIP-1559, in wei, as string)
	MaxPriorityFeePerGas string // Max priority fee per gas (EIP-1559, in wei, as string)
	Nonce                uint64 // Transaction nonce
	Data                 []byte // Transaction data (for contract calls)
}

// Signed represents a signed EVM transaction
type Signed struct {
	RawTransaction []byte // RLP-encoded signed transaction
	TxHash         string // Transaction hash (hex string with 0x prefix)
}
