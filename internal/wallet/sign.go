package wallet

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github/chapool/go-keyring/internal/util"
	"github/chapool/go-keyring/internal/wallet/address"
	"github/chapool/go-keyring/internal/wallet/keyring"
	"github/chapool/go-keyring/internal/wallet/signer"
)

const (
	SignKindTransaction = "transaction"
	SignKindMessage     = "message"
	SignKindTypedData   = "typed_data"
)

// MessageParams is a personal_sign request. Data is the raw message.
type MessageParams struct {
	From string `json:"from"`
	Data []byte `json:"data"`
}

// TypedMessageParams is a typed data signing request.
type TypedMessageParams struct {
	From string              `json:"from"`
	Data signer.TypedMessage `json:"data"`
}

// ExportAccount returns the hex private key backing addr from its owning keyring.
func (c *Controller) ExportAccount(ctx context.Context, addr string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	from, err := address.Parse(addr)
	if err != nil {
		return "", errors.Wrap(ErrNoOwningKeyring, err.Error())
	}

	kr, err := c.keyringForAccount(ctx, addr)
	if err != nil {
		return "", err
	}

	return kr.ExportAccount(ctx, from)
}

// SignTransaction signs tx with the key of from. A missing chain id is taken from the
// configured network.
func (c *Controller) SignTransaction(ctx context.Context, tx *types.Transaction, from string, opts *signer.Options) (signed *types.Transaction, err error) {
	defer func() { c.metrics.ObserveSign(SignKindTransaction, err) }()

	opts, err = c.withChainID(ctx, tx, opts)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	addr, kr, err := c.resolveSigner(ctx, from)
	if err != nil {
		return nil, err
	}

	signed, err = kr.SignTransaction(ctx, addr, tx, opts)
	if err != nil {
		return nil, err
	}

	util.LogFromContext(ctx).Debug().Str("from", address.Hex(addr)).Str("txHash", signed.Hash().Hex()).Msg("Signed transaction")

	return signed, nil
}

// SignMessage produces a personal_sign signature over msg.Data.
func (c *Controller) SignMessage(ctx context.Context, msg MessageParams, opts *signer.Options) (sig []byte, err error) {
	defer func() { c.metrics.ObserveSign(SignKindMessage, err) }()

	c.mu.Lock()
	defer c.mu.Unlock()

	addr, kr, err := c.resolveSigner(ctx, msg.From)
	if err != nil {
		return nil, err
	}

	return kr.SignMessage(ctx, addr, msg.Data, opts)
}

// SignTypedMessage signs typed data as V1, V3 or V4. Without a version in opts legacy
// array data is signed as V1 and EIP-712 data as V4.
func (c *Controller) SignTypedMessage(ctx context.Context, msg TypedMessageParams, opts *signer.Options) (sig []byte, err error) {
	defer func() { c.metrics.ObserveSign(SignKindTypedData, err) }()

	c.mu.Lock()
	defer c.mu.Unlock()

	addr, kr, err := c.resolveSigner(ctx, msg.From)
	if err != nil {
		return nil, err
	}

	return kr.SignTypedData(ctx, addr, msg.Data, opts)
}

//nolint:ireturn
func (c *Controller) resolveSigner(ctx context.Context, from string) (common.Address, keyring.Keyring, error) {
	addr, err := address.Parse(from)
	if err != nil {
		return common.Address{}, nil, errors.Wrap(ErrNoOwningKeyring, err.Error())
	}

	kr, err := c.keyringForAccount(ctx, from)
	if err != nil {
		return common.Address{}, nil, err
	}

	return addr, kr, nil
}

func (c *Controller) withChainID(ctx context.Context, tx *types.Transaction, opts *signer.Options) (*signer.Options, error) {
	if opts != nil && opts.ChainID != nil && opts.ChainID.Sign() > 0 {
		return opts, nil
	}

	if tx != nil && tx.ChainId() != nil && tx.ChainId().Sign() > 0 {
		return opts, nil
	}

	if c.network == nil {
		return opts, nil
	}

	chainID, err := c.network.ChainID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get chain id")
	}

	res := signer.Options{ChainID: new(big.Int).Set(chainID)}
	if opts != nil {
		res.Version = opts.Version
	}

	return &res, nil
}
