package signer

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// BuildDynamicFeeTx builds an unsigned EIP-1559 transaction from a request
func BuildDynamicFeeTx(req *TxRequest) (*types.Transaction, error) {
	if !common.IsHexAddress(req.To) {
		return nil, errors.Wrap(ErrInvalidTransaction, "invalid to address")
	}
	toAddress := common.HexToAddress(req.To)

	const base10 = 10
	value, ok := new(big.Int).SetString(req.Value, base10)
	if !ok {
		return nil, errors.Wrap(ErrInvalidTransaction, "invalid value format")
	}

	maxFeePerGas, ok := new(big.Int).SetString(req.MaxFeePerGas, base10)
	if !ok {
		return nil, errors.Wrap(ErrInvalidTransaction, "invalid maxFeePerGas format")
	}

	maxPriorityFeePerGas, ok := new(big.Int).SetString(req.MaxPriorityFeePerGas, base10)
	if !ok {
		return nil, errors.Wrap(ErrInvalidTransaction, "invalid maxPriorityFeePerGas format")
	}

	//nolint:varnamelen // tx is a common abbreviation for transaction
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   big.NewInt(req.ChainID),
		Nonce:     req.Nonce,
		GasTipCap: maxPriorityFeePerGas,
		GasFeeCap: maxFeePerGas,
		Gas:       req.GasLimit,
		To:        &toAddress,
		Value:     value,
		Data:      req.Data,
	})

	return tx, nil
}

// SignTransaction signs tx with key after checking that key controls from.
// The chain id comes from opts when set, otherwise from the transaction itself.
func SignTransaction(tx *types.Transaction, from common.Address, key *ecdsa.PrivateKey, opts *Options) (*types.Transaction, error) {
	if err := checkFrom(from, key); err != nil {
		return nil, err
	}

	chainID := tx.ChainId()
	if opts != nil && opts.ChainID != nil {
		chainID = opts.ChainID
	}
	if chainID == nil || chainID.Sign() == 0 {
		return nil, ErrMissingChainID
	}

	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}

	return signedTx, nil
}

// Encode returns the wire encoding and hash of a signed transaction.
func Encode(signedTx *types.Transaction) (*Signed, error) {
	txBytes, err := signedTx.MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal transaction")
	}

	return &Signed{
		RawTransaction: txBytes,
		TxHash:         signedTx.Hash().Hex(),
	}, nil
}

// SignPersonalMessage signs data as an EIP-191 personal message.
// The returned signature uses V in {27, 28}.
func SignPersonalMessage(data []byte, from common.Address, key *ecdsa.PrivateKey) ([]byte, error) {
	if err := checkFrom(from, key); err != nil {
		return nil, err
	}

	return signHash(accounts.TextHash(data), key)
}

// RecoverPersonal recovers the signer address of an EIP-191 personal message signature.
func RecoverPersonal(data []byte, sig []byte) (common.Address, error) {
	const sigLength = 65
	if len(sig) != sigLength {
		return common.Address{}, errors.New("invalid signature length")
	}

	localSig := make([]byte, sigLength)
	copy(localSig, sig)
	if localSig[64] >= 27 {
		localSig[64] -= 27
	}

	pubKey, err := crypto.SigToPub(accounts.TextHash(data), localSig)
	if err != nil {
		return common.Address{}, errors.Wrap(err, "signature recovery failed")
	}

	return crypto.PubkeyToAddress(*pubKey), nil
}

func signHash(hash []byte, key *ecdsa.PrivateKey) ([]byte, error) {
	sig, err := crypto.Sign(hash, key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign hash")
	}

	// Adjust V from 0/1 to 27/28 for Ethereum compatibility.
	sig[64] += 27

	return sig, nil
}

func checkFrom(from common.Address, key *ecdsa.PrivateKey) error {
	if crypto.PubkeyToAddress(key.PublicKey) != from {
		return ErrFromAddressMismatch
	}

	return nil
}
