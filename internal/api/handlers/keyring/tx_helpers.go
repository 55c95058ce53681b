package keyring

import (
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-openapi/swag"
	"github.com/pkg/errors"
	"github/chapool/go-keyring/internal/wallet/address"
	"github/chapool/go-keyring/internal/wallet/signer"
)

// callFields are the parts of a transaction request shared by fee estimation and signing.
type callFields struct {
	from  common.Address
	to    common.Address
	value *big.Int
	data  []byte
}

func parseCallFields(from, to, value, data *string) (*callFields, error) {
	res := &callFields{value: big.NewInt(0)}

	var err error
	res.from, err = address.Parse(swag.StringValue(from))
	if err != nil {
		return nil, errors.Wrap(signer.ErrInvalidTransaction, "invalid from address")
	}

	res.to, err = address.Parse(swag.StringValue(to))
	if err != nil {
		return nil, errors.Wrap(signer.ErrInvalidTransaction, "invalid to address")
	}

	if v := swag.StringValue(value); v != "" {
		if _, ok := res.value.SetString(v, 10); !ok || res.value.Sign() < 0 {
			return nil, errors.Wrap(signer.ErrInvalidTransaction, "invalid value format")
		}
	}

	if d := swag.StringValue(data); d != "" {
		res.data, err = hexutil.Decode(d)
		if err != nil {
			return nil, errors.Wrap(signer.ErrInvalidTransaction, "invalid data encoding")
		}
	}

	return res, nil
}

func (f *callFields) callMsg(gasLimit uint64) ethereum.CallMsg {
	to := f.to

	return ethereum.CallMsg{
		From:  f.from,
		To:    &to,
		Gas:   gasLimit,
		Value: f.value,
		Data:  f.data,
	}
}
