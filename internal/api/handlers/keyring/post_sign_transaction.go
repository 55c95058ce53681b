package keyring

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github/chapool/go-keyring/internal/api"
	"github/chapool/go-keyring/internal/api/httperrors"
	"github/chapool/go-keyring/internal/types"
	"github/chapool/go-keyring/internal/util"
	"github/chapool/go-keyring/internal/wallet/address"
	"github/chapool/go-keyring/internal/wallet/signer"
)

func PostSignTransactionRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Keyring.POST("/sign-transaction", postSignTransactionHandler(s))
}

// postSignTransactionHandler signs an EIP-1559 transaction and optionally broadcasts it.
// Nonce, gas limit and fees missing from the request are taken from the network.
func postSignTransactionHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostSignTransactionPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		fields, err := parseCallFields(body.From, body.To, body.Value, body.Data)
		if err != nil {
			return err
		}

		needsFees := body.GasLimit == nil || body.MaxFeePerGas == nil || body.MaxPriorityFeePerGas == nil
		if s.Network == nil && (needsFees || body.Nonce == nil || body.Broadcast) {
			return httperrors.ErrServiceUnavailableNoNetwork
		}

		// a zero chain id is resolved by the controller from the network
		req := &signer.TxRequest{
			ChainID:              swag.Int64Value(body.ChainID),
			To:                   address.Hex(fields.to),
			Value:                fields.value.String(),
			GasLimit:             swag.Uint64Value(body.GasLimit),
			MaxFeePerGas:         swag.StringValue(body.MaxFeePerGas),
			MaxPriorityFeePerGas: swag.StringValue(body.MaxPriorityFeePerGas),
			Data:                 fields.data,
		}

		if body.Nonce != nil {
			req.Nonce = *body.Nonce
		} else {
			req.Nonce, err = s.Network.PendingNonceAt(ctx, fields.from)
			if err != nil {
				return errors.Wrap(err, "failed to get nonce")
			}
		}

		if needsFees {
			fee, err := s.Network.EstimateFee(ctx, fields.callMsg(req.GasLimit))
			if err != nil {
				return errors.Wrap(err, "failed to estimate fee")
			}

			req.GasLimit = fee.GasLimit
			if body.MaxFeePerGas == nil {
				req.MaxFeePerGas = fee.MaxFeePerGas.String()
			}
			if body.MaxPriorityFeePerGas == nil {
				req.MaxPriorityFeePerGas = fee.MaxPriorityFeePerGas.String()
			}
		}

		tx, err := signer.BuildDynamicFeeTx(req)
		if err != nil {
			return err
		}

		signed, err := s.Keyring.SignTransaction(ctx, tx, address.Hex(fields.from), nil)
		if err != nil {
			return err
		}

		encoded, err := signer.Encode(signed)
		if err != nil {
			return err
		}

		res := &types.SignTransactionResponse{
			RawTransaction: hexutil.Encode(encoded.RawTransaction),
			TxHash:         encoded.TxHash,
		}

		if body.Broadcast {
			if err := s.Network.SendTransaction(ctx, signed); err != nil {
				log.Debug().Err(err).Str("txHash", encoded.TxHash).Msg("Failed to broadcast transaction")
				return errors.Wrap(err, "failed to broadcast transaction")
			}

			log.Info().Str("txHash", encoded.TxHash).Msg("Broadcasted transaction")
			res.Broadcasted = true
		}

		return util.ValidateAndReturn(c, http.StatusOK, res)
	}
}
