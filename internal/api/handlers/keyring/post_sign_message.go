package keyring

import (
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/chapool/go-keyring/internal/api"
	"github/chapool/go-keyring/internal/api/httperrors"
	"github/chapool/go-keyring/internal/types"
	"github/chapool/go-keyring/internal/util"
	"github/chapool/go-keyring/internal/wallet"
)

func PostSignMessageRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Keyring.POST("/sign-message", postSignMessageHandler(s))
}

func postSignMessageHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var body types.PostSignMessagePayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		data, err := messageBytes(swag.StringValue(body.Message))
		if err != nil {
			return httperrors.ErrBadRequestInvalidRequest.WithCause(err)
		}

		sig, err := s.Keyring.SignMessage(ctx, wallet.MessageParams{
			From: swag.StringValue(body.From),
			Data: data,
		}, nil)
		if err != nil {
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.SignatureResponse{Signature: hexutil.Encode(sig)})
	}
}

func messageBytes(msg string) ([]byte, error) {
	if strings.HasPrefix(msg, "0x") || strings.HasPrefix(msg, "0X") {
		return hexutil.Decode("0x" + msg[2:])
	}

	return []byte(msg), nil
}
