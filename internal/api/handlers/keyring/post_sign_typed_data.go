package keyring

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/chapool/go-keyring/internal/api"
	"github/chapool/go-keyring/internal/api/httperrors"
	"github/chapool/go-keyring/internal/types"
	"github/chapool/go-keyring/internal/util"
	"github/chapool/go-keyring/internal/wallet"
	"github/chapool/go-keyring/internal/wallet/signer"
)

func PostSignTypedDataRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Keyring.POST("/sign-typed-data", postSignTypedDataHandler(s))
}

func postSignTypedDataHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var body types.PostSignTypedDataPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		typedData, err := signer.ParseTypedMessage(body.TypedData)
		if err != nil {
			return httperrors.ErrBadRequestInvalidRequest.WithCause(err)
		}

		var opts *signer.Options
		if body.Version != "" {
			opts = &signer.Options{Version: body.Version}
		}

		sig, err := s.Keyring.SignTypedMessage(ctx, wallet.TypedMessageParams{
			From: swag.StringValue(body.From),
			Data: typedData,
		}, opts)
		if err != nil {
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.SignatureResponse{Signature: hexutil.Encode(sig)})
	}
}
