package keyring

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/chapool/go-keyring/internal/api"
	"github/chapool/go-keyring/internal/api/httperrors"
	"github/chapool/go-keyring/internal/types"
	"github/chapool/go-keyring/internal/util"
)

func PostEstimateFeeRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Keyring.POST("/estimate-fee", postEstimateFeeHandler(s))
}

func postEstimateFeeHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		if s.Network == nil {
			return httperrors.ErrServiceUnavailableNoNetwork
		}

		var body types.PostEstimateFeePayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		fields, err := parseCallFields(body.From, body.To, body.Value, body.Data)
		if err != nil {
			return err
		}

		fee, err := s.Network.EstimateFee(ctx, fields.callMsg(swag.Uint64Value(body.GasLimit)))
		if err != nil {
			util.LogFromContext(ctx).Debug().Err(err).Msg("Failed to estimate fee")
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.EstimateFeeResponse{
			GasLimit:             fee.GasLimit,
			BaseFee:              fee.BaseFee.String(),
			MaxFeePerGas:         fee.MaxFeePerGas.String(),
			MaxPriorityFeePerGas: fee.MaxPriorityFeePerGas.String(),
			Total:                fee.Total.String(),
			TotalEther:           fee.TotalEther(),
		})
	}
}
