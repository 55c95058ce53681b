package keyring

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/chapool/go-keyring/internal/api"
	"github/chapool/go-keyring/internal/api/httperrors"
	"github/chapool/go-keyring/internal/types"
	"github/chapool/go-keyring/internal/util"
	"github/chapool/go-keyring/internal/wallet/address"
	"github/chapool/go-keyring/internal/wallet/network"
)

func GetBalanceRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Keyring.GET("/accounts/:address/balance", getBalanceHandler(s))
}

func getBalanceHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		if s.Network == nil {
			return httperrors.ErrServiceUnavailableNoNetwork
		}

		addr, err := address.Parse(c.Param("address"))
		if err != nil {
			return err
		}

		wei, err := s.Network.Balance(ctx, addr)
		if err != nil {
			util.LogFromContext(ctx).Debug().Err(err).Msg("Failed to get balance")
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.BalanceResponse{
			Address: address.Hex(addr),
			Wei:     wei.String(),
			Ether:   network.WeiToEther(wei),
		})
	}
}
