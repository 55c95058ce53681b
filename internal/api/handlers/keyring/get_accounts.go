package keyring

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/chapool/go-keyring/internal/api"
	"github/chapool/go-keyring/internal/types"
	"github/chapool/go-keyring/internal/util"
)

func GetAccountsRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Keyring.GET("/accounts", getAccountsHandler(s))
}

func getAccountsHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		accounts, err := s.Keyring.GetAccounts(c.Request().Context())
		if err != nil {
			return err
		}

		res := &types.GetAccountsResponse{
			Accounts: accounts,
			Imported: s.Keyring.ImportedWallets(),
		}
		if res.Accounts == nil {
			res.Accounts = []string{}
		}
		if res.Imported == nil {
			res.Imported = []string{}
		}

		return util.ValidateAndReturn(c, http.StatusOK, res)
	}
}
