package keyring

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/chapool/go-keyring/internal/api"
	"github/chapool/go-keyring/internal/util"
)

func GetStateRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Keyring.GET("/state", getStateHandler(s))
}

func getStateHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		return util.ValidateAndReturn(c, http.StatusOK, s.Keyring.State().ToTypes())
	}
}
