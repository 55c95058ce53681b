package keyring

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/chapool/go-keyring/internal/api"
	"github/chapool/go-keyring/internal/util"
)

func PostLockRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Keyring.POST("/lock", postLockHandler(s))
}

func postLockHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		state := s.Keyring.SetLocked(c.Request().Context())

		return util.ValidateAndReturn(c, http.StatusOK, state.ToTypes())
	}
}
