package keyring

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/chapool/go-keyring/internal/api"
	"github/chapool/go-keyring/internal/types"
	"github/chapool/go-keyring/internal/util"
)

func PostUnlockRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Keyring.POST("/unlock", postUnlockHandler(s))
}

func postUnlockHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var body types.PostUnlockPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		state, err := s.Keyring.SubmitPassword(ctx, swag.StringValue(body.Password))
		if err != nil {
			util.LogFromContext(ctx).Debug().Err(err).Msg("Failed to unlock vault")
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, state.ToTypes())
	}
}
