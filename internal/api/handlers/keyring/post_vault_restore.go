package keyring

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/chapool/go-keyring/internal/api"
	"github/chapool/go-keyring/internal/types"
	"github/chapool/go-keyring/internal/util"
)

func PostVaultRestoreRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Keyring.POST("/vault/restore", postVaultRestoreHandler(s))
}

func postVaultRestoreHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var body types.PostRestoreVaultPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		state, err := s.Keyring.CreateNewVaultAndRestore(ctx, swag.StringValue(body.Password), swag.StringValue(body.Mnemonic))
		if err != nil {
			util.LogFromContext(ctx).Debug().Err(err).Msg("Failed to restore vault")
			return err
		}

		return util.ValidateAndReturn(c, http.StatusCreated, state.ToTypes())
	}
}
