package keyring

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/chapool/go-keyring/internal/api"
	"github/chapool/go-keyring/internal/types"
	"github/chapool/go-keyring/internal/util"
)

func PostVaultRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Keyring.POST("/vault", postVaultHandler(s))
}

// postVaultHandler creates a fresh vault with a newly generated seed phrase. Any
// existing vault is replaced.
func postVaultHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var body types.PostCreateVaultPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		state, err := s.Keyring.CreateNewVaultAndKeychain(ctx, swag.StringValue(body.Password))
		if err != nil {
			util.LogFromContext(ctx).Debug().Err(err).Msg("Failed to create vault")
			return err
		}

		return util.ValidateAndReturn(c, http.StatusCreated, state.ToTypes())
	}
}
