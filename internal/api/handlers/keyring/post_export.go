package keyring

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/chapool/go-keyring/internal/api"
	"github/chapool/go-keyring/internal/types"
	"github/chapool/go-keyring/internal/util"
)

func PostExportRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Keyring.POST("/export", postExportHandler(s))
}

// postExportHandler reveals the private key of an account. The vault password has to
// be given again even though the controller is unlocked.
func postExportHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var body types.PostExportPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		if err := s.Keyring.VerifyPassword(ctx, swag.StringValue(body.Password)); err != nil {
			return err
		}

		key, err := s.Keyring.ExportAccount(ctx, swag.StringValue(body.Address))
		if err != nil {
			return err
		}

		util.LogFromContext(ctx).Info().Str("address", swag.StringValue(body.Address)).Msg("Exported account")

		return util.ValidateAndReturn(c, http.StatusOK, &types.PostExportResponse{PrivateKey: key})
	}
}
