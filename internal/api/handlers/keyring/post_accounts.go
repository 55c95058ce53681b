package keyring

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/chapool/go-keyring/internal/api"
	"github/chapool/go-keyring/internal/api/httperrors"
	"github/chapool/go-keyring/internal/types"
	"github/chapool/go-keyring/internal/util"
	"github/chapool/go-keyring/internal/wallet/keyring/hd"
)

func PostAccountsRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Keyring.POST("/accounts", postAccountsHandler(s))
}

// postAccountsHandler derives the next account of the first keyring of the requested
// type, the HD keyring by default.
func postAccountsHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var body types.PostAddAccountPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		typeName := swag.StringValue(body.KeyringType)
		if typeName == "" {
			typeName = hd.Type
		}

		if !s.Keyring.IsUnlocked() {
			return httperrors.ErrLockedVault
		}

		keyrings := s.Keyring.GetKeyringsByType(typeName)
		if len(keyrings) == 0 {
			return httperrors.NewHTTPErrorWithDetail(http.StatusNotFound, types.PublicHTTPErrorTypeUnknownKeyring, "No keyring of this type.", typeName)
		}

		state, err := s.Keyring.AddNewAccount(ctx, keyrings[0])
		if err != nil {
			util.LogFromContext(ctx).Debug().Err(err).Str("keyringType", typeName).Msg("Failed to add account")
			return err
		}

		return util.ValidateAndReturn(c, http.StatusCreated, state.ToTypes())
	}
}
