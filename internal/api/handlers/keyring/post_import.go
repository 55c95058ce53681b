package keyring

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github/chapool/go-keyring/internal/api"
	"github/chapool/go-keyring/internal/types"
	"github/chapool/go-keyring/internal/util"
	"github/chapool/go-keyring/internal/wallet"
	"github/chapool/go-keyring/internal/wallet/address"
	"github/chapool/go-keyring/internal/wallet/keyring/simple"
)

func PostImportRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Keyring.POST("/import", postImportHandler(s))
}

// postImportHandler imports a private key. Persisted keys become a simple keyring in
// the vault, others are tracked by address until the next lock.
func postImportHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var body types.PostImportPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		privateKey := swag.StringValue(body.PrivateKey)

		if !body.Persist {
			addr, err := s.Keyring.ImportWallet(ctx, privateKey)
			if err != nil {
				return err
			}

			return util.ValidateAndReturn(c, http.StatusCreated, &types.PostImportResponse{Address: addr})
		}

		kr, err := s.Keyring.AddNewKeyring(ctx, simple.Type, simple.Options{privateKey})
		if err != nil {
			return err
		}

		addrs, err := kr.Addresses(ctx)
		if err != nil {
			return err
		}
		if len(addrs) == 0 {
			return errors.Wrap(wallet.ErrNoAccount, "imported keyring has no address")
		}

		return util.ValidateAndReturn(c, http.StatusCreated, &types.PostImportResponse{
			Address:   address.Hex(addrs[0]),
			Persisted: true,
		})
	}
}
