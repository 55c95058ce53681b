package handlers

import (
	"github.com/labstack/echo/v4"
	"github/chapool/go-keyring/internal/api"
	"github/chapool/go-keyring/internal/api/handlers/common"
	"github/chapool/go-keyring/internal/api/handlers/keyring"
)

func AttachAllRoutes(s *api.Server) {
	// attach our routes
	s.Router.Routes = []*echo.Route{
		common.GetHealthyRoute(s),
		common.GetReadyRoute(s),
		common.GetVersionRoute(s),
		keyring.GetAccountsRoute(s),
		keyring.GetBalanceRoute(s),
		keyring.GetStateRoute(s),
		keyring.PostAccountsRoute(s),
		keyring.PostEstimateFeeRoute(s),
		keyring.PostExportRoute(s),
		keyring.PostImportRoute(s),
		keyring.PostLockRoute(s),
		keyring.PostSignMessageRoute(s),
		keyring.PostSignTransactionRoute(s),
		keyring.PostSignTypedDataRoute(s),
		keyring.PostUnlockRoute(s),
		keyring.PostVaultRestoreRoute(s),
		keyring.PostVaultRoute(s),
	}
}
