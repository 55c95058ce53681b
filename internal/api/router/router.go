package router

import (
	"errors"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"github/chapool/go-keyring/internal/api"
	"github/chapool/go-keyring/internal/api/handlers"
	"github/chapool/go-keyring/internal/api/httperrors"
	"github/chapool/go-keyring/internal/api/middleware"
	"github/chapool/go-keyring/internal/wallet"
	"github/chapool/go-keyring/internal/wallet/address"
	"github/chapool/go-keyring/internal/wallet/keyring"
	"github/chapool/go-keyring/internal/wallet/signer"
	"github/chapool/go-keyring/internal/wallet/vault"
)

func Init(s *api.Server) error {
	if s.Registry == nil {
		return errors.New("server has no metrics registry")
	}

	s.Echo = echo.New()

	s.Echo.Debug = s.Config.Echo.Debug
	s.Echo.HideBanner = true
	s.Echo.HidePort = true
	s.Echo.Logger.SetOutput(&echoLogger{level: s.Config.Logger.RequestLevel, log: log.With().Str("component", "echo").Logger()})

	s.Echo.HTTPErrorHandler = httperrors.HTTPErrorHandlerWithConfig(httperrors.HTTPErrorHandlerConfig{
		HideInternalServerErrorDetails: s.Config.Echo.HideInternalServerErrorDetails,
		Translate:                      translateKeyringError,
	})

	// ---
	// General middleware
	if s.Config.Echo.EnableRecoverMiddleware {
		s.Echo.Use(echoMiddleware.RecoverWithConfig(echoMiddleware.RecoverConfig{
			LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
				log.Ctx(c.Request().Context()).Error().Err(err).Bytes("stack", stack).Msg("Recovered from panic")
				return err
			},
		}))
	} else {
		log.Warn().Msg("Disabling recover middleware due to environment config")
	}

	if s.Config.Echo.EnableRequestIDMiddleware {
		s.Echo.Use(echoMiddleware.RequestID())
	} else {
		log.Warn().Msg("Disabling request ID middleware due to environment config")
	}

	if s.Config.Echo.EnableLoggerMiddleware {
		s.Echo.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
			Level: s.Config.Logger.RequestLevel,
		}))
	} else {
		log.Warn().Msg("Disabling logger middleware due to environment config")
	}

	if s.Config.Echo.EnableMetricsMiddleware {
		s.Echo.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:  "keyring",
			Subsystem:  "http",
			Registerer: s.Registry,
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/metrics"
			},
		}))
	} else {
		log.Warn().Msg("Disabling metrics middleware due to environment config")
	}

	s.Router = &api.Router{
		Routes:       nil, // will be populated by handlers.AttachAllRoutes(s)
		Root:         s.Echo.Group(""),
		Management:   s.Echo.Group("/-"),
		APIV1Keyring: s.Echo.Group("/api/v1/keyring"),
	}

	s.Echo.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: s.Registry,
	}))

	// ---
	// Finally attach our handlers
	handlers.AttachAllRoutes(s)

	return nil
}

type errorMapping struct {
	target error
	res    *httperrors.HTTPError
}

// Ordered: the wrapped vault errors precede their parent ErrDecryption.
var keyringErrors = []errorMapping{
	{vault.ErrIncorrectPassword, httperrors.ErrUnauthorizedIncorrectPassword},
	{vault.ErrCorruptVault, httperrors.ErrUnprocessableCorruptVault},
	{vault.ErrDecryption, httperrors.ErrUnprocessableCorruptVault},
	{vault.ErrNoVault, httperrors.ErrNotFoundVault},
	{wallet.ErrInvalidPassword, httperrors.ErrBadRequestInvalidPassword},
	{wallet.ErrMissingPassword, httperrors.ErrLockedVault},
	{wallet.ErrLocked, httperrors.ErrLockedVault},
	{keyring.ErrInvalidSeedPhrase, httperrors.ErrBadRequestInvalidSeedPhrase},
	{keyring.ErrInvalidPrivateKey, httperrors.ErrBadRequestInvalidPrivateKey},
	{wallet.ErrDuplicateAccount, httperrors.ErrConflictDuplicateAccount},
	{wallet.ErrNoOwningKeyring, httperrors.ErrNotFoundAccount},
	{wallet.ErrKeyringNotFound, httperrors.ErrNotFoundAccount},
	{keyring.ErrUnknownKeyringType, httperrors.ErrBadRequestUnknownKeyringType},
	{keyring.ErrInvalidAccountCount, httperrors.ErrBadRequestInvalidRequest},
	{address.ErrInvalidAddress, httperrors.ErrBadRequestInvalidRequest},
	{signer.ErrUnsupportedTypedDataVersion, httperrors.ErrBadRequestInvalidRequest},
	{signer.ErrInvalidTypedData, httperrors.ErrBadRequestInvalidRequest},
	{signer.ErrMissingChainID, httperrors.ErrBadRequestInvalidRequest},
	{signer.ErrInvalidTransaction, httperrors.ErrBadRequestInvalidRequest},
	{signer.ErrFromAddressMismatch, httperrors.ErrBadRequestInvalidRequest},
}

func translateKeyringError(err error) *httperrors.HTTPError {
	for _, m := range keyringErrors {
		if errors.Is(err, m.target) {
			return m.res.WithCause(err)
		}
	}

	return nil
}
