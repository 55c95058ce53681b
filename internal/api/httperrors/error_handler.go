package httperrors

import (
	"errors"
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github/chapool/go-keyring/internal/types"
)

type HTTPErrorHandlerConfig struct {
	HideInternalServerErrorDetails bool
	// Translate maps domain errors to public HTTP errors before the generic handling.
	Translate func(err error) *HTTPError
}

func HTTPErrorHandlerWithConfig(config HTTPErrorHandlerConfig) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var code int64
		var resultErr error

		var he *HTTPError
		var hve *HTTPValidationError
		var echoHe *echo.HTTPError

		switch {
		case errors.As(err, &he):
			code = swag.Int64Value(he.Code)
			resultErr = he
		case errors.As(err, &hve):
			code = swag.Int64Value(hve.Code)
			resultErr = hve
		case errors.As(err, &echoHe):
			he = NewFromEcho(echoHe)
			code = swag.Int64Value(he.Code)
			resultErr = he
		default:
			if config.Translate != nil {
				if translated := config.Translate(err); translated != nil {
					code = swag.Int64Value(translated.Code)
					resultErr = translated
					break
				}
			}

			code = http.StatusInternalServerError
			he = NewHTTPError(http.StatusInternalServerError, types.PublicHTTPErrorTypeGeneric, http.StatusText(http.StatusInternalServerError))
			if !config.HideInternalServerErrorDetails {
				he.Detail = err.Error()
			}
			resultErr = he
		}

		if code >= http.StatusInternalServerError {
			log.Ctx(c.Request().Context()).Error().Err(err).Msg("Request failed")
		}

		if c.Response().Committed {
			return
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(int(code))
		} else {
			writeErr = c.JSON(int(code), resultErr)
		}
		if writeErr != nil {
			log.Warn().Err(writeErr).AnErr("http_err", err).Msg("Failed to handle HTTP error")
		}
	}
}
