package util

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	oerrors "github.com/go-openapi/errors"
	"github.com/go-openapi/runtime"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github/chapool/go-keyring/internal/api/httperrors"
	"github/chapool/go-keyring/internal/types"
)

// BindAndValidateBody binds the request body into v and validates it.
// Binding failures and schema violations are returned as HTTP 400 errors.
func BindAndValidateBody(c echo.Context, v runtime.Validatable) error {
	binder := &echo.DefaultBinder{}
	if err := binder.BindBody(c, v); err != nil {
		LogFromEchoContext(c).Debug().Err(err).Msg("Failed to bind request body")
		return httperrors.NewHTTPErrorWithDetail(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, http.StatusText(http.StatusBadRequest), "malformed request body")
	}

	return validatePayload(c, v)
}

// ValidateAndReturn validates the response payload v and writes it as JSON.
// A response that does not match its schema results in an internal server error.
func ValidateAndReturn(c echo.Context, code int, v runtime.Validatable) error {
	if err := v.Validate(strfmt.Default); err != nil {
		LogFromEchoContext(c).Error().Err(err).Msg("Response did not match schema")
		return echo.ErrInternalServerError
	}

	return c.JSON(code, v)
}

func LogFromEchoContext(c echo.Context) *zerolog.Logger {
	return LogFromContext(c.Request().Context())
}

func validatePayload(c echo.Context, v runtime.Validatable) error {
	err := v.Validate(strfmt.Default)
	if err == nil {
		return nil
	}

	var compositeError *oerrors.CompositeError
	if errors.As(err, &compositeError) {
		LogFromEchoContext(c).Debug().Errs("validation_errors", compositeError.Errors).Msg("Payload did not match schema, returning HTTP validation error")

		return httperrors.NewHTTPValidationError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, http.StatusText(http.StatusBadRequest), formatValidationErrors(c.Request().Context(), compositeError))
	}

	var validationError *oerrors.Validation
	if errors.As(err, &validationError) {
		LogFromEchoContext(c).Debug().AnErr("validation_error", validationError).Msg("Payload did not match schema, returning HTTP validation error")

		return httperrors.NewHTTPValidationError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, http.StatusText(http.StatusBadRequest), []*types.HTTPValidationErrorDetail{
			{
				Key:   swag.String(validationError.Name),
				In:    swag.String(validationError.In),
				Error: swag.String(validationError.Error()),
			},
		})
	}

	LogFromEchoContext(c).Error().Err(err).Msg("Failed to validate payload, returning generic HTTP error")

	return echo.ErrBadRequest
}

func formatValidationErrors(ctx context.Context, err *oerrors.CompositeError) []*types.HTTPValidationErrorDetail {
	valErrs := make([]*types.HTTPValidationErrorDetail, 0, len(err.Errors))
	for _, e := range err.Errors {
		var validationError *oerrors.Validation
		if errors.As(e, &validationError) {
			valErrs = append(valErrs, &types.HTTPValidationErrorDetail{
				Key:   swag.String(validationError.Name),
				In:    swag.String(validationError.In),
				Error: swag.String(validationError.Error()),
			})
			continue
		}

		var compositeError *oerrors.CompositeError
		if errors.As(e, &compositeError) {
			valErrs = append(valErrs, formatValidationErrors(ctx, compositeError)...)
			continue
		}

		LogFromContext(ctx).Warn().Err(e).Str("err_type", fmt.Sprintf("%T", e)).Msg("Received unknown error type while validating payload, skipping")
	}

	return valErrs
}
