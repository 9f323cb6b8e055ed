// Package contract turns failures raised anywhere behind the API boundary into
// Error envelopes.
package contract

import (
	"errors"

	"github.com/Behyna/sms-services/messagegateway/internal/constants"
	"github.com/Behyna/sms-services/messagegateway/internal/service"
	"github.com/Behyna/sms-services/messagegateway/pkg/envelope"
	"github.com/gofiber/fiber/v2"
)

// FromError never returns an envelope exposing an internal code or cause.
func FromError(err error, requestID string) envelope.Error {
	var envErr envelope.Error
	if errors.As(err, &envErr) {
		return envErr.WithRequestID(requestID)
	}

	var serviceErr service.Error
	if errors.As(err, &serviceErr) {
		return FromCode(serviceErr.Code, requestID)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return FromCode(constants.CodeForStatus(fiberErr.Code), requestID)
	}

	return FromCode(constants.ErrCodeInternalError, requestID)
}

// FromCode builds the envelope for a public error code. Codes without a
// public status are reported as INTERNAL_ERROR.
func FromCode(code string, requestID string, opts ...envelope.Option) envelope.Error {
	status := constants.GetHTTPStatus(code)
	if status == fiber.StatusInternalServerError {
		code = constants.ErrCodeInternalError
	}

	opts = append(opts, envelope.WithRequestID(requestID))

	return envelope.NewError(code, constants.GetErrorMessage(code), status, opts...)
}
