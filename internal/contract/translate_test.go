package contract_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Behyna/sms-services/messagegateway/internal/constants"
	"github.com/Behyna/sms-services/messagegateway/internal/contract"
	"github.com/Behyna/sms-services/messagegateway/internal/service"
	"github.com/Behyna/sms-services/messagegateway/pkg/envelope"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromError(t *testing.T) {
	testCases := []struct {
		name    string
		err     error
		code    string
		message string
		status  int
	}{
		{
			name:    "service not found",
			err:     service.NewServiceError(constants.ErrCodeMessageNotFound, service.ErrMessageNotFound),
			code:    constants.ErrCodeMessageNotFound,
			message: constants.ErrMsgMessageNotFound,
			status:  404,
		},
		{
			name:    "wrapped service duplicate",
			err:     fmt.Errorf("create: %w", service.NewServiceError(constants.ErrCodeDuplicateMessage, errors.New("dup"))),
			code:    constants.ErrCodeDuplicateMessage,
			message: constants.ErrMsgDuplicateMessage,
			status:  409,
		},
		{
			name:    "internal service code is hidden",
			err:     service.NewServiceError(service.ErrCodeDatabase, errors.New("dial tcp: refused")),
			code:    constants.ErrCodeInternalError,
			message: constants.ErrMsgInternalError,
			status:  500,
		},
		{
			name:    "fiber route not found",
			err:     fiber.ErrNotFound,
			code:    constants.ErrCodeNotFound,
			message: constants.ErrMsgNotFound,
			status:  404,
		},
		{
			name:    "fiber method not allowed",
			err:     fiber.ErrMethodNotAllowed,
			code:    constants.ErrCodeMethodNotAllowed,
			message: constants.ErrMsgMethodNotAllowed,
			status:  405,
		},
		{
			name:    "fiber body limit",
			err:     fiber.ErrRequestEntityTooLarge,
			code:    constants.ErrCodePayloadTooLarge,
			message: constants.ErrMsgPayloadTooLarge,
			status:  413,
		},
		{
			name:    "fiber unsupported media type",
			err:     fiber.ErrUnsupportedMediaType,
			code:    constants.ErrCodeUnsupportedMedia,
			message: constants.ErrMsgUnsupportedMedia,
			status:  415,
		},
		{
			name:    "fiber request timeout",
			err:     fiber.ErrRequestTimeout,
			code:    constants.ErrCodeRequestTimeout,
			message: constants.ErrMsgRequestTimeout,
			status:  408,
		},
		{
			name:    "other fiber client error",
			err:     fiber.ErrTeapot,
			code:    constants.ErrCodeBadRequest,
			message: constants.ErrMsgBadRequest,
			status:  400,
		},
		{
			name:    "fiber server error",
			err:     fiber.ErrBadGateway,
			code:    constants.ErrCodeInternalError,
			message: constants.ErrMsgInternalError,
			status:  500,
		},
		{
			name:    "unknown error",
			err:     errors.New("nil pointer"),
			code:    constants.ErrCodeInternalError,
			message: constants.ErrMsgInternalError,
			status:  500,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := contract.FromError(tc.err, "req-1")

			assert.Equal(t, tc.code, env.Err.Code)
			assert.Equal(t, tc.message, env.Err.Message)
			assert.Equal(t, tc.status, env.Err.StatusCode)
			assert.Nil(t, env.Err.Details)
			require.NotNil(t, env.Err.RequestID)
			assert.Equal(t, "req-1", *env.Err.RequestID)
			assert.NoError(t, envelope.Validate(env))
		})
	}
}

func TestFromError_PassesEnvelopeThrough(t *testing.T) {
	original := envelope.NewError(constants.ErrCodeValidationFailed, "The 'to' field is invalid", 422,
		envelope.WithContext(map[string]any{"to": "msisdn"}))

	env := contract.FromError(original, "req-2")

	assert.Equal(t, original.Err.Code, env.Err.Code)
	assert.Equal(t, original.Err.Message, env.Err.Message)
	assert.Equal(t, original.Err.Context, env.Err.Context)
	require.NotNil(t, env.Err.RequestID)
	assert.Equal(t, "req-2", *env.Err.RequestID)
}

func TestFromCode_WithoutRequestID(t *testing.T) {
	env := contract.FromCode(constants.ErrCodeRateLimited, "", envelope.WithDetails("retry later"))

	assert.Equal(t, 429, env.Err.StatusCode)
	assert.Nil(t, env.Err.RequestID)
	require.NotNil(t, env.Err.Details)
	assert.Equal(t, "retry later", *env.Err.Details)
}
