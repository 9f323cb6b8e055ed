package constants

import "net/http"

const MessageErrorFormat = "The '%s' field is invalid"

const (
	ErrCodeMessageNotFound    = "MESSAGE_NOT_FOUND"
	ErrCodeDuplicateMessage   = "DUPLICATE_MESSAGE"
	ErrCodeRequestInProgress  = "REQUEST_IN_PROGRESS"
	ErrCodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeInvalidParameter   = "INVALID_PARAMETER"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeRequestTimeout     = "REQUEST_TIMEOUT"
	ErrCodePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
	ErrCodeUnsupportedMedia   = "UNSUPPORTED_MEDIA_TYPE"
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeUnavailable        = "UNAVAILABLE"
	ErrCodeUnknownMethod      = "UNKNOWN_METHOD"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

const (
	ErrMsgMessageNotFound    = "message not found"
	ErrMsgDuplicateMessage   = "duplicate message"
	ErrMsgRequestInProgress  = "a request with this idempotency key is still in progress"
	ErrMsgInvalidRequestBody = "failed to parse request body"
	ErrMsgValidationFailed   = "request validation failed"
	ErrMsgInvalidParameter   = "invalid parameter"
	ErrMsgNotFound           = "resource not found"
	ErrMsgMethodNotAllowed   = "method not allowed"
	ErrMsgRequestTimeout     = "request timed out"
	ErrMsgPayloadTooLarge    = "request body too large"
	ErrMsgUnsupportedMedia   = "unsupported media type"
	ErrMsgBadRequest         = "bad request"
	ErrMsgRateLimited        = "too many requests"
	ErrMsgUnavailable        = "service unavailable"
	ErrMsgUnknownMethod      = "unknown method"
	ErrMsgInternalError      = "Internal server error"
)

const (
	MessageCreated  = "message created"
	MessageFound    = "message retrieved"
	MessageDeleted  = "message deleted"
	MessagesListed  = "messages retrieved"
	Pong            = "pong"
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

var errorMessages = map[string]string{
	ErrCodeMessageNotFound:    ErrMsgMessageNotFound,
	ErrCodeDuplicateMessage:   ErrMsgDuplicateMessage,
	ErrCodeRequestInProgress:  ErrMsgRequestInProgress,
	ErrCodeInvalidRequestBody: ErrMsgInvalidRequestBody,
	ErrCodeValidationFailed:   ErrMsgValidationFailed,
	ErrCodeInvalidParameter:   ErrMsgInvalidParameter,
	ErrCodeNotFound:           ErrMsgNotFound,
	ErrCodeMethodNotAllowed:   ErrMsgMethodNotAllowed,
	ErrCodeRequestTimeout:     ErrMsgRequestTimeout,
	ErrCodePayloadTooLarge:    ErrMsgPayloadTooLarge,
	ErrCodeUnsupportedMedia:   ErrMsgUnsupportedMedia,
	ErrCodeBadRequest:         ErrMsgBadRequest,
	ErrCodeRateLimited:        ErrMsgRateLimited,
	ErrCodeUnavailable:        ErrMsgUnavailable,
	ErrCodeUnknownMethod:      ErrMsgUnknownMethod,
	ErrCodeInternalError:      ErrMsgInternalError,
}

func GetErrorMessage(code string) string {
	if msg, exists := errorMessages[code]; exists {
		return msg
	}
	return ErrMsgInternalError
}

func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeInvalidRequestBody, ErrCodeInvalidParameter, ErrCodeBadRequest:
		return http.StatusBadRequest
	case ErrCodeMessageNotFound, ErrCodeNotFound, ErrCodeUnknownMethod:
		return http.StatusNotFound
	case ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case ErrCodeRequestTimeout:
		return http.StatusRequestTimeout
	case ErrCodeDuplicateMessage, ErrCodeRequestInProgress:
		return http.StatusConflict
	case ErrCodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrCodeUnsupportedMedia:
		return http.StatusUnsupportedMediaType
	case ErrCodeValidationFailed:
		return http.StatusUnprocessableEntity
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// CodeForStatus picks the public code for a bare HTTP status. Client errors
// without a dedicated code map to BAD_REQUEST.
func CodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return ErrCodeInvalidRequestBody
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusMethodNotAllowed:
		return ErrCodeMethodNotAllowed
	case http.StatusRequestTimeout:
		return ErrCodeRequestTimeout
	case http.StatusRequestEntityTooLarge:
		return ErrCodePayloadTooLarge
	case http.StatusUnsupportedMediaType:
		return ErrCodeUnsupportedMedia
	case http.StatusUnprocessableEntity:
		return ErrCodeValidationFailed
	case http.StatusTooManyRequests:
		return ErrCodeRateLimited
	case http.StatusServiceUnavailable:
		return ErrCodeUnavailable
	}

	if status >= http.StatusBadRequest && status < http.StatusInternalServerError {
		return ErrCodeBadRequest
	}

	return ErrCodeInternalError
}
