package dto

import "net/http"

// Transport-level error codes. Domain codes pass through unchanged.
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// errorCodeHTTPStatus maps domain error codes onto HTTP statuses. Codes not
// listed here are treated as business rule violations and answered with 422.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeUnauthorized:    http.StatusUnauthorized,
	ErrCodeForbidden:       http.StatusForbidden,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeConflict:        http.StatusConflict,
	ErrCodeTooManyRequests: http.StatusTooManyRequests,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeInternal:        http.StatusInternalServerError,

	"INVALID_INPUT":  http.StatusBadRequest,
	"INVALID_RANGE":  http.StatusBadRequest,
	"INVALID_AMOUNT": http.StatusBadRequest,
	"INVALID_RATE":   http.StatusBadRequest,
	"INVALID_PRICE":  http.StatusBadRequest,
	"INVALID_PLAN":   http.StatusBadRequest,
	"INVALID_REF":    http.StatusBadRequest,

	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"ACCOUNT_LOCKED":      http.StatusUnauthorized,

	"TENANT_SUSPENDED": http.StatusForbidden,

	"ALREADY_EXISTS":  http.StatusConflict,
	"CODE_TAKEN":      http.StatusConflict,
	"CUSTOMER_IN_USE": http.StatusConflict,
}

// GetHTTPStatus resolves a domain error code to an HTTP status.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusUnprocessableEntity
}
