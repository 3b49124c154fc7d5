package dto

import (
	"net/http"
	"strings"
)

// Error codes shared across handlers. Domain errors carry their own codes;
// these cover the transport-level cases.
const (
	ErrCodeBadRequest   = "INVALID_INPUT"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "ALREADY_EXISTS"
	ErrCodeValidation   = "VALIDATION_FAILED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed fall through to the prefix rules in GetHTTPStatus.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeConflict:     http.StatusConflict,
	ErrCodeInternal:     http.StatusInternalServerError,

	// Authentication
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"ACCOUNT_LOCKED":      http.StatusForbidden,
	"PASSWORD_MISMATCH":   http.StatusForbidden,

	// Tenant lifecycle
	"TENANT_NOT_FOUND": http.StatusNotFound,
	"TENANT_FROZEN":    http.StatusForbidden,
	"TENANT_BLOCKED":   http.StatusForbidden,
	"TENANT_INACTIVE":  http.StatusForbidden,
	"ALREADY_FROZEN":   http.StatusConflict,
	"NOT_FROZEN":       http.StatusConflict,
	"ALREADY_BLOCKED":  http.StatusConflict,
	"NOT_BLOCKED":      http.StatusConflict,
	"CODE_TAKEN":       http.StatusConflict,

	// Plans
	"PLAN_NOT_FOUND":      http.StatusNotFound,
	"PLAN_IN_USE":         http.StatusConflict,
	"PLAN_LIMIT_EXCEEDED": http.StatusUnprocessableEntity,
	"UNKNOWN_MODULE":      http.StatusBadRequest,
	"MODULE_DISABLED":     http.StatusForbidden,

	// Users
	"USER_NOT_FOUND": http.StatusNotFound,

	// Ledger and canteen
	"ALREADY_PAID":       http.StatusConflict,
	"INSUFFICIENT_STOCK": http.StatusUnprocessableEntity,
	"EMPTY_SALE":         http.StatusBadRequest,

	// Support
	"TICKET_CLOSED":  http.StatusConflict,
	"ALREADY_CLOSED": http.StatusConflict,

	// State machine
	"INVALID_STATE":        http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// Remote document store
	"REMOTE_PURGE_FAILED": http.StatusBadGateway,
}

// GetHTTPStatus resolves an error code to an HTTP status. Unknown
// INVALID_-prefixed codes are treated as bad requests; anything else is
// an internal error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
