package dto

import (
	"net/http"
	"strings"
)

// Error codes exposed by the API. Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation = "ERR_VALIDATION"
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
)

// Authentication error codes
const (
	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeForbidden          = "ERR_FORBIDDEN"
	ErrCodeTokenExpired       = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid       = "ERR_TOKEN_INVALID"
	ErrCodeTokenRevoked       = "ERR_TOKEN_REVOKED"
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrCodeAccountDeactivated = "ERR_ACCOUNT_DEACTIVATED"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState      = "ERR_INVALID_STATE"
	ErrCodeBusinessRule      = "ERR_BUSINESS_RULE"
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	ErrCodeEmployeeBusy      = "ERR_EMPLOYEE_BUSY"
	ErrCodeTruckUnavailable  = "ERR_TRUCK_UNAVAILABLE"
	ErrCodeCompanyInUse      = "ERR_COMPANY_HAS_PRODUCTS"
	ErrCodeProfileRequired   = "ERR_PROFILE_REQUIRED"
)

// Password reset error codes
const (
	ErrCodeInvalidOTP          = "ERR_INVALID_OTP"
	ErrCodeOTPExpired          = "ERR_OTP_EXPIRED"
	ErrCodeOTPAttemptsExceeded = "ERR_OTP_ATTEMPTS_EXCEEDED"
)

// Dependency error codes
const (
	ErrCodeServiceUnavailable = "ERR_SERVICE_UNAVAILABLE"
	ErrCodePDFUnavailable     = "ERR_PDF_UNAVAILABLE"
	ErrCodeStorageUnavailable = "ERR_STORAGE_UNAVAILABLE"
)

// Rate limiting error codes
const (
	ErrCodeRateLimited   = "ERR_RATE_LIMITED"
	ErrCodeRequestTooBig = "ERR_REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeTokenRevoked:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeAccountDeactivated: http.StatusForbidden,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,
	ErrCodeEmployeeBusy:      http.StatusConflict,
	ErrCodeTruckUnavailable:  http.StatusConflict,
	ErrCodeCompanyInUse:      http.StatusConflict,
	ErrCodeProfileRequired:   http.StatusUnprocessableEntity,

	ErrCodeInvalidOTP:          http.StatusBadRequest,
	ErrCodeOTPExpired:          http.StatusBadRequest,
	ErrCodeOTPAttemptsExceeded: http.StatusTooManyRequests,

	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodePDFUnavailable:     http.StatusServiceUnavailable,
	ErrCodeStorageUnavailable: http.StatusServiceUnavailable,

	ErrCodeRateLimited:   http.StatusTooManyRequests,
	ErrCodeRequestTooBig: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes are 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorStatus returns the HTTP status for a normalised domain error
// code. Codes without an explicit mapping are input errors (400) when they
// start with ERR_INVALID_ and business rule violations (422) otherwise.
func DomainErrorStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "ERR_INVALID_") || code == "ERR_NO_ITEMS" {
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}

// domainCodeMapping covers domain codes whose API code is not simply the
// ERR_ prefixed form
var domainCodeMapping = map[string]string{
	"USER_NOT_FOUND":        ErrCodeNotFound,
	"INTERNAL_ERROR":        ErrCodeInternal,
	"PASSWORD_HASH_ERROR":   ErrCodeInternal,
	"TOKEN_ERROR":           ErrCodeInternal,
	"OTP_GENERATION_FAILED": ErrCodeInternal,
	"TOKEN_MAX_REFRESH":     ErrCodeTokenInvalid,
	"VALIDATION_ERROR":      ErrCodeValidation,
}

// NormalizeErrorCode converts a domain error code to its API form:
// NOT_FOUND becomes ERR_NOT_FOUND. Codes already in API form are unchanged.
func NormalizeErrorCode(code string) string {
	if code == "" {
		return ErrCodeUnknown
	}
	if mapped, ok := domainCodeMapping[code]; ok {
		return mapped
	}
	if strings.HasPrefix(code, "ERR_") {
		return code
	}
	return "ERR_" + code
}
