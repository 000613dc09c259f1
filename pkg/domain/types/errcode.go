package types

import (
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
)

// ErrCode identifies a failure class in an integration error envelope.
// The vocabulary is closed; adapters must not invent codes.
type ErrCode string

const (
	// Authentication
	ErrAuthenticationFailed    ErrCode = "AUTHENTICATION_FAILED"
	ErrTokenExpired            ErrCode = "TOKEN_EXPIRED"
	ErrInvalidCredentials      ErrCode = "INVALID_CREDENTIALS"
	ErrInsufficientPermissions ErrCode = "INSUFFICIENT_PERMISSIONS"

	// API
	ErrAPIError           ErrCode = "API_ERROR"
	ErrRateLimited        ErrCode = "RATE_LIMITED"
	ErrServiceUnavailable ErrCode = "SERVICE_UNAVAILABLE"

	// Validation
	ErrInvalidRequest       ErrCode = "INVALID_REQUEST"
	ErrMissingRequiredField ErrCode = "MISSING_REQUIRED_FIELD"
	ErrInvalidFormat        ErrCode = "INVALID_FORMAT"

	// Resource
	ErrResourceNotFound ErrCode = "RESOURCE_NOT_FOUND"
	ErrResourceConflict ErrCode = "RESOURCE_CONFLICT"

	// Configuration
	ErrConfigurationError  ErrCode = "CONFIGURATION_ERROR"
	ErrIntegrationDisabled ErrCode = "INTEGRATION_DISABLED"
)

// ErrCategory groups error codes for propagation policy decisions.
type ErrCategory string

const (
	CategoryAuthentication ErrCategory = "authentication"
	CategoryAPI            ErrCategory = "api"
	CategoryValidation     ErrCategory = "validation"
	CategoryResource       ErrCategory = "resource"
	CategoryConfiguration  ErrCategory = "configuration"
)

// Category returns the taxonomy group of the error code.
func (c ErrCode) Category() ErrCategory {
	switch c {
	case ErrAuthenticationFailed, ErrTokenExpired, ErrInvalidCredentials, ErrInsufficientPermissions:
		return CategoryAuthentication
	case ErrInvalidRequest, ErrMissingRequiredField, ErrInvalidFormat:
		return CategoryValidation
	case ErrResourceNotFound, ErrResourceConflict:
		return CategoryResource
	case ErrConfigurationError, ErrIntegrationDisabled:
		return CategoryConfiguration
	default:
		return CategoryAPI
	}
}

// IsValid checks if the error code is in the fixed vocabulary.
func (c ErrCode) IsValid() bool {
	switch c {
	case ErrAuthenticationFailed, ErrTokenExpired, ErrInvalidCredentials,
		ErrInsufficientPermissions, ErrAPIError, ErrRateLimited,
		ErrServiceUnavailable, ErrInvalidRequest, ErrMissingRequiredField,
		ErrInvalidFormat, ErrResourceNotFound, ErrResourceConflict,
		ErrConfigurationError, ErrIntegrationDisabled:
		return true
	default:
		return false
	}
}

// String returns the string representation of the error code.
func (c ErrCode) String() string {
	return string(c)
}

// HTTPStatus maps the error code to a transport-level status code.
// Boundary handlers use this so the mapping stays in one place.
func (c ErrCode) HTTPStatus() int {
	switch c {
	case ErrAuthenticationFailed, ErrTokenExpired, ErrInvalidCredentials:
		return http.StatusUnauthorized
	case ErrInsufficientPermissions:
		return http.StatusForbidden
	case ErrResourceNotFound:
		return http.StatusNotFound
	case ErrResourceConflict:
		return http.StatusConflict
	case ErrRateLimited:
		return http.StatusTooManyRequests
	case ErrInvalidRequest, ErrMissingRequiredField, ErrInvalidFormat:
		return http.StatusBadRequest
	case ErrServiceUnavailable, ErrIntegrationDisabled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errCodeKey is the goerr value key carrying an ErrCode through error chains.
const errCodeKey = "err_code"

// WithCode attaches an error code to a goerr option list.
func WithCode(code ErrCode) goerr.Option {
	return goerr.V(errCodeKey, code)
}

// CodeOf extracts the error code attached to err. Errors without an
// attached code classify as API_ERROR, the generic catch-all.
func CodeOf(err error) ErrCode {
	var ge *goerr.Error
	if errors.As(err, &ge) {
		if v, ok := ge.Values()[errCodeKey]; ok {
			if code, ok := v.(ErrCode); ok && code.IsValid() {
				return code
			}
		}
	}
	return ErrAPIError
}
