// Package errors defines the application error type, the user-facing failure
// kinds derived from it and the structured logger.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType is the subsystem an error came from
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeAI         ErrorType = "ai"
	ErrorTypeConfig     ErrorType = "config"
)

// Error codes
const (
	ErrCodeFileNotFound    = "FILE_NOT_FOUND"
	ErrCodeFileNotReadable = "FILE_NOT_READABLE"
	ErrCodeInvalidFormat   = "INVALID_FORMAT"
	ErrCodeInvalidRequest  = "INVALID_REQUEST"
	ErrCodeInvalidConfig   = "INVALID_CONFIG"

	ErrCodeMissingCredential    = "MISSING_CREDENTIAL"
	ErrCodeAuthenticationFailed = "AUTHENTICATION_FAILED"
	ErrCodeRateLimited          = "RATE_LIMITED"
	ErrCodeRequestFailed        = "REQUEST_FAILED"
	ErrCodeInputValidation      = "INPUT_VALIDATION"
)

// AppError carries a stable code alongside the human message
type AppError struct {
	Type    ErrorType      `json:"type"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Cause   error          `json:"cause,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext attaches a key/value pair and returns e for chaining
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = map[string]any{}
	}
	e.Context[key] = value
	return e
}

func NewValidationError(code, message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeValidation, Code: code, Message: message, Cause: cause}
}

func NewIOError(code, message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeIO, Code: code, Message: message, Cause: cause}
}

func NewAIError(code, message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeAI, Code: code, Message: message, Cause: cause}
}

func NewConfigError(code, message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeConfig, Code: code, Message: message, Cause: cause}
}

// As reports whether err wraps an *AppError and returns it.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Kind is the user-facing failure category of a generation attempt.
type Kind string

const (
	KindNone                  Kind = ""
	KindMissingCredential     Kind = "missing_credential"
	KindAuthenticationFailure Kind = "authentication_failure"
	KindRateLimited           Kind = "rate_limited"
	KindGenericFailure        Kind = "generic_failure"
	KindInputValidation       Kind = "input_validation"
)

var kindByCode = map[string]Kind{
	ErrCodeMissingCredential:    KindMissingCredential,
	ErrCodeAuthenticationFailed: KindAuthenticationFailure,
	ErrCodeRateLimited:          KindRateLimited,
	ErrCodeInputValidation:      KindInputValidation,
}

// KindOf maps err onto the failure taxonomy. A nil error has no kind, and
// anything that is not a recognised AppError is a generic failure.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	appErr, ok := As(err)
	switch {
	case !ok:
		return KindGenericFailure
	case kindByCode[appErr.Code] != KindNone:
		return kindByCode[appErr.Code]
	case appErr.Type == ErrorTypeValidation:
		return KindInputValidation
	}
	return KindGenericFailure
}
