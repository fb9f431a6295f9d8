package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeStartupConfig ErrorType = "STARTUP_CONFIG_ERROR"
	ErrorTypeQuery         ErrorType = "QUERY_ERROR"
	ErrorTypeValidation    ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound      ErrorType = "NOT_FOUND"
	ErrorTypeInternal      ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeMissingConfig    ErrorCode = "MISSING_CONFIG"
	ErrCodeQueryFailed      ErrorCode = "QUERY_FAILED"
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeRequiredField    ErrorCode = "REQUIRED_FIELD"
	ErrCodeNoRowSelected    ErrorCode = "NO_ROW_SELECTED"
	ErrCodeNoIdentity       ErrorCode = "NO_IDENTITY"
	ErrCodeUnknownTab       ErrorCode = "UNKNOWN_TAB"
	ErrCodeUnknownEvent     ErrorCode = "UNKNOWN_EVENT"
	ErrCodeUnknownRoute     ErrorCode = "UNKNOWN_ROUTE"
	ErrCodeUnknownOption    ErrorCode = "UNKNOWN_OPTION"
	ErrCodeWrongView        ErrorCode = "WRONG_VIEW"
	ErrCodeSessionNotFound  ErrorCode = "SESSION_NOT_FOUND"
)

// Severity is the alert level an error is shown with.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// Severity maps the error taxonomy onto alert levels: validation problems are
// warnings, everything else is shown as danger.
func (e *AppError) Severity() Severity {
	if e.Type == ErrorTypeValidation {
		return SeverityWarning
	}
	return SeverityDanger
}

func NewStartupConfigError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeStartupConfig,
		Code:       ErrCodeMissingConfig,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

// NewQueryError wraps a warehouse failure. The statement name identifies which query
// failed without leaking bound values into logs.
func NewQueryError(statement string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeQuery,
		Code:       ErrCodeQueryFailed,
		Message:    fmt.Sprintf("query %s failed", statement),
		Details:    map[string]string{"statement": statement},
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrManagerWorkerRequired = NewValidationError("Manager and Worker fields cannot be empty.", ErrCodeRequiredField)
	ErrWorkerTeamRequired    = NewValidationError("Worker and Team fields cannot be empty.", ErrCodeRequiredField)
	ErrNoRowSelected         = NewValidationError("No row selected for deletion.", ErrCodeNoRowSelected)
	ErrSessionNotFound       = NewNotFoundError("session not found", ErrCodeSessionNotFound)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsQueryError reports whether err originated in the warehouse.
func IsQueryError(err error) bool {
	appErr, ok := IsAppError(err)
	return ok && appErr.Type == ErrorTypeQuery
}

// IsStartupConfigError reports whether err must halt process initialization.
func IsStartupConfigError(err error) bool {
	appErr, ok := IsAppError(err)
	return ok && appErr.Type == ErrorTypeStartupConfig
}

// SeverityOf returns the alert level for any error.
func SeverityOf(err error) Severity {
	if appErr, ok := IsAppError(err); ok {
		return appErr.Severity()
	}
	return SeverityDanger
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
