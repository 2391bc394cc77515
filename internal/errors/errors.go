package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
)

// ErrorType represents different types of errors
type ErrorType string

const (
	ErrorTypeValidation  ErrorType = "validation"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeDatabase    ErrorType = "database"
	ErrorTypeExternal    ErrorType = "external_api"
	ErrorTypeInternal    ErrorType = "internal"
	ErrorTypePermission  ErrorType = "permission"
	ErrorTypeDataQuality ErrorType = "data_quality"
)

// AppError represents an application error with additional context
type AppError struct {
	Type     ErrorType
	Message  string
	Code     string
	Internal error
	Context  map[string]interface{}
	Source   string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the internal error
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is matches on type and code, so a fresh error built by a constructor
// matches the predefined sentinel of the same kind.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return errors.Is(e.Internal, target)
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// LogFields returns structured logging fields
func (e *AppError) LogFields() []interface{} {
	fields := []interface{}{
		"error_type", e.Type,
		"error_code", e.Code,
		"error_message", e.Message,
		"source", e.Source,
	}

	if e.Internal != nil {
		fields = append(fields, "internal_error", e.Internal.Error())
	}

	for k, v := range e.Context {
		fields = append(fields, k, v)
	}

	return fields
}

func caller(skip int) string {
	_, file, line, _ := runtime.Caller(skip)
	return fmt.Sprintf("%s:%d", file, line)
}

// New creates a new AppError
func New(errorType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Code:    code,
		Message: message,
		Source:  caller(2),
		Context: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error into AppError
func Wrap(err error, errorType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:     errorType,
		Code:     code,
		Message:  message,
		Internal: err,
		Source:   caller(2),
		Context:  make(map[string]interface{}),
	}
}

// Handler provides error handling strategies
type Handler struct {
	logger *slog.Logger
}

// NewHandler creates a new error handler
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle logs an error with a severity that depends on its type
func (h *Handler) Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		h.handleAppError(ctx, appErr)
	} else {
		h.logger.ErrorContext(ctx, "Unhandled error", "error", err.Error())
	}
}

func (h *Handler) handleAppError(ctx context.Context, err *AppError) {
	switch err.Type {
	case ErrorTypeValidation:
		h.logger.WarnContext(ctx, "Validation error", err.LogFields()...)
	case ErrorTypePermission:
		h.logger.WarnContext(ctx, "Permission error", err.LogFields()...)
	case ErrorTypeNotFound:
		h.logger.InfoContext(ctx, "Not found", err.LogFields()...)
	case ErrorTypeDataQuality:
		h.logger.WarnContext(ctx, "Data quality warning", err.LogFields()...)
	case ErrorTypeDatabase, ErrorTypeExternal, ErrorTypeInternal:
		h.logger.ErrorContext(ctx, "Critical error", err.LogFields()...)
	default:
		h.logger.ErrorContext(ctx, "Unknown error type", err.LogFields()...)
	}
}

// HTTPStatus maps an error onto the status code the API responds with
func HTTPStatus(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Type {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypePermission:
		return http.StatusForbidden
	case ErrorTypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Code returns the machine readable code of err, or INTERNAL
func Code(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "INTERNAL"
}

// Predefined errors
var (
	ErrInvalidArgument = New(ErrorTypeValidation, "INVALID_ARGUMENT", "Invalid argument")
	ErrInvalidInput    = New(ErrorTypeValidation, "VALIDATION", "Invalid input provided")
	ErrUserNotFound    = New(ErrorTypeNotFound, "USER_NOT_FOUND", "User not found")
	ErrCheckInNotFound = New(ErrorTypeNotFound, "CHECKIN_NOT_FOUND", "Check-in not found")
	ErrMalformedDate   = New(ErrorTypeDataQuality, "MALFORMED_DATE", "Stored date could not be parsed")
	ErrDatabaseError   = New(ErrorTypeDatabase, "DB_ERROR", "Database operation failed")
	ErrExternalAPI     = New(ErrorTypeExternal, "EXTERNAL_API", "External API error")
	ErrUnauthorized    = New(ErrorTypePermission, "UNAUTHORIZED", "Unauthorized access")
)

// NewInvalidArgumentError reports a caller-supplied value the operation cannot accept
func NewInvalidArgumentError(message string) *AppError {
	return New(ErrorTypeValidation, "INVALID_ARGUMENT", message)
}

func NewValidationError(message string) *AppError {
	return New(ErrorTypeValidation, "VALIDATION", message)
}

func NewMalformedDateError(err error, value string) *AppError {
	return Wrap(err, ErrorTypeDataQuality, "MALFORMED_DATE", "Stored date could not be parsed").
		WithContext("value", value)
}

func NewUnauthorizedError(message string) *AppError {
	return New(ErrorTypePermission, "UNAUTHORIZED", message)
}

func NewUserNotFoundError(userID uint) *AppError {
	return New(ErrorTypeNotFound, "USER_NOT_FOUND", "User not found").
		WithContext("user_id", userID)
}

func NewDatabaseError(err error) *AppError {
	return Wrap(err, ErrorTypeDatabase, "DB_ERROR", "Database operation failed")
}

func NewExternalAPIError(err error, api string) *AppError {
	return Wrap(err, ErrorTypeExternal, "EXTERNAL_API", fmt.Sprintf("%s API error", api)).
		WithContext("api", api)
}

func NewInternalError(err error) *AppError {
	return Wrap(err, ErrorTypeInternal, "INTERNAL", "Internal server error")
}

func NewCheckInNotFoundError(userID uint, date string) *AppError {
	return New(ErrorTypeNotFound, "CHECKIN_NOT_FOUND", "Check-in not found").
		WithContext("user_id", userID).
		WithContext("date", date)
}
