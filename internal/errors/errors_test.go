package errors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	apperrors "github.com/vladimiradmaev/tinnitus-helper/internal/errors"
)

func TestAppError_IsMatchesSentinelByTypeAndCode(t *testing.T) {
	err := apperrors.NewInvalidArgumentError("unknown range kind \"yearly\"")
	if !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Errorf("Expected invalid argument error to match sentinel")
	}
	if errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("Invalid argument error must not match unauthorized sentinel")
	}

	wrapped := fmt.Errorf("failed to build report: %w", err)
	if !errors.Is(wrapped, apperrors.ErrInvalidArgument) {
		t.Errorf("Expected wrapped error to match sentinel")
	}
}

func TestAppError_UnwrapsInternal(t *testing.T) {
	cause := errors.New("connection refused")
	err := apperrors.NewDatabaseError(cause)
	if !errors.Is(err, cause) {
		t.Errorf("Expected database error to unwrap to its cause")
	}
	if err.Source == "" {
		t.Errorf("Expected source location to be recorded")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperrors.NewInvalidArgumentError("bad"), http.StatusBadRequest},
		{apperrors.NewValidationError("bad"), http.StatusBadRequest},
		{apperrors.NewUserNotFoundError(7), http.StatusNotFound},
		{apperrors.NewUnauthorizedError("nope"), http.StatusForbidden},
		{apperrors.NewDatabaseError(errors.New("x")), http.StatusInternalServerError},
		{apperrors.NewExternalAPIError(errors.New("x"), "gemini"), http.StatusBadGateway},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := apperrors.HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v): expected %d, got %d", tt.err, tt.want, got)
		}
	}
}

func TestCode(t *testing.T) {
	if got := apperrors.Code(apperrors.NewUserNotFoundError(1)); got != "USER_NOT_FOUND" {
		t.Errorf("Expected USER_NOT_FOUND, got %s", got)
	}
	if got := apperrors.Code(errors.New("plain")); got != "INTERNAL" {
		t.Errorf("Expected INTERNAL, got %s", got)
	}
}

func TestConstructors_MatchTheirSentinels(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name     string
		err      error
		sentinel *apperrors.AppError
	}{
		{"database", apperrors.NewDatabaseError(cause), apperrors.ErrDatabaseError},
		{"external api", apperrors.NewExternalAPIError(cause, "gemini"), apperrors.ErrExternalAPI},
		{"malformed date", apperrors.NewMalformedDateError(cause, "15/03/2024"), apperrors.ErrMalformedDate},
		{"check-in not found", apperrors.NewCheckInNotFoundError(1, "2024-03-15"), apperrors.ErrCheckInNotFound},
		{"user not found", apperrors.NewUserNotFoundError(1), apperrors.ErrUserNotFound},
		{"validation", apperrors.NewValidationError("bad"), apperrors.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("Expected %v to match %s", tt.err, tt.sentinel.Code)
			}
		})
	}

	if errors.Is(apperrors.NewDatabaseError(cause), apperrors.ErrExternalAPI) {
		t.Errorf("Database error must not match the external API sentinel")
	}
}
