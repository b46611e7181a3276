package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrMissingConfig   = errors.New("missing configuration")
	ErrStorageNotReady = errors.New("asset storage not configured")
	ErrInvalidVideoJob = errors.New("invalid video job")
	ErrProviderFailure = errors.New("provider failure")
)

// ProviderError is returned when the remote video API rejects a call.
type ProviderError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("provider: %s (%s)", e.Message, e.Code)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider: status %d: %s", e.StatusCode, e.Message)
	}
	return "provider: " + e.Message
}

func (e *ProviderError) Unwrap() error { return ErrProviderFailure }

// StatusCode extracts the HTTP status to report for err, defaulting to 500.
func StatusCode(err error) int {
	var perr *ProviderError
	if errors.As(err, &perr) && perr.StatusCode >= 400 && perr.StatusCode < 600 {
		return perr.StatusCode
	}
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidVideoJob):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
