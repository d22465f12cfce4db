package shared

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrNoSession        = fmt.Errorf("no session")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrChannel            = fmt.Errorf("push channel failed")
	ErrRunNotFound        = fmt.Errorf("automation run not found")
	ErrProfileNotFound    = fmt.Errorf("profile not found")

	// Input validation errors
	ErrValidation         = fmt.Errorf("validation failed")
	ErrProfileIncomplete  = fmt.Errorf("profile incomplete")
	ErrInvalidInput       = fmt.Errorf("invalid input")
	ErrMissingArgument    = fmt.Errorf("missing required argument")
	ErrInvalidArgument    = fmt.Errorf("invalid argument")
	ErrInvalidFlag        = fmt.Errorf("invalid flag value")
	ErrUnsupportedFormat  = fmt.Errorf("unsupported output format")
	ErrAutomationRunning  = fmt.Errorf("automation already running")
	ErrAutomationNotFound = fmt.Errorf("no automation running")
)

// ValidationError names the first field that failed client-side validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	label := strings.ReplaceAll(e.Field, "_", " ")
	if e.Reason == "" {
		return label + " is required"
	}
	return label + " " + e.Reason
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// AuthError is returned before any request is sent when no session is loaded.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return ErrNotAuthenticated.Error()
	}
	return fmt.Sprintf("%v: %v", ErrNotAuthenticated, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

func (e *AuthError) Is(target error) bool { return target == ErrNotAuthenticated }

// ServerError is a non-2xx answer from the backend.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
}

func (e *ServerError) Is(target error) bool {
	switch target {
	case ErrAPIRequest:
		return true
	case ErrNotAuthenticated:
		return e.Status == http.StatusUnauthorized
	case ErrServiceUnavailable:
		return e.Status >= http.StatusInternalServerError
	}
	return false
}

// TransportError wraps network failures (timeout, DNS, refused connection).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrServiceUnavailable }

// ChannelError wraps failures to open or read the push channel.
type ChannelError struct {
	Err error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("%v: %v", ErrChannel, e.Err)
}

func (e *ChannelError) Unwrap() error { return e.Err }

func (e *ChannelError) Is(target error) bool { return target == ErrChannel }

// UserMessage converts err into the text shown to the user for a failed action.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var (
		validation *ValidationError
		server     *ServerError
		transport  *TransportError
		channel    *ChannelError
		auth       *AuthError
	)

	switch {
	case errors.As(err, &validation):
		return validation.Error()
	case errors.As(err, &server):
		if server.Status == http.StatusUnauthorized {
			return "Invalid credentials. Please log in again."
		}
		return server.Message
	case errors.As(err, &transport):
		return "Could not reach the server. Check your connection and try again."
	case errors.As(err, &channel):
		return "Lost connection to automation updates."
	case errors.As(err, &auth):
		return "Please log in first."
	case errors.Is(err, ErrProfileIncomplete):
		return "Please complete your profile before starting a job search."
	}
	return err.Error()
}
