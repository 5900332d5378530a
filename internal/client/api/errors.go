package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/iudanet/ludonova/pkg/api"
)

var (
	// ErrAuthenticationExpired matches (errors.Is) every *AuthExpiredError
	ErrAuthenticationExpired = errors.New("authentication expired")

	// ErrNoRefreshToken is the refresh failure cause when no session is stored
	ErrNoRefreshToken = errors.New("no refresh token available")
)

// HTTPError is a non-2xx response. For any status other than 401 it is
// returned to the caller untouched; this layer never retries it.
type HTTPError struct {
	Method     string
	Path       string
	Message    string
	Body       []byte
	StatusCode int
}

func newHTTPError(p *pendingRequest, resp *response) *HTTPError {
	e := &HTTPError{
		Method:     p.method,
		Path:       p.path,
		StatusCode: resp.statusCode,
		Body:       resp.body,
	}

	var errResp api.ErrorResponse
	if err := json.Unmarshal(resp.body, &errResp); err == nil {
		e.Message = errResp.Message
		if e.Message == "" {
			e.Message = errResp.Error
		}
	}

	return e
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
	}
	if len(e.Body) > 0 {
		return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, string(e.Body))
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// IsUnauthorized reports a 401 response
func (e *HTTPError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// TransportError is a network level failure (connection refused, timeout...).
type TransportError struct {
	Err    error
	Method string
	Path   string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: request failed: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UnauthenticatedEndpointError is a 401 from an allow-listed endpoint,
// e.g. wrong credentials on login. It never triggers a refresh.
type UnauthenticatedEndpointError struct {
	*HTTPError
}

func (e *UnauthenticatedEndpointError) Error() string {
	return fmt.Sprintf("%s %s rejected credentials: %s", e.Method, e.Path, e.HTTPError.Error())
}

func (e *UnauthenticatedEndpointError) Unwrap() error {
	return e.HTTPError
}

// AuthExpiredError is returned when the session could not be refreshed.
// Cause is the refresh failure itself and is never masked.
type AuthExpiredError struct {
	Cause error
}

func (e *AuthExpiredError) Error() string {
	return fmt.Sprintf("authentication expired: %v", e.Cause)
}

func (e *AuthExpiredError) Unwrap() error {
	return e.Cause
}

// Is makes errors.Is(err, ErrAuthenticationExpired) work
func (e *AuthExpiredError) Is(target error) bool {
	return target == ErrAuthenticationExpired
}

// IsTransient reports errors that belong to the caller: HTTP errors other
// than 401 and network failures.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, ErrAuthenticationExpired) {
		return false
	}
	var unauth *UnauthenticatedEndpointError
	if errors.As(err, &unauth) {
		return false
	}
	var transport *TransportError
	if errors.As(err, &transport) {
		return true
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return !httpErr.IsUnauthorized()
	}
	return false
}
