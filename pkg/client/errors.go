package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// APIError is a non-2xx response from the API. Payload holds the decoded
// JSON body when there was one, so callers can extract field errors and
// human-readable messages.
type APIError struct {
	StatusCode int
	Method     string
	Endpoint   string
	Payload    map[string]any
}

func newAPIError(method, endpoint string, res *http.Response) *APIError {
	apiErr := &APIError{
		StatusCode: res.StatusCode,
		Method:     method,
		Endpoint:   endpoint,
	}
	if body, err := io.ReadAll(res.Body); err == nil && len(body) > 0 {
		var payload map[string]any
		if json.Unmarshal(body, &payload) == nil {
			apiErr.Payload = payload
		}
	}
	return apiErr
}

func (e *APIError) Error() string {
	return fmt.Sprintf("client: %s %s returned status %d", e.Method, e.Endpoint, e.StatusCode)
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// IsAuthError reports whether err is a 401 or 403 response.
func IsAuthError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
}

// ErrorPayload returns the decoded body of an APIError, nil for other
// errors.
func ErrorPayload(err error) map[string]any {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return nil
	}
	return apiErr.Payload
}
