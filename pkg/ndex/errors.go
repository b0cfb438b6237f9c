package ndex

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ServerError is a non-2xx outcome from the NDEx server. Message holds the
// server-supplied "message" field from the JSON error body, if any.
type ServerError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("ndex server returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("ndex server returned status %d", e.StatusCode)
}

// AsServerError extracts a *ServerError from an error chain.
func AsServerError(err error) (*ServerError, bool) {
	var se *ServerError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// newServerError builds a ServerError from a status code and response body,
// pulling out the "message" field when the body is a JSON error document.
func newServerError(statusCode int, body []byte) *ServerError {
	se := &ServerError{StatusCode: statusCode}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		se.Message = payload.Message
	}
	return se
}
