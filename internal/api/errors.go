package api

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError carries the backend's own failure message through to the user
// unchanged. Requests are never retried automatically; the user re-invokes
// the action.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// errorBody is the failure payload shape; older revisions used "error"
// instead of "message".
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
