package client

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError is a non-2xx upstream response.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("upstream responded %d: %s", e.Status, e.Message)
}

// IsConflict reports whether err is an HTTP 409, the upstream's verdict that a
// (table, date, time) triple is already occupied.
func IsConflict(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == http.StatusConflict
}

// IsUnauthorized reports whether err is an HTTP 401.
func IsUnauthorized(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == http.StatusUnauthorized
}
