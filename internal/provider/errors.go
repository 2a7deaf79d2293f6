package provider

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a classified error response from the identity provider.
type APIError struct {
	Status  int    `json:"-"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("provider: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("provider: status %d", e.Status)
}

// IsConflict reports whether err is a duplicate-resource response
// (e.g. creating an account with an email that already exists).
func IsConflict(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == http.StatusConflict
}

// IsUnauthorized reports whether err is an authorization failure
// (bad credentials, invalid or expired secret).
func IsUnauthorized(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == http.StatusUnauthorized
}
