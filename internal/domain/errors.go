package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAuthentication  = errors.New("authentication failed")
	ErrTransport       = errors.New("transport failure")
	ErrMalformedChunk  = errors.New("malformed stream chunk")
	ErrSessionBusy     = errors.New("session has a response in flight")
	ErrProfileNotFound = errors.New("profile not found")
	ErrSecretNotFound  = errors.New("secret not found")
)

// ServiceError reports a non-200 or empty response from the GigaChat API.
type ServiceError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *ServiceError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: service responded with status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: service responded with status %d: %s", e.Op, e.StatusCode, e.Body)
}
