package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnexpectedStatus marks a response outside the 2xx range
var ErrUnexpectedStatus = errors.New("unexpected status code")

// ServiceError is returned for every failed Product Service call, whether the
// request never completed or the service answered with a non-success status.
type ServiceError struct {
	Op         string
	StatusCode int // zero when no response was received
	Message    string
	RequestID  string
	Err        error
}

func (e *ServiceError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s product: %d %s: %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode), e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s product: %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
	default:
		return fmt.Sprintf("%s product: %v", e.Op, e.Err)
	}
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a 404 from the Product Service
func IsNotFound(err error) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}
