package coordinator

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrEmptyResponse       = errors.New("coordinator returned neither Ok nor Err")
)

// APIError is returned when the coordinator answers with an error body or
// an unexpected status code.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("coordinator error (status=%d): %s", e.StatusCode, e.Message)
}
