package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when the backend answers 401. The app layer
// treats it as a forced-logout signal, never as a field-level error.
var ErrUnauthorized = errors.New("session is not authorized")

// RemoteError carries a business-rule rejection from the backend (4xx with a
// message). The message is surfaced to the user verbatim.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request rejected with status %d", e.StatusCode)
}

// AsRemote unwraps err into a RemoteError when possible.
func AsRemote(err error) (*RemoteError, bool) {
	var re *RemoteError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
