package contacts

import (
	"errors"
	"fmt"
)

// ErrRemote marks any failed call against the contacts resource.
var ErrRemote = errors.New("contacts: remote call failed")

// RemoteError describes a failed call. Status is zero for transport failures.
type RemoteError struct {
	Op     string
	Method string
	URL    string
	Status int
	Err    error
}

func (e *RemoteError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("contacts: %s %s %s: status %d", e.Op, e.Method, e.URL, e.Status)
	}
	return fmt.Sprintf("contacts: %s %s %s: %v", e.Op, e.Method, e.URL, e.Err)
}

// Unwrap exposes both the cause and ErrRemote to errors.Is.
func (e *RemoteError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrRemote}
	}
	return []error{ErrRemote, e.Err}
}
