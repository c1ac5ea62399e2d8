package session

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthentication is returned when the server rejects a login. It is
	// joined with the underlying *gateway.APIError.
	ErrAuthentication = errors.New("login failed")
	// ErrRegistration is returned when the server rejects a registration.
	ErrRegistration = errors.New("registration failed")
)

// corruptSessionError never leaves this package: restore clears the
// durable entries and logs it.
type corruptSessionError struct {
	reason string
	err    error
}

func (e *corruptSessionError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("corrupt session: %s: %v", e.reason, e.err)
	}
	return "corrupt session: " + e.reason
}

func (e *corruptSessionError) Unwrap() error {
	return e.err
}
