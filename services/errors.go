// Package services implements the quote, catalog, party and agenda engines
// behind the HTTP handlers.
package services

import "fmt"

// ValidationError reports malformed input to a local, synchronous operation.
// It names the violated constraint and is always safe to show to the user.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// AuthorizationError reports an operation attempted without the required
// identity or role. The operation is refused before any remote call.
type AuthorizationError struct {
	Op string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("%s: not authorized", e.Op)
}

// RemoteOperationError wraps a failure reported by the row storage. The
// wrapped message is surfaced to the user where available.
type RemoteOperationError struct {
	Op  string
	Err error
}

func (e *RemoteOperationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteOperationError) Unwrap() error {
	return e.Err
}

func validationErr(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func remoteErr(op string, err error) error {
	return &RemoteOperationError{Op: op, Err: err}
}
