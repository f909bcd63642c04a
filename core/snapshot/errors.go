package snapshot

import (
	"errors"
	"fmt"
)

// ErrNoSnapshot is returned when no snapshot was ever published for an account.
var ErrNoSnapshot = errors.New("no published snapshot available")

// LookupError wraps a backend failure while fetching snapshot rows.
// No partial result accompanies it.
type LookupError struct {
	Kind Kind
	Err  error
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	return fmt.Sprintf("snapshot lookup failed for %s: %v", e.Kind, e.Err)
}

// Unwrap returns the backend error.
func (e *LookupError) Unwrap() error {
	return e.Err
}
