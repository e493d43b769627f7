package insight

import (
	"errors"
	"fmt"
)

// ErrStoreUnavailable marks failures of the expense store. The engine never
// retries them.
var ErrStoreUnavailable = errors.New("expense store unavailable")

// StoreError wraps a fetch failure for one month.
type StoreError struct {
	Month string
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("fetch expenses for %s: %v", e.Month, e.Err)
}

func (e *StoreError) Unwrap() []error {
	return []error{ErrStoreUnavailable, e.Err}
}

// IsStoreUnavailable reports whether err came from the expense store.
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
