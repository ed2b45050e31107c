package inject

import (
	"errors"
	"fmt"
)

// DoubleBindingError is returned when a key would be bound twice where both
// bindings are visible from the same injector.
type DoubleBindingError struct {
	Key      Key
	Scope    string
	Existing Binding
	Added    Binding
}

// Error implements the error interface.
func (e *DoubleBindingError) Error() string {
	return fmt.Sprintf("inject: double binding of %s in %s: %s binding from %q conflicts with %s binding from %q",
		e.Key, e.Scope, e.Added.Kind(), e.Added.Context(), e.Existing.Kind(), e.Existing.Context())
}

// Sentinel causes a BindingFactory wraps when it cannot create a binding.
var (
	// ErrNoBinding means no explicit binding or constructor provides the key.
	ErrNoBinding = errors.New("no binding or constructor")
	// ErrAmbiguousBinding means more than one constructor provides the key.
	ErrAmbiguousBinding = errors.New("ambiguous implicit binding")
)
