package report

import (
	"errors"
	"fmt"

	"binding-resolver/internal/inject"
)

// ErrNotVisible is returned by Explain for a key no injector on the path to
// the root binds.
var ErrNotVisible = errors.New("key is not visible")

// Hop is one step of a delegation chain.
type Hop struct {
	Injector string
	Kind     inject.Kind
	Context  string
}

// String returns a human-readable representation of the hop.
func (h Hop) String() string {
	return fmt.Sprintf("%s: %s (%s)", h.Injector, h.Kind, h.Context)
}

// Explain follows key from scope through parent and exposed-child bindings
// to the binding that creates it. When scope does not bind key locally the
// chain starts at the nearest ancestor that does.
func Explain(scope *inject.Scope, key inject.Key) ([]Hop, error) {
	holder := scope
	for holder != nil && !holder.IsBound(key) {
		holder = holder.Parent()
	}

	if holder == nil {
		return nil, fmt.Errorf("%w: %s from %s", ErrNotVisible, key, scope)
	}

	tree := scope.Tree()
	seen := make(map[inject.ScopeID]bool)

	var hops []Hop

	for {
		if seen[holder.ID()] {
			return hops, fmt.Errorf("delegation loop for %s at %s", key, holder)
		}

		seen[holder.ID()] = true

		b, ok := holder.Binding(key)
		if !ok {
			return hops, fmt.Errorf("%w: %s delegates to %s which does not bind it", ErrNotVisible, key, holder)
		}

		hops = append(hops, Hop{Injector: holder.String(), Kind: b.Kind(), Context: b.Context()})

		switch v := b.(type) {
		case *inject.ParentBinding:
			holder = tree.Scope(v.Parent())
		case *inject.ExposedChildBinding:
			holder = tree.Scope(v.Child())
		default:
			return hops, nil
		}
	}
}
