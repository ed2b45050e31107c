package inject

import "fmt"

// Dependency is an edge from Source to Target.
//
// Context records where the edge came from (e.g., "NewCart param 1") and is
// not part of the edge identity: when the same edge arises in several places
// the first instance seen is kept.
type Dependency struct {
	Source   Key
	Target   Key
	Optional bool // no error when Target cannot be bound
	Lazy     bool // realized on demand; a cycle with a lazy edge on it is allowed
	Context  string
}

// DependencyID is the identity of a Dependency.
type DependencyID struct {
	Source   Key
	Target   Key
	Optional bool
	Lazy     bool
}

// NewDependency creates a required, eager edge.
func NewDependency(source, target Key, context string, args ...any) Dependency {
	return NewEdge(source, target, false, false, context, args...)
}

// NewEdge creates an edge with explicit optional/lazy flags.
// It panics when target is Origin or context is empty.
func NewEdge(source, target Key, optional, lazy bool, context string, args ...any) Dependency {
	if target.IsOrigin() {
		panic("inject: Origin is not a valid dependency target")
	}

	if context == "" {
		panic("inject: dependency context must not be empty")
	}

	if len(args) > 0 {
		context = fmt.Sprintf(context, args...)
	}

	return Dependency{
		Source:   source,
		Target:   target,
		Optional: optional,
		Lazy:     lazy,
		Context:  context,
	}
}

// ID returns the context-free identity of the edge.
func (d Dependency) ID() DependencyID {
	return DependencyID{
		Source:   d.Source,
		Target:   d.Target,
		Optional: d.Optional,
		Lazy:     d.Lazy,
	}
}

// String returns a human-readable representation of the edge.
func (d Dependency) String() string {
	return fmt.Sprintf("%s -> %s [context: %s, optional: %t, lazy: %t]",
		d.Source, d.Target, d.Context, d.Optional, d.Lazy)
}
