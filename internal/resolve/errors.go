package resolve

import (
	"errors"
	"fmt"
	"strings"

	"binding-resolver/internal/common"
	"binding-resolver/internal/diagnostic"
	"binding-resolver/internal/inject"
)

var (
	// ErrAlreadyPositioned is returned when a BindingPositioner is reused.
	ErrAlreadyPositioned = errors.New("resolve: position called more than once")
	// ErrNotPositioned is returned when installing before positioning finished.
	ErrNotPositioned = errors.New("resolve: positions have not been computed")
)

// ErrorKind classifies a user-facing resolution error.
type ErrorKind int

const (
	UnsatisfiedDependency ErrorKind = iota
	AmbiguousImplicitBinding
	DoubleBinding
	CyclicDependency
)

// String returns a human-readable kind name.
func (k ErrorKind) String() string {
	switch k {
	case UnsatisfiedDependency:
		return "unsatisfied dependency"
	case AmbiguousImplicitBinding:
		return "ambiguous implicit binding"
	case DoubleBinding:
		return "double binding"
	case CyclicDependency:
		return "cyclic dependency"
	default:
		return common.UnknownStr
	}
}

// Code returns the diagnostic code for the kind.
func (k ErrorKind) Code() string {
	switch k {
	case UnsatisfiedDependency:
		return diagnostic.CodeUnsatisfied
	case AmbiguousImplicitBinding:
		return diagnostic.CodeAmbiguous
	case DoubleBinding:
		return diagnostic.CodeDoubleBinding
	case CyclicDependency:
		return diagnostic.CodeCycle
	default:
		return common.UnknownStr
	}
}

// ResolutionError is one problem found while resolving an injector.
type ResolutionError struct {
	Kind    ErrorKind
	Message string
	// Source is the key the problem is about.
	Source inject.Key
	// Context is the provenance of the edge that led to Source.
	Context string
	// Path is the chain of edges from the origin to Source, or the cycle itself.
	Path []inject.Dependency
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s: %s: %s", e.Kind, e.Source, e.Message)

	if e.Context != "" {
		fmt.Fprintf(&sb, " (%s)", e.Context)
	}

	if len(e.Path) > 0 {
		sb.WriteString("\n  path: ")
		sb.WriteString(FormatPath(e.Path))
	}

	return sb.String()
}

// FormatPath renders a chain of edges as "A -> B -> C".
func FormatPath(path []inject.Dependency) string {
	if len(path) == 0 {
		return ""
	}

	parts := make([]string, 0, len(path)+1)
	parts = append(parts, path[0].Source.String())

	for _, d := range path {
		parts = append(parts, d.Target.String())
	}

	return strings.Join(parts, " -> ")
}

// ResolutionFailedError aggregates every error found for one injector.
type ResolutionFailedError struct {
	Scope  string
	Errors []*ResolutionError
}

// Error implements the error interface.
func (e *ResolutionFailedError) Error() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "resolve: %d error(s) in injector %s", len(e.Errors), e.Scope)

	for _, re := range e.Errors {
		sb.WriteString("\n  - ")
		sb.WriteString(strings.ReplaceAll(re.Error(), "\n", "\n    "))
	}

	return sb.String()
}

// Unwrap exposes the individual errors to errors.Is/As.
func (e *ResolutionFailedError) Unwrap() []error {
	out := make([]error, 0, len(e.Errors))
	for _, re := range e.Errors {
		out = append(out, re)
	}

	return out
}

// InvariantViolation is a defect in the resolver itself. It is raised with
// panic and never returned as a user error.
type InvariantViolation struct {
	Message string
}

// Error implements the error interface.
func (e *InvariantViolation) Error() string {
	return "resolve: invariant violated: " + e.Message
}

func invariantf(format string, args ...any) {
	panic(&InvariantViolation{Message: fmt.Sprintf(format, args...)})
}
