package inject

//go:generate go tool stringer -type=Kind -trimprefix=Kind -output=kind_string.go

// Kind enumerates the binding variants.
type Kind int

const (
	_ Kind = iota // zero value is invalid

	KindExplicit     // declared by the injector configuration
	KindImplicit     // synthesized from a constructor during resolution
	KindParent       // delegates to an ancestor injector's binding of the same key
	KindExposedChild // delegates to a child injector that exposes the key
)

// Binding is the closed set of binding variants. Callers switch on the
// concrete type (or Kind) wherever behavior differs.
type Binding interface {
	Kind() Kind
	Key() Key
	// Dependencies lists the edges this binding needs satisfied.
	Dependencies() []Dependency
	// Context describes where the binding was declared or created.
	Context() string

	sealed()
}

// ExplicitBinding is declared directly on an injector.
type ExplicitBinding struct {
	key     Key
	deps    []Dependency
	context string
}

// NewExplicitBinding creates an explicit binding for key.
func NewExplicitBinding(key Key, context string, deps ...Dependency) *ExplicitBinding {
	return &ExplicitBinding{key: key, deps: deps, context: context}
}

func (b *ExplicitBinding) Kind() Kind                 { return KindExplicit }
func (b *ExplicitBinding) Key() Key                   { return b.key }
func (b *ExplicitBinding) Dependencies() []Dependency { return b.deps }
func (b *ExplicitBinding) Context() string            { return b.context }
func (b *ExplicitBinding) sealed()                    {}

// ImplicitBinding is created by the resolver from a constructor.
type ImplicitBinding struct {
	key         Key
	constructor string
	deps        []Dependency
	context     string
}

// NewImplicitBinding creates an implicit binding for key built by constructor.
func NewImplicitBinding(key Key, constructor, context string, deps ...Dependency) *ImplicitBinding {
	return &ImplicitBinding{key: key, constructor: constructor, deps: deps, context: context}
}

// Constructor returns the name of the function that builds the value.
func (b *ImplicitBinding) Constructor() string { return b.constructor }

func (b *ImplicitBinding) Kind() Kind                 { return KindImplicit }
func (b *ImplicitBinding) Key() Key                   { return b.key }
func (b *ImplicitBinding) Dependencies() []Dependency { return b.deps }
func (b *ImplicitBinding) Context() string            { return b.context }
func (b *ImplicitBinding) sealed()                    {}

// ParentBinding makes a binding from an ancestor injector available locally.
// It is only created after resolution, so it has no dependencies of its own.
type ParentBinding struct {
	key     Key
	parent  ScopeID
	context string
}

// NewParentBinding creates a binding of key delegating to the ancestor parent.
func NewParentBinding(key Key, parent ScopeID, context string) *ParentBinding {
	return &ParentBinding{key: key, parent: parent, context: context}
}

// Parent returns the injector that holds the real binding.
func (b *ParentBinding) Parent() ScopeID { return b.parent }

func (b *ParentBinding) Kind() Kind                 { return KindParent }
func (b *ParentBinding) Key() Key                   { return b.key }
func (b *ParentBinding) Dependencies() []Dependency { return nil }
func (b *ParentBinding) Context() string            { return b.context }
func (b *ParentBinding) sealed()                    {}

// ExposedChildBinding makes a key bound in a child injector available in its
// parent.
type ExposedChildBinding struct {
	key     Key
	child   ScopeID
	context string
}

// NewExposedChildBinding creates a binding of key delegating to child.
func NewExposedChildBinding(key Key, child ScopeID, context string) *ExposedChildBinding {
	return &ExposedChildBinding{key: key, child: child, context: context}
}

// Child returns the injector that exposes the key.
func (b *ExposedChildBinding) Child() ScopeID { return b.child }

func (b *ExposedChildBinding) Kind() Kind                 { return KindExposedChild }
func (b *ExposedChildBinding) Key() Key                   { return b.key }
func (b *ExposedChildBinding) Dependencies() []Dependency { return nil }
func (b *ExposedChildBinding) Context() string            { return b.context }
func (b *ExposedChildBinding) sealed()                    {}

// BindingFactory creates the bindings the resolver needs but cannot declare
// itself.
type BindingFactory interface {
	// CreateImplicitBinding synthesizes a binding for key. A non-empty error
	// slice means no binding could be created; errs should describe every
	// reason (e.g., each ambiguous candidate).
	CreateImplicitBinding(key Key) (Binding, []Dependency, []error)
	// CreateParentBinding creates a binding delegating to the ancestor parent.
	CreateParentBinding(key Key, parent ScopeID, context string) Binding
	// CreateExposedChildBinding creates a binding delegating to child.
	CreateExposedChildBinding(key Key, child ScopeID, context string) Binding
}
