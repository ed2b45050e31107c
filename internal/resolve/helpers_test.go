package resolve

import (
	"fmt"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"binding-resolver/internal/inject"
)

var (
	foo = inject.NewKey("Foo", "")
	bar = inject.NewKey("Bar", "")
	baz = inject.NewKey("Baz", "")
	qux = inject.NewKey("Qux", "")
)

// fakeFactory creates implicit bindings from a table of constructor edges.
type fakeFactory struct {
	ctors     map[inject.Key][]inject.Dependency
	ambiguous map[inject.Key]bool
	calls     map[inject.Key]int
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{
		ctors:     make(map[inject.Key][]inject.Dependency),
		ambiguous: make(map[inject.Key]bool),
		calls:     make(map[inject.Key]int),
	}
}

// ctor registers a constructor for key needing the given keys eagerly.
func (f *fakeFactory) ctor(key inject.Key, deps ...inject.Key) *fakeFactory {
	edges := make([]inject.Dependency, 0, len(deps))
	for i, d := range deps {
		edges = append(edges, inject.NewDependency(key, d, "New%s param %d", key.Type, i))
	}

	f.ctors[key] = edges

	return f
}

// edges registers a constructor with hand-made edges.
func (f *fakeFactory) edges(key inject.Key, deps ...inject.Dependency) *fakeFactory {
	f.ctors[key] = deps
	return f
}

func (f *fakeFactory) CreateImplicitBinding(key inject.Key) (inject.Binding, []inject.Dependency, []error) {
	f.calls[key]++

	if f.ambiguous[key] {
		return nil, nil, []error{fmt.Errorf("%w: New%sA and New%sB both provide %s",
			inject.ErrAmbiguousBinding, key.Type, key.Type, key)}
	}

	deps, ok := f.ctors[key]
	if !ok {
		return nil, nil, []error{fmt.Errorf("%w: %s", inject.ErrNoBinding, key)}
	}

	ctor := "New" + key.Type

	return inject.NewImplicitBinding(key, ctor, "constructor "+ctor, deps...), deps, nil
}

func (f *fakeFactory) CreateParentBinding(key inject.Key, parent inject.ScopeID, context string) inject.Binding {
	return inject.NewParentBinding(key, parent, context)
}

func (f *fakeFactory) CreateExposedChildBinding(key inject.Key, child inject.ScopeID, context string) inject.Binding {
	return inject.NewExposedChildBinding(key, child, context)
}

// rootAndChild builds the two-level tree most scenarios use.
func rootAndChild() (*inject.Tree, *inject.Scope, *inject.Scope) {
	tree := inject.NewTree()
	root := tree.NewRoot("root")
	child := tree.NewChild(root, "child")

	return tree, root, child
}

func bindExplicit(t *testing.T, scope *inject.Scope, key inject.Key) {
	t.Helper()

	if err := scope.AddBinding(key, inject.NewExplicitBinding(key, "declared in "+scope.Name())); err != nil {
		t.Fatalf("binding %s in %s: %v", key, scope, err)
	}
}

func kindOf(t *testing.T, scope *inject.Scope, key inject.Key) inject.Kind {
	t.Helper()

	b, ok := scope.Binding(key)
	if !ok {
		t.Fatalf("%s is not bound in %s; bindings: %s", key, scope, spew.Sdump(scope.Bindings()))
	}

	return b.Kind()
}

// localHolders counts the scopes on the path from scope to the root holding
// a binding for key that is not a delegate.
func localHolders(scope *inject.Scope, key inject.Key) int {
	n := 0

	for it := scope; it != nil; it = it.Parent() {
		b, ok := it.Binding(key)
		if !ok {
			continue
		}

		switch b.(type) {
		case *inject.ParentBinding, *inject.ExposedChildBinding:
		default:
			n++
		}
	}

	return n
}
