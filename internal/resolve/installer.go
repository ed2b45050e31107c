package resolve

import (
	"fmt"

	"binding-resolver/internal/diagnostic"
	"binding-resolver/internal/inject"
)

// Positions is the view of a finished BindingPositioner the installer needs.
type Positions interface {
	Done() bool
	InstallPosition(key inject.Key) (*inject.Scope, bool)
	AccessPosition(key inject.Key) (*inject.Scope, bool)
}

// BindingInstaller applies the positioner's decisions to the injector tree:
// it adds every implicit binding at its install position and the parent and
// exposed-child bindings needed to reach each key where it is consumed.
type BindingInstaller struct {
	positions Positions
	factory   inject.BindingFactory
	log       *diagnostic.Logger
}

// NewBindingInstaller creates an installer for the given positions.
func NewBindingInstaller(
	positions Positions,
	factory inject.BindingFactory,
	log *diagnostic.Logger,
) *BindingInstaller {
	if log == nil {
		log = diagnostic.NopLogger()
	}

	return &BindingInstaller{positions: positions, factory: factory, log: log}
}

// Install mutates the tree. Calling it again with the same output adds
// nothing: every bridge is guarded by IsBound and implicit bindings already
// present are skipped.
func (i *BindingInstaller) Install(output *ExplorerOutput) error {
	if !i.positions.Done() {
		return ErrNotPositioned
	}

	graph := output.Graph()

	for _, entry := range output.ImplicitBindings() {
		i.installBinding(graph, entry.Key, entry.Binding)
	}

	// Make sure everything the origin asks for directly is available there.
	origin := graph.Origin()
	i.inheritBindingsForDeps(origin, origin.Dependencies())

	return nil
}

func (i *BindingInstaller) installBinding(graph *DependencyGraph, key inject.Key, binding inject.Binding) {
	install, ok := i.positions.InstallPosition(key)
	if !ok {
		invariantf("implicit binding for %s has no install position", key)
	}

	// The binding is created where it is installed, so its dependencies must
	// be reachable from there.
	i.inheritBindingsForDeps(install, graph.DependenciesOf(key))

	if existing, bound := install.Binding(key); bound {
		if existing != binding {
			invariantf("%s already has a %s binding for %s", install, existing.Kind(), key)
		}
	} else {
		i.log.Debugf("Installing implicit binding for %s in %s", key, install)
		i.add(install, key, binding)
	}

	access, _ := i.positions.AccessPosition(key)
	if access != install {
		i.exposeUpward(key, install, access)
	}
}

func (i *BindingInstaller) inheritBindingsForDeps(consumer *inject.Scope, deps []inject.Dependency) {
	for _, dep := range deps {
		// No position means an optional key that could not be created.
		target, ok := i.positions.AccessPosition(dep.Target)
		if !ok {
			continue
		}

		i.ensureAccessible(dep.Target, target, consumer)
	}
}

// ensureAccessible adds a ParentBinding in consumer delegating to the
// ancestor holder, unless consumer already binds key.
func (i *BindingInstaller) ensureAccessible(key inject.Key, holder, consumer *inject.Scope) {
	if holder == consumer || consumer.IsBound(key) {
		return
	}

	if !holder.IsAncestorOrSelf(consumer) {
		invariantf("%s is consumed in %s but positioned in %s, which is not an ancestor",
			key, consumer, holder)
	}

	i.log.Debugf("In %s: inheriting binding for %s from the parent %s", consumer, key, holder)
	ctx := fmt.Sprintf("Inheriting %s from parent %s", key, holder)
	i.add(consumer, key, i.factory.CreateParentBinding(key, holder.ID(), ctx))
}

// exposeUpward makes key, installed in install, visible in its ancestor
// access through a chain of ExposedChildBindings. Usually the chain already
// exists because the key was exposed explicitly.
func (i *BindingInstaller) exposeUpward(key inject.Key, install, access *inject.Scope) {
	for child := install; child != access; child = child.Parent() {
		parent := child.Parent()
		if parent == nil {
			invariantf("access position %s of %s is not an ancestor of %s", access, key, install)
		}

		if parent.IsBound(key) {
			continue
		}

		i.log.Debugf("In %s: exposing %s from child %s", parent, key, child)
		ctx := fmt.Sprintf("Exposing %s from child %s", key, child)
		i.add(parent, key, i.factory.CreateExposedChildBinding(key, child.ID(), ctx))
	}
}

func (i *BindingInstaller) add(scope *inject.Scope, key inject.Key, b inject.Binding) {
	if err := scope.AddBinding(key, b); err != nil {
		invariantf("installing %s: %v", key, err)
	}
}
