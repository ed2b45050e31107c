package resolve

import (
	"binding-resolver/internal/diagnostic"
	"binding-resolver/internal/inject"
)

// ImplicitEntry pairs a key with the implicit binding created for it.
type ImplicitEntry struct {
	Key     inject.Key
	Binding inject.Binding
}

// ExplorerOutput is everything the explorer learned about an origin injector.
type ExplorerOutput struct {
	graph *DependencyGraph

	implicit      []ImplicitEntry
	implicitIndex map[inject.Key]int

	preExisting      map[inject.Key]*inject.Scope
	preExistingOrder []inject.Key

	bindingErrors      map[inject.Key][]error
	bindingErrorsOrder []inject.Key
}

func newExplorerOutput() *ExplorerOutput {
	return &ExplorerOutput{
		implicitIndex: make(map[inject.Key]int),
		preExisting:   make(map[inject.Key]*inject.Scope),
		bindingErrors: make(map[inject.Key][]error),
	}
}

// Graph returns the dependency graph.
func (o *ExplorerOutput) Graph() *DependencyGraph {
	return o.graph
}

// ImplicitBindings returns the created bindings, each after the bindings of
// its dependencies.
func (o *ExplorerOutput) ImplicitBindings() []ImplicitEntry {
	return append([]ImplicitEntry(nil), o.implicit...)
}

// ImplicitlyBoundKeys returns the keys of ImplicitBindings in the same order.
func (o *ExplorerOutput) ImplicitlyBoundKeys() []inject.Key {
	out := make([]inject.Key, 0, len(o.implicit))
	for _, e := range o.implicit {
		out = append(out, e.Key)
	}

	return out
}

// ImplicitBinding returns the implicit binding created for key.
func (o *ExplorerOutput) ImplicitBinding(key inject.Key) (inject.Binding, bool) {
	i, ok := o.implicitIndex[key]
	if !ok {
		return nil, false
	}

	return o.implicit[i].Binding, true
}

// IsImplicit reports whether key got an implicit binding.
func (o *ExplorerOutput) IsImplicit(key inject.Key) bool {
	_, ok := o.implicitIndex[key]
	return ok
}

// PreExistingLocations returns, for each key already available to the
// origin, the highest injector it is available from.
func (o *ExplorerOutput) PreExistingLocations() map[inject.Key]*inject.Scope {
	out := make(map[inject.Key]*inject.Scope, len(o.preExisting))
	for k, v := range o.preExisting {
		out[k] = v
	}

	return out
}

// PreExistingKeys returns the already available keys in discovery order.
func (o *ExplorerOutput) PreExistingKeys() []inject.Key {
	return append([]inject.Key(nil), o.preExistingOrder...)
}

// PreExistingLocation returns where an already available key lives.
func (o *ExplorerOutput) PreExistingLocation(key inject.Key) (*inject.Scope, bool) {
	s, ok := o.preExisting[key]
	return s, ok
}

// BindingErrors returns the keys no binding could be created for, in
// discovery order.
func (o *ExplorerOutput) BindingErrors() []inject.Key {
	return append([]inject.Key(nil), o.bindingErrorsOrder...)
}

// BindingErrorsFor returns the factory errors for key.
func (o *ExplorerOutput) BindingErrorsFor(key inject.Key) []error {
	return o.bindingErrors[key]
}

func (o *ExplorerOutput) addImplicit(key inject.Key, b inject.Binding) {
	o.implicitIndex[key] = len(o.implicit)
	o.implicit = append(o.implicit, ImplicitEntry{Key: key, Binding: b})
}

func (o *ExplorerOutput) addPreExisting(key inject.Key, s *inject.Scope) {
	if _, ok := o.preExisting[key]; !ok {
		o.preExistingOrder = append(o.preExistingOrder, key)
	}

	o.preExisting[key] = s
}

func (o *ExplorerOutput) addBindingErrors(key inject.Key, errs []error) {
	if _, ok := o.bindingErrors[key]; !ok {
		o.bindingErrorsOrder = append(o.bindingErrorsOrder, key)
	}

	o.bindingErrors[key] = append(o.bindingErrors[key], errs...)
}

// removeKey drops every record of key; used when pruning optional keys.
func (o *ExplorerOutput) removeKey(key inject.Key) {
	if i, ok := o.implicitIndex[key]; ok {
		o.implicit = append(o.implicit[:i], o.implicit[i+1:]...)
		delete(o.implicitIndex, key)

		for j := i; j < len(o.implicit); j++ {
			o.implicitIndex[o.implicit[j].Key] = j
		}
	}

	delete(o.bindingErrors, key)

	for i, k := range o.bindingErrorsOrder {
		if k == key {
			o.bindingErrorsOrder = append(o.bindingErrorsOrder[:i], o.bindingErrorsOrder[i+1:]...)
			break
		}
	}
}

// DependencyExplorer discovers every key transitively needed by an injector.
type DependencyExplorer struct {
	factory inject.BindingFactory
	log     *diagnostic.Logger
}

// NewDependencyExplorer creates an explorer that asks factory for implicit
// bindings.
func NewDependencyExplorer(factory inject.BindingFactory, log *diagnostic.Logger) *DependencyExplorer {
	if log == nil {
		log = diagnostic.NopLogger()
	}

	return &DependencyExplorer{factory: factory, log: log}
}

// Explore walks the graph from every dependency requested by origin.
// Factory failures are recorded in the output, never returned.
func (e *DependencyExplorer) Explore(origin *inject.Scope) *ExplorerOutput {
	w := &exploration{
		explorer: e,
		origin:   origin,
		builder:  NewGraphBuilder(origin),
		output:   newExplorerOutput(),
		visited:  make(map[inject.Key]bool),
	}

	for _, edge := range origin.Dependencies() {
		if !edge.Source.IsOrigin() && !origin.IsBound(edge.Source) {
			invariantf("dependency %s originates in %s but its source is not bound there", edge, origin)
		}

		w.builder.AddEdge(edge)

		if !edge.Source.IsOrigin() && !w.visited[edge.Source] {
			w.visited[edge.Source] = true
			// The source is bound at the origin, so it is always found.
			loc := w.locateHighestAccessibleSource(edge.Source)
			e.log.Debugf("Registering %s as available at %s because of the dependency %s",
				edge.Source, loc, edge)
			w.output.addPreExisting(edge.Source, loc)
		}

		e.log.Debugf("Exploring from %s in %s because of the dependency %s", edge.Target, origin, edge)
		w.visit(edge.Target)
	}

	w.output.graph = w.builder.Build()

	return w.output
}

type exploration struct {
	explorer *DependencyExplorer
	origin   *inject.Scope
	builder  *GraphBuilder
	output   *ExplorerOutput
	visited  map[inject.Key]bool
}

func (w *exploration) visit(key inject.Key) {
	if w.visited[key] {
		return
	}

	w.visited[key] = true
	log := w.explorer.log

	if source := w.locateHighestAccessibleSource(key); source != nil {
		log.Debugf("Using binding of %s in %s.", key, source)
		w.output.addPreExisting(key, source)

		return
	}

	binding, deps, errs := w.explorer.factory.CreateImplicitBinding(key)
	if len(errs) > 0 || binding == nil {
		log.Debugf("Implicit binding failed for %s: %v", key, errs)
		w.output.addBindingErrors(key, errs)

		return
	}

	log.Debugf("Implicitly bound %s in %s using %s.", key, w.origin, binding.Context())

	for _, edge := range deps {
		log.Tracef("Following %s", edge)
		w.builder.AddEdge(edge)
		w.visit(edge.Target)
	}

	// Recorded after the dependencies so the order matches installation order.
	w.output.addImplicit(key, binding)
}

// locateHighestAccessibleSource returns the highest injector on the origin's
// ancestor chain that binds or pins key, or nil if the key must be created.
//
// A key pinned at the origin but not yet bound there has to be created at the
// origin even when a parent has a binding for it: that binding is only the
// parent's view of the key being exposed from here.
func (w *exploration) locateHighestAccessibleSource(key inject.Key) *inject.Scope {
	if !w.origin.IsBound(key) && w.origin.IsPinned(key) {
		return nil
	}

	var source *inject.Scope
	for it := w.origin; it != nil; it = it.Parent() {
		if it.IsBound(key) || it.IsPinned(key) {
			source = it
		}
	}

	return source
}
