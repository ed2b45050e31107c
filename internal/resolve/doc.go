// Package resolve decides where every binding of an injector hierarchy lives.
//
// Resolution pipeline, run once per origin injector:
//  1. DependencyExplorer walks from the origin's requests, creating implicit
//     bindings for keys no ancestor provides, and records the dependency graph
//  2. Unresolvable required keys, double bindings and eager cycles are
//     collected and reported together; unresolvable optional keys are pruned
//  3. BindingPositioner places every implicit binding as high in the tree as
//     its dependencies and sibling bindings allow (fixpoint iteration)
//  4. BindingInstaller adds the implicit bindings and the parent/exposed
//     bindings that make each key reachable where it is consumed
//
// Resolver.ResolveTree runs the pipeline for every injector, children first.
package resolve
