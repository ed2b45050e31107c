// Package inject holds the data model shared by every resolution stage:
// keys, dependency edges, the closed set of binding variants and the injector
// tree.
//
// Key types:
//   - Key: a value type plus optional qualifier
//   - Dependency: a labeled edge between two keys (optional, lazy, context)
//   - Binding: Explicit, Implicit, Parent or ExposedChild
//   - Tree/Scope: an arena of injectors addressed by ScopeID
package inject
