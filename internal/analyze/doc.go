// Package analyze discovers constructors in Go source.
//
// It uses golang.org/x/tools/go/packages with AST and go/types to find
// exported top-level functions named New* that return a value (optionally
// followed by an error). Each one becomes a catalog.Constructor:
//   - the first result type is the provided key
//   - every parameter is a dependency; a func() T parameter is a lazy
//     dependency on T
//
// Doc comment directives refine the keys:
//   - //inject:qualifier <name> qualifies the provided key
//   - //inject:named <param> <name> qualifies a parameter's key
//   - //inject:optional <param> marks a parameter as optional
//   - //inject:ignore skips the function
package analyze
