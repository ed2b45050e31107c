// Package main provides the CLI entrypoint for binding-resolver.
//
// binding-resolver decides, at build time, in which injector of a hierarchy
// every binding lives:
//   - Loads the injector hierarchy from YAML
//   - Collects constructors from Go packages (AST + go/types)
//   - Resolves every injector, children first, and installs implicit,
//     parent and exposed bindings
//   - Reports the resulting bindings, or every resolution error at once
//
// Usage:
//
//	binding-resolver [flags] resolve|check|explain
package main

import "os"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
