// Package catalog holds the constructors known to the resolver and turns them
// into implicit bindings.
//
// A Catalog is the inject.BindingFactory used in production: constructors
// come from Go source (package analyze) or from the injector configuration
// (package config). A key with no constructor, or with more than one, cannot
// be bound implicitly; the returned errors wrap inject.ErrNoBinding and
// inject.ErrAmbiguousBinding respectively.
package catalog
