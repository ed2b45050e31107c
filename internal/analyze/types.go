package analyze

import (
	"binding-resolver/internal/catalog"
	"binding-resolver/internal/diagnostic"
)

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path         string   // Import path
	Name         string   // Package name
	Constructors []string // Constructor names found in this package
}

// Skipped records a New* function that is not usable as a constructor.
type Skipped struct {
	Name   string
	Pos    string
	Reason string
}

// Result is everything discovered by an Analyzer.
type Result struct {
	// Constructors in package order, then source order.
	Constructors []catalog.Constructor
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
	Skipped  []Skipped
}

// NewResult creates an empty Result.
func NewResult() *Result {
	return &Result{
		Packages: make(map[string]*PackageInfo),
	}
}

// Catalog registers every discovered constructor in a new catalog.
func (r *Result) Catalog(log *diagnostic.Logger) (*catalog.Catalog, error) {
	c := catalog.New(log)
	if err := r.AddTo(c); err != nil {
		return nil, err
	}

	return c, nil
}

// AddTo registers every discovered constructor in c.
func (r *Result) AddTo(c *catalog.Catalog) error {
	return c.AddAll(r.Constructors...)
}

// Constructor returns the discovered constructor with the given name.
func (r *Result) Constructor(name string) (catalog.Constructor, bool) {
	for _, c := range r.Constructors {
		if c.Name == name {
			return c, true
		}
	}

	return catalog.Constructor{}, false
}
