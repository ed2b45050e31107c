package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"binding-resolver/internal/common"
	"binding-resolver/internal/diagnostic"
	"binding-resolver/internal/inject"
	"binding-resolver/internal/suggest"
)

// maxSuggestions bounds the keys named in a no-constructor error.
const maxSuggestions = 3

// ErrInvalidConstructor is returned by Add for malformed constructors.
var ErrInvalidConstructor = errors.New("catalog: invalid constructor")

// Param is one parameter of a constructor.
type Param struct {
	Key      inject.Key
	Optional bool // the constructor accepts a missing value
	Lazy     bool // the parameter is a provider, e.g. func() T
}

// Constructor is a function that creates the value for Key.
type Constructor struct {
	Name   string // e.g., "shop.NewCart"
	Key    inject.Key
	Params []Param
	Pos    string // source position, empty when declared in configuration
}

// Context describes where the constructor was declared.
func (c Constructor) Context() string {
	if c.Pos == "" {
		return c.Name
	}

	return c.Name + " at " + c.Pos
}

// Catalog indexes constructors by the key they provide.
type Catalog struct {
	ctors map[inject.Key][]Constructor
	keys  []inject.Key
	log   *diagnostic.Logger
}

// New creates an empty catalog.
func New(log *diagnostic.Logger) *Catalog {
	if log == nil {
		log = diagnostic.NopLogger()
	}

	return &Catalog{
		ctors: make(map[inject.Key][]Constructor),
		log:   log,
	}
}

// Add registers ctor. Registering a constructor with the same name for the
// same key again is a no-op.
func (c *Catalog) Add(ctor Constructor) error {
	if err := validate(ctor); err != nil {
		return err
	}

	existing := c.ctors[ctor.Key]
	if slices.ContainsFunc(existing, func(e Constructor) bool { return e.Name == ctor.Name }) {
		return nil
	}

	if common.IsEmpty(existing) {
		c.keys = append(c.keys, ctor.Key)
	}

	c.ctors[ctor.Key] = append(existing, ctor)
	c.log.Tracef("Registered constructor %s for %s", ctor.Name, ctor.Key)

	return nil
}

// AddAll registers every constructor, stopping at the first invalid one.
func (c *Catalog) AddAll(ctors ...Constructor) error {
	for _, ctor := range ctors {
		if err := c.Add(ctor); err != nil {
			return err
		}
	}

	return nil
}

func validate(ctor Constructor) error {
	switch {
	case ctor.Name == "":
		return fmt.Errorf("%w: missing name for %s", ErrInvalidConstructor, ctor.Key)
	case ctor.Key.Type == "" || ctor.Key.IsOrigin():
		return fmt.Errorf("%w: %s provides no key", ErrInvalidConstructor, ctor.Name)
	}

	for i, p := range ctor.Params {
		if p.Key.Type == "" || p.Key.IsOrigin() {
			return fmt.Errorf("%w: %s param %d has no key", ErrInvalidConstructor, ctor.Name, i)
		}
	}

	return nil
}

// Keys returns the provided keys in registration order.
func (c *Catalog) Keys() []inject.Key {
	return append([]inject.Key(nil), c.keys...)
}

// Lookup returns the constructors providing key.
func (c *Catalog) Lookup(key inject.Key) []Constructor {
	return append([]Constructor(nil), c.ctors[key]...)
}

// Len returns the number of registered constructors.
func (c *Catalog) Len() int {
	n := 0
	for _, cs := range c.ctors {
		n += len(cs)
	}

	return n
}

// CreateImplicitBinding binds key to its only constructor.
func (c *Catalog) CreateImplicitBinding(key inject.Key) (inject.Binding, []inject.Dependency, []error) {
	candidates := c.ctors[key]

	switch {
	case common.IsEmpty(candidates):
		return nil, nil, []error{c.noBinding(key)}
	case common.IsMultiple(candidates):
		names := make([]string, 0, len(candidates))
		for _, ctor := range candidates {
			names = append(names, ctor.Context())
		}

		return nil, nil, []error{fmt.Errorf("%w: %s is provided by %s",
			inject.ErrAmbiguousBinding, key, strings.Join(names, " and "))}
	}

	ctor := candidates[0]

	deps := make([]inject.Dependency, 0, len(ctor.Params))
	for i, p := range ctor.Params {
		deps = append(deps, inject.NewEdge(key, p.Key, p.Optional, p.Lazy, "%s param %d", ctor.Name, i))
	}

	return inject.NewImplicitBinding(key, ctor.Name, ctor.Context(), deps...), deps, nil
}

// noBinding reports a key without constructors, naming provided keys that
// look like it.
func (c *Catalog) noBinding(key inject.Key) error {
	similar := suggest.Similar(key, c.keys, maxSuggestions)
	if common.IsEmpty(similar) {
		return fmt.Errorf("%w for %s", inject.ErrNoBinding, key)
	}

	names := make([]string, 0, len(similar))
	for _, k := range similar {
		names = append(names, k.String())
	}

	return fmt.Errorf("%w for %s (did you mean %s?)", inject.ErrNoBinding, key, strings.Join(names, ", "))
}

// CreateParentBinding delegates key to the ancestor parent.
func (c *Catalog) CreateParentBinding(key inject.Key, parent inject.ScopeID, context string) inject.Binding {
	return inject.NewParentBinding(key, parent, context)
}

// CreateExposedChildBinding delegates key to child.
func (c *Catalog) CreateExposedChildBinding(key inject.Key, child inject.ScopeID, context string) inject.Binding {
	return inject.NewExposedChildBinding(key, child, context)
}
