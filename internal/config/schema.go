package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"binding-resolver/internal/catalog"
	"binding-resolver/internal/inject"
)

// File is the root of an injector hierarchy file.
type File struct {
	Version      string        `yaml:"version" validate:"required,eq=1"`
	Packages     []string      `yaml:"packages,omitempty" validate:"dive,required"`
	Constructors []Constructor `yaml:"constructors,omitempty" validate:"dive"`
	Injector     Injector      `yaml:"injector"`
}

// Constructor declares a constructor that is not discovered from Go code.
type Constructor struct {
	Name      string   `yaml:"name" validate:"required"`
	Key       string   `yaml:"key" validate:"required"`
	Qualifier string   `yaml:"qualifier,omitempty" validate:"omitempty,excludesrune=@"`
	Deps      []KeyRef `yaml:"deps,omitempty" validate:"dive"`
}

// Binding is an explicit binding declared on an injector.
type Binding struct {
	Key       string `yaml:"key" validate:"required"`
	Qualifier string `yaml:"qualifier,omitempty" validate:"omitempty,excludesrune=@"`
	// Source describes what provides the value, e.g. "main.loadConfig".
	Source string   `yaml:"source,omitempty"`
	Deps   []KeyRef `yaml:"deps,omitempty" validate:"dive"`
}

// Injector is one node of the hierarchy.
type Injector struct {
	Name     string     `yaml:"name" validate:"required,excludesrune=/"`
	Bindings []Binding  `yaml:"bindings,omitempty" validate:"dive"`
	Pinned   []KeyRef   `yaml:"pinned,omitempty" validate:"dive"`
	Expose   []KeyRef   `yaml:"expose,omitempty" validate:"dive"`
	Requests []KeyRef   `yaml:"requests,omitempty" validate:"dive"`
	Children []Injector `yaml:"children,omitempty" validate:"dive"`
}

// KeyRef references a key, optionally with edge flags.
type KeyRef struct {
	Key       string `yaml:"key" validate:"required"`
	Qualifier string `yaml:"qualifier,omitempty" validate:"omitempty,excludesrune=@"`
	Optional  bool   `yaml:"optional,omitempty"`
	Lazy      bool   `yaml:"lazy,omitempty"`
}

// UnmarshalYAML accepts either a scalar "@qualifier Type" or a mapping.
func (r *KeyRef) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}

		key, err := ParseKey(s)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}

		*r = KeyRef{Key: key.Type, Qualifier: key.Qualifier}

		return nil

	case yaml.MappingNode:
		type plain KeyRef

		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}

		*r = KeyRef(p)

		return nil

	default:
		return fmt.Errorf("line %d: expected key string or mapping", node.Line)
	}
}

// MarshalYAML writes the scalar form when no flag is set.
func (r KeyRef) MarshalYAML() (any, error) {
	if !r.Optional && !r.Lazy {
		return r.InjectKey().String(), nil
	}

	type plain KeyRef

	return plain(r), nil
}

// InjectKey returns the referenced key.
func (r KeyRef) InjectKey() inject.Key {
	return inject.NewKey(r.Key, r.Qualifier)
}

// InjectKey returns the bound key.
func (b Binding) InjectKey() inject.Key {
	return inject.NewKey(b.Key, b.Qualifier)
}

// ParseKey parses "Type" or "@qualifier Type".
func ParseKey(s string) (inject.Key, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return inject.Key{}, fmt.Errorf("empty key")
	}

	if !strings.HasPrefix(s, "@") {
		return inject.NewKey(s, ""), nil
	}

	qualifier, typ, ok := strings.Cut(s[1:], " ")
	typ = strings.TrimSpace(typ)

	if !ok || qualifier == "" || typ == "" {
		return inject.Key{}, fmt.Errorf("invalid key %q: want \"@qualifier Type\"", s)
	}

	return inject.NewKey(typ, qualifier), nil
}

// CatalogConstructors converts the declared constructors.
func (f *File) CatalogConstructors() []catalog.Constructor {
	out := make([]catalog.Constructor, 0, len(f.Constructors))

	for _, c := range f.Constructors {
		ctor := catalog.Constructor{
			Name: c.Name,
			Key:  inject.NewKey(c.Key, c.Qualifier),
		}

		for _, d := range c.Deps {
			ctor.Params = append(ctor.Params, catalog.Param{
				Key:      d.InjectKey(),
				Optional: d.Optional,
				Lazy:     d.Lazy,
			})
		}

		out = append(out, ctor)
	}

	return out
}

// Walk calls fn for every injector, parents before children.
func (in *Injector) Walk(fn func(parent, injector *Injector)) {
	var walk func(parent, it *Injector)

	walk = func(parent, it *Injector) {
		fn(parent, it)

		for i := range it.Children {
			walk(it, &it.Children[i])
		}
	}

	walk(nil, in)
}
