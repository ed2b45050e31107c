package report

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"binding-resolver/internal/config"
	"binding-resolver/internal/inject"
	"binding-resolver/internal/resolve"
)

// Export builds a Report of tree. result may be nil when the tree was not
// resolved; the report then lists the declared bindings only.
func Export(tree *inject.Tree, result *resolve.TreeResult) (*Report, error) {
	rep := &Report{Version: "1"}

	for _, scope := range tree.Scopes() {
		in, err := exportInjector(tree, scope)
		if err != nil {
			return nil, err
		}

		if result != nil {
			if run, ok := result.Run(scope); ok {
				exportRun(&in, run)
			}
		}

		rep.Injectors = append(rep.Injectors, in)
	}

	if result != nil {
		for _, d := range result.Diagnostics.All() {
			rep.Diagnostics = append(rep.Diagnostics, Diagnostic{
				Severity: d.Severity.String(),
				Code:     d.Code,
				Message:  d.Message,
				Scope:    d.Scope,
				Key:      d.Key,
				Context:  d.Context,
			})
		}
	}

	return rep, nil
}

// ExportYAML builds a Report of tree and serializes it.
func ExportYAML(tree *inject.Tree, result *resolve.TreeResult) ([]byte, error) {
	rep, err := Export(tree, result)
	if err != nil {
		return nil, err
	}

	return yaml.Marshal(rep)
}

func exportInjector(tree *inject.Tree, scope *inject.Scope) (Injector, error) {
	in := Injector{Name: scope.String()}

	for _, key := range scope.Pins() {
		in.Pinned = append(in.Pinned, key.String())
	}

	for _, b := range scope.Bindings() {
		in.Bindings = append(in.Bindings, exportBinding(tree, b))
	}

	order, err := constructionOrder(scope)
	if err != nil {
		return in, fmt.Errorf("ordering bindings of %s: %w", scope, err)
	}

	for _, key := range order {
		in.Order = append(in.Order, key.String())
	}

	return in, nil
}

func exportBinding(tree *inject.Tree, b inject.Binding) Binding {
	out := Binding{
		Key:     b.Key().String(),
		Kind:    b.Kind().String(),
		Context: b.Context(),
	}

	switch v := b.(type) {
	case *inject.ImplicitBinding:
		out.Constructor = v.Constructor()
	case *inject.ParentBinding:
		out.From = tree.Scope(v.Parent()).String()
	case *inject.ExposedChildBinding:
		out.From = tree.Scope(v.Child()).String()
	}

	for _, d := range b.Dependencies() {
		out.Deps = append(out.Deps, config.KeyRef{
			Key:       d.Target.Type,
			Qualifier: d.Target.Qualifier,
			Optional:  d.Optional,
			Lazy:      d.Lazy,
		})
	}

	return out
}

func exportRun(in *Injector, run *resolve.Run) {
	in.Run = run.ID.String()
	in.Failed = run.Failed()

	for _, key := range run.Pruned {
		in.Pruned = append(in.Pruned, key.String())
	}

	if run.Positioner == nil {
		return
	}

	for _, m := range run.Positioner.Moves() {
		in.Moves = append(in.Moves, Move{Key: m.Key.String(), From: m.From.String(), To: m.To.String()})
	}
}
