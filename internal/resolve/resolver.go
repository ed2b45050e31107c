package resolve

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"binding-resolver/internal/diagnostic"
	"binding-resolver/internal/inject"
)

// Config controls optional resolution behavior.
type Config struct {
	// DetectCycles enables the eager cycle check.
	DetectCycles bool
	// StrictOptional reports unresolvable optional keys as errors instead of
	// pruning them.
	StrictOptional bool
}

// DefaultConfig returns the default resolution configuration.
func DefaultConfig() Config {
	return Config{
		DetectCycles:   true,
		StrictOptional: false,
	}
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the diagnostics sink.
func WithLogger(log *diagnostic.Logger) Option {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(r *Resolver) {
		r.config = cfg
	}
}

// Resolver runs the resolution pipeline against injectors.
type Resolver struct {
	factory inject.BindingFactory
	config  Config
	log     *diagnostic.Logger
}

// NewResolver creates a resolver that creates bindings through factory.
func NewResolver(factory inject.BindingFactory, opts ...Option) *Resolver {
	r := &Resolver{
		factory: factory,
		config:  DefaultConfig(),
		log:     diagnostic.NopLogger(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run is the state of one resolution of one origin injector.
type Run struct {
	ID     uuid.UUID
	Origin *inject.Scope
	// Output is the explorer output after optional keys were pruned.
	Output *ExplorerOutput
	// Positioner is nil when the run failed before positioning.
	Positioner *BindingPositioner
	// Pruned lists the optional keys dropped because they cannot be bound.
	Pruned      []inject.Key
	Errors      []*ResolutionError
	Diagnostics diagnostic.Diagnostics
}

// Failed reports whether the run found user errors.
func (r *Run) Failed() bool {
	return len(r.Errors) > 0
}

// TreeResult holds the runs of every injector of a tree, children first.
type TreeResult struct {
	Runs        []*Run
	Diagnostics diagnostic.Diagnostics
}

// Run returns the run for scope.
func (t *TreeResult) Run(scope *inject.Scope) (*Run, bool) {
	for _, r := range t.Runs {
		if r.Origin == scope {
			return r, true
		}
	}

	return nil, false
}

// Resolve explores, validates, positions and installs the bindings needed by
// origin. If any user error is found the tree is left untouched and a
// *ResolutionFailedError is returned together with the run.
func (r *Resolver) Resolve(origin *inject.Scope) (*Run, error) {
	run := &Run{ID: uuid.New(), Origin: origin}
	log := r.log.With(zap.String("run", run.ID.String()), zap.String("injector", origin.String()))

	log.Debugf("Resolving injector %s", origin)

	output := NewDependencyExplorer(r.factory, log).Explore(origin)
	run.Output = output

	validator := newUnresolvableValidator(log)

	errs, invalid := validator.validate(output, r.config.StrictOptional)
	run.Errors = append(run.Errors, errs...)

	run.Pruned = validator.pruneInvalidOptional(output, invalid)
	for _, key := range run.Pruned {
		run.Diagnostics.AddInfo(diagnostic.CodePrunedOptional,
			"optional key cannot be bound and was dropped", origin.String(), key.String())
	}

	if r.config.DetectCycles {
		run.Errors = append(run.Errors, newEagerCycleFinder(log).find(output.Graph())...)
	}

	if run.Failed() {
		for _, e := range run.Errors {
			run.Diagnostics.AddError(e.Kind.Code(), e.Message, origin.String(), e.Source.String(), e.Context)
		}

		log.Errorf("Resolution of %s failed with %d error(s)", origin, len(run.Errors))

		return run, &ResolutionFailedError{Scope: origin.String(), Errors: run.Errors}
	}

	positioner := NewBindingPositioner(log)
	if err := positioner.Position(output); err != nil {
		return run, fmt.Errorf("positioning %s: %w", origin, err)
	}

	run.Positioner = positioner

	if err := NewBindingInstaller(positioner, r.factory, log).Install(output); err != nil {
		return run, fmt.Errorf("installing bindings in %s: %w", origin, err)
	}

	log.Debugf("Resolved %s: %d implicit binding(s)", origin, len(output.ImplicitBindings()))

	return run, nil
}

// ResolveTree resolves every injector of tree, children before parents, so
// that bindings a child places in its ancestors are visible when those
// ancestors are resolved. All failures are joined into the returned error.
func (r *Resolver) ResolveTree(tree *inject.Tree) (*TreeResult, error) {
	result := &TreeResult{}

	var errs []error

	for _, scope := range tree.PostOrder() {
		run, err := r.Resolve(scope)
		result.Runs = append(result.Runs, run)
		result.Diagnostics.Merge(run.Diagnostics)

		if err != nil {
			errs = append(errs, err)
		}
	}

	return result, errors.Join(errs...)
}
