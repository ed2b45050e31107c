package report

import "binding-resolver/internal/config"

// Report is the serializable form of a resolved injector tree.
type Report struct {
	Version     string       `yaml:"version"`
	Injectors   []Injector   `yaml:"injectors"`
	Diagnostics []Diagnostic `yaml:"diagnostics,omitempty"`
}

// Injector describes one injector after resolution.
type Injector struct {
	Name string `yaml:"name"`
	// Run is the ID of the resolution run of this injector.
	Run    string   `yaml:"run,omitempty"`
	Failed bool     `yaml:"failed,omitempty"`
	Pinned []string `yaml:"pinned,omitempty"`
	// Bindings are listed in installation order.
	Bindings []Binding `yaml:"bindings,omitempty"`
	// Order is a construction order of the local bindings: every key comes
	// after the local keys it eagerly depends on.
	Order  []string `yaml:"order,omitempty"`
	Moves  []Move   `yaml:"moves,omitempty"`
	Pruned []string `yaml:"pruned,omitempty"`
}

// Binding is one binding held by an injector.
type Binding struct {
	Key         string `yaml:"key"`
	Kind        string `yaml:"kind"`
	Constructor string `yaml:"constructor,omitempty"`
	// From is the injector a delegating binding forwards to.
	From    string          `yaml:"from,omitempty"`
	Context string          `yaml:"context"`
	Deps    []config.KeyRef `yaml:"deps,omitempty"`
}

// Move is one downward step of a key during positioning.
type Move struct {
	Key  string `yaml:"key"`
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Diagnostic mirrors diagnostic.Diagnostic.
type Diagnostic struct {
	Severity string `yaml:"severity"`
	Code     string `yaml:"code"`
	Message  string `yaml:"message"`
	Scope    string `yaml:"injector,omitempty"`
	Key      string `yaml:"key,omitempty"`
	Context  string `yaml:"context,omitempty"`
}
