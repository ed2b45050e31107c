// Package report renders the outcome of resolving an injector tree.
//
// Export turns a tree and its resolution runs into a Report: per injector,
// the bindings it holds after installation, the order in which its local
// bindings can be constructed, the positioning moves of the run and the
// optional keys that were pruned. ExportYAML serializes the report with
// gopkg.in/yaml.v3. Explain follows the delegation chain of one key from an
// injector to the binding that actually creates it.
package report
