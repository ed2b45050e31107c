// Package diagnostic provides structured warnings and errors collected while
// resolving injector hierarchies, plus the logger that traces each resolution
// step.
//
// Key capabilities:
//   - Unsatisfied and ambiguous binding reports with the dependency path
//   - Cycle reports with every edge on the cycle
//   - Informational notes for pruned optional keys
//   - Debug/trace logging of positioning decisions (go.uber.org/zap)
package diagnostic
