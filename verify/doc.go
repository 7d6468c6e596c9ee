// Package verify implements the callgraph's self-consistency checks. It
// exposes both a per-node entry point, for opportunistic checks after a
// targeted mutation, and a whole-store sweep. The driver runs the sweep
// from unit.Context.Optimize only (skipped while front-end errors are
// outstanding); it is not run at the end of FinalizeCompilationUnit, and
// there is no debug switch that enables or disables it.
package verify
