// Package unit bundles the compilation-unit driver's state — the callgraph
// store, its worklists, the ambient "current function" context, the
// global-info-ready/function-flags-ready latches, and the front end's
// capability set — into a single explicit Context value, instead of a set
// of package-level globals. Every driver entry point is a Context method.
package unit
