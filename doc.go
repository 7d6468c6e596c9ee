// Package cgraph is a compilation-unit driver and whole-program callgraph
// analysis core: given a front end's lowered function bodies and variable
// initializers, it discovers which declarations are reachable, builds the
// call graph between them, resolves external/local visibility, verifies
// the graph's internal consistency, and schedules back-end code
// generation in an order that emits callees before their callers.
//
// Everything lives in subpackages, driven through unit.Context:
//
//	front/       — the capability surface a front end must implement
//	node/        — the Function/Variable/Edge arena and worklists
//	walker/      — the reference walker (variable refs, address-taken functions)
//	analyze/     — the edge builder and the function/variable analyzers
//	cdtor/       — synthetic static constructor/destructor functions
//	visibility/  — external/local classification and dead-node reclamation
//	verify/      — whole-graph internal-consistency checks
//	schedule/    — the emission-order scheduler
//	unit/        — Context, the single entry point bundling all of the above
package cgraph
