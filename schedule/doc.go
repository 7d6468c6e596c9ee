// Package schedule computes the callgraph's emission order and drives
// per-function expansion: a postorder walk that emits callees before
// callers, then ExpandFunction's precondition checks, back-end
// invocation, and post-expansion body release.
package schedule
