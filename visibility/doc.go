// Package visibility implements the two-pass visibility resolver:
// classifies nodes as local or externally visible, rewrites linkage flags
// accordingly, and performs the final unreachable-node reclamation sweep,
// honoring COMDAT-group retention.
package visibility
