// Package node implements the callgraph store: the arena-indexed
// Function/Variable/Edge data model, the declaration intern table, and the
// needed/reachable worklists that drive incremental discovery.
//
// Nodes are addressed by stable integer IDs (FuncID, VarID, EdgeID) into
// per-kind arenas rather than by pointer, so that removal is an O(1)
// tombstone and weak back-references (Function.InlinedTo) can be
// re-validated against the arena on every dereference instead of risking a
// dangling pointer.
package node
