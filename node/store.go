package node

import "github.com/gocc-mid/cgraph/front"

// Store is the callgraph store: the Function/Variable/Edge arenas, the
// declaration intern table, and the needed/reachable worklists.
//
// Store is a plain struct with no internal locking: it is single-threaded
// cooperative, mutated only from the driver thread, so a mutex here would
// misstate the concurrency contract rather than enforce it.
type Store struct {
	funcs []*Function // slot 0 unused; tombstoned entries are nil
	vars  []*Variable
	edges []*Edge

	internFunc map[front.Decl]FuncID
	internVar  map[front.Decl]VarID

	neededQueue    []FuncID
	reachableQueue []FuncID
	unanalyzedVars []VarID

	// GlobalInfoReady latches once the inter-procedural pass has begun:
	// no reachable:false→true transition is allowed after this is set.
	GlobalInfoReady bool
}

// NewStore returns an empty Store ready to intern declarations.
func NewStore() *Store {
	return &Store{
		funcs:      make([]*Function, 1, 64), // slot 0 reserved
		vars:       make([]*Variable, 1, 64),
		edges:      make([]*Edge, 1, 64),
		internFunc: make(map[front.Decl]FuncID),
		internVar:  make(map[front.Decl]VarID),
	}
}

// LookupFunc returns the existing node for decl without creating one.
func (s *Store) LookupFunc(decl front.Decl) (*Function, bool) {
	id, ok := s.internFunc[decl]
	if !ok {
		return nil, false
	}

	return s.funcs[id], true
}

// Func resolves id to its Function, or nil if id is absent or tombstoned.
func (s *Store) Func(id FuncID) *Function {
	if id == 0 || int(id) >= len(s.funcs) {
		return nil
	}

	return s.funcs[id]
}

// FuncNode interns decl, creating a fresh Function on first lookup.
func (s *Store) FuncNode(decl front.Decl) *Function {
	if n, ok := s.LookupFunc(decl); ok {
		return n
	}
	id := FuncID(len(s.funcs))
	n := &Function{id: id, Decl: decl}
	s.funcs = append(s.funcs, n)
	s.internFunc[decl] = id

	return n
}

// LookupVar returns the existing node for decl without creating one.
func (s *Store) LookupVar(decl front.Decl) (*Variable, bool) {
	id, ok := s.internVar[decl]
	if !ok {
		return nil, false
	}

	return s.vars[id], true
}

// Var resolves id to its Variable, or nil if id is absent or tombstoned.
func (s *Store) Var(id VarID) *Variable {
	if id == 0 || int(id) >= len(s.vars) {
		return nil
	}

	return s.vars[id]
}

// VarNode interns decl, creating a fresh Variable on first lookup.
func (s *Store) VarNode(decl front.Decl) *Variable {
	if n, ok := s.LookupVar(decl); ok {
		return n
	}
	id := VarID(len(s.vars))
	n := &Variable{id: id, Decl: decl}
	s.vars = append(s.vars, n)
	s.internVar[decl] = id

	return n
}

// Edge resolves id to its Edge, or nil if id is absent or tombstoned.
func (s *Store) Edge(id EdgeID) *Edge {
	if id == 0 || int(id) >= len(s.edges) {
		return nil
	}

	return s.edges[id]
}

// CreateEdge emits a call edge from caller to callee, carrying the
// statement handle, block weight and loop depth. The new edge is appended
// to both caller.Callees and callee.Callers, preserving insertion order.
func (s *Store) CreateEdge(caller, callee *Function, stmt front.Stmt, count uint64, depth int) *Edge {
	id := EdgeID(len(s.edges))
	e := &Edge{id: id, Caller: caller.ID(), Callee: callee.ID(), Stmt: stmt, Count: count, LoopDepth: depth}
	s.edges = append(s.edges, e)
	caller.Callees = append(caller.Callees, id)
	callee.Callers = append(callee.Callers, id)

	return e
}

// RemoveCallees severs every outgoing edge of n: each edge is tombstoned
// and unlinked from the callee's Callers list, and n.Callees is cleared.
// Used when re-analyzing a redefined function, which must rebuild its
// edges from scratch rather than accumulate duplicates.
func (s *Store) RemoveCallees(n *Function) {
	for _, eid := range n.Callees {
		e := s.Edge(eid)
		if e == nil {
			continue
		}
		if callee := s.Func(e.Callee); callee != nil {
			callee.Callers = removeEdgeID(callee.Callers, eid)
		}
		s.edges[eid] = nil
	}
	n.Callees = nil
}

// RemoveNode unlinks n from all caller/callee edge lists, removes it from
// the intern table, detaches its clone chain, and tombstones its arena
// slot.
func (s *Store) RemoveNode(n *Function) {
	s.RemoveCallees(n)
	for _, eid := range n.Callers {
		e := s.Edge(eid)
		if e == nil {
			continue
		}
		if caller := s.Func(e.Caller); caller != nil {
			caller.Callees = removeEdgeID(caller.Callees, eid)
		}
		s.edges[eid] = nil
	}
	n.Callers = nil
	n.NextClone = nil
	delete(s.internFunc, n.Decl)
	s.funcs[n.id] = nil
}

// RemoveVarNode removes an unreachable variable from the intern table and
// tombstones its arena slot. Variables carry no edges.
func (s *Store) RemoveVarNode(v *Variable) {
	delete(s.internVar, v.Decl)
	s.vars[v.id] = nil
}

func removeEdgeID(ids []EdgeID, target EdgeID) []EdgeID {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}

	return out
}

// MarkNeeded enqueues n onto the needed worklist. Idempotent: a second call
// on an already-needed node has no effect. Needed implies Reachable, so
// MarkNeeded also marks reachability.
func (s *Store) MarkNeeded(n *Function) {
	if n.Needed {
		return
	}
	s.MarkReachable(n)
	n.Needed = true
	s.neededQueue = append(s.neededQueue, n.ID())
}

// MarkReachable enqueues n onto the reachable worklist. Idempotent, and
// forbidden once GlobalInfoReady — callers past that point get a no-op
// rather than a panic, since the inter-procedural phase itself is the
// trusted caller and is expected to have stopped discovering new nodes.
func (s *Store) MarkReachable(n *Function) {
	if n.Reachable || s.GlobalInfoReady {
		return
	}
	n.Reachable = true
	s.reachableQueue = append(s.reachableQueue, n.ID())
}

// MarkVarNeeded enqueues v into the unanalyzed-variables queue the first
// time it becomes needed.
func (s *Store) MarkVarNeeded(v *Variable) {
	wasNeeded := v.Needed
	v.Needed = true
	if !wasNeeded {
		s.unanalyzedVars = append(s.unanalyzedVars, v.ID())
	}
}

// PopReachable dequeues the next function awaiting analysis, FIFO. Returns
// nil if the queue is empty.
func (s *Store) PopReachable() *Function {
	for len(s.reachableQueue) > 0 {
		id := s.reachableQueue[0]
		s.reachableQueue = s.reachableQueue[1:]
		if n := s.Func(id); n != nil {
			return n
		}
	}

	return nil
}

// PopUnanalyzedVar dequeues the next variable awaiting its initializer
// walk, FIFO. Returns nil if the queue is empty.
func (s *Store) PopUnanalyzedVar() *Variable {
	for len(s.unanalyzedVars) > 0 {
		id := s.unanalyzedVars[0]
		s.unanalyzedVars = s.unanalyzedVars[1:]
		if v := s.Var(id); v != nil {
			return v
		}
	}

	return nil
}

// HasPendingVars reports whether the unanalyzed-variable queue is
// non-empty, used by callers that drain the variable analyzer in a loop
// until it quiesces.
func (s *Store) HasPendingVars() bool { return len(s.unanalyzedVars) > 0 }

// NextFuncID returns the FuncID that would be assigned to the next
// interned function — one past the highest currently allocated slot. Used
// by unit.Context to remember the boundary between compilation-unit
// passes, so a later reclamation sweep only considers nodes introduced
// since the previous pass.
func (s *Store) NextFuncID() FuncID {
	return FuncID(len(s.funcs))
}

// Funcs calls fn for every live (non-tombstoned) Function, in arena
// (insertion) order.
func (s *Store) Funcs(fn func(*Function)) {
	for _, n := range s.funcs[1:] {
		if n != nil {
			fn(n)
		}
	}
}

// Vars calls fn for every live (non-tombstoned) Variable, in arena
// (insertion) order.
func (s *Store) Vars(fn func(*Variable)) {
	for _, v := range s.vars[1:] {
		if v != nil {
			fn(v)
		}
	}
}
