package verify

import (
	"fmt"

	"github.com/gocc-mid/cgraph/front"
	"github.com/gocc-mid/cgraph/node"
)

// Violation reports a failed internal-consistency invariant. It is never
// panicked — the verifier returns it like any other error, so a test can
// assert on it directly and the driver can log it at fatal severity
// before aborting the phase: an invariant violation is an internal error,
// to be detected rather than silently tolerated.
type Violation struct {
	Invariant string
	Detail    string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("verify: %s: %s", v.Invariant, v.Detail)
}

func violation(invariant, format string, args ...any) error {
	return &Violation{Invariant: invariant, Detail: fmt.Sprintf(format, args...)}
}

// Node runs the per-node checks against n: inline-target consistency,
// declaration-chain findability, and (once analyzed with a body) the
// call/edge bijection. It is the entry point used opportunistically after
// a single targeted mutation, alongside the whole-graph sweep in All.
//
// There is deliberately no separate "aux absent" check here: node.Edge has
// no Aux field at all (see node.Edge's doc comment), so that invariant
// holds by construction rather than by a runtime check.
func Node(store *node.Store, n *node.Function) error {
	if err := checkInlineConsistency(store, n); err != nil {
		return err
	}

	if found, ok := store.LookupFunc(n.Decl); !ok || found != n {
		return violation("findable-by-decl", "node %s is not reachable from its own declaration's intern entry", n.Decl.DeclName())
	}

	if n.Analyzed && n.Body != nil {
		if err := checkCallEdgeBijection(store, n); err != nil {
			return err
		}
	}

	return nil
}

// All runs Node over every live function in store, in insertion order,
// stopping at the first violation. A single violation is treated as
// fatal, not accumulated, so the phase aborts immediately rather than
// compounding further work on an inconsistent graph.
func All(store *node.Store) error {
	var err error
	store.Funcs(func(n *node.Function) {
		if err != nil {
			return
		}
		err = Node(store, n)
	})

	return err
}

// checkInlineConsistency checks n's inlined_to invariants: inlined_to
// must never point at n itself; inlined_to may be set only when some
// inbound edge is inlined (inline_failed absent); at most one inbound
// edge may be inlined; and that edge's caller must resolve to inlined_to
// as its effective inline target.
func checkInlineConsistency(store *node.Store, n *node.Function) error {
	if n.InlinedTo != 0 && n.InlinedTo == n.ID() {
		return violation("inlined-to-self", "node %s has inlined_to pointing at itself", n.Decl.DeclName())
	}

	var inlined []*node.Edge
	for _, eid := range n.Callers {
		e := store.Edge(eid)
		if e == nil || !e.Inlined() {
			continue
		}
		inlined = append(inlined, e)
	}

	switch {
	case len(inlined) == 0 && n.InlinedTo != 0:
		return violation("inlined-to-without-inlined-caller", "node %s has inlined_to set but no inbound edge is inlined", n.Decl.DeclName())
	case len(inlined) > 1:
		return violation("multiple-inlined-callers", "node %s has %d inlined inbound edges, want exactly one", n.Decl.DeclName(), len(inlined))
	}

	for _, e := range inlined {
		target := effectiveInlineTarget(store, e.Caller)
		if n.InlinedTo != target {
			return violation("inline-target-mismatch",
				"node %s: inlined caller's effective target is node %d, but inlined_to is %d", n.Decl.DeclName(), target, n.InlinedTo)
		}
	}

	return nil
}

// effectiveInlineTarget follows id's inlined_to chain to its root — the
// node id was ultimately folded into, or id itself if it was never
// inlined. The seen set guards against a malformed cycle rather than
// looping forever.
func effectiveInlineTarget(store *node.Store, id node.FuncID) node.FuncID {
	seen := make(map[node.FuncID]bool)
	for {
		fn := store.Func(id)
		if fn == nil || fn.InlinedTo == 0 || seen[id] {
			return id
		}
		seen[id] = true
		id = fn.InlinedTo
	}
}

// checkCallEdgeBijection checks that walking n's body and pairing each
// call statement with a graph edge yields a bijection. The scratch sets
// below are local to this one call, never struct fields, so "absent
// outside scope" holds by construction.
func checkCallEdgeBijection(store *node.Store, n *node.Function) error {
	calls := make(map[front.Stmt]bool)
	for _, blk := range n.Body.Blocks() {
		for _, stmt := range blk.Stmts() {
			if _, ok := stmt.Call(); !ok {
				continue
			}
			if calls[stmt] {
				return violation("shared-call-statement", "node %s: the same call statement appears twice in the body", n.Decl.DeclName())
			}
			calls[stmt] = true
		}
	}

	matched := make(map[front.Stmt]bool)
	for _, eid := range n.Callees {
		e := store.Edge(eid)
		if e == nil {
			continue
		}
		if e.Stmt == nil || !calls[e.Stmt] {
			return violation("edge-without-call", "node %s: a callee edge has no matching call statement in the body", n.Decl.DeclName())
		}
		if matched[e.Stmt] {
			return violation("shared-edge-statement", "node %s: two edges share the same call statement", n.Decl.DeclName())
		}
		matched[e.Stmt] = true
	}

	for stmt := range calls {
		if !matched[stmt] {
			return violation("call-without-edge", "node %s: a call statement has no corresponding edge", n.Decl.DeclName())
		}
	}

	return nil
}
