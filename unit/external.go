package unit

import (
	"fmt"
	"io"

	"github.com/gocc-mid/cgraph/front"
	"github.com/gocc-mid/cgraph/node"
	"github.com/gocc-mid/cgraph/schedule"
)

// MarkNeededNode is the external "used" notification for functions: a
// caller outside the normal finalize/analyze flow (e.g. a debugger hook or
// an external symbol reference) can still force a node onto the needed
// worklist.
func (c *Context) MarkNeededNode(fn *node.Function) {
	c.store.MarkNeeded(fn)
}

// VarpoolMarkNeededNode is the external "used" notification for variables,
// mirroring MarkNeededNode.
func (c *Context) VarpoolMarkNeededNode(v *node.Variable) {
	c.store.MarkVarNeeded(v)
}

// LowerFunction is the idempotent body-lowering trigger. Calling it on an
// already-lowered node is a no-op.
func (c *Context) LowerFunction(fn *node.Function) error {
	if fn.Lowered {
		return nil
	}

	body, err := c.caps.Lower(fn.Decl)
	if err != nil {
		return fmt.Errorf("unit: lowering %s: %w", fn.Decl.DeclName(), err)
	}
	fn.Body = body
	fn.Lowered = true

	return nil
}

// BuildStaticCdtor synthesizes a static constructor ('I') or destructor
// ('D') wrapping body, and routes it into the graph: before the
// inter-procedural phase begins, through the ordinary finalize-function
// path; after, directly through lowering and emission.
func (c *Context) BuildStaticCdtor(which byte, body front.Body, priority int) (*node.Function, error) {
	fn, err := c.cdtorSynth.Build(which, body, priority)
	if err != nil {
		return nil, err
	}

	if c.store.GlobalInfoReady {
		// Past this point GlobalInfoReady normally forbids new
		// reachable:false→true transitions, but a static constructor or
		// destructor is a deliberate exception: it must end up reachable
		// and emitted regardless of when it arrives, so it is marked
		// directly rather than through node.Store.MarkReachable (which
		// would silently no-op once the latch has closed).
		fn.Reachable = true
		fn.Finalized = true
		fn.Analyzed = true

		if err := c.LowerFunction(fn); err != nil {
			return nil, err
		}
		fn.Output = true

		sched := schedule.New(c.store, c.caps, schedule.WithLogger(c.log))
		if err := sched.ExpandFunction(fn); err != nil {
			return nil, err
		}

		return fn, nil
	}

	fn.Finalized = true
	if err := c.finalizeNode(fn, false); err != nil {
		return nil, err
	}

	return fn, nil
}

// Dump writes a human-readable textual form of the callgraph to w.
// Diagnostic only; its format is not a stable interface and must never be
// parsed back in.
func (c *Context) Dump(w io.Writer) {
	c.store.Funcs(func(fn *node.Function) {
		fmt.Fprintf(w, "function %s: finalized=%v reachable=%v needed=%v analyzed=%v lowered=%v output=%v asm_written=%v\n",
			fn.Decl.DeclName(), fn.Finalized, fn.Reachable, fn.Needed, fn.Analyzed, fn.Lowered, fn.Output, fn.AsmWritten)

		for _, eid := range fn.Callees {
			e := c.store.Edge(eid)
			if e == nil {
				continue
			}
			callee := c.store.Func(e.Callee)
			if callee == nil {
				continue
			}
			fmt.Fprintf(w, "  -> %s (inline_failed=%q)\n", callee.Decl.DeclName(), e.InlineFailed)
		}
	})

	c.store.Vars(func(v *node.Variable) {
		fmt.Fprintf(w, "variable %s: finalized=%v needed=%v analyzed=%v\n", v.Decl.DeclName(), v.Finalized, v.Needed, v.Analyzed)
	})
}
