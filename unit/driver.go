package unit

import (
	"fmt"

	"github.com/gocc-mid/cgraph/analyze"
	"github.com/gocc-mid/cgraph/node"
	"github.com/gocc-mid/cgraph/schedule"
	"github.com/gocc-mid/cgraph/verify"
	"github.com/gocc-mid/cgraph/visibility"
)

// FinalizeCompilationUnit drains the reachability worklist and settles the
// whole compilation unit: seed reachability from variable initializers,
// alternate function and variable analysis until both quiesce, sweep
// nodes that became stale along the way, and invoke garbage collection. It
// is a no-op in streaming mode, since streaming finalizes each function as
// it arrives.
//
// When the front end has reported errors or "sorries" (front.Diagnostics),
// finalization is skipped entirely: variable emission, verification, and
// the final consistency sweep are not safe to run over a partial,
// error-damaged unit, and partial output is acceptable in that case.
func (c *Context) FinalizeCompilationUnit() error {
	if !c.unitAtATime {
		return nil
	}

	if c.diagnosticsBlocked() {
		c.log.Warn("front end reported errors or sorries; skipping compilation-unit finalization")
		return nil
	}

	c.analysisStarted = true

	// Step 1: alias finalization is the front end's concern, not this
	// driver's.

	// Step 2: seed reachability from variable initializers.
	if _, err := analyze.AnalyzeVariables(c.store, c.caps, true); err != nil {
		return err
	}

	// Step 3: drain the function reachable-worklist, alternating with the
	// variable analyzer, until both quiesce.
	for {
		fn := c.store.PopReachable()
		if fn == nil {
			break
		}

		if fn.Analyzed {
			continue
		}

		if !fn.Finalized {
			// Body vanished before analysis reached it (e.g. killed by a
			// late weak alias): reset rather than analyze a node with
			// nothing to lower.
			c.store.ResetNode(fn)
			continue
		}

		if err := analyze.AnalyzeFunction(c.store, c.caps, true, &c.current, fn); err != nil {
			return err
		}

		for _, eid := range fn.Callees {
			e := c.store.Edge(eid)
			if e == nil {
				continue
			}
			if callee := c.store.Func(e.Callee); callee != nil {
				c.store.MarkReachable(callee)
			}
		}

		if _, err := analyze.AnalyzeVariables(c.store, c.caps, true); err != nil {
			return err
		}
	}

	c.functionFlagsReady = true

	// Step 4: reclamation sweep over nodes introduced since the last call.
	if err := c.reclamationSweep(); err != nil {
		return err
	}

	// Step 5: remember the boundary for intermodule re-entry.
	c.firstAnalyzed = c.store.NextFuncID()

	// Step 6: invoke garbage collection.
	c.caps.Collect()

	return nil
}

func (c *Context) diagnosticsBlocked() bool {
	return c.diags != nil && (c.diags.ErrorCount() > 0 || c.diags.SorryCount() > 0)
}

// reclamationSweep tidies up after one compilation-unit pass, restricted
// to nodes introduced since the previous call (id >= firstAnalyzed): a
// finalized-and-reachable node with no body left behind by the analyzer is
// reset, an unreachable node that somehow still carries a body is
// removed, and a reachable node whose analyzed/finalized flags disagree is
// an internal-consistency failure. A finalized declaration that never
// became reachable is deliberately left alone here (Analyzed stays false)
// — that is not an error, it is the ordinary unreferenced-static case, and
// it is swept later by visibility.Resolve during Optimize. See
// DESIGN.md's resolution of this ambiguity.
func (c *Context) reclamationSweep() error {
	var failure error

	c.store.Funcs(func(fn *node.Function) {
		if failure != nil || fn.ID() < c.firstAnalyzed {
			return
		}

		switch {
		case fn.Finalized && fn.Reachable && fn.Body == nil:
			c.store.ResetNode(fn)
		case !fn.Reachable && fn.Body != nil:
			c.store.RemoveNode(fn)
		case fn.Reachable && fn.Analyzed != fn.Finalized:
			failure = &verify.Violation{
				Invariant: "analyzed-equals-finalized",
				Detail: fmt.Sprintf("node %s: analyzed=%v finalized=%v at end of analyze_compilation_unit",
					fn.Decl.DeclName(), fn.Analyzed, fn.Finalized),
			}
		}
	})

	return failure
}

// Optimize runs the inter-procedural phase boundary (latching
// GlobalInfoReady), visibility resolution, whole-graph verification, and
// finally drives emission in postorder (callees before their callers —
// see schedule.Scheduler.ExpandAll).
func (c *Context) Optimize() error {
	c.store.GlobalInfoReady = true

	visibility.New(c.store, visibility.WithWholeProgram(c.wholeProgram)).Resolve()

	if !c.diagnosticsBlocked() {
		if err := verify.All(c.store); err != nil {
			return err
		}
	}

	c.store.Funcs(func(fn *node.Function) {
		if fn.Reachable && fn.Analyzed && fn.InlinedTo == 0 {
			fn.Output = true
		}
	})

	return schedule.New(c.store, c.caps, schedule.WithLogger(c.log)).ExpandAll()
}
