package unit

import (
	"fmt"

	"github.com/gocc-mid/cgraph/analyze"
	"github.com/gocc-mid/cgraph/front"
	"github.com/gocc-mid/cgraph/node"
	"github.com/gocc-mid/cgraph/schedule"
)

// FinalizeFunction commits decl's body. If decl was already finalized,
// this is a redefinition: the node is reset to its pre-analysis state
// (ResetNode) and re-finalized, unless the node has already been output
// or whole-unit analysis has already started, in which case a redefinition
// can no longer be reconciled with work already done and is reported as
// an error instead.
//
// nested forbids the garbage-collection safe point at the end of this
// call — set it when FinalizeFunction is itself being invoked from inside
// another driver operation that will run its own collection afterward, to
// avoid collecting mid-operation.
func (c *Context) FinalizeFunction(decl front.Decl, nested bool) error {
	fn, existed := c.store.LookupFunc(decl)
	if !existed {
		fn = c.store.FuncNode(decl)
	}

	if existed && fn.Finalized {
		if c.unitAtATime && c.analysisStarted {
			return fmt.Errorf("%w: %s", ErrRedefinitionAfterAnalysisStarted, decl.DeclName())
		}
		if fn.Output {
			return fmt.Errorf("%w: %s", ErrRedefinitionAfterOutput, decl.DeclName())
		}
		c.store.ResetNode(fn)
	}

	fn.Finalized = true

	return c.finalizeNode(fn, nested)
}

// finalizeNode runs the post-commit steps shared by FinalizeFunction and
// BuildStaticCdtor's pre-IPA path, for a node that is already known to be
// fresh (no redefinition bookkeeping needed).
func (c *Context) finalizeNode(fn *node.Function, nested bool) error {
	if !c.unitAtATime {
		return c.finalizeStreaming(fn, nested)
	}

	// Whole-unit mode: externally visible and COMDAT definitions are
	// roots; everything else stays dormant until discovered by the
	// reference walker.
	if fn.Public || fn.ComdatGroup != "" {
		c.store.MarkNeeded(fn)
	}

	if !nested {
		c.caps.Collect()
	}

	return nil
}

// finalizeStreaming implements the streaming-mode path: analyze the node
// immediately and mark it for output, then (if top-level) expand every
// node marked for output. No inlining is performed on this path.
func (c *Context) finalizeStreaming(fn *node.Function, nested bool) error {
	c.store.MarkNeeded(fn)

	if err := analyze.AnalyzeFunction(c.store, c.caps, false, &c.current, fn); err != nil {
		return err
	}
	fn.Output = true

	if !nested {
		sched := schedule.New(c.store, c.caps, schedule.WithLogger(c.log))
		if err := sched.ExpandAll(); err != nil {
			return err
		}
		c.caps.Collect()
	}

	return nil
}

// FinalizeVariable commits decl's body. The variable is queued for the
// variable analyzer; in whole-unit mode the queue is drained by
// FinalizeCompilationUnit, in streaming mode it is drained immediately,
// walking the initializer and marking the variable analyzed. No variable
// is emitted on either path.
func (c *Context) FinalizeVariable(decl front.Decl) error {
	analyze.FinalizeVariableNode(c.store, decl)

	if !c.unitAtATime {
		_, err := analyze.AnalyzeVariables(c.store, c.caps, false)
		return err
	}

	return nil
}
