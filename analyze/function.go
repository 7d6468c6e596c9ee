package analyze

import (
	"fmt"

	"github.com/gocc-mid/cgraph/front"
	"github.com/gocc-mid/cgraph/node"
)

// AnalyzeFunction runs the function analyzer over fn, which must be
// finalized and reachable, and not yet analyzed; current is the
// ambient "current function" slot owned by the caller (unit.Context),
// which AnalyzeFunction sets for the duration of the call and restores
// afterward — a stack discipline rather than a single global, so nested
// front-end callbacks that re-enter analysis (if any) see the right
// function.
func AnalyzeFunction(store *node.Store, caps front.Capabilities, unitAtATime bool, current **node.Function, fn *node.Function) error {
	if !fn.Finalized || !fn.Reachable || fn.Analyzed {
		return fmt.Errorf("%w: %s", ErrNotReady, fn.Decl.DeclName())
	}

	prev := *current
	*current = fn
	defer func() { *current = prev }()

	if !fn.Lowered {
		body, err := caps.Lower(fn.Decl)
		if err != nil {
			return fmt.Errorf("analyze: lowering %s: %w", fn.Decl.DeclName(), err)
		}
		fn.Body = body
		fn.Lowered = true
	}

	// Clear any stale callees: important for re-analysis after
	// redefinition, where the previous body's edges must not survive.
	store.RemoveCallees(fn)

	if fn.Body != nil {
		if err := BuildEdges(store, caps, unitAtATime, fn, fn.Body); err != nil {
			return fmt.Errorf("analyze: building edges for %s: %w", fn.Decl.DeclName(), err)
		}
	}

	verdict := caps.Inspect(fn.Decl)
	fn.Inlinable = verdict.Inlinable
	fn.DisregardInlineLimits = verdict.DisregardInlineLimits
	fn.SelfInsns = verdict.SelfInsns
	fn.Insns = verdict.SelfInsns // seed global.insns = self_insns ahead of IPA

	seedInlineFailed(store, fn)

	fn.Analyzed = true

	return nil
}

// seedInlineFailed sets a deterministic inline_failed reason on every
// inbound edge, in priority order: redefined-extern-inline beats
// not-inlinable beats not-considered. Later inter-procedural passes may
// clear or overwrite these.
func seedInlineFailed(store *node.Store, fn *node.Function) {
	reason := node.ReasonNotConsidered
	switch {
	case fn.RedefinedExternInline:
		reason = node.ReasonRedefinedExternInline
	case !fn.Inlinable:
		reason = node.ReasonNotInlinable
	}

	for _, eid := range fn.Callers {
		if e := store.Edge(eid); e != nil {
			e.InlineFailed = reason
		}
	}
}
