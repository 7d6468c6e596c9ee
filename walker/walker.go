package walker

import (
	"github.com/gocc-mid/cgraph/front"
	"github.com/gocc-mid/cgraph/node"
)

// Walker holds the per-invocation state for one call to Walk: the dedup
// set that makes a walk idempotent, and the context it needs to mark
// discovered entities needed.
type Walker struct {
	store       *node.Store
	caps        front.Capabilities
	unitAtATime bool
	enclosing   *node.Function // nil when walking a top-level variable initializer

	seen map[any]bool
}

// New returns a Walker scoped to one invocation over store. enclosing is
// the function whose body is being walked, or nil when walking a variable
// initializer. unitAtATime selects whether function-address expressions
// are marked needed unconditionally, since whole-unit mode cannot rely on
// later discovery to root them.
func New(store *node.Store, caps front.Capabilities, enclosing *node.Function, unitAtATime bool) *Walker {
	return &Walker{
		store:       store,
		caps:        caps,
		unitAtATime: unitAtATime,
		enclosing:   enclosing,
		seen:        make(map[any]bool),
	}
}

// Walk visits root and every sub-tree reachable from it at most once,
// marking referenced variables and (in whole-unit mode) address-taken
// functions needed. Variable references and tree shapes this walker does
// not itself understand are also handed to Capabilities.AnalyzeExpr, with
// the enclosing function (nil for a variable initializer) as its data
// argument.
//
// Calling Walk twice with the same Walker on the same tree is a no-op the
// second time; to re-walk from scratch, use a fresh Walker via New.
func (w *Walker) Walk(root front.Tree) error {
	if root == nil {
		return nil
	}

	return w.walkOne(root)
}

func (w *Walker) walkOne(t front.Tree) error {
	id := t.TreeID()
	if w.seen[id] {
		return nil
	}
	w.seen[id] = true

	// Type and declaration sub-trees cannot contain references by
	// construction; pruning them saves work.
	if t.IsTypeOrDecl() {
		return nil
	}

	matched := false

	if d, ok := t.VarRef(); ok {
		matched = true
		w.store.MarkVarNeeded(w.store.VarNode(d))
		if err := w.caps.AnalyzeExpr(t, true, w.enclosing); err != nil {
			return err
		}
	}

	if d, ok := t.FuncAddr(); ok {
		matched = true
		if w.unitAtATime {
			// Address-taken functions are reachable unconditionally.
			w.store.MarkNeeded(w.store.FuncNode(d))
		}
	}

	if !matched {
		if err := w.caps.AnalyzeExpr(t, true, w.enclosing); err != nil {
			return err
		}
	}

	for _, c := range t.Children() {
		if err := w.walkOne(c); err != nil {
			return err
		}
	}

	return nil
}
