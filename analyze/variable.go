package analyze

import (
	"github.com/gocc-mid/cgraph/front"
	"github.com/gocc-mid/cgraph/node"
	"github.com/gocc-mid/cgraph/walker"
)

// FinalizeVariableNode interns decl as a Variable node, marks it finalized,
// and enqueues it onto the unanalyzed-variables queue (idempotent if
// already needed). Shared by unit.Context.FinalizeVariable and the edge
// builder's local-static handling.
func FinalizeVariableNode(store *node.Store, decl front.Decl) *node.Variable {
	v := store.VarNode(decl)
	v.Finalized = true
	store.MarkVarNeeded(v)

	return v
}

// AnalyzeVariables drains store's unanalyzed-variable queue, walking each
// variable's initializer (if present) with the reference walker to
// discover further needed entities, then marking it analyzed. Returns
// whether the queue held any work, so the unit driver can alternate with
// the function worklist until both quiesce.
func AnalyzeVariables(store *node.Store, caps front.Capabilities, unitAtATime bool) (bool, error) {
	drained := false

	for {
		v := store.PopUnanalyzedVar()
		if v == nil {
			break
		}
		drained = true

		if init, ok := caps.VarInitializer(v.Decl); ok {
			if err := walker.New(store, caps, nil, unitAtATime).Walk(init); err != nil {
				return drained, err
			}
		}

		v.Analyzed = true
	}

	return drained, nil
}
