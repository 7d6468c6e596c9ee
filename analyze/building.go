package analyze

import (
	"github.com/gocc-mid/cgraph/front"
	"github.com/gocc-mid/cgraph/node"
	"github.com/gocc-mid/cgraph/walker"
)

// BuildEdges iterates fn's already-lowered body in block order and, for
// each statement, either emits a call edge (also walking the call's
// arguments and, for assignment-shaped statements, the assignment target)
// or walks the entire statement with the reference walker.
//
// It additionally walks the initializers of fn's locally-declared static
// variables; in whole-unit mode those variables are also finalized,
// promoting them into the variable worklist.
func BuildEdges(store *node.Store, caps front.Capabilities, unitAtATime bool, fn *node.Function, body front.Body) error {
	for _, blk := range body.Blocks() {
		count, depth := blk.Count(), blk.LoopDepth()
		for _, stmt := range blk.Stmts() {
			if err := buildStmtEdges(store, caps, unitAtATime, fn, stmt, count, depth); err != nil {
				return err
			}
		}
	}

	for _, d := range body.LocalStatics() {
		if unitAtATime {
			FinalizeVariableNode(store, d)
		}
		if init, ok := body.Initializer(d); ok {
			if err := walker.New(store, caps, nil, unitAtATime).Walk(init); err != nil {
				return err
			}
		}
	}

	return nil
}

func buildStmtEdges(store *node.Store, caps front.Capabilities, unitAtATime bool, fn *node.Function, stmt front.Stmt, count uint64, depth int) error {
	callee, isCall := stmt.Call()
	if !isCall {
		return walker.New(store, caps, fn, unitAtATime).Walk(stmt.Tree())
	}

	calleeNode := store.FuncNode(callee)
	store.CreateEdge(fn, calleeNode, stmt, count, depth)

	for _, arg := range stmt.Args() {
		if err := walker.New(store, caps, fn, unitAtATime).Walk(arg); err != nil {
			return err
		}
	}

	if target, ok := stmt.AssignTarget(); ok {
		if err := walker.New(store, caps, fn, unitAtATime).Walk(target); err != nil {
			return err
		}
	}

	return nil
}
