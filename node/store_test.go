package node_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gocc-mid/cgraph/node"
)

type declStub struct{ name string }

func (d *declStub) DeclName() string { return d.name }

func TestFuncNode_InternsOnce(t *testing.T) {
	s := node.NewStore()
	d := &declStub{name: "f"}

	n1 := s.FuncNode(d)
	n2 := s.FuncNode(d)

	assert.Same(t, n1, n2, "interning the same decl twice must return the same node identity")
	assert.Equal(t, n1.ID(), n2.ID())
}

func TestFuncNode_DistinctDecls(t *testing.T) {
	s := node.NewStore()
	a := s.FuncNode(&declStub{name: "a"})
	b := s.FuncNode(&declStub{name: "b"})

	assert.NotEqual(t, a.ID(), b.ID())
}

func TestMarkNeeded_IdempotentAndImpliesReachable(t *testing.T) {
	s := node.NewStore()
	n := s.FuncNode(&declStub{name: "f"})

	s.MarkNeeded(n)
	assert.True(t, n.Needed)
	assert.True(t, n.Reachable)

	popped := s.PopReachable()
	assert.Equal(t, n.ID(), popped.ID())
	assert.Nil(t, s.PopReachable())

	// Second call is a no-op: idempotent, does not re-enqueue.
	s.MarkNeeded(n)
	assert.Nil(t, s.PopReachable())
}

func TestMarkReachable_ForbiddenAfterGlobalInfoReady(t *testing.T) {
	s := node.NewStore()
	n := s.FuncNode(&declStub{name: "f"})
	s.GlobalInfoReady = true

	s.MarkReachable(n)
	assert.False(t, n.Reachable, "no node may transition unreachable->reachable after global_info_ready")
}

func TestCreateEdge_OrdersCallersAndCallees(t *testing.T) {
	s := node.NewStore()
	caller := s.FuncNode(&declStub{name: "caller"})
	calleeA := s.FuncNode(&declStub{name: "a"})
	calleeB := s.FuncNode(&declStub{name: "b"})

	e1 := s.CreateEdge(caller, calleeA, nil, 10, 0)
	e2 := s.CreateEdge(caller, calleeB, nil, 5, 1)

	assert.Equal(t, []node.EdgeID{e1.ID(), e2.ID()}, caller.Callees, "callee edges must stay in insertion order")
	assert.Equal(t, []node.EdgeID{e1.ID()}, calleeA.Callers)
	assert.Equal(t, []node.EdgeID{e2.ID()}, calleeB.Callers)
}

func TestRemoveCallees_SeversBothSides(t *testing.T) {
	s := node.NewStore()
	caller := s.FuncNode(&declStub{name: "caller"})
	callee := s.FuncNode(&declStub{name: "callee"})
	s.CreateEdge(caller, callee, nil, 1, 0)

	s.RemoveCallees(caller)

	assert.Empty(t, caller.Callees)
	assert.Empty(t, callee.Callers, "removing the caller's callees must unlink the callee's inbound edge too")
}

func TestRemoveNode_UnlinksAndDetachesFromIntern(t *testing.T) {
	s := node.NewStore()
	d := &declStub{name: "orphan"}
	a := s.FuncNode(&declStub{name: "a"})
	orphan := s.FuncNode(d)
	s.CreateEdge(a, orphan, nil, 1, 0)

	s.RemoveNode(orphan)

	assert.Empty(t, a.Callees, "caller's edge to the removed node must be unlinked")
	_, found := s.LookupFunc(d)
	assert.False(t, found, "removed node must no longer be interned")
}

func TestResetNode_ClearsLocalAndGlobalButKeepsInboundEdges(t *testing.T) {
	s := node.NewStore()
	caller := s.FuncNode(&declStub{name: "caller"})
	h := s.FuncNode(&declStub{name: "h"})
	h.Analyzed = true
	h.Inlinable = true
	h.SelfInsns = 42
	s.CreateEdge(caller, h, nil, 1, 0)
	s.CreateEdge(h, caller, nil, 1, 0) // h also calls caller

	s.ResetNode(h)

	assert.False(t, h.Analyzed)
	assert.False(t, h.Inlinable)
	assert.Zero(t, h.SelfInsns)
	assert.True(t, h.RedefinedExternInline)
	assert.Empty(t, h.Callees, "outgoing edges must be cleared on reset")
	assert.Len(t, h.Callers, 1, "h's inbound edge from caller is untouched by resetting h")
}

func TestVarNode_InternsOnceAndTracksUnanalyzedQueue(t *testing.T) {
	s := node.NewStore()
	d := &declStub{name: "v"}
	v1 := s.VarNode(d)
	v2 := s.VarNode(d)
	assert.Same(t, v1, v2)

	assert.False(t, s.HasPendingVars())
	s.MarkVarNeeded(v1)
	assert.True(t, v1.Needed)
	assert.True(t, s.HasPendingVars())

	popped := s.PopUnanalyzedVar()
	assert.Equal(t, v1.ID(), popped.ID())
	assert.False(t, s.HasPendingVars())

	// Idempotent: marking an already-needed variable does not re-enqueue.
	s.MarkVarNeeded(v1)
	assert.False(t, s.HasPendingVars())
}
