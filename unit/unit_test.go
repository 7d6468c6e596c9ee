package unit_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gocc-mid/cgraph/front"
	"github.com/gocc-mid/cgraph/node"
	"github.com/gocc-mid/cgraph/unit"
)

// --- fake front end -------------------------------------------------

type decl struct{ name string }

func (d *decl) DeclName() string { return d.name }

type tree struct {
	id       string
	varRef   *decl
	funcAddr *decl
	children []front.Tree
}

func (t *tree) TreeID() any                 { return t.id }
func (t *tree) IsTypeOrDecl() bool          { return false }
func (t *tree) Children() []front.Tree      { return t.children }
func (t *tree) VarRef() (front.Decl, bool) {
	if t.varRef == nil {
		return nil, false
	}
	return t.varRef, true
}
func (t *tree) FuncAddr() (front.Decl, bool) {
	if t.funcAddr == nil {
		return nil, false
	}
	return t.funcAddr, true
}

type stmt struct {
	callee *decl
}

func (s *stmt) Call() (front.Decl, bool) {
	if s.callee == nil {
		return nil, false
	}
	return s.callee, true
}
func (s *stmt) Args() []front.Tree               { return nil }
func (s *stmt) AssignTarget() (front.Tree, bool) { return nil, false }
func (s *stmt) Tree() front.Tree                 { return &tree{id: "stmt-tree"} }

// call builds a call statement targeting target. Tests must pass the same
// *decl pointer used to finalize/look up the callee elsewhere: Decl is used
// as a map key by identity, so a fresh &decl{} with the same name would
// silently intern a distinct, never-finalized node.
func call(target *decl) front.Stmt {
	return &stmt{callee: target}
}

type block struct{ stmts []front.Stmt }

func (b *block) Stmts() []front.Stmt { return b.stmts }
func (b *block) Count() uint64       { return 1 }
func (b *block) LoopDepth() int      { return 0 }

type body struct {
	blocks []front.Block
}

func (b *body) Blocks() []front.Block                        { return b.blocks }
func (b *body) LocalStatics() []front.Decl                   { return nil }
func (b *body) Initializer(front.Decl) (front.Tree, bool) { return nil, false }

func chainBody(targets ...*decl) *body {
	stmts := make([]front.Stmt, 0, len(targets))
	for _, d := range targets {
		stmts = append(stmts, call(d))
	}
	return &body{blocks: []front.Block{&block{stmts: stmts}}}
}

func leafBody() *body { return &body{} }

type caps struct {
	bodies    map[string]front.Body
	verdicts  map[string]front.InlineVerdict
	varInits  map[string]front.Tree
	expanded  []string
	lowerErr  error
}

func newCaps() *caps {
	return &caps{
		bodies:   map[string]front.Body{},
		verdicts: map[string]front.InlineVerdict{},
		varInits: map[string]front.Tree{},
	}
}

func (c *caps) AnalyzeExpr(front.Tree, bool, any) error { return nil }

func (c *caps) Lower(d front.Decl) (front.Body, error) {
	if c.lowerErr != nil {
		return nil, c.lowerErr
	}
	if b, ok := c.bodies[d.DeclName()]; ok {
		return b, nil
	}
	return leafBody(), nil
}

func (c *caps) Inspect(d front.Decl) front.InlineVerdict {
	return c.verdicts[d.DeclName()]
}

func (c *caps) VarInitializer(d front.Decl) (front.Tree, bool) {
	t, ok := c.varInits[d.DeclName()]
	return t, ok
}

func (c *caps) ExpandFunction(d front.Decl) error {
	c.expanded = append(c.expanded, d.DeclName())
	return nil
}

func (c *caps) Collect() {}

type diags struct{ errs, sorries int }

func (d *diags) ErrorCount() int  { return d.errs }
func (d *diags) SorryCount() int  { return d.sorries }

func indexOf(xs []string, x string) int {
	for i, s := range xs {
		if s == x {
			return i
		}
	}
	return -1
}

// --- end-to-end scenarios ---------------------------------------------

func TestScenario_SimpleChain(t *testing.T) {
	c := newCaps()
	mainDecl, aDecl, bDecl, cDecl, dDecl :=
		&decl{name: "main"}, &decl{name: "a"}, &decl{name: "b"}, &decl{name: "c"}, &decl{name: "d"}

	c.bodies["main"] = chainBody(aDecl)
	c.bodies["a"] = chainBody(bDecl)
	c.bodies["b"] = chainBody(cDecl)
	c.bodies["c"] = leafBody()
	c.bodies["d"] = leafBody()

	ctx := unit.New(c)
	mainFn := ctx.Store().FuncNode(mainDecl)
	mainFn.Public = true

	assert.NoError(t, ctx.FinalizeFunction(mainDecl, false))
	assert.NoError(t, ctx.FinalizeFunction(aDecl, false))
	assert.NoError(t, ctx.FinalizeFunction(bDecl, false))
	assert.NoError(t, ctx.FinalizeFunction(cDecl, false))
	assert.NoError(t, ctx.FinalizeFunction(dDecl, false))

	assert.NoError(t, ctx.FinalizeCompilationUnit())
	assert.NoError(t, ctx.Optimize())

	for _, name := range []string{"main", "a", "b", "c"} {
		idx := indexOf(c.expanded, name)
		assert.NotEqual(t, -1, idx, "%s must have been expanded", name)
	}

	_, found := ctx.Store().LookupFunc(dDecl)
	assert.False(t, found, "unreferenced orphan 'd' must be reclaimed")

	idxC, idxA, idxMain := indexOf(c.expanded, "c"), indexOf(c.expanded, "a"), indexOf(c.expanded, "main")
	assert.True(t, idxC < idxA, "callee c must be expanded before caller a")
	assert.Equal(t, len(c.expanded)-1, idxMain, "main, the root, is expanded last")
}

func TestScenario_AddressTaken(t *testing.T) {
	c := newCaps()
	fDecl, gDecl, pDecl := &decl{name: "f"}, &decl{name: "g"}, &decl{name: "p"}
	c.bodies["f"] = leafBody()
	c.bodies["g"] = leafBody()
	c.varInits["p"] = &tree{id: "p-init", funcAddr: gDecl}

	ctx := unit.New(c)
	fFn := ctx.Store().FuncNode(fDecl)
	fFn.Public = true

	assert.NoError(t, ctx.FinalizeFunction(fDecl, false))
	assert.NoError(t, ctx.FinalizeFunction(gDecl, false))
	assert.NoError(t, ctx.FinalizeVariable(pDecl))

	assert.NoError(t, ctx.FinalizeCompilationUnit())

	gFn, found := ctx.Store().LookupFunc(gDecl)
	assert.True(t, found)
	assert.True(t, gFn.Needed, "address-taken function must be discovered via its variable's initializer")

	assert.NoError(t, ctx.Optimize())
	assert.True(t, gFn.AsmWritten)
}

func TestScenario_ExternInlineRedefinition(t *testing.T) {
	c := newCaps()
	hDecl := &decl{name: "h"}
	c.bodies["h"] = leafBody()

	ctx := unit.New(c)
	hFn := ctx.Store().FuncNode(hDecl)
	hFn.Public = true
	assert.NoError(t, ctx.FinalizeFunction(hDecl, false))

	callerFn := ctx.Store().FuncNode(&decl{name: "caller"})
	edge := ctx.Store().CreateEdge(callerFn, hFn, nil, 1, 0)

	// Redefinition arrives before whole-unit analysis has started: allowed.
	assert.NoError(t, ctx.FinalizeFunction(hDecl, false))
	assert.True(t, hFn.RedefinedExternInline)

	assert.NoError(t, ctx.FinalizeCompilationUnit())

	assert.Equal(t, node.ReasonRedefinedExternInline, edge.InlineFailed)
}

func TestScenario_RedefinitionAfterAnalysisStartedIsFatal(t *testing.T) {
	c := newCaps()
	hDecl := &decl{name: "h"}
	c.bodies["h"] = leafBody()

	ctx := unit.New(c)
	hFn := ctx.Store().FuncNode(hDecl)
	hFn.Public = true
	assert.NoError(t, ctx.FinalizeFunction(hDecl, false))
	assert.NoError(t, ctx.FinalizeCompilationUnit())

	err := ctx.FinalizeFunction(hDecl, false)
	assert.ErrorIs(t, err, unit.ErrRedefinitionAfterAnalysisStarted)
}

func TestScenario_StaticConstructorPreIPA(t *testing.T) {
	c := newCaps()
	ctx := unit.New(c)

	fn, err := ctx.BuildStaticCdtor('I', leafBody(), 100)
	assert.NoError(t, err)
	assert.True(t, fn.StaticConstructor)

	assert.NoError(t, ctx.FinalizeCompilationUnit())
	assert.NoError(t, ctx.Optimize())

	assert.True(t, fn.AsmWritten)
	assert.True(t, fn.ExternallyVisible, "without native ctor sections the synthetic function stays externally visible")
}

func TestScenario_StaticConstructorPostIPA(t *testing.T) {
	c := newCaps()
	ctx := unit.New(c)

	assert.NoError(t, ctx.FinalizeCompilationUnit())
	assert.NoError(t, ctx.Optimize())

	fn, err := ctx.BuildStaticCdtor('D', leafBody(), 0)
	assert.NoError(t, err)
	assert.True(t, fn.Reachable)
	assert.True(t, fn.Analyzed)
	assert.True(t, fn.AsmWritten, "post-IPA cdtor insertion must emit immediately, bypassing the normal scheduler pass")
}

func TestScenario_DeadComdatIsReclaimed(t *testing.T) {
	c := newCaps()
	ctx := unit.New(c)

	// Simulates a COMDAT definition whose only caller was inlined away,
	// leaving it finalized but never reachable, with no inlined caller to
	// retain it — constructed directly rather than via FinalizeFunction,
	// since a fresh COMDAT definition is itself rooted as needed as soon
	// as it is finalized.
	orphan := ctx.Store().FuncNode(&decl{name: "orphan_comdat"})
	orphan.ComdatGroup = "grp"
	orphan.Finalized = true

	assert.NoError(t, ctx.FinalizeCompilationUnit())
	assert.NoError(t, ctx.Optimize())

	_, found := ctx.Store().LookupFunc(orphan.Decl)
	assert.False(t, found, "a COMDAT node with no inlined caller and no other reachability is reclaimed")
}

func TestScenario_VariableTransitiveDiscovery(t *testing.T) {
	c := newCaps()
	rootDecl, leafDecl := &decl{name: "root_var"}, &decl{name: "leaf_var"}
	c.varInits["root_var"] = &tree{id: "root-init", varRef: leafDecl}

	ctx := unit.New(c)
	v := ctx.Store().VarNode(rootDecl)
	v.Public = true
	v.ForceOutput = true
	assert.NoError(t, ctx.FinalizeVariable(rootDecl))

	assert.NoError(t, ctx.FinalizeCompilationUnit())

	leaf, found := ctx.Store().LookupVar(leafDecl)
	assert.True(t, found)
	assert.True(t, leaf.Needed, "a variable referenced from another variable's initializer must be discovered")
}

// --- targeted unit behavior ------------------------------------------

func TestFinalizeCompilationUnit_SkippedWhenDiagnosticsBlocked(t *testing.T) {
	c := newCaps()
	d := &diags{errs: 1}
	ctx := unit.New(c, unit.WithDiagnostics(d))

	fn := ctx.Store().FuncNode(&decl{name: "f"})
	fn.Public = true
	assert.NoError(t, ctx.FinalizeFunction(fn.Decl, false))

	assert.NoError(t, ctx.FinalizeCompilationUnit())
	assert.False(t, fn.Analyzed, "finalization must be skipped entirely while errors are outstanding")
}

func TestLowerFunction_IsIdempotent(t *testing.T) {
	c := newCaps()
	gDecl := &decl{name: "g"}
	c.bodies["f"] = chainBody(gDecl)
	ctx := unit.New(c)

	fn := ctx.Store().FuncNode(&decl{name: "f"})
	assert.NoError(t, ctx.LowerFunction(fn))
	firstBody := fn.Body

	c.bodies["f"] = leafBody() // a later Lower call must not replace it
	assert.NoError(t, ctx.LowerFunction(fn))
	assert.Same(t, firstBody.(*body), fn.Body.(*body))
}

func TestMarkNeededNode_RoutesThroughStore(t *testing.T) {
	c := newCaps()
	ctx := unit.New(c)
	fn := ctx.Store().FuncNode(&decl{name: "f"})

	ctx.MarkNeededNode(fn)
	assert.True(t, fn.Needed)
	assert.True(t, fn.Reachable)
}

func TestVarpoolMarkNeededNode_RoutesThroughStore(t *testing.T) {
	c := newCaps()
	ctx := unit.New(c)
	v := ctx.Store().VarNode(&decl{name: "v"})

	ctx.VarpoolMarkNeededNode(v)
	assert.True(t, v.Needed)
}

func TestDump_DoesNotPanicAndProducesOutput(t *testing.T) {
	c := newCaps()
	mainDecl, aDecl := &decl{name: "main"}, &decl{name: "a"}
	c.bodies["main"] = chainBody(aDecl)
	c.bodies["a"] = leafBody()

	ctx := unit.New(c)
	mainFn := ctx.Store().FuncNode(mainDecl)
	mainFn.Public = true
	assert.NoError(t, ctx.FinalizeFunction(mainDecl, false))
	assert.NoError(t, ctx.FinalizeFunction(aDecl, false))
	assert.NoError(t, ctx.FinalizeCompilationUnit())
	assert.NoError(t, ctx.Optimize())

	var buf bytes.Buffer
	assert.NotPanics(t, func() { ctx.Dump(&buf) })
	assert.NotEmpty(t, buf.String())
}

func TestStreamingMode_AnalyzesAndExpandsImmediately(t *testing.T) {
	c := newCaps()
	c.bodies["f"] = leafBody()
	ctx := unit.New(c, unit.WithUnitAtATime(false))

	fDecl := &decl{name: "f"}
	fFn := ctx.Store().FuncNode(fDecl)
	fFn.Public = true

	assert.NoError(t, ctx.FinalizeFunction(fDecl, false))
	assert.True(t, fFn.Analyzed)
	assert.True(t, fFn.AsmWritten, "streaming mode expands at the end of a non-nested finalize")
}
