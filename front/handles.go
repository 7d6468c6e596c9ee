package front

// Decl identifies a single front-end declaration: a function or a variable.
//
// The driver uses Decl values directly as intern-table map keys, so the
// front end's concrete implementation must be comparable (a pointer type or
// a value type with no non-comparable fields) and must stay stable for the
// lifetime of the node it denotes — the same declaration must always
// compare equal to itself, and never to a different declaration.
type Decl interface {
	// DeclName returns a diagnostic name, used only for logging and the
	// callgraph dumper. It has no bearing on identity.
	DeclName() string
}

// Stmt identifies one statement inside a function body's control-flow
// graph. Like Decl, it is used as a map key (by the verifier's bijection
// check) and must be comparable and stable.
//
// A Stmt may additionally represent a call: Call reports the resolvable
// callee, if any.
type Stmt interface {
	// Call reports whether this statement contains a resolvable call
	// expression, and if so, the callee declaration.
	Call() (callee Decl, ok bool)

	// Args returns the call's argument sub-trees. The edge builder consults
	// it only for call statements; a non-call statement is walked through
	// Tree instead.
	Args() []Tree

	// AssignTarget returns the left-hand-side tree of an assignment-shaped
	// statement, if any.
	AssignTarget() (Tree, bool)

	// Tree returns the entire statement as a walkable expression tree. Used
	// by the edge builder for statements that are not a call.
	Tree() Tree
}

// Tree is an opaque expression or initializer sub-tree handed to the
// reference walker. Its shape is entirely front-end defined; the walker
// only needs identity (for its per-invocation dedup set) and delegates any
// tree it does not itself understand to Capabilities.AnalyzeExpr.
type Tree interface {
	// TreeID returns a stable identity for this sub-tree, used as the
	// reference walker's dedup-set key. Distinct sub-trees must return
	// distinct values; revisiting the same sub-tree must return the same
	// value.
	TreeID() any

	// VarRef reports whether this tree is a direct reference to a static or
	// external variable, and if so, the referenced declaration.
	VarRef() (Decl, bool)

	// FuncAddr reports whether this tree takes a function's address (``&f``
	// or a descriptor form), and if so, the referenced declaration.
	FuncAddr() (Decl, bool)

	// IsTypeOrDecl reports whether this sub-tree is a type or declaration
	// node, which by construction cannot itself contain references and is
	// therefore pruned by the walker without recursing into it.
	IsTypeOrDecl() bool

	// Children returns this tree's immediate sub-trees, for recursive
	// walking of shapes the walker understands natively.
	Children() []Tree
}

// Block is one basic block of a lowered function body's control-flow graph.
type Block interface {
	// Stmts returns the block's statements in execution order.
	Stmts() []Stmt

	// Count is the profile-estimated execution count ("weight") of this
	// block, attached to every edge built from a call site within it.
	Count() uint64

	// LoopDepth is the loop nesting depth of this block.
	LoopDepth() int
}

// Body is a lowered function body: its control-flow graph plus any locally
// declared static variables whose initializers must also be walked.
type Body interface {
	// Blocks returns the body's basic blocks in block order.
	Blocks() []Block

	// LocalStatics returns the declarations of static variables declared
	// inside this function body, which the edge builder finalizes (in
	// whole-unit mode) and walks for further references.
	LocalStatics() []Decl

	// Initializer returns the initializer tree for decl, if decl has one.
	// Used for this function's local statics; top-level variable
	// initializers come from Capabilities.VarInitializer instead.
	Initializer(decl Decl) (Tree, bool)
}

// InlineVerdict is the inliner oracle's answer for one function: local
// inlinability, whether inline size limits should be disregarded for it,
// and a cost estimate.
type InlineVerdict struct {
	// Inlinable reports whether this function is a candidate for inlining
	// at any call site, independent of any particular caller.
	Inlinable bool

	// DisregardInlineLimits reports whether size-limit heuristics should be
	// skipped when considering this function for inlining (e.g. functions
	// marked `always_inline` in the source language).
	DisregardInlineLimits bool

	// SelfInsns is the cost estimator's instruction-count estimate for this
	// function's own body, before any inlining.
	SelfInsns int
}

// Diagnostics reports the front end's accumulated error state. A non-zero
// ErrorCount or SorryCount short-circuits later analysis and emission
// phases, since those phases assume a consistent, error-free unit.
type Diagnostics interface {
	ErrorCount() int
	SorryCount() int
}

// Capabilities is the capability set a front end supplies to the driver.
// This externalizes the front-end contract as a single interface value
// passed into the unit.Context constructor, rather than a set of global
// function pointers.
type Capabilities interface {
	// AnalyzeExpr handles a tree shape the reference walker does not itself
	// understand. walkSubtrees tells the front end whether the walker would
	// otherwise still recurse into tree's children; data is an opaque
	// pass-through the front end may use for its own bookkeeping.
	AnalyzeExpr(tree Tree, walkSubtrees bool, data any) error

	// Lower produces (or returns, if already lowered) decl's body. Must be
	// idempotent: calling it twice on the same decl returns the same Body
	// without redoing work.
	Lower(decl Decl) (Body, error)

	// Inspect queries the inliner oracle and cost estimator for decl.
	Inspect(decl Decl) InlineVerdict

	// VarInitializer returns decl's initializer tree, if the top-level
	// variable declaration decl has one.
	VarInitializer(decl Decl) (Tree, bool)

	// ExpandFunction invokes the back end to produce machine code for decl.
	ExpandFunction(decl Decl) error

	// Collect runs a garbage-collection safe point over the tree IR. Called
	// only from the two places it is safe to do so: end of a non-nested
	// FinalizeFunction, and end of FinalizeCompilationUnit.
	Collect()
}
