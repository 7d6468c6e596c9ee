package node

import "github.com/gocc-mid/cgraph/front"

// FuncID addresses one Function in a Store's arena. The zero value is
// never a valid ID (arena slot 0 is reserved), so FuncID(0) doubles as
// "absent" for weak references such as Function.InlinedTo.
type FuncID uint32

// VarID addresses one Variable in a Store's arena. Zero means absent.
type VarID uint32

// EdgeID addresses one Edge in a Store's arena. Zero means absent.
type EdgeID uint32

// InlineFailed reason strings, seeded deterministically by the function
// analyzer in priority order: redefinition beats not-inlinable beats
// not-yet-considered. Later inter-procedural passes may clear or
// overwrite these.
const (
	ReasonRedefinedExternInline = "redefined extern inline functions are not considered for inlining"
	ReasonNotInlinable          = "function not inlinable"
	ReasonNotConsidered         = "not considered for inlining"
)

// Function is one function declaration's node in the callgraph.
//
// Lifecycle flags are independent and monotonic unless explicitly reset by
// ResetNode. Local attributes are valid once Analyzed is true; global
// attributes are valid once the inter-procedural pass has run.
type Function struct {
	id   FuncID
	Decl front.Decl

	// Lifecycle flags.
	Finalized  bool
	Reachable  bool
	Needed     bool
	Analyzed   bool
	Lowered    bool
	Output     bool
	AsmWritten bool

	// Local attributes, valid after Analyzed.
	Inlinable             bool
	DisregardInlineLimits bool
	SelfInsns             int
	ExternallyVisible     bool
	Local                 bool
	RedefinedExternInline bool

	// Public is an input to the visibility resolver: whether the front end
	// declared this symbol with external linkage. It is distinct from
	// ExternallyVisible, which the resolver computes from Public gated by
	// reachability and whole-program mode.
	Public bool

	// Global attributes, valid after the inter-procedural pass.
	InlinedTo FuncID // weak reference; FuncID(0) means absent
	Insns     int

	// Relational fields. Callers/Callees are insertion-ordered; removing an
	// edge deletes its ID from both lists (the survivors keep their
	// relative order) and tombstones its arena slot, so EdgeIDs held
	// elsewhere stay valid and resolve to nil.
	Callers   []EdgeID
	Callees   []EdgeID
	NextClone []FuncID

	// Synthesizer- and visibility-related flags, for synthetic static
	// constructor/destructor functions and COMDAT-group membership.
	Artificial         bool
	StaticConstructor  bool
	StaticDestructor   bool
	ComdatGroup        string // empty means "not in a COMDAT group"
	Body               front.Body
	PreserveBodyForced bool // debug dumping or remaining inline clones
}

// ID returns this node's stable identity within its Store.
func (f *Function) ID() FuncID { return f.id }

// Variable is one variable declaration's node in the callgraph. Simpler
// than Function: no edges, no inlining-related attributes.
type Variable struct {
	id   VarID
	Decl front.Decl

	Finalized         bool
	Needed            bool
	Analyzed          bool
	ExternallyVisible bool
	Local             bool
	Public            bool
	Alias             bool
	ForceOutput       bool
}

// ID returns this node's stable identity within its Store.
func (v *Variable) ID() VarID { return v.id }

// Edge is a directed call relation from Caller to Callee, one per call
// site. InlineFailed is the empty string when the edge has been inlined;
// a non-empty string records why it has not been (or not yet) considered.
//
// Edge intentionally has no scratch "aux" field: the verifier keeps its
// scratch state in a local map keyed by EdgeID, scoped to one verification
// pass, rather than on the shared Edge value. This makes "aux absent
// outside verifier scope" true by construction.
type Edge struct {
	id     EdgeID
	Caller FuncID
	Callee FuncID

	Stmt         front.Stmt
	Count        uint64
	LoopDepth    int
	InlineFailed string
}

// ID returns this edge's stable identity within its Store.
func (e *Edge) ID() EdgeID { return e.id }

// Inlined reports whether this edge has been inlined (InlineFailed is
// absent).
func (e *Edge) Inlined() bool { return e.InlineFailed == "" }
