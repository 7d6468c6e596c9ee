package unit

import (
	"log/slog"

	"github.com/gocc-mid/cgraph/cdtor"
	"github.com/gocc-mid/cgraph/front"
	"github.com/gocc-mid/cgraph/node"
)

// Context bundles the compilation-unit driver's state — the callgraph
// store, the ambient "current function" context, the unit_at_a_time mode
// flag, the analysis-started and global-info-ready latches, the ctor/dtor
// synthesizer's name counter, and the front end's capability set — into
// one explicit value threaded through every entry point, rather than a
// set of package-level globals. Every driver operation is a Context
// method.
//
// Context has no mutex: it is single-threaded cooperative, mutated only
// from the driver thread.
type Context struct {
	store *node.Store
	caps  front.Capabilities
	diags front.Diagnostics
	log   *slog.Logger

	unitAtATime bool
	wholeProgram bool

	nativeCdtorSections bool
	cdtorSynth          *cdtor.Synthesizer

	// current is the ambient "current function" slot, set for the
	// duration of one analyze.AnalyzeFunction call and restored afterward.
	current *node.Function

	// analysisStarted latches once FinalizeCompilationUnit begins
	// draining the worklist; a redefinition arriving afterward in
	// whole-unit mode can no longer be reconciled with work already done.
	analysisStarted bool

	// functionFlagsReady latches once the local-attribute analysis pass
	// (the per-function steps driven by FinalizeCompilationUnit) has
	// finished for this quiescence point.
	functionFlagsReady bool

	// firstAnalyzed is the boundary remembered between compilation-unit
	// passes to support intermodule re-entry, stored on the context rather
	// than as process-wide state.
	firstAnalyzed node.FuncID
}

// New returns a Context over a fresh callgraph store, driven by caps.
// Whole-unit mode is the default; use WithUnitAtATime(false) for
// streaming mode.
func New(caps front.Capabilities, opts ...Option) *Context {
	c := &Context{
		store:       node.NewStore(),
		caps:        caps,
		log:         slog.Default(),
		unitAtATime: true,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.cdtorSynth = cdtor.New(c.store, cdtor.WithNativeSections(c.nativeCdtorSections))

	return c
}

// Store exposes the underlying callgraph store for read-only inspection
// (tests, the dumper). Mutating it outside Context's own methods breaks
// the invariants Context maintains.
func (c *Context) Store() *node.Store { return c.store }
