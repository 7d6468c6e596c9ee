package visibility

import "github.com/gocc-mid/cgraph/node"

// Resolver classifies every reachable node as local or externally visible
// and then removes the unreachable ones.
type Resolver struct {
	store        *node.Store
	wholeProgram bool
}

// Option configures a Resolver at construction time.
type Option func(*Resolver)

// WithWholeProgram selects whole-program mode: no symbol is assumed
// visible to another translation unit, so a reachable, non-COMDAT,
// publicly-declared node is still treated as invisible outside the unit.
func WithWholeProgram(enabled bool) Option {
	return func(r *Resolver) { r.wholeProgram = enabled }
}

// New returns a Resolver operating over store.
func New(store *node.Store, opts ...Option) *Resolver {
	r := &Resolver{store: store}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve runs the two-pass classification over every live function and
// variable, then reclaims unreachable nodes (with the COMDAT-aware
// "before_inlining" retention rule).
func (r *Resolver) Resolve() {
	r.store.Funcs(r.resolveFunc)
	r.store.Vars(r.resolveVar)
	r.reclaim()
}

// resolveFunc classifies one reachable function's linkage. Unreachable
// nodes are left untouched here; they are handled by reclaim below.
func (r *Resolver) resolveFunc(fn *node.Function) {
	if !fn.Reachable {
		return
	}

	comdat := fn.ComdatGroup != ""
	fn.ExternallyVisible = comdat || (fn.Public && !r.wholeProgram)

	if !fn.ExternallyVisible {
		// Safe only because whole-program mode implies no symbol crosses
		// the unit boundary, so clearing Public here cannot hide a symbol
		// another translation unit actually needs.
		fn.Public = false
	}

	// A pure declaration whose body lives in another translation unit is
	// exactly "never finalized" here; it is always false once Analyzed,
	// since AnalyzeFunction requires Finalized, but the check is kept
	// explicit for clarity at the call site below.
	external := !fn.Finalized
	fn.Local = !fn.Needed && fn.Analyzed && !external && !fn.ExternallyVisible
}

// resolveVar mirrors resolveFunc for variables.
func (r *Resolver) resolveVar(v *node.Variable) {
	if !v.Needed && !v.ForceOutput {
		return
	}

	v.ExternallyVisible = v.Public && !r.wholeProgram
	if !v.ExternallyVisible {
		v.Public = false
	}

	v.Local = v.Analyzed && !v.ExternallyVisible
}

// reclaim removes every unreachable function and variable, except a
// COMDAT function that has already been inlined into some caller: another
// translation unit may select a different copy of the same COMDAT group
// and still need to resolve calls into this one, so it must survive the
// sweep. A force_output variable survives the same sweep even if nothing
// currently needs it, for the same reason resolveVar above still
// classifies it: the front end has asked for it to be emitted
// unconditionally. Which functions die is decided over the graph as it
// stands before any removal, so removing one dead caller first cannot strip
// a COMDAT callee of the inlined edge that retains it.
func (r *Resolver) reclaim() {
	var dead []*node.Function
	r.store.Funcs(func(fn *node.Function) {
		if fn.Reachable {
			return
		}
		if fn.ComdatGroup != "" && hasInlinedCaller(r.store, fn) {
			return
		}
		dead = append(dead, fn)
	})
	for _, fn := range dead {
		r.store.RemoveNode(fn)
	}

	r.store.Vars(func(v *node.Variable) {
		if !v.Needed && !v.ForceOutput {
			r.store.RemoveVarNode(v)
		}
	})
}

func hasInlinedCaller(store *node.Store, fn *node.Function) bool {
	for _, eid := range fn.Callers {
		if e := store.Edge(eid); e != nil && e.Inlined() {
			return true
		}
	}

	return false
}
