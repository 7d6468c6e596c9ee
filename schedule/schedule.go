package schedule

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gocc-mid/cgraph/front"
	"github.com/gocc-mid/cgraph/node"
)

// ErrInlinedFunctionExpanded indicates ExpandFunction was asked to expand
// a node that has been folded into another: an inlined node's body is gone
// and its call sites already rewritten into the caller, so there is
// nothing left to generate code for.
var ErrInlinedFunctionExpanded = errors.New("schedule: cannot expand a function that has been inlined away")

// ErrNotLowered indicates ExpandFunction was asked to expand a node whose
// body was never lowered.
var ErrNotLowered = errors.New("schedule: cannot expand a function that has not been lowered")

type color int

const (
	white color = iota
	gray
	black
)

// Scheduler computes the callgraph's emission order and drives per-node
// expansion.
type Scheduler struct {
	store *node.Store
	caps  front.Capabilities
	log   *slog.Logger
}

// Option configures a Scheduler at construction time.
type Option func(*Scheduler)

// WithLogger overrides the default slog.Default() logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.log = l }
}

// New returns a Scheduler driving store's nodes through caps.
func New(store *node.Store, caps front.Capabilities, opts ...Option) *Scheduler {
	s := &Scheduler{store: store, caps: caps, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ExpandAll computes a postorder over the callgraph, filters it to nodes
// marked for output, and drives ExpandFunction over the filtered list in
// that order — postorder already visits a node's callees before the node
// itself, which is what emits callees before their callers.
func (s *Scheduler) ExpandAll() error {
	order := s.postorder()

	var outputOrder []node.FuncID
	for _, id := range order {
		if fn := s.store.Func(id); fn != nil && fn.Output {
			outputOrder = append(outputOrder, id)
		}
	}

	for _, id := range outputOrder {
		fn := s.store.Func(id)
		if fn == nil {
			// Reclaimed between computing the order and driving it; its
			// output flag was already cleared by whoever removed it.
			continue
		}

		fn.Output = false
		if err := s.ExpandFunction(fn); err != nil {
			return err
		}
	}

	return nil
}

// postorder computes a DFS postorder over the callgraph's callee edges,
// rooted at every node in insertion order, which is what makes emission
// deterministic across repeated runs over the same input. The callgraph
// is intrinsically cyclic (mutual recursion); a node already in progress
// (gray) is simply not re-descended into, rather than treated as an error
// — unlike a dependency DAG's topological sort, a back-edge here is
// ordinary control flow, not a cycle to reject.
func (s *Scheduler) postorder() []node.FuncID {
	state := make(map[node.FuncID]color)
	order := make([]node.FuncID, 0)

	var visit func(id node.FuncID)
	visit = func(id node.FuncID) {
		if state[id] != white {
			return
		}
		state[id] = gray

		if fn := s.store.Func(id); fn != nil {
			for _, eid := range fn.Callees {
				if e := s.store.Edge(eid); e != nil {
					visit(e.Callee)
				}
			}
		}

		state[id] = black
		order = append(order, id)
	}

	s.store.Funcs(func(fn *node.Function) {
		if state[fn.ID()] == white {
			visit(fn.ID())
		}
	})

	return order
}

// ExpandFunction checks preconditions, announces the expansion, invokes
// the back end, marks the node as emitted, and — unless the node forces
// body preservation — drops the body and severs its callee edges so dead
// call expressions cannot be re-traversed by a later pass.
func (s *Scheduler) ExpandFunction(fn *node.Function) error {
	if fn.InlinedTo != 0 {
		return fmt.Errorf("%w: %s", ErrInlinedFunctionExpanded, fn.Decl.DeclName())
	}
	if !fn.Lowered {
		return fmt.Errorf("%w: %s", ErrNotLowered, fn.Decl.DeclName())
	}

	s.log.Debug("expanding function", "function", fn.Decl.DeclName())

	if err := s.caps.ExpandFunction(fn.Decl); err != nil {
		return fmt.Errorf("schedule: expanding %s: %w", fn.Decl.DeclName(), err)
	}
	fn.AsmWritten = true

	if !fn.PreserveBodyForced {
		fn.Body = nil
		s.store.RemoveCallees(fn)
	}

	return nil
}
