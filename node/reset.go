package node

// ResetNode reverts n to its pre-analysis state ahead of re-analyzing a
// redefined function.
//
// Precondition: !n.Output — resetting an already-emitted node is an
// internal-error condition the caller must have already ruled out.
// ResetNode clears local/global attributes, severs n's outgoing edges
// (callers keep their inbound edges so redefinition can be observed on
// them), marks n as a redefinition, and clears Analyzed so the analyzer
// will run again.
func (s *Store) ResetNode(n *Function) {
	s.RemoveCallees(n)

	n.Analyzed = false
	n.Lowered = false
	n.Inlinable = false
	n.DisregardInlineLimits = false
	n.SelfInsns = 0
	n.ExternallyVisible = false
	n.Local = false
	n.InlinedTo = 0
	n.Insns = 0
	n.RedefinedExternInline = true
	n.Body = nil
}
