package unit

import "errors"

// ErrRedefinitionAfterAnalysisStarted indicates a redefinition arrived in
// whole-unit mode after FinalizeCompilationUnit had already begun draining
// the worklist — an unsupported front-end combination with no recovery
// path, since the worklist may already have committed decisions based on
// the old body.
var ErrRedefinitionAfterAnalysisStarted = errors.New("unit: redefinition in whole-unit mode after analysis has started")

// ErrRedefinitionAfterOutput indicates a redefinition arrived for a node
// that has already been emitted — ResetNode's own precondition, since
// code has already been generated from the old body and cannot be
// retracted.
var ErrRedefinitionAfterOutput = errors.New("unit: cannot redefine a function that has already been output")
