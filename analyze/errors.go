package analyze

import "errors"

// ErrNotReady indicates AnalyzeFunction was called on a node that is not
// yet finalized and reachable, or that is already analyzed — both are
// precondition violations the caller (the unit driver) must not let
// happen in ordinary operation.
var ErrNotReady = errors.New("analyze: function node not ready for analysis")
