// Package front declares the capability surface a front end must supply to
// the compilation-unit driver: opaque handles for declarations, statements
// and expression trees, plus the callback set (lowering, expansion, the
// inliner oracle) the driver invokes as a black box.
//
// Nothing in this package performs parsing, lowering or code generation —
// it only describes the shapes those external collaborators must have.
package front
